// file: internals/features/sessions/sessions/service/completion_service_test.go
package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	feedbackModel "tutorin_backend/internals/features/sessions/feedback/model"
	sessionModel "tutorin_backend/internals/features/sessions/sessions/model"
	userModel "tutorin_backend/internals/features/users/user/model"
)

func openServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	ddl := []string{
		`CREATE TABLE tutor_session_feedbacks (
			feedback_id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			feedback_session_id TEXT NOT NULL UNIQUE,
			feedback_tutor_id TEXT NOT NULL,
			feedback_student_id TEXT NOT NULL,
			feedback_rating INTEGER,
			feedback_type TEXT,
			feedback_text TEXT,
			feedback_audio_url TEXT,
			feedback_audio_duration INTEGER,
			feedback_due_date DATETIME NOT NULL,
			feedback_status TEXT NOT NULL DEFAULT 'pending',
			feedback_submitted_at DATETIME,
			feedback_is_late INTEGER NOT NULL DEFAULT 0,
			feedback_payment_forfeited INTEGER NOT NULL DEFAULT 0,
			feedback_forfeited_amount REAL,
			feedback_forfeited_at DATETIME,
			feedback_created_at DATETIME,
			feedback_updated_at DATETIME,
			feedback_deleted_at DATETIME
		)`,
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			user_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'student',
			is_verified INTEGER NOT NULL DEFAULT 0,
			rating_average REAL NOT NULL DEFAULT 0,
			rating_count INTEGER NOT NULL DEFAULT 0,
			pending_feedback_count INTEGER NOT NULL DEFAULT 0,
			has_completed_trial INTEGER NOT NULL DEFAULT 0,
			current_plan TEXT,
			guardian_email TEXT,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// Kewajiban feedback dibuat untuk sesi completed MAUPUN no-show — dua-duanya
// menuntut penilaian tutor. Panggilan ulang untuk sesi yang sama tidak
// menambah baris maupun counter (unique per sesi).
func TestEnsureFeedbackObligation(t *testing.T) {
	db := openServiceDB(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	tutor := userModel.UserModel{
		ID:       uuid.New(),
		UserName: "Bu Sari",
		Email:    "sari@example.com",
		Password: "rahasia-sekali",
		Role:     "tutor",
	}
	require.NoError(t, db.Create(&tutor).Error)

	session := sessionModel.SessionModel{
		SessionID:        uuid.New(),
		SessionStudentID: uuid.New(),
		SessionTutorID:   tutor.ID,
		SessionSubjectID: uuid.New(),
		SessionStartTime: now.Add(-2 * time.Hour),
		SessionEndTime:   now.Add(-time.Hour),
		SessionDuration:  60,
		SessionStatus:    sessionModel.SessionStatusNoShow,
	}

	EnsureFeedbackObligation(db, &session, now)

	var fb feedbackModel.TutorSessionFeedbackModel
	require.NoError(t, db.First(&fb, "feedback_session_id = ?", session.SessionID).Error)
	assert.Equal(t, feedbackModel.FeedbackStatusPending, fb.FeedbackStatus)
	assert.Equal(t, tutor.ID, fb.FeedbackTutorID)
	assert.WithinDuration(t, feedbackModel.FeedbackDueDate(now), fb.FeedbackDueDate, time.Second)
	assert.True(t, fb.CanSubmit(now))

	var gotTutor userModel.UserModel
	require.NoError(t, db.First(&gotTutor, "id = ?", tutor.ID).Error)
	assert.Equal(t, 1, gotTutor.PendingFeedbackCount)

	// Panggilan kedua: ditolak unique index, counter tidak naik lagi.
	EnsureFeedbackObligation(db, &session, now.Add(time.Hour))

	var count int64
	db.Model(&feedbackModel.TutorSessionFeedbackModel{}).
		Where("feedback_session_id = ?", session.SessionID).Count(&count)
	assert.EqualValues(t, 1, count)

	require.NoError(t, db.First(&gotTutor, "id = ?", tutor.ID).Error)
	assert.Equal(t, 1, gotTutor.PendingFeedbackCount)
}
