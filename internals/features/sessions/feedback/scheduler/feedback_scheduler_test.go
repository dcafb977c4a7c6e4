// file: internals/features/sessions/feedback/scheduler/feedback_scheduler_test.go
package scheduler

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
	"tutorin_backend/internals/notifier"
)

func openFeedbackDB(t *testing.T) *gorm.DB {
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
			feedback_id TEXT PRIMARY KEY,
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
		`CREATE TABLE sessions (
			session_id TEXT PRIMARY KEY,
			session_student_id TEXT NOT NULL,
			session_tutor_id TEXT NOT NULL,
			session_subject_id TEXT NOT NULL,
			session_chat_id TEXT,
			session_description TEXT,
			session_start_time DATETIME NOT NULL,
			session_end_time DATETIME NOT NULL,
			session_duration INTEGER NOT NULL,
			session_price_per_hour REAL NOT NULL,
			session_total_price REAL NOT NULL,
			session_status TEXT NOT NULL DEFAULT 'scheduled',
			session_reschedule TEXT,
			session_started_at DATETIME,
			session_completed_at DATETIME,
			session_cancelled_at DATETIME,
			session_cancelled_by TEXT,
			session_cancellation_reason TEXT,
			session_teacher_completion TEXT NOT NULL DEFAULT 'pending',
			session_created_at DATETIME,
			session_updated_at DATETIME,
			session_deleted_at DATETIME
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

func seedOverdueFeedback(t *testing.T, db *gorm.DB, now time.Time) (feedbackModel.TutorSessionFeedbackModel, sessionModel.SessionModel, userModel.UserModel) {
	t.Helper()

	tutor := userModel.UserModel{
		ID:                   uuid.New(),
		UserName:             "Pak Budi",
		Email:                "budi@example.com",
		Password:             "rahasia-sekali",
		Role:                 "tutor",
		PendingFeedbackCount: 1,
	}
	require.NoError(t, db.Create(&tutor).Error)

	session := sessionModel.SessionModel{
		SessionID:           uuid.New(),
		SessionStudentID:    uuid.New(),
		SessionTutorID:      tutor.ID,
		SessionSubjectID:    uuid.New(),
		SessionStartTime:    now.Add(-48 * time.Hour),
		SessionEndTime:      now.Add(-47 * time.Hour),
		SessionDuration:     60,
		SessionPricePerHour: 50000,
		SessionTotalPrice:   50000,
		SessionStatus:       sessionModel.SessionStatusCompleted,
	}
	require.NoError(t, db.Create(&session).Error)

	fb := feedbackModel.TutorSessionFeedbackModel{
		FeedbackID:        uuid.New(),
		FeedbackSessionID: session.SessionID,
		FeedbackTutorID:   tutor.ID,
		FeedbackStudentID: session.SessionStudentID,
		FeedbackDueDate:   now.Add(-time.Hour),
		FeedbackStatus:    feedbackModel.FeedbackStatusPending,
	}
	require.NoError(t, db.Create(&fb).Error)

	return fb, session, tutor
}

// Forfeiture idempoten: pass kedua pada baris yang sama tidak menghanguskan
// dua kali — stamp pertama yang bertahan, counter tutor turun tepat sekali.
func TestForfeitOverdueFeedbackIsIdempotent(t *testing.T) {
	db := openFeedbackDB(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	events := notifier.NewLogPublisher()

	fb, session, tutor := seedOverdueFeedback(t, db, now)

	ForfeitOverdueFeedback(db, events, now)

	var got feedbackModel.TutorSessionFeedbackModel
	require.NoError(t, db.First(&got, "feedback_id = ?", fb.FeedbackID).Error)
	assert.True(t, got.FeedbackPaymentForfeited)
	require.NotNil(t, got.FeedbackForfeitedAmount)
	assert.Equal(t, session.SessionTotalPrice, *got.FeedbackForfeitedAmount)
	require.NotNil(t, got.FeedbackForfeitedAt)
	assert.WithinDuration(t, now, *got.FeedbackForfeitedAt, time.Second)

	var gotSession sessionModel.SessionModel
	require.NoError(t, db.First(&gotSession, "session_id = ?", session.SessionID).Error)
	assert.Equal(t, sessionModel.TeacherCompletionNotApplicable, gotSession.SessionTeacherCompletion)

	var gotTutor userModel.UserModel
	require.NoError(t, db.First(&gotTutor, "id = ?", tutor.ID).Error)
	assert.Equal(t, 0, gotTutor.PendingFeedbackCount)

	// Pass kedua: no-op total.
	later := now.Add(6 * time.Hour)
	ForfeitOverdueFeedback(db, events, later)

	require.NoError(t, db.First(&got, "feedback_id = ?", fb.FeedbackID).Error)
	assert.WithinDuration(t, now, *got.FeedbackForfeitedAt, time.Second)

	require.NoError(t, db.First(&gotTutor, "id = ?", tutor.ID).Error)
	assert.Equal(t, 0, gotTutor.PendingFeedbackCount)
}

// Feedback yang belum jatuh tempo atau sudah submitted tidak disentuh sweep.
func TestForfeitOverdueFeedbackSkipsNonOverdue(t *testing.T) {
	db := openFeedbackDB(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	fb, _, _ := seedOverdueFeedback(t, db, now)
	require.NoError(t, db.Model(&feedbackModel.TutorSessionFeedbackModel{}).
		Where("feedback_id = ?", fb.FeedbackID).
		Update("feedback_due_date", now.Add(24*time.Hour)).Error)

	ForfeitOverdueFeedback(db, notifier.NewLogPublisher(), now)

	var got feedbackModel.TutorSessionFeedbackModel
	require.NoError(t, db.First(&got, "feedback_id = ?", fb.FeedbackID).Error)
	assert.False(t, got.FeedbackPaymentForfeited)
	assert.Nil(t, got.FeedbackForfeitedAt)
}
