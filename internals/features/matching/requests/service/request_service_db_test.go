// file: internals/features/matching/requests/service/request_service_db_test.go
package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "tutorin_backend/internals/databases"
	"tutorin_backend/internals/features/matching/requests/model"
)

func openRequestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	ddl := []string{
		`CREATE TABLE trial_requests (
			trial_request_id TEXT PRIMARY KEY,
			trial_request_student_id TEXT NOT NULL,
			trial_request_subject_id TEXT NOT NULL,
			trial_request_description TEXT NOT NULL,
			trial_request_availability TEXT,
			trial_request_grade TEXT,
			trial_request_school TEXT,
			trial_request_contact_email TEXT NOT NULL,
			trial_request_status TEXT NOT NULL DEFAULT 'pending',
			trial_request_expires_at DATETIME NOT NULL,
			trial_request_extensions_count INTEGER NOT NULL DEFAULT 0,
			trial_request_reminder_sent_at DATETIME,
			trial_request_final_expires_at DATETIME,
			trial_request_accepted_tutor_id TEXT,
			trial_request_chat_id TEXT,
			trial_request_accepted_at DATETIME,
			trial_request_cancelled_at DATETIME,
			trial_request_cancel_reason TEXT,
			trial_request_created_at DATETIME,
			trial_request_updated_at DATETIME,
			trial_request_deleted_at DATETIME
		)`,
		`CREATE TABLE session_requests (
			session_request_id TEXT PRIMARY KEY,
			session_request_student_id TEXT NOT NULL,
			session_request_subject_id TEXT NOT NULL,
			session_request_description TEXT NOT NULL,
			session_request_availability TEXT,
			session_request_grade TEXT,
			session_request_school TEXT,
			session_request_preferred_duration INTEGER,
			session_request_contact_email TEXT NOT NULL,
			session_request_status TEXT NOT NULL DEFAULT 'pending',
			session_request_expires_at DATETIME NOT NULL,
			session_request_extensions_count INTEGER NOT NULL DEFAULT 0,
			session_request_reminder_sent_at DATETIME,
			session_request_final_expires_at DATETIME,
			session_request_accepted_tutor_id TEXT,
			session_request_chat_id TEXT,
			session_request_accepted_at DATETIME,
			session_request_cancelled_at DATETIME,
			session_request_cancel_reason TEXT,
			session_request_created_at DATETIME,
			session_request_updated_at DATETIME,
			session_request_deleted_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	// Index produksi yang sama (sintaks partial index portabel).
	database.EnsureIndexesOn(db)
	return db
}

func newTrial(studentID uuid.UUID, status string, expiresAt time.Time) model.TrialRequestModel {
	return model.TrialRequestModel{
		TrialRequestID:           uuid.New(),
		TrialRequestStudentID:    studentID,
		TrialRequestSubjectID:    uuid.New(),
		TrialRequestDescription:  "butuh bantuan fisika dasar",
		TrialRequestContactEmail: "siswa@example.com",
		TrialRequestStatus:       status,
		TrialRequestExpiresAt:    expiresAt,
	}
}

// Satu request pending per student dijaga langsung di DB: dua create yang
// sama-sama lolos cek aplikasi tetap cuma satu yang menang di insert.
func TestPendingRequestUniqueIndex(t *testing.T) {
	db := openRequestDB(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	studentID := uuid.New()

	first := newTrial(studentID, model.RequestStatusPending, now.Add(model.TrialRequestTTL))
	require.NoError(t, db.Create(&first).Error)

	second := newTrial(studentID, model.RequestStatusPending, now.Add(model.TrialRequestTTL))
	err := db.Create(&second).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	// Student lain tidak terblokir; baris non-pending juga tidak kena index.
	other := newTrial(uuid.New(), model.RequestStatusPending, now.Add(model.TrialRequestTTL))
	assert.NoError(t, db.Create(&other).Error)

	cancelled := newTrial(studentID, model.RequestStatusCancelled, now.Add(model.TrialRequestTTL))
	assert.NoError(t, db.Create(&cancelled).Error)
}

// Baris pending lama yang cuma lapsed dilepaskan dulu (persist expired)
// supaya tidak memblokir create baru lewat partial unique index.
func TestExpireLapsedRequestsFreesIndex(t *testing.T) {
	db := openRequestDB(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	studentID := uuid.New()

	stale := newTrial(studentID, model.RequestStatusPending, now.Add(-time.Hour))
	require.NoError(t, db.Create(&stale).Error)

	// Tanpa pembersihan, insert baru tertolak index.
	blocked := newTrial(studentID, model.RequestStatusPending, now.Add(model.TrialRequestTTL))
	require.Error(t, db.Create(&blocked).Error)

	ExpireLapsedRequests(db, studentID, now)

	var got model.TrialRequestModel
	require.NoError(t, db.First(&got, "trial_request_id = ?", stale.TrialRequestID).Error)
	assert.Equal(t, model.RequestStatusExpired, got.TrialRequestStatus)

	fresh := newTrial(studentID, model.RequestStatusPending, now.Add(model.TrialRequestTTL))
	assert.NoError(t, db.Create(&fresh).Error)

	pending, err := HasPendingRequest(db, studentID, now)
	require.NoError(t, err)
	assert.True(t, pending)
}
