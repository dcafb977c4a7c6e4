// file: internals/features/sessions/sessions/scheduler/session_scheduler_test.go
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

	"tutorin_backend/internals/features/sessions/sessions/model"
)

func openSessionDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec(`CREATE TABLE sessions (
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
	)`).Error)
	return db
}

func seedSession(t *testing.T, db *gorm.DB, status string, start, end time.Time) model.SessionModel {
	t.Helper()
	s := model.SessionModel{
		SessionID:           uuid.New(),
		SessionStudentID:    uuid.New(),
		SessionTutorID:      uuid.New(),
		SessionSubjectID:    uuid.New(),
		SessionStartTime:    start,
		SessionEndTime:      end,
		SessionDuration:     int(end.Sub(start) / time.Minute),
		SessionPricePerHour: 50000,
		SessionTotalPrice:   50000 * end.Sub(start).Hours(),
		SessionStatus:       status,
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func reloadSession(t *testing.T, db *gorm.DB, id uuid.UUID) model.SessionModel {
	t.Helper()
	var s model.SessionModel
	require.NoError(t, db.First(&s, "session_id = ?", id).Error)
	return s
}

// Sesi yang start-nya 5 menit lagi masuk STARTING_SOON dalam satu pass —
// tidak melompat ke IN_PROGRESS.
func TestSweepUpcomingSessionEntersStartingSoonOnly(t *testing.T) {
	db := openSessionDB(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	s := seedSession(t, db, model.SessionStatusScheduled, now.Add(5*time.Minute), now.Add(65*time.Minute))

	SweepSessionStatuses(db, now)

	got := reloadSession(t, db, s.SessionID)
	assert.Equal(t, model.SessionStatusStartingSoon, got.SessionStatus)
	assert.Nil(t, got.SessionStartedAt)
}

// Start sudah lewat, end masih di depan: satu pass langsung ke IN_PROGRESS
// dan stamp started_at — dari SCHEDULED maupun STARTING_SOON.
func TestSweepPastStartGoesInProgressDirectly(t *testing.T) {
	db := openSessionDB(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	fromScheduled := seedSession(t, db, model.SessionStatusScheduled, now.Add(-10*time.Minute), now.Add(50*time.Minute))
	fromStartingSoon := seedSession(t, db, model.SessionStatusStartingSoon, now.Add(-10*time.Minute), now.Add(50*time.Minute))

	SweepSessionStatuses(db, now)

	for _, id := range []uuid.UUID{fromScheduled.SessionID, fromStartingSoon.SessionID} {
		got := reloadSession(t, db, id)
		assert.Equal(t, model.SessionStatusInProgress, got.SessionStatus)
		require.NotNil(t, got.SessionStartedAt)
		assert.WithinDuration(t, now, *got.SessionStartedAt, time.Second)
	}
}

// End sudah lewat tanpa completion → EXPIRED; status terminal tidak disentuh.
func TestSweepExpiresOverdueAndLeavesTerminalAlone(t *testing.T) {
	db := openSessionDB(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	overdue := seedSession(t, db, model.SessionStatusInProgress, now.Add(-2*time.Hour), now.Add(-time.Hour))
	awaiting := seedSession(t, db, model.SessionStatusAwaitingResponse, now.Add(-2*time.Hour), now.Add(-time.Hour))
	completed := seedSession(t, db, model.SessionStatusCompleted, now.Add(-2*time.Hour), now.Add(-time.Hour))

	SweepSessionStatuses(db, now)

	assert.Equal(t, model.SessionStatusExpired, reloadSession(t, db, overdue.SessionID).SessionStatus)
	assert.Equal(t, model.SessionStatusExpired, reloadSession(t, db, awaiting.SessionID).SessionStatus)
	assert.Equal(t, model.SessionStatusCompleted, reloadSession(t, db, completed.SessionID).SessionStatus)
}
