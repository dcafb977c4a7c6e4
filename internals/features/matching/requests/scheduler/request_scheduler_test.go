// file: internals/features/matching/requests/scheduler/request_scheduler_test.go
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

	"tutorin_backend/internals/features/matching/requests/model"
	"tutorin_backend/internals/notifier"
)

// DDL ditulis manual: skema produksi pakai default Postgres
// (gen_random_uuid) yang tidak dikenal sqlite, jadi ID diisi eksplisit.
func openSweepDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // satu koneksi = satu memory DB

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
	return db
}

func seedTrial(t *testing.T, db *gorm.DB, status string, expiresAt time.Time) model.TrialRequestModel {
	t.Helper()
	trial := model.TrialRequestModel{
		TrialRequestID:           uuid.New(),
		TrialRequestStudentID:    uuid.New(),
		TrialRequestSubjectID:    uuid.New(),
		TrialRequestDescription:  "butuh bantuan persiapan ujian",
		TrialRequestContactEmail: "siswa@example.com",
		TrialRequestStatus:       status,
		TrialRequestExpiresAt:    expiresAt,
	}
	require.NoError(t, db.Create(&trial).Error)
	return trial
}

// Request yang lewat window TIDAK dipersist expired oleh sweep: baris tetap
// PENDING, dapat reminder + final deadline, dan masih bisa diperpanjang
// selama masa tenggang.
func TestReminderSweepKeepsLapsedPendingExtendable(t *testing.T) {
	db := openSweepDB(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	events := notifier.NewLogPublisher()

	trial := seedTrial(t, db, model.RequestStatusPending, now.Add(-time.Hour))

	SendExpirationReminders(db, events, now)

	var got model.TrialRequestModel
	require.NoError(t, db.First(&got, "trial_request_id = ?", trial.TrialRequestID).Error)
	assert.Equal(t, model.RequestStatusPending, got.TrialRequestStatus)
	require.NotNil(t, got.TrialRequestReminderSentAt)
	require.NotNil(t, got.TrialRequestFinalExpiresAt)
	assert.WithinDuration(t, now.Add(model.FinalGracePeriod), *got.TrialRequestFinalExpiresAt, time.Second)

	// Inilah eskalasi reminder → perpanjangan: pembaca melihat expired
	// (lazy), tapi pemilik masih bisa menyelamatkan requestnya.
	assert.Equal(t, model.RequestStatusExpired, got.EffectiveStatus(now))
	assert.True(t, got.Extendable(now))

	// Selama masa tenggang belum habis, delete tidak menyentuhnya.
	AutoDeleteExpiredRequests(db, now.Add(model.FinalGracePeriod-time.Minute))
	var count int64
	db.Model(&model.TrialRequestModel{}).Where("trial_request_id = ?", trial.TrialRequestID).Count(&count)
	assert.EqualValues(t, 1, count)

	// Lewat final deadline → hapus permanen.
	AutoDeleteExpiredRequests(db, now.Add(model.FinalGracePeriod+time.Minute))
	db.Model(&model.TrialRequestModel{}).Where("trial_request_id = ?", trial.TrialRequestID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestReminderSweepCoversSessionRequests(t *testing.T) {
	db := openSweepDB(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	sr := model.SessionRequestModel{
		SessionRequestID:           uuid.New(),
		SessionRequestStudentID:    uuid.New(),
		SessionRequestSubjectID:    uuid.New(),
		SessionRequestDescription:  "lanjutan sesi matematika mingguan",
		SessionRequestContactEmail: "siswa@example.com",
		SessionRequestStatus:       model.RequestStatusPending,
		SessionRequestExpiresAt:    now.Add(-time.Hour),
	}
	require.NoError(t, db.Create(&sr).Error)

	SendExpirationReminders(db, notifier.NewLogPublisher(), now)

	var got model.SessionRequestModel
	require.NoError(t, db.First(&got, "session_request_id = ?", sr.SessionRequestID).Error)
	assert.Equal(t, model.RequestStatusPending, got.SessionRequestStatus)
	require.NotNil(t, got.SessionRequestFinalExpiresAt)
	assert.True(t, got.Extendable(now))
}

// Reminder cuma sekali: pass kedua tidak menggeser final deadline.
func TestReminderSweepIsOneShot(t *testing.T) {
	db := openSweepDB(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	events := notifier.NewLogPublisher()

	trial := seedTrial(t, db, model.RequestStatusPending, now.Add(-time.Hour))

	SendExpirationReminders(db, events, now)
	SendExpirationReminders(db, events, now.Add(24*time.Hour))

	var got model.TrialRequestModel
	require.NoError(t, db.First(&got, "trial_request_id = ?", trial.TrialRequestID).Error)
	require.NotNil(t, got.TrialRequestFinalExpiresAt)
	assert.WithinDuration(t, now.Add(model.FinalGracePeriod), *got.TrialRequestFinalExpiresAt, time.Second)
	assert.WithinDuration(t, now, *got.TrialRequestReminderSentAt, time.Second)
}

// Urutan reminder → delete: baris overdue yang BELUM pernah diingatkan
// tidak boleh dihapus — setiap request dapat masa tenggang penuh dulu.
func TestDeleteSweepSkipsUnremindedRows(t *testing.T) {
	db := openSweepDB(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	trial := seedTrial(t, db, model.RequestStatusPending, now.Add(-30*24*time.Hour))

	AutoDeleteExpiredRequests(db, now)

	var count int64
	db.Model(&model.TrialRequestModel{}).Where("trial_request_id = ?", trial.TrialRequestID).Count(&count)
	assert.EqualValues(t, 1, count)
}

// Jalur legacy: persist expired untuk pending yang lewat window; status
// lain tidak disentuh.
func TestExpireOldRequestsLegacyPath(t *testing.T) {
	db := openSweepDB(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	lapsed := seedTrial(t, db, model.RequestStatusPending, now.Add(-time.Hour))
	live := seedTrial(t, db, model.RequestStatusPending, now.Add(time.Hour))
	accepted := seedTrial(t, db, model.RequestStatusAccepted, now.Add(-time.Hour))

	ExpireOldRequests(db, now)

	var got model.TrialRequestModel
	require.NoError(t, db.First(&got, "trial_request_id = ?", lapsed.TrialRequestID).Error)
	assert.Equal(t, model.RequestStatusExpired, got.TrialRequestStatus)

	got = model.TrialRequestModel{}
	require.NoError(t, db.First(&got, "trial_request_id = ?", live.TrialRequestID).Error)
	assert.Equal(t, model.RequestStatusPending, got.TrialRequestStatus)

	got = model.TrialRequestModel{}
	require.NoError(t, db.First(&got, "trial_request_id = ?", accepted.TrialRequestID).Error)
	assert.Equal(t, model.RequestStatusAccepted, got.TrialRequestStatus)
}
