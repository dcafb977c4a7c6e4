// file: internals/features/matching/requests/scheduler/request_scheduler.go
package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"tutorin_backend/internals/features/matching/requests/model"
	"tutorin_backend/internals/notifier"
)

// StartRequestLifecycleScheduler: sweep berkala lifecycle trial/session request.
// Satu pass pakai SATU timestamp `now`, urutan tetap: reminder dulu, baru
// hard delete — supaya tidak ada request terhapus tanpa pernah diingatkan.
//
// Baris yang lewat window TIDAK langsung dipersist expired: statusnya tetap
// PENDING selama masa tenggang supaya pemilik masih bisa memperpanjang
// setelah menerima reminder. Expiry tetap berlaku ke pembaca lain lewat
// EffectiveRequestStatus (lazy). Persist expired hanya jalan di jalur legacy
// ExpireOldRequests (REQUEST_SWEEP_PERSIST_EXPIRED=true).
func StartRequestLifecycleScheduler(db *gorm.DB, events notifier.Publisher) {
	go func() {
		intervalMin := 15
		if val := os.Getenv("REQUEST_SWEEP_INTERVAL_MINUTES"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				intervalMin = parsed
			}
		}
		legacyExpire := os.Getenv("REQUEST_SWEEP_PERSIST_EXPIRED") == "true"

		for {
			now := time.Now()
			SendExpirationReminders(db, events, now)
			AutoDeleteExpiredRequests(db, now)
			if legacyExpire {
				ExpireOldRequests(db, now)
			}

			time.Sleep(time.Duration(intervalMin) * time.Minute)
		}
	}()
}

// SendExpirationReminders: request yang lewat window dan belum pernah
// diingatkan dapat reminder + final deadline (now + 3 hari). Status baris
// dibiarkan apa adanya — PENDING yang lewat window tetap PENDING supaya
// masih bisa diperpanjang selama masa tenggang. Baris yang keburu dipersist
// expired (lazy persist di accept, atau jalur legacy) ikut diingatkan juga.
func SendExpirationReminders(db *gorm.DB, events notifier.Publisher, now time.Time) {
	finalDeadline := now.Add(model.FinalGracePeriod)

	var trials []model.TrialRequestModel
	if err := db.
		Where("trial_request_reminder_sent_at IS NULL").
		Where("(trial_request_status = ? AND trial_request_expires_at <= ?) OR trial_request_status = ?",
			model.RequestStatusPending, now, model.RequestStatusExpired).
		Limit(200).
		Find(&trials).Error; err != nil {
		log.Printf("[REQUEST-SWEEP ERROR] Gagal ambil trial untuk reminder: %v", err)
	}
	for i := range trials {
		t := &trials[i]
		res := db.Model(&model.TrialRequestModel{}).
			Where("trial_request_id = ? AND trial_request_reminder_sent_at IS NULL", t.TrialRequestID).
			Updates(map[string]interface{}{
				"trial_request_reminder_sent_at": now,
				"trial_request_final_expires_at": finalDeadline,
			})
		if res.Error != nil || res.RowsAffected == 0 {
			continue
		}
		notifier.FireAndForget(events, notifier.TopicRequestReminder, map[string]interface{}{
			"request_type":     "trial",
			"request_id":       t.TrialRequestID,
			"student_id":       t.TrialRequestStudentID,
			"contact_email":    t.TrialRequestContactEmail,
			"final_expires_at": finalDeadline,
		})
	}

	var sessions []model.SessionRequestModel
	if err := db.
		Where("session_request_reminder_sent_at IS NULL").
		Where("(session_request_status = ? AND session_request_expires_at <= ?) OR session_request_status = ?",
			model.RequestStatusPending, now, model.RequestStatusExpired).
		Limit(200).
		Find(&sessions).Error; err != nil {
		log.Printf("[REQUEST-SWEEP ERROR] Gagal ambil session request untuk reminder: %v", err)
	}
	for i := range sessions {
		s := &sessions[i]
		res := db.Model(&model.SessionRequestModel{}).
			Where("session_request_id = ? AND session_request_reminder_sent_at IS NULL", s.SessionRequestID).
			Updates(map[string]interface{}{
				"session_request_reminder_sent_at": now,
				"session_request_final_expires_at": finalDeadline,
			})
		if res.Error != nil || res.RowsAffected == 0 {
			continue
		}
		notifier.FireAndForget(events, notifier.TopicRequestReminder, map[string]interface{}{
			"request_type":     "session",
			"request_id":       s.SessionRequestID,
			"student_id":       s.SessionRequestStudentID,
			"contact_email":    s.SessionRequestContactEmail,
			"final_expires_at": finalDeadline,
		})
	}
}

// AutoDeleteExpiredRequests: hard delete request yang sudah lewat masa
// tenggang. Hanya menyentuh baris yang PERNAH diingatkan (final deadline
// terpasang); yang belum diingatkan dibiarkan untuk pass reminder.
func AutoDeleteExpiredRequests(db *gorm.DB, now time.Time) {
	res := db.Unscoped().
		Where("trial_request_status IN ? AND trial_request_final_expires_at IS NOT NULL AND trial_request_final_expires_at <= ?",
			[]string{model.RequestStatusPending, model.RequestStatusExpired}, now).
		Delete(&model.TrialRequestModel{})
	if res.Error != nil {
		log.Printf("[REQUEST-SWEEP ERROR] Gagal hapus trial expired: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("[REQUEST-SWEEP] %d trial request dihapus permanen", res.RowsAffected)
	}

	res = db.Unscoped().
		Where("session_request_status IN ? AND session_request_final_expires_at IS NOT NULL AND session_request_final_expires_at <= ?",
			[]string{model.RequestStatusPending, model.RequestStatusExpired}, now).
		Delete(&model.SessionRequestModel{})
	if res.Error != nil {
		log.Printf("[REQUEST-SWEEP ERROR] Gagal hapus session request expired: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("[REQUEST-SWEEP] %d session request dihapus permanen", res.RowsAffected)
	}
}

// ExpireOldRequests: jalur legacy — persist status expired untuk pending
// yang lewat window (cache dari EffectiveRequestStatus). Konsekuensinya
// perpanjangan di masa tenggang jadi tidak mungkin, makanya tidak lagi
// jalan default. Conditional update, aman terhadap accept/cancel yang
// berlomba.
func ExpireOldRequests(db *gorm.DB, now time.Time) {
	res := db.Model(&model.TrialRequestModel{}).
		Where("trial_request_status = ? AND trial_request_expires_at <= ?", model.RequestStatusPending, now).
		Update("trial_request_status", model.RequestStatusExpired)
	if res.Error != nil {
		log.Printf("[REQUEST-SWEEP ERROR] Gagal tandai trial expired: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("[REQUEST-SWEEP] %d trial request ditandai expired", res.RowsAffected)
	}

	res = db.Model(&model.SessionRequestModel{}).
		Where("session_request_status = ? AND session_request_expires_at <= ?", model.RequestStatusPending, now).
		Update("session_request_status", model.RequestStatusExpired)
	if res.Error != nil {
		log.Printf("[REQUEST-SWEEP ERROR] Gagal tandai session request expired: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("[REQUEST-SWEEP] %d session request ditandai expired", res.RowsAffected)
	}
}
