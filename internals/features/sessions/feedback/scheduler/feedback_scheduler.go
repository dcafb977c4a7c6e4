// file: internals/features/sessions/feedback/scheduler/feedback_scheduler.go
package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	feedbackModel "tutorin_backend/internals/features/sessions/feedback/model"
	sessionModel "tutorin_backend/internals/features/sessions/sessions/model"
	userModel "tutorin_backend/internals/features/users/user/model"
	"tutorin_backend/internals/notifier"
)

// StartFeedbackScheduler: reminder due date (non-otoritatif) + forfeiture
// untuk feedback yang lewat deadline. Forfeiture idempoten — aman dipanggil
// berkali-kali karena setiap baris dijaga payment_forfeited = FALSE.
func StartFeedbackScheduler(db *gorm.DB, events notifier.Publisher) {
	go func() {
		intervalHours := 6
		if val := os.Getenv("FEEDBACK_SWEEP_INTERVAL_HOURS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				intervalHours = parsed
			}
		}

		for {
			now := time.Now()
			sendDueReminders(db, events, now)
			ForfeitOverdueFeedback(db, events, now)

			time.Sleep(time.Duration(intervalHours) * time.Hour)
		}
	}()
}

// sendDueReminders: H-3 dan H-1. Hanya notifikasi, tidak mengubah state feedback.
func sendDueReminders(db *gorm.DB, events notifier.Publisher, now time.Time) {
	windows := []struct {
		label  string
		within time.Duration
	}{
		{"3_days", 3 * 24 * time.Hour},
		{"1_day", 24 * time.Hour},
	}

	for _, w := range windows {
		var rows []feedbackModel.TutorSessionFeedbackModel
		if err := db.
			Where("feedback_status = ? AND feedback_payment_forfeited = FALSE AND feedback_due_date > ? AND feedback_due_date <= ?",
				feedbackModel.FeedbackStatusPending, now, now.Add(w.within)).
			Limit(500).
			Find(&rows).Error; err != nil {
			log.Printf("[FEEDBACK-SWEEP ERROR] Gagal ambil reminder %s: %v", w.label, err)
			continue
		}
		for i := range rows {
			notifier.FireAndForget(events, notifier.TopicFeedbackReminder, map[string]interface{}{
				"feedback_id": rows[i].FeedbackID,
				"session_id":  rows[i].FeedbackSessionID,
				"tutor_id":    rows[i].FeedbackTutorID,
				"due_date":    rows[i].FeedbackDueDate,
				"window":      w.label,
			})
		}
	}
}

// ForfeitOverdueFeedback: hanguskan pembayaran feedback pending yang lewat
// due date. Per baris: stamp forfeiture (conditional), tandai sesi
// not_applicable, turunkan counter tutor. Diekspor supaya bisa dipicu
// manual (endpoint admin) selain dari loop.
func ForfeitOverdueFeedback(db *gorm.DB, events notifier.Publisher, now time.Time) {
	var overdue []feedbackModel.TutorSessionFeedbackModel
	if err := db.
		Where("feedback_status = ? AND feedback_payment_forfeited = FALSE AND feedback_due_date < ?",
			feedbackModel.FeedbackStatusPending, now).
		Limit(500).
		Find(&overdue).Error; err != nil {
		log.Printf("[FEEDBACK-SWEEP ERROR] Gagal ambil feedback overdue: %v", err)
		return
	}

	for i := range overdue {
		fb := &overdue[i]

		var session sessionModel.SessionModel
		if err := db.First(&session, "session_id = ?", fb.FeedbackSessionID).Error; err != nil {
			log.Printf("[FEEDBACK-SWEEP ERROR] Sesi %s tidak ditemukan untuk forfeiture: %v", fb.FeedbackSessionID, err)
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&feedbackModel.TutorSessionFeedbackModel{}).
				Where("feedback_id = ? AND feedback_payment_forfeited = FALSE AND feedback_status = ?",
					fb.FeedbackID, feedbackModel.FeedbackStatusPending).
				Updates(map[string]interface{}{
					"feedback_payment_forfeited": true,
					"feedback_forfeited_amount":  session.SessionTotalPrice,
					"feedback_forfeited_at":      now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Sudah diproses pass lain (atau keburu submit). Bukan error.
				return nil
			}

			if err := tx.Model(&sessionModel.SessionModel{}).
				Where("session_id = ?", session.SessionID).
				Update("session_teacher_completion", sessionModel.TeacherCompletionNotApplicable).Error; err != nil {
				return err
			}

			return tx.Model(&userModel.UserModel{}).
				Where("id = ? AND pending_feedback_count > 0", fb.FeedbackTutorID).
				Update("pending_feedback_count", gorm.Expr("pending_feedback_count - 1")).Error
		})
		if err != nil {
			log.Printf("[FEEDBACK-SWEEP ERROR] Forfeiture feedback %s: %v", fb.FeedbackID, err)
			continue
		}

		notifier.FireAndForget(events, notifier.TopicFeedbackForfeited, map[string]interface{}{
			"feedback_id":      fb.FeedbackID,
			"session_id":       fb.FeedbackSessionID,
			"tutor_id":         fb.FeedbackTutorID,
			"forfeited_amount": session.SessionTotalPrice,
		})
	}
	if len(overdue) > 0 {
		log.Printf("[FEEDBACK-SWEEP] %d feedback overdue diproses forfeiture", len(overdue))
	}
}
