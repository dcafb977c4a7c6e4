// file: internals/features/sessions/sessions/service/completion_service.go
package service

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	billingModel "tutorin_backend/internals/features/billing/subscriptions/model"
	meetings "tutorin_backend/internals/features/meetings/service"
	feedbackModel "tutorin_backend/internals/features/sessions/feedback/model"
	sessionModel "tutorin_backend/internals/features/sessions/sessions/model"
	userModel "tutorin_backend/internals/features/users/user/model"
	helper "tutorin_backend/internals/helpers"
	"tutorin_backend/internals/notifier"
)

// completableStatuses: sumber transisi → COMPLETED (semua status non-terminal).
var completableStatuses = []string{
	sessionModel.SessionStatusScheduled,
	sessionModel.SessionStatusStartingSoon,
	sessionModel.SessionStatusInProgress,
	sessionModel.SessionStatusAwaitingResponse,
	sessionModel.SessionStatusRescheduleRequested,
}

// CompleteSession: transisi sesi → COMPLETED dengan conditional update,
// lalu jalankan side effect best-effort. Gagalnya side effect TIDAK
// membatalkan completion (toleran partial failure).
//
// Jalur yang sama dipakai manual complete (admin), auto-complete saat
// feedback masuk, dan tidak pernah oleh sweep (sweep hanya meng-EXPIRED).
// Conditional update yang sama juga yang memutus balapan COMPLETED vs
// EXPIRED: siapa pun yang menang di baris DB, itulah hasilnya.
func CompleteSession(db *gorm.DB, events notifier.Publisher, session *sessionModel.SessionModel, now time.Time, completedBy *uuid.UUID) error {
	res := db.Model(&sessionModel.SessionModel{}).
		Where("session_id = ? AND session_status IN ?", session.SessionID, completableStatuses).
		Updates(map[string]interface{}{
			"session_status":       sessionModel.SessionStatusCompleted,
			"session_completed_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.InvalidState("Sesi sudah berada di status terminal")
	}

	runCompletionSideEffects(db, events, session, now)
	return nil
}

// EnsureFeedbackObligation: buat kewajiban feedback pending + due date dan
// naikkan counter tutor. Dipakai jalur completion DAN no-show — keduanya
// tetap menuntut penilaian tutor. Unique index per sesi membuatnya aman
// dipanggil ulang: pemanggilan kedua tidak membuat baris maupun menaikkan
// counter lagi. Best-effort; error cuma dicatat.
func EnsureFeedbackObligation(db *gorm.DB, session *sessionModel.SessionModel, now time.Time) {
	fb := feedbackModel.TutorSessionFeedbackModel{
		FeedbackSessionID: session.SessionID,
		FeedbackTutorID:   session.SessionTutorID,
		FeedbackStudentID: session.SessionStudentID,
		FeedbackDueDate:   feedbackModel.FeedbackDueDate(now),
		FeedbackStatus:    feedbackModel.FeedbackStatusPending,
	}
	if err := db.Create(&fb).Error; err != nil {
		log.Printf("[SESSION-COMPLETE WARN] Gagal buat feedback pending untuk sesi %s: %v", session.SessionID, err)
		return
	}
	if err := db.Model(&userModel.UserModel{}).
		Where("id = ?", session.SessionTutorID).
		Update("pending_feedback_count", gorm.Expr("pending_feedback_count + 1")).Error; err != nil {
		log.Printf("[SESSION-COMPLETE WARN] Gagal naikkan pending_feedback_count tutor %s: %v", session.SessionTutorID, err)
	}
}

// runCompletionSideEffects: feedback pending + counter tutor + jam subscription +
// event. Semua best-effort; error cuma dicatat.
func runCompletionSideEffects(db *gorm.DB, events notifier.Publisher, session *sessionModel.SessionModel, now time.Time) {
	EnsureFeedbackObligation(db, session, now)

	hours := float64(session.SessionDuration) / 60
	if err := db.Model(&billingModel.StudentSubscriptionModel{}).
		Where("subscription_student_id = ? AND subscription_status = ?",
			session.SessionStudentID, billingModel.SubscriptionStatusActive).
		Update("subscription_total_hours_taken", gorm.Expr("subscription_total_hours_taken + ?", hours)).Error; err != nil {
		log.Printf("[SESSION-COMPLETE WARN] Gagal akumulasi jam subscription student %s: %v", session.SessionStudentID, err)
	}

	if provider := meetings.Current(); provider != nil {
		if err := provider.CloseRoom(provider.RoomID(session.SessionID)); err != nil {
			log.Printf("[SESSION-COMPLETE WARN] Gagal tutup room video sesi %s: %v", session.SessionID, err)
		}
	}

	notifier.FireAndForget(events, notifier.TopicSessionCompleted, map[string]interface{}{
		"session_id":   session.SessionID,
		"student_id":   session.SessionStudentID,
		"tutor_id":     session.SessionTutorID,
		"completed_at": now,
	})
}
