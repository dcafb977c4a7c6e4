// file: internals/features/sessions/feedback/controller/feedback_controller.go
package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorin_backend/internals/constants"
	feedbackDTO "tutorin_backend/internals/features/sessions/feedback/dto"
	feedbackModel "tutorin_backend/internals/features/sessions/feedback/model"
	sessionModel "tutorin_backend/internals/features/sessions/sessions/model"
	sessionService "tutorin_backend/internals/features/sessions/sessions/service"
	userModel "tutorin_backend/internals/features/users/user/model"
	helper "tutorin_backend/internals/helpers"
	"tutorin_backend/internals/notifier"
)

var validate = validator.New()

type FeedbackController struct {
	DB     *gorm.DB
	Events notifier.Publisher
}

func NewFeedbackController(db *gorm.DB, events notifier.Publisher) *FeedbackController {
	return &FeedbackController{DB: db, Events: events}
}

/* ================= GET /api/feedback/pending ================= */

func (ctrl *FeedbackController) ListPending(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var rows []feedbackModel.TutorSessionFeedbackModel
	if err := ctrl.DB.
		Where("feedback_tutor_id = ? AND feedback_status = ? AND feedback_payment_forfeited = FALSE",
			tutorID, feedbackModel.FeedbackStatusPending).
		Order("feedback_due_date ASC").
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal ambil daftar feedback")
	}

	out := make([]feedbackDTO.FeedbackResponse, 0, len(rows))
	for i := range rows {
		out = append(out, feedbackDTO.ToFeedbackResponse(&rows[i]))
	}
	return helper.Success(c, "OK", out)
}

/* ================= POST /api/feedback ================= */

// Submit: lewat due date = ditolak keras (bukan diterima-tapi-ditandai).
// Kalau sesinya sudah lewat tapi sweep belum sempat menutupnya, submit
// memicu auto-complete dulu (lazy completion) baru feedback-nya diproses.
func (ctrl *FeedbackController) Submit(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req feedbackDTO.SubmitFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := validateFeedbackContent(&req); err != nil {
		return helper.FromFiberError(c, err)
	}

	var session sessionModel.SessionModel
	if err := ctrl.DB.First(&session, "session_id = ?", req.SessionID).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFound("Sesi tidak ditemukan"))
	}
	if session.SessionTutorID != tutorID {
		return helper.FromFiberError(c, helper.Forbidden("Bukan tutor sesi ini"))
	}

	now := time.Now()

	// Lazy completion: sesi non-terminal yang end-nya sudah lewat
	// dipromosikan COMPLETED di sini, memakai definisi "sesi sudah lewat"
	// yang sama dengan sweep.
	if !sessionModel.IsTerminalSessionStatus(session.SessionStatus) && session.IsOver(now) {
		if err := sessionService.CompleteSession(ctrl.DB, ctrl.Events, &session, now, &tutorID); err != nil {
			return helper.FromFiberError(c, err)
		}
		session.SessionStatus = sessionModel.SessionStatusCompleted
	}

	switch session.SessionStatus {
	case sessionModel.SessionStatusCompleted, sessionModel.SessionStatusNoShow:
		// boleh dinilai
	default:
		return helper.FromFiberError(c, helper.InvalidState("Feedback hanya untuk sesi yang sudah selesai"))
	}

	var fb feedbackModel.TutorSessionFeedbackModel
	if err := ctrl.DB.First(&fb, "feedback_session_id = ?", req.SessionID).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFound("Feedback untuk sesi ini tidak ditemukan"))
	}

	if fb.FeedbackPaymentForfeited {
		return helper.FromFiberError(c, helper.InvalidState("Pembayaran sudah hangus, feedback tidak bisa dikirim lagi"))
	}
	if fb.FeedbackStatus != feedbackModel.FeedbackStatusPending {
		return helper.FromFiberError(c, helper.InvalidState("Feedback sudah pernah dikirim"))
	}
	if now.After(fb.FeedbackDueDate) {
		return helper.FromFiberError(c, helper.DeadlineExceeded("Batas waktu feedback sudah lewat"))
	}

	updates := map[string]interface{}{
		"feedback_status":       feedbackModel.FeedbackStatusSubmitted,
		"feedback_rating":       req.Rating,
		"feedback_type":         req.FeedbackType,
		"feedback_submitted_at": now,
	}
	if req.FeedbackType == feedbackModel.FeedbackTypeText {
		updates["feedback_text"] = req.Text
	} else {
		updates["feedback_audio_url"] = req.AudioURL
		updates["feedback_audio_duration"] = req.AudioDuration
	}

	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&feedbackModel.TutorSessionFeedbackModel{}).
			Where("feedback_id = ? AND feedback_status = ? AND feedback_payment_forfeited = FALSE",
				fb.FeedbackID, feedbackModel.FeedbackStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.InvalidState("Feedback sudah pernah dikirim")
		}

		if err := tx.Model(&sessionModel.SessionModel{}).
			Where("session_id = ?", session.SessionID).
			Update("session_teacher_completion", sessionModel.TeacherCompletionCompleted).Error; err != nil {
			return err
		}

		if err := tx.Model(&userModel.UserModel{}).
			Where("id = ? AND pending_feedback_count > 0", tutorID).
			Update("pending_feedback_count", gorm.Expr("pending_feedback_count - 1")).Error; err != nil {
			return err
		}

		// Rata-rata berjalan dihitung ulang dari seluruh rating SUBMITTED.
		return tx.Model(&userModel.UserModel{}).
			Where("id = ?", tutorID).
			Updates(map[string]interface{}{
				"rating_average": gorm.Expr(
					"(SELECT COALESCE(AVG(feedback_rating), 0) FROM tutor_session_feedbacks WHERE feedback_tutor_id = ? AND feedback_status = ? AND feedback_deleted_at IS NULL)",
					tutorID, feedbackModel.FeedbackStatusSubmitted),
				"rating_count": gorm.Expr(
					"(SELECT COUNT(*) FROM tutor_session_feedbacks WHERE feedback_tutor_id = ? AND feedback_status = ? AND feedback_deleted_at IS NULL)",
					tutorID, feedbackModel.FeedbackStatusSubmitted),
			}).Error
	})
	if txErr != nil {
		return helper.FromFiberError(c, txErr)
	}

	// Event real-time ke chat room + kedua pihak; best-effort.
	notifier.FireAndForget(ctrl.Events, notifier.TopicFeedbackSubmitted, fiber.Map{
		"session_id": session.SessionID,
		"chat_id":    session.SessionChatID,
		"tutor_id":   tutorID,
		"student_id": session.SessionStudentID,
		"rating":     req.Rating,
	})

	if err := ctrl.DB.First(&fb, "feedback_id = ?", fb.FeedbackID).Error; err == nil {
		return helper.Success(c, "Feedback terkirim", feedbackDTO.ToFeedbackResponse(&fb))
	}
	return helper.Success(c, "Feedback terkirim", fiber.Map{"feedback_id": fb.FeedbackID})
}

// validateFeedbackContent: konten wajib tepat satu — teks ≥10 karakter
// ATAU audio ≤60 detik, sesuai tipenya.
func validateFeedbackContent(req *feedbackDTO.SubmitFeedbackRequest) error {
	switch req.FeedbackType {
	case feedbackModel.FeedbackTypeText:
		if len(strings.TrimSpace(req.Text)) < 10 {
			return helper.ValidationFailure("Feedback teks minimal 10 karakter")
		}
		if req.AudioURL != "" {
			return helper.ValidationFailure("Pilih salah satu: teks atau audio")
		}
	case feedbackModel.FeedbackTypeAudio:
		if strings.TrimSpace(req.AudioURL) == "" {
			return helper.ValidationFailure("URL audio wajib untuk feedback audio")
		}
		if !constants.IsAudioFile(req.AudioURL) {
			return helper.ValidationFailure("Format audio tidak didukung")
		}
		if req.AudioDuration <= 0 || req.AudioDuration > feedbackModel.MaxAudioDurationSeconds {
			return helper.ValidationFailure("Durasi audio maksimal 60 detik")
		}
		if strings.TrimSpace(req.Text) != "" {
			return helper.ValidationFailure("Pilih salah satu: teks atau audio")
		}
	}
	return nil
}
