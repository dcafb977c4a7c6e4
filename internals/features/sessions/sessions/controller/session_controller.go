// file: internals/features/sessions/sessions/controller/session_controller.go
package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	meetings "tutorin_backend/internals/features/meetings/service"
	sessionDTO "tutorin_backend/internals/features/sessions/sessions/dto"
	sessionModel "tutorin_backend/internals/features/sessions/sessions/model"
	sessionService "tutorin_backend/internals/features/sessions/sessions/service"
	helper "tutorin_backend/internals/helpers"
	"tutorin_backend/internals/notifier"
)

var validate = validator.New()

type SessionController struct {
	DB     *gorm.DB
	Events notifier.Publisher
}

func NewSessionController(db *gorm.DB, events notifier.Publisher) *SessionController {
	return &SessionController{DB: db, Events: events}
}

func (ctrl *SessionController) loadSession(c *fiber.Ctx) (*sessionModel.SessionModel, uuid.UUID, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	var session sessionModel.SessionModel
	if err := ctrl.DB.First(&session, "session_id = ?", id).Error; err != nil {
		return nil, uuid.Nil, helper.NotFound("Sesi tidak ditemukan")
	}
	if !session.HasParticipant(userID) && !helper.IsAdmin(c) {
		return nil, uuid.Nil, helper.Forbidden("Bukan peserta sesi ini")
	}
	return &session, userID, nil
}

/* ================= GET /api/sessions ================= */

func (ctrl *SessionController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	q := ctrl.DB.Model(&sessionModel.SessionModel{}).
		Where("session_student_id = ? OR session_tutor_id = ?", userID, userID)
	if status := c.Query("status"); status != "" {
		q = q.Where("session_status = ?", status)
	}

	var rows []sessionModel.SessionModel
	if err := q.Order("session_start_time DESC").Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal ambil daftar sesi")
	}

	out := make([]sessionDTO.SessionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, sessionDTO.ToSessionResponse(&rows[i]))
	}
	return helper.Success(c, "OK", out)
}

/* ================= GET /api/sessions/:id ================= */

func (ctrl *SessionController) GetByID(c *fiber.Ctx) error {
	session, _, err := ctrl.loadSession(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "OK", sessionDTO.ToSessionResponse(session))
}

/* ================= POST /api/sessions/:id/cancel ================= */

// Cancel: kedua pihak boleh, hanya dari SCHEDULED/STARTING_SOON, alasan wajib.
func (ctrl *SessionController) Cancel(c *fiber.Ctx) error {
	session, userID, err := ctrl.loadSession(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req sessionDTO.CancelSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if !sessionModel.CanTransition(session.SessionStatus, sessionModel.SessionStatusCancelled) {
		return helper.FromFiberError(c, helper.InvalidState("Sesi tidak bisa dibatalkan dari status "+session.SessionStatus))
	}

	now := time.Now()
	res := ctrl.DB.Model(&sessionModel.SessionModel{}).
		Where("session_id = ? AND session_status IN ?", session.SessionID,
			[]string{sessionModel.SessionStatusScheduled, sessionModel.SessionStatusStartingSoon, sessionModel.SessionStatusRescheduleRequested}).
		Updates(map[string]interface{}{
			"session_status":              sessionModel.SessionStatusCancelled,
			"session_cancelled_at":        now,
			"session_cancelled_by":        userID,
			"session_cancellation_reason": req.Reason,
		})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membatalkan sesi")
	}
	if res.RowsAffected == 0 {
		return helper.FromFiberError(c, helper.InvalidState("Status sesi sudah berubah"))
	}

	notifier.FireAndForget(ctrl.Events, notifier.TopicSessionCancelled, fiber.Map{
		"session_id":   session.SessionID,
		"cancelled_by": userID,
		"reason":       req.Reason,
	})

	return helper.Success(c, "Sesi dibatalkan", fiber.Map{
		"session_id": session.SessionID,
		"status":     sessionModel.SessionStatusCancelled,
	})
}

/* ================= POST /api/sessions/:id/complete ================= */

// Complete: aksi manual admin. Auto-complete lain lewat jalur feedback.
func (ctrl *SessionController) Complete(c *fiber.Ctx) error {
	session, userID, err := ctrl.loadSession(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !helper.IsAdmin(c) {
		return helper.FromFiberError(c, helper.Forbidden("Hanya admin yang bisa menyelesaikan sesi manual"))
	}

	now := time.Now()
	if err := sessionService.CompleteSession(ctrl.DB, ctrl.Events, session, now, &userID); err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.Success(c, "Sesi diselesaikan", fiber.Map{
		"session_id":   session.SessionID,
		"status":       sessionModel.SessionStatusCompleted,
		"completed_at": now,
	})
}

/* ================= POST /api/sessions/:id/no-show ================= */

// NoShow: tutor menandai student tidak hadir (atau sebaliknya oleh admin).
func (ctrl *SessionController) MarkNoShow(c *fiber.Ctx) error {
	session, _, err := ctrl.loadSession(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if !sessionModel.CanTransition(session.SessionStatus, sessionModel.SessionStatusNoShow) {
		return helper.FromFiberError(c, helper.InvalidState("Sesi tidak bisa ditandai no-show dari status "+session.SessionStatus))
	}

	res := ctrl.DB.Model(&sessionModel.SessionModel{}).
		Where("session_id = ? AND session_status IN ?", session.SessionID,
			[]string{sessionModel.SessionStatusScheduled, sessionModel.SessionStatusStartingSoon,
				sessionModel.SessionStatusInProgress, sessionModel.SessionStatusAwaitingResponse}).
		Update("session_status", sessionModel.SessionStatusNoShow)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menandai no-show")
	}
	if res.RowsAffected == 0 {
		return helper.FromFiberError(c, helper.InvalidState("Status sesi sudah berubah"))
	}

	// Sesi no-show tetap menuntut feedback tutor (dinilai apa yang terjadi).
	// Tanpa ini submit feedback untuk sesi no-show tidak pernah punya baris
	// pending. Best-effort, sama seperti side effect completion.
	sessionService.EnsureFeedbackObligation(ctrl.DB, session, time.Now())

	return helper.Success(c, "Sesi ditandai no-show", fiber.Map{
		"session_id": session.SessionID,
		"status":     sessionModel.SessionStatusNoShow,
	})
}

/* ================= GET /api/sessions/:id/join-token ================= */

// JoinToken: token video untuk peserta, hanya saat sesi mau/baru mulai.
func (ctrl *SessionController) JoinToken(c *fiber.Ctx) error {
	session, userID, err := ctrl.loadSession(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	switch session.SessionStatus {
	case sessionModel.SessionStatusStartingSoon, sessionModel.SessionStatusInProgress:
		// boleh join
	default:
		return helper.FromFiberError(c, helper.InvalidState("Sesi belum bisa dimasuki"))
	}

	provider := meetings.Current()
	if provider == nil {
		return helper.Error(c, fiber.StatusServiceUnavailable, "Layanan video belum dikonfigurasi")
	}

	name, _ := helper.GetUserNameFromToken(c)
	roomID := provider.RoomID(session.SessionID)
	ttl := time.Until(session.SessionEndTime) + 15*time.Minute
	token, exp, err := provider.GenerateToken(roomID, userID, name, ttl)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat token video")
	}

	return helper.Success(c, "OK", sessionDTO.JoinTokenResponse{
		SessionID: session.SessionID,
		RoomID:    roomID,
		Token:     token,
		ExpiresAt: exp,
	})
}
