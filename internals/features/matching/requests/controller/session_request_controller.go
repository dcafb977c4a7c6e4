// file: internals/features/matching/requests/controller/session_request_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorin_backend/internals/constants"
	chatModel "tutorin_backend/internals/features/chats/chats/model"
	requestDTO "tutorin_backend/internals/features/matching/requests/dto"
	requestModel "tutorin_backend/internals/features/matching/requests/model"
	requestService "tutorin_backend/internals/features/matching/requests/service"
	userModel "tutorin_backend/internals/features/users/user/model"
	helper "tutorin_backend/internals/helpers"
	"tutorin_backend/internals/notifier"
)

type SessionRequestController struct {
	DB     *gorm.DB
	Events notifier.Publisher
}

func NewSessionRequestController(db *gorm.DB, events notifier.Publisher) *SessionRequestController {
	return &SessionRequestController{DB: db, Events: events}
}

/* ================= POST /api/session-requests ================= */

// Create: hanya student login yang sudah menyelesaikan trial.
func (ctrl *SessionRequestController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req requestDTO.CreateSessionRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ok, err := subjectExists(ctrl.DB, req.SubjectID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal cek subject")
	}
	if !ok {
		return helper.FromFiberError(c, helper.NotFound("Subject tidak ditemukan"))
	}

	var student userModel.UserModel
	if err := ctrl.DB.First(&student, "id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "User tidak ditemukan")
	}
	if !student.HasCompletedTrial {
		return helper.FromFiberError(c, helper.InvalidState("Selesaikan sesi trial dulu sebelum memesan sesi berbayar"))
	}

	now := time.Now()
	requestService.ExpireLapsedRequests(ctrl.DB, student.ID, now)
	pending, err := requestService.HasPendingRequest(ctrl.DB, student.ID, now)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal cek request aktif")
	}
	if pending {
		return helper.FromFiberError(c, helper.InvalidState("Masih ada request yang menunggu tutor"))
	}

	sr := requestModel.SessionRequestModel{
		SessionRequestStudentID:         student.ID,
		SessionRequestSubjectID:         req.SubjectID,
		SessionRequestDescription:       req.Description,
		SessionRequestAvailability:      req.Availability,
		SessionRequestGrade:             req.Grade,
		SessionRequestSchool:            req.School,
		SessionRequestPreferredDuration: req.PreferredDuration,
		SessionRequestContactEmail:      student.ContactEmail(),
		SessionRequestStatus:            requestModel.RequestStatusPending,
		SessionRequestExpiresAt:         now.Add(requestModel.SessionRequestTTL),
	}
	if err := ctrl.DB.Create(&sr).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return helper.FromFiberError(c, helper.InvalidState("Masih ada request yang menunggu tutor"))
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat session request")
	}

	notifier.FireAndForget(ctrl.Events, notifier.TopicSessionRequestCreated, fiber.Map{
		"session_request_id": sr.SessionRequestID,
		"subject_id":         sr.SessionRequestSubjectID,
		"tutor_ids":          eligibleTutorIDs(ctrl.DB, sr.SessionRequestSubjectID),
	})

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Session request berhasil dibuat",
		requestDTO.ToSessionRequestResponse(&sr, now))
}

/* ================= GET /api/session-requests ================= */

func (ctrl *SessionRequestController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	role, _ := helper.GetRoleFromToken(c)
	now := time.Now()

	var rows []requestModel.SessionRequestModel
	q := ctrl.DB.Model(&requestModel.SessionRequestModel{})
	if role == constants.RoleTutor {
		q = q.Where("session_request_status = ? AND session_request_expires_at > ?", requestModel.RequestStatusPending, now).
			Where("session_request_subject_id IN (?)",
				ctrl.DB.Model(&userModel.TutorSubjectModel{}).
					Select("tutor_subject_subject_id").
					Where("tutor_subject_tutor_id = ?", userID))
	} else {
		q = q.Where("session_request_student_id = ?", userID)
	}
	if err := q.Order("session_request_created_at DESC").Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal ambil session requests")
	}

	out := make([]requestDTO.SessionRequestResponse, 0, len(rows))
	for i := range rows {
		out = append(out, requestDTO.ToSessionRequestResponse(&rows[i], now))
	}
	return helper.Success(c, "OK", out)
}

/* ================= GET /api/session-requests/:id ================= */

func (ctrl *SessionRequestController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var sr requestModel.SessionRequestModel
	if err := ctrl.DB.First(&sr, "session_request_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFound("Session request tidak ditemukan"))
	}
	return helper.Success(c, "OK", requestDTO.ToSessionRequestResponse(&sr, time.Now()))
}

/* ================= POST /api/session-requests/:id/accept ================= */

func (ctrl *SessionRequestController) Accept(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var req requestDTO.AcceptRequestRequest
	_ = c.BodyParser(&req)

	var sr requestModel.SessionRequestModel
	if err := ctrl.DB.First(&sr, "session_request_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFound("Session request tidak ditemukan"))
	}

	now := time.Now()
	switch sr.EffectiveStatus(now) {
	case requestModel.RequestStatusPending:
		// lanjut
	case requestModel.RequestStatusExpired:
		ctrl.DB.Model(&requestModel.SessionRequestModel{}).
			Where("session_request_id = ? AND session_request_status = ?", id, requestModel.RequestStatusPending).
			Update("session_request_status", requestModel.RequestStatusExpired)
		return helper.FromFiberError(c, helper.DeadlineExceeded("Session request sudah kedaluwarsa"))
	default:
		return helper.FromFiberError(c, helper.InvalidState("Session request sudah tidak tersedia"))
	}

	if _, err := requestService.EnsureTutorEligible(ctrl.DB, tutorID, sr.SessionRequestSubjectID); err != nil {
		return helper.FromFiberError(c, err)
	}

	var chat *chatModel.ChatModel
	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&requestModel.SessionRequestModel{}).
			Where("session_request_id = ? AND session_request_status = ? AND session_request_expires_at > ?",
				id, requestModel.RequestStatusPending, now).
			Updates(map[string]interface{}{
				"session_request_status":            requestModel.RequestStatusAccepted,
				"session_request_accepted_tutor_id": tutorID,
				"session_request_accepted_at":       now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.InvalidState("Session request sudah diambil tutor lain")
		}

		chat, err = requestService.OpenChatForRequest(tx, sr.SessionRequestStudentID, tutorID,
			chatModel.ChatOriginSessionRequest, sr.SessionRequestID)
		if err != nil {
			return err
		}
		if err := tx.Model(&requestModel.SessionRequestModel{}).
			Where("session_request_id = ?", id).
			Update("session_request_chat_id", chat.ChatID).Error; err != nil {
			return err
		}

		if req.IntroMessage != "" {
			msg := chatModel.ChatMessageModel{
				ChatMessageChatID:   chat.ChatID,
				ChatMessageSenderID: tutorID,
				ChatMessageBody:     req.IntroMessage,
			}
			if err := tx.Create(&msg).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return helper.FromFiberError(c, txErr)
	}

	notifier.FireAndForget(ctrl.Events, notifier.TopicSessionRequestAccepted, fiber.Map{
		"session_request_id": sr.SessionRequestID,
		"student_id":         sr.SessionRequestStudentID,
		"tutor_id":           tutorID,
		"chat_id":            chat.ChatID,
	})
	notifier.FireAndForget(ctrl.Events, notifier.TopicSessionRequestClosed, fiber.Map{
		"session_request_id": sr.SessionRequestID,
		"subject_id":         sr.SessionRequestSubjectID,
		"tutor_ids":          eligibleTutorIDs(ctrl.DB, sr.SessionRequestSubjectID),
	})

	return helper.Success(c, "Session request diterima", requestDTO.AcceptRequestResponse{
		RequestID: sr.SessionRequestID,
		Status:    requestModel.RequestStatusAccepted,
		ChatID:    chat.ChatID,
	})
}

/* ================= POST /api/session-requests/:id/cancel ================= */

func (ctrl *SessionRequestController) Cancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var req requestDTO.CancelRequestRequest
	_ = c.BodyParser(&req)

	var sr requestModel.SessionRequestModel
	if err := ctrl.DB.First(&sr, "session_request_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFound("Session request tidak ditemukan"))
	}
	if !ownsRequest(c, sr.SessionRequestStudentID, sr.SessionRequestContactEmail, req.ContactEmail) {
		return helper.FromFiberError(c, helper.Forbidden("Bukan pemilik request ini"))
	}

	now := time.Now()
	if sr.EffectiveStatus(now) != requestModel.RequestStatusPending {
		return helper.FromFiberError(c, helper.InvalidState("Hanya request PENDING yang bisa dibatalkan"))
	}

	updates := map[string]interface{}{
		"session_request_status":       requestModel.RequestStatusCancelled,
		"session_request_cancelled_at": now,
	}
	if req.Reason != "" {
		updates["session_request_cancel_reason"] = req.Reason
	}
	res := ctrl.DB.Model(&requestModel.SessionRequestModel{}).
		Where("session_request_id = ? AND session_request_status = ? AND session_request_expires_at > ?",
			id, requestModel.RequestStatusPending, now).
		Updates(updates)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membatalkan request")
	}
	if res.RowsAffected == 0 {
		return helper.FromFiberError(c, helper.InvalidState("Request sudah berubah status"))
	}

	return helper.Success(c, "Session request dibatalkan", fiber.Map{
		"session_request_id": id,
		"status":             requestModel.RequestStatusCancelled,
	})
}

/* ================= POST /api/session-requests/:id/extend ================= */

func (ctrl *SessionRequestController) Extend(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var req requestDTO.CancelRequestRequest
	_ = c.BodyParser(&req)

	var sr requestModel.SessionRequestModel
	if err := ctrl.DB.First(&sr, "session_request_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFound("Session request tidak ditemukan"))
	}
	if !ownsRequest(c, sr.SessionRequestStudentID, sr.SessionRequestContactEmail, req.ContactEmail) {
		return helper.FromFiberError(c, helper.Forbidden("Bukan pemilik request ini"))
	}

	now := time.Now()
	if !sr.CanExtend() {
		return helper.FromFiberError(c, helper.InvalidState("Request sudah pernah diperpanjang"))
	}
	// Sama seperti trial: window masih jalan, atau masa tenggang pasca-reminder.
	if !sr.Extendable(now) {
		if sr.SessionRequestStatus == requestModel.RequestStatusPending {
			return helper.FromFiberError(c, helper.DeadlineExceeded("Masa perpanjangan request sudah lewat"))
		}
		return helper.FromFiberError(c, helper.InvalidState("Hanya request PENDING yang bisa diperpanjang"))
	}

	res := ctrl.DB.Model(&requestModel.SessionRequestModel{}).
		Where("session_request_id = ? AND session_request_status = ? AND session_request_extensions_count < ?",
			id, requestModel.RequestStatusPending, requestModel.MaxExtensions).
		Where("session_request_expires_at > ? OR session_request_final_expires_at > ?", now, now).
		Updates(map[string]interface{}{
			"session_request_expires_at":       gorm.Expr("session_request_expires_at + interval '7 days'"),
			"session_request_extensions_count": gorm.Expr("session_request_extensions_count + 1"),
			"session_request_reminder_sent_at": nil,
			"session_request_final_expires_at": nil,
		})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal memperpanjang request")
	}
	if res.RowsAffected == 0 {
		return helper.FromFiberError(c, helper.InvalidState("Request sudah berubah status"))
	}

	if err := ctrl.DB.First(&sr, "session_request_id = ?", id).Error; err == nil {
		return helper.Success(c, "Session request diperpanjang", requestDTO.ToSessionRequestResponse(&sr, now))
	}
	return helper.Success(c, "Session request diperpanjang", fiber.Map{"session_request_id": id})
}
