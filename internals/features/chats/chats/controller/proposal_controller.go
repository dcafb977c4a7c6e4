// file: internals/features/chats/chats/controller/proposal_controller.go
package controller

import (
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorin_backend/internals/constants"
	billingModel "tutorin_backend/internals/features/billing/subscriptions/model"
	chatDTO "tutorin_backend/internals/features/chats/chats/dto"
	chatModel "tutorin_backend/internals/features/chats/chats/model"
	sessionModel "tutorin_backend/internals/features/sessions/sessions/model"
	userModel "tutorin_backend/internals/features/users/user/model"
	helper "tutorin_backend/internals/helpers"
	"tutorin_backend/internals/notifier"
)

// ProposalController: penawaran sesi di dalam chat sampai jadi Session terjadwal.
type ProposalController struct {
	DB     *gorm.DB
	Events notifier.Publisher
}

func NewProposalController(db *gorm.DB, events notifier.Publisher) *ProposalController {
	return &ProposalController{DB: db, Events: events}
}

/* ================= POST /api/proposals ================= */

// Propose: tutor terverifikasi menyusun penawaran. Harga dikunci dari tier
// student SAAT INI — perubahan plan setelahnya tidak mengubah penawaran.
func (ctrl *ProposalController) Propose(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req chatDTO.ProposeSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	now := time.Now()
	if !req.EndTime.After(req.StartTime) {
		return helper.FromFiberError(c, helper.ValidationFailure("end_time harus setelah start_time"))
	}
	if !req.StartTime.After(now) {
		return helper.FromFiberError(c, helper.ValidationFailure("start_time harus di masa depan"))
	}

	var tutor userModel.UserModel
	if err := ctrl.DB.First(&tutor, "id = ? AND role = ?", tutorID, constants.RoleTutor).Error; err != nil {
		return helper.FromFiberError(c, helper.Forbidden("Hanya tutor yang bisa membuat penawaran"))
	}
	if !tutor.IsVerified {
		return helper.FromFiberError(c, helper.Forbidden("Tutor belum terverifikasi"))
	}

	chat, err := loadChatForParticipant(ctrl.DB, req.ChatID, tutorID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	studentID := chat.Counterpart(tutorID)

	var student userModel.UserModel
	if err := ctrl.DB.First(&student, "id = ?", studentID).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal ambil data student")
	}

	duration := int(math.Round(req.EndTime.Sub(req.StartTime).Minutes()))
	rate := billingModel.SessionRate(student.CurrentPlan)
	totalPrice := rate * float64(duration) / 60

	offer := chatModel.SessionOffer{
		SubjectID:    req.SubjectID,
		Description:  req.Description,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Duration:     duration,
		PricePerHour: rate,
		TotalPrice:   totalPrice,
		Status:       chatModel.OfferStatusProposed,
	}

	msg := chatModel.ChatMessageModel{
		ChatMessageChatID:   chat.ChatID,
		ChatMessageSenderID: tutorID,
		ChatMessageBody:     req.Description,
	}
	if err := msg.SetOffer(&offer); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menyusun penawaran")
	}
	if err := ctrl.DB.Create(&msg).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengirim penawaran")
	}

	notifier.FireAndForget(ctrl.Events, notifier.TopicSessionProposed, fiber.Map{
		"chat_id":    chat.ChatID,
		"message_id": msg.ChatMessageID,
		"student_id": studentID,
		"tutor_id":   tutorID,
	})

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Penawaran sesi terkirim", chatDTO.ToChatMessageResponse(&msg))
}

// loadProposalMessage: ambil message penawaran + pastikan responder adalah
// student chat-nya (bukan pengirim penawaran).
func (ctrl *ProposalController) loadProposalMessage(c *fiber.Ctx) (*chatModel.ChatMessageModel, *chatModel.SessionOffer, *chatModel.ChatModel, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, nil, nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	msgID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, nil, nil, fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}

	var msg chatModel.ChatMessageModel
	if err := ctrl.DB.First(&msg, "chat_message_id = ?", msgID).Error; err != nil {
		return nil, nil, nil, helper.NotFound("Penawaran tidak ditemukan")
	}
	offer, err := msg.Offer()
	if err != nil || offer == nil {
		return nil, nil, nil, helper.NotFound("Pesan ini bukan penawaran sesi")
	}

	chat, err := loadChatForParticipant(ctrl.DB, msg.ChatMessageChatID, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	if chat.ChatStudentID != userID {
		return nil, nil, nil, helper.Forbidden("Hanya student yang bisa merespons penawaran")
	}
	return &msg, offer, chat, nil
}

/* ================= POST /api/proposals/:id/accept ================= */

// Accept: satu transaksi — buat Session lalu backfill sub-dokumen penawaran.
// Tidak ada jendela "session ada tapi penawaran masih proposed".
func (ctrl *ProposalController) Accept(c *fiber.Ctx) error {
	msg, offer, chat, err := ctrl.loadProposalMessage(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	now := time.Now()
	if offer.Status != chatModel.OfferStatusProposed {
		return helper.FromFiberError(c, helper.InvalidState("Penawaran sudah direspons"))
	}
	if !now.Before(offer.StartTime) {
		// Penawaran basi: jadwalnya sudah lewat sebelum direspons.
		offer.Status = chatModel.OfferStatusExpired
		offer.RespondedAt = &now
		_ = msg.SetOffer(offer)
		ctrl.DB.Model(&chatModel.ChatMessageModel{}).
			Where("chat_message_id = ? AND chat_message_session_offer->>'status' = ?", msg.ChatMessageID, chatModel.OfferStatusProposed).
			Update("chat_message_session_offer", msg.ChatMessageSessionOffer)
		return helper.FromFiberError(c, helper.DeadlineExceeded("Penawaran sudah kedaluwarsa"))
	}

	var session sessionModel.SessionModel
	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		chatID := chat.ChatID
		session = sessionModel.SessionModel{
			SessionStudentID:    chat.ChatStudentID,
			SessionTutorID:      chat.ChatTutorID,
			SessionSubjectID:    offer.SubjectID,
			SessionChatID:       &chatID,
			SessionDescription:  offer.Description,
			SessionStartTime:    offer.StartTime,
			SessionEndTime:      offer.EndTime,
			SessionDuration:     offer.Duration,
			SessionPricePerHour: offer.PricePerHour,
			SessionTotalPrice:   offer.TotalPrice,
			SessionStatus:       sessionModel.SessionStatusScheduled,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		offer.Status = chatModel.OfferStatusAccepted
		offer.SessionID = &session.SessionID
		offer.RespondedAt = &now
		if err := msg.SetOffer(offer); err != nil {
			return err
		}

		// Guard JSONB: gagal kalau penawaran keburu direspons dari jalur lain.
		res := tx.Model(&chatModel.ChatMessageModel{}).
			Where("chat_message_id = ? AND chat_message_session_offer->>'status' = ?",
				msg.ChatMessageID, chatModel.OfferStatusProposed).
			Update("chat_message_session_offer", msg.ChatMessageSessionOffer)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.InvalidState("Penawaran sudah direspons")
		}
		return nil
	})
	if txErr != nil {
		return helper.FromFiberError(c, txErr)
	}

	notifier.FireAndForget(ctrl.Events, notifier.TopicSessionBooked, fiber.Map{
		"session_id": session.SessionID,
		"chat_id":    chat.ChatID,
		"student_id": session.SessionStudentID,
		"tutor_id":   session.SessionTutorID,
		"start_time": session.SessionStartTime,
	})

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Penawaran diterima, sesi terjadwal", session)
}

/* ================= POST /api/proposals/:id/reject ================= */

func (ctrl *ProposalController) Reject(c *fiber.Ctx) error {
	msg, offer, _, err := ctrl.loadProposalMessage(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req chatDTO.RejectProposalRequest
	_ = c.BodyParser(&req)

	if offer.Status != chatModel.OfferStatusProposed {
		return helper.FromFiberError(c, helper.InvalidState("Penawaran sudah direspons"))
	}

	now := time.Now()
	offer.Status = chatModel.OfferStatusRejected
	offer.RespondedAt = &now
	if req.Reason != "" {
		offer.RejectReason = &req.Reason
	}
	if err := msg.SetOffer(offer); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal memperbarui penawaran")
	}

	res := ctrl.DB.Model(&chatModel.ChatMessageModel{}).
		Where("chat_message_id = ? AND chat_message_session_offer->>'status' = ?",
			msg.ChatMessageID, chatModel.OfferStatusProposed).
		Update("chat_message_session_offer", msg.ChatMessageSessionOffer)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal memperbarui penawaran")
	}
	if res.RowsAffected == 0 {
		return helper.FromFiberError(c, helper.InvalidState("Penawaran sudah direspons"))
	}

	return helper.Success(c, "Penawaran ditolak", chatDTO.ToChatMessageResponse(msg))
}
