// file: internals/features/chats/chats/controller/chat_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	chatDTO "tutorin_backend/internals/features/chats/chats/dto"
	chatModel "tutorin_backend/internals/features/chats/chats/model"
	helper "tutorin_backend/internals/helpers"
	"tutorin_backend/internals/notifier"
)

var validate = validator.New()

type ChatController struct {
	DB     *gorm.DB
	Events notifier.Publisher
}

func NewChatController(db *gorm.DB, events notifier.Publisher) *ChatController {
	return &ChatController{DB: db, Events: events}
}

// loadChatForParticipant: ambil chat + pastikan user adalah salah satu pesertanya.
func loadChatForParticipant(db *gorm.DB, chatID, userID uuid.UUID) (*chatModel.ChatModel, error) {
	var chat chatModel.ChatModel
	if err := db.First(&chat, "chat_id = ?", chatID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, helper.NotFound("Chat tidak ditemukan")
		}
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, helper.Forbidden("Bukan peserta chat ini")
	}
	return &chat, nil
}

/* ================= GET /api/chats ================= */

func (ctrl *ChatController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var chats []chatModel.ChatModel
	if err := ctrl.DB.
		Where("chat_student_id = ? OR chat_tutor_id = ?", userID, userID).
		Order("chat_updated_at DESC").
		Find(&chats).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal ambil daftar chat")
	}

	out := make([]chatDTO.ChatResponse, 0, len(chats))
	for i := range chats {
		out = append(out, chatDTO.ToChatResponse(&chats[i]))
	}
	return helper.Success(c, "OK", out)
}

/* ================= GET /api/chats/:id ================= */

func (ctrl *ChatController) GetByID(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	chatID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	chat, err := loadChatForParticipant(ctrl.DB, chatID, userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "OK", chatDTO.ToChatResponse(chat))
}

/* ================= GET /api/chats/:id/messages ================= */

func (ctrl *ChatController) ListMessages(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	chatID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	if _, err := loadChatForParticipant(ctrl.DB, chatID, userID); err != nil {
		return helper.FromFiberError(c, err)
	}

	page := helper.ParsePage(c, "chat_message_created_at", "chat_message_created_at")
	var total int64
	ctrl.DB.Model(&chatModel.ChatMessageModel{}).
		Where("chat_message_chat_id = ?", chatID).
		Count(&total)

	var messages []chatModel.ChatMessageModel
	if err := ctrl.DB.
		Where("chat_message_chat_id = ?", chatID).
		Order(page.SortBy + " " + page.Sort).
		Limit(page.PerPage).
		Offset(page.Offset()).
		Find(&messages).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal ambil pesan")
	}

	out := make([]chatDTO.ChatMessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, chatDTO.ToChatMessageResponse(&messages[i]))
	}
	return helper.Success(c, "OK", fiber.Map{
		"messages":   out,
		"pagination": helper.PageMeta(page, total),
	})
}

/* ================= POST /api/chats/:id/messages ================= */

func (ctrl *ChatController) SendMessage(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	chatID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var req chatDTO.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if _, err := loadChatForParticipant(ctrl.DB, chatID, userID); err != nil {
		return helper.FromFiberError(c, err)
	}

	msg := chatModel.ChatMessageModel{
		ChatMessageChatID:   chatID,
		ChatMessageSenderID: userID,
		ChatMessageBody:     req.Body,
	}
	if err := ctrl.DB.Create(&msg).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal kirim pesan")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Pesan terkirim", chatDTO.ToChatMessageResponse(&msg))
}
