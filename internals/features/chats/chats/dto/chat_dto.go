// file: internals/features/chats/chats/dto/chat_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorin_backend/internals/features/chats/chats/model"
)

// ===============================
// Request (input) structures
// ===============================

type SendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=4000"`
}

// ProposeSessionRequest: tutor menyusun penawaran sesi di dalam chat.
type ProposeSessionRequest struct {
	ChatID      uuid.UUID `json:"chat_id" validate:"required"`
	SubjectID   uuid.UUID `json:"subject_id" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Description string    `json:"description" validate:"omitempty,max=2000"`
}

type RejectProposalRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// ===============================
// Response structures
// ===============================

type ChatResponse struct {
	ChatID          uuid.UUID  `json:"chat_id"`
	StudentID       uuid.UUID  `json:"student_id"`
	TutorID         uuid.UUID  `json:"tutor_id"`
	OriginType      *string    `json:"origin_type,omitempty"`
	OriginRequestID *uuid.UUID `json:"origin_request_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type ChatMessageResponse struct {
	ChatMessageID uuid.UUID           `json:"chat_message_id"`
	ChatID        uuid.UUID           `json:"chat_id"`
	SenderID      uuid.UUID           `json:"sender_id"`
	Body          string              `json:"body"`
	SessionOffer  *model.SessionOffer `json:"session_offer,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

func ToChatResponse(m *model.ChatModel) ChatResponse {
	return ChatResponse{
		ChatID:          m.ChatID,
		StudentID:       m.ChatStudentID,
		TutorID:         m.ChatTutorID,
		OriginType:      m.ChatOriginType,
		OriginRequestID: m.ChatOriginRequestID,
		CreatedAt:       m.ChatCreatedAt,
	}
}

func ToChatMessageResponse(m *model.ChatMessageModel) ChatMessageResponse {
	offer, _ := m.Offer() // offer korup diperlakukan seperti pesan biasa
	return ChatMessageResponse{
		ChatMessageID: m.ChatMessageID,
		ChatID:        m.ChatMessageChatID,
		SenderID:      m.ChatMessageSenderID,
		Body:          m.ChatMessageBody,
		SessionOffer:  offer,
		CreatedAt:     m.ChatMessageCreatedAt,
	}
}
