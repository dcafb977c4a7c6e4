// file: internals/features/chats/chats/model/chat_message_model.go
package model

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Status sub-dokumen penawaran sesi yang ditempel di message.
const (
	OfferStatusProposed = "proposed"
	OfferStatusAccepted = "accepted"
	OfferStatusRejected = "rejected"
	OfferStatusExpired  = "expired"
)

// SessionOffer: proposal sesi dari tutor, embedded sebagai JSONB di message.
// Belum jadi Session sampai student menerima.
type SessionOffer struct {
	SubjectID    uuid.UUID  `json:"subject_id"`
	Description  string     `json:"description,omitempty"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      time.Time  `json:"end_time"`
	Duration     int        `json:"duration"` // menit
	PricePerHour float64    `json:"price_per_hour"`
	TotalPrice   float64    `json:"total_price"`
	Status       string     `json:"status"`
	SessionID    *uuid.UUID `json:"session_id,omitempty"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
	RejectReason *string    `json:"reject_reason,omitempty"`
}

type ChatMessageModel struct {
	/* ============ PK & FK ============ */
	ChatMessageID       uuid.UUID `gorm:"column:chat_message_id;type:uuid;default:gen_random_uuid();primaryKey" json:"chat_message_id"`
	ChatMessageChatID   uuid.UUID `gorm:"column:chat_message_chat_id;type:uuid;not null;index" json:"chat_message_chat_id"`
	ChatMessageSenderID uuid.UUID `gorm:"column:chat_message_sender_id;type:uuid;not null" json:"chat_message_sender_id"`

	/* ============ Isi ============ */
	ChatMessageBody string `gorm:"column:chat_message_body;type:text;not null" json:"chat_message_body"`

	// Sub-dokumen penawaran sesi (NULL untuk pesan biasa)
	ChatMessageSessionOffer datatypes.JSON `gorm:"column:chat_message_session_offer;type:jsonb" json:"chat_message_session_offer,omitempty"`

	/* ============ Audit ============ */
	ChatMessageCreatedAt time.Time `gorm:"column:chat_message_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"chat_message_created_at"`
	ChatMessageUpdatedAt time.Time `gorm:"column:chat_message_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"chat_message_updated_at"`
}

func (ChatMessageModel) TableName() string { return "chat_messages" }

// Offer meng-decode sub-dokumen penawaran; nil kalau pesan biasa.
func (m *ChatMessageModel) Offer() (*SessionOffer, error) {
	if len(m.ChatMessageSessionOffer) == 0 {
		return nil, nil
	}
	var offer SessionOffer
	if err := sonic.Unmarshal(m.ChatMessageSessionOffer, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// SetOffer meng-encode sub-dokumen penawaran ke kolom JSONB.
func (m *ChatMessageModel) SetOffer(offer *SessionOffer) error {
	raw, err := sonic.Marshal(offer)
	if err != nil {
		return err
	}
	m.ChatMessageSessionOffer = datatypes.JSON(raw)
	return nil
}
