// file: internals/features/chats/chats/model/chat_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Jenis request asal chat (back-reference opsional).
const (
	ChatOriginTrialRequest   = "trial_request"
	ChatOriginSessionRequest = "session_request"
)

type ChatModel struct {
	/* ============ PK ============ */
	ChatID uuid.UUID `gorm:"column:chat_id;type:uuid;default:gen_random_uuid();primaryKey" json:"chat_id"`

	/* ============ Participants ============ */
	ChatStudentID uuid.UUID `gorm:"column:chat_student_id;type:uuid;not null;index" json:"chat_student_id"`
	ChatTutorID   uuid.UUID `gorm:"column:chat_tutor_id;type:uuid;not null;index" json:"chat_tutor_id"`

	/* ============ Back-reference request asal (opsional) ============ */
	ChatOriginType      *string    `gorm:"column:chat_origin_type;type:varchar(30)" json:"chat_origin_type,omitempty"`
	ChatOriginRequestID *uuid.UUID `gorm:"column:chat_origin_request_id;type:uuid" json:"chat_origin_request_id,omitempty"`

	/* ============ Audit ============ */
	ChatCreatedAt time.Time      `gorm:"column:chat_created_at;type:timestamptz;not null;default:now();autoCreateTime" json:"chat_created_at"`
	ChatUpdatedAt time.Time      `gorm:"column:chat_updated_at;type:timestamptz;not null;default:now();autoUpdateTime" json:"chat_updated_at"`
	ChatDeletedAt gorm.DeletedAt `gorm:"column:chat_deleted_at;index" json:"chat_deleted_at,omitempty"`
}

func (ChatModel) TableName() string { return "chats" }

// HasParticipant cek apakah user adalah peserta chat ini.
func (m *ChatModel) HasParticipant(userID uuid.UUID) bool {
	return m.ChatStudentID == userID || m.ChatTutorID == userID
}

// Counterpart mengembalikan peserta lawan; uuid.Nil kalau bukan peserta.
func (m *ChatModel) Counterpart(userID uuid.UUID) uuid.UUID {
	switch userID {
	case m.ChatStudentID:
		return m.ChatTutorID
	case m.ChatTutorID:
		return m.ChatStudentID
	default:
		return uuid.Nil
	}
}
