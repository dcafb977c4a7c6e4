// file: internals/features/matching/requests/model/session_request_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SessionRequestModel: permintaan sesi berbayar. Window 7 hari,
// bisa diperpanjang sekali. Hanya student yang sudah menyelesaikan
// trial yang boleh membuat session request.
type SessionRequestModel struct {
	SessionRequestID uuid.UUID `gorm:"column:session_request_id;type:uuid;default:gen_random_uuid();primaryKey" json:"session_request_id"`

	SessionRequestStudentID uuid.UUID `gorm:"column:session_request_student_id;type:uuid;not null;index" json:"session_request_student_id"`
	SessionRequestSubjectID uuid.UUID `gorm:"column:session_request_subject_id;type:uuid;not null;index" json:"session_request_subject_id"`

	SessionRequestDescription  string         `gorm:"column:session_request_description;type:text;not null" json:"session_request_description"`
	SessionRequestAvailability datatypes.JSON `gorm:"column:session_request_availability;type:jsonb" json:"session_request_availability,omitempty"`
	SessionRequestGrade        *string        `gorm:"column:session_request_grade;type:varchar(50)" json:"session_request_grade,omitempty"`
	SessionRequestSchool       *string        `gorm:"column:session_request_school;type:varchar(100)" json:"session_request_school,omitempty"`

	// Preferensi durasi per sesi dalam menit (opsional, dipakai tutor
	// sebagai acuan saat menyusun penawaran).
	SessionRequestPreferredDuration *int `gorm:"column:session_request_preferred_duration" json:"session_request_preferred_duration,omitempty"`

	SessionRequestContactEmail string `gorm:"column:session_request_contact_email;type:varchar(255);not null;index" json:"session_request_contact_email"`

	SessionRequestStatus    string    `gorm:"column:session_request_status;type:varchar(20);not null;default:'pending';index" json:"session_request_status"`
	SessionRequestExpiresAt time.Time `gorm:"column:session_request_expires_at;not null;index" json:"session_request_expires_at"`

	SessionRequestExtensionsCount int        `gorm:"column:session_request_extensions_count;not null;default:0" json:"session_request_extensions_count"`
	SessionRequestReminderSentAt  *time.Time `gorm:"column:session_request_reminder_sent_at" json:"session_request_reminder_sent_at,omitempty"`
	SessionRequestFinalExpiresAt  *time.Time `gorm:"column:session_request_final_expires_at;index" json:"session_request_final_expires_at,omitempty"`

	SessionRequestAcceptedTutorID *uuid.UUID `gorm:"column:session_request_accepted_tutor_id;type:uuid" json:"session_request_accepted_tutor_id,omitempty"`
	SessionRequestChatID          *uuid.UUID `gorm:"column:session_request_chat_id;type:uuid" json:"session_request_chat_id,omitempty"`
	SessionRequestAcceptedAt      *time.Time `gorm:"column:session_request_accepted_at" json:"session_request_accepted_at,omitempty"`
	SessionRequestCancelledAt     *time.Time `gorm:"column:session_request_cancelled_at" json:"session_request_cancelled_at,omitempty"`
	SessionRequestCancelReason    *string    `gorm:"column:session_request_cancel_reason;type:text" json:"session_request_cancel_reason,omitempty"`

	SessionRequestCreatedAt time.Time      `gorm:"column:session_request_created_at;autoCreateTime" json:"session_request_created_at"`
	SessionRequestUpdatedAt time.Time      `gorm:"column:session_request_updated_at;autoUpdateTime" json:"session_request_updated_at"`
	SessionRequestDeletedAt gorm.DeletedAt `gorm:"column:session_request_deleted_at;index" json:"-"`
}

func (SessionRequestModel) TableName() string {
	return "session_requests"
}

func (m *SessionRequestModel) EffectiveStatus(now time.Time) string {
	return EffectiveRequestStatus(m.SessionRequestStatus, m.SessionRequestExpiresAt, now)
}

func (m *SessionRequestModel) CanExtend() bool {
	return m.SessionRequestExtensionsCount < MaxExtensions
}

func (m *SessionRequestModel) Extendable(now time.Time) bool {
	return RequestExtendable(m.SessionRequestStatus, m.SessionRequestExpiresAt,
		m.SessionRequestFinalExpiresAt, m.SessionRequestExtensionsCount, now)
}
