// file: internals/features/matching/requests/model/trial_request_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TrialRequestModel: permintaan sesi trial gratis dari student (termasuk guest
// yang baru diprovisioning). Window 24 jam, bisa diperpanjang sekali.
type TrialRequestModel struct {
	TrialRequestID uuid.UUID `gorm:"column:trial_request_id;type:uuid;default:gen_random_uuid();primaryKey" json:"trial_request_id"`

	TrialRequestStudentID uuid.UUID `gorm:"column:trial_request_student_id;type:uuid;not null;index" json:"trial_request_student_id"`
	TrialRequestSubjectID uuid.UUID `gorm:"column:trial_request_subject_id;type:uuid;not null;index" json:"trial_request_subject_id"`

	TrialRequestDescription  string         `gorm:"column:trial_request_description;type:text;not null" json:"trial_request_description"`
	TrialRequestAvailability datatypes.JSON `gorm:"column:trial_request_availability;type:jsonb" json:"trial_request_availability,omitempty"`
	TrialRequestGrade        *string        `gorm:"column:trial_request_grade;type:varchar(50)" json:"trial_request_grade,omitempty"`
	TrialRequestSchool       *string        `gorm:"column:trial_request_school;type:varchar(100)" json:"trial_request_school,omitempty"`

	// Email kontak saat request dibuat. Dipakai untuk cancel tanpa login
	// (guest flow); dicocokkan case-insensitive.
	TrialRequestContactEmail string `gorm:"column:trial_request_contact_email;type:varchar(255);not null;index" json:"trial_request_contact_email"`

	TrialRequestStatus    string    `gorm:"column:trial_request_status;type:varchar(20);not null;default:'pending';index" json:"trial_request_status"`
	TrialRequestExpiresAt time.Time `gorm:"column:trial_request_expires_at;not null;index" json:"trial_request_expires_at"`

	TrialRequestExtensionsCount int        `gorm:"column:trial_request_extensions_count;not null;default:0" json:"trial_request_extensions_count"`
	TrialRequestReminderSentAt  *time.Time `gorm:"column:trial_request_reminder_sent_at" json:"trial_request_reminder_sent_at,omitempty"`
	TrialRequestFinalExpiresAt  *time.Time `gorm:"column:trial_request_final_expires_at;index" json:"trial_request_final_expires_at,omitempty"`

	TrialRequestAcceptedTutorID *uuid.UUID `gorm:"column:trial_request_accepted_tutor_id;type:uuid" json:"trial_request_accepted_tutor_id,omitempty"`
	TrialRequestChatID          *uuid.UUID `gorm:"column:trial_request_chat_id;type:uuid" json:"trial_request_chat_id,omitempty"`
	TrialRequestAcceptedAt      *time.Time `gorm:"column:trial_request_accepted_at" json:"trial_request_accepted_at,omitempty"`
	TrialRequestCancelledAt     *time.Time `gorm:"column:trial_request_cancelled_at" json:"trial_request_cancelled_at,omitempty"`
	TrialRequestCancelReason    *string    `gorm:"column:trial_request_cancel_reason;type:text" json:"trial_request_cancel_reason,omitempty"`

	TrialRequestCreatedAt time.Time      `gorm:"column:trial_request_created_at;autoCreateTime" json:"trial_request_created_at"`
	TrialRequestUpdatedAt time.Time      `gorm:"column:trial_request_updated_at;autoUpdateTime" json:"trial_request_updated_at"`
	TrialRequestDeletedAt gorm.DeletedAt `gorm:"column:trial_request_deleted_at;index" json:"-"`
}

func (TrialRequestModel) TableName() string {
	return "trial_requests"
}

// EffectiveStatus: status dengan lazy expiry (pending + lewat window = expired).
func (m *TrialRequestModel) EffectiveStatus(now time.Time) string {
	return EffectiveRequestStatus(m.TrialRequestStatus, m.TrialRequestExpiresAt, now)
}

func (m *TrialRequestModel) CanExtend() bool {
	return m.TrialRequestExtensionsCount < MaxExtensions
}

// Extendable: window masih jalan, atau sudah lewat tapi masih masa tenggang.
func (m *TrialRequestModel) Extendable(now time.Time) bool {
	return RequestExtendable(m.TrialRequestStatus, m.TrialRequestExpiresAt,
		m.TrialRequestFinalExpiresAt, m.TrialRequestExtensionsCount, now)
}
