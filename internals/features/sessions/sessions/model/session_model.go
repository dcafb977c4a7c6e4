// file: internals/features/sessions/sessions/model/session_model.go
package model

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status sesi. Terminal: completed/cancelled/no_show/expired.
const (
	SessionStatusScheduled           = "scheduled"
	SessionStatusStartingSoon        = "starting_soon"
	SessionStatusInProgress          = "in_progress"
	SessionStatusAwaitingResponse    = "awaiting_response"
	SessionStatusRescheduleRequested = "reschedule_requested"
	SessionStatusCompleted           = "completed"
	SessionStatusCancelled           = "cancelled"
	SessionStatusNoShow              = "no_show"
	SessionStatusExpired             = "expired"
)

// Status konfirmasi penyelesaian dari sisi tutor (terkait feedback).
const (
	TeacherCompletionPending       = "pending"
	TeacherCompletionCompleted     = "completed"
	TeacherCompletionNotApplicable = "not_applicable"
)

// Status sub-record reschedule.
const (
	RescheduleStatusPending  = "pending"
	RescheduleStatusApproved = "approved"
	RescheduleStatusRejected = "rejected"
)

// StartingSoonWindow: sesi masuk STARTING_SOON mulai 10 menit sebelum start.
const StartingSoonWindow = 10 * time.Minute

// MinRescheduleNotice: reschedule harus diajukan minimal 10 menit sebelum start.
const MinRescheduleNotice = 10 * time.Minute

// RescheduleRequest: sub-record pengajuan jadwal ulang, JSONB di sessions.
// Maksimal satu yang outstanding (status pending).
type RescheduleRequest struct {
	RequestedBy  uuid.UUID  `json:"requested_by"`
	RequestedAt  time.Time  `json:"requested_at"`
	NewStartTime time.Time  `json:"new_start_time"`
	NewEndTime   time.Time  `json:"new_end_time"`
	Reason       string     `json:"reason,omitempty"`
	Status       string     `json:"status"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
	RespondedBy  *uuid.UUID `json:"responded_by,omitempty"`
}

type SessionModel struct {
	SessionID uuid.UUID `gorm:"column:session_id;type:uuid;default:gen_random_uuid();primaryKey" json:"session_id"`

	SessionStudentID uuid.UUID `gorm:"column:session_student_id;type:uuid;not null;index" json:"session_student_id"`
	SessionTutorID   uuid.UUID `gorm:"column:session_tutor_id;type:uuid;not null;index" json:"session_tutor_id"`
	SessionSubjectID uuid.UUID `gorm:"column:session_subject_id;type:uuid;not null;index" json:"session_subject_id"`
	SessionChatID    *uuid.UUID `gorm:"column:session_chat_id;type:uuid" json:"session_chat_id,omitempty"`

	SessionDescription string    `gorm:"column:session_description;type:text" json:"session_description"`
	SessionStartTime   time.Time `gorm:"column:session_start_time;not null;index" json:"session_start_time"`
	SessionEndTime     time.Time `gorm:"column:session_end_time;not null;index" json:"session_end_time"`
	SessionDuration    int       `gorm:"column:session_duration;not null" json:"session_duration"` // menit

	// Harga dikunci saat proposal dibuat; total selalu turunan, bukan sumber kebenaran.
	SessionPricePerHour float64 `gorm:"column:session_price_per_hour;not null" json:"session_price_per_hour"`
	SessionTotalPrice   float64 `gorm:"column:session_total_price;not null" json:"session_total_price"`

	SessionStatus string `gorm:"column:session_status;type:varchar(30);not null;default:'scheduled';index" json:"session_status"`

	SessionReschedule datatypes.JSON `gorm:"column:session_reschedule;type:jsonb" json:"session_reschedule,omitempty"`

	SessionStartedAt   *time.Time `gorm:"column:session_started_at" json:"session_started_at,omitempty"`
	SessionCompletedAt *time.Time `gorm:"column:session_completed_at" json:"session_completed_at,omitempty"`

	SessionCancelledAt        *time.Time `gorm:"column:session_cancelled_at" json:"session_cancelled_at,omitempty"`
	SessionCancelledBy        *uuid.UUID `gorm:"column:session_cancelled_by;type:uuid" json:"session_cancelled_by,omitempty"`
	SessionCancellationReason *string    `gorm:"column:session_cancellation_reason;type:text" json:"session_cancellation_reason,omitempty"`

	SessionTeacherCompletion string `gorm:"column:session_teacher_completion;type:varchar(20);not null;default:'pending'" json:"session_teacher_completion"`

	SessionCreatedAt time.Time      `gorm:"column:session_created_at;autoCreateTime" json:"session_created_at"`
	SessionUpdatedAt time.Time      `gorm:"column:session_updated_at;autoUpdateTime" json:"session_updated_at"`
	SessionDeletedAt gorm.DeletedAt `gorm:"column:session_deleted_at;index" json:"-"`
}

func (SessionModel) TableName() string {
	return "sessions"
}

func IsTerminalSessionStatus(status string) bool {
	switch status {
	case SessionStatusCompleted, SessionStatusCancelled, SessionStatusNoShow, SessionStatusExpired:
		return true
	}
	return false
}

// Reschedule membaca sub-record JSONB; nil kalau belum pernah ada pengajuan.
func (m *SessionModel) Reschedule() (*RescheduleRequest, error) {
	if len(m.SessionReschedule) == 0 {
		return nil, nil
	}
	var r RescheduleRequest
	if err := sonic.Unmarshal(m.SessionReschedule, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (m *SessionModel) SetReschedule(r *RescheduleRequest) error {
	raw, err := sonic.Marshal(r)
	if err != nil {
		return err
	}
	m.SessionReschedule = datatypes.JSON(raw)
	return nil
}

func (m *SessionModel) HasParticipant(userID uuid.UUID) bool {
	return m.SessionStudentID == userID || m.SessionTutorID == userID
}

// IsOver: satu-satunya definisi "sesi sudah lewat" yang dipakai sweep,
// manual complete, dan lazy completion dari feedback.
func (m *SessionModel) IsOver(now time.Time) bool {
	return !now.Before(m.SessionEndTime)
}
