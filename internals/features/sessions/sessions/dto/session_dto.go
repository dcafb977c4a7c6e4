// file: internals/features/sessions/sessions/dto/session_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorin_backend/internals/features/sessions/sessions/model"
)

// ===============================
// Request (input) structures
// ===============================

type CancelSessionRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type RescheduleSessionRequest struct {
	NewStartTime time.Time `json:"new_start_time" validate:"required"`
	Reason       string    `json:"reason" validate:"omitempty,max=500"`
}

type RespondRescheduleRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason" validate:"omitempty,max=500"`
}

// ===============================
// Response structures
// ===============================

type SessionResponse struct {
	SessionID   uuid.UUID  `json:"session_id"`
	StudentID   uuid.UUID  `json:"student_id"`
	TutorID     uuid.UUID  `json:"tutor_id"`
	SubjectID   uuid.UUID  `json:"subject_id"`
	ChatID      *uuid.UUID `json:"chat_id,omitempty"`
	Description string     `json:"description,omitempty"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  int       `json:"duration"`

	PricePerHour float64 `json:"price_per_hour"`
	TotalPrice   float64 `json:"total_price"`

	Status     string                   `json:"status"`
	Reschedule *model.RescheduleRequest `json:"reschedule,omitempty"`

	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        *uuid.UUID `json:"cancelled_by,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`

	TeacherCompletion string    `json:"teacher_completion"`
	CreatedAt         time.Time `json:"created_at"`
}

type JoinTokenResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	RoomID    string    `json:"room_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func ToSessionResponse(m *model.SessionModel) SessionResponse {
	reschedule, _ := m.Reschedule()
	return SessionResponse{
		SessionID:          m.SessionID,
		StudentID:          m.SessionStudentID,
		TutorID:            m.SessionTutorID,
		SubjectID:          m.SessionSubjectID,
		ChatID:             m.SessionChatID,
		Description:        m.SessionDescription,
		StartTime:          m.SessionStartTime,
		EndTime:            m.SessionEndTime,
		Duration:           m.SessionDuration,
		PricePerHour:       m.SessionPricePerHour,
		TotalPrice:         m.SessionTotalPrice,
		Status:             m.SessionStatus,
		Reschedule:         reschedule,
		StartedAt:          m.SessionStartedAt,
		CompletedAt:        m.SessionCompletedAt,
		CancelledAt:        m.SessionCancelledAt,
		CancelledBy:        m.SessionCancelledBy,
		CancellationReason: m.SessionCancellationReason,
		TeacherCompletion:  m.SessionTeacherCompletion,
		CreatedAt:          m.SessionCreatedAt,
	}
}
