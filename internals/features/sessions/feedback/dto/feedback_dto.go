// file: internals/features/sessions/feedback/dto/feedback_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorin_backend/internals/features/sessions/feedback/model"
)

type SubmitFeedbackRequest struct {
	SessionID     uuid.UUID `json:"session_id" validate:"required"`
	Rating        int       `json:"rating" validate:"required,min=1,max=5"`
	FeedbackType  string    `json:"feedback_type" validate:"required,oneof=text audio"`
	Text          string    `json:"text" validate:"omitempty,max=4000"`
	AudioURL      string    `json:"audio_url" validate:"omitempty,url"`
	AudioDuration int       `json:"audio_duration" validate:"omitempty,min=1"`
}

type FeedbackResponse struct {
	FeedbackID    uuid.UUID  `json:"feedback_id"`
	SessionID     uuid.UUID  `json:"session_id"`
	TutorID       uuid.UUID  `json:"tutor_id"`
	StudentID     uuid.UUID  `json:"student_id"`
	Rating        *int       `json:"rating,omitempty"`
	FeedbackType  *string    `json:"feedback_type,omitempty"`
	Text          *string    `json:"text,omitempty"`
	AudioURL      *string    `json:"audio_url,omitempty"`
	AudioDuration *int       `json:"audio_duration,omitempty"`
	DueDate       time.Time  `json:"due_date"`
	Status        string     `json:"status"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	IsLate        bool       `json:"is_late"`

	PaymentForfeited bool       `json:"payment_forfeited"`
	ForfeitedAmount  *float64   `json:"forfeited_amount,omitempty"`
	ForfeitedAt      *time.Time `json:"forfeited_at,omitempty"`
}

func ToFeedbackResponse(m *model.TutorSessionFeedbackModel) FeedbackResponse {
	return FeedbackResponse{
		FeedbackID:       m.FeedbackID,
		SessionID:        m.FeedbackSessionID,
		TutorID:          m.FeedbackTutorID,
		StudentID:        m.FeedbackStudentID,
		Rating:           m.FeedbackRating,
		FeedbackType:     m.FeedbackType,
		Text:             m.FeedbackText,
		AudioURL:         m.FeedbackAudioURL,
		AudioDuration:    m.FeedbackAudioDuration,
		DueDate:          m.FeedbackDueDate,
		Status:           m.FeedbackStatus,
		SubmittedAt:      m.FeedbackSubmittedAt,
		IsLate:           m.FeedbackIsLate,
		PaymentForfeited: m.FeedbackPaymentForfeited,
		ForfeitedAmount:  m.FeedbackForfeitedAmount,
		ForfeitedAt:      m.FeedbackForfeitedAt,
	}
}
