// file: internals/features/billing/subscriptions/dto/subscription_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorin_backend/internals/features/billing/subscriptions/model"
)

type SubscribeRequest struct {
	Tier string `json:"tier" validate:"required,oneof=FLEXIBLE REGULAR LONG_TERM"`
}

type ConfirmPaymentRequest struct {
	PaymentConfirmationID string `json:"payment_confirmation_id" validate:"required"`
}

type SubscriptionResponse struct {
	SubscriptionID   uuid.UUID  `json:"subscription_id"`
	StudentID        uuid.UUID  `json:"student_id"`
	Tier             string     `json:"tier"`
	PricePerHour     float64    `json:"price_per_hour"`
	CommitmentMonths int        `json:"commitment_months"`
	MinimumHours     int        `json:"minimum_hours"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	Status           string     `json:"status"`
	TotalHoursTaken  float64    `json:"total_hours_taken"`
	HoursRemaining   float64    `json:"hours_remaining"`
	OrderID          string     `json:"order_id"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// SubscribeResponse membawa snap token untuk melanjutkan pembayaran.
type SubscribeResponse struct {
	Subscription SubscriptionResponse `json:"subscription"`
	SnapToken    string               `json:"snap_token"`
	UpfrontPrice float64              `json:"upfront_price"`
}

func ToSubscriptionResponse(m *model.StudentSubscriptionModel) SubscriptionResponse {
	return SubscriptionResponse{
		SubscriptionID:   m.SubscriptionID,
		StudentID:        m.SubscriptionStudentID,
		Tier:             m.SubscriptionTier,
		PricePerHour:     m.SubscriptionPricePerHour,
		CommitmentMonths: m.SubscriptionCommitmentMonths,
		MinimumHours:     m.SubscriptionMinimumHours,
		StartDate:        m.SubscriptionStartDate,
		EndDate:          m.SubscriptionEndDate,
		Status:           m.SubscriptionStatus,
		TotalHoursTaken:  m.SubscriptionTotalHoursTaken,
		HoursRemaining:   m.HoursRemaining(),
		OrderID:          m.SubscriptionOrderID,
		CancelledAt:      m.SubscriptionCancelledAt,
		CreatedAt:        m.SubscriptionCreatedAt,
	}
}
