// file: internals/features/matching/requests/dto/request_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"tutorin_backend/internals/features/matching/requests/model"
)

// ===============================
// Request (input) structures
// ===============================

// GuestStudentRequest: data student yang belum punya akun. Saat request
// pertama dibuat, akun langsung diprovisikan dari data ini.
type GuestStudentRequest struct {
	Name             string `json:"name" validate:"required,min=2,max=100"`
	IsUnder18        bool   `json:"is_under_18"`
	Email            string `json:"email" validate:"omitempty,email"`
	Password         string `json:"password" validate:"omitempty,min=8"`
	GuardianEmail    string `json:"guardian_email" validate:"omitempty,email"`
	GuardianPassword string `json:"guardian_password" validate:"omitempty,min=8"`
}

type CreateTrialRequestRequest struct {
	SubjectID    uuid.UUID            `json:"subject_id" validate:"required"`
	Description  string               `json:"description" validate:"required,min=10,max=2000"`
	Availability datatypes.JSON       `json:"availability"`
	Grade        *string              `json:"grade" validate:"omitempty,max=50"`
	School       *string              `json:"school" validate:"omitempty,max=100"`
	Guest        *GuestStudentRequest `json:"guest"`
}

type CreateSessionRequestRequest struct {
	SubjectID         uuid.UUID      `json:"subject_id" validate:"required"`
	Description       string         `json:"description" validate:"required,min=10,max=2000"`
	Availability      datatypes.JSON `json:"availability"`
	Grade             *string        `json:"grade" validate:"omitempty,max=50"`
	School            *string        `json:"school" validate:"omitempty,max=100"`
	PreferredDuration *int           `json:"preferred_duration" validate:"omitempty,min=30,max=240"`
}

type AcceptRequestRequest struct {
	IntroMessage string `json:"intro_message" validate:"omitempty,max=2000"`
}

// CancelRequestRequest: untuk guest yang cancel tanpa login, email kontak
// wajib diisi dan dicocokkan dengan email saat request dibuat.
type CancelRequestRequest struct {
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Reason       string `json:"reason" validate:"omitempty,max=500"`
}

// ===============================
// Response structures
// ===============================

type TrialRequestResponse struct {
	TrialRequestID  uuid.UUID      `json:"trial_request_id"`
	StudentID       uuid.UUID      `json:"student_id"`
	SubjectID       uuid.UUID      `json:"subject_id"`
	Description     string         `json:"description"`
	Availability    datatypes.JSON `json:"availability,omitempty"`
	Status          string         `json:"status"`
	ExpiresAt       time.Time      `json:"expires_at"`
	ExtensionsCount int            `json:"extensions_count"`
	AcceptedTutorID *uuid.UUID     `json:"accepted_tutor_id,omitempty"`
	AcceptedAt      *time.Time     `json:"accepted_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

type SessionRequestResponse struct {
	SessionRequestID  uuid.UUID      `json:"session_request_id"`
	StudentID         uuid.UUID      `json:"student_id"`
	SubjectID         uuid.UUID      `json:"subject_id"`
	Description       string         `json:"description"`
	Availability      datatypes.JSON `json:"availability,omitempty"`
	PreferredDuration *int           `json:"preferred_duration,omitempty"`
	Status            string         `json:"status"`
	ExpiresAt         time.Time      `json:"expires_at"`
	ExtensionsCount   int            `json:"extensions_count"`
	AcceptedTutorID   *uuid.UUID     `json:"accepted_tutor_id,omitempty"`
	AcceptedAt        *time.Time     `json:"accepted_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// AcceptRequestResponse: hasil accept termasuk chat yang otomatis terbuka.
type AcceptRequestResponse struct {
	RequestID uuid.UUID `json:"request_id"`
	Status    string    `json:"status"`
	ChatID    uuid.UUID `json:"chat_id"`
}

func ToTrialRequestResponse(m *model.TrialRequestModel, now time.Time) TrialRequestResponse {
	return TrialRequestResponse{
		TrialRequestID:  m.TrialRequestID,
		StudentID:       m.TrialRequestStudentID,
		SubjectID:       m.TrialRequestSubjectID,
		Description:     m.TrialRequestDescription,
		Availability:    m.TrialRequestAvailability,
		Status:          m.EffectiveStatus(now),
		ExpiresAt:       m.TrialRequestExpiresAt,
		ExtensionsCount: m.TrialRequestExtensionsCount,
		AcceptedTutorID: m.TrialRequestAcceptedTutorID,
		AcceptedAt:      m.TrialRequestAcceptedAt,
		CreatedAt:       m.TrialRequestCreatedAt,
	}
}

func ToSessionRequestResponse(m *model.SessionRequestModel, now time.Time) SessionRequestResponse {
	return SessionRequestResponse{
		SessionRequestID:  m.SessionRequestID,
		StudentID:         m.SessionRequestStudentID,
		SubjectID:         m.SessionRequestSubjectID,
		Description:       m.SessionRequestDescription,
		Availability:      m.SessionRequestAvailability,
		PreferredDuration: m.SessionRequestPreferredDuration,
		Status:            m.EffectiveStatus(now),
		ExpiresAt:         m.SessionRequestExpiresAt,
		ExtensionsCount:   m.SessionRequestExtensionsCount,
		AcceptedTutorID:   m.SessionRequestAcceptedTutorID,
		AcceptedAt:        m.SessionRequestAcceptedAt,
		CreatedAt:         m.SessionRequestCreatedAt,
	}
}
