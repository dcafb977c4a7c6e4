package dto

import (
	"time"

	"github.com/google/uuid"

	userModel "tutorin_backend/internals/features/users/user/model"
)

// TutorResponse: profil tutor untuk listing/matching (tanpa field sensitif).
type TutorResponse struct {
	ID            uuid.UUID   `json:"id"`
	UserName      string      `json:"user_name"`
	IsVerified    bool        `json:"is_verified"`
	RatingAverage float64     `json:"rating_average"`
	RatingCount   int         `json:"rating_count"`
	SubjectIDs    []uuid.UUID `json:"subject_ids,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

func ToTutorResponse(u *userModel.UserModel, subjectIDs []uuid.UUID) *TutorResponse {
	return &TutorResponse{
		ID:            u.ID,
		UserName:      u.UserName,
		IsVerified:    u.IsVerified,
		RatingAverage: u.RatingAverage,
		RatingCount:   u.RatingCount,
		SubjectIDs:    subjectIDs,
		CreatedAt:     u.CreatedAt,
	}
}

// UpdateTutorSubjectsRequest: set ulang daftar subject yang diajar tutor.
type UpdateTutorSubjectsRequest struct {
	SubjectIDs []uuid.UUID `json:"subject_ids" validate:"required,min=1,dive,required"`
}

// VerifyTutorRequest: aksi admin memverifikasi pelamar jadi tutor.
type VerifyTutorRequest struct {
	Verified bool `json:"verified"`
}
