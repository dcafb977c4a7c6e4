// file: internals/features/matching/requests/service/request_service.go
package service

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorin_backend/internals/constants"
	chatModel "tutorin_backend/internals/features/chats/chats/model"
	"tutorin_backend/internals/features/matching/requests/model"
	userModel "tutorin_backend/internals/features/users/user/model"
)

// HasPendingRequest: student maksimal punya SATU request pending lintas
// kedua jenis (trial + session). Cek pakai semantik lazy expiry: baris
// berstatus pending tapi sudah lewat window tidak dihitung.
func HasPendingRequest(db *gorm.DB, studentID uuid.UUID, now time.Time) (bool, error) {
	var count int64
	if err := db.Model(&model.TrialRequestModel{}).
		Where("trial_request_student_id = ? AND trial_request_status = ? AND trial_request_expires_at > ?",
			studentID, model.RequestStatusPending, now).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := db.Model(&model.SessionRequestModel{}).
		Where("session_request_student_id = ? AND session_request_status = ? AND session_request_expires_at > ?",
			studentID, model.RequestStatusPending, now).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExpireLapsedRequests: persist expired untuk request pending milik student
// yang sudah lewat window. Dipanggil sebelum create request baru: baris lama
// yang cuma lapsed (tersimpan pending selama masa tenggang) dilepaskan dari
// partial unique index supaya tidak memblokir insert. Best-effort — kalau
// gagal, insert-nya sendiri yang akan menolak lewat index.
func ExpireLapsedRequests(db *gorm.DB, studentID uuid.UUID, now time.Time) {
	db.Model(&model.TrialRequestModel{}).
		Where("trial_request_student_id = ? AND trial_request_status = ? AND trial_request_expires_at <= ?",
			studentID, model.RequestStatusPending, now).
		Update("trial_request_status", model.RequestStatusExpired)
	db.Model(&model.SessionRequestModel{}).
		Where("session_request_student_id = ? AND session_request_status = ? AND session_request_expires_at <= ?",
			studentID, model.RequestStatusPending, now).
		Update("session_request_status", model.RequestStatusExpired)
}

// EnsureTutorEligible: hanya tutor terverifikasi yang mengajar subject
// terkait yang boleh meng-accept request.
func EnsureTutorEligible(db *gorm.DB, tutorID, subjectID uuid.UUID) (*userModel.UserModel, error) {
	var tutor userModel.UserModel
	if err := db.First(&tutor, "id = ? AND role = ?", tutorID, constants.RoleTutor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusForbidden, "Hanya tutor yang bisa menerima request")
		}
		return nil, err
	}
	if !tutor.IsVerified {
		return nil, fiber.NewError(fiber.StatusForbidden, "Tutor belum terverifikasi")
	}

	var count int64
	if err := db.Model(&userModel.TutorSubjectModel{}).
		Where("tutor_subject_tutor_id = ? AND tutor_subject_subject_id = ?", tutorID, subjectID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fiber.NewError(fiber.StatusForbidden, "Tutor tidak mengajar subject ini")
	}
	return &tutor, nil
}

// OpenChatForRequest: buka chat student-tutor saat accept. Kalau pasangan
// yang sama sudah punya chat dari request yang sama, pakai yang lama
// (accept idempotent terhadap chat).
func OpenChatForRequest(tx *gorm.DB, studentID, tutorID uuid.UUID, originType string, originRequestID uuid.UUID) (*chatModel.ChatModel, error) {
	var existing chatModel.ChatModel
	err := tx.Where("chat_origin_type = ? AND chat_origin_request_id = ?", originType, originRequestID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	chat := chatModel.ChatModel{
		ChatStudentID:       studentID,
		ChatTutorID:         tutorID,
		ChatOriginType:      &originType,
		ChatOriginRequestID: &originRequestID,
	}
	if err := tx.Create(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// MatchesContactEmail: pencocokan email guest cancel, case-insensitive.
func MatchesContactEmail(stored, provided string) bool {
	return strings.EqualFold(strings.TrimSpace(stored), strings.TrimSpace(provided))
}
