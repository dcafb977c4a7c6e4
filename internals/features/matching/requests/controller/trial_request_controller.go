// file: internals/features/matching/requests/controller/trial_request_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorin_backend/internals/constants"
	chatModel "tutorin_backend/internals/features/chats/chats/model"
	requestDTO "tutorin_backend/internals/features/matching/requests/dto"
	requestModel "tutorin_backend/internals/features/matching/requests/model"
	requestService "tutorin_backend/internals/features/matching/requests/service"
	authService "tutorin_backend/internals/features/users/auth/service"
	userModel "tutorin_backend/internals/features/users/user/model"
	helper "tutorin_backend/internals/helpers"
	"tutorin_backend/internals/notifier"
)

var validate = validator.New()

type TrialRequestController struct {
	DB     *gorm.DB
	Events notifier.Publisher
}

func NewTrialRequestController(db *gorm.DB, events notifier.Publisher) *TrialRequestController {
	return &TrialRequestController{DB: db, Events: events}
}

// eligibleTutorIDs: semua tutor terverifikasi yang mengajar subject (untuk broadcast).
func eligibleTutorIDs(db *gorm.DB, subjectID uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID
	db.Model(&userModel.TutorSubjectModel{}).
		Joins("JOIN users ON users.id = tutor_subjects.tutor_subject_tutor_id").
		Where("tutor_subjects.tutor_subject_subject_id = ? AND users.is_verified = TRUE AND users.role = ?",
			subjectID, constants.RoleTutor).
		Pluck("tutor_subjects.tutor_subject_tutor_id", &ids)
	return ids
}

func subjectExists(db *gorm.DB, subjectID uuid.UUID) (bool, error) {
	var count int64
	err := db.Table("subjects").
		Where("subject_id = ? AND subject_deleted_at IS NULL", subjectID).
		Count(&count).Error
	return count > 0, err
}

/* ================= POST /api/trial-requests ================= */

// Create: publik. Guest diprovisikan akun student dulu, baru requestnya dibuat.
func (ctrl *TrialRequestController) Create(c *fiber.Ctx) error {
	var req requestDTO.CreateTrialRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ok, err := subjectExists(ctrl.DB, req.SubjectID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal cek subject")
	}
	if !ok {
		return helper.FromFiberError(c, helper.NotFound("Subject tidak ditemukan"))
	}

	now := time.Now()

	var student *userModel.UserModel
	var tokens *authService.TokenPair

	if userID, tokenErr := helper.GetUserIDFromToken(c); tokenErr == nil {
		var u userModel.UserModel
		if err := ctrl.DB.First(&u, "id = ?", userID).Error; err != nil {
			return helper.Error(c, fiber.StatusUnauthorized, "User tidak ditemukan")
		}
		student = &u
	} else {
		if req.Guest == nil {
			return helper.Error(c, fiber.StatusBadRequest, "Data guest wajib diisi jika belum login")
		}
		in := &authService.GuestStudentInput{
			Name:             req.Guest.Name,
			IsUnder18:        req.Guest.IsUnder18,
			Email:            req.Guest.Email,
			Password:         req.Guest.Password,
			GuardianEmail:    req.Guest.GuardianEmail,
			GuardianPassword: req.Guest.GuardianPassword,
		}
		if err := authService.ValidateGuestStudent(in); err != nil {
			return helper.FromFiberError(c, err)
		}
		student, tokens, err = authService.ProvisionGuestStudent(ctrl.DB, in, c.Get("User-Agent"), c.IP())
		if err != nil {
			return helper.FromFiberError(c, err)
		}
	}

	if student.HasCompletedTrial {
		return helper.FromFiberError(c, helper.InvalidState("Trial sudah pernah diselesaikan, gunakan session request"))
	}

	// Lepaskan dulu baris pending lama yang sudah lewat window dari partial
	// unique index, baru cek sisa yang benar-benar masih aktif.
	requestService.ExpireLapsedRequests(ctrl.DB, student.ID, now)
	pending, err := requestService.HasPendingRequest(ctrl.DB, student.ID, now)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal cek request aktif")
	}
	if pending {
		return helper.FromFiberError(c, helper.InvalidState("Masih ada request yang menunggu tutor"))
	}

	trial := requestModel.TrialRequestModel{
		TrialRequestStudentID:    student.ID,
		TrialRequestSubjectID:    req.SubjectID,
		TrialRequestDescription:  req.Description,
		TrialRequestAvailability: req.Availability,
		TrialRequestGrade:        req.Grade,
		TrialRequestSchool:       req.School,
		TrialRequestContactEmail: student.ContactEmail(),
		TrialRequestStatus:       requestModel.RequestStatusPending,
		TrialRequestExpiresAt:    now.Add(requestModel.TrialRequestTTL),
	}
	if err := ctrl.DB.Create(&trial).Error; err != nil {
		// Dua create berlomba bisa sama-sama lolos cek di atas; partial
		// unique index yang memutuskan pemenangnya.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return helper.FromFiberError(c, helper.InvalidState("Masih ada request yang menunggu tutor"))
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat trial request")
	}

	// Broadcast ke tutor yang relevan. Fire-and-forget (bukan bagian transaksi).
	notifier.FireAndForget(ctrl.Events, notifier.TopicTrialRequestCreated, fiber.Map{
		"trial_request_id": trial.TrialRequestID,
		"subject_id":       trial.TrialRequestSubjectID,
		"tutor_ids":        eligibleTutorIDs(ctrl.DB, trial.TrialRequestSubjectID),
	})

	data := fiber.Map{"trial_request": requestDTO.ToTrialRequestResponse(&trial, now)}
	if tokens != nil {
		data["tokens"] = tokens
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Trial request berhasil dibuat", data)
}

/* ================= GET /api/trial-requests ================= */

// List: student lihat miliknya sendiri; tutor lihat request pending
// untuk subject yang dia ajar.
func (ctrl *TrialRequestController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	role, _ := helper.GetRoleFromToken(c)
	now := time.Now()

	var rows []requestModel.TrialRequestModel
	q := ctrl.DB.Model(&requestModel.TrialRequestModel{})
	if role == constants.RoleTutor {
		q = q.Where("trial_request_status = ? AND trial_request_expires_at > ?", requestModel.RequestStatusPending, now).
			Where("trial_request_subject_id IN (?)",
				ctrl.DB.Model(&userModel.TutorSubjectModel{}).
					Select("tutor_subject_subject_id").
					Where("tutor_subject_tutor_id = ?", userID))
	} else {
		q = q.Where("trial_request_student_id = ?", userID)
	}
	if err := q.Order("trial_request_created_at DESC").Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal ambil trial requests")
	}

	out := make([]requestDTO.TrialRequestResponse, 0, len(rows))
	for i := range rows {
		out = append(out, requestDTO.ToTrialRequestResponse(&rows[i], now))
	}
	return helper.Success(c, "OK", out)
}

/* ================= GET /api/trial-requests/:id ================= */

func (ctrl *TrialRequestController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var trial requestModel.TrialRequestModel
	if err := ctrl.DB.First(&trial, "trial_request_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFound("Trial request tidak ditemukan"))
	}
	return helper.Success(c, "OK", requestDTO.ToTrialRequestResponse(&trial, time.Now()))
}

/* ================= POST /api/trial-requests/:id/accept ================= */

func (ctrl *TrialRequestController) Accept(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var req requestDTO.AcceptRequestRequest
	_ = c.BodyParser(&req) // body opsional (intro message)

	var trial requestModel.TrialRequestModel
	if err := ctrl.DB.First(&trial, "trial_request_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFound("Trial request tidak ditemukan"))
	}

	now := time.Now()
	switch trial.EffectiveStatus(now) {
	case requestModel.RequestStatusPending:
		// lanjut
	case requestModel.RequestStatusExpired:
		// Lazy expiry: persist dulu supaya pembaca lain konsisten.
		ctrl.DB.Model(&requestModel.TrialRequestModel{}).
			Where("trial_request_id = ? AND trial_request_status = ?", id, requestModel.RequestStatusPending).
			Update("trial_request_status", requestModel.RequestStatusExpired)
		return helper.FromFiberError(c, helper.DeadlineExceeded("Trial request sudah kedaluwarsa"))
	default:
		return helper.FromFiberError(c, helper.InvalidState("Trial request sudah tidak tersedia"))
	}

	if _, err := requestService.EnsureTutorEligible(ctrl.DB, tutorID, trial.TrialRequestSubjectID); err != nil {
		return helper.FromFiberError(c, err)
	}

	var chat *chatModel.ChatModel
	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&requestModel.TrialRequestModel{}).
			Where("trial_request_id = ? AND trial_request_status = ? AND trial_request_expires_at > ?",
				id, requestModel.RequestStatusPending, now).
			Updates(map[string]interface{}{
				"trial_request_status":            requestModel.RequestStatusAccepted,
				"trial_request_accepted_tutor_id": tutorID,
				"trial_request_accepted_at":       now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.InvalidState("Trial request sudah diambil tutor lain")
		}

		chat, err = requestService.OpenChatForRequest(tx, trial.TrialRequestStudentID, tutorID,
			chatModel.ChatOriginTrialRequest, trial.TrialRequestID)
		if err != nil {
			return err
		}
		if err := tx.Model(&requestModel.TrialRequestModel{}).
			Where("trial_request_id = ?", id).
			Update("trial_request_chat_id", chat.ChatID).Error; err != nil {
			return err
		}

		if req.IntroMessage != "" {
			msg := chatModel.ChatMessageModel{
				ChatMessageChatID:   chat.ChatID,
				ChatMessageSenderID: tutorID,
				ChatMessageBody:     req.IntroMessage,
			}
			if err := tx.Create(&msg).Error; err != nil {
				return err
			}
		}

		// Trial selesai "dimulai" begitu diterima — student tidak boleh
		// bikin trial request baru setelah ini.
		return tx.Model(&userModel.UserModel{}).
			Where("id = ?", trial.TrialRequestStudentID).
			Update("has_completed_trial", true).Error
	})
	if txErr != nil {
		return helper.FromFiberError(c, txErr)
	}

	notifier.FireAndForget(ctrl.Events, notifier.TopicTrialRequestAccepted, fiber.Map{
		"trial_request_id": trial.TrialRequestID,
		"student_id":       trial.TrialRequestStudentID,
		"tutor_id":         tutorID,
		"chat_id":          chat.ChatID,
	})
	notifier.FireAndForget(ctrl.Events, notifier.TopicTrialRequestClosed, fiber.Map{
		"trial_request_id": trial.TrialRequestID,
		"subject_id":       trial.TrialRequestSubjectID,
		"tutor_ids":        eligibleTutorIDs(ctrl.DB, trial.TrialRequestSubjectID),
	})

	return helper.Success(c, "Trial request diterima", requestDTO.AcceptRequestResponse{
		RequestID: trial.TrialRequestID,
		Status:    requestModel.RequestStatusAccepted,
		ChatID:    chat.ChatID,
	})
}

/* ================= POST /api/trial-requests/:id/cancel ================= */

// Cancel: pemilik (login) atau guest via email kontak. Hanya PENDING.
func (ctrl *TrialRequestController) Cancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var req requestDTO.CancelRequestRequest
	_ = c.BodyParser(&req)

	var trial requestModel.TrialRequestModel
	if err := ctrl.DB.First(&trial, "trial_request_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFound("Trial request tidak ditemukan"))
	}

	if !ownsRequest(c, trial.TrialRequestStudentID, trial.TrialRequestContactEmail, req.ContactEmail) {
		return helper.FromFiberError(c, helper.Forbidden("Bukan pemilik request ini"))
	}

	now := time.Now()
	if trial.EffectiveStatus(now) != requestModel.RequestStatusPending {
		return helper.FromFiberError(c, helper.InvalidState("Hanya request PENDING yang bisa dibatalkan"))
	}

	updates := map[string]interface{}{
		"trial_request_status":       requestModel.RequestStatusCancelled,
		"trial_request_cancelled_at": now,
	}
	if req.Reason != "" {
		updates["trial_request_cancel_reason"] = req.Reason
	}
	res := ctrl.DB.Model(&requestModel.TrialRequestModel{}).
		Where("trial_request_id = ? AND trial_request_status = ? AND trial_request_expires_at > ?",
			id, requestModel.RequestStatusPending, now).
		Updates(updates)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membatalkan request")
	}
	if res.RowsAffected == 0 {
		return helper.FromFiberError(c, helper.InvalidState("Request sudah berubah status"))
	}

	return helper.Success(c, "Trial request dibatalkan", fiber.Map{
		"trial_request_id": id,
		"status":           requestModel.RequestStatusCancelled,
	})
}

/* ================= POST /api/trial-requests/:id/extend ================= */

func (ctrl *TrialRequestController) Extend(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var req requestDTO.CancelRequestRequest
	_ = c.BodyParser(&req)

	var trial requestModel.TrialRequestModel
	if err := ctrl.DB.First(&trial, "trial_request_id = ?", id).Error; err != nil {
		return helper.FromFiberError(c, helper.NotFound("Trial request tidak ditemukan"))
	}
	if !ownsRequest(c, trial.TrialRequestStudentID, trial.TrialRequestContactEmail, req.ContactEmail) {
		return helper.FromFiberError(c, helper.Forbidden("Bukan pemilik request ini"))
	}

	now := time.Now()
	if !trial.CanExtend() {
		return helper.FromFiberError(c, helper.InvalidState("Request sudah pernah diperpanjang"))
	}
	// Boleh diperpanjang selama window masih jalan, ATAU selama masa tenggang
	// setelah reminder (final deadline belum lewat). Inilah eskalasi yang
	// dijanjikan reminder: masih sempat diperpanjang sebelum dihapus.
	if !trial.Extendable(now) {
		if trial.TrialRequestStatus == requestModel.RequestStatusPending {
			return helper.FromFiberError(c, helper.DeadlineExceeded("Masa perpanjangan request sudah lewat"))
		}
		return helper.FromFiberError(c, helper.InvalidState("Hanya request PENDING yang bisa diperpanjang"))
	}

	res := ctrl.DB.Model(&requestModel.TrialRequestModel{}).
		Where("trial_request_id = ? AND trial_request_status = ? AND trial_request_extensions_count < ?",
			id, requestModel.RequestStatusPending, requestModel.MaxExtensions).
		Where("trial_request_expires_at > ? OR trial_request_final_expires_at > ?", now, now).
		Updates(map[string]interface{}{
			"trial_request_expires_at":       gorm.Expr("trial_request_expires_at + interval '7 days'"),
			"trial_request_extensions_count": gorm.Expr("trial_request_extensions_count + 1"),
			"trial_request_reminder_sent_at": nil,
			"trial_request_final_expires_at": nil,
		})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal memperpanjang request")
	}
	if res.RowsAffected == 0 {
		return helper.FromFiberError(c, helper.InvalidState("Request sudah berubah status"))
	}

	if err := ctrl.DB.First(&trial, "trial_request_id = ?", id).Error; err == nil {
		return helper.Success(c, "Trial request diperpanjang", requestDTO.ToTrialRequestResponse(&trial, now))
	}
	return helper.Success(c, "Trial request diperpanjang", fiber.Map{"trial_request_id": id})
}

// ownsRequest: login sebagai pemilik, ATAU cocokkan email kontak (guest flow).
func ownsRequest(c *fiber.Ctx, studentID uuid.UUID, storedEmail, providedEmail string) bool {
	if userID, err := helper.GetUserIDFromToken(c); err == nil {
		if userID == studentID || helper.IsAdmin(c) {
			return true
		}
	}
	if providedEmail == "" {
		return false
	}
	return requestService.MatchesContactEmail(storedEmail, providedEmail)
}
