// internals/features/users/user/controller/user_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorin_backend/internals/constants"
	userDTO "tutorin_backend/internals/features/users/user/dto"
	userModel "tutorin_backend/internals/features/users/user/model"
	helper "tutorin_backend/internals/helpers"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

var validate = validator.New()

/* =========================================================
   GET /api/tutors?subject_id=&verified_only=
========================================================= */

func (ctrl *UserController) ListTutors(c *fiber.Ctx) error {
	p := helper.ParsePage(c, "created_at", "created_at", "rating_average")

	q := ctrl.DB.Model(&userModel.UserModel{}).
		Where("role = ? AND is_active = TRUE", constants.RoleTutor)

	if strings.EqualFold(c.Query("verified_only", "true"), "true") {
		q = q.Where("is_verified = TRUE")
	}

	if raw := strings.TrimSpace(c.Query("subject_id")); raw != "" {
		subjectID, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "subject_id tidak valid")
		}
		q = q.Where("id IN (?)", ctrl.DB.
			Model(&userModel.TutorSubjectModel{}).
			Select("tutor_id").
			Where("subject_id = ?", subjectID))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal hitung tutor")
	}

	var tutors []userModel.UserModel
	if err := q.Order(p.SortBy + " " + p.Sort).
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&tutors).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal ambil tutor")
	}

	out := make([]*userDTO.TutorResponse, 0, len(tutors))
	for i := range tutors {
		out = append(out, userDTO.ToTutorResponse(&tutors[i], nil))
	}

	return helper.Success(c, "OK", fiber.Map{
		"tutors":     out,
		"pagination": helper.PageMeta(p, total),
	})
}

/* =========================================================
   GET /api/tutors/:id
========================================================= */

func (ctrl *UserController) GetTutor(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id tidak valid")
	}

	var tutor userModel.UserModel
	if err := ctrl.DB.
		First(&tutor, "id = ? AND role = ?", id, constants.RoleTutor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Tutor tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "DB error")
	}

	var subjectIDs []uuid.UUID
	if err := ctrl.DB.Model(&userModel.TutorSubjectModel{}).
		Where("tutor_id = ?", id).
		Pluck("subject_id", &subjectIDs).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal ambil subject tutor")
	}

	return helper.Success(c, "OK", userDTO.ToTutorResponse(&tutor, subjectIDs))
}

/* =========================================================
   PUT /api/tutors/subjects — tutor set subject yang dia ajar
========================================================= */

func (ctrl *UserController) UpdateMySubjects(c *fiber.Ctx) error {
	tutorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req userDTO.UpdateTutorSubjectsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tutor_id = ?", tutorID).
			Delete(&userModel.TutorSubjectModel{}).Error; err != nil {
			return err
		}
		rows := make([]userModel.TutorSubjectModel, 0, len(req.SubjectIDs))
		for _, sid := range req.SubjectIDs {
			rows = append(rows, userModel.TutorSubjectModel{TutorID: tutorID, SubjectID: sid})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal update subject")
	}

	return helper.Success(c, "Subject tutor diperbarui", fiber.Map{
		"subject_ids": req.SubjectIDs,
	})
}

/* =========================================================
   PATCH /api/admin/tutors/:id/verify — admin only
========================================================= */

func (ctrl *UserController) VerifyTutor(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id tidak valid")
	}

	var req userDTO.VerifyTutorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}

	updates := map[string]interface{}{"is_verified": req.Verified}
	if req.Verified {
		updates["role"] = constants.RoleTutor // promote applicant → tutor
	}

	res := ctrl.DB.Model(&userModel.UserModel{}).
		Where("id = ? AND role IN ?", id, []string{constants.RoleTutor, constants.RoleApplicant}).
		Updates(updates)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal update verifikasi")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Tutor tidak ditemukan")
	}

	return helper.Success(c, "Status verifikasi diperbarui", fiber.Map{
		"id":       id,
		"verified": req.Verified,
	})
}
