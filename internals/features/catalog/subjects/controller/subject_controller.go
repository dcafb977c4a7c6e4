// internals/features/catalog/subjects/controller/subject_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	subjectDTO "tutorin_backend/internals/features/catalog/subjects/dto"
	subjectModel "tutorin_backend/internals/features/catalog/subjects/model"
	helper "tutorin_backend/internals/helpers"
)

type SubjectController struct {
	DB *gorm.DB
}

func NewSubjectController(db *gorm.DB) *SubjectController {
	return &SubjectController{DB: db}
}

var validate = validator.New()

/* ================= GET /api/subjects ================= */

func (ctrl *SubjectController) List(c *fiber.Ctx) error {
	q := ctrl.DB.Model(&subjectModel.SubjectModel{})
	if !strings.EqualFold(c.Query("include_inactive"), "true") {
		q = q.Where("subject_is_active = TRUE")
	}

	var subjects []subjectModel.SubjectModel
	if err := q.Order("subject_name ASC").Find(&subjects).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal ambil subjects")
	}

	return helper.Success(c, "OK", subjects)
}

/* ================= GET /api/subjects/:id ================= */

func (ctrl *SubjectController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id tidak valid")
	}

	var subject subjectModel.SubjectModel
	if err := ctrl.DB.First(&subject, "subject_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Subject tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "DB error")
	}

	return helper.Success(c, "OK", subject)
}

/* ================= POST /api/subjects (admin) ================= */

func (ctrl *SubjectController) Create(c *fiber.Ctx) error {
	var req subjectDTO.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	subject := subjectModel.SubjectModel{
		SubjectName: strings.TrimSpace(req.Name),
		SubjectSlug: helper.GenerateSlug(req.Name),
		SubjectDesc: req.Desc,
	}
	if err := ctrl.DB.Create(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return helper.Error(c, fiber.StatusConflict, "Subject sudah ada")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat subject")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Subject dibuat", subject)
}

/* ================= PUT /api/subjects/:id (admin) ================= */

func (ctrl *SubjectController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "id tidak valid")
	}

	var req subjectDTO.UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["subject_name"] = strings.TrimSpace(*req.Name)
		updates["subject_slug"] = helper.GenerateSlug(*req.Name)
	}
	if req.Desc != nil {
		updates["subject_desc"] = *req.Desc
	}
	if req.IsActive != nil {
		updates["subject_is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	res := ctrl.DB.Model(&subjectModel.SubjectModel{}).
		Where("subject_id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal update subject")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Subject tidak ditemukan")
	}

	return helper.Success(c, "Subject diperbarui", fiber.Map{"id": id})
}
