package helper

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ✅ Success Response tanpa custom code (default 200)
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusOK, message, data)
}

// ✅ Success Response dengan custom code (contoh 201 untuk created)
func SuccessWithCode(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

// ✅ Error Response sederhana
func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
	})
}

// ✅ Error Response advance (opsional), bisa kirim multiple field error
func ErrorWithDetails(c *fiber.Ctx, code int, message string, errors interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
		"errors":  errors,
	})
}

// ✅ Khusus error validasi (validator.v10)
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if errors, ok := err.(validator.ValidationErrors); ok {
		ve = errors
	} else {
		return Error(c, fiber.StatusBadRequest, "Invalid input")
	}

	errorsMap := make(map[string]string)
	for _, fieldErr := range ve {
		errorsMap[fieldErr.Field()] = fieldErr.Tag()
	}

	return ErrorWithDetails(c, fiber.StatusBadRequest, "Validasi gagal", errorsMap)
}

/* =========================================================
   Error kinds lifecycle (request/session/feedback/subscription).
   Pemetaan status seragam di semua controller:
     NotFound→404, Unauthorized→401, Forbidden→403,
     InvalidState→409, DeadlineExceeded→410, ValidationFailure→400
========================================================= */

func NotFound(msg string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, msg)
}

func Forbidden(msg string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, msg)
}

// InvalidState: entity ada tapi status-nya tidak mengizinkan aksi ini.
func InvalidState(msg string) *fiber.Error {
	return fiber.NewError(fiber.StatusConflict, msg)
}

// DeadlineExceeded: batas waktu keras sudah lewat (expiry, due date, window reschedule).
func DeadlineExceeded(msg string) *fiber.Error {
	return fiber.NewError(fiber.StatusGone, msg)
}

func ValidationFailure(msg string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}
