package service

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorin_backend/internals/constants"
	userModel "tutorin_backend/internals/features/users/user/model"
)

// GuestStudentInput: data onboarding guest dari trial request.
// Siswa <18 wajib pakai kontak+kredensial wali; 18+ pakai email+password sendiri.
type GuestStudentInput struct {
	Name             string
	IsUnder18        bool
	Email            string
	Password         string
	GuardianEmail    string
	GuardianPassword string
}

// ValidateGuestStudent menerapkan aturan field kondisional umur.
// Dipanggil SEBELUM ada mutasi state apa pun.
func ValidateGuestStudent(in *GuestStudentInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Name is required")
	}
	if in.IsUnder18 {
		if strings.TrimSpace(in.GuardianEmail) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Guardian email is required for students under 18")
		}
		if len(in.GuardianPassword) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "Guardian password is required for students under 18 (min 8 characters)")
		}
	} else {
		if strings.TrimSpace(in.Email) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Email is required for students 18 and above")
		}
		if len(in.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "Password is required for students 18 and above (min 8 characters)")
		}
	}
	return nil
}

// ProvisionGuestStudent membuat akun student untuk guest + mint token pair.
// Side effect dari create trial request (bukan endpoint register biasa).
func ProvisionGuestStudent(db *gorm.DB, in *GuestStudentInput, userAgent, ip string) (*userModel.UserModel, *TokenPair, error) {
	if err := ValidateGuestStudent(in); err != nil {
		return nil, nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	password := in.Password
	var guardian *string
	if in.IsUnder18 {
		g := strings.ToLower(strings.TrimSpace(in.GuardianEmail))
		email = g
		password = in.GuardianPassword
		guardian = &g
	}

	// email unik (case-insensitive)
	var count int64
	if err := db.Model(&userModel.UserModel{}).
		Where("LOWER(email) = ?", email).
		Count(&count).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal cek email")
	}
	if count > 0 {
		return nil, nil, fiber.NewError(fiber.StatusConflict, "Email sudah terdaftar, silakan login")
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal hash password")
	}

	user := userModel.UserModel{
		UserName:      strings.TrimSpace(in.Name),
		Email:         email,
		Password:      hashed,
		Role:          constants.RoleStudent,
		GuardianEmail: guardian,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat akun guest")
	}

	pair, err := MintTokenPair(db, &user, userAgent, ip)
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat token")
	}

	return &user, pair, nil
}
