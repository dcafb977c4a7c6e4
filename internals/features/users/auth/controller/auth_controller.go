// internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorin_backend/internals/constants"
	authModel "tutorin_backend/internals/features/users/auth/model"
	authService "tutorin_backend/internals/features/users/auth/service"
	userModel "tutorin_backend/internals/features/users/user/model"
	helper "tutorin_backend/internals/helpers"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

var validate = validator.New()

/* =========================================================
   POST /api/auth/register — student biasa (guest lewat trial request)
========================================================= */

type registerRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := ctrl.DB.Model(&userModel.UserModel{}).
		Where("LOWER(email) = ?", email).Count(&count).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal cek email")
	}
	if count > 0 {
		return helper.Error(c, fiber.StatusConflict, "Email sudah terdaftar")
	}

	hashed, err := authService.HashPassword(req.Password)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal hash password")
	}

	user := userModel.UserModel{
		UserName: strings.TrimSpace(req.UserName),
		Email:    email,
		Password: hashed,
		Role:     constants.RoleStudent,
	}
	if err := ctrl.DB.Create(&user).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat akun")
	}

	pair, err := authService.MintTokenPair(ctrl.DB, &user, c.Get("User-Agent"), c.IP())
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Registrasi berhasil", fiber.Map{
		"user":   user,
		"tokens": pair,
	})
}

/* =========================================================
   POST /api/auth/login
========================================================= */

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user userModel.UserModel
	if err := ctrl.DB.
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusUnauthorized, "Email atau password salah")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "DB error")
	}
	if !user.IsActive {
		return helper.Error(c, fiber.StatusForbidden, "Akun dinonaktifkan")
	}
	if err := authService.CheckPasswordHash(user.Password, req.Password); err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Email atau password salah")
	}

	pair, err := authService.MintTokenPair(ctrl.DB, &user, c.Get("User-Agent"), c.IP())
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}

	return helper.Success(c, "Login berhasil", fiber.Map{
		"user":   user,
		"tokens": pair,
	})
}

/* =========================================================
   POST /api/auth/refresh-token — ROTATE refresh lama
========================================================= */

func (ctrl *AuthController) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		// fallback cookie
		req.RefreshToken = strings.TrimSpace(c.Cookies("refresh_token"))
	}
	if req.RefreshToken == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Refresh token tidak ada")
	}

	userID, err := authService.VerifyRefreshToken(ctrl.DB, req.RefreshToken)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}

	var user userModel.UserModel
	if err := ctrl.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "User tidak ditemukan")
	}
	if !user.IsActive {
		return helper.Error(c, fiber.StatusForbidden, "Akun dinonaktifkan")
	}

	// ROTATE: revoke token lama, terbitkan pasangan baru
	_ = authService.RevokeRefreshToken(ctrl.DB, req.RefreshToken)

	pair, err := authService.MintTokenPair(ctrl.DB, &user, c.Get("User-Agent"), c.IP())
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal membuat token baru")
	}

	return helper.Success(c, "Token diperbarui", pair)
}

/* =========================================================
   POST /api/auth/logout — blacklist access + revoke refresh
========================================================= */

func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	raw := helper.GetRawAccessToken(c)
	if raw != "" {
		bl := authModel.TokenBlacklist{
			Token:     raw,
			ExpiredAt: time.Now().UTC().Add(authService.AccessTTL),
		}
		if err := ctrl.DB.Create(&bl).Error; err != nil {
			// token sudah pernah di-blacklist: tidak fatal
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return helper.Error(c, fiber.StatusInternalServerError, "Gagal logout")
			}
		}
	}

	if refresh := strings.TrimSpace(c.Cookies("refresh_token")); refresh != "" {
		_ = authService.RevokeRefreshToken(ctrl.DB, refresh)
	}

	return helper.Success(c, "Logout berhasil", nil)
}

/* =========================================================
   GET /api/auth/me
========================================================= */

func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var user userModel.UserModel
	if err := ctrl.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "DB error")
	}

	return helper.Success(c, "OK", user)
}
