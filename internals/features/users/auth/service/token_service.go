// internals/features/users/auth/service/token_service.go
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "tutorin_backend/internals/features/users/auth/model"
	userModel "tutorin_backend/internals/features/users/user/model"
	"tutorin_backend/internals/configs"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

// TokenPair hasil mint untuk login/register/guest-provisioning.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// MintTokenPair membuat access+refresh token dan menyimpan hash refresh di DB.
func MintTokenPair(db *gorm.DB, user *userModel.UserModel, userAgent, ip string) (*TokenPair, error) {
	now := time.Now().UTC()

	accessClaims := jwt.MapClaims{
		"id":        user.ID.String(),
		"user_name": user.UserName,
		"role":      user.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(AccessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).
		SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return nil, err
	}

	refreshClaims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(RefreshTTL).Unix(),
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).
		SignedString([]byte(configs.JWTRefreshSecret))
	if err != nil {
		return nil, err
	}

	ua := userAgent
	ipAddr := ip
	rec := authModel.RefreshTokenModel{
		UserID:    user.ID,
		TokenHash: ComputeRefreshHash(refresh),
		ExpiresAt: now.Add(RefreshTTL),
	}
	if ua != "" {
		rec.UserAgent = &ua
	}
	if ipAddr != "" {
		rec.IP = &ipAddr
	}
	if err := db.Create(&rec).Error; err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ComputeRefreshHash: HMAC-SHA256 atas refresh token (tidak simpan plaintext).
func ComputeRefreshHash(token string) []byte {
	mac := hmac.New(sha256.New, []byte(configs.JWTRefreshSecret))
	mac.Write([]byte(token))
	return mac.Sum(nil)
}

// VerifyRefreshToken memvalidasi JWT refresh + keberadaan hash aktif di DB,
// lalu mengembalikan user id pemiliknya.
func VerifyRefreshToken(db *gorm.DB, token string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, gorm.ErrRecordNotFound
	}

	var rt authModel.RefreshTokenModel
	if err := db.
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > NOW()", ComputeRefreshHash(token)).
		First(&rt).Error; err != nil {
		return uuid.Nil, err
	}
	if rt.UserID != userID {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return userID, nil
}

// RevokeRefreshToken mencabut satu refresh token (rotate/logout).
func RevokeRefreshToken(db *gorm.DB, token string) error {
	now := time.Now().UTC()
	return db.Model(&authModel.RefreshTokenModel{}).
		Where("token_hash = ? AND revoked_at IS NULL", ComputeRefreshHash(token)).
		Update("revoked_at", now).Error
}
