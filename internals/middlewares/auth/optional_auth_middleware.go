// internals/middlewares/auth/optional_auth_middleware.go
package auth

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"tutorin_backend/internals/configs"
	authModel "tutorin_backend/internals/features/users/auth/model"
)

// OptionalAuthMiddleware: seperti AuthMiddleware tapi tidak pernah menolak
// request — token invalid/absen berarti lanjut sebagai anonymous. Dipakai
// endpoint yang melayani guest dan member sekaligus (buat/cancel trial request).
func OptionalAuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return c.Next()
		}

		// Token yang sudah di-logout tidak dihitung
		var existing authModel.TokenBlacklist
		if err := db.Where("token = ? AND deleted_at IS NULL", tokenString).First(&existing).Error; err == nil {
			log.Println("[WARNING] Token ada di blacklist, lanjut sebagai anonymous")
			return c.Next()
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			return c.Next()
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		}); err != nil {
			return c.Next()
		}

		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return c.Next()
		}

		userID, err := extractUserID(claims)
		if err != nil {
			return c.Next()
		}
		if err := ensureUserActive(db, userID); err != nil {
			return c.Next()
		}

		c.Locals("user_id", userID.String())
		storeBasicClaimsToLocals(c, claims)
		return c.Next()
	}
}
