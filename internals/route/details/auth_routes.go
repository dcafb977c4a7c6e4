// file: internals/route/details/auth_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "tutorin_backend/internals/features/users/auth/controller"
	authMiddleware "tutorin_backend/internals/middlewares/auth"
	middlewares "tutorin_backend/internals/middlewares"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	api := app.Group("/api/auth")
	api.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	api.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	api.Post("/refresh", ctrl.Refresh)

	protected := api.Group("", authMiddleware.AuthMiddleware(db))
	protected.Post("/logout", ctrl.Logout)
	protected.Get("/me", ctrl.Me)
}
