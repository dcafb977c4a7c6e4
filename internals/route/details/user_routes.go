// file: internals/route/details/user_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorin_backend/internals/constants"
	userController "tutorin_backend/internals/features/users/user/controller"
	authMiddleware "tutorin_backend/internals/middlewares/auth"
)

func UserRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	// Katalog tutor terbuka untuk umum
	api := app.Group("/api/tutors")
	api.Get("/", ctrl.ListTutors)
	api.Get("/:id", ctrl.GetTutor)

	protected := api.Group("", authMiddleware.AuthMiddleware(db))
	protected.Put("/me/subjects",
		authMiddleware.OnlyRoles(constants.RoleErrorTutor("mengatur subject"), constants.RoleTutor),
		ctrl.UpdateMySubjects)
	protected.Post("/:id/verify",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("memverifikasi tutor"), constants.RoleAdmin),
		ctrl.VerifyTutor)
}
