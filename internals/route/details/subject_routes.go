// file: internals/route/details/subject_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorin_backend/internals/constants"
	subjectController "tutorin_backend/internals/features/catalog/subjects/controller"
	authMiddleware "tutorin_backend/internals/middlewares/auth"
)

func SubjectRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := subjectController.NewSubjectController(db)

	api := app.Group("/api/subjects")
	api.Get("/", ctrl.List)
	api.Get("/:id", ctrl.GetByID)

	admin := api.Group("", authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("kelola subject"), constants.RoleAdmin))
	admin.Post("/", ctrl.Create)
	admin.Put("/:id", ctrl.Update)
}
