// file: internals/route/details/session_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorin_backend/internals/constants"
	feedbackController "tutorin_backend/internals/features/sessions/feedback/controller"
	sessionController "tutorin_backend/internals/features/sessions/sessions/controller"
	authMiddleware "tutorin_backend/internals/middlewares/auth"
	"tutorin_backend/internals/notifier"
)

func SessionRoutes(app *fiber.App, db *gorm.DB, events notifier.Publisher) {
	sessionCtrl := sessionController.NewSessionController(db, events)
	feedbackCtrl := feedbackController.NewFeedbackController(db, events)

	sessions := app.Group("/api/sessions", authMiddleware.AuthMiddleware(db))
	sessions.Get("/", sessionCtrl.List)
	sessions.Get("/:id", sessionCtrl.GetByID)
	sessions.Get("/:id/join-token", sessionCtrl.JoinToken)
	sessions.Post("/:id/cancel", sessionCtrl.Cancel)
	sessions.Post("/:id/complete",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("menyelesaikan sesi manual"), constants.RoleAdmin),
		sessionCtrl.Complete)
	sessions.Post("/:id/no-show",
		authMiddleware.OnlyRoles("Hanya tutor atau admin yang bisa menandai no-show", constants.RoleTutor, constants.RoleAdmin),
		sessionCtrl.MarkNoShow)
	sessions.Post("/:id/reschedule", sessionCtrl.RequestReschedule)
	sessions.Post("/:id/reschedule/respond", sessionCtrl.RespondReschedule)

	feedback := app.Group("/api/feedback", authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorTutor("feedback sesi"), constants.RoleTutor))
	feedback.Get("/pending", feedbackCtrl.ListPending)
	feedback.Post("/", feedbackCtrl.Submit)
}
