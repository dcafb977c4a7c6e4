// file: internals/route/details/request_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorin_backend/internals/constants"
	requestController "tutorin_backend/internals/features/matching/requests/controller"
	middlewares "tutorin_backend/internals/middlewares"
	authMiddleware "tutorin_backend/internals/middlewares/auth"
	"tutorin_backend/internals/notifier"
)

func RequestRoutes(app *fiber.App, db *gorm.DB, events notifier.Publisher) {
	trialCtrl := requestController.NewTrialRequestController(db, events)
	sessionCtrl := requestController.NewSessionRequestController(db, events)

	/* ============ Trial requests ============ */
	// Create & cancel & extend melayani guest → auth opsional.
	trial := app.Group("/api/trial-requests", authMiddleware.OptionalAuthMiddleware(db))
	trial.Post("/", middlewares.RequestCreateRateLimiter(), trialCtrl.Create)
	trial.Post("/:id/cancel", trialCtrl.Cancel)
	trial.Post("/:id/extend", trialCtrl.Extend)

	trialAuth := app.Group("/api/trial-requests", authMiddleware.AuthMiddleware(db))
	trialAuth.Get("/", trialCtrl.List)
	trialAuth.Get("/:id", trialCtrl.GetByID)
	trialAuth.Post("/:id/accept",
		authMiddleware.OnlyRoles(constants.RoleErrorTutor("menerima request"), constants.RoleTutor),
		trialCtrl.Accept)

	/* ============ Session requests ============ */
	sr := app.Group("/api/session-requests", authMiddleware.AuthMiddleware(db))
	sr.Post("/", middlewares.RequestCreateRateLimiter(), sessionCtrl.Create)
	sr.Get("/", sessionCtrl.List)
	sr.Get("/:id", sessionCtrl.GetByID)
	sr.Post("/:id/accept",
		authMiddleware.OnlyRoles(constants.RoleErrorTutor("menerima request"), constants.RoleTutor),
		sessionCtrl.Accept)
	sr.Post("/:id/cancel", sessionCtrl.Cancel)
	sr.Post("/:id/extend", sessionCtrl.Extend)
}
