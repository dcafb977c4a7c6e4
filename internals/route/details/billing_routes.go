// file: internals/route/details/billing_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	subscriptionController "tutorin_backend/internals/features/billing/subscriptions/controller"
	authMiddleware "tutorin_backend/internals/middlewares/auth"
	"tutorin_backend/internals/notifier"
)

func BillingRoutes(app *fiber.App, db *gorm.DB, events notifier.Publisher) {
	ctrl := subscriptionController.NewSubscriptionController(db, events)

	// Webhook Midtrans: publik, tanpa auth
	app.Post("/api/billing/notification", ctrl.HandleMidtransNotification)

	subs := app.Group("/api/subscriptions", authMiddleware.AuthMiddleware(db))
	subs.Post("/", ctrl.Subscribe)
	subs.Get("/me", ctrl.GetMine)
	subs.Post("/:id/confirm", ctrl.ConfirmPayment)
	subs.Post("/:id/cancel", ctrl.Cancel)
}
