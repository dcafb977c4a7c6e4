// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	routeDetails "tutorin_backend/internals/route/details"
	"tutorin_backend/internals/notifier"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, events notifier.Publisher) {
	startTime = time.Now()

	// ===================== HEALTH =====================
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"uptime": time.Since(startTime).String(),
		})
	})

	// ===================== AUTH / USER BASE =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	log.Println("[INFO] Setting up UserRoutes...")
	routeDetails.UserRoutes(app, db)

	// ===================== KATALOG =====================
	log.Println("[INFO] Setting up SubjectRoutes...")
	routeDetails.SubjectRoutes(app, db)

	// ===================== MATCHING =====================
	log.Println("[INFO] Setting up RequestRoutes...")
	routeDetails.RequestRoutes(app, db, events)

	// ===================== CHAT & PROPOSAL =====================
	log.Println("[INFO] Setting up ChatRoutes...")
	routeDetails.ChatRoutes(app, db, events)

	// ===================== SESSION & FEEDBACK =====================
	log.Println("[INFO] Setting up SessionRoutes...")
	routeDetails.SessionRoutes(app, db, events)

	// ===================== BILLING =====================
	log.Println("[INFO] Setting up BillingRoutes...")
	routeDetails.BillingRoutes(app, db, events)
}
