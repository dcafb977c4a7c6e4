package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"tutorin_backend/internals/configs"
	database "tutorin_backend/internals/databases"
	billingScheduler "tutorin_backend/internals/features/billing/subscriptions/scheduler"
	billingService "tutorin_backend/internals/features/billing/subscriptions/service"
	requestScheduler "tutorin_backend/internals/features/matching/requests/scheduler"
	meetings "tutorin_backend/internals/features/meetings/service"
	feedbackScheduler "tutorin_backend/internals/features/sessions/feedback/scheduler"
	sessionScheduler "tutorin_backend/internals/features/sessions/sessions/scheduler"
	authScheduler "tutorin_backend/internals/features/users/auth/scheduler"
	middlewares "tutorin_backend/internals/middlewares"
	"tutorin_backend/internals/notifier"
	routes "tutorin_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	// 🔎 Request-ID + timing (observability ringan)
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		// HTTP timeout guard (selaras dengan statement_timeout di DB)
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		dur := time.Since(start)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.EnsureIndexes()
	database.WarmUpQueries()

	// 📣 publisher realtime (adapter log; transport websocket/bus subscribe di luar)
	events := notifier.NewLogPublisher()

	// ✅ MIDTRANS
	billingService.InitMidtrans(configs.GetEnv("MIDTRANS_SERVER_KEY"))

	// 🎥 Video/whiteboard provider
	meetings.InitProvider(
		configs.GetEnv("MEET_BASE_URL"),
		configs.GetEnv("MEET_APP_ID"),
		configs.GetEnv("MEET_APP_SECRET"),
	)

	// ⏱ schedulers setelah DB siap
	authScheduler.StartBlacklistCleanupScheduler(database.DB)
	requestScheduler.StartRequestLifecycleScheduler(database.DB, events)
	sessionScheduler.StartSessionStatusScheduler(database.DB)
	feedbackScheduler.StartFeedbackScheduler(database.DB, events)
	billingScheduler.StartSubscriptionExpiryScheduler(database.DB)

	// ✅ Routes (termasuk /health)
	routes.SetupRoutes(app, database.DB, events)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
