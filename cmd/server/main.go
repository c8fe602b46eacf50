package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/config"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/database"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/jobs"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/logging"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/notify"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/routes"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		if database.NeedsBootstrap(err) {
			slog.Error("database or role missing, run cmd/setup first", "error", err)
		} else {
			slog.Error("database connection failed", "error", err)
		}
		os.Exit(1)
	}

	if cfg.DBAutoMigrate {
		if err := database.Migrate(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
	}

	// Sports catalog
	entries, err := catalog.Load(cfg.SportsCatalogPath)
	if err != nil {
		slog.Error("failed to load sports catalog", "path", cfg.SportsCatalogPath, "error", err)
		os.Exit(1)
	}
	if err := catalog.Seed(context.Background(), db, entries); err != nil {
		slog.Error("failed to seed sports catalog", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(db)
	slog.SetDefault(slog.New(logging.WithStore(logging.NewJSONHandler(os.Stdout), dbLogHandler)))

	// Scheduled cleanup (log retention, reset tokens)
	scheduler := jobs.New(db, cfg.LogRetentionDays)
	if err := scheduler.Start(); err != nil {
		slog.Error("job scheduler failed to start", "error", err)
		os.Exit(1)
	}

	notifier, err := notify.New(cfg)
	if err != nil {
		slog.Error("invalid reset mail configuration", "error", err)
		os.Exit(1)
	}

	// Services
	authService := services.NewAuthService(db, cfg, notifier)
	userService := services.NewUserService(db)
	groupService := services.NewGroupService(db)
	activityService := services.NewActivityService(db)
	chatService := services.NewChatService(db)
	moderationService := services.NewModerationService(db)
	sportService := services.NewSportService(db)

	// Handlers
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Health:     handlers.NewHealthHandler(db),
		Sport:      handlers.NewSportHandler(sportService),
		User:       handlers.NewUserHandler(userService),
		Group:      handlers.NewGroupHandler(groupService),
		Activity:   handlers.NewActivityHandler(activityService),
		Chat:       handlers.NewChatHandler(chatService),
		Moderation: handlers.NewModerationHandler(moderationService),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(cfg),
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})
	app.Use(metrics.Middleware())

	// Routes
	routes.Setup(app, cfg, db, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	scheduler.Stop(stopCtx)
	cancel()

	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
