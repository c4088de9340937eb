package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/osspulse/osspulse/internal/adapter/github"
	"github.com/osspulse/osspulse/internal/adapter/store"
	"github.com/osspulse/osspulse/internal/adapter/webhook"
	"github.com/osspulse/osspulse/internal/handler"
	"github.com/osspulse/osspulse/internal/port"
	"github.com/osspulse/osspulse/internal/service"
	"github.com/osspulse/osspulse/pkg/config"
	"github.com/robfig/cron/v3"

	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	cfg := config.Load()

	slog.Info("starting OSS Pulse",
		"port", cfg.Port,
		"refresh_schedule", cfg.RefreshSchedule,
		"refresh_concurrency", cfg.RefreshConcurrency,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	// ── Adapters ─────────────────────────────────────────────────────────
	ghClient := github.NewClientWithEndpoint(cfg.GitHubToken, cfg.GitHubGraphQLURL)
	if cfg.GitHubToken == "" {
		slog.Warn("no GITHUB_TOKEN set, remote metadata calls will be rejected")
	}

	var notifier port.MilestoneNotifier
	if hook := webhook.NewNotifier(cfg.MilestoneWebhookURL); hook.Enabled() {
		notifier = hook
	}

	// ── Services ─────────────────────────────────────────────────────────
	enrichService := service.NewEnrichService(ghClient)
	refreshService := service.NewRefreshService(enrichService, pgStore, notifier, service.RefreshConfig{
		Concurrency:    cfg.RefreshConcurrency,
		PerToolTimeout: time.Duration(cfg.RefreshTimeoutSeconds) * time.Second,
		RatePerSecond:  cfg.RefreshRatePerSecond,
	})

	// ── Scheduled refresh ────────────────────────────────────────────────
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.RefreshSchedule, func() {
		if _, err := refreshService.RefreshAll(context.Background()); err != nil {
			slog.Error("scheduled catalog refresh failed", "error", err)
		}
	})
	if err != nil {
		slog.Error("invalid refresh schedule", "schedule", cfg.RefreshSchedule, "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"app":    cfg.AppName,
		})
	})

	api := app.Group("/api/v1")

	toolHandler := handler.NewToolHandler(pgStore)
	toolHandler.Register(api)

	categoryHandler := handler.NewCategoryHandler(pgStore)
	categoryHandler.Register(api)

	refreshHandler := handler.NewRefreshHandler(refreshService)
	refreshHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	go func() {
		slog.Info("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	scheduler.Stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
