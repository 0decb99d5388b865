package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"room-scheduler/internal/adapters/http/middleware"
	"room-scheduler/internal/adapters/http/routes"
	"room-scheduler/internal/config"
	"room-scheduler/internal/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	_ "room-scheduler/docs" // Swagger docs
)

// @title Room Scheduler Gateway API
// @version 1.0
// @description Session gateway and calendar feed for the room scheduling dashboard

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token. The access_token cookie is accepted as well.

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, err := logger.New(cfg.AppMode, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()

	if !cfg.EnvFileLoaded {
		logr.Info("no .env file found, using environment")
	}

	// Connect to database only when rows are read from the schedule table
	var db *gorm.DB
	if cfg.Schedule.Source == "db" {
		db, err = config.ConnectDatabase(cfg, logr)
		if err != nil {
			logr.Fatal("failed to connect to database", zap.Error(err))
		}
		defer func() { _ = config.CloseDatabase() }()

		if cfg.IsDev() && cfg.Database.Driver == "sqlite" {
			if err := config.NewSeeder(db, logr).Run(); err != nil {
				logr.Warn("failed to seed schedule", zap.Error(err))
			}
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:               "Room Scheduler Gateway v1.0",
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          middleware.ErrorHandler(logr),
		DisableStartupMessage: cfg.IsProd(),
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})

	// Setup middlewares
	middleware.Setup(app, cfg, logr)

	// Setup routes
	rowCache := routes.Setup(app, db, cfg, logr)

	// Background schedule refresh
	if err := rowCache.StartRefresher(cfg.Schedule.RefreshCron); err != nil {
		logr.Fatal("failed to start schedule refresher", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logr.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("mode", cfg.AppMode),
			zap.String("schedule_source", cfg.Schedule.Source),
		)
		return app.Listen(":" + cfg.Port)
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egCtx.Done()
		logr.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		rowCache.Stop(shutdownCtx)
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		logr.Error("server stopped with error", zap.Error(err))
		return
	}
	logr.Info("server stopped gracefully")
}
