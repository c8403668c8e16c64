package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/edulane/tutora-backend/internal/config"
	"github.com/edulane/tutora-backend/internal/database"
	"github.com/edulane/tutora-backend/internal/handler"
	"github.com/edulane/tutora-backend/internal/lifecycle"
	"github.com/edulane/tutora-backend/internal/logger"
	"github.com/edulane/tutora-backend/internal/repository"
	"github.com/edulane/tutora-backend/internal/router"
	"github.com/edulane/tutora-backend/internal/schedule"
	"github.com/edulane/tutora-backend/internal/service"
	"github.com/edulane/tutora-backend/internal/validator"
	"github.com/edulane/tutora-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Tutora Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	enrollRepo := repository.NewEnrollmentRepository(pool)

	// ─── Initialize Lifecycle Core ─────────────────────────────────────
	resolver := schedule.NewResolver(cfg.DefaultTimezone)
	engine := lifecycle.NewEngine(classRepo, resolver, log)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	userService := service.NewUserService(userRepo)
	classService := service.NewClassService(classRepo, resolver, engine, rdb, log)
	enrollService := service.NewEnrollmentService(enrollRepo, classRepo, log)
	meetingService := service.NewMeetingService(cfg, classRepo, enrollRepo, rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService),
		Class:      handler.NewClassHandler(classService),
		Enrollment: handler.NewEnrollmentHandler(enrollService, classService),
		Meeting:    handler.NewMeetingHandler(meetingService, userService),
		Presence:   handler.NewPresenceHandler(meetingService, log, cfg.AllowedOrigins),
		User:       handler.NewUserHandler(userService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	lifecycleWorker := worker.NewLifecycleWorker(engine, cfg.LifecycleCron, log)
	go func() {
		defer close(workerDone)
		if err := lifecycleWorker.Start(workerCtx); err != nil {
			log.Error().Err(err).Msg("Lifecycle worker exited with error")
		}
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the lifecycle worker and wait until an in-flight pass drains.
	workerCancel()
	<-workerDone

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
