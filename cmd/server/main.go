package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/api"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/clock"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/config"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/jobs"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/logger"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/mail"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/queue"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/storage"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/worker"
)

func main() {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)

	appLogger.Info("🚀 [Go] Starting Meetapp API...",
		"environment", cfg.AppEnv,
		"database", cfg.DatabaseDriver,
		"queue", cfg.QueueDriver,
		"storage", cfg.StorageDriver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("❌ Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) error {
	clk := clock.Real()

	// 3. Connect to Database
	db, err := database.ConnectDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close(db)

	// 4. Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	fileRepo := repository.NewFileRepository(db)
	meetupRepo := repository.NewMeetupRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	// 5. Initialize Redis listing cache
	var cache database.ListingCache
	redisCache, err := database.NewRedisCache(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis, listings will not be cached", "error", err)
		cache = database.NewNoOpCache(appLogger)
	} else {
		cache = redisCache
	}
	defer cache.Close()

	// 6. Background workers, mail and job queue
	pool := worker.NewPool(appLogger)
	shutdownTimeout := time.Duration(cfg.ShutdownTimeout) * time.Second
	defer pool.Shutdown(shutdownTimeout)

	mailer, err := mail.New(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("configure mailer: %w", err)
	}
	dispatcher := queue.NewDispatcher(jobs.NewSubscriptionMail(mailer, appLogger))

	jobQueue, closeQueue, err := newQueue(ctx, cfg, pool, dispatcher, appLogger)
	if err != nil {
		return err
	}
	defer closeQueue()

	jobs.NewTokenCleanup(refreshTokenRepo, clk, appLogger).Schedule(ctx, pool, time.Hour)

	// 7. Object storage
	store, err := storage.New(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("configure storage: %w", err)
	}
	var filesDir string
	if local, ok := store.(*storage.LocalStorage); ok {
		filesDir = local.Root()
	}

	// 8. Initialize Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg, clk, appLogger)
	userService := service.NewUserService(userRepo, refreshTokenRepo, appLogger)
	fileService := service.NewFileService(fileRepo, store, cfg.MaxFileSize, clk, appLogger)
	meetupService := service.NewMeetupService(meetupRepo, fileService, cache, clk, appLogger)
	subscriptionService := service.NewSubscriptionService(
		subscriptionRepo, meetupRepo, userRepo, fileService, jobQueue, clk, appLogger,
	)

	// 9. Initialize Handlers, Middleware & Router
	handlers := api.Handlers{
		Auth:         handler.NewAuthHandler(authService, appLogger),
		User:         handler.NewUserHandler(userService, appLogger),
		File:         handler.NewFileHandler(fileService, cfg.MaxFileSize, appLogger),
		Meetup:       handler.NewMeetupHandler(meetupService, appLogger),
		Subscription: handler.NewSubscriptionHandler(subscriptionService, appLogger),
	}
	authMiddleware := middleware.NewAuthMiddleware(authService, appLogger)
	r := api.SetupRouter(handlers, authMiddleware, filesDir)

	// 10. Start HTTP Server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ApiServicePort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("🌍 [Go] HTTP Server running on port...", "port", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	appLogger.Info("🛑 [Go] Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("❌ HTTP Server shutdown failed", "error", err)
	}
	return nil
}

// newQueue selects the job queue from cfg.QueueDriver. The returned close
// function stops the consumer before the connection.
func newQueue(
	ctx context.Context,
	cfg *config.Config,
	pool *worker.Pool,
	dispatcher *queue.Dispatcher,
	appLogger *slog.Logger,
) (queue.Queue, func(), error) {
	switch cfg.QueueDriver {
	case "memory":
		q := queue.NewPoolQueue(pool, dispatcher, appLogger)
		return q, func() { _ = q.Close() }, nil
	case "rabbitmq", "":
		conn, err := queue.Dial(ctx, cfg.RabbitMQURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
		}

		consumer := queue.NewConsumer(conn, cfg.JobQueue, dispatcher, appLogger)
		if err := consumer.Start(pool.Context()); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("start job consumer: %w", err)
		}

		q := queue.NewRabbitMQQueue(conn, cfg.JobQueue, appLogger)
		return q, func() {
			consumer.Close()
			_ = q.Close()
			_ = conn.Close()
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported queue driver %q", cfg.QueueDriver)
	}
}
