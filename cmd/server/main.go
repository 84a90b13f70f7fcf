package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/team-task-api/internal/config"
	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/middleware"
	"github.com/yukikurage/team-task-api/internal/observability"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/repository/mongostore"
	"github.com/yukikurage/team-task-api/internal/router"
	"github.com/yukikurage/team-task-api/internal/token"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := observability.NewLogger(cfg.LogLevel, cfg.GinMode, os.Stdout)
	gin.SetMode(cfg.GinMode)

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open store")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to close store")
		}
	}()

	health := observability.NewHealthChecker(2 * time.Second)
	health.Register("store", store.Ping)

	limiter, closeLimiter := newLimiter(ctx, cfg, log, health)
	defer closeLimiter()

	handler := router.New(router.Dependencies{
		Config:  cfg,
		Logger:  log,
		Store:   store,
		Tokens:  token.NewService(cfg.JWTSecret, cfg.JWTTTL),
		Metrics: observability.NewMetrics(),
		Health:  health,
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": srv.Addr, "store": cfg.StoreBackend}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-serverErrors:
		log.WithError(err).Error("Server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
		return
	}

	log.Info("Server stopped")
}

// openStore connects the configured backend and prepares its schema.
func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*repository.Store, error) {
	if cfg.StoreBackend == config.StoreBackendMongo {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return mongostore.Open(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, log); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return repository.NewGormStore(db), nil
}

// newLimiter prefers a shared Redis limiter and falls back to process memory.
func newLimiter(ctx context.Context, cfg *config.Config, log *logrus.Logger, health *observability.HealthChecker) (middleware.Limiter, func()) {
	if cfg.AuthRateLimitPerMinute <= 0 {
		return nil, func() {}
	}

	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, using in-memory rate limiter")
		return middleware.NewMemoryLimiter(cfg.AuthRateLimitPerMinute, time.Minute), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("Redis unreachable, using in-memory rate limiter")
		_ = client.Close()
		return middleware.NewMemoryLimiter(cfg.AuthRateLimitPerMinute, time.Minute), func() {}
	}

	health.Register("redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})

	log.WithField("addr", cfg.RedisAddr).Info("Using Redis rate limiter")
	return middleware.NewRedisLimiter(client, cfg.AuthRateLimitPerMinute, time.Minute), func() {
		_ = client.Close()
	}
}
