// ==============================================================================
// ZAPWAY API MAIN - cmd/server/main.go
// ==============================================================================
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"zapway/internal/catalog"
	"zapway/internal/directory"
	"zapway/internal/handler"
	"zapway/internal/intake"
	"zapway/internal/middleware"
	"zapway/internal/notification"
	"zapway/internal/profile"
	"zapway/internal/scheduler"
	"zapway/internal/session"
	"zapway/internal/settings"
	"zapway/pkg/cache"
	"zapway/pkg/config"
	"zapway/pkg/logger"
	"zapway/pkg/validator"
)

func main() {
	cfg := config.Load()
	log := logger.NewWithLevel("zapway-api", cfg.Log.Level, os.Stdout)

	if err := cfg.ValidateCore(); err != nil {
		log.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Starting ZapWay API", map[string]interface{}{
		"port": cfg.Server.Port,
		"env":  cfg.Env,
	})

	// Redis is optional. Without it revocation, rate limiting and the
	// projection cache run in-process.
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.URL,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer redisClient.Close()
		log.Info("Redis connected", nil)
	} else {
		log.Warn("REDIS_URL not set, running with in-process state only", nil)
	}

	val := validator.New()

	// Initialize services
	hub := notification.NewHub(cfg.Notifications.TTL, cfg.Notifications.MaxEntries, log)

	catalogService := catalog.NewService(catalog.Seed(), log)
	if redisClient != nil {
		catalogService.WithCache(cache.NewFromClient(redisClient, "zapway:"), cfg.Redis.CacheTTL)
	}
	directoryService := directory.NewService(catalogService, log)

	var revoker session.Revoker = session.NewMemoryRevoker()
	if redisClient != nil {
		revoker = session.NewRedisRevoker(redisClient)
	}
	sessionService := session.NewService(cfg.JWT.Secret, cfg.JWT.Expiration, revoker, hub, log)

	registry := intake.NewRegistry(
		cfg.Intake.SubmitDelay,
		cfg.Intake.IdleTimeout,
		intake.LogSubmitter{Logger: log},
		hub, val, log,
	)
	settingsService := settings.NewService(sessionService, hub, val, log)
	profileService := profile.NewService(catalogService, hub, val, log,
		cfg.Profile.HandshakeDelay, cfg.Profile.DossierBaseURL)

	settingsService.OnAccountDeleted(func(ctx context.Context, userID uuid.UUID) {
		dropped := registry.AbandonAll(userID)
		profileService.Forget(userID)
		hub.Drop(userID)
		log.Info("Account state purged", map[string]interface{}{
			"user_id":           userID.String(),
			"intakes_abandoned": dropped,
		})
	})

	// Janitor
	janitor := scheduler.NewScheduler(cfg.Janitor.Schedule, log)
	janitor.Register("notifications", hub.Sweep)
	janitor.Register("intake", registry.Sweep)
	janitor.Register("directory", func(time.Time) int {
		return directoryService.Prune(sessionService.Live)
	})
	if err := janitor.Start(); err != nil {
		log.Fatal("Failed to start janitor", map[string]interface{}{"error": err.Error()})
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(sessionService, val, log)
	authHandler.OnLogout(func(r *http.Request) {
		if sid, ok := middleware.SessionIDFromContext(r.Context()); ok {
			directoryService.Forget(sid)
		}
	})

	handlers := handler.Handlers{
		System:       handler.NewSystemHandler(redisClient, janitor.LastRun, log),
		Catalog:      handler.NewCatalogHandler(catalogService, log),
		Directory:    handler.NewDirectoryHandler(directoryService, log),
		Intake:       handler.NewIntakeHandler(registry, log),
		Notification: handler.NewNotificationHandler(hub, log),
		Auth:         authHandler,
		Settings:     handler.NewSettingsHandler(settingsService, log),
		Profile:      handler.NewProfileHandler(profileService, val, log),
	}

	opts := handler.RouterOptions{
		Auth:        middleware.NewAuthMiddleware(sessionService, log),
		Audit:       middleware.NewAuditMiddleware(log),
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		Logger:      log,
	}
	authLimit := cfg.RateLimit.Limit / 4
	if authLimit < 1 {
		authLimit = 1
	}
	if redisClient != nil {
		opts.RateLimit = middleware.NewRateLimiter(redisClient, cfg.RateLimit.Limit, cfg.RateLimit.Window, log).Limit
		opts.AuthRateLimit = middleware.NewRateLimiter(redisClient, authLimit, cfg.RateLimit.Window, log).Limit
		opts.Idempotency = middleware.NewIdempotencyMiddleware(redisClient, cfg.Redis.IdempotencyTTL, log)
	} else {
		opts.RateLimit = middleware.NewLocalRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window).Limit
		opts.AuthRateLimit = middleware.NewLocalRateLimiter(authLimit, cfg.RateLimit.Window).Limit
	}

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.NewRouter(handlers, opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		log.Info("ZapWay API started", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down ZapWay API...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	<-janitor.Stop().Done()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("ZapWay API forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Info("ZapWay API stopped gracefully", nil)
}
