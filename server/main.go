package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"salonhub/api/routes"
	"salonhub/internal/jobs"
	"salonhub/internal/notifications"
	"salonhub/internal/shared/config"
	"salonhub/internal/shared/database"
	"salonhub/pkg/cache"
	"salonhub/pkg/logger"
	"salonhub/pkg/ratelimit"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title           SalonHub API
// @version         1.0
// @description     Salon booking marketplace: salons, service catalogs, bookings, payments and waitlists.

// @BasePath  /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load environment variables
	appLogger := logger.GetDefault()

	// Smart environment loading
	if err := godotenv.Load(); err != nil {
		// Check if we're in production/container mode
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	// Load config
	cfg := config.Load()

	// Set Gin mode (debug/release)
	gin.SetMode(cfg.GinMode)

	// Initialize DB
	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect:", slog.Any("error", err))
	}
	defer db.Close()

	// Initialize the shared cache client. Feature caches and the booking
	// availability layer degrade to direct reads when this fails.
	if err := cache.InitWithRedisConfig(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err != nil {
		appLogger.Error("Failed to initialize cache client", slog.Any("error", err))
	} else {
		defer cache.Close()
		appLogger.Info("✅ Cache client initialized")
	}

	// Initialize Rate Limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiterConfig := &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			PublicRequests:  cfg.RateLimit.PublicRequests,
			AuthRequests:    cfg.RateLimit.AuthRequests,
			BookingRequests: cfg.RateLimit.BookingRequests,
			PaymentRequests: cfg.RateLimit.PaymentRequests,
			WebhookRequests: cfg.RateLimit.WebhookRequests,
			AdminRequests:   cfg.RateLimit.AdminRequests,
			WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
		}

		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), rateLimiterConfig)
		appLogger.Info("Rate limiter initialized",
			slog.Bool("enabled", cfg.RateLimit.Enabled),
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// Initialize the queued notification service when Kafka is on.
	// Without it every notifier stays nil and lifecycle events are
	// logged and dropped.
	notificationCtx, notificationCancel := context.WithCancel(context.Background())
	defer notificationCancel()

	var notificationService notifications.NotificationService
	if cfg.Kafka.Enabled {
		notificationService, err = notifications.NewKafkaNotificationService(&notifications.ServiceConfig{
			Kafka: cfg.Kafka,
			Email: cfg.Email,
			SMS:   cfg.SMS,
		})
		if err != nil {
			appLogger.Error("Failed to initialize notification service", slog.Any("error", err))
			appLogger.Info("Continuing without notification service - notifications will not be processed")
			notificationService = nil
		} else {
			go func() {
				if err := notificationService.Start(notificationCtx); err != nil {
					appLogger.Error("Failed to start notification service", slog.Any("error", err))
				}
			}()

			appLogger.Info("Notification service initialized and started")

			// Ensure notification service is stopped on shutdown
			defer func() {
				appLogger.Info("Stopping notification service...")
				if err := notificationService.Stop(); err != nil {
					appLogger.Error("Error stopping notification service", slog.Any("error", err))
				}
			}()
		}
	} else {
		appLogger.Info("Kafka disabled, notifications will not be processed")
	}

	// Setup router with rate limiter
	appRouter := routes.NewRouter(cfg, db, notificationService)
	router := setupEngine(cfg, appRouter, rateLimiter)

	// Maintenance scheduler: auto-complete, auto-cancel, reminders and
	// waitlist expiry run on cron schedules against the live services
	scheduler, err := jobs.NewScheduler(appRouter.BookingService(), appRouter.WaitlistService(), nil)
	if err != nil {
		appLogger.Error("Failed to initialize maintenance scheduler", slog.Any("error", err))
	} else {
		scheduler.Start()
		defer scheduler.Stop()
	}

	// HTTP server
	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("api_status", fmt.Sprintf("http://localhost:%s%s/status", cfg.Port, cfg.GetAPIBasePath())),
			slog.String("version", cfg.APIVersion),
			slog.Bool("redis_cache", cache.IsInitialized()),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupEngine(cfg *config.Config, appRouter *routes.Router, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	// Built-in middleware: logs requests + recovers from panics
	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	// CORS configuration
	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true // allow every origin dynamically
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-RateLimit-*"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Global rate limiting middleware (applied to all routes)
	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
		appLogger.Info("Rate limiting middleware applied to all routes")
	}

	appRouter.SetupRoutes(engine)

	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
