// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"salonhub/internal/analytics"
	"salonhub/internal/auth"
	"salonhub/internal/bookings"
	"salonhub/internal/cancellation"
	"salonhub/internal/categories"
	"salonhub/internal/notifications"
	"salonhub/internal/payments"
	"salonhub/internal/reviews"
	"salonhub/internal/salons"
	"salonhub/internal/services"
	"salonhub/internal/shared/config"
	"salonhub/internal/shared/database"
	"salonhub/internal/waitlist"
	"salonhub/pkg/cache"
)

// Router holds all route dependencies
type Router struct {
	config        *config.Config
	db            *database.DB
	notifications notifications.NotificationService

	// Repositories shared across feature wiring
	authRepo    auth.Repository
	salonRepo   salons.Repository
	serviceRepo services.Repository

	// Services the maintenance scheduler drives from main
	bookingService  bookings.Service
	waitlistService waitlist.Service
}

// NewRouter creates a new router instance. notificationService may be
// nil; lifecycle events are then skipped everywhere.
func NewRouter(cfg *config.Config, db *database.DB, notificationService notifications.NotificationService) *Router {
	return &Router{
		config:        cfg,
		db:            db,
		notifications: notificationService,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Auth first: later groups reuse its repository for contact lookups
		r.setupAuthRoutes(api)

		// Marketplace catalog
		r.setupSalonRoutes(api)
		r.setupCategoryRoutes(api)
		r.setupServiceRoutes(api)
		r.setupReviewRoutes(api)

		// Booking cluster: bookings, payments, cancellation policies and
		// the waitlist are wired together here
		r.setupBookingRoutes(api)

		// Vendor and admin analytics
		r.setupAnalyticsRoutes(api)
	}
}

// BookingService exposes the booking service so main can hand it to the
// maintenance scheduler.
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

// WaitlistService exposes the waitlist service for the same reason.
func (r *Router) WaitlistService() waitlist.Service {
	return r.waitlistService
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "salonhub-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "salonhub-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	r.authRepo = auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(r.authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

// setupSalonRoutes configures salon management routes
func (r *Router) setupSalonRoutes(rg *gin.RouterGroup) {
	r.salonRepo = salons.NewRepository(r.db.GetPostgreSQL())
	salonService := salons.NewService(r.salonRepo)
	salonController := salons.NewController(salonService)

	salons.SetupSalonRoutes(rg, salonController)
}

// setupCategoryRoutes configures service category routes
func (r *Router) setupCategoryRoutes(rg *gin.RouterGroup) {
	categoryRepo := categories.NewRepository(r.db.GetPostgreSQL())
	categoryService := categories.NewService(categoryRepo)
	categoryController := categories.NewController(categoryService)

	categories.SetupCategoryRoutes(rg, categoryController)
}

// setupServiceRoutes configures service catalog routes
func (r *Router) setupServiceRoutes(rg *gin.RouterGroup) {
	r.serviceRepo = services.NewRepository(r.db.GetPostgreSQL())
	catalogService := services.NewService(r.serviceRepo, r.salonRepo)
	serviceController := services.NewController(catalogService)

	services.SetupServiceRoutes(rg, serviceController)
}

// setupReviewRoutes configures review routes
func (r *Router) setupReviewRoutes(rg *gin.RouterGroup) {
	reviewRepo := reviews.NewRepository(r.db.GetPostgreSQL())
	reviewService := reviews.NewService(reviewRepo, r.salonRepo)
	reviewController := reviews.NewController(reviewService)

	reviews.SetupReviewRoutes(rg, reviewController)
}

// setupBookingRoutes wires the booking cluster. Bookings initiate
// payments and payments confirm bookings, so construction order
// matters and the ledger side is attached after both services exist.
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	paymentRepo := payments.NewRepository(r.db.GetPostgreSQL())
	waitlistRepo := waitlist.NewRepository(r.db.GetPostgreSQL())
	cancellationRepo := cancellation.NewRepository(r.db.GetPostgreSQL())

	cancellationService := cancellation.NewService(cancellationRepo, r.salonRepo, r.config.Booking.CancellationCutoff)

	// Notifier variables stay nil interfaces when the pipeline is
	// disabled; assigning a typed nil here would get past the services'
	// nil checks and panic on first use.
	var (
		bookingNotifier  bookings.Notifier
		paymentNotifier  payments.Notifier
		waitlistAlerts   waitlist.NotificationService
		waitlistContacts waitlist.UserService
	)
	if r.notifications != nil {
		contacts := auth.NewUserServiceAdapter(r.authRepo)
		bookingNotifier = notifications.NewBookingNotifierAdapter(r.notifications, contacts, bookingRepo)
		paymentNotifier = notifications.NewPaymentNotifierAdapter(r.notifications, contacts, paymentRepo)
		waitlistAlerts = notifications.NewWaitlistServiceAdapter(r.notifications)
		waitlistContacts = contacts
	}

	gateway := payments.NewPaystackClient(r.config.Paystack)
	paymentService := payments.NewService(paymentRepo, bookingRepo, r.authRepo, gateway, paymentNotifier, r.config.Paystack)

	r.waitlistService = waitlist.NewService(waitlistRepo, r.salonRepo, waitlistAlerts, waitlistContacts, &waitlist.ServiceConfig{
		EntryTTL:       r.config.Booking.WaitlistEntryTTL,
		SweepBatchSize: 100,
	})

	r.bookingService = bookings.NewService(
		bookingRepo,
		r.salonRepo,
		r.serviceRepo,
		cancellationService,
		payments.NewBookingPaymentAdapter(paymentService),
		r.waitlistService,
		bookingNotifier,
		r.config.Booking,
	)

	// Close the loop: settled payments drive booking confirmation
	paymentService.SetBookingLedger(r.bookingService)

	bookings.SetupBookingRoutes(rg, bookings.NewController(r.bookingService))
	payments.SetupPaymentRoutes(rg, payments.NewController(paymentService))
	waitlist.SetupWaitlistRoutes(rg, waitlist.NewController(r.waitlistService))
	cancellation.SetupCancellationRoutes(rg, cancellation.NewController(cancellationService))
}

// setupAnalyticsRoutes configures analytics routes
func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analyticsRepo := analytics.NewRepository(r.db.GetPostgreSQL())

	// Aggregates are cached when Redis is up; with a nil cache service
	// every request recomputes from Postgres.
	var cacheService cache.Service
	if client := cache.Client(); client != nil {
		cacheService = cache.NewService(client)
	}

	analyticsService := analytics.NewService(analyticsRepo, cacheService, r.config.Booking.DefaultCurrency)
	analytics.SetupAnalyticsRoutes(rg, analytics.NewController(analyticsService))
}
