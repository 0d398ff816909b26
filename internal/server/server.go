// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	_ "pawhaven/docs" // swagger docs
	"pawhaven/internal/cache"
	"pawhaven/internal/config"
	"pawhaven/internal/database"
	"pawhaven/internal/featureflags"
	"pawhaven/internal/middleware"
	"pawhaven/internal/notifications"
	"pawhaven/internal/repository"
	"pawhaven/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	promMiddleware  *fiberprometheus.FiberPrometheus
	userRepo        repository.UserRepository
	postRepo        repository.PostRepository
	statsRepo       repository.StatsRepository
	reactionRepo    repository.ReactionRepository
	commentRepo     repository.CommentRepository
	listingRepo     repository.ListingRepository
	sightingRepo    repository.SightingRepository
	notifier        *notifications.Notifier
	hub             *notifications.Hub
	featureFlags    *featureflags.Manager
	postService     *service.PostService
	reactionService *service.ReactionService
	listingService  *service.ListingService
	sightingService *service.SightingService
	alertService    *service.AlertService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("pawhaven-api"),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		statsRepo:      repository.NewStatsRepository(db),
		reactionRepo:   repository.NewReactionRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		listingRepo:    repository.NewListingRepository(db),
		sightingRepo:   repository.NewSightingRepository(db),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}

	server.postService = service.NewPostService(
		server.postRepo, server.statsRepo, server.reactionRepo, server.commentRepo)
	server.reactionService = service.NewReactionService(server.postRepo, server.reactionRepo)
	server.listingService = service.NewListingService(server.listingRepo)
	server.sightingService = service.NewSightingService(server.sightingRepo)

	// Alert fan-out needs Redis for cross-instance delivery; without it the
	// hub still serves listeners on this instance.
	server.notifier = notifications.NewNotifier(redisClient)
	server.hub = notifications.NewHub()
	server.alertService = service.NewAlertService(server.postService, server.notifier)

	return server, nil
}

// StartWiring subscribes the alert hub to Redis pub/sub. Call once after the
// server is constructed, before serving traffic.
func (s *Server) StartWiring(ctx context.Context) error {
	return s.hub.StartWiring(ctx, s.notifier)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Resolve the viewer early so logging and rate-limit keys can use it.
	app.Use(middleware.ViewerOptional)

	// Context Middleware to propagate Request ID and Viewer ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (120 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "PawHaven Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Forum routes. Specific paths go before the generic /:ref catch-all.
	forum := api.Group("/forum")
	forum.Get("/posts", s.GetPosts)
	forum.Get("/posts/trending", s.GetTrending)
	forum.Get("/posts/:id/comments", s.GetComments)
	forum.Post("/posts", middleware.ViewerRequired, middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	forum.Post("/posts/:id/comments", middleware.ViewerRequired, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	forum.Post("/posts/:id/reaction", middleware.ViewerRequired, s.ToggleReaction)
	forum.Get("/posts/:ref", s.GetPost)

	// Adoption listings
	listings := api.Group("/listings")
	listings.Get("/", s.GetListings)
	listings.Get("/:id", s.GetListing)
	listings.Post("/", middleware.ViewerRequired, s.CreateListing)
	listings.Patch("/:id/status", middleware.ViewerRequired, s.UpdateListingStatus)

	// Stray sightings
	sightings := api.Group("/sightings")
	sightings.Get("/", s.GetSightings)
	sightings.Get("/:id", s.GetSighting)
	sightings.Post("/", middleware.ViewerRequired, middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "report_sighting"), s.CreateSighting)

	// Urgent alerts
	alerts := api.Group("/alerts")
	alerts.Get("/", s.GetAlerts)
	alerts.Post("/", middleware.ViewerRequired, middleware.RateLimit(
		s.redis, 3, 5*time.Minute, "raise_alert"), s.RaiseAlert)

	// Feature flags snapshot for the frontend
	api.Get("/feature-flags", s.GetFeatureFlags)

	// Websocket endpoint; anonymous listeners are allowed.
	api.Get("/ws/alerts", s.AlertSocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional: reads fall through to the store without it, so a
	// missing cache degrades performance, not readiness.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "PawHaven",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// GetFeatureFlags handles GET /api/feature-flags
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags": s.featureFlags.Snapshot(s.viewerID(c)),
	})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			return err
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
