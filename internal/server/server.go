// Package server contains the HTTP handlers and route table for the
// application's endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"warble/internal/cache"
	"warble/internal/config"
	"warble/internal/database"
	"warble/internal/middleware"
	"warble/internal/repository"
	"warble/internal/service"
	"warble/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	sessions       *session.Manager
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	messageRepo    repository.MessageRepository
	followRepo     repository.FollowRepository
	authService    *service.AuthService
	userService    *service.UserService
	followService  *service.FollowService
	messageService *service.MessageService
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
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	followRepo := repository.NewFollowRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		sessions:       session.NewManager(redisClient, cfg.SessionSecret),
		promMiddleware: middleware.InitMetrics("warble"),
		userRepo:       userRepo,
		messageRepo:    messageRepo,
		followRepo:     followRepo,
	}
	server.authService = service.NewAuthService(userRepo)
	server.userService = service.NewUserService(userRepo, messageRepo)
	server.followService = service.NewFollowService(followRepo, userRepo)
	server.messageService = service.NewMessageService(messageRepo, userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-CSRF-Token",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Anti-forgery token for state-changing requests. Safe methods pass
	// through; every POST must present the token bound to the cookie.
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-CSRF-Token",
		CookieName:     "warble_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: false,
		Expiration:     1 * time.Hour,
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Invalid or missing anti-forgery token",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	optional := middleware.SessionOptional(s.sessions)
	required := middleware.SessionRequired(s.sessions)

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Home feed: anonymous view or the 100 most recent followed messages
	app.Get("/", optional, s.HomeFeed)

	// Signup / login / logout
	app.Get("/signup", s.SignupForm)
	app.Post("/signup", s.Signup)
	app.Get("/login", s.LoginForm)
	app.Post("/login", s.Login)
	app.Post("/logout", optional, s.Logout)

	// Users. The static /users/profile routes must be registered before
	// the parameterized /users/:id routes.
	app.Get("/users", s.ListUsers)
	app.Get("/users/profile", required, s.ProfileForm)
	app.Post("/users/profile", required, s.UpdateProfile)
	app.Post("/users/delete", required, s.DeleteAccount)
	app.Post("/users/follow/:id", required, s.FollowUser)
	app.Post("/users/stop-following/:id", required, s.StopFollowing)
	app.Get("/users/:id", optional, s.GetUser)
	app.Get("/users/:id/following", required, s.ShowFollowing)
	app.Get("/users/:id/followers", required, s.ShowFollowers)
	app.Get("/users/:id/likes", optional, s.ListLikes)

	// Messages
	app.Get("/messages/new", required, s.MessageForm)
	app.Post("/messages/new", required, s.CreateMessage)
	app.Get("/messages/:id", optional, s.GetMessage)
	app.Post("/messages/:id/delete", required, s.DeleteMessage)
	app.Post("/messages/:id/like", required, s.LikeMessage)
	app.Post("/messages/:id/unlike", required, s.UnlikeMessage)
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck reports whether the database is reachable.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Context())
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
