// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	_ "shayarihub/docs" // swagger docs
	"shayarihub/internal/audit"
	"shayarihub/internal/bootstrap"
	"shayarihub/internal/cache"
	"shayarihub/internal/config"
	"shayarihub/internal/database"
	"shayarihub/internal/middleware"
	"shayarihub/internal/models"
	"shayarihub/internal/notifications"
	"shayarihub/internal/repository"
	"shayarihub/internal/service"
	"shayarihub/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const defaultRequestsPerMinute = 100

// Deps carries the optional backends. Nil fields fall back to in-process
// implementations.
type Deps struct {
	Audit   audit.Recorder
	Objects storage.ObjectStore
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	mongo          *mongo.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	objects  storage.ObjectStore
	notifier *notifications.Notifier
	hub      *notifications.Hub

	authService       *service.AuthService
	searchService     *service.SearchService
	shayariService    *service.ShayariService
	userService       *service.UserService
	moderationService *service.ModerationService
	statsService      *service.StatsService
	avatarService     *service.AvatarService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{EnsureSuperAdmin: true})
	if err != nil {
		return nil, err
	}

	srv, err := NewServerWithDeps(cfg, rt.DB, rt.Redis, Deps{Audit: rt.Audit, Objects: rt.Objects})
	if err != nil {
		rt.Close(context.Background())
		return nil, err
	}
	srv.mongo = rt.Mongo
	return srv, nil
}

// NewServerWithDeps wires repositories and services over already opened
// connections. Tests use it with sqlite and miniredis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, deps Deps) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("config and database are required")
	}

	userRepo := repository.NewUserRepository(db)
	shayariRepo := repository.NewShayariRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	reportRepo := repository.NewReportRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	store := cache.NewStore(redisClient)
	notifier := notifications.NewNotifier(redisClient)

	objects := deps.Objects
	if objects == nil {
		objects = storage.NewLocalStore(cfg.UploadDir, cfg.PublicMediaURL)
	}
	recorder := deps.Audit
	if recorder == nil {
		recorder = audit.NewMemoryRecorder(0)
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("shayarihub-api"),
		objects:        objects,
		notifier:       notifier,
		hub:            notifications.NewHub(),
	}

	s.authService = service.NewAuthService(userRepo, store, cfg.JWTSecret, cfg.TokenTTL())
	s.searchService = service.NewSearchService(shayariRepo, userRepo, store)
	s.userService = service.NewUserService(userRepo, shayariRepo, store)
	s.statsService = service.NewStatsService(statsRepo, store)
	s.avatarService = service.NewAvatarService(userRepo, objects, cfg.MaxUploadMB)
	s.moderationService = service.NewModerationService(service.ModerationServiceDeps{
		Users:    userRepo,
		Shayaris: shayariRepo,
		Reports:  reportRepo,
		Store:    store,
		Audit:    recorder,
		Notifier: notifier,
	})
	s.shayariService = service.NewShayariService(service.ShayariServiceDeps{
		Shayaris: shayariRepo,
		Likes:    likeRepo,
		Reports:  reportRepo,
		Users:    userRepo,
		Store:    store,
		Notifier: notifier,
		Takedown: s.moderationService.Takedown,
	})

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Tracing runs before ContextMiddleware so the trace id reaches services.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := strings.Join(s.config.Origins(), ",")
	if origins == "" {
		origins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	rpm := s.config.RateLimitRPM
	if rpm <= 0 {
		rpm = defaultRequestsPerMinute
	}
	app.Use(limiter.New(limiter.Config{
		Max:        rpm,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || strings.HasPrefix(c.Path(), "/health")
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if local, ok := s.objects.(*storage.LocalStore); ok && strings.HasPrefix(s.config.PublicMediaURL, "/") {
		app.Static(s.config.PublicMediaURL, local.Dir(), fiber.Static{MaxAge: 86400})
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, middleware.RateLimitConfig{
		Name: "register", Limit: 5, Window: 10 * time.Minute, Policy: middleware.FailOpen,
	}), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, middleware.RateLimitConfig{
		Name: "login", Limit: 10, Window: 5 * time.Minute, Policy: middleware.FailOpen,
	}), s.Login)
	auth.Post("/logout", s.Logout)
	auth.Get("/me", s.AuthRequired(), s.Me)

	search := api.Group("/search")
	search.Get("/", middleware.RateLimit(s.redis, middleware.RateLimitConfig{
		Name: "search", Limit: 60, Window: time.Minute,
	}), s.Search)
	search.Get("/suggestions", middleware.RateLimit(s.redis, middleware.RateLimitConfig{
		Name: "typeahead", Limit: 120, Window: time.Minute,
	}), s.SearchSuggestions)

	shayaris := api.Group("/shayaris")
	shayaris.Get("/", s.OptionalAuth(), s.ListShayaris)
	shayaris.Post("/", s.AuthRequired(), middleware.RateLimit(s.redis, middleware.RateLimitConfig{
		Name: "create_shayari", Limit: 10, Window: time.Minute,
	}), s.CreateShayari)
	shayaris.Get("/:id", s.OptionalAuth(), s.GetShayari)
	shayaris.Put("/:id", s.AuthRequired(), s.UpdateShayari)
	shayaris.Delete("/:id", s.AuthRequired(), s.DeleteShayari)
	shayaris.Get("/:id/like", s.OptionalAuth(), s.GetLikeStatus)
	shayaris.Post("/:id/like", s.AuthRequired(), s.ToggleLike)
	shayaris.Post("/:id/report", s.AuthRequired(), middleware.RateLimit(s.redis, middleware.RateLimitConfig{
		Name: "report", Limit: 10, Window: time.Hour,
	}), s.ReportShayari)

	user := api.Group("/user", s.AuthRequired())
	user.Put("/profile", s.UpdateProfile)
	user.Post("/profile/photo", middleware.RateLimit(s.redis, middleware.RateLimitConfig{
		Name: "avatar", Limit: 5, Window: 10 * time.Minute,
	}), s.UploadProfilePhoto)
	user.Get("/stats", s.GetUserStats)

	admin := api.Group("/admin", s.AuthRequired(), s.RequireRole(models.RoleAdmin))
	admin.Get("/stats", s.AdminStats)
	admin.Get("/users", s.AdminListUsers)
	admin.Put("/users/:id", s.AdminUpdateUser)
	admin.Delete("/users/:id", s.RequireRole(models.RoleSuperAdmin), s.AdminDeleteUser)
	admin.Get("/shayaris", s.AdminListShayaris)
	admin.Delete("/shayaris/:id", s.AdminDeleteShayari)
	admin.Get("/reports", s.AdminListReports)
	admin.Get("/audit", s.AdminAuditLog)

	api.Get("/ws", s.WebsocketUpgrade(), s.AuthRequired(), s.WebsocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so a
// server started without it reports "disabled" and stays ready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// errorHandler renders errors that escaped a handler in the API's error
// envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithAppError(c, err)
}

// NewApp builds the Fiber app and connects the notification hub. Start
// listens on it; tests drive it through app.Test.
func (s *Server) NewApp() *fiber.App {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	maxUpload := s.config.MaxUploadMB
	if maxUpload <= 0 {
		maxUpload = service.DefaultMaxUploadMB
	}
	app := fiber.New(fiber.Config{
		AppName: "Shayari Hub API",
		// One spare megabyte lets the avatar service report oversize files
		// itself instead of Fiber cutting the request off.
		BodyLimit:    (maxUpload + 1) << 20,
		ErrorHandler: errorHandler,
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
		middleware.Logger.Error("failed to start notification wiring", slog.String("error", err.Error()))
	}

	return app
}

// Start starts the server
func (s *Server) Start() error {
	app := s.NewApp()
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down notification hub", slog.String("error", err.Error()))
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	if s.mongo != nil {
		if err := s.mongo.Disconnect(ctx); err != nil {
			middleware.Logger.Error("error closing mongo", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
