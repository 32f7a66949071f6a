package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/Syed-Ali-7/civicfix-backend/docs"
	"github.com/Syed-Ali-7/civicfix-backend/internal/api/handler"
	"github.com/Syed-Ali-7/civicfix-backend/internal/api/middleware"
	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
	"github.com/Syed-Ali-7/civicfix-backend/internal/core/ports"
	"github.com/Syed-Ali-7/civicfix-backend/pkg/logger"
)

// RouterConfig carries the transport-level settings the router needs.
type RouterConfig struct {
	JWTSecret      string
	UploadDir      string
	MaxUploadBytes int64
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	issueService ports.IssueService,
	authService ports.AuthService,
	cfg RouterConfig,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Get())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("civicfix"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	issueHandler := handler.NewIssueHandler(issueService, cfg.MaxUploadBytes)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Issue routes (reads are public, writes require auth) ---
	issues := e.Group("/v1/issues")
	issues.GET("", issueHandler.List)
	issues.GET("/:id", issueHandler.Get)
	issues.POST("", issueHandler.Create, authMiddleware)
	issues.PUT("/:id", issueHandler.Update, authMiddleware, middleware.RBAC(domain.RoleStaff, domain.RoleAdmin))
	issues.DELETE("/:id", issueHandler.Delete, authMiddleware, middleware.RBAC(domain.RoleAdmin))

	// --- Uploaded photos (public, no auth) ---
	e.Static("/uploads", cfg.UploadDir)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
