package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/mim3/sales-dashboard/internal/api/handler"
	"github.com/mim3/sales-dashboard/internal/api/middleware"
	"github.com/mim3/sales-dashboard/internal/core/domain"
	"github.com/mim3/sales-dashboard/internal/core/ports"
	"github.com/mim3/sales-dashboard/internal/core/service"
)

// Deps carries the wired services the router exposes over HTTP.
type Deps struct {
	Auth     ports.Authenticator
	Sessions ports.SessionManager
	Guard    ports.AccessGuard
	Users    ports.UserService
	Store    ports.UserStore
	Registry *service.PolicyRegistry
	Audit    ports.AuditSink
	AuditLog ports.AuditLog // nil unless a retaining audit sink is configured
	Redis    *redis.Client  // nil unless a redis medium/sink is configured
}

// RegisterPolicies installs the page-to-level table. Every navigable resource
// has exactly one entry; anything not listed here denies.
func RegisterPolicies(registry *service.PolicyRegistry) {
	registry.Register("login", domain.LevelPublic, "Login")
	registry.Register("dashboard", domain.LevelAuthenticated, "Sales Dashboard")
	registry.Register("reports", domain.LevelAuthenticated, "Territory Reports")
	registry.Register("profile", domain.LevelAuthenticated, "My Profile")
	registry.Register("admin_users", domain.LevelAdmin, "User Management")
	registry.Register("admin_settings", domain.LevelAdmin, "System Settings")
	registry.Register("admin_health", domain.LevelAdmin, "System Health")
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("dashboard"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Sessions, deps.Audit)
	userHandler := handler.NewUserHandler(deps.Users)
	pageHandler := handler.NewPageHandler(deps.Guard, deps.Sessions, deps.Registry)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login, middleware.Enforce(deps.Guard, "login"))
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session)

	// --- Navigation (filtered menu; enforcement stays per page) ---
	e.GET("/pages", pageHandler.Menu)

	// --- Member pages ---
	e.GET("/pages/dashboard", pageHandler.Page("dashboard", "Sales Dashboard"),
		middleware.Enforce(deps.Guard, "dashboard"))
	e.GET("/pages/reports", pageHandler.Page("reports", "Territory Reports"),
		middleware.Enforce(deps.Guard, "reports"))

	profile := e.Group("/profile", middleware.Enforce(deps.Guard, "profile"))
	profile.GET("", userHandler.Profile)
	profile.PUT("", userHandler.UpdateProfile)
	profile.POST("/password", userHandler.ChangePassword)

	// --- Admin pages ---
	users := e.Group("/admin/users", middleware.Enforce(deps.Guard, "admin_users"))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PUT("/:id/active", userHandler.SetActive)
	users.PUT("/:id/password", userHandler.ResetPassword)

	e.GET("/admin/settings", pageHandler.Page("admin_settings", "System Settings"),
		middleware.Enforce(deps.Guard, "admin_settings"))

	adminHealthHandler := handler.NewAdminHealthHandler(deps.AuditLog)
	e.GET("/admin/health", adminHealthHandler.Page,
		middleware.Enforce(deps.Guard, "admin_health"))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Store, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
