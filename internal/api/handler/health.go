package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mim3/sales-dashboard/internal/api/middleware"
	"github.com/mim3/sales-dashboard/internal/core/domain"
	"github.com/mim3/sales-dashboard/internal/core/ports"
)

// HealthHandler handles GET /health — liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// HealthDependenciesHandler handles GET /health/ready — readiness probe.
// Checks the user store and, when configured, Redis before declaring the
// service ready. The redis client is nil in file-medium deployments.
type HealthDependenciesHandler struct {
	users ports.UserStore
	redis *redis.Client
}

func NewHealthDependenciesHandler(users ports.UserStore, rdb *redis.Client) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{
		users: users,
		redis: rdb,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// recentAuditEvents bounds the trail shown on the admin health page.
const recentAuditEvents = 50

// AdminHealthHandler serves the admin-only system health page: the page stub
// plus the recent authentication audit trail when a retaining sink is
// configured.
type AdminHealthHandler struct {
	audit ports.AuditLog
}

// NewAdminHealthHandler builds the handler. audit may be nil when only the
// log sink is configured; the page then shows an empty trail.
func NewAdminHealthHandler(audit ports.AuditLog) *AdminHealthHandler {
	return &AdminHealthHandler{audit: audit}
}

type adminHealthResponse struct {
	Resource     string              `json:"resource"`
	Title        string              `json:"title"`
	Viewer       string              `json:"viewer,omitempty"`
	RecentEvents []domain.AuditEvent `json:"recent_events"`
}

func (h *AdminHealthHandler) Page(c echo.Context) error {
	resp := adminHealthResponse{
		Resource:     "admin_health",
		Title:        "System Health",
		RecentEvents: []domain.AuditEvent{},
	}
	if identity := middleware.IdentityFrom(c); identity != nil {
		resp.Viewer = identity.Username
	}

	if h.audit != nil {
		events, err := h.audit.Recent(c.Request().Context(), recentAuditEvents)
		if err != nil {
			return err
		}
		resp.RecentEvents = events
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	// --- User store reachable ---
	if _, err := h.users.ListAdmins(ctx); err != nil {
		deps["user_store"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["user_store"] = dependencyStatus{Status: "ok"}
	}

	// --- Redis ping (optional dependency) ---
	if h.redis != nil {
		if _, err := h.redis.Ping(ctx).Result(); err != nil {
			deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		} else {
			deps["redis"] = dependencyStatus{Status: "ok"}
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
