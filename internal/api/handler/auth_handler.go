package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mim3/sales-dashboard/internal/api/metrics"
	"github.com/mim3/sales-dashboard/internal/core/domain"
	"github.com/mim3/sales-dashboard/internal/core/ports"
)

// AuthHandler serves login, logout, and the current-session probe.
type AuthHandler struct {
	auth     ports.Authenticator
	sessions ports.SessionManager
	audit    ports.AuditSink
}

func NewAuthHandler(auth ports.Authenticator, sessions ports.SessionManager, audit ports.AuditSink) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, audit: audit}
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *domain.Identity `json:"user,omitempty"`
}

// Login verifies credentials and activates a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	identity, err := h.auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	if err := h.sessions.Login(ctx, identity); err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.SessionActive.Set(1)
	h.record(c, domain.AuditLogin, identity.Username)

	return c.JSON(http.StatusOK, sessionResponse{Authenticated: true, User: identity})
}

// Logout destroys the session. Safe to call when anonymous.
func (h *AuthHandler) Logout(c echo.Context) error {
	username := ""
	if identity := h.sessions.CurrentIdentity(); identity != nil {
		username = identity.Username
	}

	h.sessions.Logout(c.Request().Context())
	metrics.SessionActive.Set(0)
	if username != "" {
		h.record(c, domain.AuditLogout, username)
	}

	return c.JSON(http.StatusOK, sessionResponse{Authenticated: false})
}

// Session reports who is logged in, triggering the timeout check so an
// expired session reads as anonymous.
func (h *AuthHandler) Session(c echo.Context) error {
	if h.sessions.CheckTimeout(c.Request().Context()) {
		metrics.SessionActive.Set(0)
		return c.JSON(http.StatusOK, sessionResponse{Authenticated: false})
	}

	identity := h.sessions.CurrentIdentity()
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: identity != nil, User: identity})
}

func (h *AuthHandler) record(c echo.Context, kind domain.AuditKind, username string) {
	if h.audit == nil {
		return
	}
	_ = h.audit.Record(c.Request().Context(), domain.AuditEvent{Kind: kind, Username: username})
}
