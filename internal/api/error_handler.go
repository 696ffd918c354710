package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

// errorResponse is the canonical error envelope. Redirect tells the UI where
// to send the user: the login page when a session is required, a safe default
// page otherwise. Internal identifiers and stack traces never appear here.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

const (
	redirectLogin     = "/login"
	redirectDashboard = "/pages/dashboard"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps denial sentinels to their status, message, and redirect target.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		// Same message whether the username or the password was wrong.
		return http.StatusUnauthorized, errorResponse{Error: "invalid username or password"}
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, errorResponse{Error: "session expired, please log in again", Redirect: redirectLogin}
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "please log in to access this page", Redirect: redirectLogin}
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusForbidden, errorResponse{Error: "account is inactive, contact an administrator", Redirect: redirectLogin}
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, errorResponse{Error: "admin access required", Redirect: redirectDashboard}
	case errors.Is(err, domain.ErrUnknownResource):
		// Configuration gap: a page was routed without a policy entry.
		log.Warn().Str("path", c.Path()).Msg("request for resource without policy entry")
		return http.StatusForbidden, errorResponse{Error: "page is not available", Redirect: redirectDashboard}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "username or email already exists"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
