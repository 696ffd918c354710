package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mim3/sales-dashboard/internal/api/middleware"
	"github.com/mim3/sales-dashboard/internal/core/domain"
	"github.com/mim3/sales-dashboard/internal/core/ports"
)

// UserHandler serves the admin user-management page operations and the
// self-service profile operations. Admin routes are gated by the guard
// middleware before any of these run.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns all active users.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Create provisions a new user from admin input.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.users.CreateUser(c.Request().Context(), ports.NewUserInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		IsAdmin:     req.IsAdmin,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// SetActive activates or deactivates a user. Admins cannot deactivate their
// own account; locking out the last admin would strand the system.
func (h *UserHandler) SetActive(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if !req.Active {
		if self := middleware.IdentityFrom(c); self != nil && self.ID == id {
			return echo.NewHTTPError(http.StatusBadRequest, "cannot deactivate your own account")
		}
	}

	if err := h.users.SetActive(c.Request().Context(), id, req.Active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ResetPassword overwrites a user's password (admin operation).
func (h *UserHandler) ResetPassword(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.users.ResetPassword(c.Request().Context(), id, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Profile returns the enforced identity's own record.
func (h *UserHandler) Profile(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.IdentityFrom(c))
}

// UpdateProfile changes the caller's display name and email.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return domain.ErrNotAuthenticated
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.users.UpdateProfile(c.Request().Context(), identity.ID, req.DisplayName, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// ChangePassword verifies the caller's current password and stores a new one.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return domain.ErrNotAuthenticated
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.users.ChangePassword(c.Request().Context(), identity.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}
