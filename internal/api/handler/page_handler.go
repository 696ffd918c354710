package handler

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/mim3/sales-dashboard/internal/api/middleware"
	"github.com/mim3/sales-dashboard/internal/core/domain"
	"github.com/mim3/sales-dashboard/internal/core/ports"
	"github.com/mim3/sales-dashboard/internal/core/service"
)

// PageHandler serves the navigation menu and the page stubs the reporting
// layer renders into. Page content itself is out of scope here; each page
// route exists so the guard middleware has a real enforcement point per page.
type PageHandler struct {
	guard    ports.AccessGuard
	sessions ports.SessionManager
	registry *service.PolicyRegistry
}

func NewPageHandler(guard ports.AccessGuard, sessions ports.SessionManager, registry *service.PolicyRegistry) *PageHandler {
	return &PageHandler{guard: guard, sessions: sessions, registry: registry}
}

type menuEntry struct {
	Resource    string `json:"resource"`
	Description string `json:"description"`
	Level       string `json:"level"`
}

// Menu lists the pages the current identity can see. This is a UX filter
// built on the non-halting policy check; every page route still enforces
// access itself.
func (h *PageHandler) Menu(c echo.Context) error {
	identity := h.sessions.CurrentIdentity()

	var visible []menuEntry
	for _, entry := range h.registry.Entries() {
		// A logged-in user has no use for the public pages (login).
		if identity != nil && entry.Level == domain.LevelPublic {
			continue
		}
		if !h.guard.CanAccess(identity, entry.ResourceID) {
			continue
		}
		visible = append(visible, menuEntry{
			Resource:    entry.ResourceID,
			Description: entry.Description,
			Level:       entry.Level.String(),
		})
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].Resource < visible[j].Resource })

	return c.JSON(http.StatusOK, visible)
}

type pageResponse struct {
	Resource string `json:"resource"`
	Title    string `json:"title"`
	Viewer   string `json:"viewer,omitempty"`
}

// Page returns the stub body for an enforced page route. The identity comes
// from the guard middleware, never from the request.
func (h *PageHandler) Page(resourceID, title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := pageResponse{Resource: resourceID, Title: title}
		if identity := middleware.IdentityFrom(c); identity != nil {
			resp.Viewer = identity.Username
		}
		return c.JSON(http.StatusOK, resp)
	}
}
