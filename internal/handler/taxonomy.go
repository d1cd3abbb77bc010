package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const networkNotFound = "network not found"

// Categories handles GET /kanal.
func (h *Handler) Categories(c echo.Context) error {
	t, err := h.tenantBySlug(c)
	if err != nil {
		return h.respondError(c, err)
	}
	if t == nil {
		return fail(c, http.StatusNotFound, networkNotFound)
	}

	cats, err := h.engine.Categories(c.Request().Context(), *t)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, cats)
}

// CategoryTree handles GET /kanal/category-news: the tenant's category tree
// with the latest articles of each category.
func (h *Handler) CategoryTree(c echo.Context) error {
	limit, err := queryInt(c, "limit", h.defaults.Limit)
	if err != nil {
		return h.badRequest(c, err)
	}

	t, err := h.tenantBySlug(c)
	if err != nil {
		return h.respondError(c, err)
	}
	if t == nil {
		return fail(c, http.StatusNotFound, networkNotFound)
	}

	tree, err := h.engine.CategoryTree(c.Request().Context(), *t, limit, true)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, tree)
}

// CategoryBySlug handles GET /kanal/detail/:slug.
func (h *Handler) CategoryBySlug(c echo.Context) error {
	t, err := h.tenantBySlug(c)
	if err != nil {
		return h.respondError(c, err)
	}
	if t == nil {
		return fail(c, http.StatusNotFound, networkNotFound)
	}

	cat, err := h.engine.CategoryBySlug(c.Request().Context(), *t, c.Param("slug"))
	if err != nil {
		return h.respondError(c, err)
	}
	if cat == nil {
		return fail(c, http.StatusNotFound, "category not found")
	}
	return ok(c, cat)
}

// Focuses handles GET /fokus.
func (h *Handler) Focuses(c echo.Context) error {
	t, err := h.tenantBySlug(c)
	if err != nil {
		return h.respondError(c, err)
	}
	if t == nil {
		return fail(c, http.StatusNotFound, networkNotFound)
	}

	list, err := h.engine.Focuses(c.Request().Context(), *t)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, list)
}

// FocusDetail handles GET /fokus/:id and /fokus/detail/:id.
func (h *Handler) FocusDetail(c echo.Context) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return h.badRequest(c, err)
	}

	f, err := h.engine.FocusDetail(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	if f == nil {
		return fail(c, http.StatusNotFound, "fokus not found")
	}
	return ok(c, f)
}

// Network handles GET /network/:slug.
func (h *Handler) Network(c echo.Context) error {
	t, err := h.engine.Tenant(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return h.respondError(c, err)
	}
	if t == nil {
		return fail(c, http.StatusNotFound, networkNotFound)
	}
	return ok(c, t)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck handles GET /health. It reports unhealthy when the store
// cannot be reached.
func HealthCheck(service string, p Pinger, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if p != nil {
			if err := p.Ping(c.Request().Context()); err != nil {
				if log != nil {
					log.Warn("health check failed", zap.Error(err))
				}
				return c.JSON(http.StatusServiceUnavailable, echo.Map{
					"status":  "unhealthy",
					"service": service,
				})
			}
		}
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "healthy",
			"service": service,
		})
	}
}
