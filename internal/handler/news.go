package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

func (h *Handler) badRequest(c echo.Context, err error) error {
	var bp *badParam
	if errors.As(err, &bp) {
		return fail(c, http.StatusBadRequest, bp.Error())
	}
	return h.respondError(c, err)
}

// Listing handles GET /news/terbaru.
func (h *Handler) Listing(c echo.Context) error {
	p, err := h.paging(c)
	if err != nil {
		return h.badRequest(c, err)
	}

	items, err := h.engine.Listing(c.Request().Context(), p.tenant, p.page, p.limit)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, items)
}

// Headline handles GET /news/headline.
func (h *Handler) Headline(c echo.Context) error {
	p, err := h.paging(c)
	if err != nil {
		return h.badRequest(c, err)
	}

	items, err := h.engine.Headline(c.Request().Context(), p.tenant, p.page, p.limit)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, items)
}

// Popular handles GET /news/popular with an optional categoryId.
func (h *Handler) Popular(c echo.Context) error {
	p, err := h.paging(c)
	if err != nil {
		return h.badRequest(c, err)
	}

	var categoryID *int64
	if c.QueryParam("categoryId") != "" {
		id, err := queryInt64(c, "categoryId", 0)
		if err != nil {
			return h.badRequest(c, err)
		}
		categoryID = &id
	}

	items, err := h.engine.Popular(c.Request().Context(), p.tenant, p.page, p.limit, categoryID)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, items)
}

// ByCategory handles GET /news/category/:cat_id.
func (h *Handler) ByCategory(c echo.Context) error {
	p, err := h.paging(c)
	if err != nil {
		return h.badRequest(c, err)
	}
	id, err := paramInt64(c, "cat_id")
	if err != nil {
		return h.badRequest(c, err)
	}

	page, err := h.engine.ByCategory(c.Request().Context(), p.tenant, id, p.page, p.limit)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, page)
}

// ByFocus handles GET /news/fokus/:fokus_id.
func (h *Handler) ByFocus(c echo.Context) error {
	p, err := h.paging(c)
	if err != nil {
		return h.badRequest(c, err)
	}
	id, err := paramInt64(c, "fokus_id")
	if err != nil {
		return h.badRequest(c, err)
	}

	page, err := h.engine.ByFocus(c.Request().Context(), p.tenant, id, p.page, p.limit)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, page)
}

// Search handles GET /news/search/:query.
func (h *Handler) Search(c echo.Context) error {
	p, err := h.paging(c)
	if err != nil {
		return h.badRequest(c, err)
	}

	query := c.Param("query")
	if unescaped, err := url.PathUnescape(query); err == nil {
		query = unescaped
	}

	page, err := h.engine.Search(c.Request().Context(), p.tenant, query, p.page, p.limit)
	if err != nil {
		return h.respondError(c, err)
	}
	return ok(c, page)
}

// Detail handles GET /news/:code.
func (h *Handler) Detail(c echo.Context) error {
	code := strings.TrimSpace(c.Param("code"))

	d, err := h.engine.Detail(c.Request().Context(), code)
	if err != nil {
		return h.respondError(c, err)
	}
	if d == nil {
		return fail(c, http.StatusNotFound, "news not found")
	}
	return ok(c, d)
}
