// Package handler exposes the resolution engine over HTTP. Handlers only
// parse parameters, call the engine and wrap results in the response
// envelope.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/goliatone/go-newsnet/content"
	"github.com/goliatone/go-newsnet/pkg/logger"
	"github.com/goliatone/go-newsnet/resolver"
	"github.com/goliatone/go-newsnet/store"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Resolver is the subset of the engine the handlers call.
type Resolver interface {
	Listing(ctx context.Context, t resolver.Tenant, page, limit int) ([]content.Item, error)
	Headline(ctx context.Context, t resolver.Tenant, page, limit int) ([]content.Item, error)
	Popular(ctx context.Context, t resolver.Tenant, page, limit int, categoryID *int64) ([]content.Item, error)
	ByCategory(ctx context.Context, t resolver.Tenant, categoryID int64, page, limit int) (content.Paginated, error)
	ByFocus(ctx context.Context, t resolver.Tenant, focusID int64, page, limit int) (content.Paginated, error)
	Search(ctx context.Context, t resolver.Tenant, query string, page, limit int) (content.Paginated, error)
	Detail(ctx context.Context, code string) (*content.Detail, error)
	Tenant(ctx context.Context, slug string) (*content.Tenant, error)
	Categories(ctx context.Context, t resolver.Tenant) ([]content.Category, error)
	CategoryBySlug(ctx context.Context, t resolver.Tenant, slug string) (*content.Category, error)
	CategoryTree(ctx context.Context, t resolver.Tenant, limit int, withNews bool) ([]*content.CategoryNode, error)
	Focuses(ctx context.Context, t resolver.Tenant) ([]content.Focus, error)
	FocusDetail(ctx context.Context, id int64) (*content.Focus, error)
}

// Defaults fill in query parameters the client left out.
type Defaults struct {
	Page        int
	Limit       int
	NetworkID   int64
	NetworkSlug string
}

// DefaultDefaults returns page 1 of 10 items on network 2 ("malang").
func DefaultDefaults() Defaults {
	return Defaults{Page: 1, Limit: 10, NetworkID: 2, NetworkSlug: "malang"}
}

// Response is the envelope of every reply.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handler serves the content routes.
type Handler struct {
	engine   Resolver
	defaults Defaults
	logger   *zap.Logger
}

// New creates a Handler.
func New(engine Resolver, defaults Defaults, log *zap.Logger) *Handler {
	return &Handler{engine: engine, defaults: defaults, logger: logger.OrNop(log)}
}

// Register mounts every content route on e.
func (h *Handler) Register(e *echo.Echo) {
	news := e.Group("/news")
	news.GET("/terbaru", h.Listing)
	news.GET("/headline", h.Headline)
	news.GET("/popular", h.Popular)
	news.GET("/category/:cat_id", h.ByCategory)
	news.GET("/fokus/:fokus_id", h.ByFocus)
	news.GET("/search/:query", h.Search)
	news.GET("/:code", h.Detail)

	kanal := e.Group("/kanal")
	kanal.GET("", h.Categories)
	kanal.GET("/category-news", h.CategoryTree)
	kanal.GET("/detail/:slug", h.CategoryBySlug)

	fokus := e.Group("/fokus")
	fokus.GET("", h.Focuses)
	fokus.GET("/:id", h.FocusDetail)
	fokus.GET("/detail/:id", h.FocusDetail)

	e.GET("/network/:slug", h.Network)
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, Response{Success: false, Error: msg})
}

// respondError maps engine errors to status codes. Store failures are logged
// with the request logger and hidden from the client; transient ones answer
// 503 so the client knows a retry may succeed.
func (h *Handler) respondError(c echo.Context, err error) error {
	var ve *resolver.ValidationError
	if errors.As(err, &ve) {
		return fail(c, http.StatusBadRequest, ve.Error())
	}

	logger.FromEcho(c, h.logger).Error("content resolution failed",
		zap.String("path", c.Path()),
		zap.Error(err),
	)

	var se *store.Error
	if errors.As(err, &se) && se.Retryable() {
		c.Response().Header().Set("Retry-After", retryAfterSeconds)
		return fail(c, http.StatusServiceUnavailable, "temporarily unavailable")
	}
	return fail(c, http.StatusInternalServerError, "internal error")
}

const retryAfterSeconds = "1"

type badParam struct {
	name string
}

func (b *badParam) Error() string {
	return "invalid " + b.name
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &badParam{name: name}
	}
	return n, nil
}

func queryInt64(c echo.Context, name string, def int64) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &badParam{name: name}
	}
	return n, nil
}

func paramInt64(c echo.Context, name string) (int64, error) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, &badParam{name: name}
	}
	return n, nil
}

// paging reads page, limit and networkId.
type paging struct {
	tenant resolver.Tenant
	page   int
	limit  int
}

func (h *Handler) paging(c echo.Context) (paging, error) {
	page, err := queryInt(c, "page", h.defaults.Page)
	if err != nil {
		return paging{}, err
	}
	limit, err := queryInt(c, "limit", h.defaults.Limit)
	if err != nil {
		return paging{}, err
	}
	networkID, err := queryInt64(c, "networkId", h.defaults.NetworkID)
	if err != nil {
		return paging{}, err
	}
	return paging{tenant: resolver.Tenant{ID: networkID}, page: page, limit: limit}, nil
}

// tenantBySlug resolves networkSlug. A nil tenant means the network does not exist.
func (h *Handler) tenantBySlug(c echo.Context) (*resolver.Tenant, error) {
	slug := c.QueryParam("networkSlug")
	if slug == "" {
		slug = h.defaults.NetworkSlug
	}

	t, err := h.engine.Tenant(c.Request().Context(), slug)
	if err != nil || t == nil {
		return nil, err
	}
	return &resolver.Tenant{ID: t.ID, Slug: t.Slug}, nil
}
