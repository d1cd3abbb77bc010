// Package resolver answers every content read of a tenant site. Each
// operation derives a cache key from all of its inputs, reads through the
// cache, and on a miss runs the narrowest correct query first, widening to
// a fallback only when the previous step returned no rows.
package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-newsnet/cache"
	"github.com/goliatone/go-newsnet/projection"
	"github.com/goliatone/go-newsnet/store"
	"go.uber.org/zap"
)

// Tenant identifies the network site a request is resolved for. ID scopes
// every query; Slug is only used to render category URLs.
type Tenant struct {
	ID   int64
	Slug string
}

// ViewRecorder accounts one read of an article. Implementations must return
// without waiting for the write.
type ViewRecorder interface {
	Record(code string)
}

// FallbackObserver is told whenever a cascade moves past its primary query.
type FallbackObserver interface {
	Fallback(op string)
}

type nopViews struct{}

func (nopViews) Record(string) {}

type nopFallbacks struct{}

func (nopFallbacks) Fallback(string) {}

// Config holds the engine's policy knobs.
type Config struct {
	// SiteDomain is the parent domain of tenant sites, e.g. "times.co.id".
	SiteDomain string

	// PopularWindow is the trailing publish window of the primary popular query.
	PopularWindow time.Duration

	// MaxLimit caps the page size callers may ask for.
	MaxLimit int

	// TreeConcurrency bounds parallel news lookups when building a category tree.
	TreeConcurrency int
}

// DefaultConfig returns a 30 day popular window and pages of at most 100 items.
func DefaultConfig() Config {
	return Config{
		SiteDomain:      "times.co.id",
		PopularWindow:   30 * 24 * time.Hour,
		MaxLimit:        100,
		TreeConcurrency: 4,
	}
}

// Option customizes an Engine.
type Option func(*Engine)

// WithViews sets the recorder notified on every resolved detail.
func WithViews(v ViewRecorder) Option {
	return func(e *Engine) {
		if v != nil {
			e.views = v
		}
	}
}

// WithFallbackObserver sets the cascade observer.
func WithFallbackObserver(o FallbackObserver) Option {
	return func(e *Engine) {
		if o != nil {
			e.fallbacks = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock replaces time.Now for the popular window.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithKeySerializer replaces the default cache key format.
func WithKeySerializer(k cache.KeySerializer) Option {
	return func(e *Engine) {
		if k != nil {
			e.keys = k
		}
	}
}

// Engine is the resolution engine. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	gateway   store.Gateway
	cache     *cache.ReadThrough
	keys      cache.KeySerializer
	views     ViewRecorder
	fallbacks FallbackObserver
	logger    *zap.Logger
	now       func() time.Time
	cfg       Config
}

// New creates an Engine reading from gateway through rt.
func New(gateway store.Gateway, rt *cache.ReadThrough, cfg Config, opts ...Option) *Engine {
	def := DefaultConfig()
	if cfg.SiteDomain == "" {
		cfg.SiteDomain = def.SiteDomain
	}
	if cfg.PopularWindow <= 0 {
		cfg.PopularWindow = def.PopularWindow
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.TreeConcurrency <= 0 {
		cfg.TreeConcurrency = def.TreeConcurrency
	}

	e := &Engine{
		gateway:   gateway,
		cache:     rt,
		keys:      cache.NewDefaultKeySerializer(),
		views:     nopViews{},
		fallbacks: nopFallbacks{},
		logger:    zap.NewNop(),
		now:       time.Now,
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// tenantOps are the operations whose keys begin with the tenant segment.
var tenantOps = []string{
	OpListing, OpHeadline, OpPopular, OpByCategory, OpByFocus, OpSearch,
	OpCategories, OpCategory, OpCategoryTree, OpFocuses,
}

// Purge drops every cached result of the tenant. It relies on the default
// key layout, where the tenant segment follows the operation name.
// Correctness never depends on it; it only shortens staleness.
func (e *Engine) Purge(ctx context.Context, tenantID int64) error {
	for _, op := range tenantOps {
		// keys with no segment after the tenant carry no trailing separator
		if err := e.cache.Forget(ctx, e.keys.SerializeKey(op, cache.Tenant(tenantID))); err != nil {
			return fmt.Errorf("purge tenant %d: %w", tenantID, err)
		}
		if err := e.cache.Invalidate(ctx, cache.TenantPrefix(op, tenantID)); err != nil {
			return fmt.Errorf("purge tenant %d: %w", tenantID, err)
		}
	}

	e.logger.Info("tenant cache purged", zap.Int64("tenant_id", tenantID))
	return nil
}

// step is one query of a cascade.
type step struct {
	query string
	args  []any
}

// cascade runs steps in order and returns the first non-empty row set.
// An error stops the cascade; an empty final step yields an empty slice.
func (e *Engine) cascade(ctx context.Context, op string, steps ...step) ([]store.Row, error) {
	for i, s := range steps {
		if i > 0 {
			e.fallbacks.Fallback(op)
			e.logger.Debug("cascade fallback", zap.String("op", op), zap.Int("step", i))
		}

		rows, err := e.query(ctx, op, s.query, s.args...)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}
	return []store.Row{}, nil
}

func (e *Engine) query(ctx context.Context, op, query string, args ...any) ([]store.Row, error) {
	rows, err := e.gateway.Query(ctx, query, args...)
	if err != nil {
		e.logger.Error("store query failed", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

func (e *Engine) count(ctx context.Context, op, query string, args ...any) (int64, error) {
	total, err := e.gateway.Count(ctx, query, args...)
	if err != nil {
		e.logger.Error("store count failed", zap.String("op", op), zap.Error(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

func (e *Engine) site(t Tenant) projection.Site {
	return projection.Site{TenantSlug: t.Slug, Domain: e.cfg.SiteDomain}
}
