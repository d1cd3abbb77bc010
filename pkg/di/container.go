package di

import (
	"context"
	"errors"

	"github.com/goliatone/go-newsnet/cache"
	"github.com/goliatone/go-newsnet/detach"
	"github.com/goliatone/go-newsnet/internal/storeinfra"
	"github.com/goliatone/go-newsnet/pkg/config"
	"github.com/goliatone/go-newsnet/pkg/metrics"
	"github.com/goliatone/go-newsnet/resolver"
	"github.com/goliatone/go-newsnet/store"
	"github.com/goliatone/go-newsnet/views"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Container wires the process-wide singletons: the database pool, the store
// gateway, the result cache, metrics, the detached executor, view accounting
// and the resolution engine. Build it once per process and Close it on exit.
type Container struct {
	cfg        *config.Config
	logger     *zap.Logger
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	db         *bun.DB
	ownsDB     bool
	gateway    store.Gateway
	cache      cache.CacheService
	keys       cache.KeySerializer
	executor   *detach.Executor
	accountant *views.Accountant
	engine     *resolver.Engine
}

// Option customizes a Container.
type Option func(*Container)

// WithLogger sets the logger handed to every component.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDB uses an already opened database instead of opening one from the
// configuration. The container does not close a database it did not open.
func WithDB(db *bun.DB) Option {
	return func(c *Container) {
		c.db = db
	}
}

// WithRegistry registers metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *Container) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// NewContainer creates every component from cfg.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("di: nil config")
	}

	c := &Container{
		cfg:      cfg,
		logger:   zap.NewNop(),
		registry: prometheus.NewRegistry(),
		keys:     cache.NewDefaultKeySerializer(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.metrics = metrics.New(c.registry, cfg.Metrics.Namespace)

	cacheCfg := cache.Config{
		Capacity:           cfg.Cache.Capacity,
		NumShards:          cfg.Cache.NumShards,
		BaseTTL:            cfg.Cache.BaseTTL,
		MaxJitter:          cfg.Cache.MaxJitter,
		EvictionPercentage: cfg.Cache.EvictionPercentage,
		EvictionInterval:   cfg.Cache.EvictionInterval,
	}
	cacheService, err := cache.NewCacheService(cacheCfg)
	if err != nil {
		return nil, err
	}
	c.cache = cacheService

	if c.db == nil {
		db, err := storeinfra.Open(storeinfra.Config{
			Driver:          cfg.DB.Driver,
			DSN:             cfg.DB.DSN,
			MaxOpenConns:    cfg.DB.MaxOpenConns,
			MaxIdleConns:    cfg.DB.MaxIdleConns,
			ConnMaxIdleTime: cfg.DB.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		c.db = db
		c.ownsDB = true
	}
	c.gateway = storeinfra.NewGateway(c.db,
		storeinfra.WithQueryObserver(c.metrics),
		storeinfra.WithLogger(c.logger.Named("store")),
		storeinfra.WithSlowQuery(cfg.DB.SlowQuery),
	)

	c.executor = detach.New(detach.Config{
		Workers:   cfg.Views.Workers,
		QueueSize: cfg.Views.QueueSize,
		Timeout:   cfg.Views.Timeout,
	},
		detach.WithObserver(c.metrics),
		detach.WithLogger(c.logger.Named("detach")),
	)

	c.accountant = views.NewAccountant(c.gateway, c.executor, views.Config{
		MaxIncrement:  cfg.Views.MaxIncrement,
		RatePerSecond: cfg.Views.RatePerSecond,
	},
		views.WithLogger(c.logger.Named("views")),
		views.WithReporter(c.metrics),
	)

	c.engine = resolver.New(c.gateway,
		cache.NewReadThrough(c.cache, cacheCfg.TTLPolicy(), c.metrics),
		resolver.Config{
			SiteDomain:    cfg.Site.Domain,
			PopularWindow: cfg.Site.PopularWindow,
		},
		resolver.WithViews(c.accountant),
		resolver.WithFallbackObserver(c.metrics),
		resolver.WithKeySerializer(c.keys),
		resolver.WithLogger(c.logger.Named("resolver")),
	)

	return c, nil
}

// Engine returns the resolution engine.
func (c *Container) Engine() *resolver.Engine {
	return c.engine
}

// Accountant returns the view accountant.
func (c *Container) Accountant() *views.Accountant {
	return c.accountant
}

// Metrics returns the collectors.
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// Registry returns the registry the collectors are registered on.
func (c *Container) Registry() *prometheus.Registry {
	return c.registry
}

// CacheService returns the singleton cache service instance.
func (c *Container) CacheService() cache.CacheService {
	return c.cache
}

// KeySerializer returns the singleton key serializer instance.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keys
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the configuration the container was built from.
func (c *Container) Config() *config.Config {
	return c.cfg
}

// Ping checks that the store is reachable.
func (c *Container) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close drains pending view increments, then closes the database when the
// container opened it. Increments still queued when ctx ends are lost.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if err := c.executor.Close(ctx); err != nil {
		c.logger.Warn("detached tasks not drained", zap.Error(err))
		errs = append(errs, err)
	}
	if c.ownsDB {
		if err := c.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
