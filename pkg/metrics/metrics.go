package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goliatone/go-newsnet/detach"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns every collector of the service. It satisfies the observer
// interfaces of the cache, the store, the resolver, view accounting and the
// detached executor.
type Metrics struct {
	cacheRequests *prometheus.CounterVec
	cacheErrors   *prometheus.CounterVec
	fallbacks     *prometheus.CounterVec
	dbDuration    *prometheus.HistogramVec
	dbErrors      *prometheus.CounterVec
	viewOutcomes  *prometheus.CounterVec
	taskFailures  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
}

// New registers the collectors on reg under namespace.
// Registering twice on the same registry panics.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		cacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "Cache lookups by operation and result",
			},
			[]string{"op", "result"},
		),
		cacheErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_errors_total",
				Help:      "Cache backend errors by operation",
			},
			[]string{"op"},
		),
		fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cascade_fallbacks_total",
				Help:      "Fallback queries issued after an empty primary result",
			},
			[]string{"op"},
		),
		dbDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_operation_duration_seconds",
				Help:      "Duration of database operations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		dbErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_errors_total",
				Help:      "Failed database operations",
			},
			[]string{"operation"},
		),
		viewOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "view_increments_total",
				Help:      "View increments by outcome",
			},
			[]string{"outcome"},
		),
		taskFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detached_task_failures_total",
				Help:      "Detached tasks that returned an error",
			},
			[]string{"task"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests",
			},
			[]string{"method", "path"},
		),
	}
}

// CacheHit implements cache.Observer.
func (m *Metrics) CacheHit(op string) {
	m.cacheRequests.WithLabelValues(op, "hit").Inc()
}

// CacheMiss implements cache.Observer.
func (m *Metrics) CacheMiss(op string) {
	m.cacheRequests.WithLabelValues(op, "miss").Inc()
}

// CacheError implements cache.Observer.
func (m *Metrics) CacheError(op, key string, err error) {
	m.cacheErrors.WithLabelValues(op).Inc()
}

// Fallback counts a cascade step past the primary query.
func (m *Metrics) Fallback(op string) {
	m.fallbacks.WithLabelValues(op).Inc()
}

// ObserveQuery implements storeinfra.QueryObserver.
func (m *Metrics) ObserveQuery(operation string, elapsed time.Duration, err error) {
	m.dbDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if err != nil {
		m.dbErrors.WithLabelValues(operation).Inc()
	}
}

// ViewOutcome implements views.Reporter.
func (m *Metrics) ViewOutcome(outcome string) {
	m.viewOutcomes.WithLabelValues(outcome).Inc()
}

// TaskFailed implements detach.Observer.
func (m *Metrics) TaskFailed(f detach.Failure) {
	m.taskFailures.WithLabelValues(f.Name).Inc()
}

// Middleware tracks request metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			m.httpRequests.With(prometheus.Labels{
				"method": c.Request().Method,
				"path":   c.Path(),
			}).Inc()

			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			m.httpDuration.With(prometheus.Labels{
				"method": c.Request().Method,
				"path":   c.Path(),
				"status": strconv.Itoa(status),
			}).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler serves the collectors gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
