// Package views records article reads. Recording never blocks and never
// fails the caller: the counter update runs as a detached task and its
// outcome is only logged and counted.
package views

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/goliatone/go-newsnet/detach"
	"github.com/goliatone/go-newsnet/store"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Outcomes reported for each Record call.
const (
	OutcomeApplied  = "applied"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
	OutcomeDropped  = "dropped"
	OutcomeLimited  = "limited"
)

// TaskName identifies view increments in executor logs.
const TaskName = "views.increment"

// Submitter runs a task off the calling goroutine.
type Submitter interface {
	Submit(name string, task detach.Task) (string, error)
}

// Reporter receives one outcome per recorded view.
type Reporter interface {
	ViewOutcome(outcome string)
}

type nopReporter struct{}

func (nopReporter) ViewOutcome(string) {}

// Config controls the increment size and write throughput.
type Config struct {
	// MaxIncrement is the upper bound N of the random 1..N increment.
	MaxIncrement int64

	// RatePerSecond caps increments dispatched per second; 0 means unlimited.
	RatePerSecond float64
	Burst         int
}

// DefaultConfig returns N = 800 and no rate limit.
func DefaultConfig() Config {
	return Config{MaxIncrement: 800}
}

// Stats is a snapshot of the accountant's counters.
type Stats struct {
	Recorded int64
	Applied  int64
	NotFound int64
	Failed   int64
	Dropped  int64
}

// Option customizes an Accountant.
type Option func(*Accountant)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Accountant) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithReporter sets the outcome reporter.
func WithReporter(r Reporter) Option {
	return func(a *Accountant) {
		if r != nil {
			a.reporter = r
		}
	}
}

// WithDraw replaces the random source; draw(n) must return a value in [0, n).
func WithDraw(draw func(n int64) int64) Option {
	return func(a *Accountant) {
		if draw != nil {
			a.draw = draw
		}
	}
}

// Accountant adds a random amount to an article's view counter per read.
type Accountant struct {
	gateway  store.Gateway
	exec     Submitter
	max      int64
	limiter  *rate.Limiter
	draw     func(n int64) int64
	logger   *zap.Logger
	reporter Reporter

	recorded *xsync.Counter
	applied  *xsync.Counter
	notFound *xsync.Counter
	failed   *xsync.Counter
	dropped  *xsync.Counter
}

// NewAccountant creates an Accountant writing through gateway on exec.
func NewAccountant(gateway store.Gateway, exec Submitter, cfg Config, opts ...Option) *Accountant {
	if cfg.MaxIncrement <= 0 {
		cfg.MaxIncrement = DefaultConfig().MaxIncrement
	}

	limit := rate.Inf
	burst := cfg.Burst
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
		if burst <= 0 {
			burst = max(1, int(cfg.RatePerSecond))
		}
	}
	if burst <= 0 {
		burst = 1
	}

	a := &Accountant{
		gateway:  gateway,
		exec:     exec,
		max:      cfg.MaxIncrement,
		limiter:  rate.NewLimiter(limit, burst),
		draw:     rand.Int64N,
		logger:   zap.NewNop(),
		reporter: nopReporter{},
		recorded: xsync.NewCounter(),
		applied:  xsync.NewCounter(),
		notFound: xsync.NewCounter(),
		failed:   xsync.NewCounter(),
		dropped:  xsync.NewCounter(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Record dispatches one increment for the article with the given code and
// returns immediately.
func (a *Accountant) Record(code string) {
	a.recorded.Inc()

	if !a.limiter.Allow() {
		a.dropped.Inc()
		a.reporter.ViewOutcome(OutcomeLimited)
		a.logger.Debug("view increment rate limited", zap.String("code", code))
		return
	}

	by := a.draw(a.max) + 1
	_, err := a.exec.Submit(TaskName, func(ctx context.Context) error {
		return a.apply(ctx, code, by)
	})
	if err != nil {
		a.dropped.Inc()
		a.reporter.ViewOutcome(OutcomeDropped)
		a.logger.Warn("view increment not dispatched", zap.String("code", code), zap.Error(err))
	}
}

func (a *Accountant) apply(ctx context.Context, code string, by int64) error {
	err := a.gateway.Increment(ctx, store.Increment{
		Table:     "news",
		Column:    "views",
		KeyColumn: "is_code",
		Key:       code,
		By:        by,
	})

	switch {
	case err == nil:
		a.applied.Inc()
		a.reporter.ViewOutcome(OutcomeApplied)
	case errors.Is(err, store.ErrNotFound):
		a.notFound.Inc()
		a.reporter.ViewOutcome(OutcomeNotFound)
	default:
		a.failed.Inc()
		a.reporter.ViewOutcome(OutcomeFailed)
	}
	return err
}

// Stats returns the current counter values.
func (a *Accountant) Stats() Stats {
	return Stats{
		Recorded: a.recorded.Value(),
		Applied:  a.applied.Value(),
		NotFound: a.notFound.Value(),
		Failed:   a.failed.Value(),
		Dropped:  a.dropped.Value(),
	}
}
