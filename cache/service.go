package cache

import (
	"context"
	"time"
)

// FetchFn is the function signature GetOrFetch expects when loading from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService is the capacity- and time-bounded key/value store the resolver reads through.
// Stored values are treated as immutable; a write replaces the whole entry.
type CacheService interface {
	Get(ctx context.Context, key string) (any, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Observer is notified about cache outcomes. Implementations must be safe for concurrent use.
type Observer interface {
	CacheHit(op string)
	CacheMiss(op string)
	CacheError(op, key string, err error)
}

type nopObserver struct{}

func (nopObserver) CacheHit(string) {}

func (nopObserver) CacheMiss(string) {}

func (nopObserver) CacheError(string, string, error) {}

// ReadThrough couples a CacheService with the TTL policy applied on every write.
// Backend failures are reported to the observer and otherwise ignored: a broken
// cache only costs latency, never a response.
type ReadThrough struct {
	service  CacheService
	policy   TTLPolicy
	observer Observer
}

// NewReadThrough creates a ReadThrough. A nil observer discards notifications.
func NewReadThrough(service CacheService, policy TTLPolicy, observer Observer) *ReadThrough {
	if observer == nil {
		observer = nopObserver{}
	}
	return &ReadThrough{service: service, policy: policy, observer: observer}
}

// Lookup returns the cached value for key, reporting a hit or a miss for op.
func (r *ReadThrough) Lookup(ctx context.Context, op, key string) (any, bool) {
	value, ok, err := r.service.Get(ctx, key)
	if err != nil {
		r.observer.CacheError(op, key, err)
		ok = false
	}
	if ok {
		r.observer.CacheHit(op)
		return value, true
	}
	r.observer.CacheMiss(op)
	return nil, false
}

// Store writes value under key with a freshly drawn TTL.
func (r *ReadThrough) Store(ctx context.Context, op, key string, value any) {
	if err := r.service.Set(ctx, key, value, r.policy.Next()); err != nil {
		r.observer.CacheError(op, key, err)
	}
}

// Forget removes the entry stored under key.
func (r *ReadThrough) Forget(ctx context.Context, key string) error {
	return r.service.Delete(ctx, key)
}

// Invalidate removes every entry whose key starts with prefix.
func (r *ReadThrough) Invalidate(ctx context.Context, prefix string) error {
	return r.service.DeleteByPrefix(ctx, prefix)
}

// GetOrFetch returns the cached value for key or loads it with fetchFn and caches it.
// Concurrent misses on the same key are not coalesced; each caller runs fetchFn and
// the last write wins. Errors from fetchFn are returned and never cached.
func GetOrFetch[T any](ctx context.Context, r *ReadThrough, op, key string, fetchFn FetchFn[T]) (T, error) {
	if cached, ok := r.Lookup(ctx, op, key); ok {
		if typed, ok := cached.(T); ok {
			return typed, nil
		}
	}

	value, err := fetchFn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	r.Store(ctx, op, key, value)
	return value, nil
}
