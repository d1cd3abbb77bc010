// Package cache provides the read-through cache used by the news resolver,
// together with its key format and TTL policy.
//
// # Overview
//
// This package exports three building blocks:
//
//   - CacheService: a key/value store with per-write TTL and prefix deletion
//   - KeySerializer: builds deterministic keys from an operation name and tagged segments
//   - TTLPolicy: a base lifetime plus uniform jitter, drawn on every write
//
// ReadThrough ties them together and GetOrFetch is the generic entry point:
//
//	rt := cache.NewReadThrough(service, cfg.TTLPolicy(), observer)
//	key := cache.NewDefaultKeySerializer().SerializeKey("news_all",
//		cache.Tenant(2), cache.Page(1), cache.Limit(10))
//	items, err := cache.GetOrFetch(ctx, rt, "news_all", key, func(ctx context.Context) ([]content.Item, error) {
//		return loadFromDB(ctx)
//	})
//
// # Key Format
//
// Keys are the operation name followed by tagged segments joined with "_",
// for example "news_by_cat_net2_p1_l10_cat5" or "news_detail_ABC123". Every
// parameter that changes the result must appear in the key. Free-form text
// goes through Text, which escapes the separator so two different inputs can
// never render to the same key.
//
// # Failure Semantics
//
// Cache errors never fail a read. They are reported to the Observer and the
// value is loaded from the source instead. Errors returned by the fetch
// function are propagated and never cached.
//
// The default CacheService is backed by sturdyc (see NewCacheService).
package cache
