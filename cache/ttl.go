package cache

import (
	"math/rand/v2"
	"time"
)

// TTLPolicy yields the lifetime of each cache write: a fixed base plus a
// uniformly drawn jitter in [0, MaxJitter]. Spreading expiry keeps keys that
// were populated together from expiring (and being recomputed) together.
type TTLPolicy struct {
	Base      time.Duration
	MaxJitter time.Duration

	// jitter draws a value in [0, n); nil uses math/rand/v2.
	jitter func(n int64) int64
}

// NewTTLPolicy returns a policy with the given base and maximum jitter.
func NewTTLPolicy(base, maxJitter time.Duration) TTLPolicy {
	return TTLPolicy{Base: base, MaxJitter: maxJitter}
}

// Next draws the TTL for a single write.
func (p TTLPolicy) Next() time.Duration {
	if p.MaxJitter <= 0 {
		return p.Base
	}

	draw := p.jitter
	if draw == nil {
		draw = rand.Int64N
	}
	return p.Base + time.Duration(draw(int64(p.MaxJitter)+1))
}

// Max is the longest TTL the policy can produce.
func (p TTLPolicy) Max() time.Duration {
	if p.MaxJitter <= 0 {
		return p.Base
	}
	return p.Base + p.MaxJitter
}
