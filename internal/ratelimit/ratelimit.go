// Package ratelimit provides per-key token buckets on top of
// golang.org/x/time/rate. Keys here are client IPs hitting the credential
// routes; the map stays small, so no eviction is performed.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Keyed hands out an independent token bucket per key.
type Keyed struct {
	mu      sync.RWMutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// New creates a keyed limiter allowing rps requests per second with the
// given burst per key.
func New(rps float64, burst int) *Keyed {
	return &Keyed{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

// Allow reports whether a request for the key may proceed right now.
func (k *Keyed) Allow(key string) bool {
	return k.bucket(key).Allow()
}

// Wait blocks until a request for the key may proceed or ctx is done.
func (k *Keyed) Wait(ctx context.Context, key string) error {
	return k.bucket(key).Wait(ctx)
}

func (k *Keyed) bucket(key string) *rate.Limiter {
	k.mu.RLock()
	b, ok := k.buckets[key]
	k.mu.RUnlock()
	if ok {
		return b
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if b, ok = k.buckets[key]; ok {
		return b
	}
	b = rate.NewLimiter(k.limit, k.burst)
	k.buckets[key] = b
	return b
}
