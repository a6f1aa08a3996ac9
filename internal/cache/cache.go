// package cache provides the shared rate-limit cache used to circuit-break
// flaky provider endpoints.
//
// Endpoints observed returning rate-limit signatures are marked ineligible for
// a bounded window. The cache is an explicitly-owned instance injected into
// whatever orchestrates provider fallback; there is no package-level state.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultCapacity bounds the number of tracked endpoints.
	DefaultCapacity = 50
	// DefaultTTL is how long an endpoint stays ineligible after a rate-limit
	// signature.
	DefaultTTL = 12 * time.Hour
)

// RateLimits is a bounded, time-expiring set of rate-limited endpoint
// identifiers. Entries evict least-recently-used at capacity and self-expire
// after the TTL. Safe for concurrent use.
type RateLimits struct {
	entries *expirable.LRU[string, time.Time]
}

// NewRateLimits creates a RateLimits cache with the given capacity and entry TTL.
// Non-positive values fall back to the defaults.
func NewRateLimits(capacity int, ttl time.Duration) *RateLimits {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RateLimits{entries: expirable.NewLRU[string, time.Time](capacity, nil, ttl)}
}

// MarkLimited records that the endpoint returned a rate-limit signature,
// making it ineligible until the entry expires.
func (r *RateLimits) MarkLimited(endpoint string) {
	r.entries.Add(endpoint, time.Now())
}

// IsLimited reports whether the endpoint is currently marked rate-limited.
func (r *RateLimits) IsLimited(endpoint string) bool {
	_, ok := r.entries.Get(endpoint)
	return ok
}

// Len returns the number of endpoints currently tracked.
func (r *RateLimits) Len() int {
	return r.entries.Len()
}

// Reset clears all entries.
func (r *RateLimits) Reset() {
	r.entries.Purge()
}
