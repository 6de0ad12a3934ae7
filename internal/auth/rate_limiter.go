package auth

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultMaxAttempts = 5
	DefaultWindow      = 15 * time.Minute
	cleanupInterval    = 5 * time.Minute
)

type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// CheckResult is the outcome of a single check-and-consume call.
type CheckResult struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimiter is a fixed-window, in-memory attempt counter keyed by client
// identifier. Counters are process local and reset on restart. A client can
// burst up to 2x the limit across a window boundary; with a single shared
// admin password behind it, that tradeoff is fine.
type RateLimiter struct {
	mutex   sync.Mutex
	entries map[string]*rateLimitEntry
	// ability to inject the clock (for unit testing window expiry)
	NowFunc func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		entries: make(map[string]*rateLimitEntry),
		NowFunc: time.Now,
	}
}

// CheckAndConsume records one attempt for the identifier and reports whether
// it is still within budget. It cannot fail; unidentifiable clients all fall
// under the same identifier.
func (rl *RateLimiter) CheckAndConsume(identifier string, maxRequests int, window time.Duration) CheckResult {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.NowFunc()

	entry, ok := rl.entries[identifier]
	if !ok || !entry.resetAt.After(now) {
		entry = &rateLimitEntry{
			count:   1,
			resetAt: now.Add(window),
		}
		rl.entries[identifier] = entry
		return CheckResult{
			Allowed:   true,
			Remaining: maxRequests - 1,
			ResetAt:   entry.resetAt,
		}
	}

	entry.count++

	remaining := maxRequests - entry.count
	if remaining < 0 {
		remaining = 0
	}

	return CheckResult{
		Allowed:   entry.count <= maxRequests,
		Remaining: remaining,
		ResetAt:   entry.resetAt,
	}
}

// StartCleanup launches the periodic sweep of expired entries, stopping when
// ctx is cancelled. Best-effort housekeeping: expired entries are also
// replaced lazily on next access.
func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Debugln("rate limiter cleanup stopped")
				return
			case <-ticker.C:
				rl.cleanupExpired()
			}
		}
	}()
}

func (rl *RateLimiter) cleanupExpired() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.NowFunc()
	var removed int
	for identifier, entry := range rl.entries {
		if !entry.resetAt.After(now) {
			delete(rl.entries, identifier)
			removed++
		}
	}

	if removed > 0 {
		log.Debugf("rate limiter cleanup: removed %d expired entries", removed)
	}
}

// Size returns the number of tracked identifiers.
func (rl *RateLimiter) Size() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.entries)
}
