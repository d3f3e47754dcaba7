package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitor holds a single rate limiter and the last time it was seen.
// Used to opportunistically evict idle buckets.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// accountLimiter implements a per-account token-bucket rate limiter for
// command handling, keeping a runaway client (or a forwarded command storm)
// from hammering the store.
//
// Buckets are created on demand and stored in an internal map guarded by a
// mutex. Idle buckets are evicted after a TTL via opportunistic cleanup
// during lookups to keep memory usage bounded. The limiter is process-local,
// which is exactly the deployment model of the bot.
type accountLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[int64]*visitor

	ttl      time.Duration
	cleanupN uint64
}

// newAccountLimiter constructs a limiter with the given tokens-per-second
// and burst size. rps <= 0 disables limiting; burst values <= 0 are coerced
// to 1.
func newAccountLimiter(rps float64, burst int) *accountLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &accountLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: make(map[int64]*visitor),
		ttl:      10 * time.Minute, // evict idle entries after TTL
	}
}

// Allow reports whether the account may run another command right now.
func (l *accountLimiter) Allow(userID int64) bool {
	if l.rps <= 0 {
		return true
	}
	return l.getVisitor(userID).Allow()
}

// getVisitor returns (and updates) the limiter for userID, creating it if
// absent. It also performs opportunistic GC of idle entries after ~5000
// lookups, before touching the requested visitor so an old bucket can be
// evicted even when it is the one being fetched.
func (l *accountLimiter) getVisitor(userID int64) *rate.Limiter {
	now := time.Now()

	l.mu.Lock()
	l.cleanupN++
	if l.cleanupN >= 5000 {
		for k, vv := range l.visitors {
			if now.Sub(vv.lastSeen) >= l.ttl {
				delete(l.visitors, k)
			}
		}
		l.cleanupN = 0
	}

	if v, ok := l.visitors[userID]; ok {
		v.lastSeen = now
		lim := v.limiter
		l.mu.Unlock()
		return lim
	}

	lim := rate.NewLimiter(l.rps, l.burst)
	l.visitors[userID] = &visitor{limiter: lim, lastSeen: now}
	l.mu.Unlock()
	return lim
}
