/*
Package limiter provides token-bucket rate limiting keyed by an arbitrary string,
typically the client IP address.

Idle buckets (full again) are swept periodically so the key space does not grow without bound.
*/
package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"debatehub/internal/pkg/errs"
	"debatehub/internal/pkg/logx"
	"debatehub/internal/pkg/resp"
)

const sweepInterval = 3 * time.Minute

// KeyedLimiter holds one rate.Limiter per key.
type KeyedLimiter struct {
	mu     sync.Mutex
	limits map[string]*rate.Limiter

	r rate.Limit
	b int

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a KeyedLimiter allowing r events per second with burst b per key,
// and starts its sweeper goroutine. Call Stop to release it.
func New(r rate.Limit, b int) *KeyedLimiter {
	l := &KeyedLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
		stop:   make(chan struct{}),
	}

	go l.sweepLoop()

	return l
}

// Allow reports whether one event for key may happen now.
func (l *KeyedLimiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// Len returns the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limits)
}

// Stop terminates the sweeper goroutine. It is safe to call more than once.
func (l *KeyedLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *KeyedLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limits[key]
	if !ok {
		lim = rate.NewLimiter(l.r, l.b)
		l.limits[key] = lim
	}
	return lim
}

func (l *KeyedLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, remaining := l.sweep(time.Now())
			logx.Logger().Debug().
				Int("removed", removed).
				Int("remaining", remaining).
				Msg("Rate limiter sweep finished.")
		case <-l.stop:
			return
		}
	}
}

// sweep forgets keys whose bucket has refilled to burst capacity at now.
func (l *KeyedLimiter) sweep(now time.Time) (removed, remaining int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, lim := range l.limits {
		if lim.TokensAt(now) >= float64(lim.Burst()) {
			delete(l.limits, key)
			removed++
		}
	}
	return removed, len(l.limits)
}

// ClientIP extracts the host part of r.RemoteAddr.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if ip == "" {
		ip = "unknown_ip"
	}
	return ip
}

// Middleware rejects requests over the per-IP limit with 429 and ErrRateLimitExceeded.
func (l *KeyedLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		if !l.Allow(ip) {
			logx.Warn("Request rejected: rate limit exceeded.", "ip", ip, "path", r.URL.Path)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		next.ServeHTTP(w, r)
	})
}
