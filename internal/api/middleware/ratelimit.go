package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/portalcliente/portal-api/internal/api/metrics"
)

const (
	limiterMaxAge  = 10 * time.Minute
	msgRateLimited = "Muitas tentativas. Aguarde um instante e tente novamente."
)

// RateLimiter keeps one token bucket per key and forgets keys idle for
// longer than limiterMaxAge.
type RateLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu    sync.Mutex
	store map[string]*limiterEntry
}

type limiterEntry struct {
	limiter *rate.Limiter
	updated time.Time
}

func NewRateLimiter(reqPerSec float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit: rate.Limit(reqPerSec),
		burst: burst,
		now:   time.Now,
		store: make(map[string]*limiterEntry),
	}
}

func (r *RateLimiter) get(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if entry, ok := r.store[key]; ok {
		entry.updated = now
		return entry.limiter
	}

	lim := rate.NewLimiter(r.limit, r.burst)
	r.store[key] = &limiterEntry{limiter: lim, updated: now}

	for k, entry := range r.store {
		if now.Sub(entry.updated) > limiterMaxAge {
			delete(r.store, k)
		}
	}
	return lim
}

// Allow reports whether one more event for key fits in its bucket.
func (r *RateLimiter) Allow(key string) bool {
	return r.get(key).AllowN(r.now(), 1)
}

// IPRateLimit limits each client IP per route. Used on the unauthenticated
// auth endpoints.
func IPRateLimit(limiter *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow(c.Path() + "|" + c.RealIP()) {
				metrics.RateLimitedTotal.WithLabelValues(c.Path()).Inc()
				c.Response().Header().Set("Retry-After", "1")
				return echo.NewHTTPError(http.StatusTooManyRequests, msgRateLimited)
			}
			return next(c)
		}
	}
}
