package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"task-assignment.com/task-assignment/internal/logging"
)

type window struct {
	count int
	start time.Time
}

// fixedWindowLimiter counts requests per client IP in fixed windows.
type fixedWindowLimiter struct {
	limit  int
	length time.Duration
	now    func() time.Time

	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

func newFixedWindowLimiter(limit int, length time.Duration) *fixedWindowLimiter {
	return &fixedWindowLimiter{
		limit:   limit,
		length:  length,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// allow records a request from key. When the key is over its limit it
// returns false and how long until the window resets.
func (l *fixedWindowLimiter) allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.length {
		for k, w := range l.windows {
			if now.Sub(w.start) > l.length {
				delete(l.windows, k)
			}
		}
		l.lastSweep = now
	}

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) > l.length {
		w = &window{start: now}
		l.windows[key] = w
	}

	if w.count >= l.limit {
		return false, w.start.Add(l.length).Sub(now)
	}
	w.count++
	return true, 0
}

func RateLimiter(limit int, length time.Duration) echo.MiddlewareFunc {
	return rateLimiter(newFixedWindowLimiter(limit, length))
}

func rateLimiter(l *fixedWindowLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			ok, retryAfter := l.allow(ip)
			if !ok {
				seconds := int(retryAfter.Seconds()) + 1
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				logging.Logger.WithField("ip", ip).Debug("rate limit exceeded")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
