package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_BlocksAfterLimitAndResets(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	l := newFixedWindowLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	e := echo.New()
	e.Use(rateLimiter(l))
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	call := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := call("10.0.0.1"); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, rec.Code)
		}
	}

	rec := call("10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected a Retry-After header")
	}

	if rec := call("10.0.0.2"); rec.Code != http.StatusNoContent {
		t.Errorf("other clients must not be limited, got %d", rec.Code)
	}

	now = now.Add(61 * time.Second)
	if rec := call("10.0.0.1"); rec.Code != http.StatusNoContent {
		t.Errorf("expected the window to reset, got %d", rec.Code)
	}
}
