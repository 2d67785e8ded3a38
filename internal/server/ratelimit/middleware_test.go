package ratelimit

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLimiter allows the first n calls per key.
type countingLimiter struct {
	n    int
	seen map[string]int
	err  error
}

func (l *countingLimiter) Allow(_ context.Context, key string) (*Result, error) {
	if l.err != nil {
		return nil, l.err
	}
	if l.seen == nil {
		l.seen = map[string]int{}
	}
	l.seen[key]++
	if l.seen[key] > l.n {
		return &Result{Limit: l.n, RetryAfter: 2500 * time.Millisecond, ResetAt: time.Now()}, nil
	}
	return &Result{Allowed: true, Limit: l.n, Remaining: l.n - l.seen[key], ResetAt: time.Now()}, nil
}

func newApp(l Limiter) *fiber.App {
	app := fiber.New()
	mw := Middleware(l, logging.Nop{})
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Post("/api/auth/login", mw, ok)
	app.Post("/api/auth/signup", mw, ok)
	return app
}

func TestMiddleware_BlocksOverLimit(t *testing.T) {
	l := &countingLimiter{n: 2}
	app := newApp(l)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/api/auth/login", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/api/auth/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "3", resp.Header.Get("Retry-After"))

	resp, err = app.Test(httptest.NewRequest("POST", "/api/auth/signup", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "each route has its own budget")
	assert.Len(t, l.seen, 2)
}

func TestMiddleware_FailsOpen(t *testing.T) {
	app := newApp(&countingLimiter{err: errors.New("redis down")})

	resp, err := app.Test(httptest.NewRequest("POST", "/api/auth/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
