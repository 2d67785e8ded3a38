package ratelimit

import (
	"math"
	"strconv"

	"github.com/dmitrijs2005/tasklane/internal/logging"
	"github.com/gofiber/fiber/v2"
)

// Key identifies the caller of a route: client IP plus route path, so each
// guarded endpoint has its own budget.
func Key(c *fiber.Ctx) string {
	return c.IP() + ":" + c.Route().Path
}

// Middleware rejects requests over the limit with 429. When the limiter
// itself fails the request is let through and the failure logged.
func Middleware(l Limiter, log logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := l.Allow(c.UserContext(), Key(c))
		if err != nil {
			log.Warn(c.UserContext(), "rate limiter unavailable", "path", c.Path(), "error", err)
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if res.Allowed {
			return c.Next()
		}

		retry := int(math.Ceil(res.RetryAfter.Seconds()))
		if retry < 1 {
			retry = 1
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"message": "Too many requests, try again in " + strconv.Itoa(retry) + "s",
		})
	}
}
