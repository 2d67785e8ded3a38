package http

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

const sessionKey = "session"

// Session is the verified identity attached to a request.
type Session struct {
	User  *models.User
	Token string
}

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// SessionFrom returns the session Authenticate attached to c.
func SessionFrom(c *fiber.Ctx) (*Session, bool) {
	s, ok := c.Locals(sessionKey).(*Session)
	return s, ok && s != nil && s.User != nil
}

// Authenticate requires "Authorization: Bearer <token>" and attaches the
// resolved user to the request.
func Authenticate(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, common.BearerScheme) {
			return common.Detail(common.ErrorUnauthorized, "Not authorized, no token")
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, common.BearerScheme))

		user, err := a.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(sessionKey, &Session{User: user, Token: token})
		return c.Next()
	}
}

// Authorize lets the request through only when the session user has role.
// It must run after Authenticate.
func Authorize(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, ok := SessionFrom(c)
		if !ok {
			return common.Detail(common.ErrorUnauthorized, "Not authorized")
		}
		if s.User.Role != role {
			return common.Detail(common.ErrorForbidden, "Access denied")
		}
		return c.Next()
	}
}

// accessLog logs one line per request after the error handler has written
// the response.
func (s *HTTPServer) accessLog(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.logger.Info(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"latency", time.Since(start),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
	)
	return nil
}
