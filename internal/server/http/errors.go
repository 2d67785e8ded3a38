package http

import (
	"errors"

	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// statusFor maps a service error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, common.ErrDeadlineExpired):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, common.ErrorAlreadyExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// handleError writes every error as {message}. Internal details are logged,
// never returned.
func (s *HTTPServer) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed", "path", c.Path(), "error", err)
	}
	msg := common.PublicMessage(err, utils.StatusMessage(code))
	return c.Status(code).JSON(fiber.Map{"message": msg})
}
