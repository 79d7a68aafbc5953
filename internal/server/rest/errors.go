package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/tripshare/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, common.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, common.ErrAuthentication),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, common.ErrSelfDemotion),
		errors.Is(err, common.ErrSelfDelete),
		errors.Is(err, common.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	msg := err.Error()
	if code == fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed", "path", c.Path(), "error", err)
		msg = "internal error"
	}
	return c.Status(code).JSON(errorResponse{Error: msg})
}
