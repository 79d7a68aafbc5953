package rest

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/server/auth"
)

func (s *Server) requestLog(c *fiber.Ctx) error {
	start := time.Now()
	reqID := uuid.NewString()
	c.Set("X-Request-ID", reqID)

	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = statusFor(err)
	}
	s.logger.Info(c.UserContext(), "HTTP request",
		"request_id", reqID,
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration", time.Since(start),
	)
	return err
}

const principalKey = "principal"

// authorize requires a bearer token and, unless role is zero, that role.
func (s *Server) authorize(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}
		p, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			return err
		}
		if role != 0 && p.Role != role {
			return fiber.NewError(fiber.StatusForbidden, fmt.Sprintf("%s may not call %s %s", p.Role, c.Method(), c.Route().Path))
		}
		c.Locals(principalKey, p)
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// actor resolves the acting user of a mutation from the token. A request
// naming somebody else is refused; zero means the caller.
func actor(c *fiber.Ctx, requested int64) (int64, error) {
	p, ok := c.Locals(principalKey).(auth.Principal)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "no principal")
	}
	if requested != 0 && requested != p.UserID {
		return 0, fiber.NewError(fiber.StatusForbidden, "actor does not match token")
	}
	return p.UserID, nil
}
