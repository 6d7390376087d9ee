package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/memorylane/internal/server/access"
	"github.com/dmitrijs2005/memorylane/internal/server/auth"
)

const actorKey = "actor"

// requireAuth verifies the bearer token and stashes the acting identity in
// the request locals. Missing or invalid tokens never reach a handler.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return unauthorized(c)
	}

	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return unauthorized(c)
	}

	c.Locals(actorKey, access.Actor{UserID: userID})
	return c.Next()
}

// actorFromCtx returns the identity requireAuth stored, or Anonymous on
// routes that never passed through it.
func actorFromCtx(c *fiber.Ctx) access.Actor {
	if a, ok := c.Locals(actorKey).(access.Actor); ok {
		return a
	}
	return access.Anonymous
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Message: "unauthorized"})
}
