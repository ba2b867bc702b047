package api

import (
	"strings"

	"github.com/example/task-api/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const (
	// OwnerContextKey is the key used to store the resolved owner
	// identity in the Fiber context. Handlers read the owner from here
	// and never from the request body or path.
	OwnerContextKey = "ownerID"
)

// AuthMiddleware creates a middleware that resolves the bearer token to an
// owner identity, short-circuiting with 401 on any failure. The scheme is
// matched case-insensitively per RFC 7235.
func AuthMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Message: "authorization header is required",
			})
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Message: "invalid authorization header format, use: Bearer <token>",
			})
		}

		token = strings.TrimSpace(token)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Message: "token is required",
			})
		}

		ownerID, err := authPort.VerifyToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Message: "invalid or expired token",
			})
		}

		c.Locals(OwnerContextKey, ownerID)
		return c.Next()
	}
}

// ownerID returns the owner identity resolved by AuthMiddleware.
func ownerID(c *fiber.Ctx) string {
	owner, _ := c.Locals(OwnerContextKey).(string)
	return owner
}
