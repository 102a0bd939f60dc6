package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/services"
)

// UserIDKey is the fiber.Ctx locals key holding the authenticated user's ID.
const UserIDKey = "userID"

// AuthRequired is a Fiber middleware that checks for a valid access token in
// the Authorization header. Refresh tokens are rejected.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authorization header is required",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ParseAccessToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid or expired token",
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}
