package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireAdmin gates a route to admin users. Must run after RequireUser.
func (m *Middleware) RequireAdmin() fiber.Handler {
	log := m.log.Function("RequireAdmin")

	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			log.Info("user not found in context")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
				"kind":  "AuthRequired",
			})
		}

		if !user.IsAdmin() {
			log.Info("user is not admin", "subject", user.Subject)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
				"kind":  "PermissionDenied",
			})
		}

		return c.Next()
	}
}
