package middleware

import (
	"context"
	"errors"
	"strings"

	"hypeshelf/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthContextKey is used to store auth info in context
type AuthContextKey string

const (
	UserKey          AuthContextKey = "user"
	UserKeyFiber     string         = "User"     // Fiber context key (string)
	IdentityKeyFiber string         = "Identity" // Fiber context key (string)
)

// bearerToken extracts the token from the Authorization header. Empty
// string when the header is missing or malformed.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
		return ""
	}

	return tokenParts[1]
}

// resolveIdentity validates the Bearer token and returns the verified
// identity, or nil when the request carries no usable token.
func (m *Middleware) resolveIdentity(c *fiber.Ctx) *models.Identity {
	log := m.log.TraceFromContext(c.UserContext()).Function("resolveIdentity")

	token := bearerToken(c)
	if token == "" {
		return nil
	}

	identity, err := m.clerkService.ResolveIdentity(c.UserContext(), token)
	if err != nil {
		log.Info("token validation failed", "error", err.Error())
		return nil
	}

	return identity
}

// RequireIdentity validates the Bearer ID token and stores the verified
// identity in the request context. It does not require the identity to
// be provisioned as a user.
func (m *Middleware) RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := m.resolveIdentity(c)
		if identity == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
				"kind":  "AuthRequired",
			})
		}

		c.Locals(IdentityKeyFiber, identity)
		return c.Next()
	}
}

// OptionalIdentity attaches a verified identity when a valid token is
// present and lets the request through either way. Handlers that serve
// both anonymous and authenticated callers use this.
func (m *Middleware) OptionalIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if identity := m.resolveIdentity(c); identity != nil {
			c.Locals(IdentityKeyFiber, identity)
		}
		return c.Next()
	}
}

// RequireUser validates the token and additionally loads the provisioned
// user. Identities that never called the provisioning endpoint are
// rejected.
func (m *Middleware) RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := m.log.TraceFromContext(c.UserContext()).Function("RequireUser")

		identity := m.resolveIdentity(c)
		if identity == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
				"kind":  "AuthRequired",
			})
		}
		c.Locals(IdentityKeyFiber, identity)

		user, err := m.userRepo.GetBySubject(c.UserContext(), identity.Subject)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Info("identity has no provisioned user", "subject", identity.Subject)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "User not provisioned",
					"kind":  "AuthRequired",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}

		c.Locals(UserKeyFiber, user)

		// Add to Go context for services (preserve trace ID from TraceID middleware)
		ctx := context.WithValue(c.UserContext(), UserKey, user)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// GetUser extracts the provisioned user from Fiber context
func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetIdentity extracts the verified identity from Fiber context
func GetIdentity(c *fiber.Ctx) *models.Identity {
	identity, ok := c.Locals(IdentityKeyFiber).(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}
