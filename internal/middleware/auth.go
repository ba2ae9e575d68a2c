package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// userIDKey is the Locals key under which the authenticated user ID is stored.
const userIDKey = "userID"

// TokenVerifier resolves a bearer token to a user ID.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

func extractToken(c fiber.Ctx) string {
	if h := c.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return c.Cookies("access_token")
}

// RequireAuth rejects requests without a valid token and stores the user ID
// in Locals for handlers.
func RequireAuth(verifier TokenVerifier) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		}
		userID, err := verifier.VerifyToken(token)
		if err != nil {
			return ErrorResponse(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		}
		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// OptionalAuth stores the user ID when a valid token is present and lets the
// request through either way. Used on read endpoints whose response varies
// for the owner.
func OptionalAuth(verifier TokenVerifier) fiber.Handler {
	return func(c fiber.Ctx) error {
		if token := extractToken(c); token != "" {
			if userID, err := verifier.VerifyToken(token); err == nil {
				c.Locals(userIDKey, userID)
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated user ID, or "" for anonymous requests.
func UserID(c fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
