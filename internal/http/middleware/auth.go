package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/auth"
	"docvault/internal/model"
)

const (
	// PrincipalIDKey is the context locals key holding the authenticated user's ID.
	PrincipalIDKey = "principal_id"
	// PrincipalRoleKey is the context locals key holding the authenticated user's role.
	PrincipalRoleKey = "principal_role"

	// TokenCookie is the cookie checked when no Authorization header is present.
	TokenCookie = "token"
)

// Authenticate verifies the bearer token (Authorization header or cookie)
// and stores the principal's id and role in context locals. Requests without
// a valid token get 401.
func Authenticate(issuer *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			raw = c.Cookies(TokenCookie)
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		claims, err := issuer.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(PrincipalIDKey, claims.UserID)
		c.Locals(PrincipalRoleKey, claims.Role)

		return c.Next()
	}
}

// RequireRole rejects with 403 unless the principal's role is one of the
// allowed roles. Must run after Authenticate.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(PrincipalRoleKey).(model.Role)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
