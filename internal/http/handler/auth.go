package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/auth"
	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Login authenticates by email and password and issues a signed token. The
// token is returned in the body and also set as a cookie for browser flows.
func Login(svc service.UserService, issuer *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		}

		user, err := svc.Authenticate(c.UserContext(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCredentials):
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "These credentials do not match our records.")
			case errors.Is(err, service.ErrAccountInactive):
				return writeError(c, fiber.StatusForbidden, "ACCOUNT_INACTIVE", "Your account is inactive.")
			default:
				return writeServiceError(c, err)
			}
		}

		token, err := issuer.Sign(user)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Cookie(&fiber.Cookie{
			Name:     middleware.TokenCookie,
			Value:    token,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Expires:  time.Now().Add(issuer.TTL()),
		})

		return c.JSON(fiber.Map{
			"token": token,
			"user":  user,
		})
	}
}

// Logout clears the token cookie.
func Logout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     middleware.TokenCookie,
			Value:    "",
			HTTPOnly: true,
			Expires:  time.Now().Add(-time.Hour),
		})
		return c.JSON(fiber.Map{"message": "Logged out."})
	}
}
