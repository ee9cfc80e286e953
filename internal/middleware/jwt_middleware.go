package middleware

import (
	"strings"

	"foodgram/internal/models"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const userKey = "user"

// AuthRequired rejects requests without a valid "Token <t>" or "Bearer <t>"
// Authorization header and stores the caller for later handlers.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authentication credentials were not provided.",
			})
		}

		tokenString, ok := parseHeader(authHeader)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authorization header format must be 'Token <token>' or 'Bearer <token>'",
			})
		}

		user, err := authService.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("token rejected")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid or expired token",
			})
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := parseHeader(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Next()
		}
		user, err := authService.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("ignoring invalid token on public route")
			return c.Next()
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the authenticated caller, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func parseHeader(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || (scheme != "Bearer" && scheme != "Token") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
