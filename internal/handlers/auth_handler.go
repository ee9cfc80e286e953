package handlers

import (
	"foodgram/internal/domain"
	"foodgram/internal/middleware"
	"foodgram/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles token login and logout.
type AuthHandler struct {
	authService *services.AuthService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validate,
	}
}

// RegisterRoutes mounts the token endpoints under /auth/token.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	auth := router.Group("/auth/token")
	auth.Post("/login", h.HandleLogin)
	auth.Post("/logout", guards.Required, h.HandleLogout)
}

// HandleLogin exchanges email and password for an auth token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req domain.LoginRequest
	if err := decodeBody(c, h.validator, &req); err != nil {
		return respondError(c, err)
	}

	token, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		log.Warn().Str("email", req.Email).Msg("login rejected")
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"auth_token": token})
}

// HandleLogout acknowledges the logout. Tokens are stateless and simply
// expire; clients drop theirs.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if user := middleware.CurrentUser(c); user != nil {
		log.Info().Uint("user_id", user.ID).Msg("user logged out")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
