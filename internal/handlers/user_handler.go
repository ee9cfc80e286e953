package handlers

import (
	"foodgram/internal/domain"
	"foodgram/internal/middleware"
	"foodgram/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for users, subscriptions and avatars.
type UserHandler struct {
	authService *services.AuthService
	userService *services.UserService
	validator   *validator.Validate
	paginator   Paginator
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, userService *services.UserService, validate *validator.Validate, paginator Paginator) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		validator:   validate,
		paginator:   paginator,
	}
}

// RegisterRoutes mounts /users. Literal segments are registered before
// /:id so they are not captured by it.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	users := router.Group("/users")
	users.Get("/", guards.Optional, h.HandleList)
	users.Post("/", h.HandleRegister)
	users.Get("/me", guards.Required, h.HandleMe)
	users.Post("/set_password", guards.Required, h.HandleSetPassword)
	users.Get("/subscriptions", guards.Required, h.HandleSubscriptions)
	users.Get("/me/avatar", guards.Required, h.HandleGetAvatar)
	users.Put("/me/avatar", guards.Required, h.HandleSetAvatar)
	users.Delete("/me/avatar", guards.Required, h.HandleDeleteAvatar)
	users.Get("/:id", guards.Optional, h.HandleProfile)
	users.Post("/:id/subscribe", guards.Required, h.HandleSubscribe)
	users.Delete("/:id/subscribe", guards.Required, h.HandleUnsubscribe)
}

// HandleRegister creates a new account.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req domain.RegisterRequest
	if err := decodeBody(c, h.validator, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(domain.UserCreatedResponse{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// HandleList retrieves one page of users.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	page := h.paginator.Page(c)
	users, count, err := h.userService.List(c.UserContext(), middleware.CurrentUser(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.paginator.Envelope(c, page, count, users))
}

// HandleMe retrieves the caller's profile.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(h.userService.Me(middleware.CurrentUser(c)))
}

// HandleProfile retrieves a single user.
func (h *UserHandler) HandleProfile(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	profile, err := h.userService.Profile(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// HandleSetPassword changes the caller's password.
func (h *UserHandler) HandleSetPassword(c *fiber.Ctx) error {
	var req domain.SetPasswordRequest
	if err := decodeBody(c, h.validator, &req); err != nil {
		return respondError(c, err)
	}
	if err := h.authService.SetPassword(c.UserContext(), middleware.CurrentUser(c), req); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSubscriptions retrieves the authors the caller follows.
func (h *UserHandler) HandleSubscriptions(c *fiber.Ctx) error {
	page := h.paginator.Page(c)
	authors, count, err := h.userService.Subscriptions(c.UserContext(), middleware.CurrentUser(c), page, recipesLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.paginator.Envelope(c, page, count, authors))
}

// HandleSubscribe subscribes the caller to an author.
func (h *UserHandler) HandleSubscribe(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	viewer := middleware.CurrentUser(c)
	sub, err := h.userService.Subscribe(c.UserContext(), viewer, id, recipesLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	log.Info().Uint("user_id", viewer.ID).Uint("author_id", id).Msg("subscribed")
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// HandleUnsubscribe removes the caller's subscription to an author.
func (h *UserHandler) HandleUnsubscribe(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.userService.Unsubscribe(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetAvatar returns the caller's avatar URL.
func (h *UserHandler) HandleGetAvatar(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"avatar": h.userService.AvatarURL(middleware.CurrentUser(c))})
}

// HandleSetAvatar replaces the caller's avatar.
func (h *UserHandler) HandleSetAvatar(c *fiber.Ctx) error {
	var req domain.AvatarRequest
	if err := decodeBody(c, h.validator, &req); err != nil {
		return respondError(c, err)
	}
	url, err := h.userService.SetAvatar(c.UserContext(), middleware.CurrentUser(c), req.Avatar)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"avatar": url})
}

// HandleDeleteAvatar removes the caller's avatar.
func (h *UserHandler) HandleDeleteAvatar(c *fiber.Ctx) error {
	if err := h.userService.DeleteAvatar(c.UserContext(), middleware.CurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// recipesLimit reads ?recipes_limit=. Zero or invalid means no limit.
func recipesLimit(c *fiber.Ctx) int {
	limit := c.QueryInt("recipes_limit", 0)
	if limit < 0 {
		return 0
	}
	return limit
}
