package handlers

import (
	"context"
	"errors"
	"strconv"

	"foodgram/internal/domain"
	"foodgram/internal/middleware"
	"foodgram/internal/models"
	"foodgram/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RecipeHandler handles HTTP requests for recipes, favorites and the shopping cart.
type RecipeHandler struct {
	recipeService     *services.RecipeService
	engagementService *services.EngagementService
	validator         *validator.Validate
	paginator         Paginator
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(
	recipeService *services.RecipeService,
	engagementService *services.EngagementService,
	validate *validator.Validate,
	paginator Paginator,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:     recipeService,
		engagementService: engagementService,
		validator:         validate,
		paginator:         paginator,
	}
}

// RegisterRoutes mounts /recipes. download_shopping_cart is registered
// before /:id so it is not captured by it.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	recipes := router.Group("/recipes")
	recipes.Get("/", guards.Optional, h.HandleList)
	recipes.Post("/", guards.Required, h.HandleCreate)
	recipes.Get("/download_shopping_cart", guards.Required, h.HandleDownloadShoppingCart)
	recipes.Get("/:id", guards.Optional, h.HandleGet)
	recipes.Patch("/:id", guards.Required, h.HandleUpdate)
	recipes.Delete("/:id", guards.Required, h.HandleDelete)
	recipes.Post("/:id/favorite", guards.Required, h.HandleAddFavorite)
	recipes.Delete("/:id/favorite", guards.Required, h.HandleRemoveFavorite)
	recipes.Post("/:id/shopping_cart", guards.Required, h.HandleAddToShoppingCart)
	recipes.Delete("/:id/shopping_cart", guards.Required, h.HandleRemoveFromShoppingCart)
}

// HandleList retrieves one page of recipes matching the query filters.
func (h *RecipeHandler) HandleList(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)
	page := h.paginator.Page(c)
	recipes, count, err := h.recipeService.List(c.UserContext(), viewer, recipeFilter(c, viewer), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.paginator.Envelope(c, page, count, recipes))
}

// HandleCreate creates a recipe authored by the caller.
func (h *RecipeHandler) HandleCreate(c *fiber.Ctx) error {
	var in domain.RecipeInput
	if err := decodeBody(c, nil, &in); err != nil {
		return respondError(c, err)
	}
	recipe, err := h.recipeService.Create(c.UserContext(), middleware.CurrentUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// HandleGet retrieves a single recipe.
func (h *RecipeHandler) HandleGet(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	recipe, err := h.recipeService.Get(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe)
}

// HandleUpdate updates a recipe owned by the caller.
func (h *RecipeHandler) HandleUpdate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	var in domain.RecipeInput
	if err := decodeBody(c, nil, &in); err != nil {
		return respondError(c, err)
	}
	recipe, err := h.recipeService.Update(c.UserContext(), middleware.CurrentUser(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe)
}

// HandleDelete deletes a recipe owned by the caller.
func (h *RecipeHandler) HandleDelete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.recipeService.Delete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAddFavorite adds a recipe to the caller's favorites.
func (h *RecipeHandler) HandleAddFavorite(c *fiber.Ctx) error {
	return h.mark(c, h.engagementService.AddFavorite)
}

// HandleRemoveFavorite removes a recipe from the caller's favorites.
func (h *RecipeHandler) HandleRemoveFavorite(c *fiber.Ctx) error {
	return h.unmark(c, h.engagementService.RemoveFavorite)
}

// HandleAddToShoppingCart adds a recipe to the caller's shopping cart.
func (h *RecipeHandler) HandleAddToShoppingCart(c *fiber.Ctx) error {
	return h.mark(c, h.engagementService.AddToShoppingCart)
}

// HandleRemoveFromShoppingCart removes a recipe from the caller's shopping cart.
func (h *RecipeHandler) HandleRemoveFromShoppingCart(c *fiber.Ctx) error {
	return h.unmark(c, h.engagementService.RemoveFromShoppingCart)
}

// HandleDownloadShoppingCart returns the caller's shopping list as plain text.
func (h *RecipeHandler) HandleDownloadShoppingCart(c *fiber.Ctx) error {
	list, err := h.engagementService.ShoppingList(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="shopping_list.txt"`)
	return c.SendString(list)
}

// mark runs an add toggle. A missing recipe is a bad request here rather
// than a 404, since the recipe is the payload of the action.
func (h *RecipeHandler) mark(c *fiber.Ctx, add func(context.Context, *models.User, uint) (*domain.RecipeShort, error)) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	short, err := add(c.UserContext(), middleware.CurrentUser(c), id)
	if errors.Is(err, domain.ErrRecipeNotFound) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": "Recipe does not exist"})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(short)
}

func (h *RecipeHandler) unmark(c *fiber.Ctx, remove func(context.Context, *models.User, uint) error) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := remove(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// recipeFilter reads author, tags (repeatable), is_favorited and
// is_in_shopping_cart from the query string.
func recipeFilter(c *fiber.Ctx, viewer *models.User) domain.RecipeFilter {
	var filter domain.RecipeFilter
	if author, err := strconv.ParseUint(c.Query("author"), 10, 64); err == nil {
		filter.AuthorID = uint(author)
	}
	for _, slug := range c.Request().URI().QueryArgs().PeekMulti("tags") {
		if len(slug) > 0 {
			filter.TagSlugs = append(filter.TagSlugs, string(slug))
		}
	}
	if viewer != nil {
		if queryFlag(c, "is_favorited") {
			filter.FavoritedBy = viewer.ID
		}
		if queryFlag(c, "is_in_shopping_cart") {
			filter.InShoppingCartOf = viewer.ID
		}
	}
	log.Debug().Interface("filter", filter).Msg("listing recipes")
	return filter
}

func queryFlag(c *fiber.Ctx, key string) bool {
	switch c.Query(key) {
	case "1", "true", "True":
		return true
	}
	return false
}
