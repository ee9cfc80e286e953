package handlers

import (
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the read-only ingredient and tag catalogs.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// RegisterRoutes mounts the ingredient and tag routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ingredients", h.HandleListIngredients)
	router.Get("/ingredients/:id", h.HandleGetIngredient)
	router.Get("/tags", h.HandleListTags)
	router.Get("/tags/:id", h.HandleGetTag)
}

// HandleListIngredients lists ingredients, optionally narrowed by a
// case-sensitive ?name= prefix.
func (h *CatalogHandler) HandleListIngredients(c *fiber.Ctx) error {
	ingredients, err := h.catalogService.ListIngredients(c.UserContext(), c.Query("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ingredients)
}

// HandleGetIngredient retrieves a single ingredient.
func (h *CatalogHandler) HandleGetIngredient(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	ingredient, err := h.catalogService.GetIngredient(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ingredient)
}

// HandleListTags retrieves all tags.
func (h *CatalogHandler) HandleListTags(c *fiber.Ctx) error {
	tags, err := h.catalogService.ListTags(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

// HandleGetTag retrieves a single tag.
func (h *CatalogHandler) HandleGetTag(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	tag, err := h.catalogService.GetTag(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tag)
}
