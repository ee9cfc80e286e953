package handlers

import (
	"foodgram/internal/domain"
	"foodgram/internal/metrics"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// LinkHandler issues and resolves recipe short links.
type LinkHandler struct {
	linkService *services.LinkService
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(linkService *services.LinkService) *LinkHandler {
	return &LinkHandler{linkService: linkService}
}

// RegisterRoutes mounts the get-link endpoint under the API router.
func (h *LinkHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/recipes/:id/get-link", h.HandleGetLink)
}

// RegisterRedirect mounts /s/:code on the root router.
func (h *LinkHandler) RegisterRedirect(router fiber.Router) {
	router.Get("/s/:code", h.HandleRedirect)
}

// HandleGetLink returns the short link of a recipe, issuing it on first use.
func (h *LinkHandler) HandleGetLink(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	link, err := h.linkService.Issue(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(domain.ShortLinkResponse{ShortLink: link})
}

// HandleRedirect sends the client to the recipe page behind a short code.
func (h *LinkHandler) HandleRedirect(c *fiber.Ctx) error {
	target, err := h.linkService.Resolve(c.UserContext(), c.Params("code"))
	if domain.IsNotFound(err) {
		return c.Status(fiber.StatusNotFound).SendString("Link not found")
	}
	if err != nil {
		return respondError(c, err)
	}
	log.Debug().Str("code", c.Params("code")).Str("target", target).Msg("short link resolved")
	metrics.ShortLinksResolved.Inc()
	return c.Redirect(target, fiber.StatusFound)
}
