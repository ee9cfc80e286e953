package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/metrics"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/pkg/shortcode"

	"github.com/rs/zerolog/log"
)

const (
	maxShortCodeAttempts = 5
	apiPrefix            = "/api"
)

// LinkService issues and resolves short links to recipes.
type LinkService struct {
	links    repositories.LinkRepository
	recipes  repositories.RecipeRepository
	baseURL  string
	generate func() (string, error)
}

// NewLinkService creates a new LinkService. baseURL is the public origin,
// e.g. "https://foodgram.example".
func NewLinkService(links repositories.LinkRepository, recipes repositories.RecipeRepository, baseURL string) *LinkService {
	return &LinkService{
		links:    links,
		recipes:  recipes,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		generate: shortcode.New,
	}
}

// WithGenerator replaces the code generator. Used by tests.
func (s *LinkService) WithGenerator(generate func() (string, error)) *LinkService {
	s.generate = generate
	return s
}

// Issue returns the short link of recipeID, creating it on first use.
func (s *LinkService) Issue(ctx context.Context, recipeID uint) (string, error) {
	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		return "", err
	}
	existing, err := s.links.GetByRecipeID(ctx, recipeID)
	if err == nil {
		return existing.ShortLink, nil
	}
	if !errors.Is(err, domain.ErrLinkNotFound) {
		return "", err
	}

	for attempt := 1; attempt <= maxShortCodeAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return "", err
		}
		link := &models.Link{
			RecipeID:  recipeID,
			BaseLink:  fmt.Sprintf("%s%s/recipes/%d/", s.baseURL, apiPrefix, recipeID),
			ShortCode: code,
			ShortLink: s.baseURL + "/s/" + code,
		}
		err = s.links.Create(ctx, link)
		if err == nil {
			metrics.ShortLinksIssued.Inc()
			log.Info().Uint("recipe_id", recipeID).Str("code", code).Msg("short link issued")
			return link.ShortLink, nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) {
			return "", err
		}
		// Either a concurrent request linked this recipe first or the code is taken.
		existing, err := s.links.GetByRecipeID(ctx, recipeID)
		if err == nil {
			return existing.ShortLink, nil
		}
		if !errors.Is(err, domain.ErrLinkNotFound) {
			return "", err
		}
		log.Warn().Str("code", code).Int("attempt", attempt).Msg("short code collision")
	}
	return "", fmt.Errorf("failed to allocate a short code for recipe %d after %d attempts", recipeID, maxShortCodeAttempts)
}

// Resolve returns the page URL a short code redirects to.
func (s *LinkService) Resolve(ctx context.Context, code string) (string, error) {
	link, err := s.links.GetByShortCode(ctx, code)
	if err != nil {
		return "", err
	}
	target, err := url.Parse(link.BaseLink)
	if err != nil {
		return "", fmt.Errorf("invalid stored link for code %s: %w", code, err)
	}
	// Only the leading API segment of the path is dropped; the host is left alone.
	if target.Path == apiPrefix || strings.HasPrefix(target.Path, apiPrefix+"/") {
		target.Path = strings.TrimPrefix(target.Path, apiPrefix)
	}
	return target.String(), nil
}
