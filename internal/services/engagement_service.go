package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodgram/internal/domain"
	"foodgram/internal/events"
	"foodgram/internal/metrics"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/pkg/storage"

	"github.com/rs/zerolog/log"
)

// markKind describes one per-user recipe mark.
type markKind struct {
	label      string
	repo       repositories.RecipeMarkRepository
	duplicate  string
	missing    string
	addedEvent string
}

// EngagementService toggles favorites and shopping cart entries and renders
// the shopping list.
type EngagementService struct {
	recipes   repositories.RecipeRepository
	carts     repositories.ShoppingCartRepository
	favorite  markKind
	cart      markKind
	media     storage.Storage
	publisher events.Publisher
}

// NewEngagementService creates a new EngagementService.
func NewEngagementService(
	recipes repositories.RecipeRepository,
	favorites repositories.RecipeMarkRepository,
	carts repositories.ShoppingCartRepository,
	media storage.Storage,
	publisher events.Publisher,
) *EngagementService {
	return &EngagementService{
		recipes: recipes,
		carts:   carts,
		favorite: markKind{
			label:      "favorite",
			repo:       favorites,
			duplicate:  "Recipe %q is already in favorites",
			missing:    "Recipe %q is not in favorites",
			addedEvent: domain.EventFavoriteAdded,
		},
		cart: markKind{
			label:     "shopping_cart",
			repo:      carts,
			duplicate: "Recipe %q is already in the shopping cart",
			missing:   "Recipe %q is not in the shopping cart",
		},
		media:     media,
		publisher: publisher,
	}
}

// AddFavorite marks recipeID as a favorite of viewer.
func (s *EngagementService) AddFavorite(ctx context.Context, viewer *models.User, recipeID uint) (*domain.RecipeShort, error) {
	return s.add(ctx, s.favorite, viewer, recipeID)
}

// RemoveFavorite drops recipeID from viewer's favorites.
func (s *EngagementService) RemoveFavorite(ctx context.Context, viewer *models.User, recipeID uint) error {
	return s.remove(ctx, s.favorite, viewer, recipeID)
}

// AddToShoppingCart puts recipeID into viewer's shopping cart.
func (s *EngagementService) AddToShoppingCart(ctx context.Context, viewer *models.User, recipeID uint) (*domain.RecipeShort, error) {
	return s.add(ctx, s.cart, viewer, recipeID)
}

// RemoveFromShoppingCart takes recipeID out of viewer's shopping cart.
func (s *EngagementService) RemoveFromShoppingCart(ctx context.Context, viewer *models.User, recipeID uint) error {
	return s.remove(ctx, s.cart, viewer, recipeID)
}

func (s *EngagementService) add(ctx context.Context, kind markKind, viewer *models.User, recipeID uint) (*domain.RecipeShort, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := kind.repo.Add(ctx, viewer.ID, recipeID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, domain.NewConflict(kind.duplicate, recipe.Name)
		}
		return nil, fmt.Errorf("failed to add %s: %w", kind.label, err)
	}
	metrics.EngagementToggles.WithLabelValues(kind.label, "add").Inc()
	log.Debug().Str("kind", kind.label).Uint("user_id", viewer.ID).Uint("recipe_id", recipeID).Msg("recipe marked")

	if kind.addedEvent != "" {
		publish(ctx, s.publisher, domain.Event{
			Type:        kind.addedEvent,
			UserID:      viewer.ID,
			Username:    viewer.Username,
			RecipeID:    recipe.ID,
			RecipeName:  recipe.Name,
			AuthorID:    recipe.AuthorID,
			AuthorEmail: recipe.Author.Email,
			OccurredAt:  time.Now().UTC(),
		})
	}
	short := recipeShort(recipe, s.media)
	return &short, nil
}

func (s *EngagementService) remove(ctx context.Context, kind markKind, viewer *models.User, recipeID uint) error {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return err
	}
	removed, err := kind.repo.Remove(ctx, viewer.ID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", kind.label, err)
	}
	if !removed {
		return domain.NewConflict(kind.missing, recipe.Name)
	}
	metrics.EngagementToggles.WithLabelValues(kind.label, "remove").Inc()
	return nil
}

// ShoppingList renders the summed ingredients of every recipe in viewer's
// cart, one "name  - amount(unit)" line per ingredient, sorted by name.
func (s *EngagementService) ShoppingList(ctx context.Context, viewer *models.User) (string, error) {
	lines, err := s.carts.IngredientTotals(ctx, viewer.ID)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&b, "%s  - %d(%s)\n", line.Name, line.Amount, line.MeasurementUnit)
	}
	return b.String(), nil
}
