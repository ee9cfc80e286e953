package repositories

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/models"
)

// RecipeRepository defines the interface for recipe data access. Create and
// Update write the recipe row, its ingredient lines and its tag links in one
// transaction.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe, lines []models.IngredientInRecipe, tagIDs []uint) error
	Update(ctx context.Context, recipe *models.Recipe, lines []models.IngredientInRecipe, tagIDs []uint) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	List(ctx context.Context, filter domain.RecipeFilter, page domain.Page) ([]models.Recipe, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

// RecipeMarkRepository stores per-user recipe marks (favorites, shopping cart).
type RecipeMarkRepository interface {
	// Add fails with ErrDuplicate when the mark already exists.
	Add(ctx context.Context, userID, recipeID uint) error
	Remove(ctx context.Context, userID, recipeID uint) (bool, error)
	Exists(ctx context.Context, userID, recipeID uint) (bool, error)
	// Marked reports which of recipeIDs carry the mark for userID.
	Marked(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
}

// ShoppingCartRepository is a RecipeMarkRepository that can also total the
// ingredients of the marked recipes.
type ShoppingCartRepository interface {
	RecipeMarkRepository
	IngredientTotals(ctx context.Context, userID uint) ([]domain.ShoppingListLine, error)
}

// LinkRepository defines the interface for short link storage.
type LinkRepository interface {
	GetByRecipeID(ctx context.Context, recipeID uint) (*models.Link, error)
	GetByShortCode(ctx context.Context, code string) (*models.Link, error)
	// Create fails with ErrDuplicate when the recipe already has a link or the code is taken.
	Create(ctx context.Context, link *models.Link) error
}
