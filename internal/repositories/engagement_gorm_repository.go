package repositories

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/domain"
	"foodgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMRecipeMarkRepository is a GORM implementation of RecipeMarkRepository
// over any (user_id, recipe_id) table with a unique pair constraint.
type GORMRecipeMarkRepository struct {
	db     *gorm.DB
	name   string
	newRow func(userID, recipeID uint) any
}

// NewGORMFavoriteRepository stores marks in the favorites table.
func NewGORMFavoriteRepository(db *gorm.DB) *GORMRecipeMarkRepository {
	return &GORMRecipeMarkRepository{
		db:   db,
		name: "favorite",
		newRow: func(userID, recipeID uint) any {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
}

// Add inserts the mark; the unique constraint rejects a second one.
func (r *GORMRecipeMarkRepository) Add(ctx context.Context, userID, recipeID uint) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(r.newRow(userID, recipeID)).Error; err != nil {
		return translate(fmt.Sprintf("failed to add %s", r.name), err)
	}
	return nil
}

// Remove deletes the mark and reports whether it existed.
func (r *GORMRecipeMarkRepository) Remove(ctx context.Context, userID, recipeID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(r.newRow(0, 0))
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove %s: %w", r.name, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Exists reports whether the mark is present.
func (r *GORMRecipeMarkRepository) Exists(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(r.newRow(0, 0)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s: %w", r.name, err)
	}
	return count > 0, nil
}

// Marked reports which of recipeIDs carry the mark for userID.
func (r *GORMRecipeMarkRepository) Marked(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return result, nil
	}
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(r.newRow(0, 0)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s marks: %w", r.name, err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// GORMShoppingCartRepository stores shopping cart marks and totals their ingredients.
type GORMShoppingCartRepository struct {
	*GORMRecipeMarkRepository
}

// NewGORMShoppingCartRepository creates a new instance of GORMShoppingCartRepository.
func NewGORMShoppingCartRepository(db *gorm.DB) *GORMShoppingCartRepository {
	return &GORMShoppingCartRepository{
		GORMRecipeMarkRepository: &GORMRecipeMarkRepository{
			db:   db,
			name: "shopping cart entry",
			newRow: func(userID, recipeID uint) any {
				return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
			},
		},
	}
}

// IngredientTotals sums ingredient amounts over every recipe in the user's
// cart, grouped by ingredient name and unit, sorted by name then unit.
func (r *GORMShoppingCartRepository) IngredientTotals(ctx context.Context, userID uint) ([]domain.ShoppingListLine, error) {
	lines := []domain.ShoppingListLine{}
	err := r.db.WithContext(ctx).
		Table("ingredient_in_recipes").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(ingredient_in_recipes.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_in_recipes.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = ingredient_in_recipes.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping list of user %d: %w", userID, err)
	}
	return lines, nil
}

// GORMLinkRepository is a GORM implementation of LinkRepository.
type GORMLinkRepository struct {
	db *gorm.DB
}

// NewGORMLinkRepository creates a new instance of GORMLinkRepository.
func NewGORMLinkRepository(db *gorm.DB) *GORMLinkRepository {
	return &GORMLinkRepository{db: db}
}

// GetByRecipeID returns the link issued for a recipe.
func (r *GORMLinkRepository) GetByRecipeID(ctx context.Context, recipeID uint) (*models.Link, error) {
	return r.first(ctx, "recipe_id = ?", recipeID)
}

// GetByShortCode returns the link with exactly this code.
func (r *GORMLinkRepository) GetByShortCode(ctx context.Context, code string) (*models.Link, error) {
	return r.first(ctx, "short_code = ?", code)
}

// Create stores a new link.
func (r *GORMLinkRepository) Create(ctx context.Context, link *models.Link) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(link).Error; err != nil {
		return translate("failed to create link", err)
	}
	return nil
}

func (r *GORMLinkRepository) first(ctx context.Context, query string, arg any) (*models.Link, error) {
	var link models.Link
	if err := r.db.WithContext(ctx).First(&link, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return &link, nil
}
