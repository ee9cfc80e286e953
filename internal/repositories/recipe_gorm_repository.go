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

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{db: db}
}

// Create inserts the recipe with its lines and tags atomically.
func (r *GORMRecipeRepository) Create(ctx context.Context, recipe *models.Recipe, lines []models.IngredientInRecipe, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return translate("failed to create recipe", err)
		}
		if err := replaceLines(tx, recipe.ID, lines); err != nil {
			return err
		}
		return replaceTags(tx, recipe.ID, tagIDs)
	})
}

// Update rewrites the recipe's own columns and replaces its lines and tags
// wholesale. pub_date and author are never touched.
func (r *GORMRecipeRepository) Update(ctx context.Context, recipe *models.Recipe, lines []models.IngredientInRecipe, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]any{
			"name":         recipe.Name,
			"image":        recipe.Image,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
		})
		if res.Error != nil {
			return fmt.Errorf("failed to update recipe %d: %w", recipe.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: id %d", domain.ErrRecipeNotFound, recipe.ID)
		}
		if err := replaceLines(tx, recipe.ID, lines); err != nil {
			return err
		}
		return replaceTags(tx, recipe.ID, tagIDs)
	})
}

// Delete removes the recipe together with everything that references it.
func (r *GORMRecipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dependents := []any{
			&models.IngredientInRecipe{},
			&models.RecipeTag{},
			&models.Favorite{},
			&models.ShoppingCart{},
			&models.Link{},
		}
		for _, model := range dependents {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete rows referencing recipe %d: %w", id, err)
			}
		}
		res := tx.Delete(&models.Recipe{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete recipe %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: id %d", domain.ErrRecipeNotFound, id)
		}
		return nil
	})
}

// GetByID loads a recipe with author, ingredient lines and tags.
func (r *GORMRecipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withDetails(r.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrRecipeNotFound, id)
		}
		return nil, fmt.Errorf("failed to get recipe by ID %d: %w", id, err)
	}
	return &recipe, nil
}

// List returns one page of recipes matching filter, newest first.
func (r *GORMRecipeRepository) List(ctx context.Context, filter domain.RecipeFilter, page domain.Page) ([]models.Recipe, int64, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&models.Recipe{})
	if filter.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		q = q.Where("recipes.id IN (?)", db.Model(&models.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.FavoritedBy != 0 {
		q = q.Where("recipes.id IN (?)", db.Model(&models.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", filter.FavoritedBy))
	}
	if filter.InShoppingCartOf != 0 {
		q = q.Where("recipes.id IN (?)", db.Model(&models.ShoppingCart{}).
			Select("recipe_id").
			Where("user_id = ?", filter.InShoppingCartOf))
	}
	q = q.Session(&gorm.Session{})

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	if err := withDetails(q).
		Order("recipes.pub_date DESC, recipes.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, count, nil
}

// ListByAuthor returns up to limit of the author's newest recipes; limit <= 0 means all.
func (r *GORMRecipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes of author %d: %w", authorID, err)
	}
	return recipes, nil
}

// CountByAuthor returns how many recipes the author has published.
func (r *GORMRecipeRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes of author %d: %w", authorID, err)
	}
	return count, nil
}

func withDetails(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredient_in_recipes.id") }).
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") })
}

func replaceLines(tx *gorm.DB, recipeID uint, lines []models.IngredientInRecipe) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.IngredientInRecipe{}).Error; err != nil {
		return fmt.Errorf("failed to clear ingredients of recipe %d: %w", recipeID, err)
	}
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.IngredientInRecipe, len(lines))
	for i, line := range lines {
		rows[i] = models.IngredientInRecipe{RecipeID: recipeID, IngredientID: line.IngredientID, Amount: line.Amount}
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return translate(fmt.Sprintf("failed to store ingredients of recipe %d", recipeID), err)
	}
	return nil
}

func replaceTags(tx *gorm.DB, recipeID uint, tagIDs []uint) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("failed to clear tags of recipe %d: %w", recipeID, err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.RecipeTag, len(tagIDs))
	for i, id := range tagIDs {
		rows[i] = models.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return translate(fmt.Sprintf("failed to store tags of recipe %d", recipeID), err)
	}
	return nil
}
