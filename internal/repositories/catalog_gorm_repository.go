package repositories

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"foodgram/internal/domain"
	"foodgram/internal/models"

	"gorm.io/gorm"
)

const ingredientBatchSize = 500

// GORMIngredientRepository is a GORM implementation of IngredientRepository.
type GORMIngredientRepository struct {
	db *gorm.DB
}

// NewGORMIngredientRepository creates a new instance of GORMIngredientRepository.
func NewGORMIngredientRepository(db *gorm.DB) *GORMIngredientRepository {
	return &GORMIngredientRepository{db: db}
}

// List returns ingredients ordered by name. The prefix match is case-sensitive
// and compares characters, so it behaves the same on postgres and sqlite.
func (r *GORMIngredientRepository) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	q := r.db.WithContext(ctx).Order("name, id")
	if namePrefix != "" {
		q = q.Where("substr(name, 1, ?) = ?", utf8.RuneCountInString(namePrefix), namePrefix)
	}
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// GetByID retrieves a single ingredient.
func (r *GORMIngredientRepository) GetByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrIngredientNotFound, id)
		}
		return nil, fmt.Errorf("failed to get ingredient by ID %d: %w", id, err)
	}
	return &ingredient, nil
}

// ExistingIDs reports which of ids are present in the catalog.
func (r *GORMIngredientRepository) ExistingIDs(ctx context.Context, ids []uint) (map[uint]bool, error) {
	return existingIDs(ctx, r.db, &models.Ingredient{}, ids)
}

// CreateBatch inserts rows as given; duplicates are not checked.
func (r *GORMIngredientRepository) CreateBatch(ctx context.Context, items []models.Ingredient) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(items, ingredientBatchSize).Error; err != nil {
		return fmt.Errorf("failed to import ingredients: %w", err)
	}
	return nil
}

// GORMTagRepository is a GORM implementation of TagRepository.
type GORMTagRepository struct {
	db *gorm.DB
}

// NewGORMTagRepository creates a new instance of GORMTagRepository.
func NewGORMTagRepository(db *gorm.DB) *GORMTagRepository {
	return &GORMTagRepository{db: db}
}

// List returns all tags ordered by name.
func (r *GORMTagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// GetByID retrieves a single tag.
func (r *GORMTagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrTagNotFound, id)
		}
		return nil, fmt.Errorf("failed to get tag by ID %d: %w", id, err)
	}
	return &tag, nil
}

// ExistingIDs reports which of ids are known tags.
func (r *GORMTagRepository) ExistingIDs(ctx context.Context, ids []uint) (map[uint]bool, error) {
	return existingIDs(ctx, r.db, &models.Tag{}, ids)
}

// Create stores a tag; a clashing name or slug fails with ErrDuplicate.
func (r *GORMTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return translate("failed to create tag", err)
	}
	return nil
}

func existingIDs(ctx context.Context, db *gorm.DB, model any, ids []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var found []uint
	if err := db.WithContext(ctx).Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("failed to look up ids: %w", err)
	}
	for _, id := range found {
		result[id] = true
	}
	return result, nil
}
