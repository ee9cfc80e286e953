package repositories

import (
	"context"

	"foodgram/internal/models"
)

// IngredientRepository defines the interface for ingredient catalog access.
type IngredientRepository interface {
	// List returns ingredients whose name starts with namePrefix (all when empty).
	List(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetByID(ctx context.Context, id uint) (*models.Ingredient, error)
	ExistingIDs(ctx context.Context, ids []uint) (map[uint]bool, error)
	CreateBatch(ctx context.Context, items []models.Ingredient) error
}

// TagRepository defines the interface for tag access.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	ExistingIDs(ctx context.Context, ids []uint) (map[uint]bool, error)
	Create(ctx context.Context, tag *models.Tag) error
}
