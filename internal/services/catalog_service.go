package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

// CatalogService serves and loads the ingredient and tag reference data.
type CatalogService struct {
	ingredients repositories.IngredientRepository
	tags        repositories.TagRepository
	validate    *validator.Validate
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(ingredients repositories.IngredientRepository, tags repositories.TagRepository, validate *validator.Validate) *CatalogService {
	return &CatalogService{
		ingredients: ingredients,
		tags:        tags,
		validate:    validate,
	}
}

// ListIngredients returns ingredients whose name starts with prefix.
func (s *CatalogService) ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	return s.ingredients.List(ctx, prefix)
}

// GetIngredient returns one ingredient.
func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	return s.ingredients.GetByID(ctx, id)
}

// ListTags returns every tag.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tags.List(ctx)
}

// GetTag returns one tag.
func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	return s.tags.GetByID(ctx, id)
}

// ImportIngredients loads (name, measurement_unit) rows from CSV. The first
// row is a header and is skipped. Rows are inserted as given, without dedup.
func (s *CatalogService) ImportIngredients(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read header: %w", err)
	}

	var items []models.Ingredient
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read ingredients: %w", err)
		}
		if len(record) < 2 {
			line, _ := reader.FieldPos(0)
			return 0, fmt.Errorf("line %d: expected name and measurement unit, got %d fields", line, len(record))
		}
		items = append(items, models.Ingredient{
			Name:            strings.TrimSpace(record[0]),
			MeasurementUnit: strings.TrimSpace(record[1]),
		})
	}

	if err := s.ingredients.CreateBatch(ctx, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// ImportTags loads a YAML list of {name, slug}. Tags whose name or slug
// already exists are skipped.
func (s *CatalogService) ImportTags(ctx context.Context, r io.Reader) (created, skipped int, err error) {
	var tags []models.Tag
	if err := yaml.NewDecoder(r).Decode(&tags); err != nil && !errors.Is(err, io.EOF) {
		return 0, 0, fmt.Errorf("failed to parse tags: %w", err)
	}

	for i := range tags {
		tag := tags[i]
		if err := validation.Struct(s.validate, tag); err != nil {
			return created, skipped, fmt.Errorf("tag %q: %w", tag.Slug, err)
		}
		if err := s.tags.Create(ctx, &tag); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				log.Debug().Str("slug", tag.Slug).Msg("tag exists, skipped")
				skipped++
				continue
			}
			return created, skipped, err
		}
		created++
	}
	return created, skipped, nil
}
