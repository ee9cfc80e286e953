package services

import (
	"context"
	"fmt"
	"time"

	"foodgram/internal/domain"
	"foodgram/internal/events"
	"foodgram/internal/metrics"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/validation"
	"foodgram/pkg/imagefield"
	"foodgram/pkg/storage"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const recipeImageDir = "recipes/images"

// RecipeStores groups the repositories the recipe workflow reads and writes.
type RecipeStores struct {
	Recipes       repositories.RecipeRepository
	Ingredients   repositories.IngredientRepository
	Tags          repositories.TagRepository
	Favorites     repositories.RecipeMarkRepository
	ShoppingCarts repositories.ShoppingCartRepository
	Subscriptions repositories.SubscriptionRepository
}

// RecipeService validates and persists recipes and renders them per viewer.
type RecipeService struct {
	stores    RecipeStores
	media     storage.Storage
	publisher events.Publisher
	validate  *validator.Validate
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(stores RecipeStores, media storage.Storage, publisher events.Publisher, validate *validator.Validate) *RecipeService {
	return &RecipeService{
		stores:    stores,
		media:     media,
		publisher: publisher,
		validate:  validate,
	}
}

// Create validates in and stores a new recipe authored by author.
func (s *RecipeService) Create(ctx context.Context, author *models.User, in domain.RecipeInput) (*domain.RecipeResponse, error) {
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}
	switch {
	case in.Name == nil:
		return nil, domain.NewValidationError("name", "This field is required.")
	case in.Text == nil:
		return nil, domain.NewValidationError("text", "This field is required.")
	case in.CookingTime == nil:
		return nil, domain.NewValidationError("cooking_time", "This field is required.")
	case in.Image == nil || *in.Image == "":
		return nil, domain.NewValidationError("image", "This field is required.")
	}

	lines, tagIDs, err := s.validateComposition(ctx, *in.CookingTime, in)
	if err != nil {
		return nil, err
	}
	imageKey, err := s.storeImage(ctx, *in.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        *in.Name,
		Image:       imageKey,
		Text:        *in.Text,
		CookingTime: *in.CookingTime,
	}
	if err := s.stores.Recipes.Create(ctx, recipe, lines, tagIDs); err != nil {
		deleteBlob(ctx, s.media, imageKey)
		return nil, err
	}

	metrics.RecipesWritten.WithLabelValues("create").Inc()
	log.Info().Uint("recipe_id", recipe.ID).Uint("user_id", author.ID).Msg("recipe created")
	publish(ctx, s.publisher, domain.Event{
		Type:       domain.EventRecipeCreated,
		UserID:     author.ID,
		Username:   author.Username,
		RecipeID:   recipe.ID,
		RecipeName: recipe.Name,
		AuthorID:   author.ID,
		OccurredAt: time.Now().UTC(),
	})
	return s.Get(ctx, author, recipe.ID)
}

// Update rewrites recipe id. Scalar fields are optional; ingredients and tags
// are always replaced with the given sets.
func (s *RecipeService) Update(ctx context.Context, viewer *models.User, id uint, in domain.RecipeInput) (*domain.RecipeResponse, error) {
	recipe, err := s.stores.Recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(viewer, recipe); err != nil {
		return nil, err
	}
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}

	cookingTime := recipe.CookingTime
	if in.CookingTime != nil {
		cookingTime = *in.CookingTime
	}
	lines, tagIDs, err := s.validateComposition(ctx, cookingTime, in)
	if err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	if in.Image != nil && *in.Image != "" {
		key, err := s.storeImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		recipe.Image = key
	}
	if in.Name != nil {
		recipe.Name = *in.Name
	}
	if in.Text != nil {
		recipe.Text = *in.Text
	}
	recipe.CookingTime = cookingTime

	if err := s.stores.Recipes.Update(ctx, recipe, lines, tagIDs); err != nil {
		if recipe.Image != oldImage {
			deleteBlob(ctx, s.media, recipe.Image)
		}
		return nil, err
	}
	if recipe.Image != oldImage {
		deleteBlob(ctx, s.media, oldImage)
	}

	metrics.RecipesWritten.WithLabelValues("update").Inc()
	log.Info().Uint("recipe_id", id).Uint("user_id", viewer.ID).Msg("recipe updated")
	return s.Get(ctx, viewer, id)
}

// Delete removes recipe id and everything attached to it.
func (s *RecipeService) Delete(ctx context.Context, viewer *models.User, id uint) error {
	recipe, err := s.stores.Recipes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(viewer, recipe); err != nil {
		return err
	}
	if err := s.stores.Recipes.Delete(ctx, id); err != nil {
		return err
	}
	deleteBlob(ctx, s.media, recipe.Image)

	metrics.RecipesWritten.WithLabelValues("delete").Inc()
	log.Info().Uint("recipe_id", id).Uint("user_id", viewer.ID).Msg("recipe deleted")
	return nil
}

// Get renders recipe id for viewer (nil for anonymous).
func (s *RecipeService) Get(ctx context.Context, viewer *models.User, id uint) (*domain.RecipeResponse, error) {
	recipe, err := s.stores.Recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rendered, err := s.project(ctx, viewer, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &rendered[0], nil
}

// List returns one page of recipes. The favorited and shopping cart filters
// are ignored for anonymous viewers.
func (s *RecipeService) List(ctx context.Context, viewer *models.User, filter domain.RecipeFilter, page domain.Page) ([]domain.RecipeResponse, int64, error) {
	if viewer == nil {
		filter.FavoritedBy = 0
		filter.InShoppingCartOf = 0
	}
	recipes, count, err := s.stores.Recipes.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}
	rendered, err := s.project(ctx, viewer, recipes)
	if err != nil {
		return nil, 0, err
	}
	return rendered, count, nil
}

func authorize(viewer *models.User, recipe *models.Recipe) error {
	if viewer == nil || (viewer.ID != recipe.AuthorID && !viewer.IsAdmin()) {
		return domain.ErrForbidden
	}
	return nil
}

// validateComposition checks the payload in a fixed order and reports the
// first violation only.
func (s *RecipeService) validateComposition(ctx context.Context, cookingTime int, in domain.RecipeInput) ([]models.IngredientInRecipe, []uint, error) {
	if cookingTime < 1 {
		return nil, nil, domain.NewValidationError("cooking_time", "Ensure this value is greater than or equal to 1.")
	}

	if len(in.Tags) == 0 {
		return nil, nil, domain.NewValidationError("tags", "At least one tag is required.")
	}
	seenTags := make(map[uint]bool, len(in.Tags))
	for _, id := range in.Tags {
		if seenTags[id] {
			return nil, nil, domain.NewValidationError("tags", fmt.Sprintf("Tag %d is listed more than once.", id))
		}
		seenTags[id] = true
	}
	knownTags, err := s.stores.Tags.ExistingIDs(ctx, in.Tags)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range in.Tags {
		if !knownTags[id] {
			return nil, nil, domain.NewValidationError("tags", fmt.Sprintf("Tag %d does not exist.", id))
		}
	}

	if len(in.Ingredients) == 0 {
		return nil, nil, domain.NewValidationError("ingredients", "At least one ingredient is required.")
	}
	ids := make([]uint, len(in.Ingredients))
	for i, item := range in.Ingredients {
		ids[i] = item.ID
	}
	known, err := s.stores.Ingredients.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range ids {
		if !known[id] {
			return nil, nil, domain.NewValidationError("ingredients", fmt.Sprintf("Ingredient %d does not exist.", id))
		}
	}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, nil, domain.NewValidationError("ingredients", fmt.Sprintf("Ingredient %d is listed more than once.", id))
		}
		seen[id] = true
	}
	lines := make([]models.IngredientInRecipe, len(in.Ingredients))
	for i, item := range in.Ingredients {
		if item.Amount < 1 {
			return nil, nil, domain.NewValidationError("ingredients", "Amount must be greater than or equal to 1.")
		}
		lines[i] = models.IngredientInRecipe{IngredientID: item.ID, Amount: item.Amount}
	}
	return lines, in.Tags, nil
}

func (s *RecipeService) storeImage(ctx context.Context, dataURI string) (string, error) {
	img, err := imagefield.Decode(dataURI)
	if err != nil {
		return "", domain.NewValidationError("image", err.Error())
	}
	key := storage.NewKey(recipeImageDir, img.Extension)
	if err := s.media.Put(ctx, key, img.Data, img.ContentType); err != nil {
		return "", fmt.Errorf("failed to store recipe image: %w", err)
	}
	return key, nil
}

// project renders recipes with the viewer-dependent flags resolved in bulk.
func (s *RecipeService) project(ctx context.Context, viewer *models.User, recipes []models.Recipe) ([]domain.RecipeResponse, error) {
	uid := viewerID(viewer)
	ids := make([]uint, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}

	favorited, err := s.stores.Favorites.Marked(ctx, uid, ids)
	if err != nil {
		return nil, err
	}
	inCart, err := s.stores.ShoppingCarts.Marked(ctx, uid, ids)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.stores.Subscriptions.SubscribedAuthors(ctx, uid, authorIDs)
	if err != nil {
		return nil, err
	}

	result := make([]domain.RecipeResponse, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		ingredients := make([]domain.IngredientAmount, len(r.Ingredients))
		for j, line := range r.Ingredients {
			ingredients[j] = domain.IngredientAmount{
				ID:              line.IngredientID,
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			}
		}
		tags := make([]domain.TagResponse, len(r.Tags))
		for j, tag := range r.Tags {
			tags[j] = domain.TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}
		}
		result[i] = domain.RecipeResponse{
			ID:               r.ID,
			Author:           userResponse(&r.Author, subscribed[r.AuthorID], s.media),
			Name:             r.Name,
			Image:            s.media.URL(r.Image),
			Text:             r.Text,
			Ingredients:      ingredients,
			Tags:             tags,
			CookingTime:      r.CookingTime,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
		}
	}
	return result, nil
}
