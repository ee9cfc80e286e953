package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/events"
	"foodgram/internal/models"
	"foodgram/internal/services"
	"foodgram/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// 1x1 PNG as a data URI.
const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type recipeMocks struct {
	recipes     *MockRecipeRepository
	ingredients *MockIngredientRepository
	tags        *MockTagRepository
	favorites   *MockMarkRepository
	carts       *MockMarkRepository
	subs        *MockSubscriptionRepository
	media       *MockStorage
	publisher   *MockPublisher
}

func newRecipeService() (*services.RecipeService, *recipeMocks) {
	m := &recipeMocks{
		recipes:     new(MockRecipeRepository),
		ingredients: new(MockIngredientRepository),
		tags:        new(MockTagRepository),
		favorites:   new(MockMarkRepository),
		carts:       new(MockMarkRepository),
		subs:        new(MockSubscriptionRepository),
		media:       new(MockStorage),
		publisher:   new(MockPublisher),
	}
	svc := services.NewRecipeService(services.RecipeStores{
		Recipes:       m.recipes,
		Ingredients:   m.ingredients,
		Tags:          m.tags,
		Favorites:     m.favorites,
		ShoppingCarts: m.carts,
		Subscriptions: m.subs,
	}, m.media, m.publisher, validation.New())
	return svc, m
}

func ptr[T any](v T) *T { return &v }

func validInput() domain.RecipeInput {
	return domain.RecipeInput{
		Name:        ptr("Pancakes"),
		Image:       ptr(pixelPNG),
		Text:        ptr("Mix and fry."),
		CookingTime: ptr(15),
		Ingredients: []domain.RecipeIngredientInput{{ID: 1, Amount: 100}, {ID: 2, Amount: 2}},
		Tags:        []uint{1},
	}
}

func storedRecipe(author models.User) *models.Recipe {
	return &models.Recipe{
		ID:          10,
		AuthorID:    author.ID,
		Author:      author,
		Name:        "Pancakes",
		Image:       "recipes/images/x.png",
		Text:        "Mix and fry.",
		CookingTime: 15,
		Ingredients: []models.IngredientInRecipe{
			{IngredientID: 1, Amount: 100, Ingredient: models.Ingredient{ID: 1, Name: "Flour", MeasurementUnit: "g"}},
		},
		Tags: []models.Tag{{ID: 1, Name: "Breakfast", Slug: "breakfast"}},
	}
}

func TestRecipeService_ValidationOrder(t *testing.T) {
	author := &models.User{ID: 1}

	tests := []struct {
		name   string
		mutate func(in *domain.RecipeInput)
		field  string
		msg    string
	}{
		{"missing name", func(in *domain.RecipeInput) { in.Name = nil }, "name", "required"},
		{"name too long", func(in *domain.RecipeInput) { in.Name = ptr(strings.Repeat("a", 257)) }, "name", "256"},
		{"zero cooking time beats empty tags", func(in *domain.RecipeInput) { in.CookingTime = ptr(0); in.Tags = nil }, "cooking_time", "greater than"},
		{"no tags", func(in *domain.RecipeInput) { in.Tags = nil; in.Ingredients = nil }, "tags", "At least one tag"},
		{"duplicate tags", func(in *domain.RecipeInput) { in.Tags = []uint{1, 1} }, "tags", "more than once"},
		{"unknown tag", func(in *domain.RecipeInput) { in.Tags = []uint{1, 99} }, "tags", "99 does not exist"},
		{"no ingredients", func(in *domain.RecipeInput) { in.Ingredients = nil }, "ingredients", "At least one ingredient"},
		{"unknown ingredient beats duplicate", func(in *domain.RecipeInput) {
			in.Ingredients = []domain.RecipeIngredientInput{{ID: 1, Amount: 1}, {ID: 1, Amount: 1}, {ID: 77, Amount: 1}}
		}, "ingredients", "77 does not exist"},
		{"duplicate ingredient", func(in *domain.RecipeInput) {
			in.Ingredients = []domain.RecipeIngredientInput{{ID: 1, Amount: 1}, {ID: 1, Amount: 0}}
		}, "ingredients", "more than once"},
		{"zero amount", func(in *domain.RecipeInput) {
			in.Ingredients = []domain.RecipeIngredientInput{{ID: 1, Amount: 0}}
		}, "ingredients", "Amount"},
		{"image is not an image", func(in *domain.RecipeInput) { in.Image = ptr("data:image/png;base64,aGVsbG8=") }, "image", "not an image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newRecipeService()
			m.tags.On("ExistingIDs", mock.Anything, mock.Anything).Return(map[uint]bool{1: true, 2: true}, nil).Maybe()
			m.ingredients.On("ExistingIDs", mock.Anything, mock.Anything).Return(map[uint]bool{1: true, 2: true}, nil).Maybe()

			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), author, in)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Contains(t, verr.Message, tt.msg)
			m.recipes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			m.media.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRecipeService_Create(t *testing.T) {
	ctx := context.Background()
	svc, m := newRecipeService()
	author := models.User{ID: 1, Username: "chef", Email: "chef@example.com"}

	m.tags.On("ExistingIDs", ctx, []uint{1}).Return(map[uint]bool{1: true}, nil).Once()
	m.ingredients.On("ExistingIDs", ctx, []uint{1, 2}).Return(map[uint]bool{1: true, 2: true}, nil).Once()
	m.media.On("Put", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "recipes/images/") && strings.HasSuffix(key, ".png")
	}), mock.Anything, "image/png").Return(nil).Once()
	m.recipes.On("Create", ctx, mock.AnythingOfType("*models.Recipe"), []models.IngredientInRecipe{
		{IngredientID: 1, Amount: 100},
		{IngredientID: 2, Amount: 2},
	}, []uint{1}).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Recipe).ID = 10
	}).Return(nil).Once()
	m.publisher.On("Publish", ctx, mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventRecipeCreated && e.RecipeID == 10
	})).Return(errors.New("broker down")).Once()
	m.recipes.On("GetByID", ctx, uint(10)).Return(storedRecipe(author), nil).Once()
	m.favorites.On("Marked", ctx, uint(1), []uint{10}).Return(map[uint]bool{}, nil).Once()
	m.carts.On("Marked", ctx, uint(1), []uint{10}).Return(map[uint]bool{10: true}, nil).Once()
	m.subs.On("SubscribedAuthors", ctx, uint(1), []uint{1}).Return(map[uint]bool{}, nil).Once()

	resp, err := svc.Create(ctx, &author, validInput())
	require.NoError(t, err, "publish failures never fail the write")
	assert.Equal(t, uint(10), resp.ID)
	assert.Equal(t, "/media/recipes/images/x.png", resp.Image)
	assert.False(t, resp.IsFavorited)
	assert.True(t, resp.IsInShoppingCart)
	require.Len(t, resp.Ingredients, 1)
	assert.Equal(t, domain.IngredientAmount{ID: 1, Name: "Flour", MeasurementUnit: "g", Amount: 100}, resp.Ingredients[0])

	m.recipes.AssertExpectations(t)
	m.media.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestRecipeService_UpdateAndDeleteRequireOwner(t *testing.T) {
	ctx := context.Background()
	svc, m := newRecipeService()
	author := models.User{ID: 1}
	stranger := &models.User{ID: 2, Role: models.RoleUser}

	m.recipes.On("GetByID", ctx, uint(10)).Return(storedRecipe(author), nil)

	_, err := svc.Update(ctx, stranger, 10, validInput())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, stranger, 10), domain.ErrForbidden)

	m.recipes.On("GetByID", ctx, uint(11)).Return(nil, domain.ErrRecipeNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, stranger, 11), domain.ErrRecipeNotFound)

	admin := &models.User{ID: 3, Role: models.RoleAdmin}
	m.recipes.On("Delete", ctx, uint(10)).Return(nil).Once()
	m.media.On("Delete", ctx, "recipes/images/x.png").Return(nil).Once()
	require.NoError(t, svc.Delete(ctx, admin, 10))
	m.recipes.AssertExpectations(t)
	m.media.AssertExpectations(t)
}

func TestRecipeService_UpdateKeepsOmittedScalars(t *testing.T) {
	ctx := context.Background()
	svc, m := newRecipeService()
	author := models.User{ID: 1}

	m.recipes.On("GetByID", ctx, uint(10)).Return(storedRecipe(author), nil)
	m.tags.On("ExistingIDs", ctx, []uint{1}).Return(map[uint]bool{1: true}, nil)
	m.ingredients.On("ExistingIDs", ctx, []uint{2}).Return(map[uint]bool{2: true}, nil)
	m.recipes.On("Update", ctx, mock.MatchedBy(func(r *models.Recipe) bool {
		return r.Name == "Pancakes" && r.CookingTime == 15 && r.Image == "recipes/images/x.png" && r.Text == "New text"
	}), []models.IngredientInRecipe{{IngredientID: 2, Amount: 3}}, []uint{1}).Return(nil).Once()
	m.favorites.On("Marked", ctx, uint(1), []uint{10}).Return(map[uint]bool{}, nil)
	m.carts.On("Marked", ctx, uint(1), []uint{10}).Return(map[uint]bool{}, nil)
	m.subs.On("SubscribedAuthors", ctx, uint(1), []uint{1}).Return(map[uint]bool{}, nil)

	_, err := svc.Update(ctx, &author, 10, domain.RecipeInput{
		Text:        ptr("New text"),
		Ingredients: []domain.RecipeIngredientInput{{ID: 2, Amount: 3}},
		Tags:        []uint{1},
	})
	require.NoError(t, err)
	m.recipes.AssertExpectations(t)

	// Ingredients and tags must always be resent.
	_, err = svc.Update(ctx, &author, 10, domain.RecipeInput{Tags: []uint{1}})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "ingredients", verr.Field)
}

func TestRecipeService_AnonymousFlagsAreFalse(t *testing.T) {
	ctx := context.Background()
	svc, m := newRecipeService()
	author := models.User{ID: 1}

	m.recipes.On("List", ctx, domain.RecipeFilter{}, domain.Page{Number: 1, Limit: 6}).
		Return([]models.Recipe{*storedRecipe(author)}, int64(1), nil).Once()
	m.favorites.On("Marked", ctx, uint(0), []uint{10}).Return(map[uint]bool{}, nil)
	m.carts.On("Marked", ctx, uint(0), []uint{10}).Return(map[uint]bool{}, nil)
	m.subs.On("SubscribedAuthors", ctx, uint(0), []uint{1}).Return(map[uint]bool{}, nil)

	// Viewer-scoped filters are dropped for anonymous callers.
	filter := domain.RecipeFilter{FavoritedBy: 5, InShoppingCartOf: 5}
	recipes, count, err := svc.List(ctx, nil, filter, domain.Page{Number: 1, Limit: 6})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, recipes, 1)
	assert.False(t, recipes[0].IsFavorited)
	assert.False(t, recipes[0].IsInShoppingCart)
	assert.False(t, recipes[0].Author.IsSubscribed)
	m.recipes.AssertExpectations(t)
}

var _ events.Publisher = (*MockPublisher)(nil)
