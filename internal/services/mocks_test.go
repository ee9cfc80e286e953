package services_test

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, page domain.Page) ([]models.User, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, id uint, avatar string) error {
	return m.Called(ctx, id, avatar).Error(0)
}

// MockSubscriptionRepository is a mock implementation of repositories.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, userID, authorID uint) error {
	return m.Called(ctx, userID, authorID).Error(0)
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, userID, authorID uint) (bool, error) {
	args := m.Called(ctx, userID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	args := m.Called(ctx, userID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) SubscribedAuthors(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	args := m.Called(ctx, userID, authorIDs)
	return args.Get(0).(map[uint]bool), args.Error(1)
}

func (m *MockSubscriptionRepository) ListAuthors(ctx context.Context, userID uint, page domain.Page) ([]models.User, int64, error) {
	args := m.Called(ctx, userID, page)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

// MockRecipeRepository is a mock implementation of repositories.RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *models.Recipe, lines []models.IngredientInRecipe, tagIDs []uint) error {
	return m.Called(ctx, recipe, lines, tagIDs).Error(0)
}

func (m *MockRecipeRepository) Update(ctx context.Context, recipe *models.Recipe, lines []models.IngredientInRecipe, tagIDs []uint) error {
	return m.Called(ctx, recipe, lines, tagIDs).Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) List(ctx context.Context, filter domain.RecipeFilter, page domain.Page) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]models.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	args := m.Called(ctx, authorID, limit)
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

// MockMarkRepository is a mock implementation of repositories.ShoppingCartRepository,
// and therefore of repositories.RecipeMarkRepository too.
type MockMarkRepository struct {
	mock.Mock
}

func (m *MockMarkRepository) Add(ctx context.Context, userID, recipeID uint) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockMarkRepository) Remove(ctx context.Context, userID, recipeID uint) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMarkRepository) Exists(ctx context.Context, userID, recipeID uint) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMarkRepository) Marked(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	args := m.Called(ctx, userID, recipeIDs)
	return args.Get(0).(map[uint]bool), args.Error(1)
}

func (m *MockMarkRepository) IngredientTotals(ctx context.Context, userID uint) ([]domain.ShoppingListLine, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.ShoppingListLine), args.Error(1)
}

// MockLinkRepository is a mock implementation of repositories.LinkRepository
type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) GetByRecipeID(ctx context.Context, recipeID uint) (*models.Link, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

func (m *MockLinkRepository) GetByShortCode(ctx context.Context, code string) (*models.Link, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

func (m *MockLinkRepository) Create(ctx context.Context, link *models.Link) error {
	return m.Called(ctx, link).Error(0)
}

// MockIngredientRepository is a mock implementation of repositories.IngredientRepository
type MockIngredientRepository struct {
	mock.Mock
}

func (m *MockIngredientRepository) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	args := m.Called(ctx, namePrefix)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) GetByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) ExistingIDs(ctx context.Context, ids []uint) (map[uint]bool, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uint]bool), args.Error(1)
}

func (m *MockIngredientRepository) CreateBatch(ctx context.Context, items []models.Ingredient) error {
	return m.Called(ctx, items).Error(0)
}

// MockTagRepository is a mock implementation of repositories.TagRepository
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) List(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagRepository) ExistingIDs(ctx context.Context, ids []uint) (map[uint]bool, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uint]bool), args.Error(1)
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return m.Called(ctx, tag).Error(0)
}

// MockStorage is a mock implementation of storage.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStorage) URL(key string) string {
	if key == "" {
		return ""
	}
	return "/media/" + key
}

// MockPublisher is a mock implementation of events.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event domain.Event) error {
	return m.Called(ctx, event).Error(0)
}
