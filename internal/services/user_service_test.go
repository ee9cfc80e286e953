package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userMocks struct {
	users     *MockUserRepository
	subs      *MockSubscriptionRepository
	recipes   *MockRecipeRepository
	media     *MockStorage
	publisher *MockPublisher
}

func newUserService() (*services.UserService, *userMocks) {
	m := &userMocks{
		users:     new(MockUserRepository),
		subs:      new(MockSubscriptionRepository),
		recipes:   new(MockRecipeRepository),
		media:     new(MockStorage),
		publisher: new(MockPublisher),
	}
	return services.NewUserService(m.users, m.subs, m.recipes, m.media, m.publisher), m
}

func TestUserService_SelfSubscriptionAlwaysRejected(t *testing.T) {
	ctx := context.Background()
	svc, m := newUserService()
	me := &models.User{ID: 5}

	_, err := svc.Subscribe(ctx, me, 5, 0)
	assert.ErrorIs(t, err, domain.ErrSelfSubscription)
	assert.ErrorIs(t, svc.Unsubscribe(ctx, me, 5), domain.ErrSelfSubscription)

	m.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	m.subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Subscribe(t *testing.T) {
	ctx := context.Background()
	svc, m := newUserService()
	me := &models.User{ID: 5, Username: "fan"}
	author := &models.User{ID: 1, Username: "chef", Email: "chef@example.com"}

	m.users.On("GetByID", ctx, uint(1)).Return(author, nil)
	m.subs.On("Create", ctx, uint(5), uint(1)).Return(nil).Once()
	m.publisher.On("Publish", ctx, mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventSubscriptionCreated && e.Username == "fan" && e.AuthorEmail == "chef@example.com"
	})).Return(nil).Once()
	m.recipes.On("ListByAuthor", ctx, uint(1), 2).Return([]models.Recipe{{ID: 3, Name: "Soup", CookingTime: 5}}, nil).Once()
	m.recipes.On("CountByAuthor", ctx, uint(1)).Return(int64(4), nil).Once()

	resp, err := svc.Subscribe(ctx, me, 1, 2)
	require.NoError(t, err)
	assert.True(t, resp.IsSubscribed)
	assert.Equal(t, "chef", resp.Username)
	assert.Equal(t, int64(4), resp.RecipesCount)
	require.Len(t, resp.Recipes, 1)
	assert.Equal(t, "Soup", resp.Recipes[0].Name)

	m.subs.On("Create", ctx, uint(5), uint(1)).Return(repositories.ErrDuplicate).Once()
	_, err = svc.Subscribe(ctx, me, 1, 2)
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Contains(t, conflict.Message, "already subscribed to chef")

	m.subs.On("Delete", ctx, uint(5), uint(1)).Return(false, nil).Once()
	err = svc.Unsubscribe(ctx, me, 1)
	require.True(t, errors.As(err, &conflict))
	assert.Contains(t, conflict.Message, "not subscribed")

	m.users.On("GetByID", ctx, uint(99)).Return(nil, domain.ErrUserNotFound)
	_, err = svc.Subscribe(ctx, me, 99, 0)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	m.subs.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()
	svc, m := newUserService()
	author := &models.User{ID: 1, Username: "chef", Avatar: "users/avatars/a.png"}
	m.users.On("GetByID", ctx, uint(1)).Return(author, nil)
	m.subs.On("Exists", ctx, uint(5), uint(1)).Return(true, nil).Once()

	anon, err := svc.Profile(ctx, nil, 1)
	require.NoError(t, err)
	assert.False(t, anon.IsSubscribed)
	assert.Equal(t, "/media/users/avatars/a.png", anon.Avatar)

	seen, err := svc.Profile(ctx, &models.User{ID: 5}, 1)
	require.NoError(t, err)
	assert.True(t, seen.IsSubscribed)
}

func TestUserService_Avatar(t *testing.T) {
	ctx := context.Background()
	svc, m := newUserService()
	me := &models.User{ID: 5, Avatar: "users/avatars/old.png"}

	_, err := svc.SetAvatar(ctx, me, "not a data uri")
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "avatar", verr.Field)

	m.media.On("Put", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "users/avatars/")
	}), mock.Anything, "image/png").Return(nil).Once()
	m.users.On("UpdateAvatar", ctx, uint(5), mock.AnythingOfType("string")).Return(nil).Once()
	m.media.On("Delete", ctx, "users/avatars/old.png").Return(nil).Once()

	url, err := svc.SetAvatar(ctx, me, pixelPNG)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/users/avatars/"))
	assert.NotEqual(t, "users/avatars/old.png", me.Avatar)

	newKey := me.Avatar
	m.users.On("UpdateAvatar", ctx, uint(5), "").Return(nil).Once()
	m.media.On("Delete", ctx, newKey).Return(nil).Once()
	require.NoError(t, svc.DeleteAvatar(ctx, me))
	assert.Empty(t, me.Avatar)

	m.users.AssertExpectations(t)
	m.media.AssertExpectations(t)
}
