package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodgram/internal/domain"
	"foodgram/internal/events"
	"foodgram/internal/metrics"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/pkg/imagefield"
	"foodgram/pkg/storage"

	"github.com/rs/zerolog/log"
)

const avatarDir = "users/avatars"

// UserService serves profiles, avatars and subscriptions.
type UserService struct {
	users     repositories.UserRepository
	subs      repositories.SubscriptionRepository
	recipes   repositories.RecipeRepository
	media     storage.Storage
	publisher events.Publisher
}

// NewUserService creates a new UserService.
func NewUserService(
	users repositories.UserRepository,
	subs repositories.SubscriptionRepository,
	recipes repositories.RecipeRepository,
	media storage.Storage,
	publisher events.Publisher,
) *UserService {
	return &UserService{
		users:     users,
		subs:      subs,
		recipes:   recipes,
		media:     media,
		publisher: publisher,
	}
}

// Me renders the caller's own profile.
func (s *UserService) Me(viewer *models.User) domain.UserResponse {
	return userResponse(viewer, false, s.media)
}

// Profile renders user id as seen by viewer (nil for anonymous).
func (s *UserService) Profile(ctx context.Context, viewer *models.User, id uint) (domain.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}
	subscribed, err := s.isSubscribed(ctx, viewer, id)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return userResponse(user, subscribed, s.media), nil
}

// List returns one page of users.
func (s *UserService) List(ctx context.Context, viewer *models.User, page domain.Page) ([]domain.UserResponse, int64, error) {
	users, count, err := s.users.List(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	subscribed, err := s.subs.SubscribedAuthors(ctx, viewerID(viewer), ids)
	if err != nil {
		return nil, 0, err
	}
	result := make([]domain.UserResponse, len(users))
	for i := range users {
		result[i] = userResponse(&users[i], subscribed[users[i].ID], s.media)
	}
	return result, count, nil
}

func (s *UserService) isSubscribed(ctx context.Context, viewer *models.User, authorID uint) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	return s.subs.Exists(ctx, viewer.ID, authorID)
}

// Subscribe makes viewer follow authorID. recipesLimit caps the recipes
// embedded in the response; <= 0 embeds all of them.
func (s *UserService) Subscribe(ctx context.Context, viewer *models.User, authorID uint, recipesLimit int) (*domain.SubscriptionResponse, error) {
	if viewer.ID == authorID {
		return nil, domain.ErrSelfSubscription
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if err := s.subs.Create(ctx, viewer.ID, authorID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, domain.NewConflict("You are already subscribed to %s", author.Username)
		}
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	metrics.EngagementToggles.WithLabelValues("subscription", "add").Inc()
	log.Info().Uint("user_id", viewer.ID).Uint("author_id", authorID).Msg("subscription created")

	publish(ctx, s.publisher, domain.Event{
		Type:        domain.EventSubscriptionCreated,
		UserID:      viewer.ID,
		Username:    viewer.Username,
		AuthorID:    author.ID,
		AuthorEmail: author.Email,
		OccurredAt:  time.Now().UTC(),
	})

	resp, err := s.subscriptionResponse(ctx, author, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Unsubscribe removes the viewer's subscription to authorID.
func (s *UserService) Unsubscribe(ctx context.Context, viewer *models.User, authorID uint) error {
	if viewer.ID == authorID {
		return domain.ErrSelfSubscription
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return err
	}
	deleted, err := s.subs.Delete(ctx, viewer.ID, authorID)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	if !deleted {
		return domain.NewConflict("You are not subscribed to %s", author.Username)
	}
	metrics.EngagementToggles.WithLabelValues("subscription", "remove").Inc()
	return nil
}

// Subscriptions lists the authors viewer follows, each with their recipes.
func (s *UserService) Subscriptions(ctx context.Context, viewer *models.User, page domain.Page, recipesLimit int) ([]domain.SubscriptionResponse, int64, error) {
	authors, count, err := s.subs.ListAuthors(ctx, viewer.ID, page)
	if err != nil {
		return nil, 0, err
	}
	result := make([]domain.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		resp, err := s.subscriptionResponse(ctx, &authors[i], recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, resp)
	}
	return result, count, nil
}

func (s *UserService) subscriptionResponse(ctx context.Context, author *models.User, recipesLimit int) (domain.SubscriptionResponse, error) {
	recipes, err := s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	total, err := s.recipes.CountByAuthor(ctx, author.ID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	shorts := make([]domain.RecipeShort, len(recipes))
	for i := range recipes {
		shorts[i] = recipeShort(&recipes[i], s.media)
	}
	return domain.SubscriptionResponse{
		UserResponse: userResponse(author, true, s.media),
		Recipes:      shorts,
		RecipesCount: total,
	}, nil
}

// AvatarURL returns the public URL of the viewer's avatar, empty when unset.
func (s *UserService) AvatarURL(viewer *models.User) string {
	return s.media.URL(viewer.Avatar)
}

// SetAvatar stores a new avatar from a data URI and drops the previous one.
func (s *UserService) SetAvatar(ctx context.Context, viewer *models.User, dataURI string) (string, error) {
	img, err := imagefield.Decode(dataURI)
	if err != nil {
		return "", domain.NewValidationError("avatar", err.Error())
	}
	key := storage.NewKey(avatarDir, img.Extension)
	if err := s.media.Put(ctx, key, img.Data, img.ContentType); err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}
	if err := s.users.UpdateAvatar(ctx, viewer.ID, key); err != nil {
		deleteBlob(ctx, s.media, key)
		return "", err
	}
	deleteBlob(ctx, s.media, viewer.Avatar)
	viewer.Avatar = key
	return s.media.URL(key), nil
}

// DeleteAvatar clears the viewer's avatar.
func (s *UserService) DeleteAvatar(ctx context.Context, viewer *models.User) error {
	if viewer.Avatar == "" {
		return nil
	}
	if err := s.users.UpdateAvatar(ctx, viewer.ID, ""); err != nil {
		return err
	}
	deleteBlob(ctx, s.media, viewer.Avatar)
	viewer.Avatar = ""
	return nil
}
