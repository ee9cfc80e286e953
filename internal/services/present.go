package services

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/events"
	"foodgram/internal/models"
	"foodgram/pkg/storage"

	"github.com/rs/zerolog/log"
)

func userResponse(u *models.User, subscribed bool, media storage.Storage) domain.UserResponse {
	return domain.UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Avatar:       media.URL(u.Avatar),
		IsSubscribed: subscribed,
	}
}

func recipeShort(r *models.Recipe, media storage.Storage) domain.RecipeShort {
	return domain.RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       media.URL(r.Image),
		CookingTime: r.CookingTime,
	}
}

func viewerID(viewer *models.User) uint {
	if viewer == nil {
		return 0
	}
	return viewer.ID
}

// publish never fails the caller: the write it reports has already been committed.
func publish(ctx context.Context, p events.Publisher, event domain.Event) {
	if err := p.Publish(ctx, event); err != nil {
		log.Error().Err(err).Str("event", event.Type).Msg("failed to publish event")
	}
}

func deleteBlob(ctx context.Context, media storage.Storage, key string) {
	if key == "" {
		return
	}
	if err := media.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to delete media")
	}
}
