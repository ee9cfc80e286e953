package repositories

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, page domain.Page) ([]models.User, int64, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
	UpdateAvatar(ctx context.Context, id uint, avatar string) error
}

// SubscriptionRepository defines the interface for subscriber -> author links.
type SubscriptionRepository interface {
	Create(ctx context.Context, userID, authorID uint) error
	Delete(ctx context.Context, userID, authorID uint) (bool, error)
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
	// SubscribedAuthors reports which of authorIDs userID is subscribed to.
	SubscribedAuthors(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
	ListAuthors(ctx context.Context, userID uint, page domain.Page) ([]models.User, int64, error)
}
