package domain

import "time"

// Event types published after successful writes.
const (
	EventRecipeCreated       = "recipe.created"
	EventFavoriteAdded       = "favorite.added"
	EventSubscriptionCreated = "subscription.created"
)

// Event is the message body published to the broker.
type Event struct {
	Type        string    `json:"type"`
	UserID      uint      `json:"user_id,omitempty"`
	Username    string    `json:"username,omitempty"`
	RecipeID    uint      `json:"recipe_id,omitempty"`
	RecipeName  string    `json:"recipe_name,omitempty"`
	AuthorID    uint      `json:"author_id,omitempty"`
	AuthorEmail string    `json:"author_email,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
