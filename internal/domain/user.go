package domain

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=6,max=150"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SetPasswordRequest changes the caller's password.
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=6,max=150"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

// AvatarRequest carries a base64 data-URI image.
type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

// UserCreatedResponse is returned from registration.
type UserCreatedResponse struct {
	Email     string `json:"email"`
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserResponse is the public shape of a user as seen by a viewer.
type UserResponse struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Avatar       string `json:"avatar"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// SubscriptionResponse is an author as listed in the viewer's subscriptions.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

// Page is a window into a listing.
type Page struct {
	Number int
	Limit  int
}

// Offset is the number of rows skipped before the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}
