package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrLinkNotFound       = errors.New("link not found")

	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrSelfSubscription   = errors.New("you cannot subscribe to yourself")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrUserExists         = errors.New("a user with that email or username already exists")
)

// ValidationError reports the first invalid field of a payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError is returned when an engagement toggle hits an association
// that already exists (add) or does not exist (remove).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflict formats a ConflictError.
func NewConflict(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err wraps one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecipeNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrIngredientNotFound) ||
		errors.Is(err, ErrTagNotFound) ||
		errors.Is(err, ErrLinkNotFound)
}
