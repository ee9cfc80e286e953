package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when a write violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// translate maps driver-level uniqueness errors onto ErrDuplicate and wraps
// everything else with op.
func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}
