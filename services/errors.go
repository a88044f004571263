package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors surfaced by every service. Handlers match with errors.Is
// and map them to HTTP statuses.
var (
	ErrValidation       = errors.New("invalid input")
	ErrDuplicateHabit   = errors.New("habit with this name already exists")
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("operation not allowed")
	ErrTimeout          = errors.New("store timeout")
	ErrUpstream         = errors.New("store failure")
)

// storeErr classifies a raw database error into the sentinel taxonomy,
// keeping the original cause in the chain.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %v", op, ErrTimeout, err)
	default:
		return fmt.Errorf("%s: %w: %v", op, ErrUpstream, err)
	}
}
