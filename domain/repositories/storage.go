package repositories

import (
	"context"
	"errors"

	"github.com/satriahrh/suara/domain/entities"
)

var (
	// ErrNotFound is returned when no document matches the lookup key
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates the unique key
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository defines data access methods for users
type UserRepository interface {
	// Create inserts the user, failing with ErrDuplicate when the email is taken
	Create(ctx context.Context, user *entities.User) error
	// GetByEmail returns ErrNotFound when no user has that email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}
