package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

// UserRepository is an in-memory implementation of repositories.UserRepository.
// It backs local development (USER_STORE=memory) and handler tests.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entities.User // email -> user
}

var _ repositories.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates an empty in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]*entities.User),
	}
}

// Create implements repositories.UserRepository
func (m *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.Email]; exists {
		return repositories.ErrDuplicate
	}

	stored := *user
	m.users[user.Email] = &stored
	return nil
}

// GetByEmail implements repositories.UserRepository
func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[email]
	if !exists {
		return nil, repositories.ErrNotFound
	}

	found := *user
	return &found, nil
}

// Count returns the number of stored users
func (m *UserRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
