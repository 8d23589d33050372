package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain"
	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
	"github.com/satriahrh/suara/internal/auth"
)

const (
	msgRegisterFieldsRequired = "Email, password, and name are required"
	msgLoginFieldsRequired    = "Email and password are required"
	msgUserExists             = "User already exists"
	msgInvalidCredentials     = "Invalid credentials"
	msgUserNotFound           = "User not found"
	msgPasswordTooLong        = "Password must be at most 72 bytes"
)

// TokenIssuer issues identity tokens bound to an email
type TokenIssuer interface {
	GenerateUserToken(email string) (string, time.Time, error)
}

// LoginResult is returned by a successful login
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *entities.User
}

// UserService handles registration, login and profile lookups
type UserService struct {
	users  repositories.UserRepository
	hasher auth.PasswordHasher
	tokens TokenIssuer
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository, hasher auth.PasswordHasher, tokens TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Register stores a new user with a hashed password
func (s *UserService) Register(ctx context.Context, email, password, name string) (*entities.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, domain.NewValidationError(msgRegisterFieldsRequired)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, domain.NewValidationError(msgPasswordTooLong)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entities.NewUser(email, hash, name)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, domain.NewConflictError(msgUserExists)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("email", email))
	return user, nil
}

// Login checks the credentials and issues an access token
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError(msgLoginFieldsRequired)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, domain.NewAuthError(msgInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Verify(password, user.PasswordHash); err != nil {
		s.logger.Info("Login rejected", zap.String("email", email))
		return nil, domain.NewAuthError(msgInvalidCredentials)
	}

	token, expiresAt, err := s.tokens.GenerateUserToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Profile returns the user identified by email
func (s *UserService) Profile(ctx context.Context, email string) (*entities.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, domain.NewNotFoundError(msgUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// CurrentUser resolves an optional identity. It returns nil for anonymous callers,
// unknown users and lookup failures.
func (s *UserService) CurrentUser(ctx context.Context, email string) *entities.User {
	if email == "" {
		return nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.logger.Warn("Failed to resolve current user",
				zap.String("email", email),
				zap.Error(err))
		}
		return nil
	}
	return user
}
