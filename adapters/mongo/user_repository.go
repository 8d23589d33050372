package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/domain/repositories"
)

const usersCollection = "users"

// UserRepository implements repositories.UserRepository on the users collection
type UserRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

var _ repositories.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates the repository and ensures the unique email index exists
func NewUserRepository(ctx context.Context, db *mongo.Database, logger *zap.Logger) (*UserRepository, error) {
	collection := db.Collection(usersCollection)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	}
	if _, err := collection.Indexes().CreateOne(ctx, emailIndex); err != nil {
		return nil, fmt.Errorf("failed to create users email index: %w", err)
	}

	return &UserRepository{
		collection: collection,
		logger:     logger,
	}, nil
}

// Create implements repositories.UserRepository
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	if err := user.Validate(); err != nil {
		return err
	}

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicate
		}
		r.logger.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("User created", zap.String("user_id", user.ID))
	return nil
}

// GetByEmail implements repositories.UserRepository
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		r.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
