package repository

import (
	"context" // Request-scoped cancellation
	"errors"  // Error inspection

	"finflow/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// UserRepository reads and writes rows of the users table
type UserRepository struct {
	db *gorm.DB // Connection pool, owned by the caller
}

// NewUserRepository creates a UserRepository on top of db
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail looks a user up by exact email. A missing user is a NotFound error.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("User not found")
	}
	if err != nil {
		return nil, domain.Internal("Failed to find user", err)
	}
	return &user, nil
}

// Create inserts user and fills in its generated ID and timestamps.
// A unique violation on email is reported as Conflict.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if isDuplicateKey(err) {
		return domain.Conflict("User already exists")
	}
	if err != nil {
		return domain.Internal("Failed to create user", err)
	}
	return nil
}
