package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the persistence contract for users
type UserRepository interface {
	// Save persists a user (create or update)
	Save(ctx context.Context, user *User) error

	// FindByID retrieves a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail retrieves a user by email address
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks whether an account already uses the email
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
