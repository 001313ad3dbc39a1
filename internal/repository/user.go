package repository

import (
	"context"

	"docvault/internal/model"
)

// UserCounts aggregates account totals for the admin dashboard.
type UserCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// UserRepository defines data access for user accounts.
type UserRepository interface {
	// Create inserts a new user row and returns the stored record.
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// FindByID returns a user by ID.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by exact email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]model.User, error)

	// Update overwrites name, email, role and status of an existing user.
	Update(ctx context.Context, user *model.User) (*model.User, error)

	// Delete removes a user by ID. Author references on documents and
	// versions are nullified by the schema's ON DELETE SET NULL.
	Delete(ctx context.Context, id string) error

	// EmailExists reports whether another user (excluding excludeID, which
	// may be empty) already has the given email.
	EmailExists(ctx context.Context, email, excludeID string) (bool, error)

	// Counts returns total/active/inactive account counts.
	Counts(ctx context.Context) (*UserCounts, error)
}
