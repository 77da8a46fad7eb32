// Package identity defines users and the Store interface for identity
// persistence. Users are created on first login with an unseen name and
// are never mutated or deleted.
package identity

import (
	"context"
	"time"
)

// User is an identity keyed by its unique name.
type User struct {
	// ID is the surrogate key assigned by the store on create.
	ID int64 `json:"id"`

	// Name is the unique login name.
	Name string `json:"name"`

	// CreatedAt is when the user first logged in.
	CreatedAt time.Time `json:"created_at"`
}

// Store defines the interface for identity persistence.
type Store interface {
	// FindByName retrieves a user by name. Returns nil, nil if no user
	// with that name exists.
	FindByName(ctx context.Context, name string) (*User, error)

	// Create persists a new user. Two concurrent creates with the same
	// unseen name may race; implementations resolve the uniqueness
	// conflict by returning the existing user instead of an error, so
	// login stays idempotent.
	Create(ctx context.Context, name string) (*User, error)

	// Close releases store resources.
	Close() error
}

// FindOrCreate implements the login lookup: reuse the user with the
// given name, or create it on first sight. Never produces duplicates.
func FindOrCreate(ctx context.Context, store Store, name string) (*User, error) {
	user, err := store.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	return store.Create(ctx, name)
}
