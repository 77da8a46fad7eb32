// Package postgres provides PostgreSQL storage for identities.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/txn2/ledger/pkg/identity"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint
// violation.
const uniqueViolation = "23505"

// Store implements identity.Store using PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL identity store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindByName retrieves a user by name. Returns nil, nil if not found.
func (s *Store) FindByName(ctx context.Context, name string) (*identity.User, error) {
	query := `SELECT id, name, created_at FROM users WHERE name = $1`

	var user identity.User
	err := s.db.QueryRowContext(ctx, query, name).Scan(&user.ID, &user.Name, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // Store interface specifies nil,nil for not-found
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by name: %w", err)
	}
	return &user, nil
}

// Create persists a new user. Two concurrent creates with the same
// unseen name both pass the caller's existence check; the loser of the
// race hits the unique constraint and resolves to the winner's row.
func (s *Store) Create(ctx context.Context, name string) (*identity.User, error) {
	query := `
		INSERT INTO users (name, created_at)
		VALUES ($1, NOW())
		RETURNING id, name, created_at
	`

	var user identity.User
	err := s.db.QueryRowContext(ctx, query, name).Scan(&user.ID, &user.Name, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			existing, findErr := s.FindByName(ctx, name)
			if findErr != nil {
				return nil, findErr
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	return &user, nil
}

// Close releases store resources. The underlying *sql.DB is shared and
// closed by the owner.
func (*Store) Close() error {
	return nil
}

// Verify interface compliance.
var _ identity.Store = (*Store)(nil)
