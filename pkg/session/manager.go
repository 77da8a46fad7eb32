package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/txn2/ledger/pkg/identity"
)

// Manager binds login names to opaque client tokens. Identity is only
// ever inferred from the token; handlers never derive it any other way.
type Manager struct {
	store      Store
	identities identity.Store
	ttl        time.Duration
}

// NewManager creates a session manager over the given stores.
func NewManager(store Store, identities identity.Store, ttl time.Duration) *Manager {
	return &Manager{
		store:      store,
		identities: identities,
		ttl:        ttl,
	}
}

// Login finds or creates the user with the given name and binds it to
// a fresh session. It returns the new token; any previous session for
// the supplied token is discarded so stale state cannot leak across
// identities.
func (m *Manager) Login(ctx context.Context, oldToken, name string) (string, error) {
	user, err := identity.FindOrCreate(ctx, m.identities, name)
	if err != nil {
		return "", fmt.Errorf("resolving identity: %w", err)
	}

	if oldToken != "" {
		_ = m.store.Delete(ctx, oldToken)
	}

	token := uuid.NewString()
	now := time.Now()
	sess := &Session{
		Token:        token,
		Name:         user.Name,
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    now.Add(m.ttl),
	}
	if err := m.store.Create(ctx, sess); err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}

	slog.Debug("session: login", "name", user.Name)
	return token, nil
}

// Logout invalidates the entire per-client context for the token.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Identity resolves the token to its user. Returns nil for anonymous
// clients, unknown tokens, and expired sessions. A session referencing
// a name the Identity Store no longer knows is treated as anonymous.
func (m *Manager) Identity(ctx context.Context, token string) (*identity.User, error) {
	if token == "" {
		return nil, nil //nolint:nilnil // anonymous client
	}

	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if sess == nil || sess.Name == "" {
		return nil, nil //nolint:nilnil // anonymous client
	}

	user, err := m.identities.FindByName(ctx, sess.Name)
	if err != nil {
		return nil, fmt.Errorf("resolving session identity: %w", err)
	}

	_ = m.store.Touch(ctx, token)
	return user, nil
}
