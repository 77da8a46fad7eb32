// Package session provides per-client session state. It defines the
// Store interface for session persistence, the TTL-based in-memory
// implementation, and the Manager that binds login names to opaque
// client tokens.
package session

import (
	"context"
	"time"
)

// Session represents one client's ephemeral context. It holds at most
// one authenticated identity and is cleared as a whole on logout.
type Session struct {
	// Token is the opaque per-client identifier carried in the cookie.
	Token string

	// Name is the login name bound to this client, empty for anonymous.
	Name string

	// CreatedAt is when the session was established.
	CreatedAt time.Time

	// LastActiveAt is the most recent activity timestamp.
	LastActiveAt time.Time

	// ExpiresAt is when the session expires if not touched.
	ExpiresAt time.Time
}

// Store defines the interface for session persistence. Sessions never
// outlive the process; the only implementation is in-memory.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by token. Returns nil, nil if not found
	// or expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Touch updates LastActiveAt and extends ExpiresAt by the store's TTL.
	Touch(ctx context.Context, token string) error

	// Delete removes a session and all state associated with it.
	Delete(ctx context.Context, token string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error

	// Close stops background routines and releases resources.
	Close() error
}
