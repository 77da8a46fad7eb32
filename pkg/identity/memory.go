package identity

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store using an in-memory map keyed by name.
type MemoryStore struct {
	mu     sync.RWMutex
	byName map[string]*User
	nextID int64
}

// NewMemoryStore creates an empty in-memory identity store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byName: make(map[string]*User),
		nextID: 1,
	}
}

// FindByName retrieves a user by name. Returns nil, nil if not found.
func (s *MemoryStore) FindByName(_ context.Context, name string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byName[name]
	if !ok {
		return nil, nil //nolint:nilnil // Store interface specifies nil,nil for not-found
	}
	copied := *user
	return &copied, nil
}

// Create persists a new user. A concurrent create with the same name
// resolves to the existing user under the store mutex.
func (s *MemoryStore) Create(_ context.Context, name string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byName[name]; ok {
		copied := *existing
		return &copied, nil
	}

	user := &User{
		ID:        s.nextID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.byName[name] = user

	copied := *user
	return &copied, nil
}

// Close releases store resources.
func (*MemoryStore) Close() error {
	return nil
}

// Verify interface compliance.
var _ Store = (*MemoryStore)(nil)
