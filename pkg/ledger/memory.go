package ledger

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore implements Store using a mutex-guarded slice. It backs
// the service when no database is configured and keeps handler and
// service tests free of SQL.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	nextID  int64
}

// NewMemoryStore creates an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// Append persists a new record and returns its assigned ID.
func (s *MemoryStore) Append(_ context.Context, rec Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = s.nextID
	s.nextID++
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.records = append(s.records, rec)
	return rec.ID, nil
}

// Page returns one page of records in the requested order plus a
// has-more flag.
func (s *MemoryStore) Page(_ context.Context, req PageRequest) ([]Record, bool, error) {
	if req.Size <= 0 || req.Index < 0 {
		return nil, false, ErrInvalidPage
	}

	s.mu.RLock()
	matched := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		if req.Category != nil && rec.Category != *req.Category {
			continue
		}
		matched = append(matched, rec)
	}
	s.mu.RUnlock()

	switch req.Order {
	case ByTimeDesc:
		sort.SliceStable(matched, func(i, j int) bool {
			if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
				return matched[i].CreatedAt.After(matched[j].CreatedAt)
			}
			// Ties break on ID so paging stays deterministic.
			return matched[i].ID > matched[j].ID
		})
	case ByIDAsc:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].ID < matched[j].ID
		})
	}

	offset := req.Index * req.Size
	if offset >= len(matched) {
		return []Record{}, false, nil
	}

	end := offset + req.Size
	hasNext := end < len(matched)
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]Record, end-offset)
	copy(page, matched[offset:end])
	return page, hasNext, nil
}

// Close releases store resources.
func (*MemoryStore) Close() error {
	return nil
}

// Verify interface compliance.
var _ Store = (*MemoryStore)(nil)
