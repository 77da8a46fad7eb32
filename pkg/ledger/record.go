// Package ledger defines the append-only record collection and the
// Store interface for record persistence. A Record generalizes the
// entries the service lists: a purchase, an event, any timestamped
// line item optionally owned by a user.
package ledger

import (
	"context"
	"time"
)

// Order selects the total ordering used when paging records.
type Order int

const (
	// ByTimeDesc orders records newest first, for chronological listings.
	ByTimeDesc Order = iota

	// ByIDAsc orders records by surrogate key, for filtered listings.
	ByIDAsc
)

// Record is an immutable ledger entry. Records are only ever appended,
// never updated or deleted.
type Record struct {
	// ID is the surrogate key assigned by the store on append.
	ID int64 `json:"id"`

	// Payload is the record text (description for purchases, message for events).
	Payload string `json:"payload"`

	// Category is the optional exact-match filter key. Empty means uncategorized.
	Category string `json:"category,omitempty"`

	// CreatedAt is when the record was appended.
	CreatedAt time.Time `json:"created_at"`

	// OwnerID references the owning user, or 0 for anonymous records.
	OwnerID int64 `json:"owner_id,omitempty"`
}

// PageRequest addresses one page of the ordered record collection.
type PageRequest struct {
	// Category restricts the page to records with exactly this category.
	// Nil means no filter.
	Category *string

	// Index is the zero-based page index.
	Index int

	// Size is the number of records per page.
	Size int

	// Order is the total ordering to page over.
	Order Order
}

// Store defines the interface for record persistence.
type Store interface {
	// Append persists a new record and returns its assigned ID.
	Append(ctx context.Context, rec Record) (int64, error)

	// Page returns the records at offset Index*Size through
	// Index*Size+Size-1 in the requested order, and whether at least
	// one record exists past that range. Returns ErrInvalidPage for
	// a non-positive size or negative index.
	Page(ctx context.Context, req PageRequest) ([]Record, bool, error)

	// Close releases store resources.
	Close() error
}
