package ledger

import "errors"

// Store errors.
var (
	// ErrInvalidPage is returned when a page request has a
	// non-positive size or a negative index.
	ErrInvalidPage = errors.New("invalid page request")
)
