// Package listing computes pages of ledger records plus the metadata a
// renderer needs to build a "Next" link. The service is stateless: all
// paging state arrives in the request and is echoed back, so the filter
// travels through every subsequent page link instead of getting lost
// after the first page.
package listing

import (
	"context"

	"github.com/txn2/ledger/pkg/ledger"
)

// DefaultPageSize is used when the service is configured with a
// non-positive page size.
const DefaultPageSize = 10

// Request addresses one page of the listing.
type Request struct {
	// Category restricts the listing to records with exactly this
	// category. Nil means no filter.
	Category *string

	// Page is the zero-based page index. Negative values clamp to 0.
	Page int
}

// Result is one page of the listing plus next-link metadata. It is a
// statically typed structure consumed by the rendering collaborator via
// its field names, never via reflection.
type Result struct {
	// Items are the records on this page, in listing order.
	Items []ledger.Record `json:"items"`

	// Category echoes the request filter so the renderer threads it
	// into the next-page link.
	Category *string `json:"category,omitempty"`

	// Page is the zero-based index of this page.
	Page int `json:"page"`

	// NextPage is always Page+1; it is only meaningful when HasNext.
	NextPage int `json:"next_page"`

	// HasNext reports whether at least one record exists past this page.
	HasNext bool `json:"has_next"`
}

// Service computes listing pages from a record store.
type Service struct {
	records  ledger.Store
	pageSize int
}

// NewService creates a listing service with the given page size.
func NewService(records ledger.Store, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		records:  records,
		pageSize: pageSize,
	}
}

// PageSize returns the configured page size.
func (s *Service) PageSize() int {
	return s.pageSize
}

// List returns the requested page. Filtered listings page in surrogate
// key order; unfiltered listings page newest first.
func (s *Service) List(ctx context.Context, req Request) (Result, error) {
	page := req.Page
	if page < 0 {
		page = 0
	}

	order := ledger.ByTimeDesc
	if req.Category != nil {
		order = ledger.ByIDAsc
	}

	items, hasNext, err := s.records.Page(ctx, ledger.PageRequest{
		Category: req.Category,
		Index:    page,
		Size:     s.pageSize,
		Order:    order,
	})
	if err != nil {
		return Result{}, err
	}

	if items == nil {
		items = []ledger.Record{}
	}

	return Result{
		Items:    items,
		Category: req.Category,
		Page:     page,
		NextPage: page + 1,
		HasNext:  hasNext,
	}, nil
}
