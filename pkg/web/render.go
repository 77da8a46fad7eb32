package web

import (
	"encoding/json"
	"net/http"

	"github.com/txn2/ledger/pkg/identity"
	"github.com/txn2/ledger/pkg/listing"
)

// ListingView is the statically typed result handed to the rendering
// collaborator for the listing route.
type ListingView struct {
	listing.Result

	// User is the session identity, nil for anonymous clients.
	User *identity.User `json:"user,omitempty"`
}

// Renderer produces the response body for the listing route. Rendering
// proper (HTML, styling) is an external collaborator; it consumes the
// view through its defined fields.
type Renderer interface {
	RenderListing(w http.ResponseWriter, view ListingView) error
}

// JSONRenderer renders views as JSON.
type JSONRenderer struct{}

// RenderListing writes the listing view as a JSON document.
func (JSONRenderer) RenderListing(w http.ResponseWriter, view ListingView) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(view)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Verify interface compliance.
var _ Renderer = JSONRenderer{}
