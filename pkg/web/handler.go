// Package web provides the HTTP handlers for the ledger service: the
// listing route, the login/logout pair, and record creation. Handlers
// are stateless orchestration; paging state lives in query parameters
// and identity lives in the session cookie.
package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/txn2/ledger/pkg/ledger"
	"github.com/txn2/ledger/pkg/listing"
	"github.com/txn2/ledger/pkg/session"
)

const (
	// sessionCookie is the name of the opaque session token cookie.
	sessionCookie = "ledger_session"

	// slogKeyError is the slog attribute key for error values.
	slogKeyError = "error"
)

// Handler serves the ledger HTTP routes.
type Handler struct {
	mux      *http.ServeMux
	listing  *listing.Service
	records  ledger.Store
	sessions *session.Manager
	renderer Renderer
}

// NewHandler creates the route handler. A nil renderer defaults to JSON.
func NewHandler(svc *listing.Service, records ledger.Store, sessions *session.Manager, renderer Renderer) *Handler {
	if renderer == nil {
		renderer = JSONRenderer{}
	}
	h := &Handler{
		mux:      http.NewServeMux(),
		listing:  svc,
		records:  records,
		sessions: sessions,
		renderer: renderer,
	}
	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes registers the ledger routes.
func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /{$}", h.list)
	h.mux.HandleFunc("POST /login", h.login)
	h.mux.HandleFunc("POST /logout", h.logout)
	h.mux.HandleFunc("POST /create", h.create)
}

// list handles GET /. Optional query parameters: category (exact-match
// filter) and page (zero-based index; malformed or absent means 0).
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := listing.Request{Page: parsePage(q.Get("page"))}
	if q.Has("category") && q.Get("category") != "" {
		category := q.Get("category")
		req.Category = &category
	}

	result, err := h.listing.List(r.Context(), req)
	if err != nil {
		slog.Error("web: listing failed", slogKeyError, err)
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	user, err := h.sessions.Identity(r.Context(), sessionToken(r))
	if err != nil {
		slog.Error("web: identity lookup failed", slogKeyError, err)
		writeError(w, http.StatusInternalServerError, "failed to resolve identity")
		return
	}

	if err := h.renderer.RenderListing(w, ListingView{Result: result, User: user}); err != nil {
		slog.Error("web: render failed", slogKeyError, err)
	}
}

// login handles POST /login. Creates the user on first sight of the
// name, binds it to a fresh session token, and redirects to a fresh
// listing view with no query parameters.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("name")
	if name == "" {
		// Presence check only; an empty name is ignored.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	token, err := h.sessions.Login(r.Context(), sessionToken(r), name)
	if err != nil {
		slog.Error("web: login failed", "name", name, slogKeyError, err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	setSessionCookie(w, token, 0)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// logout handles POST /logout. Clears the whole per-client context and
// expires the cookie.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), sessionToken(r)); err != nil {
		slog.Error("web: logout failed", slogKeyError, err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}

	setSessionCookie(w, "", -1)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// create handles POST /create. Appends a record owned by the session
// identity and redirects back to the listing, threading the submitted
// category through so the active filter survives the round trip. An
// anonymous request appends nothing but still redirects.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	payload := r.PostFormValue("payload")
	category := r.PostFormValue("category")

	if payload == "" {
		http.Redirect(w, r, listingURL(category), http.StatusSeeOther)
		return
	}

	user, err := h.sessions.Identity(r.Context(), sessionToken(r))
	if err != nil {
		slog.Error("web: identity lookup failed", slogKeyError, err)
		writeError(w, http.StatusInternalServerError, "failed to resolve identity")
		return
	}

	if user == nil {
		// Anonymous creation is a silent no-op.
		slog.Debug("web: anonymous create ignored")
		http.Redirect(w, r, listingURL(category), http.StatusSeeOther)
		return
	}

	rec := ledger.Record{
		Payload:   payload,
		Category:  category,
		CreatedAt: time.Now(),
		OwnerID:   user.ID,
	}
	if _, err := h.records.Append(r.Context(), rec); err != nil {
		slog.Error("web: append failed", slogKeyError, err)
		writeError(w, http.StatusInternalServerError, "failed to create record")
		return
	}

	http.Redirect(w, r, listingURL(category), http.StatusSeeOther)
}

// listingURL builds the listing route, preserving the category filter
// when one is set.
func listingURL(category string) string {
	if category == "" {
		return "/"
	}
	return "/?category=" + url.QueryEscape(category)
}

// parsePage parses a zero-based page index. Malformed or negative
// values default to 0.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0
	}
	return page
}

// sessionToken extracts the opaque session token from the request
// cookie, or empty for anonymous clients.
func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets or clears the session cookie.
func setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
