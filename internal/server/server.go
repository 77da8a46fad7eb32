// Package server wires configuration, stores, and handlers into the
// ledger HTTP server.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/txn2/ledger/internal/version"
	"github.com/txn2/ledger/pkg/config"
	"github.com/txn2/ledger/pkg/database/migrate"
	"github.com/txn2/ledger/pkg/health"
	"github.com/txn2/ledger/pkg/identity"
	identitypg "github.com/txn2/ledger/pkg/identity/postgres"
	"github.com/txn2/ledger/pkg/ledger"
	ledgerpg "github.com/txn2/ledger/pkg/ledger/postgres"
	"github.com/txn2/ledger/pkg/listing"
	"github.com/txn2/ledger/pkg/session"
	"github.com/txn2/ledger/pkg/web"
)

const shutdownTimeout = 10 * time.Second

// Server is the assembled ledger service.
type Server struct {
	cfg      *config.Config
	http     *http.Server
	checker  *health.Checker
	db       *sql.DB
	records  ledger.Store
	users    identity.Store
	sessions *session.MemoryStore
}

// New builds a server from configuration. With an empty database DSN
// the service runs entirely on in-memory stores.
func New(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		checker: health.NewChecker(),
	}

	if err := s.initStores(); err != nil {
		return nil, err
	}

	s.sessions = session.NewMemoryStore(cfg.Session.TTL)
	s.sessions.StartCleanupRoutine(cfg.Session.CleanupInterval)

	manager := session.NewManager(s.sessions, s.users, cfg.Session.TTL)
	svc := listing.NewService(s.records, cfg.Listing.PageSize)
	handler := web.NewHandler(svc, s.records, manager, nil)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.HandleFunc("GET /healthz", s.checker.LivenessHandler())
	mux.HandleFunc("GET /readyz", s.checker.ReadinessHandler())

	s.http = &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s, nil
}

// initStores opens the database when a DSN is configured, runs
// migrations, and selects store implementations.
func (s *Server) initStores() error {
	if s.cfg.Database.DSN == "" {
		slog.Info("no database configured, using in-memory stores")
		s.records = ledger.NewMemoryStore()
		s.users = identity.NewMemoryStore()
		return nil
	}

	db, err := sql.Open("postgres", s.cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(s.cfg.Database.MaxOpenConns)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("pinging database: %w", err)
	}

	if err := migrate.Run(db); err != nil {
		_ = db.Close()
		return fmt.Errorf("migrating database: %w", err)
	}

	s.db = db
	s.records = ledgerpg.New(db)
	s.users = identitypg.New(db)
	return nil
}

// Handler returns the root HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves HTTP until the context is canceled, then drains and shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("ledger server listening",
			"name", s.cfg.Server.Name,
			"address", s.cfg.Server.Address,
			"version", version.Version,
		)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.checker.SetReady()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.checker.SetDraining()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	return s.Close()
}

// Close releases stores and the database connection.
func (s *Server) Close() error {
	_ = s.sessions.Close()
	_ = s.records.Close()
	_ = s.users.Close()
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
	}
	return nil
}
