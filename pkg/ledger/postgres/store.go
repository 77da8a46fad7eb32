// Package postgres provides PostgreSQL storage for ledger records.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/txn2/ledger/pkg/ledger"
)

// psq is the PostgreSQL statement builder with dollar placeholders.
var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// recordColumns lists columns returned by record SELECT queries.
var recordColumns = []string{"id", "payload", "category", "created_at", "owner_id"}

// Store implements ledger.Store using PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL record store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append persists a new record and returns its assigned ID.
func (s *Store) Append(ctx context.Context, rec ledger.Record) (int64, error) {
	query := `
		INSERT INTO records (payload, category, created_at, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		rec.Payload,
		nullString(rec.Category),
		rec.CreatedAt,
		nullInt64(rec.OwnerID),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting record: %w", err)
	}

	return id, nil
}

// Page returns one page of records in the requested order plus a
// has-more flag. The query fetches one row past the page to decide
// hasNext without a second round trip.
func (s *Store) Page(ctx context.Context, req ledger.PageRequest) ([]ledger.Record, bool, error) {
	if req.Size <= 0 || req.Index < 0 {
		return nil, false, ledger.ErrInvalidPage
	}

	qb := psq.Select(recordColumns...).From("records")
	if req.Category != nil {
		qb = qb.Where(sq.Eq{"category": *req.Category})
	}

	switch req.Order {
	case ledger.ByIDAsc:
		qb = qb.OrderBy("id ASC")
	default:
		qb = qb.OrderBy("created_at DESC", "id DESC")
	}

	qb = qb.Limit(uint64(req.Size) + 1).Offset(uint64(req.Index) * uint64(req.Size))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("building page query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]ledger.Record, 0, req.Size+1)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, false, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating record rows: %w", err)
	}

	hasNext := len(records) > req.Size
	if hasNext {
		records = records[:req.Size]
	}

	return records, hasNext, nil
}

func scanRecord(rows *sql.Rows) (ledger.Record, error) {
	var rec ledger.Record
	var category sql.NullString
	var owner sql.NullInt64

	if err := rows.Scan(&rec.ID, &rec.Payload, &category, &rec.CreatedAt, &owner); err != nil {
		return rec, fmt.Errorf("scanning record row: %w", err)
	}

	rec.Category = category.String
	rec.OwnerID = owner.Int64
	return rec, nil
}

// Close releases store resources. The underlying *sql.DB is shared and
// closed by the owner.
func (*Store) Close() error {
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}

// Verify interface compliance.
var _ ledger.Store = (*Store)(nil)
