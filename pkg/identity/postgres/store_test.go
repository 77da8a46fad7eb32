package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = int64(3)

var testCreatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func userRow(id int64, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow(id, name, testCreatedAt)
}

func TestFindByName(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store, mock := newTestStore(t)

		mock.ExpectQuery("SELECT id, name, created_at FROM users WHERE name = .+").
			WithArgs("alice").
			WillReturnRows(userRow(testUserID, "alice"))

		user, err := store.FindByName(context.Background(), "alice")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, testUserID, user.ID)
		assert.Equal(t, "alice", user.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found returns nil, nil", func(t *testing.T) {
		store, mock := newTestStore(t)

		mock.ExpectQuery("SELECT id, name, created_at FROM users").
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))

		user, err := store.FindByName(context.Background(), "nobody")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		store, mock := newTestStore(t)

		mock.ExpectQuery("SELECT id, name, created_at FROM users").
			WillReturnError(errors.New("connection refused"))

		_, err := store.FindByName(context.Background(), "alice")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "querying user by name")
	})
}

func TestCreate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store, mock := newTestStore(t)

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("alice").
			WillReturnRows(userRow(testUserID, "alice"))

		user, err := store.Create(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, testUserID, user.ID)
		assert.Equal(t, "alice", user.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation resolves to existing user", func(t *testing.T) {
		// The loser of a concurrent create race gets the winner's row,
		// not an error.
		store, mock := newTestStore(t)

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("alice").
			WillReturnError(&pq.Error{Code: uniqueViolation})
		mock.ExpectQuery("SELECT id, name, created_at FROM users").
			WithArgs("alice").
			WillReturnRows(userRow(testUserID, "alice"))

		user, err := store.Create(context.Background(), "alice")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, testUserID, user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other database error propagates", func(t *testing.T) {
		store, mock := newTestStore(t)

		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(errors.New("connection refused"))

		_, err := store.Create(context.Background(), "alice")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inserting user")
	})
}
