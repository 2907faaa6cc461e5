package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest-api/internal/store"
)

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: nil,
		},
		{
			name:     "no rows maps to not found",
			err:      sql.ErrNoRows,
			expected: store.ErrNotFound,
		},
		{
			name:     "wrapped no rows maps to not found",
			err:      fmt.Errorf("query failed: %w", sql.ErrNoRows),
			expected: store.ErrNotFound,
		},
		{
			name:     "postgres unique violation maps to duplicate",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			expected: store.ErrDuplicate,
		},
		{
			name:     "postgres foreign key violation maps to invalid entity",
			err:      &pgconn.PgError{Code: "23503", ConstraintName: "tasks_user_id_fkey"},
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "postgres not null violation maps to invalid entity",
			err:      &pgconn.PgError{Code: "23502", ColumnName: "title"},
			expected: store.ErrInvalidEntity,
		},
		{
			name: "sqlite unique violation maps to duplicate",
			err: sqlite3.Error{
				Code:         sqlite3.ErrConstraint,
				ExtendedCode: sqlite3.ErrConstraintUnique,
			},
			expected: store.ErrDuplicate,
		},
		{
			name: "sqlite foreign key violation maps to invalid entity",
			err: sqlite3.Error{
				Code:         sqlite3.ErrConstraint,
				ExtendedCode: sqlite3.ErrConstraintForeignKey,
			},
			expected: store.ErrInvalidEntity,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(tc.err)

			if tc.expected == nil {
				assert.NoError(t, mapped)
				return
			}

			assert.ErrorIs(t, mapped, tc.expected)
		})
	}
}

func TestMapErrorPassesThroughUnknownErrors(t *testing.T) {
	t.Parallel()

	original := errors.New("connection reset by peer")
	assert.Equal(t, original, MapError(original))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintUnique,
	}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("other")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsForeignKeyViolation(sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintForeignKey,
	}))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsForeignKeyViolation(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, "task"))
	})

	t.Run("zero rows maps to not found with entity name", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rows: 0}, "task")
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Contains(t, err.Error(), "task")
	})

	t.Run("zero rows without entity name", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rows: 0}, "")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rows affected error is wrapped", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{err: errors.New("driver does not support")}, "task")
		require.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, CheckRowsAffected(nil, "task"))
	})
}
