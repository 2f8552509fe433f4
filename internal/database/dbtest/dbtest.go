// Package dbtest opens migrated sqlite databases for store tests.
package dbtest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneybox/internal/database"
)

// New returns a freshly migrated database in a temporary directory. The
// database is closed when the test finishes.
func New(t *testing.T) *sql.DB {
	t.Helper()

	db, _ := NewWithPath(t)

	return db
}

// NewWithPath is New but also returns the database file path.
func NewWithPath(t *testing.T) (*sql.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "moneybox.db")

	require.NoError(t, database.Migrate(database.DriverSQLite, path))

	db, err := database.New(database.DriverSQLite, path)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db, path
}
