package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hinata/kanaflash/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied,
// including the kana catalog seed.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	testDB, err := db.Open("file::memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = testDB.Close()
	})
	return testDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
