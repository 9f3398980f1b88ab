package testutil

import (
	"testing"

	"github.com/task2sms/tui/internal/store"
)

// NewTestCache creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestCache(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test cache: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test cache: %v", err)
		}
	})

	return s
}
