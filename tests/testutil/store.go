package testutil

import (
	"context"
	"testing"

	"github.com/nhle/reminders/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// Seed writes raw values into s, failing the test on error.
func Seed(t *testing.T, s store.Store, values map[string]string) {
	t.Helper()

	for k, v := range values {
		if err := s.Put(context.Background(), k, []byte(v)); err != nil {
			t.Fatalf("seeding %s: %v", k, err)
		}
	}
}
