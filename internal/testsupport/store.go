package testsupport

import (
	"context"
	"testing"

	"galleria/internal/config"
	"galleria/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewPendingItem creates a pending media item row for tests.
func NewPendingItem(t testing.TB, st *store.Store, title, filename, original string) *store.Item {
	t.Helper()

	item, err := st.NewPending(context.Background(), title, filename, original, 0)
	if err != nil {
		t.Fatalf("store.NewPending: %v", err)
	}
	return item
}
