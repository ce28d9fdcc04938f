package testutil

import (
	"testing"

	"github.com/confplanner/reinvent/internal/store"
)

// OpenTestStore creates an in-memory store with the full schema
// applied, closed automatically when the test ends.
func OpenTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}
