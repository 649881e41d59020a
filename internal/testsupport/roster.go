package testsupport

import (
	"testing"

	"whorl/internal/config"
	"whorl/internal/roster"
)

// MustOpenRoster opens a roster.Store for tests and registers cleanup.
func MustOpenRoster(t testing.TB, cfg *config.Config) *roster.Store {
	t.Helper()

	store, err := roster.Open(cfg)
	if err != nil {
		t.Fatalf("roster.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
