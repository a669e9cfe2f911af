package testsupport

import (
	"testing"

	"lookout/internal/config"
	"lookout/internal/sightings"
)

// MustOpenStore opens a sightings.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *sightings.Store {
	t.Helper()

	store, err := sightings.Open(cfg)
	if err != nil {
		t.Fatalf("sightings.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
