package testsupport

import (
	"context"
	"testing"

	"cuesheet/internal/config"
	"cuesheet/internal/lookupcache"
)

// MustOpenCache opens the lookup cache at cfg.Cache.Path and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *lookupcache.Store {
	t.Helper()

	store, err := lookupcache.Open(context.Background(), cfg.Cache.Path)
	if err != nil {
		t.Fatalf("open lookup cache: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
