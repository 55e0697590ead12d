package testsupport

import (
	"context"
	"testing"

	"alphamastery/internal/config"
	"alphamastery/internal/content"
	"alphamastery/internal/rotation"
)

// MustOpenStore opens a content.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *content.Store {
	t.Helper()

	store, err := content.Open(cfg)
	if err != nil {
		t.Fatalf("content.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Seed inserts payloads under key in order and returns the stored items.
func Seed(t testing.TB, store *content.Store, key string, payloads ...string) []rotation.Item {
	t.Helper()

	items := make([]rotation.Item, 0, len(payloads))
	for _, payload := range payloads {
		item, err := store.Add(context.Background(), key, payload)
		if err != nil {
			t.Fatalf("store.Add(%s): %v", key, err)
		}
		items = append(items, item)
	}
	return items
}
