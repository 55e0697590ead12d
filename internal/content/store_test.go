package content_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"alphamastery/internal/content"
	"alphamastery/internal/rotation"
	"alphamastery/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if store.Path() != cfg.Database.Path {
		t.Fatalf("unexpected store path %q", store.Path())
	}

	// Reopening an initialised database verifies the recorded version.
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	reopened, err := content.Open(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
}

func TestOpenRejectsForeignSchemaVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 9"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	db.Close()

	if _, err := content.Open(cfg); !errors.Is(err, content.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestCountAndItemAtFollowInsertionOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	seeded := testsupport.Seed(t, store, "myth", "first", "second", "third")
	testsupport.Seed(t, store, "image", "other")

	count, err := store.Count(ctx, "myth")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 myths, got %d", count)
	}
	if count, _ := store.Count(ctx, "unknown"); count != 0 {
		t.Fatalf("expected unknown key to count 0, got %d", count)
	}

	for i, want := range seeded {
		got, err := store.ItemAt(ctx, "myth", i)
		if err != nil {
			t.Fatalf("ItemAt(%d) failed: %v", i, err)
		}
		if got != want {
			t.Fatalf("ItemAt(%d) = %+v, want %+v", i, got, want)
		}
	}
}

func TestItemAtOutOfRange(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.Seed(t, store, "myth", "only")

	for _, index := range []int{-1, 1, 5} {
		_, err := store.ItemAt(context.Background(), "myth", index)
		var oor *rotation.OutOfRangeError
		if !errors.As(err, &oor) {
			t.Fatalf("ItemAt(%d): expected OutOfRangeError, got %v", index, err)
		}
		if oor.Count != 1 || oor.Index != index {
			t.Fatalf("unexpected error detail %+v", oor)
		}
	}
}

func TestKeysAndList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	testsupport.Seed(t, store, "sentence:easy", "a", "b")
	testsupport.Seed(t, store, "image", "x")

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	want := []content.KeyCount{{Key: "image", Count: 1}, {Key: "sentence:easy", Count: 2}}
	if len(keys) != len(want) {
		t.Fatalf("Keys = %+v, want %+v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys[%d] = %+v, want %+v", i, keys[i], want[i])
		}
	}

	items, err := store.List(ctx, "sentence:easy", 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 || items[0].Payload != "a" {
		t.Fatalf("unexpected list result %+v", items)
	}
	all, err := store.List(ctx, "sentence:easy", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected all items with limit 0, got %d", len(all))
	}
}

func TestAddRequiresKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if _, err := store.Add(context.Background(), "  ", "payload"); err == nil {
		t.Fatal("expected error for blank key")
	}
}

func TestImportYAMLAndJSON(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	yamlSeed := `
items:
  - key: myth
    payload:
      myth: Carrots give night vision
      truth: They support eye health but do not grant night vision
  - key: "sentence:easy"
    payload: '{"original_sentence":"The cat sat"}'
`
	result, err := store.Import(ctx, strings.NewReader(yamlSeed))
	if err != nil {
		t.Fatalf("Import yaml failed: %v", err)
	}
	if result.Inserted != 2 || result.Skipped != 0 {
		t.Fatalf("unexpected import result %+v", result)
	}

	item, err := store.ItemAt(ctx, "myth", 0)
	if err != nil {
		t.Fatalf("ItemAt failed: %v", err)
	}
	wantPayload := `{"myth":"Carrots give night vision","truth":"They support eye health but do not grant night vision"}`
	if item.Payload != wantPayload {
		t.Fatalf("payload = %s, want %s", item.Payload, wantPayload)
	}

	jsonSeed := `{"items":[{"key":"myth","payload":{"myth":"Carrots give night vision","truth":"They support eye health but do not grant night vision"}},{"key":"image","payload":{"label":"apple","image_base64":"aGk="}}]}`
	result, err = store.Import(ctx, strings.NewReader(jsonSeed))
	if err != nil {
		t.Fatalf("Import json failed: %v", err)
	}
	if result.Inserted != 1 || result.Skipped != 1 || result.PerKey["image"] != 1 {
		t.Fatalf("unexpected second import result %+v", result)
	}
}

func TestImportRejectsBadItems(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"missing key", "items:\n  - payload: hello\n"},
		{"missing payload", "items:\n  - key: myth\n"},
		{"malformed", "items: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Import(context.Background(), strings.NewReader(tt.doc)); err == nil {
				t.Fatal("expected import error")
			}
		})
	}
	if count, _ := store.Count(context.Background(), "myth"); count != 0 {
		t.Fatalf("expected failed imports to leave no rows, got %d", count)
	}
}
