package rotation_test

import (
	"context"
	"errors"
	"testing"

	"alphamastery/internal/rotation"
	"alphamastery/internal/rotation/rotationtest"
)

func TestMemoryCursorContract(t *testing.T) {
	rotationtest.RunCursorContract(t, func(t *testing.T) rotation.Cursor {
		return rotation.NewMemoryCursor()
	})
}

func TestMemoryCursorPosition(t *testing.T) {
	cursor := rotation.NewMemoryCursor()
	if _, ok := cursor.Position("sentence:easy"); ok {
		t.Fatal("expected no position before first serve")
	}
	if _, err := cursor.Next(context.Background(), "sentence:easy", 4); err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	pos, ok := cursor.Position("sentence:easy")
	if !ok {
		t.Fatal("expected position after first serve")
	}
	if pos.LastIndex != 0 || pos.Total != 4 {
		t.Fatalf("unexpected position %+v", pos)
	}
}

func TestMemoryStoreItemAt(t *testing.T) {
	store := rotation.NewMemoryStore()
	ctx := context.Background()
	first := store.Add("myth", "one")
	second := store.Add("myth", "two")
	store.Add("image", "cat")

	count, err := store.Count(ctx, "myth")
	if err != nil || count != 2 {
		t.Fatalf("Count() = %d, %v; want 2", count, err)
	}
	if count, _ := store.Count(ctx, "unknown"); count != 0 {
		t.Fatalf("expected unknown key to count 0, got %d", count)
	}
	if second.ID <= first.ID {
		t.Fatalf("expected increasing ids, got %d then %d", first.ID, second.ID)
	}

	item, err := store.ItemAt(ctx, "myth", 1)
	if err != nil {
		t.Fatalf("ItemAt returned error: %v", err)
	}
	if item.Payload != "two" {
		t.Fatalf("unexpected item %+v", item)
	}

	_, err = store.ItemAt(ctx, "myth", 2)
	var rangeErr *rotation.OutOfRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected OutOfRangeError, got %v", err)
	}
	if rangeErr.Count != 2 || rangeErr.Index != 2 {
		t.Fatalf("unexpected error fields %+v", rangeErr)
	}

	if !store.Remove("myth", 0) {
		t.Fatal("expected Remove to succeed")
	}
	item, _ = store.ItemAt(ctx, "myth", 0)
	if item.Payload != "two" {
		t.Fatalf("expected remaining item to shift down, got %+v", item)
	}
}
