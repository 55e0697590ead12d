package rotation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"alphamastery/internal/rotation"
	"alphamastery/internal/services"
)

func newSelector(t *testing.T) (*rotation.Selector, *rotation.MemoryStore, *rotation.MemoryCursor) {
	t.Helper()
	store := rotation.NewMemoryStore()
	cursor := rotation.NewMemoryCursor()
	return rotation.NewSelector(store, cursor, nil), store, cursor
}

func TestSelectNextCyclesSequentially(t *testing.T) {
	selector, store, _ := newSelector(t)
	for i := 0; i < 3; i++ {
		store.Add("sentence:easy", fmt.Sprintf("sentence-%d", i))
	}

	ctx := context.Background()
	want := []string{"sentence-0", "sentence-1", "sentence-2", "sentence-0", "sentence-1", "sentence-2"}
	for i, expected := range want {
		item, err := selector.SelectNext(ctx, "sentence:easy")
		if err != nil {
			t.Fatalf("SelectNext call %d returned error: %v", i, err)
		}
		if item.Payload != expected {
			t.Fatalf("call %d: got %q want %q", i, item.Payload, expected)
		}
	}
}

func TestSelectNextEmptyGroupLeavesCursorUntouched(t *testing.T) {
	selector, _, cursor := newSelector(t)

	_, err := selector.SelectNext(context.Background(), "sentence:hard")
	if !errors.Is(err, rotation.ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
	if !rotation.IsEmpty(err) {
		t.Fatal("expected IsEmpty to recognise no-content signal")
	}
	if _, ok := cursor.Position("sentence:hard"); ok {
		t.Fatal("expected empty group not to create a cursor")
	}
}

func TestSelectNextRequiresKey(t *testing.T) {
	selector, _, _ := newSelector(t)
	_, err := selector.SelectNext(context.Background(), "   ")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for blank key, got %v", err)
	}
}

func TestSelectNextSurvivesShrink(t *testing.T) {
	selector, store, _ := newSelector(t)
	for i := 0; i < 4; i++ {
		store.Add("image", fmt.Sprintf("img-%d", i))
	}
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := selector.SelectNext(ctx, "image"); err != nil {
			t.Fatalf("SelectNext returned error: %v", err)
		}
	}
	store.Remove("image", 3)
	store.Remove("image", 2)

	prev := ""
	for i := 0; i < 4; i++ {
		item, err := selector.SelectNext(ctx, "image")
		if err != nil {
			t.Fatalf("SelectNext after shrink returned error: %v", err)
		}
		if item.Payload == prev {
			t.Fatalf("repeated %q after shrink", prev)
		}
		prev = item.Payload
	}
}

func TestSelectBatch(t *testing.T) {
	selector, store, _ := newSelector(t)
	for i := 0; i < 12; i++ {
		store.Add("myth", fmt.Sprintf("myth-%02d", i))
	}
	ctx := context.Background()

	first, err := selector.SelectBatch(ctx, "myth", 10)
	if err != nil {
		t.Fatalf("SelectBatch returned error: %v", err)
	}
	if len(first) != 10 || first[0].Payload != "myth-00" || first[9].Payload != "myth-09" {
		t.Fatalf("unexpected first batch: %+v", first)
	}

	second, err := selector.SelectBatch(ctx, "myth", 10)
	if err != nil {
		t.Fatalf("SelectBatch returned error: %v", err)
	}
	want := []string{"myth-10", "myth-11", "myth-00", "myth-01"}
	for i, expected := range want {
		if second[i].Payload != expected {
			t.Fatalf("second batch[%d] = %q, want %q", i, second[i].Payload, expected)
		}
	}
}

type lyingStore struct {
	*rotation.MemoryStore
	count int
}

func (s lyingStore) Count(context.Context, string) (int, error) { return s.count, nil }

func TestSelectNextReportsOutOfRange(t *testing.T) {
	store := lyingStore{MemoryStore: rotation.NewMemoryStore(), count: 3}
	selector := rotation.NewSelector(store, rotation.NewMemoryCursor(), nil)

	_, err := selector.SelectNext(context.Background(), "reading:Easy")
	var rangeErr *rotation.OutOfRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected OutOfRangeError, got %v", err)
	}
	if rotation.IsEmpty(err) {
		t.Fatal("out-of-range must not look like an empty group")
	}
}

type failingStore struct{ rotation.MemoryStore }

func (*failingStore) Count(context.Context, string) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestSelectNextPropagatesStoreFailure(t *testing.T) {
	selector := rotation.NewSelector(&failingStore{}, rotation.NewMemoryCursor(), nil)
	_, err := selector.SelectNext(context.Background(), "myth")
	if err == nil || rotation.IsEmpty(err) {
		t.Fatalf("expected store failure, got %v", err)
	}
}
