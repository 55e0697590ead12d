// Package rotationtest holds the behavioural contract every rotation.Cursor
// implementation must satisfy, shared between the in-memory and SQLite tests.
package rotationtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"alphamastery/internal/rotation"
)

// CursorFactory returns a fresh cursor with no recorded positions.
type CursorFactory func(t *testing.T) rotation.Cursor

// RunCursorContract exercises the no-repeat, wrap-around, resize and
// concurrency guarantees against cursors built by factory.
func RunCursorContract(t *testing.T, factory CursorFactory) {
	t.Helper()

	t.Run("no adjacent repeats", func(t *testing.T) {
		cursor := factory(t)
		ctx := context.Background()
		for _, total := range []int{2, 3, 7} {
			key := fmt.Sprintf("adjacent-%d", total)
			prev := -1
			for i := 0; i < total*4; i++ {
				got, err := cursor.Next(ctx, key, total)
				if err != nil {
					t.Fatalf("Next(%s) returned error: %v", key, err)
				}
				if got < 0 || got >= total {
					t.Fatalf("Next(%s) = %d, out of range [0,%d)", key, got, total)
				}
				if got == prev {
					t.Fatalf("Next(%s) repeated index %d on call %d", key, got, i)
				}
				prev = got
			}
		}
	})

	t.Run("single item repeats", func(t *testing.T) {
		cursor := factory(t)
		ctx := context.Background()
		for i := 0; i < 5; i++ {
			got, err := cursor.Next(ctx, "single", 1)
			if err != nil {
				t.Fatalf("Next returned error: %v", err)
			}
			if got != 0 {
				t.Fatalf("expected index 0 for single-item group, got %d", got)
			}
		}
	})

	t.Run("empty group", func(t *testing.T) {
		cursor := factory(t)
		if _, err := cursor.Next(context.Background(), "empty", 0); !errors.Is(err, rotation.ErrEmptyGroup) {
			t.Fatalf("expected ErrEmptyGroup, got %v", err)
		}
		if _, err := cursor.NextBatch(context.Background(), "empty", 0, 3); !errors.Is(err, rotation.ErrEmptyGroup) {
			t.Fatalf("expected ErrEmptyGroup from NextBatch, got %v", err)
		}
	})

	t.Run("cycle length equals total", func(t *testing.T) {
		cursor := factory(t)
		ctx := context.Background()
		const total = 5
		seen := make(map[int]struct{}, total)
		first := -1
		for i := 0; i < total; i++ {
			got, err := cursor.Next(ctx, "cycle", total)
			if err != nil {
				t.Fatalf("Next returned error: %v", err)
			}
			if i == 0 {
				first = got
			}
			seen[got] = struct{}{}
		}
		if len(seen) != total {
			t.Fatalf("expected %d distinct indices in one cycle, got %d", total, len(seen))
		}
		again, err := cursor.Next(ctx, "cycle", total)
		if err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
		if again != first {
			t.Fatalf("expected cycle to restart at %d, got %d", first, again)
		}
	})

	t.Run("resize stays in range", func(t *testing.T) {
		cursor := factory(t)
		ctx := context.Background()
		for i := 0; i < 4; i++ {
			if _, err := cursor.Next(ctx, "resize", 5); err != nil {
				t.Fatalf("Next returned error: %v", err)
			}
		}
		for _, total := range []int{2, 1, 6, 3} {
			got, err := cursor.Next(ctx, "resize", total)
			if err != nil {
				t.Fatalf("Next(total=%d) returned error: %v", total, err)
			}
			if got < 0 || got >= total {
				t.Fatalf("Next(total=%d) = %d, out of range", total, got)
			}
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		cursor := factory(t)
		ctx := context.Background()
		a1, _ := cursor.Next(ctx, "key-a", 3)
		b1, _ := cursor.Next(ctx, "key-b", 3)
		a2, _ := cursor.Next(ctx, "key-a", 3)
		if a1 != b1 {
			t.Fatalf("expected fresh keys to share the start policy, got %d and %d", a1, b1)
		}
		if a2 == a1 {
			t.Fatalf("advancing key-b must not disturb key-a")
		}
	})

	t.Run("batch continues sequence", func(t *testing.T) {
		cursor := factory(t)
		ctx := context.Background()
		const total = 4
		batch, err := cursor.NextBatch(ctx, "batch", total, 10)
		if err != nil {
			t.Fatalf("NextBatch returned error: %v", err)
		}
		if len(batch) != total {
			t.Fatalf("expected batch capped at %d, got %d", total, len(batch))
		}
		seen := map[int]struct{}{}
		for i, idx := range batch {
			if i > 0 && batch[i-1] == idx {
				t.Fatalf("batch repeated index %d", idx)
			}
			seen[idx] = struct{}{}
		}
		if len(seen) != total {
			t.Fatalf("expected distinct indices within batch, got %v", batch)
		}
		next, err := cursor.Next(ctx, "batch", total)
		if err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
		if next == batch[len(batch)-1] {
			t.Fatalf("Next after batch repeated %d", next)
		}
	})

	t.Run("concurrent callers get distinct indices", func(t *testing.T) {
		cursor := factory(t)
		ctx := context.Background()
		const total = 16
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			results = make(map[int]int, total)
			errs    []error
		)
		start := make(chan struct{})
		for i := 0; i < total; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				got, err := cursor.Next(ctx, "concurrent", total)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return
				}
				results[got]++
			}()
		}
		close(start)
		wg.Wait()
		if len(errs) > 0 {
			t.Fatalf("concurrent Next returned errors: %v", errs)
		}
		if len(results) != total {
			t.Fatalf("expected %d distinct indices, got %d (%v)", total, len(results), results)
		}
		for idx, count := range results {
			if count != 1 {
				t.Fatalf("index %d served %d times", idx, count)
			}
		}
	})
}
