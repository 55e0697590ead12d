package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"alphamastery/internal/rotation"
)

// KeyCount reports how many items a rotation key holds.
type KeyCount struct {
	Key   string `json:"rotation_key"`
	Count int    `json:"count"`
}

// Count implements rotation.Store.
func (s *Store) Count(ctx context.Context, key string) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM content_items WHERE rotation_key = ?", key,
		).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count items for %q: %w", key, err)
	}
	return count, nil
}

// ItemAt implements rotation.Store.
func (s *Store) ItemAt(ctx context.Context, key string, index int) (rotation.Item, error) {
	ctx = ensureContext(ctx)
	if index < 0 {
		count, err := s.Count(ctx, key)
		if err != nil {
			return rotation.Item{}, err
		}
		return rotation.Item{}, &rotation.OutOfRangeError{Key: key, Index: index, Count: count}
	}

	var item rotation.Item
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT id, rotation_key, payload FROM content_items
			 WHERE rotation_key = ? ORDER BY id LIMIT 1 OFFSET ?`, key, index,
		).Scan(&item.ID, &item.Key, &item.Payload)
	})
	if errors.Is(err, sql.ErrNoRows) {
		count, countErr := s.Count(ctx, key)
		if countErr != nil {
			return rotation.Item{}, countErr
		}
		return rotation.Item{}, &rotation.OutOfRangeError{Key: key, Index: index, Count: count}
	}
	if err != nil {
		return rotation.Item{}, fmt.Errorf("load item %q[%d]: %w", key, index, err)
	}
	return item, nil
}

// Add inserts one item and returns it with its assigned ID.
func (s *Store) Add(ctx context.Context, key, payload string) (rotation.Item, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return rotation.Item{}, errors.New("add item: rotation key required")
	}
	res, err := s.execWithRetry(ctx,
		"INSERT INTO content_items (rotation_key, payload, created_at) VALUES (?, ?, ?)",
		key, payload, timestamp(),
	)
	if err != nil {
		return rotation.Item{}, fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return rotation.Item{}, fmt.Errorf("insert item id: %w", err)
	}
	return rotation.Item{ID: id, Key: key, Payload: payload}, nil
}

// Keys lists every rotation key with its item count, ordered by key.
func (s *Store) Keys(ctx context.Context) ([]KeyCount, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT rotation_key, COUNT(1) FROM content_items GROUP BY rotation_key ORDER BY rotation_key")
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var counts []KeyCount
	for rows.Next() {
		var kc KeyCount
		if err := rows.Scan(&kc.Key, &kc.Count); err != nil {
			return nil, fmt.Errorf("scan key count: %w", err)
		}
		counts = append(counts, kc)
	}
	return counts, rows.Err()
}

// List returns up to limit items of key in ordinal order. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, key string, limit int) ([]rotation.Item, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, rotation_key, payload FROM content_items WHERE rotation_key = ? ORDER BY id LIMIT ?",
		key, limit)
	if err != nil {
		return nil, fmt.Errorf("list items for %q: %w", key, err)
	}
	defer rows.Close()

	var items []rotation.Item
	for rows.Next() {
		var item rotation.Item
		if err := rows.Scan(&item.ID, &item.Key, &item.Payload); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
