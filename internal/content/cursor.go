package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"alphamastery/internal/rotation"
)

// Cursor is a rotation.Cursor persisted in the rotation_cursors table.
//
// Advances for one key are serialised twice: by a process-local mutex, and by
// the immediate transaction that wraps the read-modify-write. The second guard
// covers other processes sharing the database file.
type Cursor struct {
	store *Store
	locks sync.Map // rotation key -> *sync.Mutex
}

// NewCursor returns a Cursor stored alongside the content in store.
func NewCursor(store *Store) *Cursor {
	return &Cursor{store: store}
}

// Next implements rotation.Cursor.
func (c *Cursor) Next(ctx context.Context, key string, total int) (int, error) {
	indices, err := c.NextBatch(ctx, key, total, 1)
	if err != nil {
		return 0, err
	}
	return indices[0], nil
}

// NextBatch implements rotation.Cursor.
func (c *Cursor) NextBatch(ctx context.Context, key string, total, n int) ([]int, error) {
	if total <= 0 {
		return nil, rotation.ErrEmptyGroup
	}
	ctx = ensureContext(ctx)

	mu := c.lock(key)
	mu.Lock()
	defer mu.Unlock()

	var indices []int
	err := retryOnBusy(ctx, func() error {
		var err error
		indices, err = c.advance(ctx, key, total, n)
		return err
	})
	if err != nil {
		return nil, err
	}
	return indices, nil
}

func (c *Cursor) advance(ctx context.Context, key string, total, n int) ([]int, error) {
	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin cursor tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	prev, err := loadPosition(ctx, tx, key)
	if err != nil {
		return nil, err
	}
	next, indices, err := rotation.AdvanceN(prev, total, n)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rotation_cursors (rotation_key, last_index, total, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(rotation_key) DO UPDATE SET
		   last_index = excluded.last_index,
		   total = excluded.total,
		   updated_at = excluded.updated_at`,
		key, next.LastIndex, next.Total, timestamp(),
	); err != nil {
		return nil, fmt.Errorf("save cursor %q: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cursor %q: %w", key, err)
	}
	return indices, nil
}

// Position returns the persisted position of key. The boolean is false when
// nothing has been served for key yet.
func (c *Cursor) Position(ctx context.Context, key string) (rotation.Position, bool, error) {
	pos, err := loadPosition(ensureContext(ctx), c.store.db, key)
	if err != nil {
		return rotation.Position{}, false, err
	}
	return pos, pos.Served, nil
}

// Reset forgets the position of key so the next call starts over.
func (c *Cursor) Reset(ctx context.Context, key string) error {
	mu := c.lock(key)
	mu.Lock()
	defer mu.Unlock()
	if _, err := c.store.execWithRetry(ctx, "DELETE FROM rotation_cursors WHERE rotation_key = ?", key); err != nil {
		return fmt.Errorf("reset cursor %q: %w", key, err)
	}
	return nil
}

func (c *Cursor) lock(key string) *sync.Mutex {
	mu, _ := c.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadPosition(ctx context.Context, q queryRower, key string) (rotation.Position, error) {
	var pos rotation.Position
	err := q.QueryRowContext(ctx,
		"SELECT last_index, total FROM rotation_cursors WHERE rotation_key = ?", key,
	).Scan(&pos.LastIndex, &pos.Total)
	if errors.Is(err, sql.ErrNoRows) {
		return rotation.Position{}, nil
	}
	if err != nil {
		return rotation.Position{}, fmt.Errorf("load cursor %q: %w", key, err)
	}
	pos.Served = true
	return pos, nil
}
