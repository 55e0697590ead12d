package rotation

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store. Items receive increasing IDs in the
// order they are added.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	groups map[string][]Item
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{groups: make(map[string][]Item)}
}

// Add appends an item with the given payload to key and returns it.
func (s *MemoryStore) Add(key, payload string) Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	item := Item{ID: s.nextID, Key: key, Payload: payload}
	s.groups[key] = append(s.groups[key], item)
	return item
}

// Remove drops the item at ordinal index from key. It reports whether an item
// was removed.
func (s *MemoryStore) Remove(key string, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.groups[key]
	if index < 0 || index >= len(items) {
		return false
	}
	s.groups[key] = append(items[:index:index], items[index+1:]...)
	return true
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context, key string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.groups[key]), nil
}

// ItemAt implements Store.
func (s *MemoryStore) ItemAt(_ context.Context, key string, index int) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.groups[key]
	if index < 0 || index >= len(items) {
		return Item{}, &OutOfRangeError{Key: key, Index: index, Count: len(items)}
	}
	return items[index], nil
}

// MemoryCursor is an in-process Cursor. Each key has its own lock, so advances
// for one key never wait on another.
type MemoryCursor struct {
	mu   sync.Mutex
	keys map[string]*memoryPosition
}

type memoryPosition struct {
	mu  sync.Mutex
	pos Position
}

// NewMemoryCursor returns a MemoryCursor with no positions recorded.
func NewMemoryCursor() *MemoryCursor {
	return &MemoryCursor{keys: make(map[string]*memoryPosition)}
}

// Next implements Cursor.
func (c *MemoryCursor) Next(ctx context.Context, key string, total int) (int, error) {
	indices, err := c.NextBatch(ctx, key, total, 1)
	if err != nil {
		return 0, err
	}
	return indices[0], nil
}

// NextBatch implements Cursor.
func (c *MemoryCursor) NextBatch(_ context.Context, key string, total, n int) ([]int, error) {
	if total <= 0 {
		return nil, ErrEmptyGroup
	}
	entry := c.entry(key)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	pos, indices, err := AdvanceN(entry.pos, total, n)
	if err != nil {
		return nil, err
	}
	entry.pos = pos
	return indices, nil
}

// Position returns the recorded position for key, if any.
func (c *MemoryCursor) Position(key string) (Position, bool) {
	c.mu.Lock()
	entry, ok := c.keys[key]
	c.mu.Unlock()
	if !ok {
		return Position{}, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.pos, entry.pos.Served
}

func (c *MemoryCursor) entry(key string) *memoryPosition {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.keys[key]
	if !ok {
		entry = &memoryPosition{}
		c.keys[key] = entry
	}
	return entry
}
