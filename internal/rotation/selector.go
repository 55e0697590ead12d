package rotation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"alphamastery/internal/logging"
	"alphamastery/internal/services"
)

// Selector hands out the next item for a rotation key.
type Selector struct {
	store  Store
	cursor Cursor
	logger *slog.Logger
}

// NewSelector wires a store and a cursor together. A nil logger discards logs.
func NewSelector(store Store, cursor Cursor, logger *slog.Logger) *Selector {
	return &Selector{
		store:  store,
		cursor: cursor,
		logger: logging.NewComponentLogger(logger, "rotation"),
	}
}

// SelectNext returns the next item for key and advances its cursor. An empty
// group yields ErrNoContent and leaves the cursor untouched. Calling it twice
// returns different items whenever the group holds two or more.
func (s *Selector) SelectNext(ctx context.Context, key string) (Item, error) {
	items, err := s.selectN(ctx, key, 1)
	if err != nil {
		return Item{}, err
	}
	return items[0], nil
}

// SelectBatch returns the next min(n, count) items for key in serving order,
// advancing the cursor once per item in a single atomic step.
func (s *Selector) SelectBatch(ctx context.Context, key string, n int) ([]Item, error) {
	return s.selectN(ctx, key, n)
}

func (s *Selector) selectN(ctx context.Context, key string, n int) ([]Item, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, services.Wrap(services.ErrValidation, "rotation", "select", "rotation key required", nil)
	}
	total, err := s.store.Count(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("rotation: count %q: %w", key, err)
	}
	if total == 0 {
		return nil, ErrNoContent
	}

	indices, err := s.cursor.NextBatch(ctx, key, total, n)
	if err != nil {
		if errors.Is(err, ErrEmptyGroup) {
			return nil, ErrNoContent
		}
		return nil, fmt.Errorf("rotation: advance %q: %w", key, err)
	}

	items := make([]Item, 0, len(indices))
	for _, index := range indices {
		item, err := s.store.ItemAt(ctx, key, index)
		if err != nil {
			var rangeErr *OutOfRangeError
			if errors.As(err, &rangeErr) {
				logging.WithContext(ctx, s.logger).Error("rotation index out of range",
					logging.String(logging.FieldRotationKey, key),
					logging.Int("index", index),
					logging.Int("total", total),
					logging.Error(err),
				)
			}
			return nil, fmt.Errorf("rotation: fetch %q[%d]: %w", key, index, err)
		}
		items = append(items, item)
	}

	logging.WithContext(ctx, s.logger).Debug("rotation served",
		logging.String(logging.FieldRotationKey, key),
		logging.Int("first_index", indices[0]),
		logging.Int("count", len(items)),
		logging.Int("total", total),
	)
	return items, nil
}
