package rotation

import "context"

// Item is an immutable piece of content belonging to one rotation key.
type Item struct {
	ID      int64  `json:"id"`
	Key     string `json:"rotation_key"`
	Payload string `json:"payload"`
}

// Store exposes the ordered items of each rotation key. Implementations are
// read-only from the point of view of this package.
type Store interface {
	// Count returns the number of items for key. Unknown keys count as 0.
	Count(ctx context.Context, key string) (int, error)
	// ItemAt returns the item at ordinal index. An index outside [0, Count)
	// fails with *OutOfRangeError.
	ItemAt(ctx context.Context, key string, index int) (Item, error)
}

// Cursor tracks the last served ordinal per key.
type Cursor interface {
	// Next advances the cursor for key over a group of total items and returns
	// the new ordinal. total <= 0 fails with ErrEmptyGroup.
	Next(ctx context.Context, key string, total int) (int, error)
	// NextBatch advances the cursor min(n, total) times as one atomic step and
	// returns the ordinals in serving order.
	NextBatch(ctx context.Context, key string, total, n int) ([]int, error)
}

// Position is the persisted state of a cursor for one key.
type Position struct {
	LastIndex int  `json:"last_index"`
	Total     int  `json:"total"`
	Served    bool `json:"served"`
}

// Advance computes the position following prev for a group of total items.
func Advance(prev Position, total int) (Position, error) {
	if total <= 0 {
		return prev, ErrEmptyGroup
	}
	if !prev.Served || prev.LastIndex < 0 {
		return Position{LastIndex: 0, Total: total, Served: true}, nil
	}
	// A resized group (prev.Total != total) restarts one past the old spot,
	// reduced into the new bounds; an unchanged group simply steps forward.
	return Position{LastIndex: (prev.LastIndex + 1) % total, Total: total, Served: true}, nil
}

// AdvanceN applies Advance min(n, total) times and returns the final position
// together with every ordinal produced along the way. n < 1 is treated as 1.
func AdvanceN(prev Position, total, n int) (Position, []int, error) {
	if total <= 0 {
		return prev, nil, ErrEmptyGroup
	}
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	indices := make([]int, 0, n)
	pos := prev
	for range n {
		next, err := Advance(pos, total)
		if err != nil {
			return prev, nil, err
		}
		indices = append(indices, next.LastIndex)
		pos = next
	}
	return pos, indices, nil
}
