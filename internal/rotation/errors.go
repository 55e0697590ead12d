package rotation

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyGroup is returned by a Cursor asked to advance a key whose group
	// holds no items.
	ErrEmptyGroup = errors.New("rotation: empty group")
	// ErrNoContent is the benign signal returned by the Selector when a key has
	// nothing to serve. Callers report it as an empty state, not a fault.
	ErrNoContent = errors.New("rotation: no content available")
)

// OutOfRangeError reports an ordinal outside [0, Count) for a key. Seeing one
// means index computation or a concurrent resize went wrong; it is never
// corrected silently.
type OutOfRangeError struct {
	Key   string
	Index int
	Count int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("rotation: index %d out of range for key %q (count %d)", e.Index, e.Key, e.Count)
}

// ErrorKind classifies the error for transport status mapping.
func (e *OutOfRangeError) ErrorKind() string {
	return "invariant"
}

// IsEmpty reports whether err signals an empty rotation group.
func IsEmpty(err error) bool {
	return errors.Is(err, ErrNoContent) || errors.Is(err, ErrEmptyGroup)
}
