// Package rotation serves content "next in sequence" per rotation key without
// immediate repeats and with deterministic wrap-around.
//
// A rotation key partitions content into independent sequences (a difficulty
// level, a fixed category). Three pieces cooperate:
//
//   - Store exposes the ordered items of a key: how many there are and the
//     item at a given ordinal.
//   - Cursor remembers the last ordinal served per key and advances it. The
//     advance is atomic per key so concurrent callers never observe the same
//     position twice in a row; different keys never block each other.
//   - Selector combines both into SelectNext, the single operation the
//     transport layer calls.
//
// The advance rule lives in Advance so every Cursor implementation (the
// in-memory MemoryCursor here, the SQLite cursor in package content) shares
// identical semantics:
//
//   - a fresh key starts at ordinal 0;
//   - when the group size changes, the cursor restarts at (last+1) mod total so
//     it never points outside the group;
//   - otherwise it moves to (last+1) mod total.
//
// A group with a single item necessarily repeats that item on every call. That
// is policy, not a bug. An empty group is reported as ErrNoContent by the
// Selector and never touches the cursor.
package rotation
