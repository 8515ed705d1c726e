// Package history provides the bounded undo stack of mask snapshots.
package history

import "mask-painter/internal/buffer"

// DefaultDepth is the number of snapshots retained when no explicit
// capacity is given.
const DefaultDepth = 20

// Stack is a fixed-capacity stack of mask snapshots backed by a ring
// buffer. Pushing onto a full stack overwrites the oldest entry, so the
// bound holds without shifting or rebuilding. There is no redo: history
// is one-directional.
type Stack struct {
	snaps []*buffer.Buffer
	head  int // slot for the next push
	count int
}

// NewStack creates an undo stack retaining at most capacity snapshots.
// Non-positive capacities fall back to DefaultDepth.
func NewStack(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultDepth
	}
	return &Stack{snaps: make([]*buffer.Buffer, capacity)}
}

// Cap returns the stack capacity.
func (s *Stack) Cap() int {
	return len(s.snaps)
}

// Len returns the number of snapshots currently held.
func (s *Stack) Len() int {
	return s.count
}

// Push stores a deep copy of b. When the stack is full the oldest
// snapshot is dropped to make room.
func (s *Stack) Push(b *buffer.Buffer) {
	if b == nil {
		return
	}
	s.snaps[s.head] = b.Clone()
	s.head = (s.head + 1) % len(s.snaps)
	if s.count < len(s.snaps) {
		s.count++
	}
}

// Pop removes and returns the most recent snapshot. The second return
// value is false when there is nothing to undo.
func (s *Stack) Pop() (*buffer.Buffer, bool) {
	if s.count == 0 {
		return nil, false
	}
	s.head = (s.head - 1 + len(s.snaps)) % len(s.snaps)
	b := s.snaps[s.head]
	s.snaps[s.head] = nil
	s.count--
	return b, true
}

// Clear releases every snapshot.
func (s *Stack) Clear() {
	for i := range s.snaps {
		s.snaps[i] = nil
	}
	s.head = 0
	s.count = 0
}
