// Package history keeps a bounded, linear undo/redo log of encoded page
// snapshots.
package history

import "errors"

// DefaultCapacity is the number of snapshots kept per page.
const DefaultCapacity = 30

var (
	// ErrNothingToUndo is returned by Undo at the oldest retained snapshot.
	ErrNothingToUndo = errors.New("history: nothing to undo")
	// ErrNothingToRedo is returned by Redo at the newest snapshot.
	ErrNothingToRedo = errors.New("history: nothing to redo")
)

// Stack is a ring of snapshots with a cursor. The entry under the cursor is
// the state currently shown; entries after it are redo states. A Stack is not
// safe for concurrent use.
type Stack struct {
	buf    [][]byte
	base   int // ring index of the oldest entry
	length int
	cursor int // logical index, -1 when empty
}

// New returns an empty stack holding at most capacity snapshots. A
// non-positive capacity selects DefaultCapacity.
func New(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack{buf: make([][]byte, capacity), cursor: -1}
}

// Capacity returns the maximum number of retained snapshots.
func (s *Stack) Capacity() int { return len(s.buf) }

// Len returns the number of retained snapshots.
func (s *Stack) Len() int { return s.length }

// Cursor returns the logical index of the current snapshot, or -1.
func (s *Stack) Cursor() int { return s.cursor }

// CanUndo reports whether an older snapshot is available.
func (s *Stack) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether a newer snapshot is available.
func (s *Stack) CanRedo() bool { return s.cursor < s.length-1 }

// Current returns the snapshot under the cursor, or nil when empty.
func (s *Stack) Current() []byte {
	if s.cursor < 0 {
		return nil
	}
	return s.at(s.cursor)
}

// Push drops every redo entry, appends snap and moves the cursor to it. When
// the stack is full the oldest entry is evicted.
func (s *Stack) Push(snap []byte) {
	for i := s.cursor + 1; i < s.length; i++ {
		s.buf[s.index(i)] = nil
	}
	s.length = s.cursor + 1
	if s.length == len(s.buf) {
		s.buf[s.base] = nil
		s.base = (s.base + 1) % len(s.buf)
		s.length--
	}
	s.buf[s.index(s.length)] = snap
	s.length++
	s.cursor = s.length - 1
}

// Undo passes the previous snapshot to restore. The cursor moves back only
// when restore succeeds; a restore error is returned unchanged.
func (s *Stack) Undo(restore func([]byte) error) error {
	if !s.CanUndo() {
		return ErrNothingToUndo
	}
	if err := restore(s.at(s.cursor - 1)); err != nil {
		return err
	}
	s.cursor--
	return nil
}

// Redo passes the next snapshot to restore. The cursor moves forward only
// when restore succeeds.
func (s *Stack) Redo(restore func([]byte) error) error {
	if !s.CanRedo() {
		return ErrNothingToRedo
	}
	if err := restore(s.at(s.cursor + 1)); err != nil {
		return err
	}
	s.cursor++
	return nil
}

func (s *Stack) index(i int) int { return (s.base + i) % len(s.buf) }

func (s *Stack) at(i int) []byte { return s.buf[s.index(i)] }
