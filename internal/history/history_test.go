package history

import (
	"errors"
	"fmt"
	"testing"
)

func snap(i int) []byte { return []byte(fmt.Sprintf("s%d", i)) }

func collect(dst *string) func([]byte) error {
	return func(b []byte) error {
		*dst = string(b)
		return nil
	}
}

func TestEmptyStack(t *testing.T) {
	s := New(0)
	if s.Capacity() != DefaultCapacity {
		t.Fatalf("capacity = %d, want %d", s.Capacity(), DefaultCapacity)
	}
	if s.Cursor() != -1 || s.Len() != 0 || s.Current() != nil {
		t.Fatalf("unexpected empty state: cursor=%d len=%d", s.Cursor(), s.Len())
	}
	if err := s.Undo(func([]byte) error { return nil }); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("Undo err = %v", err)
	}
	if err := s.Redo(func([]byte) error { return nil }); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("Redo err = %v", err)
	}
}

func TestUndoRedoWalk(t *testing.T) {
	s := New(5)
	for i := 0; i < 3; i++ {
		s.Push(snap(i))
	}
	var got string
	if err := s.Undo(collect(&got)); err != nil || got != "s1" {
		t.Fatalf("Undo = %q, %v", got, err)
	}
	if err := s.Undo(collect(&got)); err != nil || got != "s0" {
		t.Fatalf("Undo = %q, %v", got, err)
	}
	if err := s.Undo(collect(&got)); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("Undo at oldest err = %v", err)
	}
	if err := s.Redo(collect(&got)); err != nil || got != "s1" {
		t.Fatalf("Redo = %q, %v", got, err)
	}
	if s.Cursor() != 1 || !s.CanRedo() {
		t.Fatalf("cursor = %d canRedo=%v", s.Cursor(), s.CanRedo())
	}
}

func TestPushTruncatesRedo(t *testing.T) {
	s := New(5)
	s.Push(snap(0))
	s.Push(snap(1))
	s.Push(snap(2))
	var got string
	_ = s.Undo(collect(&got))
	_ = s.Undo(collect(&got))
	s.Push(snap(9))
	if s.Len() != 2 || s.CanRedo() {
		t.Fatalf("len=%d canRedo=%v after push", s.Len(), s.CanRedo())
	}
	if string(s.Current()) != "s9" {
		t.Fatalf("current = %q", s.Current())
	}
	if err := s.Redo(collect(&got)); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("Redo err = %v", err)
	}
}

func TestEvictionKeepsNewest(t *testing.T) {
	s := New(30)
	for i := 0; i < 35; i++ {
		s.Push(snap(i))
	}
	if s.Len() != 30 || s.Cursor() != 29 {
		t.Fatalf("len=%d cursor=%d", s.Len(), s.Cursor())
	}
	var got string
	for s.CanUndo() {
		if err := s.Undo(collect(&got)); err != nil {
			t.Fatalf("Undo: %v", err)
		}
	}
	if got != "s5" {
		t.Fatalf("oldest retained = %q, want s5", got)
	}
}

func TestEvictionAfterUndoAndPush(t *testing.T) {
	s := New(3)
	for i := 0; i < 3; i++ {
		s.Push(snap(i))
	}
	var got string
	_ = s.Undo(collect(&got))
	s.Push(snap(7))
	s.Push(snap(8))
	if s.Len() != 3 {
		t.Fatalf("len = %d", s.Len())
	}
	want := []string{"s7", "s1"}
	for _, w := range want {
		if err := s.Undo(collect(&got)); err != nil || got != w {
			t.Fatalf("Undo = %q, %v; want %q", got, err, w)
		}
	}
}

func TestFailedRestoreKeepsCursor(t *testing.T) {
	s := New(4)
	s.Push(snap(0))
	s.Push(snap(1))
	boom := errors.New("decode failed")
	if err := s.Undo(func([]byte) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Undo err = %v", err)
	}
	if s.Cursor() != 1 {
		t.Fatalf("cursor moved to %d", s.Cursor())
	}
}
