package board

import (
	"time"
)

// UndoLimit bounds the undo history; the oldest entry is evicted when
// an eleventh is pushed.
const UndoLimit = 10

// UndoEntry snapshots a task's completion state before a toggle so it
// can be restored. Only completion toggles are undoable.
type UndoEntry struct {
	TaskID      string
	Completed   bool
	CompletedAt *time.Time
}

// UndoStack is a bounded LIFO of completion-toggle snapshots.
type UndoStack struct {
	entries []UndoEntry
}

// Push appends an entry, evicting the oldest once the limit is hit.
func (s *UndoStack) Push(e UndoEntry) {
	s.entries = append(s.entries, e)
	if len(s.entries) > UndoLimit {
		s.entries = s.entries[1:]
	}
}

// Pop removes and returns the most recent entry. The second return is
// false when there is nothing to undo.
func (s *UndoStack) Pop() (UndoEntry, bool) {
	if len(s.entries) == 0 {
		return UndoEntry{}, false
	}
	e := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return e, true
}

// Len returns the number of entries available to undo.
func (s *UndoStack) Len() int {
	return len(s.entries)
}
