// Package history keeps linear undo/redo snapshots of committed buffers.
package history

import (
	"github.com/rm-hull/photo-editor/internal/pixel"
)

// Stack is a linear undo history. Every entry is a private copy taken at
// commit time and handed out only as further copies, so stored snapshots
// can never alias a buffer that someone else is editing.
type Stack struct {
	entries []*pixel.Buffer
	current int
	limit   int
}

// New returns an empty stack. A positive limit caps the number of retained
// entries by dropping the oldest; zero keeps everything.
func New(limit int) *Stack {
	return &Stack{current: -1, limit: max(limit, 0)}
}

// Limit returns the retention cap, zero meaning unbounded.
func (s *Stack) Limit() int {
	return s.limit
}

// Commit discards anything after the current entry, appends a copy of buf
// and makes it current.
func (s *Stack) Commit(buf *pixel.Buffer) {
	clear(s.entries[s.current+1:])
	s.entries = append(s.entries[:s.current+1], buf.Clone())
	if s.limit > 0 && len(s.entries) > s.limit {
		drop := len(s.entries) - s.limit
		clear(s.entries[:drop])
		s.entries = s.entries[drop:]
	}
	s.current = len(s.entries) - 1
}

// Undo steps back one entry and returns it. At the oldest entry, or when
// nothing has been committed, it returns false and changes nothing.
func (s *Stack) Undo() (*pixel.Buffer, bool) {
	if s.current <= 0 {
		return nil, false
	}
	s.current--
	return s.entries[s.current].Clone(), true
}

// Redo steps forward one entry and returns it. At the newest entry it
// returns false and changes nothing.
func (s *Stack) Redo() (*pixel.Buffer, bool) {
	if s.current < 0 || s.current >= len(s.entries)-1 {
		return nil, false
	}
	s.current++
	return s.entries[s.current].Clone(), true
}

// Current returns a copy of the current entry.
func (s *Stack) Current() (*pixel.Buffer, bool) {
	if s.current < 0 {
		return nil, false
	}
	return s.entries[s.current].Clone(), true
}

// Len returns the number of stored entries.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Index returns the position of the current entry, or -1 when empty.
func (s *Stack) Index() int {
	return s.current
}

// CanUndo reports whether Undo would move.
func (s *Stack) CanUndo() bool {
	return s.current > 0
}

// CanRedo reports whether Redo would move.
func (s *Stack) CanRedo() bool {
	return s.current >= 0 && s.current < len(s.entries)-1
}

// Frames returns copies of the entries from the oldest up to and including
// the current one, which is what an animated export replays.
func (s *Stack) Frames() []*pixel.Buffer {
	frames := make([]*pixel.Buffer, 0, s.current+1)
	for _, e := range s.entries[:s.current+1] {
		frames = append(frames, e.Clone())
	}
	return frames
}
