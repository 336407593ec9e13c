package history

import "github.com/yaklabco/sokki/pkg/textbuf"

// Stack is a bounded LIFO of buffer snapshots. When full, pushing drops the
// oldest entry.
type Stack struct {
	limit int
	items []textbuf.Buffer
}

// NewStack creates a stack holding at most limit entries. A non-positive
// limit selects DefaultLimit.
func NewStack(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Push adds snapshot on top. A snapshot whose text equals the current top's
// replaces the top instead, so repeated captures of the same document do not
// create empty undo steps.
func (s *Stack) Push(snapshot textbuf.Buffer) {
	if n := len(s.items); n > 0 && s.items[n-1].Text == snapshot.Text {
		s.items[n-1] = snapshot
		return
	}
	s.items = append(s.items, snapshot)
	if len(s.items) > s.limit {
		s.items = s.items[len(s.items)-s.limit:]
	}
}

// Pop removes and returns the top snapshot.
func (s *Stack) Pop() (textbuf.Buffer, bool) {
	n := len(s.items)
	if n == 0 {
		return textbuf.Buffer{}, false
	}
	top := s.items[n-1]
	s.items = s.items[:n-1]
	return top, true
}

// Peek returns the top snapshot without removing it.
func (s *Stack) Peek() (textbuf.Buffer, bool) {
	if len(s.items) == 0 {
		return textbuf.Buffer{}, false
	}
	return s.items[len(s.items)-1], true
}

// Len returns the number of entries.
func (s *Stack) Len() int {
	return len(s.items)
}

// Limit returns the capacity.
func (s *Stack) Limit() int {
	return s.limit
}

// Clear removes every entry.
func (s *Stack) Clear() {
	s.items = nil
}
