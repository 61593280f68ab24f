package rank

import "errors"

// State is the phase of a drag session.
type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

var (
	// ErrAlreadyDragging is returned by Start while another drag is active.
	ErrAlreadyDragging = errors.New("a drag is already in progress")

	// ErrUnknownItem is returned by Start when the id is not in the sequence.
	ErrUnknownItem = errors.New("item not found")
)

// Session tracks one drag gesture. The sequence captured at Start is never
// modified; moves only produce a preview, which Commit hands back to the
// caller to adopt.
type Session[T any, K comparable] struct {
	key     func(T) K
	state   State
	dragged K
	base    []T
	preview []T
}

// NewSession returns an idle session that identifies elements with key.
func NewSession[T any, K comparable](key func(T) K) *Session[T, K] {
	return &Session[T, K]{key: key}
}

// State returns the current phase.
func (s *Session[T, K]) State() State {
	return s.state
}

// Dragged returns the id being dragged, if any.
func (s *Session[T, K]) Dragged() (K, bool) {
	return s.dragged, s.state == StateDragging
}

// Start begins dragging id over a snapshot of seq.
func (s *Session[T, K]) Start(seq []T, id K) error {
	if s.state == StateDragging {
		return ErrAlreadyDragging
	}
	if IndexOf(seq, s.key, id) < 0 {
		return ErrUnknownItem
	}

	s.base = make([]T, len(seq))
	copy(s.base, seq)
	s.preview = make([]T, len(seq))
	copy(s.preview, seq)
	s.dragged = id
	s.state = StateDragging
	return nil
}

// MoveOver previews dropping the dragged item at the position currently held
// by targetID. It is a no-op outside a drag or for an unknown target.
func (s *Session[T, K]) MoveOver(targetID K) bool {
	if s.state != StateDragging {
		return false
	}
	idx := IndexOf(s.base, s.key, targetID)
	if idx < 0 {
		return false
	}
	return s.MoveTo(idx)
}

// MoveTo previews dropping the dragged item at index (clamped).
func (s *Session[T, K]) MoveTo(index int) bool {
	if s.state != StateDragging {
		return false
	}
	preview, ok := Move(s.base, s.key, s.dragged, index)
	if !ok {
		return false
	}
	s.preview = preview
	return true
}

// Position returns the dragged item's index in the preview, or -1.
func (s *Session[T, K]) Position() int {
	if s.state != StateDragging {
		return -1
	}
	return IndexOf(s.preview, s.key, s.dragged)
}

// Preview returns a copy of the previewed order, or nil when idle.
func (s *Session[T, K]) Preview() []T {
	if s.state != StateDragging {
		return nil
	}
	out := make([]T, len(s.preview))
	copy(out, s.preview)
	return out
}

// Commit ends the drag and returns the previewed order for the caller to
// adopt. ok is false when no drag was active.
func (s *Session[T, K]) Commit() (order []T, ok bool) {
	if s.state != StateDragging {
		return nil, false
	}
	order = s.preview
	s.reset()
	return order, true
}

// Cancel ends the drag and discards the preview.
func (s *Session[T, K]) Cancel() {
	s.reset()
}

func (s *Session[T, K]) reset() {
	var zero K
	s.state = StateIdle
	s.dragged = zero
	s.base = nil
	s.preview = nil
}
