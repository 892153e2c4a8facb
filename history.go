package workflow

// History owns the current snapshot plus the undo and redo stacks.
// Both stacks are most-recent-last and unbounded.
// Snapshots it returns are copies. A History is not safe for concurrent use.
type History struct {
	current Graph
	undo    []Graph
	redo    []Graph
}

// NewHistory returns a History whose current snapshot is g and whose stacks are empty.
func NewHistory(g Graph) *History {
	return &History{current: g}
}

// Current returns a copy of the current snapshot.
func (h *History) Current() Graph {
	return h.current.clone()
}

// Apply runs m against the current snapshot. On success the old snapshot is
// pushed onto the undo stack and the redo stack is discarded. On failure
// nothing changes.
func (h *History) Apply(m Mutation) error {
	next, err := m(h.current)
	if err != nil {
		return err
	}
	h.undo = append(h.undo, h.current)
	h.current = next
	h.redo = nil
	return nil
}

// Undo restores the most recent snapshot from the undo stack.
// It returns false if there is nothing to undo.
func (h *History) Undo() (Graph, bool) {
	if len(h.undo) == 0 {
		return h.current.clone(), false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, h.current)
	h.current = prev
	return prev.clone(), true
}

// Redo reapplies the most recently undone snapshot.
// It returns false if there is nothing to redo.
func (h *History) Redo() (Graph, bool) {
	if len(h.redo) == 0 {
		return h.current.clone(), false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, h.current)
	h.current = next
	return next.clone(), true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Reset makes g the current snapshot and empties both stacks.
func (h *History) Reset(g Graph) {
	h.current = g
	h.undo = nil
	h.redo = nil
}
