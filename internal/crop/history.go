package crop

// History is the linear undo/redo stack of crop rectangles. Completing a
// gesture truncates any redo entries beyond the current index before
// appending, so redo never resurrects an abandoned branch.
type History struct {
	entries []Rect
	index   int
}

// NewHistory starts a history seeded with the initial rectangle.
func NewHistory(initial Rect) *History {
	return &History{entries: []Rect{initial}}
}

// Current returns the rectangle at the history cursor.
func (h *History) Current() Rect {
	return h.entries[h.index]
}

// Push records a completed interaction, discarding any undone future.
func (h *History) Push(r Rect) {
	h.entries = append(h.entries[:h.index+1], r)
	h.index = len(h.entries) - 1
}

// Undo steps the cursor back and returns the restored rectangle. At the
// oldest entry it is a no-op.
func (h *History) Undo() (Rect, bool) {
	if h.index == 0 {
		return h.entries[h.index], false
	}
	h.index--
	return h.entries[h.index], true
}

// Redo steps the cursor forward and returns the restored rectangle. At
// the newest entry it is a no-op.
func (h *History) Redo() (Rect, bool) {
	if h.index >= len(h.entries)-1 {
		return h.entries[h.index], false
	}
	h.index++
	return h.entries[h.index], true
}

// CanUndo reports whether an older entry exists.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether an undone entry exists.
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Len returns the number of recorded entries.
func (h *History) Len() int { return len(h.entries) }
