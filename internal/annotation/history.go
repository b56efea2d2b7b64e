package annotation

// History is a linear undo/redo stack over full snapshots of the shape list.
// Snapshot 0 is the state before the first mutation. Pushing after one or
// more undos discards every snapshot past the current index.
type History struct {
	snapshots [][]Shape
	index     int
}

// NewHistory creates a history seeded with the given initial state.
func NewHistory(initial []Shape) *History {
	return &History{
		snapshots: [][]Shape{cloneShapes(initial)},
		index:     0,
	}
}

// Push records a new snapshot, truncating any redoable entries.
func (h *History) Push(shapes []Shape) {
	h.snapshots = append(h.snapshots[:h.index+1], cloneShapes(shapes))
	h.index = len(h.snapshots) - 1
}

// Undo steps back one snapshot and returns it. Returns (nil, false) when
// already at the oldest snapshot.
func (h *History) Undo() ([]Shape, bool) {
	if h.index == 0 {
		return nil, false
	}
	h.index--
	return cloneShapes(h.snapshots[h.index]), true
}

// Redo steps forward one snapshot and returns it. Returns (nil, false) when
// already at the newest snapshot.
func (h *History) Redo() ([]Shape, bool) {
	if h.index >= len(h.snapshots)-1 {
		return nil, false
	}
	h.index++
	return cloneShapes(h.snapshots[h.index]), true
}

// CanUndo reports whether an older snapshot exists.
func (h *History) CanUndo() bool {
	return h.index > 0
}

// CanRedo reports whether a newer snapshot exists.
func (h *History) CanRedo() bool {
	return h.index < len(h.snapshots)-1
}

// Reset discards all snapshots and reseeds with the given state.
func (h *History) Reset(initial []Shape) {
	h.snapshots = [][]Shape{cloneShapes(initial)}
	h.index = 0
}

// Len returns the number of recorded snapshots.
func (h *History) Len() int {
	return len(h.snapshots)
}
