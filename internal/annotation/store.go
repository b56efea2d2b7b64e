package annotation

import (
	"sync"

	"github.com/google/uuid"
)

// Store is the ordered object store backing one editing session. Every
// committing mutation pushes a full snapshot onto the history, so undo and
// redo restore the exact shape list. Mutations happen on the UI event path,
// but the autosave goroutine reads concurrently, so all access goes through
// the store's lock.
type Store struct {
	mu       sync.RWMutex
	shapes   []Shape
	selected string
	history  *History
}

// NewStore creates an empty store with a fresh history.
func NewStore() *Store {
	return &Store{history: NewHistory(nil)}
}

// Shapes returns a copy of the current shape list in stacking order.
func (st *Store) Shapes() []Shape {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return cloneShapes(st.shapes)
}

// Len returns the number of shapes.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.shapes)
}

// Get returns the shape with the given identifier.
func (st *Store) Get(id string) (Shape, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, s := range st.shapes {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return Shape{}, false
}

// Add appends a shape to the list and pushes a history snapshot. The stored
// shape always receives a fresh unique identifier; the assigned shape is
// returned.
func (st *Store) Add(s Shape) Shape {
	st.mu.Lock()
	defer st.mu.Unlock()
	s = s.Clone()
	s.ID = uuid.NewString()
	st.shapes = append(st.shapes, s)
	st.history.Push(st.shapes)
	return s
}

// Update replaces the shape with matching identifier in place, preserving
// its position in the list, and pushes a history snapshot. Returns false if
// no shape has that identifier.
func (st *Store) Update(id string, s Shape) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.shapes {
		if st.shapes[i].ID == id {
			s = s.Clone()
			s.ID = id
			st.shapes[i] = s
			st.history.Push(st.shapes)
			return true
		}
	}
	return false
}

// Remove deletes the shape by identifier and pushes a history snapshot.
// If the removed shape was selected, the selection is cleared.
func (st *Store) Remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.shapes {
		if st.shapes[i].ID == id {
			st.shapes = append(st.shapes[:i], st.shapes[i+1:]...)
			if st.selected == id {
				st.selected = ""
			}
			st.history.Push(st.shapes)
			return true
		}
	}
	return false
}

// Clear removes all shapes and pushes a history snapshot.
func (st *Store) Clear() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.shapes) == 0 {
		return
	}
	st.shapes = nil
	st.selected = ""
	st.history.Push(st.shapes)
}

// ToggleVisibility flips the visibility flag of the shape and pushes a
// history snapshot.
func (st *Store) ToggleVisibility(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.shapes {
		if st.shapes[i].ID == id {
			st.shapes[i].Visible = !st.shapes[i].Visible
			st.history.Push(st.shapes)
			return true
		}
	}
	return false
}

// ToggleLock flips the lock flag of the shape and pushes a history snapshot.
func (st *Store) ToggleLock(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.shapes {
		if st.shapes[i].ID == id {
			st.shapes[i].Locked = !st.shapes[i].Locked
			st.history.Push(st.shapes)
			return true
		}
	}
	return false
}

// MoveToTop moves the shape to the end of the list (painted last, on top)
// and pushes a history snapshot.
func (st *Store) MoveToTop(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.shapes {
		if st.shapes[i].ID == id {
			s := st.shapes[i]
			st.shapes = append(st.shapes[:i], st.shapes[i+1:]...)
			st.shapes = append(st.shapes, s)
			st.history.Push(st.shapes)
			return true
		}
	}
	return false
}

// Select marks the shape as selected. An empty id clears the selection.
func (st *Store) Select(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.selected = id
}

// Selected returns the identifier of the selected shape, or "".
func (st *Store) Selected() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.selected
}

// Undo restores the previous snapshot. No-op returning false when already
// at the oldest snapshot.
func (st *Store) Undo() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	shapes, ok := st.history.Undo()
	if !ok {
		return false
	}
	st.shapes = shapes
	st.dropStaleSelection()
	return true
}

// Redo restores the next snapshot. No-op returning false when already at
// the newest snapshot.
func (st *Store) Redo() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	shapes, ok := st.history.Redo()
	if !ok {
		return false
	}
	st.shapes = shapes
	st.dropStaleSelection()
	return true
}

// CanUndo reports whether undo is available.
func (st *Store) CanUndo() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.history.CanUndo()
}

// CanRedo reports whether redo is available.
func (st *Store) CanRedo() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.history.CanRedo()
}

// Restore replaces the whole shape list without recording history. Used
// when loading an autosaved session; the history restarts from the restored
// state.
func (st *Store) Restore(shapes []Shape) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.shapes = cloneShapes(shapes)
	st.selected = ""
	st.history.Reset(st.shapes)
}

// CountByKind returns a count of shapes per kind.
func (st *Store) CountByKind() map[Kind]int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	counts := make(map[Kind]int)
	for _, s := range st.shapes {
		counts[s.Kind]++
	}
	return counts
}

// dropStaleSelection clears the selection if the selected shape no longer
// exists after an undo or redo.
func (st *Store) dropStaleSelection() {
	if st.selected == "" {
		return
	}
	for _, s := range st.shapes {
		if s.ID == st.selected {
			return
		}
	}
	st.selected = ""
}
