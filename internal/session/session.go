// Package session holds the state of one editing session: the document
// being annotated, the object store with its history, the active tool, and
// an event bus the UI subscribes to for re-rendering.
package session

import (
	"sync"

	"lanfinitas-studio/internal/annotation"
	"lanfinitas-studio/internal/tool"
	"lanfinitas-studio/pkg/geometry"
)

// Document describes the image or pattern sheet being edited.
type Document struct {
	Name string
	URL  string
	Size geometry.Size
}

// EventType identifies session events.
type EventType int

const (
	EventDocumentLoaded EventType = iota
	EventShapesChanged
	EventSelectionChanged
	EventToolChanged
	EventViewChanged
	EventModified
)

// Listener is called when an event occurs.
type Listener func(data interface{})

// Session owns the store, tool dispatcher, and document for one page. The
// session is exclusively owned by its hosting page for the page's lifetime;
// it is discarded on navigation away.
type Session struct {
	mu sync.RWMutex

	doc      Document
	store    *annotation.Store
	tools    *tool.Dispatcher
	modified bool

	listeners map[EventType][]Listener
}

// New creates an empty session.
func New() *Session {
	return &Session{
		store:     annotation.NewStore(),
		tools:     tool.NewDispatcher(),
		listeners: make(map[EventType][]Listener),
	}
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Store returns the object store.
func (s *Session) Store() *annotation.Store {
	return s.store
}

// Tools returns the tool dispatcher.
func (s *Session) Tools() *tool.Dispatcher {
	return s.tools
}

// Document returns the current document.
func (s *Session) Document() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// SetDocument replaces the current document and emits EventDocumentLoaded.
func (s *Session) SetDocument(doc Document) {
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	s.Emit(EventDocumentLoaded, doc)
}

// Modified reports whether the session has uncommitted work.
func (s *Session) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// SetModified marks the session as modified and emits an event.
func (s *Session) SetModified(modified bool) {
	s.mu.Lock()
	s.modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// AddShape commits a shape to the store and notifies the UI.
func (s *Session) AddShape(shape annotation.Shape) annotation.Shape {
	added := s.store.Add(shape)
	s.afterMutation()
	return added
}

// UpdateShape replaces a shape wholesale and notifies the UI.
func (s *Session) UpdateShape(id string, shape annotation.Shape) bool {
	if !s.store.Update(id, shape) {
		return false
	}
	s.afterMutation()
	return true
}

// RemoveShape deletes a shape and notifies the UI.
func (s *Session) RemoveShape(id string) bool {
	if !s.store.Remove(id) {
		return false
	}
	s.Emit(EventSelectionChanged, s.store.Selected())
	s.afterMutation()
	return true
}

// Clear removes all shapes and notifies the UI.
func (s *Session) Clear() {
	s.store.Clear()
	s.Emit(EventSelectionChanged, "")
	s.afterMutation()
}

// ToggleVisibility flips a shape's visibility and notifies the UI.
func (s *Session) ToggleVisibility(id string) bool {
	if !s.store.ToggleVisibility(id) {
		return false
	}
	s.afterMutation()
	return true
}

// ToggleLock flips a shape's lock flag and notifies the UI.
func (s *Session) ToggleLock(id string) bool {
	if !s.store.ToggleLock(id) {
		return false
	}
	s.afterMutation()
	return true
}

// Select changes the selection and notifies the UI.
func (s *Session) Select(id string) {
	s.store.Select(id)
	s.Emit(EventSelectionChanged, id)
}

// Undo steps the store back one snapshot. Out-of-range requests are
// silently ignored.
func (s *Session) Undo() {
	if !s.store.Undo() {
		return
	}
	s.Emit(EventSelectionChanged, s.store.Selected())
	s.afterMutation()
}

// Redo steps the store forward one snapshot. Out-of-range requests are
// silently ignored.
func (s *Session) Redo() {
	if !s.store.Redo() {
		return
	}
	s.Emit(EventSelectionChanged, s.store.Selected())
	s.afterMutation()
}

// Restore replaces the shape list from a recovery record without recording
// history.
func (s *Session) Restore(shapes []annotation.Shape) {
	s.store.Restore(shapes)
	s.Emit(EventShapesChanged, nil)
}

func (s *Session) afterMutation() {
	s.SetModified(true)
	s.Emit(EventShapesChanged, nil)
}
