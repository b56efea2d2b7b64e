// Package tool implements the drawing tool state machine. The dispatcher is
// independent of the rendering framework: pointer events go in, committed
// shapes come out, and the in-progress gesture is exposed as a provisional
// shape for preview rendering.
package tool

import (
	"lanfinitas-studio/internal/annotation"
	"lanfinitas-studio/pkg/geometry"
)

// Tool represents the active drawing tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolKeypoint
	ToolSeam
	ToolGrainline
	ToolRegion
	ToolRectangle
	ToolCircle
	ToolLine
	ToolText
)

// State identifies the dispatcher's drawing mode.
type State int

const (
	StateIdle State = iota
	StateAwaitingSecondPoint
	StateCollectingPolygon
	StateDraggingShape
)

// MinDragSize is the minimum rectangle edge, circle radius, or line length
// (in scene units) for a drag gesture to commit. Smaller results are
// discarded so a stray click never produces a near-zero-size shape.
const MinDragSize = 5.0

// Dispatcher turns pointer events into committed shapes according to the
// active tool. Switching tools mid-gesture discards all provisional state
// without committing anything.
type Dispatcher struct {
	tool  Tool
	state State
	color string
	label string

	pending     []geometry.Point2D
	provisional *annotation.Shape
}

// NewDispatcher creates a dispatcher in the idle state with the select tool.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{tool: ToolSelect, state: StateIdle, color: "#e63946"}
}

// Tool returns the active tool.
func (d *Dispatcher) Tool() Tool {
	return d.tool
}

// State returns the current drawing mode.
func (d *Dispatcher) State() State {
	return d.state
}

// SetTool switches the active tool, discarding any in-progress gesture.
func (d *Dispatcher) SetTool(t Tool) {
	d.tool = t
	d.Cancel()
}

// SetColor sets the color applied to newly committed shapes.
func (d *Dispatcher) SetColor(color string) {
	d.color = color
}

// SetTextLabel sets the label used by the text tool.
func (d *Dispatcher) SetTextLabel(label string) {
	d.label = label
}

// PointerDown feeds a pointer-down event at scene coordinates. When the
// event completes a shape (keypoint, or the second point of a seam or
// grainline), the completed shape is returned with ok=true.
func (d *Dispatcher) PointerDown(p geometry.Point2D) (annotation.Shape, bool) {
	switch d.tool {
	case ToolKeypoint:
		return annotation.New(annotation.KindKeypoint, []geometry.Point2D{p}, d.color), true

	case ToolText:
		s := annotation.New(annotation.KindText, []geometry.Point2D{p}, d.color)
		s.Label = d.label
		return s, true

	case ToolSeam, ToolGrainline:
		if d.state != StateAwaitingSecondPoint {
			d.pending = []geometry.Point2D{p}
			d.state = StateAwaitingSecondPoint
			return annotation.Shape{}, false
		}
		kind := annotation.KindSeam
		if d.tool == ToolGrainline {
			kind = annotation.KindGrainline
		}
		s := annotation.New(kind, []geometry.Point2D{d.pending[0], p}, d.color)
		d.reset()
		return s, true

	case ToolRegion:
		d.pending = append(d.pending, p)
		d.state = StateCollectingPolygon
		return annotation.Shape{}, false

	case ToolRectangle, ToolCircle, ToolLine:
		d.pending = []geometry.Point2D{p}
		s := annotation.New(d.dragKind(), []geometry.Point2D{p, p}, d.color)
		d.provisional = &s
		d.state = StateDraggingShape
		return annotation.Shape{}, false
	}
	return annotation.Shape{}, false
}

// PointerMove extends the provisional drag shape. No-op outside a drag.
func (d *Dispatcher) PointerMove(p geometry.Point2D) {
	if d.state != StateDraggingShape || d.provisional == nil {
		return
	}
	d.provisional.Points[1] = p
}

// PointerUp finalizes a drag gesture. The committed shape is returned with
// ok=true unless the result is below MinDragSize, in which case the
// provisional shape is discarded silently.
func (d *Dispatcher) PointerUp(p geometry.Point2D) (annotation.Shape, bool) {
	if d.state != StateDraggingShape || d.provisional == nil {
		return annotation.Shape{}, false
	}
	d.provisional.Points[1] = p
	s := d.provisional.Clone()
	d.reset()

	if dragTooSmall(s) {
		return annotation.Shape{}, false
	}
	return s, true
}

// CompletePolygon finishes polygon collection. The region is returned with
// ok=true when at least 3 vertices were collected; otherwise the points are
// discarded silently.
func (d *Dispatcher) CompletePolygon() (annotation.Shape, bool) {
	if d.state != StateCollectingPolygon {
		return annotation.Shape{}, false
	}
	pts := d.pending
	d.reset()

	if len(pts) < 3 {
		return annotation.Shape{}, false
	}
	return annotation.New(annotation.KindRegion, pts, d.color), true
}

// Cancel discards all provisional state without committing a shape.
func (d *Dispatcher) Cancel() {
	d.reset()
}

// Pending returns the points collected so far for an in-progress seam,
// grainline, or polygon gesture.
func (d *Dispatcher) Pending() []geometry.Point2D {
	out := make([]geometry.Point2D, len(d.pending))
	copy(out, d.pending)
	return out
}

// Provisional returns the live drag shape, if any.
func (d *Dispatcher) Provisional() (annotation.Shape, bool) {
	if d.provisional == nil {
		return annotation.Shape{}, false
	}
	return d.provisional.Clone(), true
}

func (d *Dispatcher) reset() {
	d.pending = nil
	d.provisional = nil
	d.state = StateIdle
}

func (d *Dispatcher) dragKind() annotation.Kind {
	switch d.tool {
	case ToolRectangle:
		return annotation.KindRectangle
	case ToolCircle:
		return annotation.KindCircle
	default:
		return annotation.KindLine
	}
}

// dragTooSmall reports whether a finalized drag shape falls below the
// minimum size threshold for its kind.
func dragTooSmall(s annotation.Shape) bool {
	switch s.Kind {
	case annotation.KindRectangle:
		b := geometry.BoundingBox(s.Points)
		return b.Width < MinDragSize || b.Height < MinDragSize
	case annotation.KindCircle:
		return s.Radius() < MinDragSize
	case annotation.KindLine:
		return s.Points[0].Distance(s.Points[1]) < MinDragSize
	}
	return false
}
