// Package annotation provides the shape model, object store, and undo/redo
// history shared by the pattern annotator and the 2D pattern editor.
package annotation

import (
	"fmt"

	"lanfinitas-studio/pkg/geometry"

	"github.com/google/uuid"
)

// Kind identifies the type of a shape.
type Kind string

const (
	KindKeypoint  Kind = "keypoint"
	KindSeam      Kind = "seam"
	KindGrainline Kind = "grainline"
	KindRegion    Kind = "region"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindLine      Kind = "line"
	KindText      Kind = "text"
)

// Shape is one typed geometric record. The meaning of Points depends on Kind:
//
//	keypoint   — exactly 1 point
//	seam       — exactly 2 points (endpoints)
//	grainline  — exactly 2 points (tail, head; head carries the arrow)
//	region     — ordered polygon ring, 3 or more points
//	rectangle  — 2 points (opposite corners)
//	circle     — 2 points (center, a point on the circumference)
//	line       — exactly 2 points (endpoints)
//	text       — 1 point (anchor), Label holds the text
//
// Shapes are value types: mutations replace the whole shape, there are no
// partial in-place edits.
type Shape struct {
	ID      string             `json:"id"`
	Kind    Kind               `json:"kind"`
	Points  []geometry.Point2D `json:"points"`
	Label   string             `json:"label,omitempty"`
	Color   string             `json:"color"`
	Visible bool               `json:"visible"`
	Locked  bool               `json:"locked,omitempty"`
}

// New creates a shape of the given kind with a fresh unique identifier.
func New(kind Kind, points []geometry.Point2D, color string) Shape {
	pts := make([]geometry.Point2D, len(points))
	copy(pts, points)
	return Shape{
		ID:      uuid.NewString(),
		Kind:    kind,
		Points:  pts,
		Color:   color,
		Visible: true,
	}
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	out := s
	out.Points = make([]geometry.Point2D, len(s.Points))
	copy(out.Points, s.Points)
	return out
}

// Validate checks the point-count invariant for the shape's kind.
func (s Shape) Validate() error {
	switch s.Kind {
	case KindKeypoint, KindText:
		if len(s.Points) != 1 {
			return fmt.Errorf("%s must have exactly 1 point, got %d", s.Kind, len(s.Points))
		}
	case KindSeam, KindGrainline, KindRectangle, KindCircle, KindLine:
		if len(s.Points) != 2 {
			return fmt.Errorf("%s must have exactly 2 points, got %d", s.Kind, len(s.Points))
		}
	case KindRegion:
		if len(s.Points) < 3 {
			return fmt.Errorf("region must have at least 3 points, got %d", len(s.Points))
		}
	default:
		return fmt.Errorf("unknown shape kind %q", s.Kind)
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the shape's points.
// For circles the box covers the full circumference.
func (s Shape) Bounds() geometry.Rect {
	if s.Kind == KindCircle && len(s.Points) == 2 {
		c := s.Points[0]
		r := c.Distance(s.Points[1])
		return geometry.NewRect(c.X-r, c.Y-r, 2*r, 2*r)
	}
	return geometry.BoundingBox(s.Points)
}

// Radius returns the circle radius, or 0 for non-circle shapes.
func (s Shape) Radius() float64 {
	if s.Kind != KindCircle || len(s.Points) != 2 {
		return 0
	}
	return s.Points[0].Distance(s.Points[1])
}

// cloneShapes deep-copies a shape list.
func cloneShapes(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}
