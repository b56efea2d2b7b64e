package annotation

import (
	"testing"

	"lanfinitas-studio/pkg/geometry"
)

func TestValidate(t *testing.T) {
	pt := func(n int) []geometry.Point2D {
		pts := make([]geometry.Point2D, n)
		for i := range pts {
			pts[i] = geometry.Point2D{X: float64(i), Y: float64(i)}
		}
		return pts
	}

	tests := []struct {
		kind    Kind
		points  int
		wantErr bool
	}{
		{KindKeypoint, 1, false},
		{KindKeypoint, 2, true},
		{KindSeam, 2, false},
		{KindSeam, 1, true},
		{KindGrainline, 2, false},
		{KindGrainline, 3, true},
		{KindRegion, 3, false},
		{KindRegion, 6, false},
		{KindRegion, 2, true},
		{KindRectangle, 2, false},
		{KindCircle, 2, false},
		{KindLine, 2, false},
		{KindLine, 0, true},
		{KindText, 1, false},
		{Kind("blob"), 1, true},
	}
	for _, tt := range tests {
		s := New(tt.kind, pt(tt.points), "#000000")
		err := s.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%s, %d points) error=%v, wantErr=%v", tt.kind, tt.points, err, tt.wantErr)
		}
	}
}

func TestCircleBounds(t *testing.T) {
	c := New(KindCircle, []geometry.Point2D{{X: 10, Y: 10}, {X: 13, Y: 14}}, "#000000")
	if r := c.Radius(); r != 5 {
		t.Fatalf("radius = %v, want 5", r)
	}
	b := c.Bounds()
	if b.X != 5 || b.Y != 5 || b.Width != 10 || b.Height != 10 {
		t.Fatalf("bounds = %+v, want {5 5 10 10}", b)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := New(KindSeam, []geometry.Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}}, "#000000")
	c := s.Clone()
	c.Points[0].X = 99
	if s.Points[0].X != 1 {
		t.Fatal("clone shares point storage with original")
	}
}
