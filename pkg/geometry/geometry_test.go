package geometry

import (
	"math"
	"testing"
)

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{{X: 10, Y: 10}, {X: 50, Y: 10}, {X: 50, Y: 50}, {X: 10, Y: 50}}
	b := BoundingBox(pts)
	if b.X != 10 || b.Y != 10 || b.Width != 40 || b.Height != 40 {
		t.Fatalf("bbox = %+v, want {10 10 40 40}", b)
	}
	if got := BoundingBox(nil); got != (Rect{}) {
		t.Fatalf("empty bbox = %+v, want zero", got)
	}
}

func TestCentroid(t *testing.T) {
	pts := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	c := Centroid(pts)
	if c.X != 5 || c.Y != 5 {
		t.Fatalf("centroid = %+v, want (5,5)", c)
	}
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point2D
		want float64
	}{
		{"square", []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, 100},
		{"square clockwise", []Point2D{{0, 10}, {10, 10}, {10, 0}, {0, 0}}, 100},
		{"triangle", []Point2D{{0, 0}, {10, 0}, {0, 10}}, 50},
		{"degenerate", []Point2D{{0, 0}, {10, 0}}, 0},
	}
	for _, tt := range tests {
		if got := PolygonArea(tt.pts); got != tt.want {
			t.Errorf("%s: area = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPolygonPerimeter(t *testing.T) {
	pts := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if got := PolygonPerimeter(pts); got != 40 {
		t.Fatalf("perimeter = %v, want 40", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if !PointInPolygon(Point2D{X: 5, Y: 5}, square) {
		t.Fatal("(5,5) should be inside")
	}
	if PointInPolygon(Point2D{X: 15, Y: 5}, square) {
		t.Fatal("(15,5) should be outside")
	}
	if PointInPolygon(Point2D{X: 1, Y: 1}, square[:2]) {
		t.Fatal("degenerate polygon contains nothing")
	}
}

func TestRectHelpers(t *testing.T) {
	r := NewRect(10, 10, 40, 40)
	if c := r.Center(); c.X != 30 || c.Y != 30 {
		t.Fatalf("center = %+v", c)
	}
	if r.Area() != 1600 {
		t.Fatalf("area = %v", r.Area())
	}
	u := r.Union(NewRect(0, 0, 5, 5))
	if u.X != 0 || u.Y != 0 || u.Width != 50 || u.Height != 50 {
		t.Fatalf("union = %+v", u)
	}
}

func TestDistance(t *testing.T) {
	if d := (Point2D{X: 0, Y: 0}).Distance(Point2D{X: 3, Y: 4}); math.Abs(d-5) > 1e-12 {
		t.Fatalf("distance = %v, want 5", d)
	}
}
