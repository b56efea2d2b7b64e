package tool

import (
	"testing"

	"lanfinitas-studio/internal/annotation"
	"lanfinitas-studio/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

func TestKeypointCommitsImmediately(t *testing.T) {
	d := NewDispatcher()
	d.SetTool(ToolKeypoint)

	s, ok := d.PointerDown(pt(4, 7))
	if !ok {
		t.Fatal("keypoint should commit on pointer-down")
	}
	if s.Kind != annotation.KindKeypoint || len(s.Points) != 1 {
		t.Fatalf("unexpected shape: %+v", s)
	}
	if d.State() != StateIdle {
		t.Fatal("dispatcher should stay idle after a keypoint")
	}
}

func TestSeamNeedsTwoPointerDowns(t *testing.T) {
	for _, tool := range []Tool{ToolSeam, ToolGrainline} {
		d := NewDispatcher()
		d.SetTool(tool)

		if _, ok := d.PointerDown(pt(0, 0)); ok {
			t.Fatal("first pointer-down must not commit")
		}
		if d.State() != StateAwaitingSecondPoint {
			t.Fatalf("state = %v, want awaiting-second-point", d.State())
		}

		s, ok := d.PointerDown(pt(10, 10))
		if !ok {
			t.Fatal("second pointer-down should commit")
		}
		if len(s.Points) != 2 {
			t.Fatalf("expected 2 points, got %d", len(s.Points))
		}
		if err := s.Validate(); err != nil {
			t.Fatalf("committed shape invalid: %v", err)
		}
		if d.State() != StateIdle {
			t.Fatal("dispatcher should return to idle")
		}
	}
}

func TestToolSwitchDiscardsHalfDrawnSeam(t *testing.T) {
	d := NewDispatcher()
	d.SetTool(ToolSeam)
	d.PointerDown(pt(0, 0))

	d.SetTool(ToolKeypoint)
	if d.State() != StateIdle {
		t.Fatal("tool switch must reset to idle")
	}
	if len(d.Pending()) != 0 {
		t.Fatal("tool switch must discard pending points")
	}
}

func TestRegionRequiresThreePoints(t *testing.T) {
	d := NewDispatcher()
	d.SetTool(ToolRegion)

	d.PointerDown(pt(0, 0))
	d.PointerDown(pt(10, 0))
	if _, ok := d.CompletePolygon(); ok {
		t.Fatal("region with 2 points must be discarded silently")
	}
	if d.State() != StateIdle {
		t.Fatal("failed completion must still clear provisional state")
	}

	d.PointerDown(pt(0, 0))
	d.PointerDown(pt(10, 0))
	d.PointerDown(pt(10, 10))
	d.PointerDown(pt(0, 10))
	s, ok := d.CompletePolygon()
	if !ok {
		t.Fatal("region with 4 points should commit")
	}
	if s.Kind != annotation.KindRegion || len(s.Points) != 4 {
		t.Fatalf("unexpected region: %+v", s)
	}
}

func TestRegionCancelDiscards(t *testing.T) {
	d := NewDispatcher()
	d.SetTool(ToolRegion)
	d.PointerDown(pt(0, 0))
	d.PointerDown(pt(10, 0))
	d.PointerDown(pt(10, 10))

	d.Cancel()
	if _, ok := d.CompletePolygon(); ok {
		t.Fatal("complete after cancel must not commit")
	}
}

func TestDragShapeBelowThresholdDiscarded(t *testing.T) {
	tests := []struct {
		name string
		tool Tool
		from geometry.Point2D
		to   geometry.Point2D
		want bool
	}{
		{"rect big enough", ToolRectangle, pt(0, 0), pt(10, 8), true},
		{"rect thin edge", ToolRectangle, pt(0, 0), pt(40, 3), false},
		{"rect stray click", ToolRectangle, pt(5, 5), pt(5, 5), false},
		{"circle radius 5", ToolCircle, pt(0, 0), pt(5, 0), true},
		{"circle radius 4.9", ToolCircle, pt(0, 0), pt(4.9, 0), false},
		{"line length 6", ToolLine, pt(0, 0), pt(6, 0), true},
		{"line length 2", ToolLine, pt(0, 0), pt(2, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher()
			d.SetTool(tt.tool)

			d.PointerDown(tt.from)
			if d.State() != StateDraggingShape {
				t.Fatalf("state = %v, want dragging", d.State())
			}
			d.PointerMove(tt.to)
			_, ok := d.PointerUp(tt.to)
			if ok != tt.want {
				t.Fatalf("commit = %v, want %v", ok, tt.want)
			}
			if d.State() != StateIdle {
				t.Fatal("pointer-up must always return to idle")
			}
		})
	}
}

func TestProvisionalTracksPointerMove(t *testing.T) {
	d := NewDispatcher()
	d.SetTool(ToolRectangle)
	d.PointerDown(pt(1, 1))
	d.PointerMove(pt(30, 20))

	prov, ok := d.Provisional()
	if !ok {
		t.Fatal("provisional shape missing during drag")
	}
	if prov.Points[1] != pt(30, 20) {
		t.Fatalf("provisional extent = %v, want (30,20)", prov.Points[1])
	}
}

func TestTextCommitsWithLabel(t *testing.T) {
	d := NewDispatcher()
	d.SetTool(ToolText)
	d.SetTextLabel("CF bust notch")

	s, ok := d.PointerDown(pt(3, 3))
	if !ok {
		t.Fatal("text should commit on pointer-down")
	}
	if s.Label != "CF bust notch" {
		t.Fatalf("label = %q", s.Label)
	}
}

func TestSelectToolIgnoresPointer(t *testing.T) {
	d := NewDispatcher()
	if _, ok := d.PointerDown(pt(1, 1)); ok {
		t.Fatal("select tool must not create shapes")
	}
	if d.State() != StateIdle {
		t.Fatal("select tool must stay idle")
	}
}
