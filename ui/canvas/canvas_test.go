package canvas

import (
	"math"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"lanfinitas-studio/pkg/geometry"
)

func newTestCanvas() *DrawCanvas {
	test.NewApp()
	return NewDrawCanvas(geometry.NewSize(800, 600))
}

func TestZoomClamped(t *testing.T) {
	dc := newTestCanvas()

	for i := 0; i < 50; i++ {
		dc.ZoomIn()
	}
	if dc.Zoom() != maxZoom {
		t.Fatalf("zoom after repeated ZoomIn = %v, want %v", dc.Zoom(), maxZoom)
	}

	for i := 0; i < 100; i++ {
		dc.ZoomOut()
	}
	if dc.Zoom() != minZoom {
		t.Fatalf("zoom after repeated ZoomOut = %v, want %v", dc.Zoom(), minZoom)
	}
}

func TestZoomStep(t *testing.T) {
	dc := newTestCanvas()

	dc.ZoomIn()
	if math.Abs(dc.Zoom()-zoomStep) > 1e-9 {
		t.Fatalf("zoom after one step = %v, want %v", dc.Zoom(), zoomStep)
	}
	dc.ZoomOut()
	if math.Abs(dc.Zoom()-1.0) > 1e-9 {
		t.Fatalf("zoom after step back = %v, want 1.0", dc.Zoom())
	}
}

func TestResetZoomRestoresViewTransform(t *testing.T) {
	dc := newTestCanvas()

	dc.SetZoom(3.0)
	dc.scroll.scroll.Offset = fyne.NewPos(120, 80)

	dc.ResetZoom()
	if dc.Zoom() != 1.0 {
		t.Fatalf("zoom after reset = %v, want 1.0", dc.Zoom())
	}
	if off := dc.scroll.Offset(); off.X != 0 || off.Y != 0 {
		t.Fatalf("pan offset after reset = %v, want origin", off)
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	dc := newTestCanvas()
	dc.SetZoom(2.5)

	p := geometry.Point2D{X: 123.4, Y: 56.7}
	got := dc.ViewToScene(dc.SceneToView(p))
	if math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
		t.Fatalf("round trip %v -> %v", p, got)
	}
}

func TestZoomChangeCallback(t *testing.T) {
	dc := newTestCanvas()

	var last float64
	dc.OnZoomChange(func(zoom float64) { last = zoom })

	dc.SetZoom(3.0)
	if last != 3.0 {
		t.Fatalf("callback saw %v, want 3.0", last)
	}

	dc.Dispose()
	dc.SetZoom(1.0)
	if last != 3.0 {
		t.Fatal("callback fired after Dispose")
	}
}
