// Package pattern generates placeholder 2D pattern data. The generator keeps
// the output structure of a real flattening pipeline (pieces, contours,
// seams, notches, run metrics) but the geometry is canned demo data.
package pattern

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"lanfinitas-studio/internal/apitypes"
	"lanfinitas-studio/pkg/geometry"
)

// Generator produces demo patterns from a design.
type Generator struct {
	mu      sync.Mutex
	metrics map[string]float64
}

// NewGenerator creates a generator with empty metrics.
func NewGenerator() *Generator {
	return &Generator{metrics: make(map[string]float64)}
}

// panelContour is the fixed 50x70 rectangle used for both demo panels.
func panelContour() []apitypes.Point {
	return []apitypes.Point{
		{X: 0, Y: 0},
		{X: 50, Y: 0},
		{X: 50, Y: 70},
		{X: 0, Y: 70},
	}
}

// Generate returns a two-panel demo pattern for the design. The side seams
// sit on opposite edges so the panels join when sewn.
func (g *Generator) Generate(design apitypes.Design) apitypes.Pattern {
	start := time.Now()

	designID := design.ID
	if designID == "" {
		designID = "unknown"
	}

	pat := apitypes.Pattern{
		ID:       fmt.Sprintf("pattern_%04d", 1000+rand.Intn(9000)),
		DesignID: designID,
		Pieces: []apitypes.PatternPiece{
			{
				ID:      "front_panel",
				Type:    "front",
				Contour: panelContour(),
				Seams: []apitypes.Seam{
					{ID: "side_seam", Type: "plain", Points: []apitypes.Point{{X: 50, Y: 0}, {X: 50, Y: 70}}},
				},
				Notches: []apitypes.Point{},
			},
			{
				ID:      "back_panel",
				Type:    "back",
				Contour: panelContour(),
				Seams: []apitypes.Seam{
					{ID: "side_seam", Type: "plain", Points: []apitypes.Point{{X: 0, Y: 0}, {X: 0, Y: 70}}},
				},
				Notches: []apitypes.Point{},
			},
		},
		Metadata: map[string]string{
			"version":      "1.0.0-demo",
			"generated_by": "pattern.Generator",
			"note":         "DEMO ONLY - Not real pattern data",
		},
	}

	area := 0.0
	seams := 0
	for _, piece := range pat.Pieces {
		area += geometry.PolygonArea(contourPoints(piece.Contour))
		seams += len(piece.Seams)
	}

	g.mu.Lock()
	g.metrics = map[string]float64{
		"generation_time_ms": float64(time.Since(start).Milliseconds()),
		"num_pieces":         float64(len(pat.Pieces)),
		"total_area":         area,
		"seam_count":         float64(seams),
		"complexity_score":   45.0,
	}
	g.mu.Unlock()

	return pat
}

// GeneratePiece returns a single generic demo piece for one mesh.
func (g *Generator) GeneratePiece(meshID string) apitypes.PatternPiece {
	return apitypes.PatternPiece{
		ID:   meshID,
		Type: "generic",
		Contour: []apitypes.Point{
			{X: 0, Y: 0},
			{X: 30, Y: 0},
			{X: 30, Y: 40},
			{X: 0, Y: 40},
		},
		Seams:   []apitypes.Seam{},
		Notches: []apitypes.Point{},
	}
}

// Metrics returns the metrics of the last Generate call.
func (g *Generator) Metrics() map[string]float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]float64, len(g.metrics))
	for k, v := range g.metrics {
		out[k] = v
	}
	return out
}

func contourPoints(contour []apitypes.Point) []geometry.Point2D {
	pts := make([]geometry.Point2D, len(contour))
	for i, p := range contour {
		pts[i] = geometry.Point2D{X: p.X, Y: p.Y}
	}
	return pts
}
