// Package layout places pattern pieces on fabric with a trivial shelf
// strategy. No nesting heuristics are involved: pieces go left to right on
// one row and the utilization figure is sampled, not measured.
package layout

import (
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"lanfinitas-studio/internal/apitypes"
)

const (
	pieceSpacing       = 60.0
	defaultFabricWidth = 150.0
)

// Optimizer produces demo marker layouts and keeps a run history.
type Optimizer struct {
	mu      sync.Mutex
	history []apitypes.LayoutResult
}

// NewOptimizer creates an optimizer with empty history.
func NewOptimizer() *Optimizer {
	return &Optimizer{}
}

// Optimize lays the pieces out on a single shelf and estimates the fabric
// length from piece count alone.
func (o *Optimizer) Optimize(pattern apitypes.Pattern, fab apitypes.Fabric) apitypes.LayoutResult {
	start := time.Now()

	width := fab.Width
	if width <= 0 {
		width = defaultFabricWidth
	}

	placements := make([]apitypes.Placement, len(pattern.Pieces))
	for i, piece := range pattern.Pieces {
		placements[i] = apitypes.Placement{
			PieceID:  piece.ID,
			Position: apitypes.Point{X: float64(i) * pieceSpacing, Y: 0},
			Rotation: 0,
		}
	}

	numPieces := float64(len(pattern.Pieces))
	utilization := 0.65 + rand.Float64()*0.10

	result := apitypes.LayoutResult{
		Layout:       placements,
		FabricLength: (numPieces*pieceSpacing/width)*100 + 50,
		Utilization:  utilization,
		Metrics: map[string]float64{
			"optimization_time_ms": float64(time.Since(start).Milliseconds()),
			"waste_percentage":     (1 - utilization) * 100,
		},
	}

	o.mu.Lock()
	o.history = append(o.history, result)
	o.mu.Unlock()

	return result
}

// EvaluateLayout returns placeholder quality metrics for a layout.
func (o *Optimizer) EvaluateLayout(result apitypes.LayoutResult) map[string]float64 {
	return map[string]float64{
		"utilization":     result.Utilization,
		"waste":           2000 + rand.Float64()*1000,
		"compactness":     0.6 + rand.Float64()*0.2,
		"grain_alignment": 0.7 + rand.Float64()*0.2,
	}
}

// SuggestImprovements returns generic layout advice.
func (o *Optimizer) SuggestImprovements(result apitypes.LayoutResult) []string {
	return []string{
		"Try rotating piece 1 by 90 degrees",
		"Consider grouping similar pieces together",
		"Review grain line alignment for piece 2",
	}
}

// History returns a copy of all optimization runs so far.
func (o *Optimizer) History() []apitypes.LayoutResult {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]apitypes.LayoutResult, len(o.history))
	copy(out, o.history)
	return out
}

// Summary aggregates utilization across the run history.
type Summary struct {
	Runs            int     `json:"runs"`
	MeanUtilization float64 `json:"mean_utilization"`
	StdUtilization  float64 `json:"std_utilization"`
	BestUtilization float64 `json:"best_utilization"`
}

// Summarize reports utilization statistics over the run history.
func (o *Optimizer) Summarize() Summary {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.history) == 0 {
		return Summary{}
	}

	utils := make([]float64, len(o.history))
	best := 0.0
	for i, r := range o.history {
		utils[i] = r.Utilization
		if r.Utilization > best {
			best = r.Utilization
		}
	}

	s := Summary{
		Runs:            len(o.history),
		MeanUtilization: stat.Mean(utils, nil),
		BestUtilization: best,
	}
	if len(utils) > 1 {
		s.StdUtilization = stat.StdDev(utils, nil)
	}
	return s
}
