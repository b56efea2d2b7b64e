package layout

import (
	"testing"

	"lanfinitas-studio/internal/apitypes"
)

func demoPattern(n int) apitypes.Pattern {
	pieces := make([]apitypes.PatternPiece, n)
	for i := range pieces {
		pieces[i] = apitypes.PatternPiece{ID: "piece_" + string(rune('a'+i))}
	}
	return apitypes.Pattern{ID: "pat", Pieces: pieces}
}

func TestOptimizeShelfPlacement(t *testing.T) {
	o := NewOptimizer()
	result := o.Optimize(demoPattern(3), apitypes.Fabric{Width: 150})

	if len(result.Layout) != 3 {
		t.Fatalf("got %d placements, want 3", len(result.Layout))
	}
	for i, p := range result.Layout {
		wantX := float64(i) * pieceSpacing
		if p.Position.X != wantX || p.Position.Y != 0 {
			t.Errorf("placement %d at (%v,%v), want (%v,0)", i, p.Position.X, p.Position.Y, wantX)
		}
		if p.Rotation != 0 {
			t.Errorf("placement %d rotated %v, want 0", i, p.Rotation)
		}
	}
}

func TestOptimizeFabricLength(t *testing.T) {
	tests := []struct {
		pieces int
		width  float64
		want   float64
	}{
		{2, 150, (2*60.0/150)*100 + 50},
		{5, 150, (5*60.0/150)*100 + 50},
		{3, 0, (3*60.0/defaultFabricWidth)*100 + 50}, // zero width falls back
	}
	for _, tt := range tests {
		o := NewOptimizer()
		got := o.Optimize(demoPattern(tt.pieces), apitypes.Fabric{Width: tt.width}).FabricLength
		if got != tt.want {
			t.Errorf("pieces=%d width=%v: fabric length %v, want %v", tt.pieces, tt.width, got, tt.want)
		}
	}
}

func TestOptimizeUtilizationRange(t *testing.T) {
	o := NewOptimizer()
	for i := 0; i < 20; i++ {
		u := o.Optimize(demoPattern(2), apitypes.Fabric{Width: 150}).Utilization
		if u < 0.65 || u > 0.75 {
			t.Fatalf("utilization %v out of [0.65, 0.75]", u)
		}
	}
}

func TestSummarize(t *testing.T) {
	o := NewOptimizer()
	if s := o.Summarize(); s.Runs != 0 {
		t.Fatalf("empty history summarized %d runs", s.Runs)
	}

	for i := 0; i < 5; i++ {
		o.Optimize(demoPattern(2), apitypes.Fabric{Width: 150})
	}

	s := o.Summarize()
	if s.Runs != 5 {
		t.Fatalf("runs = %d, want 5", s.Runs)
	}
	if s.MeanUtilization < 0.65 || s.MeanUtilization > 0.75 {
		t.Errorf("mean utilization %v out of range", s.MeanUtilization)
	}
	if s.BestUtilization < s.MeanUtilization {
		t.Errorf("best %v below mean %v", s.BestUtilization, s.MeanUtilization)
	}
	if len(o.History()) != 5 {
		t.Errorf("history has %d entries, want 5", len(o.History()))
	}
}
