package fabric

import (
	"testing"

	"lanfinitas-studio/internal/apitypes"
)

func TestSimulateDrapingMesh(t *testing.T) {
	s := NewSimulator()
	mesh := s.SimulateDraping(apitypes.Pattern{}, apitypes.Fabric{Name: "cotton"})

	if len(mesh.Vertices) != 4 {
		t.Fatalf("got %d vertices, want 4", len(mesh.Vertices))
	}
	if len(mesh.Faces) != 2 {
		t.Fatalf("got %d faces, want 2", len(mesh.Faces))
	}
	if len(mesh.Normals) != len(mesh.Faces) {
		t.Fatalf("%d normals for %d faces", len(mesh.Normals), len(mesh.Faces))
	}
	for _, f := range mesh.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(mesh.Vertices) {
				t.Fatalf("face index %d out of range", idx)
			}
		}
	}
}

func TestSimulateDrapingMetrics(t *testing.T) {
	s := NewSimulator()
	s.SimulateDraping(apitypes.Pattern{}, apitypes.Fabric{})

	m := s.Metrics()
	if m["iterations_completed"] != 100 {
		t.Errorf("iterations_completed = %v, want 100", m["iterations_completed"])
	}
	if m["convergence_rate"] != 0.95 {
		t.Errorf("convergence_rate = %v, want 0.95", m["convergence_rate"])
	}
	if m["stability"] != 0.98 {
		t.Errorf("stability = %v, want 0.98", m["stability"])
	}
}

func TestPredictWrinklesIntensityRange(t *testing.T) {
	s := NewSimulator()
	for _, w := range s.PredictWrinkles(apitypes.DrapedMesh{}, apitypes.Fabric{}) {
		if w.Intensity < 0 || w.Intensity > 1 {
			t.Errorf("intensity %v out of [0,1]", w.Intensity)
		}
	}
}

func TestCalculateFitScore(t *testing.T) {
	s := NewSimulator()
	fit := s.CalculateFit(apitypes.DrapedMesh{})

	if fit.OverallFitScore <= 0 || fit.OverallFitScore > 1 {
		t.Fatalf("fit score %v out of (0,1]", fit.OverallFitScore)
	}
	if len(fit.EaseDistribution) == 0 {
		t.Fatal("no ease distribution")
	}
}
