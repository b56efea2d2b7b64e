package pattern

import (
	"testing"

	"lanfinitas-studio/internal/apitypes"
)

func TestGenerateTwoPanels(t *testing.T) {
	g := NewGenerator()
	pat := g.Generate(apitypes.Design{ID: "design-1", Name: "bodice"})

	if pat.DesignID != "design-1" {
		t.Fatalf("design id = %q, want design-1", pat.DesignID)
	}
	if len(pat.Pieces) != 2 {
		t.Fatalf("got %d pieces, want 2", len(pat.Pieces))
	}
	if pat.Pieces[0].Type != "front" || pat.Pieces[1].Type != "back" {
		t.Fatalf("piece types = %q, %q", pat.Pieces[0].Type, pat.Pieces[1].Type)
	}
	for _, piece := range pat.Pieces {
		if len(piece.Contour) != 4 {
			t.Errorf("piece %s has %d contour points, want 4", piece.ID, len(piece.Contour))
		}
		if len(piece.Seams) != 1 {
			t.Errorf("piece %s has %d seams, want 1", piece.ID, len(piece.Seams))
		}
	}
}

func TestGenerateMetrics(t *testing.T) {
	g := NewGenerator()
	g.Generate(apitypes.Design{})

	m := g.Metrics()
	if m["num_pieces"] != 2 {
		t.Errorf("num_pieces = %v, want 2", m["num_pieces"])
	}
	// Two 50x70 panels.
	if m["total_area"] != 7000 {
		t.Errorf("total_area = %v, want 7000", m["total_area"])
	}
	if m["seam_count"] != 2 {
		t.Errorf("seam_count = %v, want 2", m["seam_count"])
	}
	if m["complexity_score"] != 45 {
		t.Errorf("complexity_score = %v, want 45", m["complexity_score"])
	}
}

func TestGenerateUnknownDesignID(t *testing.T) {
	g := NewGenerator()
	pat := g.Generate(apitypes.Design{})
	if pat.DesignID != "unknown" {
		t.Fatalf("design id = %q, want unknown", pat.DesignID)
	}
}

func TestGeneratePiece(t *testing.T) {
	g := NewGenerator()
	piece := g.GeneratePiece("sleeve_l")

	if piece.ID != "sleeve_l" || piece.Type != "generic" {
		t.Fatalf("unexpected piece: %+v", piece)
	}
	if len(piece.Contour) != 4 {
		t.Fatalf("got %d contour points, want 4", len(piece.Contour))
	}
}
