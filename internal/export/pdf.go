package export

import (
	"math"

	"lanfinitas-studio/internal/annotation"
	"lanfinitas-studio/pkg/colorutil"
	"lanfinitas-studio/pkg/geometry"

	"github.com/jung-kurt/gofpdf"
)

// pdfScale converts scene units to millimeters on the A4 sheet.
const pdfScale = 4.0

// PDF renders the visible shapes onto an A4 pattern sheet and writes the
// file to path. Hidden shapes are skipped; provisional state never reaches
// the exporter.
func PDF(path string, doc Document, shapes []annotation.Shape) error {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle(doc.Name, true)
	p.AddPage()
	p.SetLineWidth(0.4)
	p.SetFont("Helvetica", "", 8)

	for _, s := range shapes {
		if !s.Visible {
			continue
		}
		c := colorutil.ParseHex(s.Color)
		p.SetDrawColor(int(c.R), int(c.G), int(c.B))
		p.SetTextColor(int(c.R), int(c.G), int(c.B))
		drawShape(p, s)
	}

	return p.OutputFileAndClose(path)
}

func drawShape(p *gofpdf.Fpdf, s annotation.Shape) {
	mm := func(pt geometry.Point2D) (float64, float64) {
		return pt.X / pdfScale, pt.Y / pdfScale
	}

	switch s.Kind {
	case annotation.KindKeypoint:
		x, y := mm(s.Points[0])
		p.Circle(x, y, 0.8, "D")

	case annotation.KindSeam, annotation.KindLine:
		x1, y1 := mm(s.Points[0])
		x2, y2 := mm(s.Points[1])
		p.Line(x1, y1, x2, y2)

	case annotation.KindGrainline:
		x1, y1 := mm(s.Points[0])
		x2, y2 := mm(s.Points[1])
		p.Line(x1, y1, x2, y2)
		drawArrowhead(p, x1, y1, x2, y2)

	case annotation.KindRegion:
		pts := make([]gofpdf.PointType, len(s.Points))
		for i, pt := range s.Points {
			x, y := mm(pt)
			pts[i] = gofpdf.PointType{X: x, Y: y}
		}
		p.Polygon(pts, "D")

	case annotation.KindRectangle:
		box := s.Bounds()
		p.Rect(box.X/pdfScale, box.Y/pdfScale, box.Width/pdfScale, box.Height/pdfScale, "D")

	case annotation.KindCircle:
		x, y := mm(s.Points[0])
		p.Circle(x, y, s.Radius()/pdfScale, "D")

	case annotation.KindText:
		x, y := mm(s.Points[0])
		p.Text(x, y, s.Label)
	}

	if s.Label != "" && s.Kind != annotation.KindText {
		c := geometry.Centroid(s.Points)
		p.Text(c.X/pdfScale, c.Y/pdfScale, s.Label)
	}
}

// drawArrowhead draws a small open arrowhead at (x2,y2) pointing away from
// (x1,y1).
func drawArrowhead(p *gofpdf.Fpdf, x1, y1, x2, y2 float64) {
	dx := x2 - x1
	dy := y2 - y1
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return
	}
	ux, uy := dx/norm, dy/norm

	// Two barbs rotated ±30 degrees off the reversed direction.
	const barb = 2.0 // mm
	const cos30, sin30 = 0.8660254037844387, 0.5
	bx1 := -ux*cos30 + uy*sin30
	by1 := -ux*sin30 - uy*cos30
	bx2 := -ux*cos30 - uy*sin30
	by2 := ux*sin30 - uy*cos30

	p.Line(x2, y2, x2+bx1*barb, y2+by1*barb)
	p.Line(x2, y2, x2+bx2*barb, y2+by2*barb)
}
