package export

import (
	"fmt"
	"strings"

	"lanfinitas-studio/internal/annotation"
	"lanfinitas-studio/pkg/geometry"
)

// yoloClassIndex is the fixed class index for all regions.
const yoloClassIndex = 0

// YOLO serializes region shapes as YOLO bounding-box lines: class index then
// center-x, center-y, width, height normalized by the image dimensions, each
// formatted to exactly 6 decimal places. One line per region. With no
// regions (or a degenerate image size) the output is empty but still valid.
func YOLO(doc Document, shapes []annotation.Shape) string {
	if doc.Width <= 0 || doc.Height <= 0 {
		return ""
	}

	var b strings.Builder
	w := float64(doc.Width)
	h := float64(doc.Height)

	for _, s := range shapes {
		if s.Kind != annotation.KindRegion || len(s.Points) < 3 {
			continue
		}

		box := geometry.BoundingBox(s.Points)
		center := box.Center()
		fmt.Fprintf(&b, "%d %.6f %.6f %.6f %.6f\n",
			yoloClassIndex,
			center.X/w,
			center.Y/h,
			box.Width/w,
			box.Height/h,
		)
	}

	return b.String()
}
