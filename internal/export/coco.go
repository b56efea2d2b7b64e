package export

import (
	"encoding/json"

	"lanfinitas-studio/internal/annotation"
	"lanfinitas-studio/pkg/geometry"
)

// cocoCategoryName is the single fixed category all regions map to.
const cocoCategoryName = "pattern_piece"

type cocoFile struct {
	Images      []cocoImage      `json:"images"`
	Annotations []cocoAnnotation `json:"annotations"`
	Categories  []cocoCategory   `json:"categories"`
}

type cocoImage struct {
	ID       int    `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type cocoAnnotation struct {
	ID           int         `json:"id"`
	ImageID      int         `json:"image_id"`
	CategoryID   int         `json:"category_id"`
	BBox         [4]float64  `json:"bbox"`
	Area         float64     `json:"area"`
	Segmentation [][]float64 `json:"segmentation"`
	IsCrowd      int         `json:"iscrowd"`
}

type cocoCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// COCO serializes region shapes in COCO object-detection style. Coordinates
// are absolute pixels (not normalized). Non-region shapes are skipped. When
// no region exists the document is still syntactically valid with an empty
// annotations array.
func COCO(doc Document, shapes []annotation.Shape) ([]byte, error) {
	out := cocoFile{
		Images: []cocoImage{{
			ID:       1,
			FileName: doc.Name,
			Width:    doc.Width,
			Height:   doc.Height,
		}},
		Annotations: []cocoAnnotation{},
		Categories:  []cocoCategory{{ID: 1, Name: cocoCategoryName}},
	}

	nextID := 1
	for _, s := range shapes {
		if s.Kind != annotation.KindRegion || len(s.Points) < 3 {
			continue
		}

		box := geometry.BoundingBox(s.Points)
		ring := make([]float64, 0, len(s.Points)*2)
		for _, p := range s.Points {
			ring = append(ring, p.X, p.Y)
		}

		out.Annotations = append(out.Annotations, cocoAnnotation{
			ID:           nextID,
			ImageID:      1,
			CategoryID:   1,
			BBox:         [4]float64{box.X, box.Y, box.Width, box.Height},
			Area:         box.Area(),
			Segmentation: [][]float64{ring},
			IsCrowd:      0,
		})
		nextID++
	}

	return json.MarshalIndent(out, "", "  ")
}
