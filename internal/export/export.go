// Package export converts an in-memory annotation list into the supported
// output documents. All exporters are pure: they read the shape list and
// return bytes, never mutating application state.
package export

import (
	"encoding/json"
	"time"

	"lanfinitas-studio/internal/annotation"
)

// Document describes the image the annotations were drawn against.
type Document struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// nativeFile is the studio's own JSON export format.
type nativeFile struct {
	Metadata    nativeMetadata     `json:"metadata"`
	Annotations []nativeAnnotation `json:"annotations"`
}

type nativeMetadata struct {
	ImageName        string                  `json:"imageName"`
	ImageWidth       int                     `json:"imageWidth"`
	ImageHeight      int                     `json:"imageHeight"`
	TotalAnnotations int                     `json:"totalAnnotations"`
	AnnotationTypes  map[annotation.Kind]int `json:"annotationTypes"`
	ExportedAt       string                  `json:"exportedAt"`
}

type nativeAnnotation struct {
	ID     string          `json:"id"`
	Kind   annotation.Kind `json:"kind"`
	Points []point         `json:"points"`
	Label  string          `json:"label,omitempty"`
	Color  string          `json:"color"`
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// JSON serializes the document metadata, the full shape list, and a summary
// count of shapes per kind. Output is deterministic given identical input
// order (map keys marshal sorted).
func JSON(doc Document, shapes []annotation.Shape, now time.Time) ([]byte, error) {
	out := nativeFile{
		Metadata: nativeMetadata{
			ImageName:        doc.Name,
			ImageWidth:       doc.Width,
			ImageHeight:      doc.Height,
			TotalAnnotations: len(shapes),
			AnnotationTypes:  make(map[annotation.Kind]int),
			ExportedAt:       now.UTC().Format(time.RFC3339),
		},
		Annotations: make([]nativeAnnotation, 0, len(shapes)),
	}

	for _, s := range shapes {
		out.Metadata.AnnotationTypes[s.Kind]++
		pts := make([]point, len(s.Points))
		for i, p := range s.Points {
			pts[i] = point{X: p.X, Y: p.Y}
		}
		out.Annotations = append(out.Annotations, nativeAnnotation{
			ID:     s.ID,
			Kind:   s.Kind,
			Points: pts,
			Label:  s.Label,
			Color:  s.Color,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}
