package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"lanfinitas-studio/internal/annotation"
	"lanfinitas-studio/pkg/geometry"
)

var testDoc = Document{Name: "bodice_front.png", Width: 800, Height: 600}

func squareRegion() annotation.Shape {
	return annotation.New(annotation.KindRegion, []geometry.Point2D{
		{X: 10, Y: 10},
		{X: 50, Y: 10},
		{X: 50, Y: 50},
		{X: 10, Y: 50},
	}, "#2a9d8f")
}

func TestYOLOKnownRegion(t *testing.T) {
	out := YOLO(testDoc, []annotation.Shape{squareRegion()})
	want := "0 0.037500 0.050000 0.050000 0.066667\n"
	if out != want {
		t.Fatalf("YOLO output:\n%q\nwant:\n%q", out, want)
	}
}

func TestYOLOSkipsNonRegions(t *testing.T) {
	shapes := []annotation.Shape{
		annotation.New(annotation.KindKeypoint, []geometry.Point2D{{X: 5, Y: 5}}, "#000000"),
		annotation.New(annotation.KindSeam, []geometry.Point2D{{X: 0, Y: 0}, {X: 9, Y: 9}}, "#000000"),
		squareRegion(),
	}
	out := YOLO(testDoc, shapes)
	if n := strings.Count(out, "\n"); n != 1 {
		t.Fatalf("expected 1 line, got %d:\n%s", n, out)
	}
}

func TestYOLOEmptyStillValid(t *testing.T) {
	if out := YOLO(testDoc, nil); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestCOCOKnownRegion(t *testing.T) {
	data, err := COCO(testDoc, []annotation.Shape{squareRegion()})
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		Images []struct {
			FileName string `json:"file_name"`
			Width    int    `json:"width"`
			Height   int    `json:"height"`
		} `json:"images"`
		Annotations []struct {
			BBox         []float64   `json:"bbox"`
			Area         float64     `json:"area"`
			Segmentation [][]float64 `json:"segmentation"`
			CategoryID   int         `json:"category_id"`
			IsCrowd      int         `json:"iscrowd"`
		} `json:"annotations"`
		Categories []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(out.Annotations) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(out.Annotations))
	}
	a := out.Annotations[0]

	wantBBox := []float64{10, 10, 40, 40}
	for i := range wantBBox {
		if a.BBox[i] != wantBBox[i] {
			t.Fatalf("bbox = %v, want %v", a.BBox, wantBBox)
		}
	}
	if a.Area != 1600 {
		t.Fatalf("area = %v, want 1600", a.Area)
	}

	wantSeg := []float64{10, 10, 50, 10, 50, 50, 10, 50}
	if len(a.Segmentation) != 1 || len(a.Segmentation[0]) != len(wantSeg) {
		t.Fatalf("segmentation = %v, want single ring %v", a.Segmentation, wantSeg)
	}
	for i := range wantSeg {
		if a.Segmentation[0][i] != wantSeg[i] {
			t.Fatalf("segmentation = %v, want %v", a.Segmentation[0], wantSeg)
		}
	}

	if len(out.Categories) != 1 || out.Categories[0].ID != 1 {
		t.Fatalf("expected single fixed category, got %v", out.Categories)
	}
	if a.CategoryID != 1 {
		t.Fatalf("category_id = %d, want 1", a.CategoryID)
	}
}

func TestCOCOEmptyStillValid(t *testing.T) {
	data, err := COCO(testDoc, []annotation.Shape{
		annotation.New(annotation.KindKeypoint, []geometry.Point2D{{X: 1, Y: 1}}, "#000000"),
	})
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("empty COCO doc not valid JSON: %v", err)
	}
	if string(out["annotations"]) != "[]" {
		t.Fatalf("annotations = %s, want []", out["annotations"])
	}
}

func TestJSONCountsAreConsistent(t *testing.T) {
	shapes := []annotation.Shape{
		annotation.New(annotation.KindKeypoint, []geometry.Point2D{{X: 1, Y: 1}}, "#000000"),
		annotation.New(annotation.KindKeypoint, []geometry.Point2D{{X: 2, Y: 2}}, "#000000"),
		annotation.New(annotation.KindSeam, []geometry.Point2D{{X: 0, Y: 0}, {X: 9, Y: 9}}, "#000000"),
		squareRegion(),
	}

	data, err := JSON(testDoc, shapes, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		Metadata struct {
			ImageName        string         `json:"imageName"`
			TotalAnnotations int            `json:"totalAnnotations"`
			AnnotationTypes  map[string]int `json:"annotationTypes"`
		} `json:"metadata"`
		Annotations []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"annotations"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}

	if out.Metadata.TotalAnnotations != len(out.Annotations) {
		t.Fatalf("totalAnnotations=%d but %d annotations serialized",
			out.Metadata.TotalAnnotations, len(out.Annotations))
	}

	sum := 0
	for _, c := range out.Metadata.AnnotationTypes {
		sum += c
	}
	if sum != out.Metadata.TotalAnnotations {
		t.Fatalf("per-kind counts sum to %d, want %d", sum, out.Metadata.TotalAnnotations)
	}

	if out.Metadata.AnnotationTypes["keypoint"] != 2 {
		t.Fatalf("keypoint count = %d, want 2", out.Metadata.AnnotationTypes["keypoint"])
	}
}

func TestJSONDeterministic(t *testing.T) {
	shapes := []annotation.Shape{squareRegion(), squareRegion()}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a, err := JSON(testDoc, shapes, at)
	if err != nil {
		t.Fatal(err)
	}
	b, err := JSON(testDoc, shapes, at)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Fatal("identical input produced different JSON output")
	}
}
