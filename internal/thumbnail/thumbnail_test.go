package thumbnail

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

func TestScalePreservesAspectRatio(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{800, 600, 160, 120},
		{600, 800, 120, 160},
		{320, 160, 160, 80},
		{100, 100, 100, 100}, // already small, unchanged
	}
	for _, tt := range tests {
		out := Scale(solid(tt.w, tt.h), MaxSize, MaxSize)
		b := out.Bounds()
		if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("%dx%d scaled to %dx%d, want %dx%d",
				tt.w, tt.h, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, solid(640, 480)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := FromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 160 {
		t.Fatalf("thumbnail width %d, want 160", img.Bounds().Dx())
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
