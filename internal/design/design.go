// Package design provides design document handling and persistence.
package design

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"lanfinitas-studio/internal/annotation"
	"lanfinitas-studio/pkg/geometry"
)

// File represents a studio design document (.lfd).
type File struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Description string    `json:"description,omitempty"`

	// Sheet is the document's drawing area in scene units.
	Sheet geometry.Size `json:"sheet"`

	// Image path (relative to the document file).
	ImagePath string `json:"image,omitempty"`

	Annotations []annotation.Shape `json:"annotations"`

	Settings Settings `json:"settings,omitempty"`
}

// Settings holds user preferences for the document.
type Settings struct {
	DefaultColor string  `json:"default_color,omitempty"`
	GridSize     float64 `json:"grid_size,omitempty"`
}

// New creates a new document with default settings.
func New(name string, sheet geometry.Size) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		Sheet:    sheet,
		Settings: Settings{
			DefaultColor: "#e63946",
			GridSize:     10,
		},
	}
}

// Load loads a document from a .lfd file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc File
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save saves the document to a file.
func (f *File) Save(path string) error {
	f.Modified = time.Now()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SetImage sets the image path, stored relative to the document file.
func (f *File) SetImage(docPath, imagePath string) {
	rel, err := filepath.Rel(filepath.Dir(docPath), imagePath)
	if err != nil {
		f.ImagePath = imagePath
	} else {
		f.ImagePath = rel
	}
	f.Modified = time.Now()
}

// GetImagePath returns the absolute path to the document image.
func (f *File) GetImagePath(docPath string) string {
	if f.ImagePath == "" {
		return ""
	}
	if filepath.IsAbs(f.ImagePath) {
		return f.ImagePath
	}
	return filepath.Join(filepath.Dir(docPath), f.ImagePath)
}
