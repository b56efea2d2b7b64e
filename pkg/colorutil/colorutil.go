// Package colorutil provides shared color utilities for the studio application.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common annotation colors used throughout the application.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red     = color.RGBA{R: 230, G: 57, B: 70, A: 255}
	Green   = color.RGBA{R: 42, G: 157, B: 143, A: 255}
	Blue    = color.RGBA{R: 69, G: 123, B: 157, A: 255}
	Yellow  = color.RGBA{R: 233, G: 196, B: 106, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
)

// ParseHex parses a "#RRGGBB" or "#RRGGBBAA" string into a color.
// Malformed input falls back to opaque black.
func ParseHex(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	var r, g, b, a uint8 = 0, 0, 0, 255
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return Black
		}
	case 8:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return Black
		}
	default:
		return Black
	}
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// FormatHex formats a color as a "#RRGGBB" string. Alpha is dropped.
func FormatHex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// WithAlpha returns the color with the given alpha applied.
func WithAlpha(c color.RGBA, alpha uint8) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}
