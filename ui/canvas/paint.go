package canvas

import (
	"image"
	"image/color"
	"math"

	"lanfinitas-studio/internal/annotation"
	"lanfinitas-studio/pkg/colorutil"
	"lanfinitas-studio/pkg/geometry"
)

const (
	keypointRadius = 4.0
	lineThickness  = 2
)

// paintSheet fills the background with the sheet color.
func (dc *DrawCanvas) paintSheet(output *image.RGBA) {
	bounds := output.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			output.SetRGBA(x, y, colorutil.White)
		}
	}
}

// paintShape renders one shape at the current zoom.
func (dc *DrawCanvas) paintShape(output *image.RGBA, shape annotation.Shape, selected bool) {
	col := colorutil.ParseHex(shape.Color)

	switch shape.Kind {
	case annotation.KindKeypoint:
		p := dc.SceneToView(shape.Points[0])
		dc.paintDot(output, p, keypointRadius*dc.zoom, col)

	case annotation.KindSeam, annotation.KindLine:
		if len(shape.Points) < 2 {
			return
		}
		a := dc.SceneToView(shape.Points[0])
		b := dc.SceneToView(shape.Points[1])
		dc.paintLine(output, a, b, col, lineThickness)

	case annotation.KindGrainline:
		if len(shape.Points) < 2 {
			return
		}
		a := dc.SceneToView(shape.Points[0])
		b := dc.SceneToView(shape.Points[1])
		dc.paintLine(output, a, b, col, lineThickness)
		dc.paintArrowhead(output, a, b, col)

	case annotation.KindRegion:
		if len(shape.Points) < 2 {
			return
		}
		pts := make([]geometry.Point2D, len(shape.Points))
		for i, p := range shape.Points {
			pts[i] = dc.SceneToView(p)
		}
		dc.paintPolygon(output, pts, col)

	case annotation.KindRectangle:
		if len(shape.Points) < 2 {
			return
		}
		a := dc.SceneToView(shape.Points[0])
		b := dc.SceneToView(shape.Points[1])
		dc.paintRect(output, a, b, col)

	case annotation.KindCircle:
		if len(shape.Points) < 2 {
			return
		}
		center := dc.SceneToView(shape.Points[0])
		radius := shape.Radius() * dc.zoom
		dc.paintRing(output, center, radius, col)

	case annotation.KindText:
		p := dc.SceneToView(shape.Points[0])
		dc.paintText(output, shape.Label, int(p.X), int(p.Y), col)
		if selected {
			dc.paintSelectionBox(output, shape)
		}
		return
	}

	if shape.Label != "" && shape.Kind != annotation.KindText {
		center := dc.SceneToView(shape.Bounds().Center())
		dc.paintText(output, shape.Label, int(center.X), int(center.Y), colorutil.Black)
	}
	if selected {
		dc.paintSelectionBox(output, shape)
	}
}

// paintSelectionBox draws a dashed box around a shape's bounds.
func (dc *DrawCanvas) paintSelectionBox(output *image.RGBA, shape annotation.Shape) {
	box := shape.Bounds()
	tl := dc.SceneToView(geometry.Point2D{X: box.X - 3/dc.zoom, Y: box.Y - 3/dc.zoom})
	br := dc.SceneToView(geometry.Point2D{X: box.X + box.Width + 3/dc.zoom, Y: box.Y + box.Height + 3/dc.zoom})

	col := colorutil.Yellow
	x1, y1 := int(tl.X), int(tl.Y)
	x2, y2 := int(br.X), int(br.Y)
	bounds := output.Bounds()

	for x := x1; x <= x2; x++ {
		if (x+y1)%4 < 2 && inBounds(bounds, x, y1) {
			output.SetRGBA(x, y1, col)
		}
		if (x+y2)%4 < 2 && inBounds(bounds, x, y2) {
			output.SetRGBA(x, y2, col)
		}
	}
	for y := y1; y <= y2; y++ {
		if (x1+y)%4 < 2 && inBounds(bounds, x1, y) {
			output.SetRGBA(x1, y, col)
		}
		if (x2+y)%4 < 2 && inBounds(bounds, x2, y) {
			output.SetRGBA(x2, y, col)
		}
	}
}

func (dc *DrawCanvas) paintDot(output *image.RGBA, center geometry.Point2D, radius float64, col color.RGBA) {
	bounds := output.Bounds()
	r2 := radius * radius
	for y := int(center.Y - radius - 1); y <= int(center.Y+radius+1); y++ {
		for x := int(center.X - radius - 1); x <= int(center.X+radius+1); x++ {
			if !inBounds(bounds, x, y) {
				continue
			}
			dx := float64(x) - center.X
			dy := float64(y) - center.Y
			if dx*dx+dy*dy <= r2 {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// paintRing draws a circle outline two pixels thick.
func (dc *DrawCanvas) paintRing(output *image.RGBA, center geometry.Point2D, radius float64, col color.RGBA) {
	bounds := output.Bounds()
	r2 := radius * radius
	inner := radius - 2
	if inner < 0 {
		inner = 0
	}
	inner2 := inner * inner

	for y := int(center.Y - radius - 1); y <= int(center.Y+radius+1); y++ {
		for x := int(center.X - radius - 1); x <= int(center.X+radius+1); x++ {
			if !inBounds(bounds, x, y) {
				continue
			}
			dx := float64(x) - center.X
			dy := float64(y) - center.Y
			dist2 := dx*dx + dy*dy
			if dist2 <= r2 && dist2 >= inner2 {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// paintLine draws a thick line using Bresenham's algorithm.
func (dc *DrawCanvas) paintLine(output *image.RGBA, a, b geometry.Point2D, col color.RGBA, thickness int) {
	bounds := output.Bounds()
	x1, y1 := int(a.X), int(a.Y)
	x2, y2 := int(b.X), int(b.Y)

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if inBounds(bounds, px, py) {
					output.SetRGBA(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// paintArrowhead draws two barbs at the end of a grainline.
func (dc *DrawCanvas) paintArrowhead(output *image.RGBA, a, b geometry.Point2D, col color.RGBA) {
	length := math.Hypot(b.X-a.X, b.Y-a.Y)
	if length == 0 {
		return
	}

	barb := 10.0 * dc.zoom
	if barb > length/2 {
		barb = length / 2
	}
	angle := math.Atan2(b.Y-a.Y, b.X-a.X)
	for _, offset := range []float64{math.Pi / 6, -math.Pi / 6} {
		tip := geometry.Point2D{
			X: b.X - barb*math.Cos(angle+offset),
			Y: b.Y - barb*math.Sin(angle+offset),
		}
		dc.paintLine(output, b, tip, col, lineThickness)
	}
}

func (dc *DrawCanvas) paintRect(output *image.RGBA, a, b geometry.Point2D, col color.RGBA) {
	x1, y1 := int(math.Min(a.X, b.X)), int(math.Min(a.Y, b.Y))
	x2, y2 := int(math.Max(a.X, b.X)), int(math.Max(a.Y, b.Y))
	bounds := output.Bounds()

	for t := 0; t < lineThickness; t++ {
		for x := x1; x <= x2; x++ {
			if inBounds(bounds, x, y1+t) {
				output.SetRGBA(x, y1+t, col)
			}
			if inBounds(bounds, x, y2-t) {
				output.SetRGBA(x, y2-t, col)
			}
		}
		for y := y1; y <= y2; y++ {
			if inBounds(bounds, x1+t, y) {
				output.SetRGBA(x1+t, y, col)
			}
			if inBounds(bounds, x2-t, y) {
				output.SetRGBA(x2-t, y, col)
			}
		}
	}
}

// paintPolygon draws a closed polygon outline. Open polygons (while the
// region tool is still collecting) render the same way: the closing edge is
// shown so the user sees what commit will produce.
func (dc *DrawCanvas) paintPolygon(output *image.RGBA, pts []geometry.Point2D, col color.RGBA) {
	n := len(pts)
	for i := 0; i < n; i++ {
		dc.paintLine(output, pts[i], pts[(i+1)%n], col, lineThickness)
	}
	for _, p := range pts {
		dc.paintDot(output, p, 3*dc.zoom, col)
	}
}

func inBounds(bounds image.Rectangle, x, y int) bool {
	return x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y
}
