// Package canvas provides the drawing surface: a pannable, zoomable sheet
// that renders the document image area and its annotations, and forwards
// pointer gestures in scene coordinates.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"lanfinitas-studio/internal/annotation"
	"lanfinitas-studio/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 5.0
	zoomStep = 1.2
)

// DrawCanvas displays the document sheet with its annotations. Gestures are
// reported in scene coordinates (document space, zoom factored out).
type DrawCanvas struct {
	widget.BaseWidget

	docSize geometry.Size
	zoom    float64

	shapes      []annotation.Shape
	provisional *annotation.Shape
	selectedID  string

	raster   *fynecanvas.Raster
	scroll   *zoomScroll
	content  *pointerContent
	dragging bool

	onZoomChange func(zoom float64)
	onTap        func(p geometry.Point2D)
	onDragStart  func(p geometry.Point2D)
	onDragMove   func(p geometry.Point2D)
	onDragEnd    func()
}

// NewDrawCanvas creates an empty canvas sized for docSize.
func NewDrawCanvas(docSize geometry.Size) *DrawCanvas {
	dc := &DrawCanvas{
		docSize: docSize,
		zoom:    1.0,
	}

	dc.raster = fynecanvas.NewRaster(dc.draw)
	dc.raster.ScaleMode = fynecanvas.ImageScalePixels

	dc.content = newPointerContent(dc, dc.raster)
	dc.scroll = newZoomScroll(dc.content, dc)

	dc.ExtendBaseWidget(dc)
	dc.updateContentSize()
	return dc
}

// Container returns the canvas container for embedding in layouts.
func (dc *DrawCanvas) Container() fyne.CanvasObject {
	return dc.scroll
}

// SetDocumentSize resizes the sheet.
func (dc *DrawCanvas) SetDocumentSize(size geometry.Size) {
	dc.docSize = size
	dc.updateContentSize()
}

// SetShapes replaces the shapes to render. The full list is repainted on the
// next frame; there is no dirty tracking.
func (dc *DrawCanvas) SetShapes(shapes []annotation.Shape) {
	dc.shapes = shapes
	dc.Refresh()
}

// SetProvisional sets the in-progress shape drawn on top of the committed
// ones, or clears it when nil.
func (dc *DrawCanvas) SetProvisional(shape *annotation.Shape) {
	dc.provisional = shape
	dc.Refresh()
}

// SetSelected highlights one shape by ID. Empty clears the highlight.
func (dc *DrawCanvas) SetSelected(id string) {
	dc.selectedID = id
	dc.Refresh()
}

// SetZoom sets the zoom level, clamped to the allowed range.
func (dc *DrawCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	dc.zoom = zoom
	dc.updateContentSize()

	if dc.onZoomChange != nil {
		dc.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (dc *DrawCanvas) Zoom() float64 {
	return dc.zoom
}

// ZoomIn increases the zoom level one step.
func (dc *DrawCanvas) ZoomIn() {
	dc.SetZoom(dc.zoom * zoomStep)
}

// ZoomOut decreases the zoom level one step.
func (dc *DrawCanvas) ZoomOut() {
	dc.SetZoom(dc.zoom / zoomStep)
}

// ResetZoom restores the full view transform: 1:1 zoom and the pan offset
// back at the origin.
func (dc *DrawCanvas) ResetZoom() {
	dc.SetZoom(1.0)
	dc.scroll.ScrollToOrigin()
}

// FitToWindow adjusts zoom so the sheet fits the visible area.
func (dc *DrawCanvas) FitToWindow() {
	if dc.docSize.Width <= 0 || dc.docSize.Height <= 0 {
		return
	}
	viewSize := dc.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / dc.docSize.Width
	zoomY := float64(viewSize.Height) / dc.docSize.Height
	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	dc.SetZoom(zoom * 0.95)
}

// SceneToView converts scene coordinates to view (zoomed) coordinates.
func (dc *DrawCanvas) SceneToView(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{X: p.X * dc.zoom, Y: p.Y * dc.zoom}
}

// ViewToScene converts view (zoomed) coordinates to scene coordinates.
func (dc *DrawCanvas) ViewToScene(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{X: p.X / dc.zoom, Y: p.Y / dc.zoom}
}

// OnZoomChange sets a callback for zoom changes.
func (dc *DrawCanvas) OnZoomChange(callback func(zoom float64)) {
	dc.onZoomChange = callback
}

// OnTap sets a callback for clicks, in scene coordinates.
func (dc *DrawCanvas) OnTap(callback func(p geometry.Point2D)) {
	dc.onTap = callback
}

// OnDragStart sets a callback for the first motion of a drag.
func (dc *DrawCanvas) OnDragStart(callback func(p geometry.Point2D)) {
	dc.onDragStart = callback
}

// OnDragMove sets a callback for drag motion.
func (dc *DrawCanvas) OnDragMove(callback func(p geometry.Point2D)) {
	dc.onDragMove = callback
}

// OnDragEnd sets a callback for drag release.
func (dc *DrawCanvas) OnDragEnd(callback func()) {
	dc.onDragEnd = callback
}

// Refresh repaints the canvas.
func (dc *DrawCanvas) Refresh() {
	dc.raster.Refresh()
}

// Dispose releases all registered callbacks so a detached canvas cannot
// call back into a page that no longer exists.
func (dc *DrawCanvas) Dispose() {
	dc.onZoomChange = nil
	dc.onTap = nil
	dc.onDragStart = nil
	dc.onDragMove = nil
	dc.onDragEnd = nil
}

func (dc *DrawCanvas) updateContentSize() {
	w := dc.docSize.Width * dc.zoom
	h := dc.docSize.Height * dc.zoom
	if w <= 0 || h <= 0 {
		w, h = 400, 300
	}
	size := fyne.NewSize(float32(w), float32(h))

	dc.raster.SetMinSize(size)
	dc.raster.Resize(size)
	if dc.content != nil {
		dc.content.Resize(size)
		dc.content.Refresh()
	}
	dc.raster.Refresh()
	if dc.scroll != nil {
		dc.scroll.Refresh()
	}
}

// draw renders the sheet and all shapes in list order, then the provisional
// shape on top.
func (dc *DrawCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	dc.paintSheet(output)

	for _, shape := range dc.shapes {
		if !shape.Visible {
			continue
		}
		dc.paintShape(output, shape, shape.ID == dc.selectedID)
	}
	if dc.provisional != nil {
		dc.paintShape(output, *dc.provisional, false)
	}
	return output
}

// viewPoint converts a pointer event position to scene coordinates.
func (dc *DrawCanvas) viewPoint(pos fyne.Position) geometry.Point2D {
	offset := dc.scroll.Offset()
	return dc.ViewToScene(geometry.Point2D{
		X: float64(pos.X + offset.X),
		Y: float64(pos.Y + offset.Y),
	})
}

// CreateRenderer implements fyne.Widget.
func (dc *DrawCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &drawCanvasRenderer{canvas: dc}
}

type drawCanvasRenderer struct {
	canvas *DrawCanvas
}

func (r *drawCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.scroll.Resize(size)
}

func (r *drawCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *drawCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *drawCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *drawCanvasRenderer) Destroy() {}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *DrawCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *DrawCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// ScrollToOrigin moves the viewport back to the top-left corner.
func (zs *zoomScroll) ScrollToOrigin() {
	zs.scroll.Offset = fyne.NewPos(0, 0)
	zs.scroll.Refresh()
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// pointerContent wraps the raster to receive mouse events.
type pointerContent struct {
	widget.BaseWidget
	canvas *DrawCanvas
	raster *fynecanvas.Raster
}

func newPointerContent(dc *DrawCanvas, raster *fynecanvas.Raster) *pointerContent {
	pc := &pointerContent{canvas: dc, raster: raster}
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *pointerContent) CreateRenderer() fyne.WidgetRenderer {
	return &pointerContentRenderer{content: pc}
}

func (pc *pointerContent) MinSize() fyne.Size {
	return pc.raster.MinSize()
}

// Tapped forwards clicks in scene coordinates. Events outside the widget
// bounds are rejected; Fyne occasionally delivers them.
func (pc *pointerContent) Tapped(ev *fyne.PointEvent) {
	if pc.canvas.onTap == nil {
		return
	}
	size := pc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	pc.canvas.onTap(pc.canvas.viewPoint(ev.Position))
}

func (pc *pointerContent) Dragged(ev *fyne.DragEvent) {
	p := pc.canvas.viewPoint(ev.Position)
	if !pc.canvas.dragging {
		pc.canvas.dragging = true
		if pc.canvas.onDragStart != nil {
			pc.canvas.onDragStart(p)
		}
		return
	}
	if pc.canvas.onDragMove != nil {
		pc.canvas.onDragMove(p)
	}
}

func (pc *pointerContent) DragEnd() {
	if !pc.canvas.dragging {
		return
	}
	pc.canvas.dragging = false
	if pc.canvas.onDragEnd != nil {
		pc.canvas.onDragEnd()
	}
}

func (pc *pointerContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		pc.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		pc.canvas.ZoomOut()
	}
}

type pointerContentRenderer struct {
	content *pointerContent
}

func (r *pointerContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *pointerContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *pointerContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *pointerContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *pointerContentRenderer) Destroy() {}
