// Package annotator provides the annotation page: canvas, tool palette, and
// the wiring between pointer gestures, the tool dispatcher, and the store.
package annotator

import (
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"lanfinitas-studio/internal/annotation"
	"lanfinitas-studio/internal/autosave"
	"lanfinitas-studio/internal/export"
	"lanfinitas-studio/internal/session"
	"lanfinitas-studio/internal/tool"
	"lanfinitas-studio/pkg/geometry"
	"lanfinitas-studio/ui/canvas"
	"lanfinitas-studio/ui/prefs"
)

const defaultColor = "#e63946"

// Page is the annotation page controller.
type Page struct {
	session *session.Session
	canvas  *canvas.DrawCanvas
	prefs   *prefs.Prefs
	saver   *autosave.Saver

	toolButtons map[tool.Tool]*widget.Button
	colorSelect *widget.Select
	labelEntry  *widget.Entry
	zoomLabel   *widget.Label
	statusBar   *widget.Label

	lastDrag geometry.Point2D
	content  fyne.CanvasObject
}

var toolNames = []struct {
	tool tool.Tool
	name string
}{
	{tool.ToolSelect, "Select"},
	{tool.ToolKeypoint, "Keypoint"},
	{tool.ToolSeam, "Seam"},
	{tool.ToolGrainline, "Grainline"},
	{tool.ToolRegion, "Region"},
	{tool.ToolRectangle, "Rectangle"},
	{tool.ToolCircle, "Circle"},
	{tool.ToolLine, "Line"},
	{tool.ToolText, "Text"},
}

var colorOptions = []string{"#e63946", "#2a9d8f", "#457b9d", "#e9c46a", "#000000"}

// New creates the annotation page over an existing session.
func New(sess *session.Session, p *prefs.Prefs) *Page {
	pg := &Page{
		session:     sess,
		prefs:       p,
		canvas:      canvas.NewDrawCanvas(geometry.NewSize(800, 600)),
		toolButtons: make(map[tool.Tool]*widget.Button),
	}

	pg.setupToolbar()
	pg.setupWiring()
	pg.setupLayout()
	pg.refreshShapes()
	return pg
}

// Container returns the page layout for embedding in the window.
func (pg *Page) Container() fyne.CanvasObject {
	return pg.content
}

// Canvas exposes the drawing surface for zoom menu actions.
func (pg *Page) Canvas() *canvas.DrawCanvas {
	return pg.canvas
}

// Session exposes the page's session for menu actions.
func (pg *Page) Session() *session.Session {
	return pg.session
}

func (pg *Page) setupToolbar() {
	for _, tn := range toolNames {
		t := tn.tool
		pg.toolButtons[t] = widget.NewButton(tn.name, func() {
			pg.SetTool(t)
		})
	}

	pg.colorSelect = widget.NewSelect(colorOptions, func(hex string) {
		pg.session.Tools().SetColor(hex)
	})
	pg.colorSelect.SetSelected(defaultColor)

	pg.labelEntry = widget.NewEntry()
	pg.labelEntry.SetPlaceHolder("label")
	pg.labelEntry.OnChanged = func(text string) {
		pg.session.Tools().SetTextLabel(text)
	}

	pg.zoomLabel = widget.NewLabel("100%")
	pg.statusBar = widget.NewLabel("Ready")
}

func (pg *Page) setupWiring() {
	tools := pg.session.Tools()

	pg.canvas.OnTap(func(p geometry.Point2D) {
		if tools.Tool() == tool.ToolSelect {
			pg.selectAt(p)
			return
		}
		if shape, ok := tools.PointerDown(p); ok {
			pg.session.AddShape(shape)
		}
		pg.canvas.SetProvisional(pg.preview())
	})

	pg.canvas.OnDragStart(func(p geometry.Point2D) {
		pg.lastDrag = p
		tools.PointerDown(p)
		pg.canvas.SetProvisional(pg.preview())
	})

	pg.canvas.OnDragMove(func(p geometry.Point2D) {
		pg.lastDrag = p
		tools.PointerMove(p)
		pg.canvas.SetProvisional(pg.preview())
	})

	pg.canvas.OnDragEnd(func() {
		if shape, ok := tools.PointerUp(pg.lastDrag); ok {
			pg.session.AddShape(shape)
		}
		pg.canvas.SetProvisional(nil)
	})

	pg.canvas.OnZoomChange(func(zoom float64) {
		pg.zoomLabel.SetText(fmt.Sprintf("%.0f%%", zoom*100))
		pg.session.Emit(session.EventViewChanged, zoom)
	})

	pg.session.On(session.EventShapesChanged, func(interface{}) {
		pg.refreshShapes()
	})
	pg.session.On(session.EventSelectionChanged, func(data interface{}) {
		id, _ := data.(string)
		pg.canvas.SetSelected(id)
		pg.updateStatus()
	})
	pg.session.On(session.EventDocumentLoaded, func(data interface{}) {
		if doc, ok := data.(session.Document); ok {
			pg.canvas.SetDocumentSize(doc.Size)
		}
		pg.refreshShapes()
	})
}

func (pg *Page) setupLayout() {
	items := []fyne.CanvasObject{}
	for _, tn := range toolNames {
		items = append(items, pg.toolButtons[tn.tool])
	}
	items = append(items,
		widget.NewSeparator(),
		widget.NewLabel("Color:"), pg.colorSelect,
		widget.NewLabel("Label:"), pg.labelEntry,
		widget.NewSeparator(),
		pg.zoomLabel,
	)
	toolbar := container.NewHBox(items...)

	pg.content = container.NewBorder(
		toolbar,
		container.NewPadded(pg.statusBar),
		nil,
		nil,
		pg.canvas.Container(),
	)
}

// SetTool switches the active tool; any half-drawn gesture is discarded.
func (pg *Page) SetTool(t tool.Tool) {
	pg.session.Tools().SetTool(t)
	pg.canvas.SetProvisional(nil)
	pg.session.Emit(session.EventToolChanged, t)
	pg.updateStatus()
}

// CompleteRegion commits the polygon under construction, if valid.
func (pg *Page) CompleteRegion() {
	if shape, ok := pg.session.Tools().CompletePolygon(); ok {
		pg.session.AddShape(shape)
	}
	pg.canvas.SetProvisional(nil)
}

// CancelGesture abandons the in-progress gesture.
func (pg *Page) CancelGesture() {
	pg.session.Tools().Cancel()
	pg.canvas.SetProvisional(nil)
}

// preview returns the shape to render on top of the committed ones: the live
// drag shape, or an outline of the points collected so far for a multi-click
// gesture.
func (pg *Page) preview() *annotation.Shape {
	tools := pg.session.Tools()
	if s, ok := tools.Provisional(); ok {
		return &s
	}
	if pending := tools.Pending(); len(pending) > 0 {
		s := annotation.New(annotation.KindRegion, pending, "#e9c46a")
		return &s
	}
	return nil
}

// selectAt picks the topmost unlocked shape whose bounds contain p.
func (pg *Page) selectAt(p geometry.Point2D) {
	shapes := pg.session.Store().Shapes()
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		if !s.Visible || s.Locked {
			continue
		}
		if s.Bounds().Contains(p) {
			pg.session.Select(s.ID)
			return
		}
	}
	pg.session.Select("")
}

func (pg *Page) refreshShapes() {
	pg.canvas.SetShapes(pg.session.Store().Shapes())
	pg.updateStatus()
}

// updateStatus summarizes the store in the status bar. A selected region
// also shows its area.
func (pg *Page) updateStatus() {
	store := pg.session.Store()
	counts := store.CountByKind()

	text := fmt.Sprintf("%d annotations (%d keypoints, %d seams, %d regions)",
		store.Len(),
		counts[annotation.KindKeypoint],
		counts[annotation.KindSeam],
		counts[annotation.KindRegion])

	if id := store.Selected(); id != "" {
		if shape, ok := store.Get(id); ok && shape.Kind == annotation.KindRegion {
			text += fmt.Sprintf(" | region area %.1f", geometry.PolygonArea(shape.Points))
		}
	}
	pg.statusBar.SetText(text)
}

// exportDocument builds the export header from the current document.
func (pg *Page) exportDocument() export.Document {
	doc := pg.session.Document()
	name := doc.Name
	if name == "" {
		name = "untitled"
	}
	w, h := int(doc.Size.Width), int(doc.Size.Height)
	if w == 0 || h == 0 {
		w, h = 800, 600
	}
	return export.Document{Name: name, Width: w, Height: h}
}

// ExportJSON writes the native annotation format to path.
func (pg *Page) ExportJSON(path string) error {
	data, err := export.JSON(pg.exportDocument(), pg.session.Store().Shapes(), time.Now())
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// ExportCOCO writes region annotations in COCO detection format to path.
func (pg *Page) ExportCOCO(path string) error {
	data, err := export.COCO(pg.exportDocument(), pg.session.Store().Shapes())
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// ExportYOLO writes region annotations in YOLO format to path.
func (pg *Page) ExportYOLO(path string) error {
	return writeFile(path, []byte(export.YOLO(pg.exportDocument(), pg.session.Store().Shapes())))
}

// ExportPDF renders visible annotations to a PDF at path.
func (pg *Page) ExportPDF(path string) error {
	return export.PDF(path, pg.exportDocument(), pg.session.Store().Shapes())
}

// StartAutosave begins periodic session snapshots.
func (pg *Page) StartAutosave(interval time.Duration) {
	pg.saver = autosave.NewSaver(pg.prefs, interval, func() autosave.Record {
		doc := pg.session.Document()
		return autosave.Record{
			Annotations: pg.session.Store().Shapes(),
			ImageURL:    doc.URL,
			ImageName:   doc.Name,
			ImageSize:   doc.Size,
		}
	})
	pg.saver.Start()
}

// StopAutosave halts the snapshot loop.
func (pg *Page) StopAutosave() {
	if pg.saver != nil {
		pg.saver.Stop()
		pg.saver = nil
	}
}

// Recover restores a crashed session from its autosave record.
func (pg *Page) Recover(rec autosave.Record) {
	pg.session.SetDocument(session.Document{
		Name: rec.ImageName,
		URL:  rec.ImageURL,
		Size: rec.ImageSize,
	})
	pg.session.Restore(rec.Annotations)
	pg.session.SetModified(false)
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}
