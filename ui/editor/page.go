// Package editor provides the design editor page: drawing primitives on a
// sheet with a layer list for reordering, visibility, and locking.
package editor

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"lanfinitas-studio/internal/annotation"
	"lanfinitas-studio/internal/design"
	"lanfinitas-studio/internal/session"
	"lanfinitas-studio/internal/tool"
	"lanfinitas-studio/pkg/geometry"
	"lanfinitas-studio/ui/canvas"
)

// Page is the editor page controller. It owns its session, separate from
// the annotator: editor layers never mix with annotation work.
type Page struct {
	session *session.Session
	canvas  *canvas.DrawCanvas

	layerList *widget.List
	statusBar *widget.Label

	docPath  string
	lastDrag geometry.Point2D
	content  fyne.CanvasObject
}

var editorTools = []struct {
	tool tool.Tool
	name string
}{
	{tool.ToolSelect, "Select"},
	{tool.ToolRectangle, "Rectangle"},
	{tool.ToolCircle, "Circle"},
	{tool.ToolLine, "Line"},
	{tool.ToolText, "Text"},
}

// New creates an editor page with an empty document.
func New() *Page {
	pg := &Page{
		session: session.New(),
		canvas:  canvas.NewDrawCanvas(geometry.NewSize(800, 600)),
	}
	pg.statusBar = widget.NewLabel("Ready")

	pg.setupLayerList()
	pg.setupWiring()
	pg.setupLayout()
	return pg
}

// Container returns the page layout for embedding in the window.
func (pg *Page) Container() fyne.CanvasObject {
	return pg.content
}

// Session exposes the editor's session for menu actions.
func (pg *Page) Session() *session.Session {
	return pg.session
}

// Canvas exposes the drawing surface for zoom menu actions.
func (pg *Page) Canvas() *canvas.DrawCanvas {
	return pg.canvas
}

// layerAt maps a list row to a shape: row 0 is the topmost layer, which is
// the last shape in paint order.
func (pg *Page) layerAt(row int) (annotation.Shape, bool) {
	shapes := pg.session.Store().Shapes()
	idx := len(shapes) - 1 - row
	if idx < 0 || idx >= len(shapes) {
		return annotation.Shape{}, false
	}
	return shapes[idx], true
}

func (pg *Page) setupLayerList() {
	pg.layerList = widget.NewList(
		func() int {
			return pg.session.Store().Len()
		},
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewLabel("layer"),
				widget.NewButton("Hide", nil),
				widget.NewButton("Lock", nil),
				widget.NewButton("Top", nil),
			)
		},
		func(row widget.ListItemID, obj fyne.CanvasObject) {
			shape, ok := pg.layerAt(row)
			if !ok {
				return
			}
			box := obj.(*fyne.Container)
			label := box.Objects[0].(*widget.Label)
			hideBtn := box.Objects[1].(*widget.Button)
			lockBtn := box.Objects[2].(*widget.Button)
			topBtn := box.Objects[3].(*widget.Button)

			name := string(shape.Kind)
			if shape.Label != "" {
				name += " " + shape.Label
			}
			label.SetText(name)

			hideBtn.SetText(visibilityCaption(shape.Visible))
			hideBtn.OnTapped = func() {
				pg.session.ToggleVisibility(shape.ID)
			}
			lockBtn.SetText(lockCaption(shape.Locked))
			lockBtn.OnTapped = func() {
				pg.session.ToggleLock(shape.ID)
			}
			topBtn.OnTapped = func() {
				if pg.session.Store().MoveToTop(shape.ID) {
					pg.session.SetModified(true)
					pg.session.Emit(session.EventShapesChanged, nil)
				}
			}
		},
	)

	pg.layerList.OnSelected = func(row widget.ListItemID) {
		if shape, ok := pg.layerAt(row); ok {
			pg.session.Select(shape.ID)
		}
	}
}

func visibilityCaption(visible bool) string {
	if visible {
		return "Hide"
	}
	return "Show"
}

func lockCaption(locked bool) string {
	if locked {
		return "Unlock"
	}
	return "Lock"
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
	})
	pg.canvas.OnDragStart(func(p geometry.Point2D) {
		pg.lastDrag = p
		tools.PointerDown(p)
		pg.syncProvisional()
	})
	pg.canvas.OnDragMove(func(p geometry.Point2D) {
		pg.lastDrag = p
		tools.PointerMove(p)
		pg.syncProvisional()
	})
	pg.canvas.OnDragEnd(func() {
		if shape, ok := tools.PointerUp(pg.lastDrag); ok {
			pg.session.AddShape(shape)
		}
		pg.canvas.SetProvisional(nil)
	})

	pg.session.On(session.EventShapesChanged, func(interface{}) {
		pg.canvas.SetShapes(pg.session.Store().Shapes())
		pg.layerList.Refresh()
		pg.updateStatus()
	})
	pg.session.On(session.EventSelectionChanged, func(data interface{}) {
		id, _ := data.(string)
		pg.canvas.SetSelected(id)
	})
}

func (pg *Page) syncProvisional() {
	if s, ok := pg.session.Tools().Provisional(); ok {
		pg.canvas.SetProvisional(&s)
	} else {
		pg.canvas.SetProvisional(nil)
	}
}

func (pg *Page) setupLayout() {
	items := []fyne.CanvasObject{}
	for _, tn := range editorTools {
		t := tn.tool
		items = append(items, widget.NewButton(tn.name, func() {
			pg.session.Tools().SetTool(t)
			pg.canvas.SetProvisional(nil)
		}))
	}
	toolbar := container.NewHBox(items...)

	side := container.NewBorder(
		widget.NewLabel("Layers"),
		nil, nil, nil,
		pg.layerList,
	)

	split := container.NewHSplit(side, pg.canvas.Container())
	split.SetOffset(0.25)

	pg.content = container.NewBorder(
		toolbar,
		container.NewPadded(pg.statusBar),
		nil,
		nil,
		split,
	)
}

// selectAt picks the topmost visible unlocked shape containing p.
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

func (pg *Page) updateStatus() {
	pg.statusBar.SetText(fmt.Sprintf("%d layers", pg.session.Store().Len()))
}

// DocPath returns the path of the loaded document, or "".
func (pg *Page) DocPath() string {
	return pg.docPath
}

// SaveDesign writes the editor document to path.
func (pg *Page) SaveDesign(path string) error {
	doc := pg.session.Document()
	name := doc.Name
	if name == "" {
		name = "untitled"
	}

	f := design.New(name, doc.Size)
	if f.Sheet.Width == 0 {
		f.Sheet = geometry.NewSize(800, 600)
	}
	f.Annotations = pg.session.Store().Shapes()

	if err := f.Save(path); err != nil {
		return err
	}
	pg.docPath = path
	pg.session.SetModified(false)
	return nil
}

// LoadDesign loads an editor document from path. The undo history restarts
// from the loaded state.
func (pg *Page) LoadDesign(path string) error {
	f, err := design.Load(path)
	if err != nil {
		return err
	}

	pg.session.SetDocument(session.Document{Name: f.Name, Size: f.Sheet})
	pg.canvas.SetDocumentSize(f.Sheet)
	pg.session.Restore(f.Annotations)
	pg.session.SetModified(false)
	pg.docPath = path
	return nil
}
