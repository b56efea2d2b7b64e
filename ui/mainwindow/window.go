// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"lanfinitas-studio/internal/api"
	"lanfinitas-studio/internal/apitypes"
	"lanfinitas-studio/internal/autosave"
	"lanfinitas-studio/internal/session"
	"lanfinitas-studio/internal/thumbnail"
	"lanfinitas-studio/internal/version"
	"lanfinitas-studio/ui/annotator"
	"lanfinitas-studio/ui/canvas"
	"lanfinitas-studio/ui/editor"
	"lanfinitas-studio/ui/prefs"
)

const (
	prefKeyLastDir = "lastDirectory"
	prefKeyBackend = "backendURL"

	defaultBackendURL = "http://127.0.0.1:8791"
)

const (
	tabAnnotator = "Annotator"
	tabEditor    = "Editor"
	tabTemplates = "Templates"
	tabTasks     = "Tasks & Wallet"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	prefs *prefs.Prefs

	annotator *annotator.Page
	editor    *editor.Page
	tabs      *container.AppTabs

	client       *api.Client
	templateList *widget.List
	templates    []apitypes.Template

	delegationList *widget.List
	delegations    []apitypes.Delegation
	balanceLabel   *widget.Label
}

// New creates the main window over the shared preferences store.
func New(fyneApp fyne.App, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Lanfinitas Studio")

	backendURL := p.String(prefKeyBackend)
	if backendURL == "" {
		backendURL = defaultBackendURL
	}

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		prefs:  p,
		client: api.NewClient(backendURL),
	}

	mw.annotator = annotator.New(session.New(), p)
	mw.editor = editor.New()

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	mw.annotator.StartAutosave(autosave.DefaultInterval)
	win.SetOnClosed(func() {
		mw.annotator.StopAutosave()
	})

	return mw
}

// setupUI creates the main tab layout.
func (mw *MainWindow) setupUI() {
	mw.setupTemplateList()

	templatesTab := container.NewBorder(
		container.NewHBox(
			widget.NewButton("Refresh", mw.onRefreshTemplates),
			widget.NewButton("Sign In...", mw.onSignIn),
		),
		nil, nil, nil,
		mw.templateList,
	)

	mw.tabs = container.NewAppTabs(
		container.NewTabItem(tabAnnotator, mw.annotator.Container()),
		container.NewTabItem(tabEditor, mw.editor.Container()),
		container.NewTabItem(tabTemplates, templatesTab),
		container.NewTabItem(tabTasks, mw.setupTasksTab()),
	)
	mw.SetContent(mw.tabs)
	mw.Resize(fyne.NewSize(1200, 800))
}

func (mw *MainWindow) setupTemplateList() {
	mw.templateList = widget.NewList(
		func() int {
			return len(mw.templates)
		},
		func() fyne.CanvasObject {
			preview := fynecanvas.NewImageFromImage(nil)
			preview.FillMode = fynecanvas.ImageFillContain
			preview.SetMinSize(fyne.NewSize(thumbnail.MaxSize/2, thumbnail.MaxSize/2))
			return container.NewBorder(nil, nil, preview, nil,
				widget.NewLabel("template"))
		},
		func(row widget.ListItemID, obj fyne.CanvasObject) {
			if row < 0 || row >= len(mw.templates) {
				return
			}
			t := mw.templates[row]
			box := obj.(*fyne.Container)
			label := box.Objects[0].(*widget.Label)
			preview := box.Objects[1].(*fynecanvas.Image)

			text := fmt.Sprintf("%s (%s)", t.Name, t.Category)
			if t.Description != "" {
				text += " - " + t.Description
			}
			label.SetText(text)

			// Preview URLs in the demo seeds point at local files.
			preview.Image = nil
			if t.PreviewURL != "" {
				if img, err := thumbnail.FromFile(t.PreviewURL); err == nil {
					preview.Image = img
				}
			}
			preview.Refresh()
		},
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Document", mw.onNewDocument),
		fyne.NewMenuItem("Open Design...", mw.onOpenDesign),
		fyne.NewMenuItem("Save Design", mw.onSaveDesign),
		fyne.NewMenuItem("Save Design As...", mw.onSaveDesignAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Annotations (JSON)...", func() {
			mw.exportWith(".json", mw.annotator.ExportJSON)
		}),
		fyne.NewMenuItem("Export COCO...", func() {
			mw.exportWith(".json", mw.annotator.ExportCOCO)
		}),
		fyne.NewMenuItem("Export YOLO...", func() {
			mw.exportWith(".txt", mw.annotator.ExportYOLO)
		}),
		fyne.NewMenuItem("Export PDF...", func() {
			mw.exportWith(".pdf", mw.annotator.ExportPDF)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Complete Region", mw.annotator.CompleteRegion),
		fyne.NewMenuItem("Cancel Gesture", mw.annotator.CancelGesture),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete Selected", mw.onDeleteSelected),
		fyne.NewMenuItem("Clear All", mw.onClearAll),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.activeCanvas().ZoomIn() }),
		fyne.NewMenuItem("Zoom Out", func() { mw.activeCanvas().ZoomOut() }),
		fyne.NewMenuItem("Actual Size", func() { mw.activeCanvas().ResetZoom() }),
		fyne.NewMenuItem("Fit to Window", func() { mw.activeCanvas().FitToWindow() }),
	)

	backendMenu := fyne.NewMenu("Backend",
		fyne.NewMenuItem("Sign In...", mw.onSignIn),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Generate Pattern", mw.onGeneratePattern),
		fyne.NewMenuItem("Simulate Draping", mw.onSimulateDraping),
		fyne.NewMenuItem("Optimize Layout", mw.onOptimizeLayout),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, backendMenu, helpMenu))
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.annotator.Session().On(session.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
	mw.annotator.Session().On(session.EventDocumentLoaded, func(data interface{}) {
		if doc, ok := data.(session.Document); ok && doc.Name != "" {
			mw.SetTitle("Lanfinitas Studio - " + doc.Name)
		}
	})
}

// activeSession returns the session behind the selected tab. The templates
// tab routes to the annotator.
func (mw *MainWindow) activeSession() *session.Session {
	if mw.tabs.Selected() != nil && mw.tabs.Selected().Text == tabEditor {
		return mw.editor.Session()
	}
	return mw.annotator.Session()
}

func (mw *MainWindow) activeCanvas() *canvas.DrawCanvas {
	if mw.tabs.Selected() != nil && mw.tabs.Selected().Text == tabEditor {
		return mw.editor.Canvas()
	}
	return mw.annotator.Canvas()
}

// OpenDesignFile loads a design document given on the command line and
// switches to the editor tab.
func (mw *MainWindow) OpenDesignFile(path string) error {
	if err := mw.editor.LoadDesign(path); err != nil {
		return err
	}
	mw.tabs.SelectIndex(1)
	return nil
}

// SavePreferences flushes the preference store to disk.
func (mw *MainWindow) SavePreferences() {
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// PromptRecovery offers to restore an autosaved session, if one exists.
// Declining discards the record.
func (mw *MainWindow) PromptRecovery() {
	rec, ok := autosave.Load(mw.prefs)
	if !ok || len(rec.Annotations) == 0 {
		return
	}

	saved := rec.SavedAt.Format("2006-01-02 15:04")
	dialog.NewConfirm("Recover Session",
		fmt.Sprintf("An autosaved session from %s was found (%d annotations).\nRestore it?",
			saved, len(rec.Annotations)),
		func(restore bool) {
			if restore {
				mw.annotator.Recover(rec)
			} else {
				autosave.Clear(mw.prefs)
				mw.prefs.Save()
			}
		}, mw.Window).Show()
}

func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(filePath))
	mw.prefs.Save()
}

// Menu action handlers

func (mw *MainWindow) onNewDocument() {
	sess := mw.activeSession()
	if !sess.Modified() {
		sess.Restore(nil)
		return
	}
	dialog.NewConfirm("New Document",
		"Discard unsaved changes and start a new document?",
		func(confirmed bool) {
			if confirmed {
				sess.Restore(nil)
				sess.SetModified(false)
			}
		}, mw.Window).Show()
}

func (mw *MainWindow) onOpenDesign() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.editor.LoadDesign(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.tabs.SelectIndex(1)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".lfd"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveDesign() {
	if mw.editor.DocPath() == "" {
		mw.onSaveDesignAs()
		return
	}
	if err := mw.editor.SaveDesign(mw.editor.DocPath()); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveDesignAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".lfd" {
			path += ".lfd"
		}
		mw.saveLastDir(path)
		if err := mw.editor.SaveDesign(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("design.lfd")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// exportWith shows a save dialog and runs the exporter on the chosen path.
func (mw *MainWindow) exportWith(ext string, exporter func(string) error) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ext {
			path += ext
		}
		mw.saveLastDir(path)
		if err := exporter(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("annotations" + ext)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	mw.activeSession().Undo()
}

func (mw *MainWindow) onRedo() {
	mw.activeSession().Redo()
}

func (mw *MainWindow) onDeleteSelected() {
	sess := mw.activeSession()
	id := sess.Store().Selected()
	if id == "" {
		return
	}
	dialog.NewConfirm("Delete Annotation",
		"Delete the selected annotation?",
		func(confirmed bool) {
			if confirmed {
				sess.RemoveShape(id)
			}
		}, mw.Window).Show()
}

func (mw *MainWindow) onClearAll() {
	sess := mw.activeSession()
	if sess.Store().Len() == 0 {
		return
	}
	dialog.NewConfirm("Clear All",
		fmt.Sprintf("Delete all %d annotations? This can be undone.", sess.Store().Len()),
		func(confirmed bool) {
			if confirmed {
				sess.Clear()
			}
		}, mw.Window).Show()
}

func (mw *MainWindow) onSignIn() {
	email := widget.NewEntry()
	password := widget.NewPasswordEntry()
	items := []*widget.FormItem{
		widget.NewFormItem("Email", email),
		widget.NewFormItem("Password", password),
	}

	dialog.ShowForm("Sign In", "Sign In", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		identity, err := mw.client.Login(ctx, email.Text, password.Text)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		dialog.ShowInformation("Signed In",
			"Welcome, "+identity.DisplayName, mw.Window)
		mw.onRefreshTemplates()
	}, mw.Window)
}

func (mw *MainWindow) onRefreshTemplates() {
	if !mw.client.TokenValid() {
		dialog.ShowInformation("Not Signed In",
			"Sign in to the demo backend to browse templates.", mw.Window)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	list, err := mw.client.Templates(ctx)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.templates = list
	mw.templateList.Refresh()
}

// currentDesign builds the demo design payload sent to the inference
// endpoints from the annotator's document.
func (mw *MainWindow) currentDesign() apitypes.Design {
	doc := mw.annotator.Session().Document()
	name := doc.Name
	if name == "" {
		name = "untitled"
	}
	return apitypes.Design{ID: name, Name: name}
}

func (mw *MainWindow) onGeneratePattern() {
	if !mw.client.TokenValid() {
		dialog.ShowInformation("Not Signed In",
			"Sign in to the demo backend first.", mw.Window)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := mw.client.GeneratePattern(ctx, mw.currentDesign())
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	dialog.ShowInformation("Pattern Generated",
		fmt.Sprintf("%d pieces, total area %.0f (demo data)",
			len(result.Pattern.Pieces), result.Metrics["total_area"]),
		mw.Window)
}

func (mw *MainWindow) onSimulateDraping() {
	if !mw.client.TokenValid() {
		dialog.ShowInformation("Not Signed In",
			"Sign in to the demo backend first.", mw.Window)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gen, err := mw.client.GeneratePattern(ctx, mw.currentDesign())
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	sim, err := mw.client.SimulateFabric(ctx, gen.Pattern, apitypes.Fabric{Name: "cotton", Width: 150})
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	dialog.ShowInformation("Draping Simulated",
		fmt.Sprintf("%d vertices, stability %.2f (demo data)",
			len(sim.Mesh.Vertices), sim.Metrics["stability"]),
		mw.Window)
}

func (mw *MainWindow) onOptimizeLayout() {
	if !mw.client.TokenValid() {
		dialog.ShowInformation("Not Signed In",
			"Sign in to the demo backend first.", mw.Window)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gen, err := mw.client.GeneratePattern(ctx, mw.currentDesign())
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	result, err := mw.client.OptimizeLayout(ctx, gen.Pattern, apitypes.Fabric{Width: 150})
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	dialog.ShowInformation("Layout Optimized",
		fmt.Sprintf("fabric length %.0f cm, utilization %.0f%% (demo data)",
			result.FabricLength, result.Utilization*100),
		mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Lanfinitas Studio",
		fmt.Sprintf("Lanfinitas Studio v%s\n\n"+
			"Fashion design annotation and pattern tooling.\n\n"+
			"All backend results are demonstration data.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
