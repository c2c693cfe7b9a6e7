// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"

	"weave-studio/internal/app"
	"weave-studio/internal/export"
	"weave-studio/internal/scene"
	"weave-studio/internal/version"
	"weave-studio/ui/canvas"
	"weave-studio/ui/panels"
	"weave-studio/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// Size used for exports when nothing has been drawn yet.
const (
	fallbackExportWidth  = 1024
	fallbackExportHeight = 768
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	renderers *app.Renderers
	canvas    *canvas.WeaveCanvas
	controls  *panels.ControlPanel
	statusBar *widget.Label
	cfgPath   string

	// Menu items that need state tracking
	viewMenu       *fyne.Menu
	modeItems      map[app.Mode]*fyne.MenuItem
	showRepeatItem *fyne.MenuItem
}

// New creates the main window. Session settings are read from and written
// back to p.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(version.Name)

	mw := &MainWindow{
		Window:    win,
		app:       fyneApp,
		state:     state,
		prefs:     p,
		renderers: app.NewRenderers(),
		modeItems: make(map[app.Mode]*fyne.MenuItem),
	}

	mw.restoreSession()
	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.updateMenuState()

	return mw
}

// restoreSession applies the saved mode and window size.
func (mw *MainWindow) restoreSession() {
	if name := mw.prefs.String(prefs.KeyMode, ""); name != "" {
		if m, err := app.ParseMode(name); err == nil {
			mw.state.SetMode(m)
		} else {
			log.Printf("MainWindow: ignoring saved mode: %v", err)
		}
	}
	w := mw.prefs.Float(prefs.KeyWindowWidth, 1200)
	h := mw.prefs.Float(prefs.KeyWindowHeight, 800)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New(mw.state, mw.renderers)
	mw.canvas.SetShowRepeat(mw.prefs.Bool(prefs.KeyShowRepeat, false))
	mw.controls = panels.NewControlPanel(mw.state, mw.Window)

	mw.statusBar = widget.NewLabel("Ready")
	mw.canvas.OnRendered(func(w, h int) {
		mw.updateStatus(mw.describe(w, h))
	})

	toolbar := container.NewHBox(
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.canvas.ZoomOut),
		widget.NewButton("+", mw.canvas.ZoomIn),
		widget.NewButton("Reset", mw.state.ResetView),
	)
	canvasArea := container.NewBorder(toolbar, nil, nil, nil, mw.canvas)

	split := container.NewHSplit(mw.controls.Container(), canvasArea)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)
	mw.SetContent(content)

	mw.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case '+', '=':
			mw.canvas.ZoomIn()
		case '-':
			mw.canvas.ZoomOut()
		case '0':
			mw.state.ResetView()
		}
	})

	mw.SetCloseIntercept(func() {
		mw.SaveSession()
		mw.Close()
	})
}

// describe builds the status bar text for a finished frame.
func (mw *MainWindow) describe(w, h int) string {
	p := mw.state.Params()
	mode := mw.state.Mode()
	text := fmt.Sprintf("%s | %s | zoom %.0f | %dx%d", p.Weave.Label(), mode.Label(), p.Zoom, w, h)
	if mode == app.ModeScene {
		text += fmt.Sprintf(" | %d triangles drawn", mw.renderers.Scene.LastTriangleCount())
	}
	return text
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Export Image...", mw.onExportImage),
		fyne.NewMenuItem("Export Scene...", mw.onExportScene),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			mw.SaveSession()
			mw.app.Quit()
		}),
	)

	items := make([]*fyne.MenuItem, 0, 8)
	for _, m := range app.Modes() {
		m := m
		item := fyne.NewMenuItem(m.Label(), func() { mw.state.SetMode(m) })
		mw.modeItems[m] = item
		items = append(items, item)
	}
	mw.showRepeatItem = fyne.NewMenuItem("Show Repeat", mw.onToggleRepeat)
	items = append(items,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Reset View", mw.state.ResetView),
		mw.showRepeatItem,
	)
	mw.viewMenu = fyne.NewMenu("View", items...)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, mw.viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventModeChanged, func(data interface{}) {
		if m, ok := data.(app.Mode); ok {
			mw.prefs.SetString(prefs.KeyMode, m.String())
		}
		mw.updateMenuState()
	})

	mw.state.On(app.EventConfigChanged, func(interface{}) {
		mw.renderers.Scene.Cache().Invalidate()
		mw.updateStatus("Configuration reloaded")
	})

	mw.state.On(app.EventViewReset, func(interface{}) {
		mw.updateStatus("View reset")
	})
}

// updateMenuState marks the active mode and the overlay toggle.
func (mw *MainWindow) updateMenuState() {
	if mw.viewMenu == nil {
		return
	}
	current := mw.state.Mode()
	for m, item := range mw.modeItems {
		item.Checked = m == current
	}
	mw.showRepeatItem.Checked = mw.canvas.ShowRepeat()
	mw.showRepeatItem.Disabled = current == app.ModeScene
	mw.viewMenu.Refresh()
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// SaveSession stores the window size, mode and overlay toggle.
func (mw *MainWindow) SaveSession() {
	size := mw.Canvas().Size()
	if size.Width > 0 && size.Height > 0 {
		mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	}
	mw.prefs.SetString(prefs.KeyMode, mw.state.Mode().String())
	mw.prefs.SetBool(prefs.KeyShowRepeat, mw.canvas.ShowRepeat())
	if err := mw.prefs.Save(); err != nil {
		log.Printf("MainWindow: %v", err)
	}
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDirectory, "")
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDirectory, filepath.Dir(filePath))
}

// exportSize is the pixel size of the last frame, or a fallback.
func (mw *MainWindow) exportSize() (int, int) {
	if img := mw.canvas.LastImage(); img != nil {
		if b := img.Bounds(); !b.Empty() {
			return b.Dx(), b.Dy()
		}
	}
	return fallbackExportWidth, fallbackExportHeight
}

// saveDialog shows a file save dialog and calls save with the chosen path.
func (mw *MainWindow) saveDialog(fileName string, exts []string, save func(path string) error) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if writer == nil {
			return
		}
		// The export writes through its own file handle.
		writer.Close()
		path := writer.URI().Path()
		mw.saveLastDir(path)
		if err := save(path); err != nil {
			log.Printf("MainWindow: export %s: %v", path, err)
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported " + path)
	}, mw.Window)
	fd.SetFileName(fileName)
	fd.SetFilter(storage.NewExtensionFileFilter(exts))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportImage() {
	p := mw.state.Params()
	name := fmt.Sprintf("%s-%s.png", p.Weave, mw.state.Mode())
	mw.saveDialog(name, []string{".png", ".tif", ".tiff"}, mw.ExportImage)
}

// ExportImage writes the current view to path as PNG or TIFF, at the size of
// the last frame.
func (mw *MainWindow) ExportImage(path string) error {
	w, h := mw.exportSize()
	return export.SaveImage(path, mw.canvas.Render(w, h))
}

func (mw *MainWindow) onExportScene() {
	p := mw.state.Params()
	name := fmt.Sprintf("%s.obj", p.Weave)
	mw.saveDialog(name, []string{".obj"}, mw.ExportScene)
}

// ExportScene writes the current 3D scene to path as OBJ with a sibling
// material library.
func (mw *MainWindow) ExportScene(path string) error {
	w, h := mw.exportSize()
	p := scene.Resolve(mw.state.Params(), w, h)
	return export.SaveScene(path, mw.renderers.Scene.Cache().Get(p))
}

func (mw *MainWindow) onToggleRepeat() {
	mw.canvas.SetShowRepeat(!mw.canvas.ShowRepeat())
	mw.prefs.SetBool(prefs.KeyShowRepeat, mw.canvas.ShowRepeat())
	mw.updateMenuState()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+version.Name,
		fmt.Sprintf("%s\n\n"+
			"Interactive viewer for plain, twill, satin and basket weaves.\n\n"+
			"Config: %s\n"+
			"Session: %s",
			version.String(), mw.configPath(), mw.prefs.Path()),
		mw.Window)
}

func (mw *MainWindow) configPath() string {
	if mw.cfgPath != "" {
		return mw.cfgPath
	}
	return "built-in defaults"
}

// SetConfigPath records the config file shown in the About box.
func (mw *MainWindow) SetConfigPath(path string) {
	mw.cfgPath = path
}
