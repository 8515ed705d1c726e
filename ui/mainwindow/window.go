// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"path/filepath"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"mask-painter/internal/buffer"
	"mask-painter/internal/session"
	"mask-painter/internal/source"
	"mask-painter/internal/version"
	"mask-painter/ui/editor"
	"mask-painter/ui/prefs"
)

const (
	prefKeyLastDir     = "lastDirectory"
	prefKeyBrushSize   = "brushSize"
	prefKeyBrushColor  = "brushColor"
	prefKeyFitToWindow = "fitToWindow"
)

// brushColors are the paint colors offered in the toolbar.
var brushColors = map[string]color.RGBA{
	"Red":   {R: 255, A: 255},
	"Green": {G: 200, A: 255},
	"Blue":  {B: 255, A: 255},
	"White": {R: 255, G: 255, B: 255, A: 255},
	"Black": {A: 255},
}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	prefs *prefs.Prefs

	editor    *editor.Editor
	statusBar *widget.Label

	// Current image and the mask committed for it, kept so a closed
	// session can be reopened with prior state.
	imagePath string
	lastMask  *buffer.Buffer
}

// New creates a new main window.
func New(fyneApp fyne.App, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Mask Painter")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()

	win.Resize(fyne.NewSize(1024, 768))
	win.SetOnClosed(func() {
		mw.savePreferences()
	})

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.editor = editor.New(editor.DefaultCheckerboard())
	mw.statusBar = widget.NewLabel("Ready")

	mw.editor.OnZoomChange(func(zoom float64) {
		mw.statusBar.SetText(fmt.Sprintf("Zoom: %.0f%%", zoom*100))
	})

	content := container.NewBorder(
		mw.createToolbar(),                // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.editor,                         // center
	)

	mw.SetContent(content)
}

// createToolbar creates the brush and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	sizeSlider := widget.NewSlider(1, 100)
	sizeSlider.Value = float64(mw.prefs.Int(prefKeyBrushSize, session.DefaultBrushSize))
	sizeSlider.OnChanged = func(v float64) {
		if s := mw.editor.Session(); s != nil {
			s.SetBrushSize(int(v))
		}
		mw.prefs.SetInt(prefKeyBrushSize, int(v))
	}

	colorNames := make([]string, 0, len(brushColors))
	for name := range brushColors {
		colorNames = append(colorNames, name)
	}
	sort.Strings(colorNames)
	colorSelect := widget.NewSelect(colorNames, func(name string) {
		if s := mw.editor.Session(); s != nil {
			s.SetBrushColor(brushColors[name])
		}
		mw.prefs.SetString(prefKeyBrushColor, name)
	})
	colorSelect.SetSelected(mw.selectedColorName())

	mode := widget.NewRadioGroup([]string{"Paint", "Erase"}, func(sel string) {
		if s := mw.editor.Session(); s != nil {
			s.SetErasing(sel == "Erase")
		}
	})
	mode.Horizontal = true
	mode.SetSelected("Paint")

	zoomOutBtn := widget.NewButton("-", mw.editor.ZoomOut)
	zoomInBtn := widget.NewButton("+", mw.editor.ZoomIn)
	fitBtn := widget.NewButton("Fit", mw.editor.Fit)
	actualBtn := widget.NewButton("1:1", mw.editor.ActualSize)

	return container.NewHBox(
		widget.NewLabel("Brush:"),
		colorSelect,
		mode,
		widget.NewLabel("Size:"),
		container.NewGridWrap(fyne.NewSize(160, 36), sizeSlider),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Mask...", mw.onExportMask),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset Mask", mw.onReset),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.editor.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.editor.ZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.editor.Fit),
		fyne.NewMenuItem("Actual Size", mw.editor.ActualSize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// OpenImage loads the image at path and opens an editing session over it.
func (mw *MainWindow) OpenImage(path string) {
	img, err := source.Load(path)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}

	var prior image.Image
	if path == mw.imagePath && mw.lastMask != nil {
		prior = mw.lastMask
	} else {
		mw.lastMask = nil
	}

	s, err := session.Open(img, prior, brushColors[mw.selectedColorName()],
		mw.prefs.Int(prefKeyBrushSize, session.DefaultBrushSize))
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}

	mw.imagePath = path
	mw.editor.SetSession(s)
	mw.editor.SetFitOnResize(mw.prefs.Bool(prefKeyFitToWindow, true))
	mw.SetTitle("Mask Painter - " + filepath.Base(path))
	mw.statusBar.SetText(fmt.Sprintf("Loaded %s (%dx%d, working scale %.2f)",
		filepath.Base(path), s.Image().Width(), s.Image().Height(), s.WorkingScale()))
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(path))
}

// openSessionFromBuffers reopens a session over a previously loaded
// image with an already committed mask.
func (mw *MainWindow) openSessionFromBuffers(img, prior *buffer.Buffer) (*session.Session, error) {
	var priorImg image.Image
	if prior != nil {
		priorImg = prior
	}
	return session.Open(img, priorImg, brushColors[mw.selectedColorName()],
		mw.prefs.Int(prefKeyBrushSize, session.DefaultBrushSize))
}

func (mw *MainWindow) onOpenImage() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		mw.OpenImage(reader.URI().Path())
	}, mw.Window)
	d.SetFilter(storage.NewExtensionFileFilter(source.SupportedFormats()))
	d.Show()
}

// onExportMask commits the session, writes the original-resolution mask
// as PNG, then reopens the session with the committed mask so editing
// can continue.
func (mw *MainWindow) onExportMask() {
	s := mw.editor.Session()
	if s == nil || s.Closed() {
		mw.statusBar.SetText("No open session")
		return
	}

	img := s.Image()
	mask := s.Commit()
	mw.lastMask = mask

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err == nil && writer != nil {
			defer writer.Close()
			if encErr := png.Encode(writer, mask.ToRGBA()); encErr != nil {
				dialog.ShowError(encErr, mw.Window)
			} else {
				mw.statusBar.SetText("Mask exported: " + writer.URI().Name())
			}
		}

		// Re-enter the session with the committed mask regardless of
		// whether the save went through.
		reopened, openErr := mw.openSessionFromBuffers(img, mask)
		if openErr != nil {
			log.Printf("mainwindow: reopen after export failed: %v", openErr)
			return
		}
		mw.editor.SetSession(reopened)
	}, mw.Window)
	d.SetFileName("mask.png")
	d.Show()
}

func (mw *MainWindow) onUndo() {
	if s := mw.editor.Session(); s != nil {
		if !s.Undo() {
			mw.statusBar.SetText("Nothing to undo")
		}
	}
}

func (mw *MainWindow) onReset() {
	if s := mw.editor.Session(); s != nil {
		s.Reset()
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About",
		fmt.Sprintf("Mask Painter v%s\ncommit %s, built %s",
			version.Version, version.GitCommit, version.BuildTime),
		mw.Window)
}

func (mw *MainWindow) selectedColorName() string {
	if name := mw.prefs.String(prefKeyBrushColor); name != "" {
		if _, ok := brushColors[name]; ok {
			return name
		}
	}
	return "Red"
}

func (mw *MainWindow) savePreferences() {
	if err := mw.prefs.Save(); err != nil {
		log.Printf("mainwindow: saving preferences: %v", err)
	}
}
