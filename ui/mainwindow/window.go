// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"pdfsnip/internal/app"
	"pdfsnip/internal/extract"
	"pdfsnip/internal/pdfdoc"
	"pdfsnip/internal/selection"
	"pdfsnip/internal/transform"
	"pdfsnip/internal/version"
	"pdfsnip/ui/canvas"
	"pdfsnip/ui/panels"
	"pdfsnip/ui/prefs"
)

var log = logrus.WithField("module", "mainwindow")

const downloadTimeout = 30 * time.Second

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app      fyne.App
	state    *app.State
	prefs    *prefs.Prefs
	canvas   *canvas.PageCanvas
	renderer *pdfdoc.Renderer

	sidePanel *panels.SidePanel
	statusBar *widget.Label
	pageEntry *widget.Entry
	pageCount *widget.Label
	selectBtn *widget.Button

	// Menu items that need state tracking
	fitToWindowItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("PDF Snip")

	mw := &MainWindow{
		Window:   win,
		app:      fyneApp,
		state:    state,
		prefs:    p,
		renderer: &pdfdoc.Renderer{},
	}

	mw.setupUI()
	mw.setupMenus()

	mw.SetOnClosed(mw.onClosed)
	mw.restoreLastFile()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPageCanvas()
	mw.canvas.Machine().SetMinSelectionSize(
		mw.prefs.Float(prefs.KeyMinSelectionSize, selection.DefaultMinSelectionSize))
	mw.canvas.OnZoomChange(mw.onZoomChanged)
	mw.canvas.OnSelectionComplete(mw.onSelectionComplete)
	mw.canvas.OnSelectionCancel(mw.onSelectionCancelled)

	mw.sidePanel = panels.NewSidePanel(mw.state)
	mw.sidePanel.SetWindow(mw.Window)
	mw.sidePanel.Crop().OnClear(func() {
		mw.canvas.ClearSelection()
		mw.updateStatus("Selection cleared")
	})
	mw.sidePanel.Info().OnMinSizeChange(func(px float64) {
		mw.canvas.Machine().SetMinSelectionSize(px)
		mw.prefs.SetFloat(prefs.KeyMinSelectionSize, px)
	})

	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar, // top
		nil,     // bottom
		nil,     // left
		nil,     // right
		mw.canvas.Container(), // center
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1200, 800))
}

// createToolbar creates the toolbar with navigation and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	prevBtn := widget.NewButton("<", mw.onPrevPage)
	nextBtn := widget.NewButton(">", mw.onNextPage)

	mw.pageEntry = widget.NewEntry()
	mw.pageEntry.SetText("1")
	mw.pageEntry.OnSubmitted = func(s string) {
		n, err := strconv.Atoi(s)
		if err != nil {
			mw.pageEntry.SetText(strconv.Itoa(mw.state.PageNumber()))
			return
		}
		mw.showPage(n)
	}
	mw.pageCount = widget.NewLabel("/ 0")

	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onToggleFitToWindow)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)

	mw.selectBtn = widget.NewButton("Select Region", mw.onSelectRegion)

	return container.NewHBox(
		widget.NewLabel("Page:"),
		prevBtn,
		mw.pageEntry,
		mw.pageCount,
		nextBtn,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
		widget.NewSeparator(),
		mw.selectBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open PDF...", mw.onOpenFile),
		fyne.NewMenuItem("Open URL...", mw.onOpenURL),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Close Document", mw.onCloseDocument),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("  Fit to Window", mw.onToggleFitToWindow)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Next Page", mw.onNextPage),
		fyne.NewMenuItem("Previous Page", mw.onPrevPage),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Select Region", mw.onSelectRegion),
		fyne.NewMenuItem("Cancel Selection", func() { mw.canvas.CancelSelection() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, toolsMenu, helpMenu))
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDirectory)
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

// restoreLastFile reopens the document from the previous session.
func (mw *MainWindow) restoreLastFile() {
	path := mw.prefs.String(prefs.KeyLastFile)
	if path == "" {
		return
	}
	if err := mw.openPath(path); err != nil {
		log.WithError(err).WithField("path", path).Warn("restoring last document failed")
		mw.prefs.SetString(prefs.KeyLastFile, "")
	}
}

// OpenPath opens a document from disk and shows its first page. Used for
// documents named on the command line.
func (mw *MainWindow) OpenPath(path string) error {
	if err := mw.openPath(path); err != nil {
		return err
	}
	mw.prefs.SetString(prefs.KeyLastFile, path)
	return nil
}

// openPath opens a document from disk and shows its first page.
func (mw *MainWindow) openPath(path string) error {
	doc, err := pdfdoc.Open(path)
	if err != nil {
		return err
	}
	mw.installDocument(doc, path)
	return nil
}

// installDocument swaps in a freshly opened document.
func (mw *MainWindow) installDocument(doc *pdfdoc.Document, path string) {
	mw.renderer.CancelCurrent()
	mw.state.SetDocument(doc)
	mw.canvas.ClearSelection()
	mw.sidePanel.Crop().Clear()
	mw.sidePanel.Info().SetDocument(path, doc.NumPages())
	mw.pageCount.SetText(fmt.Sprintf("/ %d", doc.NumPages()))

	if path != "" {
		mw.SetTitle("PDF Snip - " + filepath.Base(path))
	} else {
		mw.SetTitle("PDF Snip")
	}

	scale := mw.prefs.Float(prefs.KeyScale, 0)
	if scale > 0 {
		mw.canvas.SetZoom(mw.state.SetScale(scale))
	}
	mw.showPage(1)

	if mw.prefs.Bool(prefs.KeyFitToWindow, false) {
		mw.canvas.SetFitToWindow(true)
		mw.fitToWindowItem.Label = "✓ Fit to Window"
	}
}

// showPage navigates to a page and kicks off its render. Navigation clamps
// to the document range; a page change discards any selection.
func (mw *MainWindow) showPage(n int) {
	doc := mw.state.Document()
	if doc == nil {
		return
	}

	n = mw.state.SetPageNumber(n)
	mw.pageEntry.SetText(strconv.Itoa(n))

	page, err := doc.GetPage(n)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	w, h := page.Size()
	mw.sidePanel.Info().SetPageSize(w, h)

	mw.renderPage(page)
}

// renderPage launches a render for the page at the current scale. A render
// already in flight is cancelled first; only the newest request may land.
func (mw *MainWindow) renderPage(page *pdfdoc.Page) {
	scale := mw.state.Scale()
	mw.updateStatus(fmt.Sprintf("Rendering page %d...", page.Number()))

	task := mw.renderer.Start(func(ctx context.Context) (*image.RGBA, error) {
		return page.Render(ctx, scale)
	})

	go func() {
		img, err := task.Wait()
		if err != nil {
			if pdfdoc.IsCancelled(err) {
				log.WithField("page", page.Number()).Debug("render superseded")
				return
			}
			log.WithError(err).WithField("page", page.Number()).Error("page render failed")
			mw.updateStatus("Render failed: " + err.Error())
			return
		}
		mw.canvas.SetPage(img, page.Number(), scale)
		mw.canvas.Refresh()
		mw.updateStatus(mw.statusText())
	}()
}

// statusText summarizes the current page and zoom for the status bar.
func (mw *MainWindow) statusText() string {
	return fmt.Sprintf("Page %d / %d  -  %.0f%%",
		mw.state.PageNumber(), mw.state.PageCount(), mw.canvas.Zoom()*100)
}

// Menu and toolbar action handlers

func (mw *MainWindow) onOpenFile() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.openPath(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastFile, path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenURL() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("https://example.com/document.pdf")
	items := []*widget.FormItem{widget.NewFormItem("URL", entry)}
	dialog.ShowForm("Open URL", "Open", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		url := entry.Text
		if err := pdfdoc.ValidateURL(url); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Downloading " + url + "...")
		go mw.openURL(url)
	}, mw.Window)
}

// openURL downloads a document and opens it from memory.
func (mw *MainWindow) openURL(url string) {
	client := &http.Client{Timeout: downloadTimeout}
	resp, err := client.Get(url)
	if err != nil {
		mw.showOpenError(err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		mw.showOpenError(fmt.Errorf("download %s: %s", url, resp.Status))
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, pdfdoc.MaxDocumentSize+1))
	if err != nil {
		mw.showOpenError(err)
		return
	}

	doc, err := pdfdoc.OpenBytes(data)
	if err != nil {
		mw.showOpenError(err)
		return
	}
	mw.installDocument(doc, url)
}

func (mw *MainWindow) showOpenError(err error) {
	log.WithError(err).Error("opening document failed")
	mw.updateStatus("Open failed: " + err.Error())
	dialog.ShowError(err, mw.Window)
}

func (mw *MainWindow) onCloseDocument() {
	mw.renderer.CancelCurrent()
	mw.state.Close()
	mw.canvas.SetPage(nil, 1, 1)
	mw.canvas.ClearSelection()
	mw.sidePanel.Crop().Clear()
	mw.sidePanel.Info().SetDocument("", 0)
	mw.pageCount.SetText("/ 0")
	mw.pageEntry.SetText("1")
	mw.SetTitle("PDF Snip")
	mw.updateStatus("Ready")
}

func (mw *MainWindow) onPrevPage() {
	mw.showPage(mw.state.PageNumber() - 1)
}

func (mw *MainWindow) onNextPage() {
	mw.showPage(mw.state.PageNumber() + 1)
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.canvas.SetZoom(1.0)
}

func (mw *MainWindow) onToggleFitToWindow() {
	enabled := !mw.canvas.FitToWindowEnabled()
	mw.canvas.SetFitToWindow(enabled)
	mw.prefs.SetBool(prefs.KeyFitToWindow, enabled)

	if enabled {
		mw.fitToWindowItem.Label = "✓ Fit to Window"
	} else {
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) disableFitToWindow() {
	if mw.canvas.FitToWindowEnabled() {
		mw.canvas.SetFitToWindow(false)
		mw.prefs.SetBool(prefs.KeyFitToWindow, false)
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

// onZoomChanged re-renders the current page at the new scale. Until the
// render lands the canvas resamples the stale raster, so the view responds
// immediately.
func (mw *MainWindow) onZoomChanged(zoom float64) {
	mw.state.SetScale(zoom)
	mw.prefs.SetFloat(prefs.KeyScale, zoom)
	mw.sidePanel.Info().SetZoom(zoom)

	doc := mw.state.Document()
	if doc == nil {
		return
	}
	page, err := doc.GetPage(mw.state.PageNumber())
	if err != nil {
		return
	}
	mw.renderPage(page)
}

func (mw *MainWindow) onSelectRegion() {
	enabled := !mw.canvas.SelectMode()
	mw.canvas.EnableSelectMode(enabled)
	if enabled {
		mw.selectBtn.SetText("Selecting... (right-click to cancel)")
		mw.updateStatus("Drag on the page to select a region")
	} else {
		mw.selectBtn.SetText("Select Region")
		mw.updateStatus(mw.statusText())
	}
}

// onSelectionComplete extracts the selected region's pixels and stores the
// crop. The machine reports bounds in page units; extraction reads the
// raster the engine last produced, so the pixel scale is the rendered scale.
func (mw *MainWindow) onSelectionComplete(sel transform.BoundingBox) {
	mw.selectBtn.SetText("Select Region")

	crop := sel
	crop.Scale = mw.canvas.RenderedScale()
	dataURI := extract.SelectionImage(mw.canvas.Surfaces(), crop)
	if dataURI == "" {
		mw.updateStatus("Selection is outside the page")
		return
	}

	mw.state.SetSelection(sel, dataURI)
	mw.sidePanel.Crop().SetCrop(sel, dataURI)
	mw.sidePanel.ShowSelectionTab()
	mw.updateStatus(fmt.Sprintf("Selected %.0f x %.0f pt on page %d",
		sel.Width, sel.Height, sel.PageNumber))
}

func (mw *MainWindow) onSelectionCancelled() {
	mw.selectBtn.SetText("Select Region")
	mw.state.ClearSelection()
	mw.sidePanel.Crop().Clear()
	mw.updateStatus("Selection cancelled")
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About PDF Snip",
		fmt.Sprintf("PDF Snip v%s\n\n"+
			"A PDF viewer with region selection and extraction.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

func (mw *MainWindow) onClosed() {
	mw.renderer.CancelCurrent()
	mw.state.Close()
	if err := mw.prefs.Save(); err != nil {
		log.WithError(err).Warn("saving preferences failed")
	}
}
