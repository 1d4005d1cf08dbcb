// Package canvas provides the page display widget with pan, zoom, and
// rubber-band selection.
package canvas

import (
	"image"
	"image/draw"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"

	"pdfsnip/internal/extract"
	"pdfsnip/internal/selection"
	"pdfsnip/internal/transform"
	"pdfsnip/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

var log = logrus.WithField("module", "canvas")

// PageCanvas displays one rendered PDF page with pan, zoom, and selection.
// It owns the selection machine for its overlay; mouse events from the
// wrapped content are translated into machine transitions.
type PageCanvas struct {
	widget.BaseWidget

	// Rendered page state
	page          *image.RGBA // last completed engine render
	renderedScale float64     // scale the engine rendered at
	pageNumber    int
	pagePts       geometry.Size // page size in PDF points

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	// Selection
	machine    *selection.Machine
	selectMode bool
	liveRect   *OverlayRect // screen-space rect while dragging

	// Container
	scroll  *zoomScroll
	content *draggableContent
	imgSize fyne.Size

	// Fit to window
	fitToWindow    bool
	lastScrollSize fyne.Size

	// Last composited output, kept as the overlay surface for extraction.
	lastOutput *image.RGBA

	// Callbacks
	onZoomChange        func(zoom float64)
	onSelectionStart    func()
	onSelectionComplete func(transform.BoundingBox)
	onSelectionCancel   func()
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *PageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *PageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	// Use wheel for zoom, not scroll
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

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// draggableContent wraps the raster to handle mouse events.
type draggableContent struct {
	widget.BaseWidget
	canvas *PageCanvas
	raster *fynecanvas.Raster
}

func newDraggableContent(pc *PageCanvas, raster *fynecanvas.Raster) *draggableContent {
	dc := &draggableContent{
		canvas: pc,
		raster: raster,
	}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (dc *draggableContent) CreateRenderer() fyne.WidgetRenderer {
	return &draggableContentRenderer{content: dc}
}

func (dc *draggableContent) MinSize() fyne.Size {
	return dc.raster.MinSize()
}

func (dc *draggableContent) Dragged(ev *fyne.DragEvent) {
	if !dc.canvas.selectMode {
		return
	}

	// ev.Position is relative to viewport, add scroll offset for content position
	scrollOffset := dc.canvas.scroll.Offset()
	pos := geometry.Point2D{
		X: float64(ev.Position.X + scrollOffset.X),
		Y: float64(ev.Position.Y + scrollOffset.Y),
	}

	m := dc.canvas.machine
	if !m.IsSelecting() {
		m.StartSelection(pos)
	}
	m.UpdateSelection(pos)
}

func (dc *draggableContent) DragEnd() {
	if !dc.canvas.selectMode {
		return
	}
	if err := dc.canvas.machine.CompleteSelection(); err != nil {
		log.WithError(err).Error("completing selection failed")
	}
	// A sub-threshold drag leaves the machine in Selecting; the next drag
	// motion keeps extending it, so nothing to do here.
	dc.canvas.Refresh()
}

func (dc *draggableContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		dc.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		dc.canvas.ZoomOut()
	}
}

// TappedSecondary cancels an in-progress or stored selection.
func (dc *draggableContent) TappedSecondary(ev *fyne.PointEvent) {
	dc.canvas.CancelSelection()
}

type draggableContentRenderer struct {
	content *draggableContent
}

func (r *draggableContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *draggableContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *draggableContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *draggableContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *draggableContentRenderer) Destroy() {}

// NewPageCanvas creates an empty page canvas.
func NewPageCanvas() *PageCanvas {
	pc := &PageCanvas{
		zoom:          1.0,
		renderedScale: 1.0,
		pageNumber:    1,
		imgSize:       fyne.NewSize(400, 300),
	}

	pc.machine = selection.NewMachine(pc.Viewport(), pc.pageNumber)
	pc.machine.OnSelectionStart(pc.handleSelectionStart)
	pc.machine.OnSelectionUpdate(pc.handleSelectionUpdate)
	pc.machine.OnSelectionComplete(pc.handleSelectionComplete)
	pc.machine.OnSelectionCancel(pc.handleSelectionCancel)

	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels
	pc.raster.SetMinSize(pc.imgSize)

	pc.content = newDraggableContent(pc, pc.raster)
	pc.scroll = newZoomScroll(pc.content, pc)

	pc.ExtendBaseWidget(pc)
	return pc
}

// Container returns the canvas container for embedding in layouts.
func (pc *PageCanvas) Container() fyne.CanvasObject {
	return pc.scroll
}

// SetPage installs a freshly rendered page raster. The rendered scale is the
// engine scale the raster was produced at; while the zoom differs from it the
// display resamples the stale raster until the next render lands.
func (pc *PageCanvas) SetPage(img *image.RGBA, pageNumber int, renderedScale float64) {
	if renderedScale <= 0 {
		renderedScale = 1
	}
	pc.page = img
	pc.renderedScale = renderedScale
	if img != nil {
		b := img.Bounds()
		pc.pagePts = geometry.NewSize(
			float64(b.Dx())/renderedScale,
			float64(b.Dy())/renderedScale,
		)
	} else {
		pc.pagePts = geometry.Size{}
	}

	if pageNumber != pc.pageNumber {
		pc.pageNumber = pageNumber
		pc.liveRect = nil
		// Navigation reset: no cancel callback fires.
		pc.machine.SetPage(pageNumber)
	}
	pc.machine.SetViewport(pc.Viewport())
	pc.updateContentSize()
}

// PageNumber returns the displayed 1-based page number.
func (pc *PageCanvas) PageNumber() int {
	return pc.pageNumber
}

// Viewport describes the page as currently displayed.
func (pc *PageCanvas) Viewport() transform.Viewport {
	return transform.Viewport{
		Width:     pc.pagePts.Width * pc.zoom,
		Height:    pc.pagePts.Height * pc.zoom,
		Scale:     pc.zoom,
		Transform: [6]float64{pc.zoom, 0, 0, pc.zoom, 0, 0},
	}
}

// Surfaces returns the stacked rendering surfaces for extraction: the
// composited output (which has selection marks baked in) tagged as the
// overlay, and the clean page raster.
func (pc *PageCanvas) Surfaces() []extract.Surface {
	var surfaces []extract.Surface
	if pc.lastOutput != nil {
		surfaces = append(surfaces, extract.Surface{
			Name:    "selection-overlay",
			Overlay: true,
			Image:   pc.lastOutput,
		})
	}
	if pc.page != nil {
		surfaces = append(surfaces, extract.Surface{Name: "page", Image: pc.page})
	}
	return surfaces
}

// RenderedScale returns the scale of the raster backing Surfaces.
func (pc *PageCanvas) RenderedScale() float64 {
	return pc.renderedScale
}

// Machine exposes the selection machine for configuration (minimum size).
func (pc *PageCanvas) Machine() *selection.Machine {
	return pc.machine
}

// EnableSelectMode makes the next drag draw a selection instead of panning.
func (pc *PageCanvas) EnableSelectMode(enabled bool) {
	pc.selectMode = enabled
	if !enabled && pc.machine.IsSelecting() {
		pc.machine.CancelSelection()
	}
}

// SelectMode reports whether drags currently draw selections.
func (pc *PageCanvas) SelectMode() bool {
	return pc.selectMode
}

// CancelSelection aborts any gesture and clears the stored selection.
func (pc *PageCanvas) CancelSelection() {
	pc.machine.CancelSelection()
}

// ClearSelection drops a completed selection without the cancel callback.
func (pc *PageCanvas) ClearSelection() {
	pc.machine.ClearSelection()
	pc.liveRect = nil
	pc.Refresh()
}

// SetZoom sets the zoom level.
func (pc *PageCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	pc.zoom = zoom
	pc.machine.SetViewport(pc.Viewport())
	pc.updateContentSize()

	if pc.onZoomChange != nil {
		pc.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (pc *PageCanvas) Zoom() float64 {
	return pc.zoom
}

// ZoomIn increases the zoom level.
func (pc *PageCanvas) ZoomIn() {
	pc.SetZoom(pc.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (pc *PageCanvas) ZoomOut() {
	pc.SetZoom(pc.zoom / zoomStep)
}

// FitToWindow adjusts zoom to fit the page in the visible area.
func (pc *PageCanvas) FitToWindow() {
	if pc.pagePts.Width <= 0 || pc.pagePts.Height <= 0 {
		return
	}
	viewSize := pc.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / pc.pagePts.Width
	zoomY := float64(viewSize.Height) / pc.pagePts.Height
	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	pc.SetZoom(zoom * 0.95) // Leave a small margin
}

// SetFitToWindow enables or disables auto-fit on resize.
func (pc *PageCanvas) SetFitToWindow(fit bool) {
	pc.fitToWindow = fit
	if fit {
		pc.FitToWindow()
	}
}

// FitToWindowEnabled returns the current fit-to-window state.
func (pc *PageCanvas) FitToWindowEnabled() bool {
	return pc.fitToWindow
}

// CheckResize checks if the scroll container was resized and auto-fits if enabled.
func (pc *PageCanvas) CheckResize(size fyne.Size) {
	if !pc.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != pc.lastScrollSize {
		pc.lastScrollSize = size
		pc.FitToWindow()
	}
}

// OnZoomChange sets a callback for zoom changes.
func (pc *PageCanvas) OnZoomChange(callback func(zoom float64)) {
	pc.onZoomChange = callback
}

// OnSelectionStart sets a callback fired at drag start.
func (pc *PageCanvas) OnSelectionStart(callback func()) {
	pc.onSelectionStart = callback
}

// OnSelectionComplete sets a callback fired with the completed selection in
// page units.
func (pc *PageCanvas) OnSelectionComplete(callback func(transform.BoundingBox)) {
	pc.onSelectionComplete = callback
}

// OnSelectionCancel sets a callback fired on explicit cancellation.
func (pc *PageCanvas) OnSelectionCancel(callback func()) {
	pc.onSelectionCancel = callback
}

// Refresh refreshes the canvas display.
func (pc *PageCanvas) Refresh() {
	pc.raster.Refresh()
}

func (pc *PageCanvas) handleSelectionStart() {
	if pc.onSelectionStart != nil {
		pc.onSelectionStart()
	}
}

func (pc *PageCanvas) handleSelectionUpdate(u selection.Update) {
	x1, y1 := u.StartX, u.StartY
	x2, y2 := u.CurrentX, u.CurrentY
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	pc.liveRect = &OverlayRect{
		X:      int(x1),
		Y:      int(y1),
		Width:  int(x2 - x1),
		Height: int(y2 - y1),
	}
	pc.Refresh()
}

func (pc *PageCanvas) handleSelectionComplete(bounds transform.BoundingBox) {
	pc.liveRect = nil
	pc.selectMode = false // Auto-disable after selection
	if pc.onSelectionComplete != nil {
		pc.onSelectionComplete(bounds)
	}
	pc.Refresh()
}

func (pc *PageCanvas) handleSelectionCancel() {
	pc.liveRect = nil
	if pc.onSelectionCancel != nil {
		pc.onSelectionCancel()
	}
	pc.Refresh()
}

// updateContentSize updates the content size based on the page and zoom.
func (pc *PageCanvas) updateContentSize() {
	if pc.pagePts.Width <= 0 || pc.pagePts.Height <= 0 {
		pc.imgSize = fyne.NewSize(400, 300)
	} else {
		pc.imgSize = fyne.NewSize(
			float32(pc.pagePts.Width*pc.zoom),
			float32(pc.pagePts.Height*pc.zoom),
		)
	}

	pc.raster.SetMinSize(pc.imgSize)
	pc.raster.Resize(pc.imgSize)
	if pc.content != nil {
		pc.content.Resize(pc.imgSize)
		pc.content.Refresh()
	}
	pc.raster.Refresh()
	if pc.scroll != nil {
		pc.scroll.Refresh()
	}
}

// draw is the raster drawing function.
func (pc *PageCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	fillBackground(output)

	if pc.page != nil {
		factor := pc.zoom / pc.renderedScale
		src := pc.page
		if nearlyOne(factor) {
			draw.Draw(output, src.Bounds().Sub(src.Bounds().Min), src, src.Bounds().Min, draw.Src)
		} else {
			// Resample the stale raster until the re-render at the new
			// scale arrives.
			dstW := int(float64(src.Bounds().Dx()) * factor)
			dstH := int(float64(src.Bounds().Dy()) * factor)
			if dstW > 0 && dstH > 0 {
				xdraw.ApproxBiLinear.Scale(output, image.Rect(0, 0, dstW, dstH), src, src.Bounds(), xdraw.Src, nil)
			}
		}
	}

	// The composited output doubles as the overlay surface in Surfaces;
	// selection marks get drawn into it below.
	pc.lastOutput = output

	// Persisted selection, reprojected into the current display space.
	if bounds, ok := pc.machine.Bounds(); ok {
		if rect := pc.displayRect(bounds); rect != nil {
			drawStoredSelection(output, rect)
		}
	}

	// Live rubber-band while dragging.
	if pc.machine.IsSelecting() && pc.liveRect != nil {
		drawSelectionRect(output, pc.liveRect)
	}

	return output
}

// displayRect converts a selection in page units to a screen-space rect at
// the current zoom.
func (pc *PageCanvas) displayRect(bounds transform.BoundingBox) *OverlayRect {
	v := pc.Viewport()
	topLeft, err := transform.PDFToScreen(transform.PDFCoordinates{X: bounds.X, Y: bounds.Y}, v)
	if err != nil {
		return nil
	}
	bottomRight, err := transform.PDFToScreen(
		transform.PDFCoordinates{X: bounds.X + bounds.Width, Y: bounds.Y + bounds.Height}, v)
	if err != nil {
		return nil
	}
	return &OverlayRect{
		X:      int(topLeft.X),
		Y:      int(topLeft.Y),
		Width:  int(bottomRight.X - topLeft.X),
		Height: int(bottomRight.Y - topLeft.Y),
	}
}

func nearlyOne(f float64) bool {
	return f > 0.999 && f < 1.001
}

// CreateRenderer implements fyne.Widget.
func (pc *PageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &pageCanvasRenderer{canvas: pc}
}

type pageCanvasRenderer struct {
	canvas *PageCanvas
}

func (r *pageCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	} else if r.canvas.content != nil {
		r.canvas.content.Resize(size)
	}
	r.canvas.CheckResize(size)
}

func (r *pageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *pageCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *pageCanvasRenderer) Objects() []fyne.CanvasObject {
	if r.canvas.scroll != nil {
		return []fyne.CanvasObject{r.canvas.scroll}
	}
	return []fyne.CanvasObject{r.canvas.content}
}

func (r *pageCanvasRenderer) Destroy() {
	// Guaranteed teardown: a widget destroyed mid-drag must not leave the
	// machine holding a gesture.
	if r.canvas.machine.IsSelecting() {
		r.canvas.machine.CancelSelection()
	}
}
