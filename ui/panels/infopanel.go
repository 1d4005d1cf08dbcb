package panels

import (
	"fmt"
	"path/filepath"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pdfsnip/internal/app"
	"pdfsnip/internal/selection"
)

// InfoPanel shows the open document's properties and selection settings.
type InfoPanel struct {
	state *app.State

	fileLabel  *widget.Label
	pagesLabel *widget.Label
	sizeLabel  *widget.Label
	zoomLabel  *widget.Label
	minSize    *widget.Entry

	container fyne.CanvasObject

	onMinSizeChange func(px float64)
}

// NewInfoPanel creates the document info panel.
func NewInfoPanel(state *app.State) *InfoPanel {
	ip := &InfoPanel{state: state}

	ip.fileLabel = widget.NewLabel("No document")
	ip.fileLabel.Wrapping = fyne.TextWrapWord
	ip.pagesLabel = widget.NewLabel("-")
	ip.sizeLabel = widget.NewLabel("-")
	ip.zoomLabel = widget.NewLabel("100%")

	ip.minSize = widget.NewEntry()
	ip.minSize.SetText(strconv.FormatFloat(selection.DefaultMinSelectionSize, 'f', 0, 64))
	ip.minSize.OnSubmitted = func(s string) {
		px, err := strconv.ParseFloat(s, 64)
		if err != nil || px < 0 {
			ip.minSize.SetText(strconv.FormatFloat(selection.DefaultMinSelectionSize, 'f', 0, 64))
			return
		}
		if ip.onMinSizeChange != nil {
			ip.onMinSizeChange(px)
		}
	}

	form := widget.NewForm(
		widget.NewFormItem("File", ip.fileLabel),
		widget.NewFormItem("Pages", ip.pagesLabel),
		widget.NewFormItem("Page size", ip.sizeLabel),
		widget.NewFormItem("Zoom", ip.zoomLabel),
		widget.NewFormItem("Min selection (px)", ip.minSize),
	)

	ip.container = container.NewVBox(form)
	return ip
}

// Container returns the panel container.
func (ip *InfoPanel) Container() fyne.CanvasObject {
	return ip.container
}

// OnMinSizeChange sets a callback fired when the minimum selection size
// setting is changed.
func (ip *InfoPanel) OnMinSizeChange(callback func(px float64)) {
	ip.onMinSizeChange = callback
}

// SetDocument updates the file and page count rows.
func (ip *InfoPanel) SetDocument(path string, pages int) {
	if path == "" {
		ip.fileLabel.SetText("No document")
		ip.pagesLabel.SetText("-")
		ip.sizeLabel.SetText("-")
		return
	}
	ip.fileLabel.SetText(filepath.Base(path))
	ip.pagesLabel.SetText(strconv.Itoa(pages))
}

// SetPageSize updates the page size row, given dimensions in points.
func (ip *InfoPanel) SetPageSize(widthPts, heightPts float64) {
	ip.sizeLabel.SetText(fmt.Sprintf("%.0f x %.0f pt", widthPts, heightPts))
}

// SetZoom updates the zoom row.
func (ip *InfoPanel) SetZoom(zoom float64) {
	ip.zoomLabel.SetText(fmt.Sprintf("%.0f%%", zoom*100))
}
