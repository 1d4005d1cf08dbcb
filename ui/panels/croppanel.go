// Package panels provides UI panels for the application.
package panels

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"pdfsnip/internal/app"
	"pdfsnip/internal/ocr"
	"pdfsnip/internal/transform"
)

var log = logrus.WithField("module", "panels")

const dataURIPrefix = "data:image/png;base64,"

// CropPanel shows the most recent selection crop with save and OCR actions.
type CropPanel struct {
	state  *app.State
	window fyne.Window

	crop image.Image

	preview   *fynecanvas.Image
	infoLabel *widget.Label
	textEntry *widget.Entry
	saveBtn   *widget.Button
	ocrBtn    *widget.Button
	clearBtn  *widget.Button

	container fyne.CanvasObject

	onClear func()
}

// NewCropPanel creates the crop panel. The panel starts empty; SetCrop
// populates it after each completed selection.
func NewCropPanel(state *app.State) *CropPanel {
	cp := &CropPanel{state: state}

	cp.preview = fynecanvas.NewImageFromImage(nil)
	cp.preview.FillMode = fynecanvas.ImageFillContain
	cp.preview.SetMinSize(fyne.NewSize(200, 150))

	cp.infoLabel = widget.NewLabel("No selection")
	cp.infoLabel.Wrapping = fyne.TextWrapWord

	cp.textEntry = widget.NewMultiLineEntry()
	cp.textEntry.SetPlaceHolder("Recognized text appears here")
	cp.textEntry.Wrapping = fyne.TextWrapWord

	cp.saveBtn = widget.NewButton("Save PNG...", cp.onSave)
	cp.ocrBtn = widget.NewButton("Recognize Text", cp.onOCR)
	cp.clearBtn = widget.NewButton("Clear", cp.handleClear)
	cp.setHasCrop(false)

	buttons := container.NewHBox(cp.saveBtn, cp.ocrBtn, cp.clearBtn)
	cp.container = container.NewBorder(
		container.NewVBox(cp.infoLabel, cp.preview, buttons), // top
		nil, nil, nil,
		cp.textEntry, // center
	)

	return cp
}

// Container returns the panel container.
func (cp *CropPanel) Container() fyne.CanvasObject {
	return cp.container
}

// SetWindow sets the parent window for dialogs.
func (cp *CropPanel) SetWindow(w fyne.Window) {
	cp.window = w
}

// OnClear sets a callback fired when the user clears the selection.
func (cp *CropPanel) OnClear(callback func()) {
	cp.onClear = callback
}

// SetCrop installs the crop for a completed selection. The crop arrives as a
// PNG data URI, the artefact the extractor produces; an empty URI clears the
// panel.
func (cp *CropPanel) SetCrop(sel transform.BoundingBox, dataURI string) {
	if dataURI == "" {
		cp.Clear()
		return
	}

	img, err := decodeDataURI(dataURI)
	if err != nil {
		log.WithError(err).Warn("decoding crop data URI failed")
		cp.Clear()
		return
	}

	cp.crop = img
	cp.preview.Image = img
	cp.preview.Refresh()
	cp.infoLabel.SetText(fmt.Sprintf(
		"Page %d: %.0f x %.0f pt at (%.0f, %.0f)",
		sel.PageNumber, sel.Width, sel.Height, sel.X, sel.Y))
	cp.textEntry.SetText("")
	cp.setHasCrop(true)
}

// Clear empties the panel.
func (cp *CropPanel) Clear() {
	cp.crop = nil
	cp.preview.Image = nil
	cp.preview.Refresh()
	cp.infoLabel.SetText("No selection")
	cp.textEntry.SetText("")
	cp.setHasCrop(false)
}

func (cp *CropPanel) setHasCrop(has bool) {
	if has {
		cp.saveBtn.Enable()
		cp.ocrBtn.Enable()
		cp.clearBtn.Enable()
	} else {
		cp.saveBtn.Disable()
		cp.ocrBtn.Disable()
		cp.clearBtn.Disable()
	}
}

func (cp *CropPanel) handleClear() {
	cp.Clear()
	cp.state.ClearSelection()
	if cp.onClear != nil {
		cp.onClear()
	}
}

func (cp *CropPanel) onSave() {
	if cp.crop == nil || cp.window == nil {
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) == "" {
			path += ".png"
		}
		if err := imaging.Save(cp.crop, path); err != nil {
			dialog.ShowError(err, cp.window)
			return
		}
		log.WithField("path", path).Info("crop saved")
	}, cp.window)
	fd.SetFileName("selection.png")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	fd.Show()
}

func (cp *CropPanel) onOCR() {
	if cp.crop == nil {
		return
	}

	engine, err := ocr.New()
	if err != nil {
		cp.textEntry.SetText(err.Error())
		return
	}
	defer engine.Close()

	text, err := engine.RecognizeImage(cp.crop)
	if err != nil {
		log.WithError(err).Warn("text recognition failed")
		cp.textEntry.SetText("Recognition failed: " + err.Error())
		return
	}
	if text == "" {
		text = "(no text found)"
	}
	cp.textEntry.SetText(text)
}

// decodeDataURI decodes a base64 PNG data URI back into an image.
func decodeDataURI(uri string) (image.Image, error) {
	payload, ok := strings.CutPrefix(uri, dataURIPrefix)
	if !ok {
		return nil, fmt.Errorf("unexpected data URI prefix")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URI: %w", err)
	}
	return imaging.Decode(bytes.NewReader(raw))
}
