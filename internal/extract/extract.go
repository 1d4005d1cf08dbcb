// Package extract copies the pixel region under a completed selection out of
// the rendered page and encodes it as a standalone image.
//
// Extraction failure is a routine runtime condition (the user dragged off the
// page, the render surface is gone), so nothing here returns an error to the
// gesture path: functions degrade to nil and log a diagnostic instead.
package extract

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"pdfsnip/internal/transform"
)

var log = logrus.WithField("module", "extract")

// FromImage maps a selection in page units onto the source image's pixel grid
// and copies the covered region into a new image.
//
// The selection is scaled up by the given factor, then clamped against the
// source bounds. The result is sized to the unclamped selection, with the
// clamped pixels pasted at the origin; a selection hanging past the page edge
// therefore keeps its requested size and pads the off-page part with
// transparency. Returns nil when the selection lies entirely outside the
// source, or when anything goes wrong during the copy.
func FromImage(src image.Image, sel transform.BoundingBox, scale float64) (result *image.NRGBA) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Warn("selection extraction panicked")
			result = nil
		}
	}()

	if src == nil {
		log.Warn("selection extraction without a source image")
		return nil
	}
	sel = transform.NormalizeSelection(sel)

	scaledX := sel.X * scale
	scaledY := sel.Y * scale
	scaledW := math.Abs(sel.Width * scale)
	scaledH := math.Abs(sel.Height * scale)

	bounds := src.Bounds()
	srcW := float64(bounds.Dx())
	srcH := float64(bounds.Dy())

	// Intersect the scaled selection with the source extent.
	clampedX := math.Max(0, math.Min(scaledX, srcW))
	clampedY := math.Max(0, math.Min(scaledY, srcH))
	clampedW := math.Min(scaledX+scaledW, srcW) - clampedX
	clampedH := math.Min(scaledY+scaledH, srcH) - clampedY

	if clampedW <= 0 || clampedH <= 0 {
		log.WithFields(logrus.Fields{
			"page":  sel.PageNumber,
			"x":     scaledX,
			"y":     scaledY,
			"scale": scale,
		}).Debug("selection lies outside the rendered page")
		return nil
	}

	dstW := int(math.Round(scaledW))
	dstH := int(math.Round(scaledH))
	if dstW <= 0 || dstH <= 0 {
		return nil
	}

	cropRect := image.Rect(
		bounds.Min.X+int(math.Round(clampedX)),
		bounds.Min.Y+int(math.Round(clampedY)),
		bounds.Min.X+int(math.Round(clampedX+clampedW)),
		bounds.Min.Y+int(math.Round(clampedY+clampedH)),
	)

	cropped := imaging.Crop(src, cropRect)
	dst := imaging.New(dstW, dstH, color.NRGBA{})
	return imaging.Paste(dst, cropped, image.Pt(0, 0))
}

// DataURI encodes an image as a lossless PNG data URI.
func DataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode selection image: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Surface is a rendering surface handed from the page-rendering layer. The
// selection overlay is stacked above the page raster; extraction must target
// the page, never the overlay, so each surface declares which it is.
type Surface struct {
	Name    string
	Overlay bool
	Image   image.Image
}

// FindPageSurface returns the surface to extract pixels from: the first
// surface not tagged as the selection overlay, falling back to the very
// first surface when every one is tagged, and nil when there are none.
func FindPageSurface(surfaces []Surface) *Surface {
	for i := range surfaces {
		if !surfaces[i].Overlay {
			return &surfaces[i]
		}
	}
	if len(surfaces) > 0 {
		return &surfaces[0]
	}
	return nil
}

// SelectionImage composes surface discovery and pixel extraction, encoding
// the crop as a PNG data URI. The selection's captured scale is used as the
// pixel scale factor. Returns "" when no surface exists, the selection is
// off-page, or encoding fails.
func SelectionImage(surfaces []Surface, sel transform.BoundingBox) string {
	surface := FindPageSurface(surfaces)
	if surface == nil {
		log.Debug("no render surface available for extraction")
		return ""
	}
	img := FromImage(surface.Image, sel, sel.Scale)
	if img == nil {
		return ""
	}
	uri, err := DataURI(img)
	if err != nil {
		log.WithError(err).Warn("selection image encoding failed")
		return ""
	}
	return uri
}
