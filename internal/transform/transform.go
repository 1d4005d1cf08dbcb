// Package transform provides the coordinate mapping between screen pixels
// and unscaled page units for a rendered PDF page.
//
// Screen coordinates are pixel positions inside the rendering container at
// the current zoom. PDF coordinates are page units independent of zoom; a
// selection stored in PDF coordinates stays valid when the zoom changes.
// All functions here are pure: they never mutate their arguments and hold
// no state.
package transform

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"pdfsnip/pkg/geometry"
)

var (
	// ErrInvalidScale reports a viewport whose scale is zero or negative.
	// This always indicates a viewport construction bug upstream.
	ErrInvalidScale = errors.New("transform: viewport scale must be positive")

	// ErrSingularTransform reports an affine matrix with no inverse.
	ErrSingularTransform = errors.New("transform: matrix is not invertible")
)

// Viewport describes the geometry of a page as currently rendered: pixel
// dimensions at the current zoom, the zoom scale factor, the engine's page
// transform in [a b c d tx ty] form, and the pixel offset of the rendered
// page within its container. A Viewport is a plain value recreated on every
// page or scale change; it is never mutated by this package.
type Viewport struct {
	Width     float64
	Height    float64
	Scale     float64
	Transform [6]float64
	OffsetX   float64
	OffsetY   float64
}

// PDFCoordinates is a position in unscaled page units.
type PDFCoordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is a rectangle in page units tagged with the page it was
// captured on and the scale at which it was captured. Width and Height may
// be negative until the box has been normalized.
type BoundingBox struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	PageNumber int     `json:"pageNumber"`
	Scale      float64 `json:"scale"`

	// Normalized marks a box whose X,Y refer to the top-left corner and
	// whose Width/Height are non-negative regardless of drag direction.
	Normalized bool `json:"normalized"`
}

// ScreenToPDF converts a screen-space point to page units.
// Returns ErrInvalidScale when the viewport scale is zero or negative,
// which guards both divide-by-zero and sign inversion.
func ScreenToPDF(p geometry.Point2D, v Viewport) (PDFCoordinates, error) {
	if v.Scale <= 0 {
		return PDFCoordinates{}, ErrInvalidScale
	}
	return PDFCoordinates{
		X: (p.X - v.OffsetX) / v.Scale,
		Y: (p.Y - v.OffsetY) / v.Scale,
	}, nil
}

// PDFToScreen converts page units back to a screen-space point. It is the
// exact algebraic inverse of ScreenToPDF: for every viewport with a positive
// scale, PDFToScreen(ScreenToPDF(p)) == p within floating-point tolerance.
func PDFToScreen(c PDFCoordinates, v Viewport) (geometry.Point2D, error) {
	if v.Scale <= 0 {
		return geometry.Point2D{}, ErrInvalidScale
	}
	return geometry.Point2D{
		X: c.X*v.Scale + v.OffsetX,
		Y: c.Y*v.Scale + v.OffsetY,
	}, nil
}

// NormalizeSelection anchors a bounding box at its top-left corner, flipping
// negative spans produced by right-to-left or bottom-to-top drags. The
// operation is idempotent: normalizing a normalized box is a no-op.
func NormalizeSelection(box BoundingBox) BoundingBox {
	if box.Width < 0 {
		box.X += box.Width
		box.Width = -box.Width
	}
	if box.Height < 0 {
		box.Y += box.Height
		box.Height = -box.Height
	}
	box.Normalized = true
	return box
}

// TransformBounds reprojects a bounding box captured at one scale onto a new
// scale, preserving the page number. Used when a stored selection must stay
// aligned after a zoom change.
func TransformBounds(box BoundingBox, newScale float64) (BoundingBox, error) {
	if box.Scale <= 0 || newScale <= 0 {
		return BoundingBox{}, ErrInvalidScale
	}
	factor := newScale / box.Scale
	box.X *= factor
	box.Y *= factor
	box.Width *= factor
	box.Height *= factor
	box.Scale = newScale
	return box, nil
}

// CreateTransformMatrix returns the viewport's screen mapping as a 6-element
// affine matrix [scale 0 0 scale offsetX offsetY]. Pages in this system are
// uniformly scaled and translated, never rotated or skewed.
func CreateTransformMatrix(v Viewport) [6]float64 {
	return [6]float64{v.Scale, 0, 0, v.Scale, v.OffsetX, v.OffsetY}
}

// ApplyTransform applies a 6-element affine matrix to a point:
// x' = a*x + c*y + tx, y' = b*x + d*y + ty.
func ApplyTransform(p geometry.Point2D, m [6]float64) geometry.Point2D {
	return geometry.FromSlice(m).Apply(p)
}

// InvertTransform returns the inverse of a 6-element affine matrix. Unlike
// the scale/offset fast path in ScreenToPDF this handles arbitrary affine
// matrices, which the engine reports for rotated pages.
func InvertTransform(m [6]float64) ([6]float64, error) {
	src := mat.NewDense(3, 3, []float64{
		m[0], m[2], m[4],
		m[1], m[3], m[5],
		0, 0, 1,
	})
	var inv mat.Dense
	if err := inv.Inverse(src); err != nil {
		return [6]float64{}, ErrSingularTransform
	}
	return [6]float64{
		inv.At(0, 0), inv.At(1, 0),
		inv.At(0, 1), inv.At(1, 1),
		inv.At(0, 2), inv.At(1, 2),
	}, nil
}

// GetSelectionBounds converts a drag gesture, given as its screen-space start
// and end points, into a normalized bounding box in page units. This is the
// single entry point that turns a gesture into a persisted selection.
func GetSelectionBounds(start, end geometry.Point2D, v Viewport, pageNumber int) (BoundingBox, error) {
	s, err := ScreenToPDF(start, v)
	if err != nil {
		return BoundingBox{}, err
	}
	e, err := ScreenToPDF(end, v)
	if err != nil {
		return BoundingBox{}, err
	}
	box := BoundingBox{
		X:          s.X,
		Y:          s.Y,
		Width:      e.X - s.X,
		Height:     e.Y - s.Y,
		PageNumber: pageNumber,
		Scale:      v.Scale,
	}
	return NormalizeSelection(box), nil
}

// IsPointInViewport reports whether a screen-space point lies within the
// rendered page area.
func IsPointInViewport(p geometry.Point2D, v Viewport) bool {
	return p.X >= 0 && p.X <= v.Width && p.Y >= 0 && p.Y <= v.Height
}

// ClampToViewport confines a bounding box to the page area, shrinking it if
// it is larger than the page. Callers run it before pixel extraction.
func ClampToViewport(box BoundingBox, v Viewport) BoundingBox {
	maxW, maxH := v.Width, v.Height
	if v.Scale > 0 {
		// Viewport dimensions are screen pixels; the box is in page units.
		maxW /= v.Scale
		maxH /= v.Scale
	}
	box.Width = math.Min(box.Width, maxW)
	box.Height = math.Min(box.Height, maxH)
	box.X = clamp(box.X, 0, maxW-box.Width)
	box.Y = clamp(box.Y, 0, maxH-box.Height)
	return box
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
