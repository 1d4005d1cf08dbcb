// Package pdfdoc wraps the MuPDF engine (via go-fitz) behind the small
// document/page surface the viewer needs: open, page lookup, viewport
// geometry, and cancellable rasterization.
package pdfdoc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gen2brain/go-fitz"

	"pdfsnip/internal/transform"
)

// Engine page bounds are reported in PDF points at 72 DPI; scale 1.0 means
// one screen pixel per point.
const baseDPI = 72.0

var (
	// ErrInvalidPageNumber reports a page outside [1, NumPages].
	ErrInvalidPageNumber = errors.New("pdfdoc: page number out of range")

	// ErrDocumentClosed reports use of a document after Close.
	ErrDocumentClosed = errors.New("pdfdoc: document is closed")
)

// Document is an open PDF document. The underlying engine handle is not
// safe for concurrent use, so all rasterization is serialized internally.
type Document struct {
	mu       sync.Mutex
	fz       *fitz.Document
	path     string
	numPages int
	closed   bool
}

// Open validates and opens a PDF file from disk.
func Open(path string) (*Document, error) {
	if err := ValidateFile(path); err != nil {
		return nil, err
	}
	fz, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Document{fz: fz, path: path, numPages: fz.NumPage()}, nil
}

// OpenBytes opens a PDF document from an in-memory buffer.
func OpenBytes(data []byte) (*Document, error) {
	if err := ValidateBytes(data); err != nil {
		return nil, err
	}
	fz, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open document from memory: %w", err)
	}
	return &Document{fz: fz, numPages: fz.NumPage()}, nil
}

// Path returns the file path the document was opened from, if any.
func (d *Document) Path() string {
	return d.path
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	return d.numPages
}

// GetPage returns the 1-based page n.
func (d *Document) GetPage(n int) (*Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrDocumentClosed
	}
	if n < 1 || n > d.numPages {
		return nil, fmt.Errorf("%w: page %d of %d", ErrInvalidPageNumber, n, d.numPages)
	}
	bound, err := d.fz.Bound(n - 1)
	if err != nil {
		return nil, fmt.Errorf("page %d bounds: %w", n, err)
	}
	return &Page{
		doc:       d,
		number:    n,
		widthPts:  float64(bound.Dx()),
		heightPts: float64(bound.Dy()),
	}, nil
}

// Close releases the engine's native resources. Safe to call more than
// once; only the first call disposes.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.fz.Close()
}

// Page is a single page of an open document.
type Page struct {
	doc       *Document
	number    int
	widthPts  float64
	heightPts float64
}

// Number returns the 1-based page number.
func (p *Page) Number() int {
	return p.number
}

// Size returns the page dimensions in PDF points.
func (p *Page) Size() (width, height float64) {
	return p.widthPts, p.heightPts
}

// Viewport returns the page geometry as rendered at the given scale.
func (p *Page) Viewport(scale float64) (transform.Viewport, error) {
	return ViewportFor(p.widthPts, p.heightPts, scale)
}

// ViewportFor builds the viewport for a page of the given point size at a
// render scale. Rejects non-positive scales.
func ViewportFor(widthPts, heightPts, scale float64) (transform.Viewport, error) {
	if scale <= 0 {
		return transform.Viewport{}, transform.ErrInvalidScale
	}
	return transform.Viewport{
		Width:     widthPts * scale,
		Height:    heightPts * scale,
		Scale:     scale,
		Transform: [6]float64{scale, 0, 0, scale, 0, 0},
	}, nil
}
