// Package app provides application lifecycle state for the viewer.
package app

import (
	"sync"

	"github.com/sirupsen/logrus"

	"pdfsnip/internal/pdfdoc"
	"pdfsnip/internal/transform"
)

const (
	// MinScale and MaxScale bound the zoom range.
	MinScale = 0.1
	MaxScale = 10.0
	// DefaultScale is the zoom applied to a freshly opened document.
	DefaultScale = 1.0
)

var log = logrus.WithField("module", "app")

// State holds the viewer state: the open document, the active page, the
// zoom scale, and the last completed selection. All access is serialized;
// UI code reads it from the event loop, renders may finish on other
// goroutines.
type State struct {
	mu sync.RWMutex

	doc        *pdfdoc.Document
	pageNumber int
	scale      float64

	selection *transform.BoundingBox
	lastCrop  string // data URI of the most recent extraction
}

// NewState creates an empty viewer state.
func NewState() *State {
	return &State{pageNumber: 1, scale: DefaultScale}
}

// SetDocument replaces the open document, disposing the previous one. The
// page resets to 1, the zoom to the default, and any selection is dropped:
// none of them are meaningful across documents.
func (s *State) SetDocument(doc *pdfdoc.Document) {
	s.mu.Lock()
	old := s.doc
	s.doc = doc
	s.pageNumber = 1
	s.scale = DefaultScale
	s.selection = nil
	s.lastCrop = ""
	s.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			log.WithError(err).Warn("disposing previous document failed")
		}
	}
}

// Document returns the open document, or nil.
func (s *State) Document() *pdfdoc.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// PageCount returns the number of pages in the open document, 0 when none.
func (s *State) PageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return 0
	}
	return s.doc.NumPages()
}

// PageNumber returns the active 1-based page number.
func (s *State) PageNumber() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageNumber
}

// SetPageNumber navigates to a page, clamped to the document range. A page
// change drops the selection: a rectangle drawn on one page is never valid
// on another. Returns the page actually selected.
func (s *State) SetPageNumber(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := 1
	if s.doc != nil {
		last = s.doc.NumPages()
	}
	if n < 1 {
		n = 1
	}
	if n > last {
		n = last
	}
	if n != s.pageNumber {
		s.selection = nil
		s.lastCrop = ""
	}
	s.pageNumber = n
	return n
}

// Scale returns the current zoom scale.
func (s *State) Scale() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scale
}

// SetScale sets the zoom scale, clamped to [MinScale, MaxScale]. Returns
// the scale actually applied. The selection is kept: it lives in page units
// and survives zoom changes.
func (s *State) SetScale(scale float64) float64 {
	if scale < MinScale {
		scale = MinScale
	}
	if scale > MaxScale {
		scale = MaxScale
	}
	s.mu.Lock()
	s.scale = scale
	s.mu.Unlock()
	return scale
}

// SetSelection stores a completed selection and its extracted crop.
func (s *State) SetSelection(sel transform.BoundingBox, cropURI string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = &sel
	s.lastCrop = cropURI
}

// Selection returns the last completed selection, if any.
func (s *State) Selection() (transform.BoundingBox, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selection == nil {
		return transform.BoundingBox{}, false
	}
	return *s.selection, true
}

// LastCrop returns the data URI of the most recent extraction, or "".
func (s *State) LastCrop() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCrop
}

// ClearSelection drops the stored selection and crop.
func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
	s.lastCrop = ""
}

// Close disposes the open document.
func (s *State) Close() {
	s.SetDocument(nil)
}
