// Package selection tracks the lifecycle of a rubber-band selection gesture.
//
// A Machine owns the state of exactly one drag at a time: it starts Idle,
// enters Selecting on the first drag point, and returns to Idle when the
// gesture completes or is cancelled. Mouse and touch events arrive in
// whatever order the windowing system delivers them, so every transition
// whose precondition does not hold is silently ignored rather than treated
// as an error.
package selection

import (
	"math"

	"pdfsnip/internal/transform"
	"pdfsnip/pkg/geometry"
)

// DefaultMinSelectionSize is the smallest drag span, in screen pixels, that
// counts as a deliberate selection. Anything below it is treated as an
// accidental click.
const DefaultMinSelectionSize = 5.0

// State identifies where the machine is in the gesture lifecycle.
type State int

const (
	// Idle means no drag is in progress. Initial and terminal state.
	Idle State = iota
	// Selecting means a drag has started and not yet completed or cancelled.
	Selecting
)

// Update describes the live selection while a drag is in progress. The
// rectangle is raw screen-space deltas: Width/Height keep the drag sign and
// are not normalized until completion.
type Update struct {
	StartX    float64
	StartY    float64
	CurrentX  float64
	CurrentY  float64
	Width     float64
	Height    float64
	PDFCoords transform.PDFCoordinates
}

// Machine is the selection state machine for a single overlay. It is not
// safe for concurrent use; all calls must come from the UI event loop, which
// also guarantees at most one active gesture per overlay.
type Machine struct {
	state      State
	startPoint *geometry.Point2D
	endPoint   *geometry.Point2D
	bounds     *transform.BoundingBox

	viewport   transform.Viewport
	pageNumber int

	minSelectionSize float64

	onStart    func()
	onUpdate   func(Update)
	onComplete func(transform.BoundingBox)
	onCancel   func()
}

// NewMachine creates an idle selection machine for the given page.
func NewMachine(viewport transform.Viewport, pageNumber int) *Machine {
	return &Machine{
		viewport:         viewport,
		pageNumber:       pageNumber,
		minSelectionSize: DefaultMinSelectionSize,
	}
}

// SetMinSelectionSize overrides the minimum drag span in screen pixels.
// Non-positive values disable the gate.
func (m *Machine) SetMinSelectionSize(px float64) {
	m.minSelectionSize = px
}

// SetViewport replaces the viewport used for coordinate conversion. Called
// whenever the rendered page is re-laid-out, typically on zoom changes.
func (m *Machine) SetViewport(v transform.Viewport) {
	m.viewport = v
}

// SetPage switches the machine to a different page. A selection drawn on one
// page is never valid on another, so any in-progress gesture and any stored
// bounds are discarded. Unlike CancelSelection this fires no callback: the
// reset is a consequence of navigation, not a user action.
func (m *Machine) SetPage(pageNumber int) {
	if pageNumber == m.pageNumber {
		return
	}
	m.pageNumber = pageNumber
	m.reset()
}

// OnSelectionStart sets the callback fired once per gesture at drag start.
func (m *Machine) OnSelectionStart(callback func()) {
	m.onStart = callback
}

// OnSelectionUpdate sets the callback fired on every drag movement.
func (m *Machine) OnSelectionUpdate(callback func(Update)) {
	m.onUpdate = callback
}

// OnSelectionComplete sets the callback fired once per completed gesture
// that meets the minimum size.
func (m *Machine) OnSelectionComplete(callback func(transform.BoundingBox)) {
	m.onComplete = callback
}

// OnSelectionCancel sets the callback fired on explicit cancellation.
func (m *Machine) OnSelectionCancel(callback func()) {
	m.onCancel = callback
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	return m.state
}

// IsSelecting reports whether a drag is in progress.
func (m *Machine) IsSelecting() bool {
	return m.state == Selecting
}

// Bounds returns the last completed selection, if any.
func (m *Machine) Bounds() (transform.BoundingBox, bool) {
	if m.bounds == nil {
		return transform.BoundingBox{}, false
	}
	return *m.bounds, true
}

// StartSelection begins a gesture at the given screen point. Only valid from
// Idle; a duplicate mousedown or a second touch while already selecting is
// ignored.
func (m *Machine) StartSelection(p geometry.Point2D) {
	if m.state != Idle {
		return
	}
	start := p
	end := p
	m.startPoint = &start
	m.endPoint = &end
	m.state = Selecting
	if m.onStart != nil {
		m.onStart()
	}
}

// UpdateSelection moves the live end point of the gesture. Stray mousemove
// events before mousedown are ignored.
func (m *Machine) UpdateSelection(p geometry.Point2D) {
	if m.state != Selecting || m.startPoint == nil {
		return
	}
	end := p
	m.endPoint = &end

	if m.onUpdate == nil {
		return
	}
	u := Update{
		StartX:   m.startPoint.X,
		StartY:   m.startPoint.Y,
		CurrentX: p.X,
		CurrentY: p.Y,
		Width:    p.X - m.startPoint.X,
		Height:   p.Y - m.startPoint.Y,
	}
	if pdf, err := transform.ScreenToPDF(p, m.viewport); err == nil {
		u.PDFCoords = pdf
	}
	m.onUpdate(u)
}

// CompleteSelection finishes the gesture. If the drag span is below the
// minimum size in either dimension the call is a no-op and the machine stays
// in Selecting: the user must drag further or cancel. Otherwise the gesture
// is converted to page units, stored, and reported through the completion
// callback, and the machine returns to Idle.
//
// A coordinate conversion failure is a viewport construction bug and is
// returned to the caller; the machine state is left unchanged.
func (m *Machine) CompleteSelection() error {
	if m.state != Selecting || m.startPoint == nil || m.endPoint == nil {
		return nil
	}

	width := math.Abs(m.endPoint.X - m.startPoint.X)
	height := math.Abs(m.endPoint.Y - m.startPoint.Y)
	if width < m.minSelectionSize || height < m.minSelectionSize {
		// Too small to be deliberate. Stay in Selecting so the user can
		// keep dragging; see DESIGN.md for the product-review note.
		return nil
	}

	bounds, err := transform.GetSelectionBounds(*m.startPoint, *m.endPoint, m.viewport, m.pageNumber)
	if err != nil {
		return err
	}

	m.bounds = &bounds
	m.startPoint = nil
	m.endPoint = nil
	m.state = Idle
	if m.onComplete != nil {
		m.onComplete(bounds)
	}
	return nil
}

// CancelSelection abandons any gesture and any stored bounds, forcing Idle.
// Valid from any state.
func (m *Machine) CancelSelection() {
	m.reset()
	if m.onCancel != nil {
		m.onCancel()
	}
}

// ClearSelection discards a previously completed selection without firing
// the cancellation callback. Used when starting fresh.
func (m *Machine) ClearSelection() {
	m.reset()
}

func (m *Machine) reset() {
	m.startPoint = nil
	m.endPoint = nil
	m.bounds = nil
	m.state = Idle
}
