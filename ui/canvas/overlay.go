// Package canvas provides overlay types for the page canvas.
package canvas

// OverlayRect represents a rectangle to draw on the canvas, in screen-space
// pixels at the current zoom.
type OverlayRect struct {
	X, Y, Width, Height int
}
