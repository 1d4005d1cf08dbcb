package canvas

import (
	"image"
	"image/color"
)

var (
	liveSelectionColor   = color.RGBA{R: 66, G: 165, B: 245, A: 255}
	storedSelectionColor = color.RGBA{R: 26, G: 86, B: 138, A: 255}
	pageBackground       = color.RGBA{R: 64, G: 64, B: 64, A: 255}
)

// fillBackground paints the area around the page.
func fillBackground(output *image.RGBA) {
	b := output.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			output.SetRGBA(x, y, pageBackground)
		}
	}
}

// drawSelectionRect draws the live rubber-band as a dashed outline.
func drawSelectionRect(output *image.RGBA, rect *OverlayRect) {
	drawDashedRect(output, rect, liveSelectionColor)
}

// drawStoredSelection marks a completed selection with a solid outline.
func drawStoredSelection(output *image.RGBA, rect *OverlayRect) {
	x1, y1 := rect.X, rect.Y
	x2, y2 := rect.X+rect.Width, rect.Y+rect.Height
	bounds := output.Bounds()

	for x := x1; x <= x2; x++ {
		setIfInside(output, bounds, x, y1, storedSelectionColor)
		setIfInside(output, bounds, x, y2, storedSelectionColor)
	}
	for y := y1; y <= y2; y++ {
		setIfInside(output, bounds, x1, y, storedSelectionColor)
		setIfInside(output, bounds, x2, y, storedSelectionColor)
	}
}

// drawDashedRect draws a rectangle outline with alternating pixels.
func drawDashedRect(output *image.RGBA, rect *OverlayRect, col color.RGBA) {
	x1, y1 := rect.X, rect.Y
	x2, y2 := rect.X+rect.Width, rect.Y+rect.Height
	bounds := output.Bounds()

	// Top and bottom edges
	for x := x1; x <= x2; x++ {
		if (x+y1)%4 < 2 {
			setIfInside(output, bounds, x, y1, col)
		}
		if (x+y2)%4 < 2 {
			setIfInside(output, bounds, x, y2, col)
		}
	}
	// Left and right edges
	for y := y1; y <= y2; y++ {
		if (x1+y)%4 < 2 {
			setIfInside(output, bounds, x1, y, col)
		}
		if (x2+y)%4 < 2 {
			setIfInside(output, bounds, x2, y, col)
		}
	}
}

func setIfInside(output *image.RGBA, bounds image.Rectangle, x, y int, col color.RGBA) {
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		output.SetRGBA(x, y, col)
	}
}
