package extract

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"pdfsnip/internal/transform"
)

var red = color.NRGBA{R: 255, A: 255}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestFromImageBasicCrop(t *testing.T) {
	src := solidImage(800, 600, red)
	sel := transform.BoundingBox{X: 10, Y: 20, Width: 40, Height: 40, Scale: 1, Normalized: true}

	got := FromImage(src, sel, 1)
	if got == nil {
		t.Fatal("expected a crop, got nil")
	}
	if got.Bounds().Dx() != 40 || got.Bounds().Dy() != 40 {
		t.Fatalf("crop size = %v, want 40x40", got.Bounds())
	}
	if got.NRGBAAt(20, 20) != red {
		t.Fatalf("crop pixel = %+v, want red", got.NRGBAAt(20, 20))
	}
}

func TestFromImageScalesSelection(t *testing.T) {
	// A 10x10 page-unit selection at scale 2 covers 20x20 source pixels.
	src := solidImage(400, 400, red)
	sel := transform.BoundingBox{X: 5, Y: 5, Width: 10, Height: 10, Scale: 2, Normalized: true}

	got := FromImage(src, sel, 2)
	if got == nil {
		t.Fatal("expected a crop, got nil")
	}
	if got.Bounds().Dx() != 20 || got.Bounds().Dy() != 20 {
		t.Fatalf("crop size = %v, want 20x20", got.Bounds())
	}
}

func TestFromImageClampsAtEdge(t *testing.T) {
	src := solidImage(800, 600, red)
	sel := transform.BoundingBox{X: 700, Y: 0, Width: 200, Height: 100, Scale: 1, Normalized: true}

	got := FromImage(src, sel, 1)
	if got == nil {
		t.Fatal("expected a crop, got nil")
	}
	// Requested size is kept; only 100 source columns exist past x=700.
	if got.Bounds().Dx() != 200 || got.Bounds().Dy() != 100 {
		t.Fatalf("crop size = %v, want 200x100", got.Bounds())
	}
	if got.NRGBAAt(50, 50) != red {
		t.Fatalf("in-page pixel = %+v, want red", got.NRGBAAt(50, 50))
	}
	if a := got.NRGBAAt(150, 50).A; a != 0 {
		t.Fatalf("off-page pixel should be transparent, alpha=%d", a)
	}
}

func TestFromImageOutOfBounds(t *testing.T) {
	src := solidImage(800, 600, red)
	cases := []transform.BoundingBox{
		{X: 900, Y: 0, Width: 50, Height: 50, Scale: 1, Normalized: true},
		{X: 0, Y: 700, Width: 50, Height: 50, Scale: 1, Normalized: true},
		{X: -100, Y: -100, Width: 50, Height: 50, Scale: 1, Normalized: true},
	}
	for _, sel := range cases {
		if got := FromImage(src, sel, 1); got != nil {
			t.Fatalf("selection %+v is off-page, expected nil, got %v", sel, got.Bounds())
		}
	}
}

func TestFromImageUnnormalizedInput(t *testing.T) {
	src := solidImage(800, 600, red)
	sel := transform.BoundingBox{X: 50, Y: 60, Width: -40, Height: -40, Scale: 1}

	got := FromImage(src, sel, 1)
	if got == nil {
		t.Fatal("expected a crop from an unnormalized box")
	}
	if got.Bounds().Dx() != 40 || got.Bounds().Dy() != 40 {
		t.Fatalf("crop size = %v, want 40x40", got.Bounds())
	}
}

func TestFromImageNilSource(t *testing.T) {
	sel := transform.BoundingBox{X: 0, Y: 0, Width: 10, Height: 10, Scale: 1, Normalized: true}
	if got := FromImage(nil, sel, 1); got != nil {
		t.Fatal("nil source must yield nil")
	}
}

func TestDataURI(t *testing.T) {
	uri, err := DataURI(solidImage(4, 4, red))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected data URI prefix: %.40s", uri)
	}
}

func TestFindPageSurface(t *testing.T) {
	page := Surface{Name: "page", Image: solidImage(2, 2, red)}
	overlay := Surface{Name: "selection-overlay", Overlay: true, Image: solidImage(2, 2, red)}

	if got := FindPageSurface([]Surface{overlay, page}); got == nil || got.Name != "page" {
		t.Fatalf("expected the page surface, got %+v", got)
	}
	// Every surface tagged: fall back to the first.
	if got := FindPageSurface([]Surface{overlay}); got == nil || got.Name != "selection-overlay" {
		t.Fatalf("expected fallback to first surface, got %+v", got)
	}
	if got := FindPageSurface(nil); got != nil {
		t.Fatalf("expected nil for no surfaces, got %+v", got)
	}
}

func TestSelectionImage(t *testing.T) {
	sel := transform.BoundingBox{X: 10, Y: 10, Width: 20, Height: 20, Scale: 1, Normalized: true}
	surfaces := []Surface{
		{Name: "selection-overlay", Overlay: true, Image: solidImage(800, 600, color.NRGBA{B: 255, A: 255})},
		{Name: "page", Image: solidImage(800, 600, red)},
	}

	uri := SelectionImage(surfaces, sel)
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected selection image: %.40s", uri)
	}

	if got := SelectionImage(nil, sel); got != "" {
		t.Fatal("no surfaces must yield an empty result")
	}

	offPage := transform.BoundingBox{X: 900, Y: 0, Width: 10, Height: 10, Scale: 1, Normalized: true}
	if got := SelectionImage(surfaces, offPage); got != "" {
		t.Fatal("off-page selection must yield an empty result")
	}
}
