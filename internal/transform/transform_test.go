package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"pdfsnip/pkg/geometry"
)

func TestScreenToPDF(t *testing.T) {
	v := Viewport{Width: 1200, Height: 1600, Scale: 2}
	got, err := ScreenToPDF(geometry.Point2D{X: 100, Y: 200}, v)
	if err != nil {
		t.Fatal(err)
	}
	want := PDFCoordinates{X: 50, Y: 100}
	if got != want {
		t.Fatalf("ScreenToPDF = %+v, want %+v", got, want)
	}
}

func TestScreenToPDFWithOffset(t *testing.T) {
	v := Viewport{Width: 800, Height: 600, Scale: 1.5, OffsetX: 30, OffsetY: 60}
	got, err := ScreenToPDF(geometry.Point2D{X: 30, Y: 60}, v)
	if err != nil {
		t.Fatal(err)
	}
	if got.X != 0 || got.Y != 0 {
		t.Fatalf("offset origin should map to page origin, got %+v", got)
	}
}

func TestScreenToPDFRejectsZeroScale(t *testing.T) {
	_, err := ScreenToPDF(geometry.Point2D{X: 100, Y: 200}, Viewport{Scale: 0})
	if !errors.Is(err, ErrInvalidScale) {
		t.Fatalf("expected ErrInvalidScale, got %v", err)
	}
	_, err = ScreenToPDF(geometry.Point2D{X: 100, Y: 200}, Viewport{Scale: -1})
	if !errors.Is(err, ErrInvalidScale) {
		t.Fatalf("expected ErrInvalidScale for negative scale, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	points := []geometry.Point2D{
		{X: 0, Y: 0},
		{X: 10.25, Y: 20.5},
		{X: 799, Y: 1131},
		{X: -5, Y: 3.33333},
	}
	viewports := []Viewport{
		{Width: 800, Height: 1131, Scale: 1},
		{Width: 1200, Height: 1697, Scale: 1.5},
		{Width: 400, Height: 565, Scale: 0.5, OffsetX: 12, OffsetY: 7},
		{Width: 8000, Height: 11310, Scale: 10, OffsetX: -3.5, OffsetY: 100},
	}
	for _, v := range viewports {
		for _, p := range points {
			pdf, err := ScreenToPDF(p, v)
			if err != nil {
				t.Fatal(err)
			}
			back, err := PDFToScreen(pdf, v)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(back.X-p.X) > 1e-6 || math.Abs(back.Y-p.Y) > 1e-6 {
				t.Fatalf("round trip of %+v through %+v gave %+v", p, v, back)
			}
		}
	}
}

func TestNormalizeSelection(t *testing.T) {
	box := BoundingBox{X: 50, Y: 20, Width: -40, Height: 80, PageNumber: 2, Scale: 1}
	got := NormalizeSelection(box)
	want := BoundingBox{X: 10, Y: 20, Width: 40, Height: 80, PageNumber: 2, Scale: 1, Normalized: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("NormalizeSelection mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeSelectionIdempotent(t *testing.T) {
	boxes := []BoundingBox{
		{X: 50, Y: 20, Width: -40, Height: 80},
		{X: 0, Y: 0, Width: 10, Height: -10},
		{X: 5, Y: 5, Width: 0, Height: 0},
		{X: -3, Y: -3, Width: -1, Height: -1},
	}
	for _, b := range boxes {
		once := NormalizeSelection(b)
		twice := NormalizeSelection(once)
		if once != twice {
			t.Fatalf("normalize not idempotent for %+v: %+v vs %+v", b, once, twice)
		}
		if once.Width < 0 || once.Height < 0 {
			t.Fatalf("normalized box has negative span: %+v", once)
		}
	}
}

func TestTransformBounds(t *testing.T) {
	box := BoundingBox{X: 10, Y: 20, Width: 40, Height: 40, PageNumber: 3, Scale: 1, Normalized: true}
	got, err := TransformBounds(box, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := BoundingBox{X: 20, Y: 40, Width: 80, Height: 80, PageNumber: 3, Scale: 2, Normalized: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("TransformBounds mismatch (-want +got):\n%s", diff)
	}

	if _, err := TransformBounds(box, 0); !errors.Is(err, ErrInvalidScale) {
		t.Fatalf("expected ErrInvalidScale for zero target scale, got %v", err)
	}
	if _, err := TransformBounds(BoundingBox{Scale: 0}, 2); !errors.Is(err, ErrInvalidScale) {
		t.Fatalf("expected ErrInvalidScale for zero source scale, got %v", err)
	}
}

func TestCreateTransformMatrixIdentity(t *testing.T) {
	m := CreateTransformMatrix(Viewport{Scale: 1})
	want := [6]float64{1, 0, 0, 1, 0, 0}
	if m != want {
		t.Fatalf("identity matrix = %v, want %v", m, want)
	}
}

func TestApplyTransform(t *testing.T) {
	m := CreateTransformMatrix(Viewport{Scale: 2, OffsetX: 5, OffsetY: -5})
	got := ApplyTransform(geometry.Point2D{X: 10, Y: 10}, m)
	want := geometry.Point2D{X: 25, Y: 15}
	if got != want {
		t.Fatalf("ApplyTransform = %+v, want %+v", got, want)
	}
}

func TestInvertTransform(t *testing.T) {
	m := CreateTransformMatrix(Viewport{Scale: 1.75, OffsetX: 40, OffsetY: 12})
	inv, err := InvertTransform(m)
	if err != nil {
		t.Fatal(err)
	}
	p := geometry.Point2D{X: 123.4, Y: -56.7}
	back := ApplyTransform(ApplyTransform(p, m), inv)
	if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
		t.Fatalf("inverse round trip gave %+v, want %+v", back, p)
	}

	if _, err := InvertTransform([6]float64{0, 0, 0, 0, 1, 1}); !errors.Is(err, ErrSingularTransform) {
		t.Fatalf("expected ErrSingularTransform, got %v", err)
	}
}

func TestGetSelectionBounds(t *testing.T) {
	v := Viewport{Width: 800, Height: 1131, Scale: 1}
	got, err := GetSelectionBounds(
		geometry.Point2D{X: 10, Y: 20},
		geometry.Point2D{X: 50, Y: 60},
		v, 1,
	)
	if err != nil {
		t.Fatal(err)
	}
	want := BoundingBox{X: 10, Y: 20, Width: 40, Height: 40, PageNumber: 1, Scale: 1, Normalized: true}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("GetSelectionBounds mismatch (-want +got):\n%s", diff)
	}
}

func TestGetSelectionBoundsReverseDrag(t *testing.T) {
	v := Viewport{Width: 1600, Height: 2262, Scale: 2}
	got, err := GetSelectionBounds(
		geometry.Point2D{X: 100, Y: 120},
		geometry.Point2D{X: 20, Y: 40},
		v, 4,
	)
	if err != nil {
		t.Fatal(err)
	}
	want := BoundingBox{X: 10, Y: 20, Width: 40, Height: 40, PageNumber: 4, Scale: 2, Normalized: true}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("reverse drag mismatch (-want +got):\n%s", diff)
	}
}

func TestIsPointInViewport(t *testing.T) {
	v := Viewport{Width: 800, Height: 600, Scale: 1}
	in := []geometry.Point2D{{X: 0, Y: 0}, {X: 800, Y: 600}, {X: 400, Y: 300}}
	out := []geometry.Point2D{{X: -1, Y: 0}, {X: 801, Y: 0}, {X: 0, Y: 601}}
	for _, p := range in {
		if !IsPointInViewport(p, v) {
			t.Errorf("expected %+v inside viewport", p)
		}
	}
	for _, p := range out {
		if IsPointInViewport(p, v) {
			t.Errorf("expected %+v outside viewport", p)
		}
	}
}

func TestClampToViewport(t *testing.T) {
	v := Viewport{Width: 800, Height: 600, Scale: 1}

	// Box hanging past the right edge slides back in.
	got := ClampToViewport(BoundingBox{X: 750, Y: 10, Width: 100, Height: 50, Scale: 1}, v)
	if got.X != 700 || got.Width != 100 {
		t.Fatalf("expected x=700 width=100, got %+v", got)
	}

	// Oversized box shrinks to the page.
	got = ClampToViewport(BoundingBox{X: -50, Y: -50, Width: 2000, Height: 2000, Scale: 1}, v)
	if got.X != 0 || got.Y != 0 || got.Width != 800 || got.Height != 600 {
		t.Fatalf("expected full-page box, got %+v", got)
	}

	// Zoomed viewport clamps in page units, not screen pixels.
	zoomed := Viewport{Width: 1600, Height: 1200, Scale: 2}
	got = ClampToViewport(BoundingBox{X: 790, Y: 0, Width: 100, Height: 50, Scale: 2}, zoomed)
	if got.X != 700 {
		t.Fatalf("expected x clamped to 700 in page units, got %+v", got)
	}
}
