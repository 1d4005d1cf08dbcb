package geometry

import (
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := NewRect(10, 20, 30, 40)
	if !r.Contains(Point2D{X: 10, Y: 20}) {
		t.Error("expected top-left corner to be contained")
	}
	if !r.Contains(Point2D{X: 40, Y: 60}) {
		t.Error("expected bottom-right corner to be contained")
	}
	if r.Contains(Point2D{X: 41, Y: 30}) {
		t.Error("point right of rect should not be contained")
	}
}

func TestRectIntersect(t *testing.T) {
	a := NewRect(0, 0, 100, 100)
	b := NewRect(50, 50, 100, 100)
	got := a.Intersect(b)
	want := NewRect(50, 50, 50, 50)
	if got != want {
		t.Fatalf("intersect = %+v, want %+v", got, want)
	}

	c := NewRect(200, 200, 10, 10)
	if !a.Intersect(c).Empty() {
		t.Fatalf("disjoint rects should intersect to empty, got %+v", a.Intersect(c))
	}
}

func TestAffineApplyIdentity(t *testing.T) {
	p := Point2D{X: 12.5, Y: -3}
	if got := Identity().Apply(p); got != p {
		t.Fatalf("identity moved point: %+v", got)
	}
}

func TestAffineCompose(t *testing.T) {
	// Scale by 2 then translate by (10, 20).
	tr := Translation(10, 20).Compose(Scaling(2, 2))
	got := tr.Apply(Point2D{X: 3, Y: 4})
	want := Point2D{X: 16, Y: 28}
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Fatalf("compose apply = %+v, want %+v", got, want)
	}
}

func TestAffineSliceRoundTrip(t *testing.T) {
	tr := AffineTransform{A: 2, B: 0.5, C: -0.5, D: 2, TX: 7, TY: -7}
	if got := FromSlice(tr.ToSlice()); got != tr {
		t.Fatalf("slice round trip = %+v, want %+v", got, tr)
	}
}
