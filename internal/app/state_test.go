package app

import (
	"testing"

	"pdfsnip/internal/transform"
)

func TestPageNumberClampedWithoutDocument(t *testing.T) {
	s := NewState()
	if got := s.SetPageNumber(5); got != 1 {
		t.Fatalf("page clamped to %d, want 1", got)
	}
	if got := s.SetPageNumber(-3); got != 1 {
		t.Fatalf("page clamped to %d, want 1", got)
	}
}

func TestScaleClamped(t *testing.T) {
	s := NewState()
	if got := s.SetScale(100); got != MaxScale {
		t.Fatalf("scale = %v, want %v", got, MaxScale)
	}
	if got := s.SetScale(0); got != MinScale {
		t.Fatalf("scale = %v, want %v", got, MinScale)
	}
	if got := s.SetScale(2.5); got != 2.5 {
		t.Fatalf("scale = %v, want 2.5", got)
	}
}

func TestSelectionLifecycle(t *testing.T) {
	s := NewState()
	if _, ok := s.Selection(); ok {
		t.Fatal("fresh state should have no selection")
	}

	sel := transform.BoundingBox{X: 10, Y: 20, Width: 40, Height: 40, PageNumber: 1, Scale: 1, Normalized: true}
	s.SetSelection(sel, "data:image/png;base64,AAAA")

	got, ok := s.Selection()
	if !ok || got != sel {
		t.Fatalf("selection = %+v ok=%v", got, ok)
	}
	if s.LastCrop() == "" {
		t.Fatal("crop URI should be stored")
	}

	s.ClearSelection()
	if _, ok := s.Selection(); ok {
		t.Fatal("selection should be cleared")
	}
	if s.LastCrop() != "" {
		t.Fatal("crop should be cleared")
	}
}

func TestScaleChangeKeepsSelection(t *testing.T) {
	s := NewState()
	sel := transform.BoundingBox{X: 1, Y: 2, Width: 3, Height: 4, PageNumber: 1, Scale: 1, Normalized: true}
	s.SetSelection(sel, "")
	s.SetScale(4)
	if _, ok := s.Selection(); !ok {
		t.Fatal("zoom change must not drop the selection")
	}
}
