//go:build !ocr

package ocr

import (
	"errors"
	"image"
	"testing"
)

func TestNewReturnsErrorWhenDisabled(t *testing.T) {
	engine, err := New()
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Fatalf("expected ErrOCRNotEnabled, got %v", err)
	}
	if engine != nil {
		t.Fatal("expected nil engine when OCR is disabled")
	}
}

func TestStubEngineIsInert(t *testing.T) {
	var engine *Engine
	if err := engine.Close(); err != nil {
		t.Fatalf("Close on stub engine: %v", err)
	}
	_, err := engine.RecognizeImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Fatalf("expected ErrOCRNotEnabled, got %v", err)
	}
}
