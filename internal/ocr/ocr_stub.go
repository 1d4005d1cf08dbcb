//go:build !ocr

// Package ocr recognizes text in extracted page crops using Tesseract.
//
// This is the stub implementation used when the "ocr" build tag is not set.
// All functions return ErrOCRNotEnabled. To enable OCR, rebuild with the
// "ocr" build tag; this requires Tesseract and OpenCV to be installed.
package ocr

import (
	"errors"
	"image"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Engine is a placeholder for the Tesseract engine.
type Engine struct{}

// New reports that OCR support is not compiled in.
func New() (*Engine, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op on the stub engine.
func (e *Engine) Close() error {
	return nil
}

// RecognizeImage reports that OCR support is not compiled in.
func (e *Engine) RecognizeImage(img image.Image) (string, error) {
	return "", ErrOCRNotEnabled
}
