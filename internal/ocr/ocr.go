//go:build ocr

// Package ocr recognizes text in extracted page crops using Tesseract.
//
// Requires Tesseract and OpenCV at build time; rebuild with -tags ocr to
// enable. Without the tag the stub implementation is compiled instead and
// every call reports ErrOCRNotEnabled.
package ocr

import (
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// Engine recognizes text using Tesseract.
type Engine struct {
	client *gosseract.Client
}

// New creates an OCR engine. Close it to release native resources.
func New() (*Engine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("set OCR language: %w", err)
	}
	return &Engine{client: client}, nil
}

// Close releases the Tesseract client.
func (e *Engine) Close() error {
	if e == nil || e.client == nil {
		return nil
	}
	return e.client.Close()
}

// RecognizeImage runs OCR over a crop extracted from a rendered page and
// returns the recognized text with whitespace collapsed.
func (e *Engine) RecognizeImage(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("ocr: nil image")
	}

	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return "", fmt.Errorf("convert crop for OCR: %w", err)
	}
	defer src.Close()

	processed := preprocess(src)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return "", fmt.Errorf("encode crop for OCR: %w", err)
	}
	defer buf.Close()

	// PSM 6: crops are a single uniform block of text.
	if err := e.client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("set OCR image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.Join(strings.Fields(text), " "), nil
}

// preprocess prepares a crop for recognition: upscale small crops, convert
// to grayscale, and binarize with Otsu. Light-on-dark crops are inverted
// because Tesseract expects dark text on a light background.
func preprocess(src gocv.Mat) gocv.Mat {
	h, w := src.Rows(), src.Cols()

	var scaled gocv.Mat
	minDim := min(h, w)
	if minDim > 0 && minDim < 150 {
		scale := 150.0 / float64(minDim)
		scaled = gocv.NewMat()
		gocv.Resize(src, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		scaled = src.Clone()
	}

	gray := gocv.NewMat()
	gocv.CvtColor(scaled, &gray, gocv.ColorRGBToGray)
	scaled.Close()

	binary := gocv.NewMat()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	gray.Close()

	// Most pixels are background. A mostly-black result means light text on
	// a dark page region; flip it so the text reads dark on light.
	whiteCount := gocv.CountNonZero(binary)
	totalPixels := binary.Rows() * binary.Cols()
	if totalPixels > 0 && float64(whiteCount)/float64(totalPixels) < 0.5 {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()
	return result
}
