package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// MaxDocumentSize is the largest document accepted at the loading boundary.
const MaxDocumentSize = 50 << 20 // 50 MB

var (
	// ErrNotPDF reports input that is not a PDF document.
	ErrNotPDF = errors.New("pdfdoc: not a PDF document")

	// ErrDocumentTooLarge reports input above MaxDocumentSize.
	ErrDocumentTooLarge = errors.New("pdfdoc: document exceeds 50 MB limit")
)

var pdfMagic = []byte("%PDF-")

// ValidateFile checks extension, size, and magic bytes before the engine
// ever sees the file.
func ValidateFile(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%w: %s", ErrNotPDF, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxDocumentSize {
		return fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, info.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := f.Read(header); err != nil {
		return fmt.Errorf("%w: %s", ErrNotPDF, path)
	}
	if !bytes.Equal(header, pdfMagic) {
		return fmt.Errorf("%w: %s", ErrNotPDF, path)
	}
	return nil
}

// ValidateBytes checks size and magic bytes of an in-memory document.
func ValidateBytes(data []byte) error {
	if len(data) > MaxDocumentSize {
		return fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, len(data))
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return ErrNotPDF
	}
	return nil
}

// ValidateURL checks that a document URL is well formed and uses an http(s)
// scheme. Content validation happens after download via ValidateBytes.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse document URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("document URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("document URL has no host: %s", raw)
	}
	return nil
}
