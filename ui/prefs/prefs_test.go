package prefs

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "nope", "preferences.json"))
	if got := p.Float(KeyScale, 1.0); got != 1.0 {
		t.Fatalf("Float fallback = %v, want 1.0", got)
	}
	if got := p.String(KeyLastFile); got != "" {
		t.Fatalf("String default = %q, want empty", got)
	}
	if got := p.Bool(KeyFitToWindow, true); got != true {
		t.Fatal("Bool fallback not honored")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfsnip", "preferences.json")

	p := LoadFrom(path)
	p.SetFloat(KeyScale, 1.5)
	p.SetString(KeyLastFile, "/docs/paper.pdf")
	p.SetBool(KeyFitToWindow, true)
	p.SetFloat(KeyMinSelectionSize, 8)
	if err := p.Save(); err != nil {
		t.Fatal(err)
	}

	q := LoadFrom(path)
	if got := q.Float(KeyScale, 1.0); got != 1.5 {
		t.Fatalf("scale = %v, want 1.5", got)
	}
	if got := q.String(KeyLastFile); got != "/docs/paper.pdf" {
		t.Fatalf("lastFile = %q", got)
	}
	if !q.Bool(KeyFitToWindow, false) {
		t.Fatal("fitToWindow not persisted")
	}
	if got := q.Float(KeyMinSelectionSize, 5); got != 8 {
		t.Fatalf("minSelectionSize = %v, want 8", got)
	}
}
