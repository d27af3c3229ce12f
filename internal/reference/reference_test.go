package reference

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleText = `# Production libraries
LIBRARY BRU Bruton Music
LIBRARY kpm KPM Music Ltd
LIBRARY BRU Duplicate Entry

Composer notes: Smith John wrote most BRU 0100 series cues.
`

func TestNewParsesLibraries(t *testing.T) {
	db := New(sampleText)
	libs := db.Libraries()
	if len(libs) != 2 {
		t.Fatalf("expected 2 libraries, got %+v", libs)
	}
	if libs[0] != (Library{Code: "BRU", Publisher: "Bruton Music"}) {
		t.Fatalf("unexpected first library: %+v", libs[0])
	}
	if libs[1].Code != "KPM" || libs[1].Publisher != "KPM Music Ltd" {
		t.Fatalf("unexpected second library: %+v", libs[1])
	}
	if db.Text() != sampleText {
		t.Fatal("text not preserved verbatim")
	}
	if len(db.Checksum()) != 64 {
		t.Fatalf("unexpected checksum %q", db.Checksum())
	}
}

func TestLibraryFor(t *testing.T) {
	db := New(sampleText)
	tests := []struct {
		name string
		code string
		ok   bool
	}{
		{"BRU_0123_04_Golden_Hour_Full", "BRU", true},
		{"kpm_1001_Driving_Force", "KPM", true},
		{"Theme_v2", "", false},
		{"BRU Golden Hour", "", false},
		{"_BRU", "", false},
	}
	for _, tt := range tests {
		lib, ok := db.LibraryFor(tt.name)
		if ok != tt.ok || lib.Code != tt.code {
			t.Errorf("LibraryFor(%q) = %+v, %v", tt.name, lib, ok)
		}
	}
}

func TestNilDBIsSafe(t *testing.T) {
	var db *DB
	if db.Text() != "" || db.Checksum() != "" || db.Path() != "" || db.Libraries() != nil {
		t.Fatal("nil DB should return zero values")
	}
	if _, ok := db.LibraryFor("BRU_1"); ok {
		t.Fatal("nil DB should not match")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.txt")
	if err := os.WriteFile(path, []byte(sampleText), 0o644); err != nil {
		t.Fatalf("write reference: %v", err)
	}
	db, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if db.Path() != path {
		t.Fatalf("path = %q", db.Path())
	}
}

func TestLoadMissingIsUnavailable(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
	if _, err := Load("  "); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for empty path, got %v", err)
	}
}
