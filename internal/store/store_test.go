package store

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

type doc struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestLoadMissingWritesDefaultBack(t *testing.T) {
	s := newTestStore(t)
	def := doc{Name: "Acme", Price: 100}

	got := Load(s, "catalog.json", def)
	if got != def {
		t.Fatalf("Load = %+v, want default", got)
	}
	if _, err := os.Stat(s.Path("catalog.json")); err != nil {
		t.Fatalf("default was not written back: %v", err)
	}

	// A second load now reads the file, not the default.
	got = Load(s, "catalog.json", doc{Name: "other"})
	if got != def {
		t.Fatalf("reload = %+v, want %+v", got, def)
	}
}

func TestLoadCorruptFallsBackToDefault(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path("bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	def := doc{Name: "fallback", Price: 1}
	if got := Load(s, "bad.json", def); got != def {
		t.Fatalf("Load = %+v, want default", got)
	}
	if got := Load(s, "bad.json", doc{}); got != def {
		t.Fatalf("corrupt file was not replaced, reload = %+v", got)
	}
}

func TestLoadEmptyFileFallsBack(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path("empty.json"), nil, 0o644); err != nil {
		t.Fatalf("seed empty file: %v", err)
	}
	def := doc{Name: "seed"}
	if got := Load(s, "empty.json", def); got != def {
		t.Fatalf("Load = %+v, want default", got)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := map[string]doc{
		"Acme": {Name: "Acme", Price: 123.45},
		"Beta": {Name: "Beta", Price: 0.01},
	}
	if err := s.Save("docs.json", want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := Load(s, "docs.json", map[string]doc{})
	if len(got) != 2 || got["Acme"] != want["Acme"] || got["Beta"] != want["Beta"] {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestNewCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := New(dir, nil); err != nil {
		t.Fatalf("New: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("data dir missing: %v", err)
	}
}
