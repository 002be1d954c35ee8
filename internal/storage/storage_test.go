package storage

import (
	"path/filepath"
	"testing"
)

func TestMemoryStoreRoundtrip(t *testing.T) {
	s := NewMemory()

	if _, ok := s.Get("missing"); ok {
		t.Fatalf("expected missing key")
	}
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok := s.Get("k")
	if !ok || v != "v" {
		t.Fatalf("expected v, got %q ok=%v", v, ok)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Get("k"); ok {
		t.Fatalf("expected key gone after delete")
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete of missing key should be a no-op, got %v", err)
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := NewFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set("cart:guest", `[{"id":"brie"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok := reopened.Get("cart:guest")
	if !ok || v != `[{"id":"brie"}]` {
		t.Fatalf("expected persisted value, got %q ok=%v", v, ok)
	}

	if err := reopened.Delete("cart:guest"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	again, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen after delete: %v", err)
	}
	if _, ok := again.Get("cart:guest"); ok {
		t.Fatalf("expected deletion to persist")
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s, err := NewFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := s.Get("anything"); ok {
		t.Fatalf("expected empty store")
	}
}
