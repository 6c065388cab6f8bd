package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRequiresNamespace(t *testing.T) {
	s := NewFileStore(t.TempDir())
	if _, _, err := s.Load("key"); !errors.Is(err, ErrNoNamespace) {
		t.Errorf("Load without namespace error = %v, want ErrNoNamespace", err)
	}
	if err := s.Save("key", "v"); !errors.Is(err, ErrNoNamespace) {
		t.Errorf("Save without namespace error = %v, want ErrNoNamespace", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := NewFileStore(dir)
	s.SetNamespace("avatar")
	if err := s.Save("wave", "key.keyboard.j"); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// A fresh store over the same directory sees the persisted value.
	s2 := NewFileStore(dir)
	s2.SetNamespace("avatar")
	v, ok, err := s2.Load("wave")
	if err != nil || !ok || v != "key.keyboard.j" {
		t.Errorf("Load = %q, %v, %v", v, ok, err)
	}
}

func TestNamespacesAreIsolated(t *testing.T) {
	s := NewFileStore(t.TempDir())

	s.SetNamespace("one")
	if err := s.Save("key", "first"); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	s.SetNamespace("two")
	if _, ok, err := s.Load("key"); err != nil || ok {
		t.Errorf("Load in other namespace = found %v, err %v, want absent", ok, err)
	}

	s.SetNamespace("one")
	v, ok, err := s.Load("key")
	if err != nil || !ok || v != "first" {
		t.Errorf("Load back = %q, %v, %v", v, ok, err)
	}
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	s.SetNamespace("avatar")

	if err := s.Save("gone", "x"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := s.Delete("gone"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, ok, _ := s.Load("gone"); ok {
		t.Error("entry still present after delete")
	}

	// Deletion reaches disk.
	s2 := NewFileStore(dir)
	s2.SetNamespace("avatar")
	if _, ok, _ := s2.Load("gone"); ok {
		t.Error("entry still on disk after delete")
	}

	// Deleting a missing entry is fine.
	if err := s.Delete("never-existed"); err != nil {
		t.Errorf("Delete of missing entry error: %v", err)
	}
}

func TestValueTypes(t *testing.T) {
	s := NewFileStore(t.TempDir())
	s.SetNamespace("avatar")

	if err := s.SetValue("count", int64(3)); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}
	if err := s.SetValue("enabled", true); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}

	// Load only reports string entries.
	if _, ok, err := s.Load("count"); err != nil || ok {
		t.Errorf("Load of non-string entry = found %v, err %v", ok, err)
	}

	v, ok, err := s.Value("enabled")
	if err != nil || !ok || v != true {
		t.Errorf("Value(enabled) = %v, %v, %v", v, ok, err)
	}
}

func TestNamespaceFileName(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	s.SetNamespace("weird/..\\name")
	if err := s.Save("k", "v"); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".toml" {
			t.Errorf("unexpected file %q in store dir", e.Name())
		}
	}
}
