package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveLoadRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "rec.json")

	if _, err := Load[record](path); !errors.Is(err, ErrNotExist) {
		t.Fatalf("missing file: err = %v", err)
	}
	if err := Save(path, record{Name: "a", Count: 2}, 0o600); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("perm = %v", info.Mode().Perm())
	}
	got, err := Load[record](path)
	if err != nil || got != (record{Name: "a", Count: 2}) {
		t.Fatalf("Load = %+v, %v", got, err)
	}
	if err := Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := Remove(path); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load[record](path); err == nil || errors.Is(err, ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}
