package docstore

import (
	"testing"

	"github.com/klytics/cellgrid/internal/engine"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSaveAndLoad(t *testing.T) {
	store := newStore(t)

	sheet := engine.NewSheet()
	sheet.SetCell(0, 0, "2")
	sheet.SetCell(0, 1, "=A1*3")

	if err := store.Save("budget", sheet); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load("budget")
	if err != nil {
		t.Fatal(err)
	}
	if got := loaded.RawContent(0, 1); got != "=A1*3" {
		t.Errorf("B1 raw = %q, want formula preserved", got)
	}
	if got := loaded.DisplayValue(0, 1); got != "6" {
		t.Errorf("B1 = %q, want recomputed %q", got, "6")
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := newStore(t).Load("ghost"); err == nil {
		t.Error("expected error for missing document")
	}
}

func TestList(t *testing.T) {
	store := newStore(t)

	sheet := engine.NewSheet()
	sheet.SetCell(0, 0, "1")

	for _, name := range []string{"alpha", "beta"} {
		if err := store.Save(name, sheet); err != nil {
			t.Fatal(err)
		}
	}

	infos, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 {
		t.Fatalf("listed %d documents, want 2", len(infos))
	}
	for _, info := range infos {
		if info.Cells != 1 {
			t.Errorf("document %q reports %d cells, want 1", info.Name, info.Cells)
		}
	}
}

func TestDelete(t *testing.T) {
	store := newStore(t)

	sheet := engine.NewSheet()
	sheet.SetCell(0, 0, "1")
	if err := store.Save("temp", sheet); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("temp"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("temp"); err == nil {
		t.Error("second delete should report the document is gone")
	}
}

func TestInvalidNames(t *testing.T) {
	store := newStore(t)
	sheet := engine.NewSheet()

	for _, name := range []string{"", "a/b", "..", `a\b`} {
		if err := store.Save(name, sheet); err == nil {
			t.Errorf("Save(%q) should fail", name)
		}
	}
}
