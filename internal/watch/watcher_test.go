package watch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klytics/cellgrid/internal/formats/csvio"
)

func TestNewWatcher(t *testing.T) {
	w, err := New(Config{Directories: []string{t.TempDir()}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if w.Config.Debounce != 500 {
		t.Errorf("default debounce = %d, want 500", w.Config.Debounce)
	}
}

func TestWatcherRecalculatesOnWrite(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{Directories: []string{dir}, Debounce: 50})
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan Event, 1)
	w.Handler = func(path string) (int, int, error) {
		sheet, err := csvio.ReadFile(path)
		if err != nil {
			return 0, 0, err
		}
		cells := sheet.Store().Len()
		formulas := len(sheet.Store().FormulaCoords())
		done <- Event{Path: path, Cells: cells, Formulas: formulas}
		return cells, formulas, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "budget.csv")
	if err := os.WriteFile(path, []byte("1,2,=A1+B1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-done:
		if evt.Cells != 3 || evt.Formulas != 1 {
			t.Errorf("handler saw %d cells, %d formulas, want 3 and 1", evt.Cells, evt.Formulas)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for recalculation event")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{Directories: []string{dir}, Debounce: 20})
	if err != nil {
		t.Fatal(err)
	}

	handled := make(chan string, 4)
	w.Handler = func(path string) (int, int, error) {
		handled <- path
		return 0, 0, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, "~$temp.xlsx"), []byte("x"), 0o644)

	select {
	case path := <-handled:
		t.Errorf("handler fired for %s, want no events", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestEventLogAndStatus(t *testing.T) {
	w, err := New(Config{Directories: []string{"watched"}, Debounce: 10})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	w.Handler = func(path string) (int, int, error) {
		return 4, 2, nil
	}
	w.processFile("grid.csv")

	events := w.Events()
	if len(events) != 1 {
		t.Fatalf("logged %d events, want 1", len(events))
	}
	if events[0].Status != "recalculated" || events[0].Cells != 4 {
		t.Errorf("event = %+v", events[0])
	}

	status := w.GetStatus()
	if !status.Running || status.EventCount != 1 {
		t.Errorf("status = %+v", status)
	}
}

func TestEventJSON(t *testing.T) {
	evt := Event{
		Time:     time.Now(),
		Path:     "sales.xlsx",
		Cells:    10,
		Formulas: 3,
		Status:   "recalculated",
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatal(err)
	}

	var back Event
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Path != evt.Path || back.Formulas != 3 {
		t.Errorf("round-tripped event = %+v", back)
	}
}
