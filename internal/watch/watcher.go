// Package watch provides a file system watcher for automated grid
// recalculation. It monitors directories for changed grid files,
// reloads them through the formula engine, and reports the results.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config holds the watcher configuration.
type Config struct {
	Directories []string `json:"directories"`
	Output      string   `json:"output,omitempty"` // optional: computed CSV written after each recalc
	Debounce    int      `json:"debounceMs"`       // milliseconds to wait before processing
}

// Event records one processed file change.
type Event struct {
	Time     time.Time `json:"time"`
	Path     string    `json:"path"`
	Cells    int       `json:"cells"`
	Formulas int       `json:"formulas"`
	Status   string    `json:"status"` // "recalculated" or "error"
	Error    string    `json:"error,omitempty"`
}

// Status reports the current watcher state.
type Status struct {
	Running     bool     `json:"running"`
	Directories []string `json:"directories"`
	EventCount  int      `json:"eventCount"`
}

// Handler reloads a changed grid file and returns how many cells and
// formulas it recalculated.
type Handler func(path string) (cells, formulas int, err error)

// gridExtensions are the file types the watcher reacts to.
var gridExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// Watcher monitors directories and recalculates changed grid files.
type Watcher struct {
	Config  Config
	Logger  *log.Logger
	Handler Handler

	mu       sync.Mutex
	events   []Event
	watcher  *fsnotify.Watcher
	debounce map[string]*time.Timer
}

// New creates a watcher with the given configuration.
func New(config Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	if config.Debounce <= 0 {
		config.Debounce = 500
	}

	return &Watcher{
		Config:   config,
		Logger:   log.New(os.Stderr, "[watch] ", log.LstdFlags),
		watcher:  fsw,
		debounce: make(map[string]*time.Timer),
	}, nil
}

// Start begins watching the configured directories. It blocks until
// the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	for _, dir := range w.Config.Directories {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("could not resolve %s: %w", dir, err)
		}
		if err := w.watcher.Add(absDir); err != nil {
			return fmt.Errorf("could not watch %s: %w", absDir, err)
		}
	}

	w.Logger.Printf("Watching %d directory(ies) for grid files", len(w.Config.Directories))

	for {
		select {
		case <-ctx.Done():
			w.Logger.Println("Stopping watcher")
			return w.watcher.Close()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Printf("Error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	path := event.Name
	if !gridExtensions[strings.ToLower(filepath.Ext(path))] {
		return
	}

	// skip editor temp files
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".~") {
		return
	}

	// debounce rapid-fire write events per path
	w.mu.Lock()
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(time.Duration(w.Config.Debounce)*time.Millisecond, func() {
		w.processFile(path)
	})
	w.mu.Unlock()
}

func (w *Watcher) processFile(path string) {
	if w.Handler == nil {
		return
	}

	evt := Event{Time: time.Now(), Path: path}

	cells, formulas, err := w.Handler(path)
	if err != nil {
		evt.Status = "error"
		evt.Error = err.Error()
		w.Logger.Printf("Error recalculating %s: %v", path, err)
	} else {
		evt.Status = "recalculated"
		evt.Cells = cells
		evt.Formulas = formulas
		w.Logger.Printf("Recalculated %s (%d cells, %d formulas)", path, cells, formulas)
	}

	w.mu.Lock()
	w.events = append(w.events, evt)
	w.mu.Unlock()
}

// Events returns a copy of the processed-event log.
func (w *Watcher) Events() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Event, len(w.events))
	copy(out, w.events)
	return out
}

// GetStatus reports the watcher's current state.
func (w *Watcher) GetStatus() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Status{
		Running:     true,
		Directories: w.Config.Directories,
		EventCount:  len(w.events),
	}
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
