// Package docstore persists named grid documents as JSON files in a
// local directory, the way a saved-spreadsheets list would.
package docstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klytics/cellgrid/internal/engine"
)

// Document is the serialized form of a grid: raw content per cell,
// keyed by A1-style labels. Formula cells store their formula text, so
// loading a document re-evaluates everything against current code.
type Document struct {
	Name    string            `json:"name"`
	Cells   map[string]string `json:"cells"`
	SavedAt time.Time         `json:"savedAt"`
}

// Info summarizes a stored document for listings.
type Info struct {
	Name    string    `json:"name"`
	Cells   int       `json:"cells"`
	SavedAt time.Time `json:"savedAt"`
}

// Store reads and writes documents under a directory.
type Store struct {
	dir string
}

// New creates a document store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create document directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Save snapshots the sheet's raw content under the given name.
func (s *Store) Save(name string, sheet *engine.Sheet) error {
	if err := validateName(name); err != nil {
		return err
	}

	doc := Document{
		Name:    name,
		Cells:   make(map[string]string),
		SavedAt: time.Now().UTC(),
	}
	for _, coord := range sheet.Store().Coords() {
		doc.Cells[engine.FormatRef(coord)] = sheet.Store().RawContent(coord)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode document %q: %w", name, err)
	}

	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return fmt.Errorf("could not write document %q: %w", name, err)
	}
	return nil
}

// Load restores a document into a new sheet and recomputes it.
func (s *Store) Load(name string) (*engine.Sheet, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no document named %q — run 'cellgrid sheet list' to see saved documents", name)
		}
		return nil, fmt.Errorf("could not read document %q: %w", name, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("document %q is corrupted: %w", name, err)
	}

	sheet := engine.NewSheet()
	for label, text := range doc.Cells {
		coord, err := engine.ParseRef(label)
		if err != nil {
			return nil, fmt.Errorf("document %q has an invalid cell label %q", name, label)
		}
		sheet.LoadCell(coord.Row, coord.Col, text)
	}
	sheet.RecalcAll()

	return sheet, nil
}

// List returns summaries of all stored documents, newest first.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("could not list documents: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			continue // skip unreadable files rather than failing the listing
		}
		infos = append(infos, Info{
			Name:    doc.Name,
			Cells:   len(doc.Cells),
			SavedAt: doc.SavedAt,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].SavedAt.After(infos[j].SavedAt)
	})
	return infos, nil
}

// Delete removes a stored document.
func (s *Store) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no document named %q", name)
		}
		return fmt.Errorf("could not delete document %q: %w", name, err)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("document name must not be empty")
	}
	if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return fmt.Errorf("invalid document name %q — names must not contain path separators", name)
	}
	return nil
}
