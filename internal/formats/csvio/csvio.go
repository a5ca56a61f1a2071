// Package csvio reads and writes sheets as CSV files. Cells whose
// content starts with = are loaded as formulas and recomputed after
// the import.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/klytics/cellgrid/internal/engine"
)

// ReadFile loads a CSV file into a new sheet and runs a full
// recalculation pass.
func ReadFile(path string) (*engine.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
		}
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

// Read loads CSV data into a new sheet.
func Read(r io.Reader) (*engine.Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are fine

	sheet := engine.NewSheet()
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid CSV on line %d: %w", row+1, err)
		}
		for col, text := range record {
			if text == "" {
				continue
			}
			sheet.LoadCell(row, col, text)
		}
		row++
	}

	sheet.RecalcAll()
	return sheet, nil
}

// WriteFile writes the sheet to a CSV file.
func WriteFile(path string, sheet *engine.Sheet, formulas bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer f.Close()

	return Write(f, sheet, formulas)
}

// Write renders the sheet as CSV. With formulas set, cells emit their
// raw formula text instead of computed display values, so a
// round-trip through Read re-evaluates them.
func Write(w io.Writer, sheet *engine.Sheet, formulas bool) error {
	rows, cols := sheet.Store().Bounds()
	writer := csv.NewWriter(w)

	record := make([]string, cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if formulas {
				record[col] = sheet.RawContent(row, col)
			} else {
				record[col] = sheet.DisplayValue(row, col)
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("could not write CSV row %d: %w", row+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
