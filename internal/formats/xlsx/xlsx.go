// Package xlsx reads and writes sheets as .xlsx (Excel) files.
package xlsx

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/cellgrid/internal/engine"
)

// ReadFile loads a worksheet from an .xlsx file into a new sheet and
// runs a full recalculation pass. An empty sheetName selects the first
// worksheet. Formula cells are loaded as formulas, not as the cached
// results stored in the file, so the engine recomputes them.
func ReadFile(path, sheetName string) (*engine.Sheet, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx file? %w", path, err)
	}
	defer f.Close()

	if sheetName == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("%s contains no worksheets", path)
		}
		sheetName = list[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q — available sheets: %v", sheetName, f.GetSheetList())
	}

	sheet := engine.NewSheet()
	for row, record := range rows {
		for col, value := range record {
			name, err := excelize.CoordinatesToCellName(col+1, row+1)
			if err != nil {
				return nil, fmt.Errorf("invalid cell position (%d, %d): %w", row, col, err)
			}
			formula, err := f.GetCellFormula(sheetName, name)
			if err == nil && formula != "" {
				sheet.LoadCell(row, col, "="+formula)
				continue
			}
			if value != "" {
				sheet.LoadCell(row, col, value)
			}
		}
	}

	sheet.RecalcAll()
	return sheet, nil
}

// WriteFile writes the sheet to an .xlsx file. With formulas set,
// formula cells are written as live formulas; otherwise every cell
// carries its display value.
func WriteFile(path string, sheet *engine.Sheet, formulas bool) error {
	f := excelize.NewFile()
	defer f.Close()

	const worksheet = "Sheet1"

	for _, coord := range sheet.Store().Coords() {
		name, err := excelize.CoordinatesToCellName(coord.Col+1, coord.Row+1)
		if err != nil {
			return fmt.Errorf("invalid cell position %v: %w", coord, err)
		}

		if raw, ok := sheet.Store().Formula(coord); ok && formulas {
			if err := f.SetCellFormula(worksheet, name, raw[1:]); err != nil {
				return fmt.Errorf("could not write formula at %s: %w", name, err)
			}
			continue
		}
		if err := f.SetCellStr(worksheet, name, sheet.Store().DisplayValue(coord)); err != nil {
			return fmt.Errorf("could not write cell %s: %w", name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return nil
}
