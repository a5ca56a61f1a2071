package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/klytics/cellgrid/internal/engine"
	"github.com/klytics/cellgrid/internal/formats/csvio"
	"github.com/klytics/cellgrid/internal/formats/xlsx"
)

// Runner executes a script against a single sheet that steps share.
type Runner struct {
	sheet *engine.Sheet
}

// NewRunner returns a runner starting from an empty sheet.
func NewRunner() *Runner {
	return &Runner{sheet: engine.NewSheet()}
}

// Sheet returns the sheet in its current state.
func (r *Runner) Sheet() *engine.Sheet {
	return r.sheet
}

// Run executes every step in order and returns per-step results. A
// failing step stops the run; earlier side effects are kept.
func (r *Runner) Run(script *Script) ([]StepResult, error) {
	results := make([]StepResult, 0, len(script.Steps))

	for _, step := range script.Steps {
		output, err := r.runStep(step)
		result := StepResult{StepID: step.ID, Output: output}
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			return results, fmt.Errorf("step %q failed: %w", step.ID, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (r *Runner) runStep(step Step) (string, error) {
	switch step.Action {
	case "import":
		sheet, err := importFile(step.File, step.Sheet)
		if err != nil {
			return "", err
		}
		r.sheet = sheet
		return fmt.Sprintf("loaded %d cells from %s", sheet.Store().Len(), step.File), nil

	case "set":
		coord, err := engine.ParseRef(step.Cell)
		if err != nil {
			return "", fmt.Errorf("invalid cell %q: %w", step.Cell, err)
		}
		r.sheet.SetCell(coord.Row, coord.Col, step.Value)
		return r.sheet.DisplayValue(coord.Row, coord.Col), nil

	case "eval":
		return r.sheet.Evaluate(step.Formula), nil

	case "export":
		if err := exportFile(step.File, r.sheet, step.Formulas); err != nil {
			return "", err
		}
		return fmt.Sprintf("wrote %s", step.File), nil

	default:
		return "", fmt.Errorf("unknown action %q", step.Action)
	}
}

func importFile(path, sheetName string) (*engine.Sheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csvio.ReadFile(path)
	case ".xlsx":
		return xlsx.ReadFile(path, sheetName)
	default:
		return nil, fmt.Errorf("unsupported import format %q — use .csv or .xlsx", filepath.Ext(path))
	}
}

func exportFile(path string, sheet *engine.Sheet, formulas bool) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csvio.WriteFile(path, sheet, formulas)
	case ".xlsx":
		return xlsx.WriteFile(path, sheet, formulas)
	default:
		return fmt.Errorf("unsupported export format %q — use .csv or .xlsx", filepath.Ext(path))
	}
}
