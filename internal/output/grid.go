// Package output renders grids and the standard JSON envelope for CLI
// commands.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/klytics/cellgrid/internal/engine"
)

var (
	headerColor = color.New(color.FgHiBlack)
	formulaCell = color.New(color.FgCyan)
	errorCell   = color.New(color.FgRed, color.Bold)
)

// GridOptions controls grid rendering.
type GridOptions struct {
	// ShowFormulas renders raw formula text instead of display values.
	ShowFormulas bool
	// MaxColWidth truncates cells wider than this; 0 means no limit.
	MaxColWidth int
}

// WriteGrid renders the sheet as an aligned text table with A1-style
// headers. Error markers are colored red, formula results cyan;
// color.NoColor makes both no-ops.
func WriteGrid(w io.Writer, sheet *engine.Sheet, opts GridOptions) {
	rows, cols := sheet.Store().Bounds()
	if rows == 0 || cols == 0 {
		fmt.Fprintln(w, "(empty sheet)")
		return
	}

	cell := func(row, col int) string {
		text := sheet.DisplayValue(row, col)
		if opts.ShowFormulas {
			text = sheet.RawContent(row, col)
		}
		if opts.MaxColWidth > 0 && len(text) > opts.MaxColWidth {
			text = text[:opts.MaxColWidth-1] + "…"
		}
		return text
	}

	// column widths from content and headers
	widths := make([]int, cols)
	for col := 0; col < cols; col++ {
		widths[col] = len(columnLabel(col))
		for row := 0; row < rows; row++ {
			if n := len(cell(row, col)); n > widths[col] {
				widths[col] = n
			}
		}
	}
	rowLabelWidth := len(fmt.Sprint(rows))

	// header row
	fmt.Fprint(w, strings.Repeat(" ", rowLabelWidth))
	for col := 0; col < cols; col++ {
		fmt.Fprint(w, "  ")
		headerColor.Fprint(w, pad(columnLabel(col), widths[col]))
	}
	fmt.Fprintln(w)

	for row := 0; row < rows; row++ {
		headerColor.Fprint(w, pad(fmt.Sprint(row+1), rowLabelWidth))
		for col := 0; col < cols; col++ {
			fmt.Fprint(w, "  ")
			text := cell(row, col)
			padded := pad(text, widths[col])
			switch {
			case isErrorMarker(text):
				errorCell.Fprint(w, padded)
			case !opts.ShowFormulas && sheet.Store().IsFormula(engine.Coord{Row: row, Col: col}):
				formulaCell.Fprint(w, padded)
			default:
				fmt.Fprint(w, padded)
			}
		}
		fmt.Fprintln(w)
	}
}

func columnLabel(col int) string {
	return strings.TrimRight(engine.FormatRef(engine.Coord{Row: 0, Col: col}), "1")
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func isErrorMarker(s string) bool {
	switch s {
	case engine.DisplayRef, engine.DisplayName, engine.DisplayError,
		engine.DisplayNA, engine.DisplayCircular:
		return true
	}
	return false
}
