package output

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/klytics/cellgrid/internal/engine"
)

func renderPlain(t *testing.T, sheet *engine.Sheet, opts GridOptions) string {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf strings.Builder
	WriteGrid(&buf, sheet, opts)
	return buf.String()
}

func TestWriteGridEmpty(t *testing.T) {
	got := renderPlain(t, engine.NewSheet(), GridOptions{})
	if !strings.Contains(got, "(empty sheet)") {
		t.Errorf("empty render = %q", got)
	}
}

func TestWriteGridValues(t *testing.T) {
	sheet := engine.NewSheet()
	sheet.SetCell(0, 0, "10")
	sheet.SetCell(0, 1, "=A1*2")
	sheet.SetCell(1, 0, "label")

	got := renderPlain(t, sheet, GridOptions{})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("rendered %d lines, want 3:\n%s", len(lines), got)
	}

	if !strings.Contains(lines[0], "A") || !strings.Contains(lines[0], "B") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "20") {
		t.Errorf("row 1 should show computed value: %q", lines[1])
	}
	if !strings.Contains(lines[2], "label") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestWriteGridFormulas(t *testing.T) {
	sheet := engine.NewSheet()
	sheet.SetCell(0, 0, "10")
	sheet.SetCell(0, 1, "=A1*2")

	got := renderPlain(t, sheet, GridOptions{ShowFormulas: true})
	if !strings.Contains(got, "=A1*2") {
		t.Errorf("formula view should show raw text:\n%s", got)
	}
}

func TestWriteGridTruncation(t *testing.T) {
	sheet := engine.NewSheet()
	sheet.SetCell(0, 0, "a very long cell value")

	got := renderPlain(t, sheet, GridOptions{MaxColWidth: 8})
	if strings.Contains(got, "a very long cell value") {
		t.Errorf("cell should be truncated:\n%s", got)
	}
}

func TestIsErrorMarker(t *testing.T) {
	for _, marker := range []string{"#REF!", "#NAME?", "#ERROR!", "#N/A", "#CIRCULAR!"} {
		if !isErrorMarker(marker) {
			t.Errorf("isErrorMarker(%q) = false", marker)
		}
	}
	if isErrorMarker("42") {
		t.Error("isErrorMarker(42) = true")
	}
}

func TestColumnLabel(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{0, "A"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{701, "ZZ"},
	}
	for _, tt := range tests {
		if got := columnLabel(tt.col); got != tt.want {
			t.Errorf("columnLabel(%d) = %q, want %q", tt.col, got, tt.want)
		}
	}
}
