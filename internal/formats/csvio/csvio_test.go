package csvio

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadComputesFormulas(t *testing.T) {
	in := "1,2,=A1+B1\nx,=SUM(A1:B1),\n"

	sheet, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}

	if got := sheet.DisplayValue(0, 2); got != "3" {
		t.Errorf("C1 = %q, want %q", got, "3")
	}
	if got := sheet.DisplayValue(1, 1); got != "3" {
		t.Errorf("B2 = %q, want %q", got, "3")
	}
	if got := sheet.RawContent(0, 2); got != "=A1+B1" {
		t.Errorf("raw C1 = %q, formula text must survive import", got)
	}
}

func TestReadRaggedRows(t *testing.T) {
	sheet, err := Read(strings.NewReader("1,2,3\n4\n"))
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := sheet.Store().Bounds()
	if rows != 2 || cols != 3 {
		t.Errorf("Bounds = (%d, %d), want (2, 3)", rows, cols)
	}
}

func TestWriteDisplayValues(t *testing.T) {
	sheet, err := Read(strings.NewReader("2,=A1*10\n"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, sheet, false); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "2,20" {
		t.Errorf("display CSV = %q, want %q", got, "2,20")
	}
}

func TestWriteFormulasRoundTrip(t *testing.T) {
	sheet, err := Read(strings.NewReader("2,=A1*10\n"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, sheet, true); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.RawContent(0, 1); got != "=A1*10" {
		t.Errorf("raw B1 after round trip = %q", got)
	}
	if got := reloaded.DisplayValue(0, 1); got != "20" {
		t.Errorf("B1 after round trip = %q, want %q", got, "20")
	}
}

func TestWriteFileAndReadFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sheet.csv"

	sheet, err := Read(strings.NewReader("5,=A1+1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, sheet, true); err != nil {
		t.Fatal(err)
	}

	reloaded, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.DisplayValue(0, 1); got != "6" {
		t.Errorf("B1 = %q, want %q", got, "6")
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(t.TempDir() + "/nope.csv"); err == nil {
		t.Error("expected error for missing file")
	}
}
