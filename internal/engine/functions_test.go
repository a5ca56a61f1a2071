package engine

import (
	"strings"
	"testing"
)

func TestNumericFunctions(t *testing.T) {
	grid := testGrid{"A1": "1", "A2": "2", "A3": "3", "A4": "x"}

	tests := []struct {
		formula string
		want    string
	}{
		{"=SUM(A1:A4)", "6"},
		{"=SUM()", "0"},
		{"=AVERAGE(A1:A3)", "2"},
		{"=AVERAGE(A4:A4)", "0"}, // nothing numeric
		{"=MAX(A1:A4)", "3"},
		{"=MIN(A1:A4)", "1"},
		{"=MAX(A4:A4)", "0"}, // sentinel never leaks
		{"=MIN(A4:A4)", "0"},
		{"=COUNT(A1:A4)", "3"},
		{"=COUNT(A4:A4)", "0"},
		{"=MEDIAN(A1:A3)", "2"},
		{"=MEDIAN(A1:A2)", "1.5"},
		{"=STDEV(A1:A3)", "1"},
		{"=ROUND(3.14159,2)", "3.14"},
		{"=ROUND(2.5)", "3"},
		{"=ABS(0-7)", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			if got := evalOn(t, grid, tt.formula); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.formula, got, tt.want)
			}
		})
	}
}

func TestStringFunctions(t *testing.T) {
	grid := testGrid{"A1": "hello", "A2": "World"}

	tests := []struct {
		formula string
		want    string
	}{
		{`=UPPER(A1)`, "HELLO"},
		{`=LOWER(A2)`, "world"},
		{`=LEN(A1)`, "5"},
		{`=LEN(12.5)`, "4"},
		{`=CONCATENATE(A1," ",A2)`, "hello World"},
		{`=CONCATENATE(A1:A2)`, "helloWorld"},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			if got := evalOn(t, grid, tt.formula); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.formula, got, tt.want)
			}
		})
	}
}

func TestLogicalFunctions(t *testing.T) {
	grid := testGrid{"A1": "1", "A2": "0", "A3": "5"}

	tests := []struct {
		formula string
		want    string
	}{
		{`=IF(A1,"yes","no")`, "yes"},
		{`=IF(A2,"yes","no")`, "no"},
		{`=IF(A1,A3,0)`, "5"},
		{`=AND(A1,A3)`, "TRUE"},
		{`=AND(A1,A2)`, "FALSE"},
		{`=OR(A2,A2)`, "FALSE"},
		{`=OR(A2,A1)`, "TRUE"},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			if got := evalOn(t, grid, tt.formula); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.formula, got, tt.want)
			}
		})
	}
}

func TestVlookup(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    string
	}{
		{"match", `=VLOOKUP(5, [[5,"x"],[6,"y"]], 2)`, "x"},
		{"second row", `=VLOOKUP(6, [[5,"x"],[6,"y"]], 2)`, "y"},
		{"no match", `=VLOOKUP(7, [[5,"x"],[6,"y"]], 2)`, DisplayNA},
		{"string key", `=VLOOKUP("b", [["a",1],["b",2]], 2)`, "2"},
		{"key column", `=VLOOKUP(6, [[5,"x"],[6,"y"]], 1)`, "6"},
		{"column past row", `=VLOOKUP(5, [[5,"x"]], 3)`, DisplayNA},
		{"bad column", `=VLOOKUP(5, [[5,"x"]], 0)`, DisplayError},
		{"scalar table", `=VLOOKUP(5, 5, 1)`, DisplayError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalOn(t, testGrid{}, tt.formula); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.formula, got, tt.want)
			}
		})
	}
}

func TestVlookupAgainstGridColumn(t *testing.T) {
	// a single-column range behaves as a one-column table
	grid := testGrid{"A1": "10", "A2": "20", "A3": "30"}
	if got := evalOn(t, grid, "=VLOOKUP(20, A1:A3, 1)"); got != "20" {
		t.Errorf("VLOOKUP over range = %q, want %q", got, "20")
	}
}

func TestRegisterCustomFunction(t *testing.T) {
	funcs := NewRegistry()
	funcs.Register("DOUBLE", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, newEvalError("DOUBLE requires exactly one argument")
		}
		return coerceNumber(args[0]) * 2, nil
	})

	got := Evaluate("=DOUBLE(21)", testGrid{}, funcs)
	if got != "42" {
		t.Errorf("custom function = %q, want %q", got, "42")
	}

	// case-insensitive lookup
	if _, ok := funcs.Lookup("double"); !ok {
		t.Error("Lookup should be case insensitive")
	}
}

func TestRegistryNames(t *testing.T) {
	names := NewRegistry().Names()
	if len(names) == 0 {
		t.Fatal("registry has no builtins")
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"SUM", "VLOOKUP", "IF", "CONCATENATE"} {
		if !strings.Contains(joined, want) {
			t.Errorf("registry missing %s", want)
		}
	}
	if !sortedStrings(names) {
		t.Error("Names should be sorted")
	}
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}
