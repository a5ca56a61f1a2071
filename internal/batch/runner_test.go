package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseScript(t *testing.T) {
	yaml := `
name: monthly
steps:
  - id: seed
    action: set
    cell: A1
    value: "10"
  - id: total
    action: eval
    formula: "=A1*2"
`
	script, err := ParseScript([]byte(yaml))
	if err != nil {
		t.Fatal(err)
	}
	if script.Name != "monthly" || len(script.Steps) != 2 {
		t.Errorf("parsed %q with %d steps", script.Name, len(script.Steps))
	}
}

func TestParseScriptValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no name", "steps: [{id: a, action: eval, formula: '=1'}]", "missing a 'name'"},
		{"no steps", "name: x", "no steps"},
		{"no id", "name: x\nsteps: [{action: eval, formula: '=1'}]", "missing an 'id'"},
		{"dup id", "name: x\nsteps: [{id: a, action: eval, formula: '=1'}, {id: a, action: eval, formula: '=2'}]", "duplicate step ID"},
		{"no action", "name: x\nsteps: [{id: a}]", "missing an 'action'"},
		{"bad action", "name: x\nsteps: [{id: a, action: fly}]", "unknown action"},
		{"set no cell", "name: x\nsteps: [{id: a, action: set}]", "missing a 'cell'"},
		{"import no file", "name: x\nsteps: [{id: a, action: import}]", "missing a 'file'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestRunSetAndEval(t *testing.T) {
	script, err := ParseScript([]byte(`
name: calc
steps:
  - id: a
    action: set
    cell: A1
    value: "2"
  - id: b
    action: set
    cell: A2
    value: "=A1*10"
  - id: check
    action: eval
    formula: "=A1+A2"
`))
	if err != nil {
		t.Fatal(err)
	}

	runner := NewRunner()
	results, err := runner.Run(script)
	if err != nil {
		t.Fatal(err)
	}

	if results[1].Output != "20" {
		t.Errorf("set formula output = %q, want %q", results[1].Output, "20")
	}
	if results[2].Output != "22" {
		t.Errorf("eval output = %q, want %q", results[2].Output, "22")
	}
}

func TestRunImportExport(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(in, []byte("1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	script, err := ParseScript([]byte(`
name: roundtrip
steps:
  - id: load
    action: import
    file: ` + in + `
  - id: total
    action: set
    cell: C1
    value: "=A1+B1"
  - id: save
    action: export
    file: ` + out + `
`))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewRunner().Run(script); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "1,2,3" {
		t.Errorf("exported CSV = %q, want %q", got, "1,2,3")
	}
}

func TestRunStopsOnFailure(t *testing.T) {
	script, err := ParseScript([]byte(`
name: failing
steps:
  - id: bad
    action: import
    file: /nonexistent/input.csv
  - id: never
    action: eval
    formula: "=1"
`))
	if err != nil {
		t.Fatal(err)
	}

	results, err := NewRunner().Run(script)
	if err == nil {
		t.Fatal("expected run to fail")
	}
	if len(results) != 1 || results[0].Error == "" {
		t.Errorf("results = %+v, want one failed step", results)
	}
}
