// Package batch provides a YAML-based script runner for grid edits:
// import a file, apply a sequence of cell writes and evaluations, and
// export the result.
package batch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a complete batch definition.
type Script struct {
	Name  string `yaml:"name" json:"name"`
	Steps []Step `yaml:"steps" json:"steps"`
}

// Step is a single action in a script.
type Step struct {
	ID       string `yaml:"id" json:"id"`
	Action   string `yaml:"action" json:"action"` // "import", "set", "eval", "export"
	File     string `yaml:"file,omitempty" json:"file,omitempty"`
	Sheet    string `yaml:"sheet,omitempty" json:"sheet,omitempty"` // worksheet name for xlsx import
	Cell     string `yaml:"cell,omitempty" json:"cell,omitempty"`
	Value    string `yaml:"value,omitempty" json:"value,omitempty"`
	Formula  string `yaml:"formula,omitempty" json:"formula,omitempty"`
	Formulas bool   `yaml:"formulas,omitempty" json:"formulas,omitempty"` // export formulas instead of values
}

// StepResult holds the outcome of one executed step.
type StepResult struct {
	StepID string `json:"stepId"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// LoadScript reads and parses a batch YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("script file not found: %s — check that the path is correct", path)
		}
		return nil, fmt.Errorf("could not read script file %s: %w", path, err)
	}
	return ParseScript(data)
}

// ParseScript parses a batch script from YAML bytes.
func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("invalid script YAML: %w", err)
	}
	if err := validateScript(&script); err != nil {
		return nil, err
	}
	return &script, nil
}

func validateScript(script *Script) error {
	if script.Name == "" {
		return fmt.Errorf("script is missing a 'name' field")
	}
	if len(script.Steps) == 0 {
		return fmt.Errorf("script %q has no steps defined", script.Name)
	}

	seen := make(map[string]bool)
	for i, step := range script.Steps {
		if step.ID == "" {
			return fmt.Errorf("step %d is missing an 'id' field", i+1)
		}
		if seen[step.ID] {
			return fmt.Errorf("duplicate step ID %q — each step must have a unique ID", step.ID)
		}
		seen[step.ID] = true

		switch step.Action {
		case "import", "export":
			if step.File == "" {
				return fmt.Errorf("step %q (%s) is missing a 'file' field", step.ID, step.Action)
			}
		case "set":
			if step.Cell == "" {
				return fmt.Errorf("step %q (set) is missing a 'cell' field", step.ID)
			}
		case "eval":
			if step.Formula == "" {
				return fmt.Errorf("step %q (eval) is missing a 'formula' field", step.ID)
			}
		case "":
			return fmt.Errorf("step %q is missing an 'action' field", step.ID)
		default:
			return fmt.Errorf("step %q has unknown action %q — supported actions: import, set, eval, export", step.ID, step.Action)
		}
	}
	return nil
}
