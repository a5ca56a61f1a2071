// Package eval provides the "cellgrid eval" one-shot formula command.
package eval

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klytics/cellgrid/internal/engine"
	"github.com/klytics/cellgrid/internal/formats/csvio"
	"github.com/klytics/cellgrid/internal/formats/xlsx"
	"github.com/klytics/cellgrid/internal/output"
)

type evalResult struct {
	Formula string `json:"formula"`
	Result  string `json:"result"`
}

// NewCommand returns the eval subcommand.
func NewCommand() *cobra.Command {
	var (
		fromFile string
		sets     []string
	)

	cmd := &cobra.Command{
		Use:   "eval <formula>",
		Short: "Evaluate a formula and print the result",
		Long: `Evaluates a single formula, optionally against a grid loaded from a
file or built up from --cell flags.

Examples:
  cellgrid eval '=1+2*3'
  cellgrid eval '=SUM(A1:A3)' --cell A1=10 --cell A2=20 --cell A3=30
  cellgrid eval '=AVERAGE(B2:B13)' --from sales.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			formula := args[0]

			sheet := engine.NewSheet()
			if fromFile != "" {
				loaded, err := loadGrid(fromFile)
				if err != nil {
					if jsonFlag {
						output.PrintJSONError("eval", err, output.ExitUserError)
					}
					return err
				}
				sheet = loaded
			}

			for _, binding := range sets {
				ref, value, found := strings.Cut(binding, "=")
				if !found {
					return fmt.Errorf("invalid --cell %q — expected the form A1=value", binding)
				}
				coord, err := engine.ParseRef(ref)
				if err != nil {
					return fmt.Errorf("invalid --cell reference %q: %w", ref, err)
				}
				sheet.SetCell(coord.Row, coord.Col, value)
			}

			result := sheet.Evaluate(formula)

			if jsonFlag {
				return output.PrintJSON("eval", evalResult{Formula: formula, Result: result})
			}
			fmt.Println(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "from", "", "Load a .csv or .xlsx grid before evaluating")
	cmd.Flags().StringArrayVar(&sets, "cell", nil, "Set a cell before evaluating (A1=value, repeatable)")

	return cmd
}

func loadGrid(path string) (*engine.Sheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csvio.ReadFile(path)
	case ".xlsx":
		return xlsx.ReadFile(path, "")
	default:
		return nil, fmt.Errorf("unsupported grid format %q — use .csv or .xlsx", filepath.Ext(path))
	}
}
