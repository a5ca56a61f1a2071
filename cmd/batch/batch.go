// Package batch provides the "cellgrid batch" script runner command.
package batch

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/cellgrid/internal/batch"
	"github.com/klytics/cellgrid/internal/output"
)

// NewCommand returns the batch subcommand.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <script.yaml>",
		Short: "Run a YAML script of grid operations",
		Long: `Runs a sequence of grid operations from a YAML script: import a file,
set cells, evaluate formulas, export results. A failing step stops the
run; earlier steps keep their effects.

Script format:
  name: monthly-report
  steps:
    - id: load
      action: import
      file: sales.csv
    - id: total
      action: set
      cell: D1
      value: "=SUM(A1:C1)"
    - id: save
      action: export
      file: report.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			script, err := batch.LoadScript(args[0])
			if err != nil {
				if jsonFlag {
					output.PrintJSONError("batch", err, output.ExitUserError)
				}
				return err
			}

			runner := batch.NewRunner()
			results, runErr := runner.Run(script)

			if jsonFlag {
				if runErr != nil {
					output.PrintJSON("batch", results)
					return runErr
				}
				return output.PrintJSON("batch", results)
			}

			for _, result := range results {
				if result.Error != "" {
					color.New(color.FgRed).Printf("  %s: %s\n", result.StepID, result.Error)
					continue
				}
				fmt.Printf("  %s: %s\n", result.StepID, result.Output)
			}
			if runErr != nil {
				return runErr
			}

			fmt.Printf("\nScript %q completed, %d steps.\n", script.Name, len(results))
			return nil
		},
	}

	return cmd
}
