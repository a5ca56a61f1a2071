// Package chart provides the "cellgrid chart" AI chart suggestion command.
package chart

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/cellgrid/internal/ai"
	"github.com/klytics/cellgrid/internal/config"
	"github.com/klytics/cellgrid/internal/docstore"
	"github.com/klytics/cellgrid/internal/engine"
	"github.com/klytics/cellgrid/internal/formats/csvio"
	"github.com/klytics/cellgrid/internal/formats/xlsx"
	"github.com/klytics/cellgrid/internal/output"
)

// NewCommand returns the chart subcommand.
func NewCommand() *cobra.Command {
	var docName string

	cmd := &cobra.Command{
		Use:   "chart [file]",
		Short: "Suggest a chart for grid data using AI",
		Long: `Sends the computed grid to an AI provider and prints the suggested
chart: type, title, and the A1-style ranges to plot.

Examples:
  cellgrid chart sales.csv
  cellgrid chart --doc budget
  cellgrid chart sales.xlsx --provider ollama`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			providerName, _ := cmd.Flags().GetString("provider")
			modelName, _ := cmd.Flags().GetString("model")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if providerName == "" {
				providerName = cfg.Provider
			}
			if modelName == "" {
				modelName = cfg.Model
			}

			sheet, err := loadTarget(args, docName, cfg)
			if err != nil {
				return err
			}

			provider, err := ai.NewProvider(providerName, modelName)
			if err != nil {
				return err
			}

			suggestion, err := ai.SuggestChart(cmd.Context(), provider, sheet)
			if err != nil {
				if jsonFlag {
					output.PrintJSONError("chart", err, output.ExitSystemError)
				}
				return err
			}

			if jsonFlag {
				return output.PrintJSON("chart", suggestion)
			}

			color.New(color.Bold).Printf("%s chart: %s\n", capitalize(suggestion.Type), suggestion.Title)
			fmt.Printf("  x: %s\n", suggestion.XRange)
			fmt.Printf("  y: %s\n", suggestion.YRange)
			fmt.Printf("  %s\n", suggestion.Reason)
			return nil
		},
	}

	cmd.Flags().StringVar(&docName, "doc", "", "Use a saved document instead of a file")

	return cmd
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func loadTarget(args []string, docName string, cfg *config.Config) (*engine.Sheet, error) {
	if docName != "" {
		docs, err := docstore.New(cfg.Documents.Dir)
		if err != nil {
			return nil, err
		}
		return docs.Load(docName)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("nothing to chart — pass a file or use --doc")
	}

	path := args[0]
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csvio.ReadFile(path)
	case ".xlsx":
		return xlsx.ReadFile(path, "")
	default:
		return nil, fmt.Errorf("unsupported grid format %q — use .csv or .xlsx", filepath.Ext(path))
	}
}
