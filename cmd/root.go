// Package cmd contains all CLI commands for the cellgrid binary.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cmdbatch "github.com/klytics/cellgrid/cmd/batch"
	"github.com/klytics/cellgrid/cmd/chart"
	cmdconfig "github.com/klytics/cellgrid/cmd/config"
	"github.com/klytics/cellgrid/cmd/eval"
	"github.com/klytics/cellgrid/cmd/sheet"
	cmdshell "github.com/klytics/cellgrid/cmd/shell"
	"github.com/klytics/cellgrid/cmd/version"
	cmdwatch "github.com/klytics/cellgrid/cmd/watch"
)

var (
	jsonOutput bool
	verbose    bool
	modelName  string
	provider   string
	noColor    bool
)

// NewRootCommand creates and returns the root cobra command with all
// subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cellgrid",
		Short: "Spreadsheet formula engine for the terminal",
		Long: `cellgrid — spreadsheets without the spreadsheet.

Evaluate formulas, edit grids, and automate recalculation from your
terminal. Reads and writes .csv and .xlsx, with A1-style references,
ranges, and a library of builtin functions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", defaultModel(), "AI model name override")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", defaultProvider(), "AI provider: anthropic | openai | ollama")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	rootCmd.AddCommand(eval.NewCommand())
	rootCmd.AddCommand(sheet.NewCommand())
	rootCmd.AddCommand(cmdshell.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdbatch.NewCommand())
	rootCmd.AddCommand(chart.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func defaultModel() string {
	if m := os.Getenv("CELLGRID_MODEL"); m != "" {
		return m
	}
	return ""
}

func defaultProvider() string {
	if p := os.Getenv("CELLGRID_PROVIDER"); p != "" {
		return p
	}
	return "anthropic"
}
