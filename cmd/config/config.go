// Package config provides CLI commands for configuration management.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/cellgrid/internal/config"
	"github.com/klytics/cellgrid/internal/output"
)

// NewCommand returns the config command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cellgrid configuration",
		Long:  "View and validate cellgrid settings from ~/.cellgrid/config.yaml.",
	}

	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newPathCommand())
	cmd.AddCommand(newValidateCommand())

	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if jsonFlag {
				return output.PrintJSON("config show", cfg)
			}

			fmt.Printf("provider:            %s\n", cfg.Provider)
			fmt.Printf("model:               %s\n", orUnset(cfg.Model))
			fmt.Printf("engine.max_formulas: %d\n", cfg.Engine.MaxFormulas)
			fmt.Printf("output.format:       %s\n", cfg.Output.Format)
			fmt.Printf("output.color:        %t\n", cfg.Output.Color)
			fmt.Printf("documents.dir:       %s\n", cfg.Documents.Dir)
			return nil
		},
	}
}

func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(filepath.Join(config.Dir(), "config.yaml"))
		},
	}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			issues := config.Validate(cfg)

			if jsonFlag {
				return output.PrintJSON("config validate", issues)
			}

			if len(issues) == 0 {
				color.New(color.FgGreen).Println("Configuration is valid")
				return nil
			}

			errors := 0
			for _, issue := range issues {
				switch issue.Severity {
				case "error":
					errors++
					color.New(color.FgRed).Printf("  %s: %s\n", issue.Key, issue.Message)
				default:
					color.New(color.FgYellow).Printf("  %s: %s\n", issue.Key, issue.Message)
				}
			}
			if errors > 0 {
				return fmt.Errorf("configuration has %d error(s)", errors)
			}
			return nil
		},
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(provider default)"
	}
	return s
}
