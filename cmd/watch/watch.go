// Package watch provides the "cellgrid watch" auto-recalculation command.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/klytics/cellgrid/internal/engine"
	"github.com/klytics/cellgrid/internal/formats/csvio"
	"github.com/klytics/cellgrid/internal/formats/xlsx"
	w "github.com/klytics/cellgrid/internal/watch"
)

// NewCommand creates the "watch" command.
func NewCommand() *cobra.Command {
	var (
		debounce int
		outFile  string
	)

	cmd := &cobra.Command{
		Use:   "watch <directory> [directory...]",
		Short: "Watch directories and recalculate grid files on change",
		Long: `Watch directories for changed .csv and .xlsx files. Each change
reloads the file, recalculates all formulas, and reports cell and
formula counts. With --output, computed values are written out after
every recalculation.

Example:
  cellgrid watch ./reports --output computed.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			watcher, err := w.New(w.Config{
				Directories: args,
				Output:      outFile,
				Debounce:    debounce,
			})
			if err != nil {
				return err
			}

			watcher.Handler = func(path string) (int, int, error) {
				sheet, err := reload(path)
				if err != nil {
					return 0, 0, err
				}
				if outFile != "" {
					if err := csvio.WriteFile(outFile, sheet, false); err != nil {
						return 0, 0, err
					}
				}
				return sheet.Store().Len(), len(sheet.Store().FormulaCoords()), nil
			}

			fmt.Printf("Watching %s for grid files\n", strings.Join(args, ", "))
			fmt.Println("Press Ctrl+C to stop")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				fmt.Println("\nStopping watcher...")
				cancel()
			}()

			return watcher.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&debounce, "debounce", 500, "Debounce interval in milliseconds")
	cmd.Flags().StringVar(&outFile, "output", "", "Write computed values to this CSV after each recalculation")

	return cmd
}

func reload(path string) (*engine.Sheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csvio.ReadFile(path)
	case ".xlsx":
		return xlsx.ReadFile(path, "")
	default:
		return nil, fmt.Errorf("unsupported grid format %q", filepath.Ext(path))
	}
}
