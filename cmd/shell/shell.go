// Package shell provides the "cellgrid shell" interactive REPL command.
package shell

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/cellgrid/internal/config"
	"github.com/klytics/cellgrid/internal/docstore"
	shellpkg "github.com/klytics/cellgrid/internal/shell"
)

// NewCommand creates the "shell" command.
func NewCommand() *cobra.Command {
	var (
		evalCmd string
		docName string
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive grid shell",
		Long: `Start an interactive REPL for grid editing with tab completion.

The grid lives in memory for the whole session; formulas recalculate on
every edit. Use 'save'/'load' to persist grids to the document store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			docs, err := docstore.New(cfg.Documents.Dir)
			if err != nil {
				return err
			}

			session, err := shellpkg.NewSession(docs)
			if err != nil {
				return err
			}
			if docName != "" {
				sheet, err := docs.Load(docName)
				if err != nil {
					return err
				}
				session.Sheet = sheet
			}
			if evalCmd != "" {
				out, err := session.Eval(evalCmd)
				if err != nil {
					return err
				}
				fmt.Print(out)
				return nil
			}
			return session.Run()
		},
	}

	cmd.Flags().StringVar(&evalCmd, "eval", "", "Run a single shell command and exit")
	cmd.Flags().StringVar(&docName, "doc", "", "Load a saved document at startup")
	return cmd
}
