// Package sheet provides CLI commands for editing named grid documents.
package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klytics/cellgrid/internal/config"
	"github.com/klytics/cellgrid/internal/docstore"
	"github.com/klytics/cellgrid/internal/engine"
	"github.com/klytics/cellgrid/internal/formats/csvio"
	"github.com/klytics/cellgrid/internal/formats/xlsx"
	"github.com/klytics/cellgrid/internal/output"
)

// NewCommand returns the sheet command group.
func NewCommand() *cobra.Command {
	var docName string

	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Edit and inspect grid documents",
		Long: `Work with named grid documents stored under the cellgrid documents
directory. Cells are recalculated on every write, so formulas always
show current values.

Examples:
  cellgrid sheet set A1 100 --doc budget
  cellgrid sheet set B1 '=A1*1.2' --doc budget
  cellgrid sheet show --doc budget`,
	}

	cmd.PersistentFlags().StringVar(&docName, "doc", "scratch", "Document name")

	cmd.AddCommand(newSetCommand(&docName))
	cmd.AddCommand(newGetCommand(&docName, false))
	cmd.AddCommand(newGetCommand(&docName, true))
	cmd.AddCommand(newShowCommand(&docName))
	cmd.AddCommand(newImportCommand(&docName))
	cmd.AddCommand(newExportCommand(&docName))
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newDeleteCommand())

	return cmd
}

func openStore() (*docstore.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return docstore.New(cfg.Documents.Dir)
}

// openDoc loads a named document, or starts an empty sheet if it does
// not exist yet.
func openDoc(docs *docstore.Store, name string) *engine.Sheet {
	sheet, err := docs.Load(name)
	if err != nil {
		return engine.NewSheet()
	}
	return sheet
}

func newSetCommand(docName *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <cell> <value>",
		Short: "Set a cell's content and recalculate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			coord, err := engine.ParseRef(args[0])
			if err != nil {
				return fmt.Errorf("invalid cell reference %q: %w", args[0], err)
			}

			docs, err := openStore()
			if err != nil {
				return err
			}
			sheet := openDoc(docs, *docName)
			sheet.SetCell(coord.Row, coord.Col, args[1])
			if err := docs.Save(*docName, sheet); err != nil {
				return err
			}

			value := sheet.DisplayValue(coord.Row, coord.Col)
			if jsonFlag {
				return output.PrintJSON("sheet set", map[string]string{
					"doc": *docName, "cell": args[0], "value": value,
				})
			}
			fmt.Println(value)
			return nil
		},
	}
}

func newGetCommand(docName *string, raw bool) *cobra.Command {
	use, short := "get <cell>", "Print a cell's computed value"
	if raw {
		use, short = "raw <cell>", "Print a cell's raw content"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			coord, err := engine.ParseRef(args[0])
			if err != nil {
				return fmt.Errorf("invalid cell reference %q: %w", args[0], err)
			}

			docs, err := openStore()
			if err != nil {
				return err
			}
			sheet := openDoc(docs, *docName)

			value := sheet.DisplayValue(coord.Row, coord.Col)
			if raw {
				value = sheet.RawContent(coord.Row, coord.Col)
			}

			if jsonFlag {
				cmdName := "sheet get"
				if raw {
					cmdName = "sheet raw"
				}
				return output.PrintJSON(cmdName, map[string]string{
					"doc": *docName, "cell": args[0], "value": value,
				})
			}
			fmt.Println(value)
			return nil
		},
	}
}

func newShowCommand(docName *string) *cobra.Command {
	var showFormulas bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render the grid as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			docs, err := openStore()
			if err != nil {
				return err
			}
			sheet := openDoc(docs, *docName)

			if jsonFlag {
				cells := make(map[string]string)
				for _, coord := range sheet.Store().Coords() {
					text := sheet.DisplayValue(coord.Row, coord.Col)
					if showFormulas {
						text = sheet.RawContent(coord.Row, coord.Col)
					}
					cells[engine.FormatRef(coord)] = text
				}
				return output.PrintJSON("sheet show", map[string]interface{}{
					"doc": *docName, "cells": cells,
				})
			}

			output.WriteGrid(os.Stdout, sheet, output.GridOptions{ShowFormulas: showFormulas})
			return nil
		},
	}

	cmd.Flags().BoolVar(&showFormulas, "formulas", false, "Show raw formulas instead of values")
	return cmd
}

func newImportCommand(docName *string) *cobra.Command {
	var sheetName string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a .csv or .xlsx file into a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var (
				sheet *engine.Sheet
				err   error
			)
			switch strings.ToLower(filepath.Ext(path)) {
			case ".csv":
				sheet, err = csvio.ReadFile(path)
			case ".xlsx":
				sheet, err = xlsx.ReadFile(path, sheetName)
			default:
				return fmt.Errorf("unsupported import format %q — use .csv or .xlsx", filepath.Ext(path))
			}
			if err != nil {
				return err
			}

			docs, err := openStore()
			if err != nil {
				return err
			}
			if err := docs.Save(*docName, sheet); err != nil {
				return err
			}

			fmt.Printf("Imported %d cells into %q\n", sheet.Store().Len(), *docName)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet name for .xlsx import (default: first sheet)")
	return cmd
}

func newExportCommand(docName *string) *cobra.Command {
	var formulas bool

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a document to .csv or .xlsx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			docs, err := openStore()
			if err != nil {
				return err
			}
			sheet, err := docs.Load(*docName)
			if err != nil {
				return err
			}

			switch strings.ToLower(filepath.Ext(path)) {
			case ".csv":
				err = csvio.WriteFile(path, sheet, formulas)
			case ".xlsx":
				err = xlsx.WriteFile(path, sheet, formulas)
			default:
				return fmt.Errorf("unsupported export format %q — use .csv or .xlsx", filepath.Ext(path))
			}
			if err != nil {
				return err
			}

			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&formulas, "formulas", false, "Export raw formulas instead of computed values")
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			docs, err := openStore()
			if err != nil {
				return err
			}
			infos, err := docs.List()
			if err != nil {
				return err
			}

			if jsonFlag {
				return output.PrintJSON("sheet list", infos)
			}

			if len(infos) == 0 {
				fmt.Println("No saved documents")
				return nil
			}
			for _, info := range infos {
				fmt.Printf("%-20s %5d cells  %s\n", info.Name, info.Cells,
					info.SavedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := openStore()
			if err != nil {
				return err
			}
			if err := docs.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %q\n", args[0])
			return nil
		},
	}
}
