// Package shell provides the interactive cellgrid REPL.
package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/klytics/cellgrid/internal/docstore"
	"github.com/klytics/cellgrid/internal/engine"
	"github.com/klytics/cellgrid/internal/formats/csvio"
	"github.com/klytics/cellgrid/internal/formats/xlsx"
	"github.com/klytics/cellgrid/internal/output"
)

// Session manages an interactive grid editing session. State lives in
// a single sheet that commands mutate in place.
type Session struct {
	Sheet          *engine.Sheet
	Docs           *docstore.Store
	CommandHistory []string
	HistoryFile    string
	StartTime      time.Time

	// KnownCommands is the list of shell commands for completion.
	KnownCommands []string
}

// NewSession creates a new interactive session with an empty sheet.
func NewSession(docs *docstore.Store) (*Session, error) {
	home, _ := os.UserHomeDir()
	histFile := filepath.Join(home, ".cellgrid", "shell_history")

	// Ensure parent dir exists
	os.MkdirAll(filepath.Dir(histFile), 0755)

	return &Session{
		Sheet:       engine.NewSheet(),
		Docs:        docs,
		HistoryFile: histFile,
		StartTime:   time.Now(),
		KnownCommands: []string{
			"show", "get", "raw", "clear", "new",
			"import", "export", "save", "load", "docs",
			"funcs", "help", "history", "exit", "quit",
		},
	}, nil
}

// Run starts the REPL loop. Blocks until 'exit' or Ctrl+D.
func (s *Session) Run() error {
	completer := readline.NewPrefixCompleter(s.buildCompleter()...)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "grid> ",
		HistoryFile:     s.HistoryFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("cellgrid — Interactive Grid Shell")
	fmt.Println("Type 'A1=value' to set cells, '=FORMULA' to evaluate, 'help' for commands.")
	fmt.Println()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.CommandHistory = append(s.CommandHistory, line)

		if line == "exit" || line == "quit" {
			elapsed := time.Since(s.StartTime)
			fmt.Printf("\nSession ended. %d commands run in %s.\n",
				len(s.CommandHistory)-1, formatDuration(elapsed))
			return nil
		}

		out, err := s.Eval(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		} else if out != "" {
			fmt.Print(out)
			if !strings.HasSuffix(out, "\n") {
				fmt.Println()
			}
		}
	}

	return nil
}

// Eval executes a single shell line and returns its output.
func (s *Session) Eval(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}

	// "=SUM(A1:A3)" evaluates a one-shot formula against the sheet.
	if strings.HasPrefix(line, "=") {
		return s.Sheet.Evaluate(line), nil
	}

	// "A1=value" assigns a cell. The reference must parse, otherwise
	// fall through so "export out.csv" style commands still work.
	if coord, value, ok := splitAssignment(line); ok {
		s.Sheet.SetCell(coord.Row, coord.Col, value)
		return s.Sheet.DisplayValue(coord.Row, coord.Col), nil
	}

	parts := strings.Fields(line)
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "show":
		var buf strings.Builder
		opts := output.GridOptions{}
		if len(args) > 0 && args[0] == "formulas" {
			opts.ShowFormulas = true
		}
		output.WriteGrid(&buf, s.Sheet, opts)
		return buf.String(), nil

	case "get", "raw":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: %s <cell>", cmd)
		}
		coord, err := engine.ParseRef(args[0])
		if err != nil {
			return "", err
		}
		if cmd == "raw" {
			return s.Sheet.RawContent(coord.Row, coord.Col), nil
		}
		return s.Sheet.DisplayValue(coord.Row, coord.Col), nil

	case "clear":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: clear <cell>")
		}
		coord, err := engine.ParseRef(args[0])
		if err != nil {
			return "", err
		}
		s.Sheet.SetCell(coord.Row, coord.Col, "")
		return fmt.Sprintf("cleared %s", args[0]), nil

	case "new":
		s.Sheet = engine.NewSheet()
		return "new empty sheet", nil

	case "import":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: import <file.csv|file.xlsx>")
		}
		sheet, err := loadFile(args[0])
		if err != nil {
			return "", err
		}
		s.Sheet = sheet
		return fmt.Sprintf("loaded %d cells from %s", sheet.Store().Len(), args[0]), nil

	case "export":
		if len(args) < 1 {
			return "", fmt.Errorf("usage: export <file.csv|file.xlsx> [formulas]")
		}
		formulas := len(args) > 1 && args[1] == "formulas"
		if err := writeFile(args[0], s.Sheet, formulas); err != nil {
			return "", err
		}
		return fmt.Sprintf("wrote %s", args[0]), nil

	case "save":
		if s.Docs == nil {
			return "", fmt.Errorf("document store not configured")
		}
		if len(args) != 1 {
			return "", fmt.Errorf("usage: save <name>")
		}
		if err := s.Docs.Save(args[0], s.Sheet); err != nil {
			return "", err
		}
		return fmt.Sprintf("saved %q", args[0]), nil

	case "load":
		if s.Docs == nil {
			return "", fmt.Errorf("document store not configured")
		}
		if len(args) != 1 {
			return "", fmt.Errorf("usage: load <name>")
		}
		sheet, err := s.Docs.Load(args[0])
		if err != nil {
			return "", err
		}
		s.Sheet = sheet
		return fmt.Sprintf("loaded %q (%d cells)", args[0], sheet.Store().Len()), nil

	case "docs":
		if s.Docs == nil {
			return "", fmt.Errorf("document store not configured")
		}
		infos, err := s.Docs.List()
		if err != nil {
			return "", err
		}
		if len(infos) == 0 {
			return "no saved documents", nil
		}
		var buf strings.Builder
		for _, info := range infos {
			fmt.Fprintf(&buf, "  %s (%d cells)\n", info.Name, info.Cells)
		}
		return buf.String(), nil

	case "funcs":
		return strings.Join(s.Sheet.Functions().Names(), " "), nil

	case "history":
		var buf strings.Builder
		for i, c := range s.CommandHistory {
			fmt.Fprintf(&buf, "  %d  %s\n", i+1, c)
		}
		return buf.String(), nil

	case "help":
		return helpText, nil

	default:
		return "", fmt.Errorf("unknown command %q — type 'help' for commands", cmd)
	}
}

// splitAssignment parses "A1=raw content". Everything after the first
// '=' is the cell content verbatim, so "B2==A1*2" sets a formula.
func splitAssignment(line string) (engine.Coord, string, bool) {
	idx := strings.Index(line, "=")
	if idx <= 0 {
		return engine.Coord{}, "", false
	}
	ref := strings.TrimSpace(line[:idx])
	coord, err := engine.ParseRef(ref)
	if err != nil {
		return engine.Coord{}, "", false
	}
	return coord, strings.TrimSpace(line[idx+1:]), true
}

// Complete returns tab-completion candidates for the given input.
func (s *Session) Complete(input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return s.KnownCommands
	}

	parts := strings.Fields(input)
	if len(parts) == 1 && !strings.HasSuffix(input, " ") {
		prefix := parts[0]
		var matches []string
		for _, cmd := range s.KnownCommands {
			if strings.HasPrefix(cmd, prefix) {
				matches = append(matches, cmd)
			}
		}
		sort.Strings(matches)
		return matches
	}

	return nil
}

func (s *Session) buildCompleter() []readline.PrefixCompleterInterface {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range s.KnownCommands {
		items = append(items, readline.PcItem(cmd))
	}
	return items
}

const helpText = `Cell editing:
  A1=42            set a literal value
  B1==A1*2         set a formula (note the double '=')
  =SUM(A1:B1)      evaluate a formula without storing it
  get A1           show a cell's computed value
  raw A1           show a cell's raw content
  clear A1         empty a cell
  new              start a fresh sheet

Files and documents:
  import <file>    load a .csv or .xlsx file
  export <file> [formulas]   write the grid out
  save <name>      save to the document store
  load <name>      load from the document store
  docs             list saved documents

Other:
  show [formulas]  render the grid
  funcs            list available functions
  history          show command history
  exit             exit the shell`

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, s)
}

func loadFile(path string) (*engine.Sheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csvio.ReadFile(path)
	case ".xlsx":
		return xlsx.ReadFile(path, "")
	default:
		return nil, fmt.Errorf("unsupported format %q — use .csv or .xlsx", filepath.Ext(path))
	}
}

func writeFile(path string, sheet *engine.Sheet, formulas bool) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csvio.WriteFile(path, sheet, formulas)
	case ".xlsx":
		return xlsx.WriteFile(path, sheet, formulas)
	default:
		return fmt.Errorf("unsupported format %q — use .csv or .xlsx", filepath.Ext(path))
	}
}
