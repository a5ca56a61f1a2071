package engine

// DefaultMaxFormulas bounds the work of a single recalculation pass.
// A pass that would evaluate more formulas than this stops and marks
// the remainder with #ERROR! to keep the host responsive.
const DefaultMaxFormulas = 100000

// Sheet is the host-facing facade over the store, dependency graph,
// and function registry. All operations are synchronous and run to
// completion in the caller's goroutine; Sheet is not safe for
// concurrent use.
type Sheet struct {
	store       *Store
	funcs       *Registry
	graph       *depGraph
	maxFormulas int
}

// NewSheet returns an empty sheet with the built-in function library.
func NewSheet() *Sheet {
	return &Sheet{
		store:       NewStore(),
		funcs:       NewRegistry(),
		graph:       newDepGraph(),
		maxFormulas: DefaultMaxFormulas,
	}
}

// SetMaxFormulas overrides the per-pass recalculation budget.
// Values below 1 restore the default.
func (s *Sheet) SetMaxFormulas(limit int) {
	if limit < 1 {
		limit = DefaultMaxFormulas
	}
	s.maxFormulas = limit
}

// Register adds a custom function to the sheet's registry.
func (s *Sheet) Register(name string, fn Func) {
	s.funcs.Register(name, fn)
}

// Functions returns the sheet's function registry.
func (s *Sheet) Functions() *Registry {
	return s.funcs
}

// Store exposes the underlying cell store for read-mostly hosts
// (rendering, export).
func (s *Sheet) Store() *Store {
	return s.store
}

// SetCell writes content into a cell and recomputes the affected
// formulas. Formula dependencies are re-extracted from the new text
// before the recompute pass runs.
func (s *Sheet) SetCell(row, col int, text string) {
	s.LoadCell(row, col, text)
	s.recompute(s.graph.affected(Coord{Row: row, Col: col}))
}

// LoadCell writes content without triggering a recompute pass. Bulk
// loaders (import, document restore) call this per cell and then
// RecalcAll once.
func (s *Sheet) LoadCell(row, col int, text string) {
	coord := Coord{Row: row, Col: col}
	s.store.SetCell(coord, text)

	if formula, ok := s.store.Formula(coord); ok {
		reads := make(map[Coord]struct{})
		if node, err := parseFormula(formula[1:]); err == nil {
			collectRefs(node, reads)
		}
		s.graph.setFormula(coord, reads)
	} else {
		s.graph.removeFormula(coord)
	}
}

// DisplayValue returns the string shown for a cell.
func (s *Sheet) DisplayValue(row, col int) string {
	return s.store.DisplayValue(Coord{Row: row, Col: col})
}

// RawContent returns the formula text if the cell holds a formula,
// else the literal content.
func (s *Sheet) RawContent(row, col int) string {
	return s.store.RawContent(Coord{Row: row, Col: col})
}

// Evaluate evaluates formula text against the current grid without
// writing anything back. Non-formula text is returned unchanged.
func (s *Sheet) Evaluate(text string) string {
	return Evaluate(text, s.store, s.funcs)
}

// RecalcAll re-evaluates every stored formula in dependency order.
// Hosts call this after bulk mutations such as an import.
func (s *Sheet) RecalcAll() {
	s.recompute(s.graph.allFormulas())
}

// recompute evaluates the given formula cells in topological order.
// Cycle members are marked #CIRCULAR! before anything evaluates, so
// their dependents read a deterministic value. A failing cell never
// stops the pass.
func (s *Sheet) recompute(cells map[Coord]struct{}) {
	if len(cells) == 0 {
		return
	}

	ordered, cyclic := s.graph.order(cells)

	circular := &CellError{Code: ErrorCodeCircular, Reason: "cell participates in a reference cycle"}
	for _, coord := range cyclic {
		s.store.setDisplay(coord, circular.Display())
	}

	budget := s.maxFormulas
	for _, coord := range ordered {
		formula, ok := s.store.Formula(coord)
		if !ok {
			continue
		}
		if budget <= 0 {
			s.store.setDisplay(coord, DisplayError)
			continue
		}
		budget--
		s.store.setDisplay(coord, Evaluate(formula, s.store, s.funcs))
	}
}
