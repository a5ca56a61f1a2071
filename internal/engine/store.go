package engine

import "sort"

// Store is the sparse grid of raw cell content plus a parallel map of
// formula text. A coordinate appears in the formula map if and only if
// its raw content starts with = — SetCell maintains that invariant.
type Store struct {
	raw      map[Coord]string
	formulas map[Coord]string
	display  map[Coord]string // computed results for formula cells
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		raw:      make(map[Coord]string),
		formulas: make(map[Coord]string),
		display:  make(map[Coord]string),
	}
}

// SetCell writes raw content at a coordinate and keeps the formula map
// in sync. Empty content clears the cell entirely.
func (st *Store) SetCell(coord Coord, text string) {
	if text == "" {
		delete(st.raw, coord)
		delete(st.formulas, coord)
		delete(st.display, coord)
		return
	}

	st.raw[coord] = text
	if len(text) > 0 && text[0] == '=' {
		st.formulas[coord] = text
	} else {
		delete(st.formulas, coord)
		delete(st.display, coord)
	}
}

// RawContent returns the stored formula text if the cell holds a
// formula, else the literal content. This is what a formula bar edits.
func (st *Store) RawContent(coord Coord) string {
	if formula, ok := st.formulas[coord]; ok {
		return formula
	}
	return st.raw[coord]
}

// DisplayValue returns the string shown for a cell: the computed
// result for formula cells, the literal content otherwise.
func (st *Store) DisplayValue(coord Coord) string {
	if _, ok := st.formulas[coord]; ok {
		return st.display[coord]
	}
	return st.raw[coord]
}

// IsFormula reports whether the cell currently holds a formula.
func (st *Store) IsFormula(coord Coord) bool {
	_, ok := st.formulas[coord]
	return ok
}

// Formula returns the formula text at a coordinate, if any.
func (st *Store) Formula(coord Coord) (string, bool) {
	formula, ok := st.formulas[coord]
	return formula, ok
}

// setDisplay records a computed result for a formula cell.
func (st *Store) setDisplay(coord Coord, value string) {
	st.display[coord] = value
}

// cellContent implements cellReader: formula references see the
// referenced cell's display value, so chained formulas compose.
func (st *Store) cellContent(coord Coord) string {
	return st.DisplayValue(coord)
}

// FormulaCoords returns every formula coordinate in deterministic
// row-major order.
func (st *Store) FormulaCoords() []Coord {
	coords := make([]Coord, 0, len(st.formulas))
	for coord := range st.formulas {
		coords = append(coords, coord)
	}
	sortCoords(coords)
	return coords
}

// Coords returns every non-empty coordinate in row-major order.
func (st *Store) Coords() []Coord {
	coords := make([]Coord, 0, len(st.raw))
	for coord := range st.raw {
		coords = append(coords, coord)
	}
	sortCoords(coords)
	return coords
}

// Bounds returns the exclusive row and column extent of the grid:
// the smallest (rows, cols) such that every non-empty cell fits.
func (st *Store) Bounds() (rows, cols int) {
	for coord := range st.raw {
		if coord.Row+1 > rows {
			rows = coord.Row + 1
		}
		if coord.Col+1 > cols {
			cols = coord.Col + 1
		}
	}
	return rows, cols
}

// Len returns the number of non-empty cells.
func (st *Store) Len() int {
	return len(st.raw)
}

func sortCoords(coords []Coord) {
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
}
