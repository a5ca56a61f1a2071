// Package engine implements the cellgrid formula engine: A1-style
// reference resolution, formula parsing and evaluation, the built-in
// function library, and dependency-ordered recalculation.
package engine

import (
	"strconv"
	"strings"
)

// Coord identifies a cell by zero-based row and column.
type Coord struct {
	Row int
	Col int
}

// ParseRef converts a textual reference like "A1" or "AA23" into a
// coordinate. The letter part is a base-26 column with no zero digit
// (A=0, Z=25, AA=26); the digit part is a 1-based row.
func ParseRef(text string) (Coord, error) {
	letterEnd := 0
	for i := 0; i < len(text); i++ {
		if text[i] >= 'A' && text[i] <= 'Z' {
			letterEnd = i + 1
		} else {
			break
		}
	}

	if letterEnd == 0 || letterEnd == len(text) {
		return Coord{}, newRefError("invalid cell reference %q", text)
	}

	col := 0
	for i := 0; i < letterEnd; i++ {
		col = col*26 + int(text[i]-'A')
		if i < letterEnd-1 {
			col++ // positional notation has no zero digit
		}
	}

	rowNum, err := strconv.Atoi(text[letterEnd:])
	if err != nil || rowNum < 1 {
		return Coord{}, newRefError("invalid row number in %q", text)
	}

	return Coord{Row: rowNum - 1, Col: col}, nil
}

// FormatRef is the inverse of ParseRef: it renders a coordinate as a
// textual reference. ParseRef(FormatRef(c)) == c for any valid c.
func FormatRef(c Coord) string {
	var letters []byte
	n := c.Col + 1
	for n > 0 {
		n--
		letters = append(letters, byte('A'+n%26))
		n /= 26
	}
	// letters were produced least-significant first
	for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
		letters[i], letters[j] = letters[j], letters[i]
	}
	return string(letters) + strconv.Itoa(c.Row+1)
}

// ParseRange splits a "A1:B2" label into its two corner coordinates.
func ParseRange(text string) (Coord, Coord, error) {
	parts := strings.SplitN(text, ":", 2)
	if len(parts) != 2 {
		return Coord{}, Coord{}, newRefError("invalid range %q", text)
	}
	a, err := ParseRef(parts[0])
	if err != nil {
		return Coord{}, Coord{}, err
	}
	b, err := ParseRef(parts[1])
	if err != nil {
		return Coord{}, Coord{}, err
	}
	return a, b, nil
}

// ExpandRange lists every coordinate in the rectangle spanned by the
// two corners, row-major from top-left to bottom-right. Corners are
// normalized per axis, so the caller may pass them in either order.
func ExpandRange(a, b Coord) []Coord {
	rowMin, rowMax := minMax(a.Row, b.Row)
	colMin, colMax := minMax(a.Col, b.Col)

	coords := make([]Coord, 0, (rowMax-rowMin+1)*(colMax-colMin+1))
	for row := rowMin; row <= rowMax; row++ {
		for col := colMin; col <= colMax; col++ {
			coords = append(coords, Coord{Row: row, Col: col})
		}
	}
	return coords
}

func minMax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
