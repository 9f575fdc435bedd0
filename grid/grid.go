/*
Package grid maps suffixed numbers onto ideogram grids ("Protocol Spec v6.8").

An ideogram is a 10 columns wide, 20 rows high matrix of cells which are
either active or inactive. Coordinates are 1-based, (row, col).

One grid encodes one number together with its suffix kind and, optionally,
a language tag and a data type. The number is written in a sparse
positional numeral system: every non-zero decimal digit activates exactly one
cell, chosen from a fixed zone per decimal place. Frequent words have small
IDs, so they activate few cells. Numbers with more than ten digits are
written as a ten-digit base scaled by multiplier flags.

Cells are assigned in zones. Numbers in the map below are decimal exponents:

	col       1  2  3  4  5  6  7  8  9 10
	row  1    .  .  .  .  L  L  L  L  L  L    languages
	row  2    .  .  .  .  .  .  .  .  .  .
	row  3    .  .  .  .  .  5  2  3  4  .    digit 9 of 10^2 … 10^5
	row  4    .  .  .  .  .  5  2  3  4  .
	row  5    .  .  .  .  .  5  2  3  4  .
	row  6    .  .  .  .  .  5  2  3  4  .
	row  7    .  .  .  .  .  5  2  3  4  .
	row  8    .  .  .  .  .  5  2  3  4  .
	row  9    R  9  8  7  6  5  2  3  4  .    digit 9 of 10^6 … 10^9
	row 10    M  9  8  7  6  5  2  3  4  .
	row 11    M  9  8  7  6  5  2  3  4  .    digit 1 of 10^2 … 10^5
	row 12    M  9  8  7  6  1  1  1  1  .    tens 60 … 90
	row 13    M  9  8  7  6  1  s  r  n  .    tens 50 … 10 in col 6, suffixes
	row 14    M  9  8  7  6  1  0  0  0  .    units 9 … 1
	row 15    M  9  8  7  6  1  0  0  0  .
	row 16    M  9  8  7  6  1  0  0  0  .
	row 17    M  9  8  7  6  1  .  .  Z  .    digit 1 of 10^6 … 10^9, zero
	row 18    ∞  .  .  .  .  D  D  D  D  .    infinity, data types

M are multiplier flags ×10^1 (row 17) up to ×10^8 (row 10), R is reserved.

Encode and Decode are exact inverses: every value is written by exactly one
cell configuration, and Decode rejects every configuration Encode would not
produce.
*/
package grid

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'numcode.grid'
func tracer() tracing.Trace {
	return tracing.Select("numcode.grid")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}

// Grid dimensions.
const (
	Rows = 20
	Cols = 10
)

// Cell addresses a grid cell, 1-based.
type Cell struct {
	Row, Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

func (c Cell) valid() bool {
	return c.Row >= 1 && c.Row <= Rows && c.Col >= 1 && c.Col <= Cols
}

func (c Cell) index() int {
	return (c.Row-1)*Cols + (c.Col - 1)
}

// Grid is an immutable 20×10 cell matrix. The zero value is the blank grid.
// Grids are comparable with ==.
type Grid struct {
	bits [(Rows*Cols + 63) / 64]uint64
}

// FromCells creates a grid with the given cells active.
func FromCells(cells ...Cell) (Grid, error) {
	var g Grid
	for _, c := range cells {
		if !c.valid() {
			return Grid{}, fmt.Errorf("grid: cell %s outside %d×%d grid", c, Rows, Cols)
		}
		g = g.with(c)
	}
	return g, nil
}

func (g Grid) with(c Cell) Grid {
	i := c.index()
	g.bits[i/64] |= 1 << (i % 64)
	return g
}

// Active is a predicate: is the cell at (row, col) active?
// Coordinates outside the grid are never active.
func (g Grid) Active(row, col int) bool {
	c := Cell{Row: row, Col: col}
	if !c.valid() {
		return false
	}
	i := c.index()
	return g.bits[i/64]&(1<<(i%64)) != 0
}

// Count returns the number of active cells.
func (g Grid) Count() int {
	n := 0
	for _, w := range g.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// Cells lists the active cells in row-major order.
func (g Grid) Cells() []Cell {
	cells := make([]Cell, 0, g.Count())
	for row := 1; row <= Rows; row++ {
		for col := 1; col <= Cols; col++ {
			if g.Active(row, col) {
				cells = append(cells, Cell{Row: row, Col: col})
			}
		}
	}
	return cells
}

// IsBlank is a predicate: is no cell active?
func (g Grid) IsBlank() bool {
	return g == Grid{}
}

// String renders the grid as 20 lines of 10 characters, '#' for active
// and '.' for inactive cells.
func (g Grid) String() string {
	var b strings.Builder
	b.Grow(Rows * (Cols + 1))
	for row := 1; row <= Rows; row++ {
		for col := 1; col <= Cols; col++ {
			if g.Active(row, col) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Parse reads the format written by String. Lines may be separated by
// any whitespace; '#', 'X' and '1' denote active cells, '.', '_' and '0'
// inactive ones.
func Parse(s string) (Grid, error) {
	lines := strings.Fields(s)
	if len(lines) != Rows {
		return Grid{}, fmt.Errorf("grid: expected %d rows, found %d", Rows, len(lines))
	}
	var g Grid
	for r, line := range lines {
		if len(line) != Cols {
			return Grid{}, fmt.Errorf("grid: row %d has %d cells, expected %d", r+1, len(line), Cols)
		}
		for c := 0; c < Cols; c++ {
			switch line[c] {
			case '#', 'X', '1':
				g = g.with(Cell{Row: r + 1, Col: c + 1})
			case '.', '_', '0':
			default:
				return Grid{}, fmt.Errorf("grid: invalid character %q in row %d", line[c], r+1)
			}
		}
	}
	return g, nil
}
