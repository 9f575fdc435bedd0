package grid

import (
	"fmt"

	"github.com/npillmayer/numcode"
)

// Places is the number of decimal places a grid holds without multipliers.
const Places = 10

// MaxExponent is the largest multiplier a grid can express, 1+2+…+8.
const MaxExponent = 36

const maxFlag = 8

type role uint8

const (
	roleNone role = iota
	roleDigit
	roleZero
	roleInfinity
	roleMultiplier
	roleReserved
	roleLanguage
	roleDataType
	roleSuffix
)

var roleNames = [...]string{"none", "digit", "zero", "infinity", "multiplier", "reserved",
	"language", "data type", "suffix"}

func (r role) String() string { return roleNames[r] }

// meaning is the inverse table entry for a cell.
type meaning struct {
	role     role
	place    int // decimal place of a digit, exponent of a multiplier
	digit    int
	lang     numcode.LanguageTag
	dataType numcode.DataType
	kind     numcode.SuffixKind
}

var (
	digitCells      [Places][10]Cell // [place][digit], digit 0 unused
	multiplierCells [maxFlag + 1]Cell
	languageCells   = map[numcode.LanguageTag]Cell{}
	dataTypeCells   = map[numcode.DataType]Cell{}
	suffixCells     = map[numcode.SuffixKind]Cell{}
	zeroCell        = Cell{Row: 17, Col: 9}
	infinityCell    = Cell{Row: 18, Col: 1}
	reservedCell    = Cell{Row: 9, Col: 1}
	zones           [Rows + 1][Cols + 1]meaning
)

func init() {
	for d := 1; d <= 9; d++ {
		// units
		digitCells[0][d] = Cell{Row: 14 + (9-d)/3, Col: 7 + (9-d)%3}
		// tens
		if d <= 5 {
			digitCells[1][d] = Cell{Row: 18 - d, Col: 6}
		} else {
			digitCells[1][d] = Cell{Row: 12, Col: d}
		}
		digitCells[2][d] = Cell{Row: 12 - d, Col: 7}
		digitCells[3][d] = Cell{Row: 12 - d, Col: 8}
		digitCells[4][d] = Cell{Row: 12 - d, Col: 9}
		digitCells[5][d] = Cell{Row: 12 - d, Col: 6}
		for place := 6; place <= 9; place++ {
			digitCells[place][d] = Cell{Row: 18 - d, Col: 11 - place}
		}
	}
	for k := 1; k <= maxFlag; k++ {
		multiplierCells[k] = Cell{Row: 18 - k, Col: 1}
	}
	for i, lang := range numcode.Languages {
		languageCells[lang] = Cell{Row: 1, Col: 5 + i}
	}
	for i, dt := range numcode.DataTypes {
		dataTypeCells[dt] = Cell{Row: 18, Col: 6 + i}
	}
	suffixCells[numcode.Sparse] = Cell{Row: 13, Col: 7}
	suffixCells[numcode.Repetition] = Cell{Row: 13, Col: 8}
	suffixCells[numcode.Number] = Cell{Row: 13, Col: 9}
	//
	for place := 0; place < Places; place++ {
		for d := 1; d <= 9; d++ {
			register(digitCells[place][d], meaning{role: roleDigit, place: place, digit: d})
		}
	}
	for k := 1; k <= maxFlag; k++ {
		register(multiplierCells[k], meaning{role: roleMultiplier, place: k})
	}
	register(zeroCell, meaning{role: roleZero})
	register(infinityCell, meaning{role: roleInfinity})
	register(reservedCell, meaning{role: roleReserved})
	for lang, c := range languageCells {
		register(c, meaning{role: roleLanguage, lang: lang})
	}
	for dt, c := range dataTypeCells {
		register(c, meaning{role: roleDataType, dataType: dt})
	}
	for kind, c := range suffixCells {
		register(c, meaning{role: roleSuffix, kind: kind})
	}
	// every (place, digit) must survive the trip through the inverse table
	for place := 0; place < Places; place++ {
		for d := 1; d <= 9; d++ {
			m := lookup(digitCells[place][d])
			assert(m.role == roleDigit && m.place == place && m.digit == d,
				fmt.Sprintf("grid: digit table not invertible at place %d, digit %d", place, d))
		}
	}
}

func register(c Cell, m meaning) {
	assert(c.valid(), fmt.Sprintf("grid: zone cell %s outside grid", c))
	assert(zones[c.Row][c.Col].role == roleNone,
		fmt.Sprintf("grid: cell %s assigned twice (%s and %s)", c, zones[c.Row][c.Col].role, m.role))
	zones[c.Row][c.Col] = m
}

func lookup(c Cell) meaning {
	if !c.valid() {
		return meaning{}
	}
	return zones[c.Row][c.Col]
}

// DigitCell returns the cell writing digit d (1…9) at decimal place
// (0…9), or false for arguments outside these ranges.
func DigitCell(place, d int) (Cell, bool) {
	if place < 0 || place >= Places || d < 1 || d > 9 {
		return Cell{}, false
	}
	return digitCells[place][d], true
}

// LanguageCell returns the cell flagging a language.
func LanguageCell(lang numcode.LanguageTag) (Cell, bool) {
	c, ok := languageCells[lang]
	return c, ok
}

// DataTypeCell returns the cell flagging a data type. Plain text has no cell.
func DataTypeCell(dt numcode.DataType) (Cell, bool) {
	c, ok := dataTypeCells[dt]
	return c, ok
}

// SuffixCell returns the cell flagging a suffix kind. Concept has no cell.
func SuffixCell(kind numcode.SuffixKind) (Cell, bool) {
	c, ok := suffixCells[kind]
	return c, ok
}

// flagExponents decomposes k greedily into distinct flag exponents, largest
// first. Every k in 0…MaxExponent has such a decomposition.
func flagExponents(k int) []int {
	var exps []int
	for e := maxFlag; e >= 1 && k > 0; e-- {
		if e <= k {
			exps = append(exps, e)
			k -= e
		}
	}
	assert(k == 0, "grid: multiplier exponent out of range")
	return exps
}
