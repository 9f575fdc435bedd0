package grid

import (
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/npillmayer/numcode"
	"github.com/npillmayer/schuko/tracing"
)

// ErrCorruptGrid is returned for cell configurations Encode never produces.
var ErrCorruptGrid = errors.New("corrupt grid")

// CellError reports the cell which makes a grid undecodable. For grids
// lacking a required cell, Cell is the zero value.
type CellError struct {
	Cell   Cell
	Reason string
}

func (e *CellError) Error() string {
	if e.Cell == (Cell{}) {
		return fmt.Sprintf("corrupt grid: %s", e.Reason)
	}
	return fmt.Sprintf("corrupt grid at %s: %s", e.Cell, e.Reason)
}

func (e *CellError) Unwrap() error { return ErrCorruptGrid }

func corrupt(c Cell, format string, args ...any) error {
	return &CellError{Cell: c, Reason: fmt.Sprintf(format, args...)}
}

// Symbol is the content of one grid.
type Symbol struct {
	Value    *big.Int // nil reads as 0; ignored if Infinite
	Infinite bool
	Kind     numcode.SuffixKind
	Language numcode.LanguageTag // optional
	DataType numcode.DataType    // optional
}

// SymbolOf wraps a stream unit into a symbol without language or data type.
func SymbolOf(u numcode.Unit) Symbol {
	return Symbol{Value: u.Int(), Kind: u.Kind}
}

// Unit returns the stream unit a symbol carries. Infinity has no unit
// representation.
func (sym Symbol) Unit() (numcode.Unit, error) {
	if sym.Infinite {
		return numcode.Unit{}, fmt.Errorf("grid: infinity is not a stream unit: %w", numcode.ErrMalformedStream)
	}
	return numcode.Unit{Kind: sym.Kind, Value: sym.value()}, nil
}

func (sym Symbol) value() *big.Int {
	if sym.Value == nil {
		return new(big.Int)
	}
	return sym.Value
}

func (sym Symbol) String() string {
	v := "∞"
	if !sym.Infinite {
		v = sym.value().String()
	}
	s := fmt.Sprintf("%s%c", v, sym.Kind.Letter())
	if sym.Language != "" {
		s += "/" + string(sym.Language)
	}
	if sym.DataType != numcode.PlainText {
		s += "/" + string(sym.DataType)
	}
	return s
}

// Equal is a predicate: do sym and other denote the same content?
func (sym Symbol) Equal(other Symbol) bool {
	if sym.Infinite || other.Infinite {
		if sym.Infinite != other.Infinite {
			return false
		}
	} else if sym.value().Cmp(other.value()) != 0 {
		return false
	}
	return sym.Kind == other.Kind && sym.Language == other.Language && sym.DataType == other.DataType
}

var ten = big.NewInt(10)

// Encode writes a symbol onto a grid.
//
// Values of up to ten digits activate one cell per non-zero digit. Larger
// values are written as base × 10^k, where base has exactly ten digits and
// k is split into distinct multiplier flags. A value with fewer than k
// trailing zeros, or a k beyond MaxExponent, cannot be represented and
// yields numcode.ErrOverflow.
func Encode(sym Symbol) (Grid, error) {
	var g Grid
	if sym.Infinite {
		g = g.with(infinityCell)
	} else {
		v := sym.value()
		if v.Sign() < 0 {
			return Grid{}, fmt.Errorf("grid: negative value %s: %w", v, numcode.ErrMalformedStream)
		}
		digits := v.String()
		switch {
		case digits == "0":
			g = g.with(zeroCell)
		case len(digits) > Places:
			k := len(digits) - Places
			if k > MaxExponent {
				return Grid{}, fmt.Errorf("grid: value has %d digits: %w", len(digits), numcode.ErrOverflow)
			}
			base, rest := digits[:Places], digits[Places:]
			for _, c := range rest {
				if c != '0' {
					return Grid{}, fmt.Errorf("grid: %s not representable as 10-digit base × 10^%d: %w",
						digits, k, numcode.ErrOverflow)
				}
			}
			for _, e := range flagExponents(k) {
				g = g.with(multiplierCells[e])
			}
			digits = base
			fallthrough
		default:
			for place := 0; place < len(digits); place++ {
				if d := int(digits[len(digits)-1-place] - '0'); d > 0 {
					g = g.with(digitCells[place][d])
				}
			}
		}
	}
	if sym.Language != "" {
		c, ok := languageCells[sym.Language]
		if !ok {
			return Grid{}, fmt.Errorf("grid: %w: %q", numcode.ErrUnsupportedLanguage, sym.Language)
		}
		g = g.with(c)
	}
	if sym.DataType != numcode.PlainText {
		c, ok := dataTypeCells[sym.DataType]
		if !ok {
			return Grid{}, fmt.Errorf("grid: unknown data type %q", sym.DataType)
		}
		g = g.with(c)
	}
	if !sym.Kind.Valid() {
		return Grid{}, fmt.Errorf("grid: invalid suffix kind %d: %w", sym.Kind, numcode.ErrMalformedStream)
	}
	if c, ok := suffixCells[sym.Kind]; ok {
		g = g.with(c)
	}
	return g, nil
}

// Decode reads the symbol written on a grid. Every configuration which
// Encode does not produce is rejected with a *CellError.
func Decode(g Grid) (Symbol, error) {
	sym, err := decode(g, true)
	if err != nil {
		tracer().Debugf("cannot decode grid: %v", err)
		tracing.With(tracer()).Dump("grid", g.Cells())
	}
	return sym, err
}

func decode(g Grid, requireNumeral bool) (Symbol, error) {
	var (
		sym      Symbol
		digits   [Places]int
		flags    []int
		zero     bool
		numeral  bool
		haveKind bool
	)
	for _, c := range g.Cells() {
		m := lookup(c)
		switch m.role {
		case roleNone:
			return Symbol{}, corrupt(c, "cell outside all zones")
		case roleReserved:
			return Symbol{}, corrupt(c, "reserved extension flag")
		case roleDigit:
			if digits[m.place] != 0 {
				return Symbol{}, corrupt(c, "second digit for 10^%d", m.place)
			}
			digits[m.place] = m.digit
			numeral = true
		case roleZero:
			zero = true
		case roleInfinity:
			sym.Infinite = true
		case roleMultiplier:
			flags = append(flags, m.place)
		case roleLanguage:
			if sym.Language != "" {
				return Symbol{}, corrupt(c, "second language cell")
			}
			sym.Language = m.lang
		case roleDataType:
			if sym.DataType != numcode.PlainText {
				return Symbol{}, corrupt(c, "second data type cell")
			}
			sym.DataType = m.dataType
		case roleSuffix:
			if haveKind {
				return Symbol{}, corrupt(c, "second suffix cell")
			}
			sym.Kind, haveKind = m.kind, true
		}
	}
	switch {
	case sym.Infinite && (zero || numeral || len(flags) > 0):
		return Symbol{}, corrupt(infinityCell, "infinity combined with a numeral")
	case zero && (numeral || len(flags) > 0):
		return Symbol{}, corrupt(zeroCell, "zero combined with digits")
	case len(flags) > 0 && digits[Places-1] == 0:
		return Symbol{}, corrupt(multiplierCells[flags[0]], "multiplier without a 10^9 digit")
	case !sym.Infinite && !zero && !numeral:
		if requireNumeral {
			return Symbol{}, corrupt(Cell{}, "no numeral")
		}
		return sym, nil
	}
	k := 0
	for _, e := range flags {
		k += e
	}
	// cells are visited top to bottom, i.e. in descending exponent order
	if canonical := flagExponents(k); !slices.Equal(flags, canonical) {
		return Symbol{}, corrupt(multiplierCells[flags[len(flags)-1]],
			"multiplier flags %v are not the canonical form %v of ×10^%d", flags, canonical, k)
	}
	if sym.Infinite {
		return sym, nil
	}
	v := new(big.Int)
	for place := Places - 1; place >= 0; place-- {
		v.Mul(v, ten)
		v.Add(v, big.NewInt(int64(digits[place])))
	}
	if k > 0 {
		v.Mul(v, new(big.Int).Exp(ten, big.NewInt(int64(k)), nil))
	}
	sym.Value = v
	return sym, nil
}

// NumeralCells counts the cells of g which write decimal digits. Suffix,
// language, data type, zero, infinity and multiplier cells are not counted.
func NumeralCells(g Grid) int {
	n := 0
	for _, c := range g.Cells() {
		if lookup(c).role == roleDigit {
			n++
		}
	}
	return n
}
