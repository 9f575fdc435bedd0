package grid

import (
	"fmt"

	"github.com/npillmayer/numcode"
)

// EncodeStrip writes a stream as a strip of grids, one per unit. If lang or
// dt is set, the strip starts with a header grid carrying only these cells.
func EncodeStrip(stream numcode.Stream, lang numcode.LanguageTag, dt numcode.DataType) ([]Grid, error) {
	strip := make([]Grid, 0, len(stream)+1)
	if lang != "" || dt != numcode.PlainText {
		header, err := encodeHeader(lang, dt)
		if err != nil {
			return nil, err
		}
		strip = append(strip, header)
	}
	for i, u := range stream {
		g, err := Encode(SymbolOf(u))
		if err != nil {
			return nil, &numcode.UnitError{Index: i, Unit: u, Err: err}
		}
		strip = append(strip, g)
	}
	tracer().Debugf("encoded %d units onto %d grids", len(stream), len(strip))
	return strip, nil
}

func encodeHeader(lang numcode.LanguageTag, dt numcode.DataType) (Grid, error) {
	var g Grid
	if lang != "" {
		c, ok := languageCells[lang]
		if !ok {
			return Grid{}, fmt.Errorf("grid: %w: %q", numcode.ErrUnsupportedLanguage, lang)
		}
		g = g.with(c)
	}
	if dt != numcode.PlainText {
		c, ok := dataTypeCells[dt]
		if !ok {
			return Grid{}, fmt.Errorf("grid: unknown data type %q", dt)
		}
		g = g.with(c)
	}
	return g, nil
}

// Strip is the decoded content of a strip of grids.
type Strip struct {
	Language numcode.LanguageTag // empty if the strip has no header
	DataType numcode.DataType
	Stream   numcode.Stream
}

// DecodeStrip reverses EncodeStrip. A first grid without any numeral cell
// is a header. Unit grids may repeat the header's language and data type
// but must not contradict them.
func DecodeStrip(grids []Grid) (Strip, error) {
	var strip Strip
	if len(grids) > 0 && !grids[0].IsBlank() {
		if sym, err := decode(grids[0], false); err == nil && isHeader(sym, grids[0]) {
			strip.Language, strip.DataType = sym.Language, sym.DataType
			grids = grids[1:]
		}
	}
	strip.Stream = make(numcode.Stream, 0, len(grids))
	for i, g := range grids {
		sym, err := Decode(g)
		if err != nil {
			return Strip{}, fmt.Errorf("grid %d: %w", i, err)
		}
		if sym.Language != "" && sym.Language != strip.Language {
			c := languageCells[sym.Language]
			return Strip{}, fmt.Errorf("grid %d: %w", i, corrupt(c, "language contradicts strip header"))
		}
		if sym.DataType != numcode.PlainText && sym.DataType != strip.DataType {
			c := dataTypeCells[sym.DataType]
			return Strip{}, fmt.Errorf("grid %d: %w", i, corrupt(c, "data type contradicts strip header"))
		}
		u, err := sym.Unit()
		if err != nil {
			return Strip{}, fmt.Errorf("grid %d: %w", i, err)
		}
		strip.Stream = append(strip.Stream, u)
	}
	return strip, nil
}

// isHeader is a predicate: does g carry nothing but language and data type?
func isHeader(sym Symbol, g Grid) bool {
	if sym.Language == "" && sym.DataType == numcode.PlainText {
		return false
	}
	n := 0
	if sym.Language != "" {
		n++
	}
	if sym.DataType != numcode.PlainText {
		n++
	}
	return g.Count() == n
}
