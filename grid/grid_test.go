package grid

import (
	"errors"
	"math/big"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/npillmayer/numcode"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func cells(t *testing.T, cc ...Cell) Grid {
	t.Helper()
	g, err := FromCells(cc...)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func pow10(base int64, k int) *big.Int {
	v := big.NewInt(base)
	return v.Mul(v, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(k)), nil))
}

func TestZoneTableIsExhaustive(t *testing.T) {
	for place := 0; place < Places; place++ {
		for d := 1; d <= 9; d++ {
			sym := Symbol{Value: pow10(int64(d), place), Kind: numcode.Concept}
			g, err := Encode(sym)
			if err != nil {
				t.Fatalf("Encode(%s): %v", sym, err)
			}
			want, _ := DigitCell(place, d)
			if c := g.Cells(); len(c) != 1 || c[0] != want {
				t.Fatalf("%d×10^%d: expected single cell %s, got %v", d, place, want, c)
			}
			back, err := Decode(g)
			if err != nil || !back.Equal(sym) {
				t.Fatalf("%d×10^%d decoded as %s, %v", d, place, back, err)
			}
		}
	}
}

func TestEncode383(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "numcode.grid")
	defer teardown()
	//
	g, err := Encode(Symbol{Value: big.NewInt(383), Kind: numcode.Concept})
	if err != nil {
		t.Fatal(err)
	}
	want := []Cell{{9, 7}, {12, 8}, {16, 7}}
	got := g.Cells()
	if len(got) != len(want) {
		t.Fatalf("expected cells %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected cells %v, got %v", want, got)
		}
	}
	if NumeralCells(g) != 3 {
		t.Fatalf("expected 3 numeral cells, got %d", NumeralCells(g))
	}
}

func TestMetadataCells(t *testing.T) {
	sym := Symbol{
		Value:    big.NewInt(7),
		Kind:     numcode.Repetition,
		Language: numcode.French,
		DataType: numcode.Sound,
	}
	g, err := Encode(sym)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []Cell{{1, 7}, {18, 8}, {13, 8}, {14, 9}} {
		if !g.Active(c.Row, c.Col) {
			t.Errorf("expected %s to be active", c)
		}
	}
	if g.Count() != 4 {
		t.Fatalf("expected 4 active cells, got %v", g.Cells())
	}
	back, err := Decode(g)
	if err != nil || !back.Equal(sym) {
		t.Fatalf("decoded %s, %v; want %s", back, err, sym)
	}
}

func TestZeroAndInfinity(t *testing.T) {
	for _, sym := range []Symbol{
		{Value: big.NewInt(0), Kind: numcode.Number},
		{Infinite: true, Kind: numcode.Number},
		{Infinite: true, Kind: numcode.Concept, Language: numcode.Arabic},
	} {
		g, err := Encode(sym)
		if err != nil {
			t.Fatal(err)
		}
		if NumeralCells(g) != 0 {
			t.Errorf("%s: expected no numeral cells", sym)
		}
		back, err := Decode(g)
		if err != nil || !back.Equal(sym) {
			t.Fatalf("decoded %s, %v; want %s", back, err, sym)
		}
	}
}

func TestRoundTripRandomValues(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 4))
	kinds := []numcode.SuffixKind{numcode.Concept, numcode.Number, numcode.Repetition, numcode.Sparse}
	for i := 0; i < 5000; i++ {
		v := rng.Uint64N(10_000_000_000)
		sym := Symbol{Value: new(big.Int).SetUint64(v), Kind: kinds[i%len(kinds)]}
		g, err := Encode(sym)
		if err != nil {
			t.Fatalf("Encode(%s): %v", sym, err)
		}
		nonzero := 0
		for _, c := range big.NewInt(0).SetUint64(v).String() {
			if c != '0' {
				nonzero++
			}
		}
		if NumeralCells(g) != nonzero {
			t.Fatalf("%d: expected %d numeral cells, got %d", v, nonzero, NumeralCells(g))
		}
		back, err := Decode(g)
		if err != nil || !back.Equal(sym) {
			t.Fatalf("decoded %s, %v; want %s", back, err, sym)
		}
	}
}

func TestMultiplierFlags(t *testing.T) {
	for _, test := range []struct {
		value *big.Int
		flags []int
	}{
		{pow10(5, 12), []int{3}},
		{pow10(1234567891, 9), []int{8, 1}},
		{pow10(9999999999, 15), []int{8, 7}},
		{pow10(1234567891, MaxExponent), []int{8, 7, 6, 5, 4, 3, 2, 1}},
	} {
		g, err := Encode(Symbol{Value: test.value, Kind: numcode.Number})
		if err != nil {
			t.Fatalf("Encode(%s): %v", test.value, err)
		}
		for k := 1; k <= maxFlag; k++ {
			want := false
			for _, f := range test.flags {
				want = want || f == k
			}
			if g.Active(18-k, 1) != want {
				t.Fatalf("%s: flag ×10^%d active = %v", test.value, k, !want)
			}
		}
		back, err := Decode(g)
		if err != nil || back.Value.Cmp(test.value) != 0 {
			t.Fatalf("decoded %s, %v; want %s", back, err, test.value)
		}
	}
}

func TestOverflow(t *testing.T) {
	for _, v := range []*big.Int{
		big.NewInt(12345678901),
		pow10(1234567891, MaxExponent+1),
		pow10(12345678911, 2),
	} {
		if _, err := Encode(Symbol{Value: v}); !errors.Is(err, numcode.ErrOverflow) {
			t.Errorf("Encode(%s): expected ErrOverflow, got %v", v, err)
		}
	}
}

func TestDecodeRejectsCorruptGrids(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "numcode.grid")
	defer teardown()
	//
	for _, test := range []struct {
		name  string
		cells []Cell
		at    Cell
	}{
		{"blank", nil, Cell{}},
		{"outside zones", []Cell{{2, 2}, {16, 9}}, Cell{2, 2}},
		{"two digits in one place", []Cell{{16, 8}, {16, 9}}, Cell{16, 9}},
		{"zero with digit", []Cell{{17, 9}, {16, 9}}, zeroCell},
		{"infinity with digit", []Cell{{18, 1}, {16, 9}}, infinityCell},
		{"flag without 10^9 digit", []Cell{{17, 1}, {16, 9}}, Cell{17, 1}},
		{"non-canonical flags", []Cell{{13, 1}, {14, 1}, {17, 2}}, Cell{14, 1}},
		{"reserved flag", []Cell{{9, 1}, {16, 9}}, reservedCell},
		{"two languages", []Cell{{1, 5}, {1, 6}, {16, 9}}, Cell{1, 6}},
		{"two data types", []Cell{{16, 9}, {18, 6}, {18, 7}}, Cell{18, 7}},
		{"two suffixes", []Cell{{13, 7}, {13, 8}, {16, 9}}, Cell{13, 8}},
		{"suffix only", []Cell{{13, 9}}, Cell{}},
	} {
		_, err := Decode(cells(t, test.cells...))
		if !errors.Is(err, ErrCorruptGrid) {
			t.Fatalf("%s: expected ErrCorruptGrid, got %v", test.name, err)
		}
		var cerr *CellError
		if !errors.As(err, &cerr) || cerr.Cell != test.at {
			t.Fatalf("%s: expected error at %s, got %v", test.name, test.at, err)
		}
	}
}

func TestEncodeRejectsInvalidSymbols(t *testing.T) {
	if _, err := Encode(Symbol{Value: big.NewInt(-1)}); !errors.Is(err, numcode.ErrMalformedStream) {
		t.Errorf("negative value: got %v", err)
	}
	if _, err := Encode(Symbol{Value: big.NewInt(1), Language: "xx"}); !errors.Is(err, numcode.ErrUnsupportedLanguage) {
		t.Errorf("unknown language: got %v", err)
	}
	if _, err := Encode(Symbol{Value: big.NewInt(1), DataType: "gif"}); err == nil {
		t.Errorf("unknown data type: expected error")
	}
	if _, err := Encode(Symbol{Value: big.NewInt(1), Kind: 4}); err == nil {
		t.Errorf("invalid suffix kind: expected error")
	}
}

func TestStripRoundTrip(t *testing.T) {
	stream := numcode.Stream{
		numcode.ConceptUnit(42),
		numcode.SparseUnit(3),
		numcode.ConceptUnit(319),
		numcode.RepetitionUnit(3),
		numcode.NumberUnit(2026),
	}
	for _, test := range []struct {
		lang numcode.LanguageTag
		dt   numcode.DataType
		n    int
	}{
		{numcode.Spanish, numcode.PlainText, 6},
		{numcode.English, numcode.Image, 6},
		{"", numcode.PlainText, 5},
	} {
		strip, err := EncodeStrip(stream, test.lang, test.dt)
		if err != nil {
			t.Fatal(err)
		}
		if len(strip) != test.n {
			t.Fatalf("expected %d grids, got %d", test.n, len(strip))
		}
		back, err := DecodeStrip(strip)
		if err != nil {
			t.Fatal(err)
		}
		if back.Language != test.lang || back.DataType != test.dt || !back.Stream.Equal(stream) {
			t.Fatalf("strip decoded as %s/%q %s", back.Language, back.DataType, back.Stream)
		}
	}
}

func TestStripRejectsContradictingLanguage(t *testing.T) {
	strip, err := EncodeStrip(numcode.Stream{numcode.ConceptUnit(1)}, numcode.Spanish, numcode.PlainText)
	if err != nil {
		t.Fatal(err)
	}
	g, _ := Encode(Symbol{Value: big.NewInt(2), Language: numcode.Chinese})
	strip = append(strip, g)
	if _, err := DecodeStrip(strip); !errors.Is(err, ErrCorruptGrid) {
		t.Fatalf("expected ErrCorruptGrid, got %v", err)
	}
}

func TestStringAndParse(t *testing.T) {
	g, err := Encode(Symbol{Value: big.NewInt(383), Kind: numcode.Number, Language: numcode.Chinese})
	if err != nil {
		t.Fatal(err)
	}
	s := g.String()
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	if len(lines) != Rows || lines[0] != ".....#...." {
		t.Fatalf("unexpected rendering\n%s", s)
	}
	back, err := Parse(s)
	if err != nil || back != g {
		t.Fatalf("Parse(String()) = %v, %v", back.Cells(), err)
	}
	if _, err := Parse("##"); err == nil {
		t.Fatalf("expected error for short input")
	}
	if _, err := FromCells(Cell{21, 1}); err == nil {
		t.Fatalf("expected error for cell outside grid")
	}
}
