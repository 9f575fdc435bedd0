package numcode

import (
	"errors"
	"math"
	"math/big"
	"reflect"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestEncodeRepetitionScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "numcode")
	defer teardown()
	//
	dict := spanishDictionary(t)
	tokens := Tokenize(strings.Repeat("amor ", 7), Spanish)
	stream, err := Encode(tokens, dict)
	if err != nil {
		t.Fatal(err)
	}
	want := Stream{ConceptUnit(319), RepetitionUnit(7)}
	if !stream.Equal(want) {
		t.Fatalf("got %s, want %s", stream, want)
	}
	decoded, err := Decode(stream, dict)
	if err != nil {
		t.Fatal(err)
	}
	if got := Norms(decoded); !reflect.DeepEqual(got, strings.Fields(strings.Repeat("amor ", 7))) {
		t.Fatalf("decoded %q", got)
	}
}

func TestEncodeNumberScenario(t *testing.T) {
	dict := spanishDictionary(t)
	stream, err := Encode(Tokenize("2026", Spanish), dict)
	if err != nil {
		t.Fatal(err)
	}
	if !stream.Equal(Stream{NumberUnit(2026)}) {
		t.Fatalf("got %s, want 2026n", stream)
	}
	decoded, err := Decode(stream, dict)
	if err != nil {
		t.Fatal(err)
	}
	if text := Text(decoded, Spanish); text != "2026" {
		t.Fatalf("decoded text %q, want 2026", text)
	}
}

func TestRoundTripIdentity(t *testing.T) {
	dict := spanishDictionary(t)
	texts := []string{
		"Hola mundo.",
		"¿Es el año 2026? No, no, no, no.",
		"De la de la de de de de.",
		"Gracias gracias (hola) 12345678901234567890123 y 0 .",
		"L'amour l'amour y amor amor amor!",
	}
	for _, text := range texts {
		tokens := Tokenize(text, Spanish)
		stream, err := Encode(tokens, dict)
		if err != nil {
			t.Fatalf("encode %q: %v", text, err)
		}
		if len(stream) > len(tokens) {
			t.Fatalf("stream of %d units longer than %d tokens", len(stream), len(tokens))
		}
		decoded, err := Decode(stream, dict)
		if err != nil {
			t.Fatalf("decode %q: %v", text, err)
		}
		if got, want := Norms(decoded), Norms(tokens); !reflect.DeepEqual(got, want) {
			t.Fatalf("round trip of %q: got %q, want %q", text, got, want)
		}
	}
}

func TestRepetitionCompressionLaw(t *testing.T) {
	dict := spanishDictionary(t)
	for n := 1; n <= 40; n++ {
		tokens := Tokenize(strings.Repeat("hola ", n), Spanish)
		stream, err := Encode(tokens, dict)
		if err != nil {
			t.Fatal(err)
		}
		switch {
		case n == 1 && len(stream) != 1:
			t.Fatalf("lone token must not be compressed: %s", stream)
		case n > 1 && len(stream) != 2:
			t.Fatalf("run of %d should compress to 2 units, got %s", n, stream)
		}
		decoded, err := Decode(stream, dict)
		if err != nil {
			t.Fatal(err)
		}
		if len(decoded) != n {
			t.Fatalf("run of %d decoded to %d tokens", n, len(decoded))
		}
	}
}

func TestNumbersAreNotCompressed(t *testing.T) {
	dict := spanishDictionary(t)
	stream, err := Encode(Tokenize("5 5 5", Spanish), dict)
	if err != nil {
		t.Fatal(err)
	}
	if stream.String() != "5n 5n 5n" {
		t.Fatalf("got %s", stream)
	}
}

func TestEncodeUnknownToken(t *testing.T) {
	dict := spanishDictionary(t)
	_, err := Encode(Tokenize("hola zanahoria", Spanish), dict)
	if !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("expected ErrUnknownToken, got %v", err)
	}
	var terr *TokenError
	if !errors.As(err, &terr) || terr.Index != 1 || terr.Token.Norm != "zanahoria" {
		t.Fatalf("error does not identify the token: %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	dict := spanishDictionary(t)
	tests := []struct {
		name   string
		stream Stream
		index  int
		want   error
	}{
		{"leading repetition", Stream{RepetitionUnit(3)}, 0, ErrMalformedStream},
		{"repetition of one", Stream{ConceptUnit(1), RepetitionUnit(1)}, 1, ErrMalformedStream},
		{"repetition after sparse", Stream{ConceptUnit(1), SparseUnit(1), RepetitionUnit(2)}, 2, ErrMalformedStream},
		{"double repetition", Stream{ConceptUnit(1), RepetitionUnit(2), RepetitionUnit(2)}, 2, ErrMalformedStream},
		{"unknown id", Stream{ConceptUnit(1), ConceptUnit(401)}, 1, ErrUnknownID},
		{"concept zero", Stream{ConceptUnit(0)}, 0, ErrMalformedStream},
		{"negative number", Stream{{Kind: Number, Value: big.NewInt(-4)}}, 0, ErrMalformedStream},
		{"negative sparse", Stream{{Kind: Sparse, Value: big.NewInt(-1)}}, 0, ErrMalformedStream},
		{"repetition beyond limit", Stream{ConceptUnit(1), RepetitionUnit(MaxExpansion + 1)}, 1, ErrExpansionLimit},
		{"sparse beyond limit", Stream{NumberUnit(7), SparseUnit(MaxExpansion)}, 1, ErrExpansionLimit},
		{"huge repetition", Stream{ConceptUnit(1), RepetitionUnit(math.MaxUint64)}, 1, ErrExpansionLimit},
	}
	for _, tt := range tests {
		_, err := Decode(tt.stream, dict)
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
		var uerr *UnitError
		if !errors.As(err, &uerr) || uerr.Index != tt.index {
			t.Fatalf("%s: error does not identify unit %d: %v", tt.name, tt.index, err)
		}
	}
}

func TestDecodeLongRepetition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "numcode")
	defer teardown()
	//
	dict := spanishDictionary(t)
	tokens, err := Decode(Stream{ConceptUnit(1), RepetitionUnit(250000), NumberUnit(3)}, dict)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(tokens) != 250001 || tokens[249999].Norm != tokens[0].Norm || tokens[250000].Norm != "3" {
		t.Fatalf("expected 250000 repeated tokens and a numeral, got %d tokens", len(tokens))
	}
	if !exceedsExpansion(MaxExpansion, 1) || exceedsExpansion(MaxExpansion-1, 1) {
		t.Fatalf("expansion limit is not exact at %d tokens", MaxExpansion)
	}
}

func TestSparsePadding(t *testing.T) {
	dict := spanishDictionary(t)
	stream := Stream{ConceptUnit(42), SparseUnit(3), ConceptUnit(57)}
	tokens, err := Decode(stream, dict)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 5 || tokens[1].Class != Padding || tokens[3].Class != Padding {
		t.Fatalf("expected padding positions, got %+v", tokens)
	}
	if got := Norms(tokens); !reflect.DeepEqual(got, []string{"hola", "mundo"}) {
		t.Fatalf("padding must be excluded from text comparison: %q", got)
	}
	if text := Text(tokens, Spanish); text != "Hola mundo" {
		t.Fatalf("text %q", text)
	}
	again, err := Encode(tokens, dict)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Equal(stream) {
		t.Fatalf("padding did not re-encode: %s", again)
	}
}

func TestText(t *testing.T) {
	dict := spanishDictionary(t)
	stream, err := ParseStream("42b 5b 57b 9b 13b 14b 3b 88b 2026n 10b 20b 2b 11b 120b 12b")
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := Decode(stream, dict)
	if err != nil {
		t.Fatal(err)
	}
	want := "Hola, mundo! ¿Es la año 2026? No. (Gracias)"
	if text := Text(tokens, Spanish); text != want {
		t.Fatalf("got %q, want %q", text, want)
	}
}

func TestParseStream(t *testing.T) {
	stream, err := ParseStream("  319b 7r\t2026n 3s ")
	if err != nil {
		t.Fatal(err)
	}
	want := Stream{ConceptUnit(319), RepetitionUnit(7), NumberUnit(2026), SparseUnit(3)}
	if !stream.Equal(want) || stream.String() != "319b 7r 2026n 3s" {
		t.Fatalf("got %s", stream)
	}
	for _, bad := range []string{"319", "b", "31x9b", "12q", "1r", "0b", "-3n"} {
		if _, err := ParseStream(bad); !errors.Is(err, ErrMalformedStream) {
			t.Fatalf("ParseStream(%q): expected ErrMalformedStream, got %v", bad, err)
		}
	}
	if s, err := ParseStream(""); err != nil || len(s) != 0 {
		t.Fatalf("empty input: %v, %v", s, err)
	}
}
