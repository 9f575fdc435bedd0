package numcode

import (
	"reflect"
	"testing"
)

func TestTokenizeWordsAndPunctuation(t *testing.T) {
	tokens := Tokenize("¡Hola, Mundo! ¿Qué tal?", Spanish)
	want := []string{"¡", "hola", ",", "mundo", "!", "¿", "qué", "tal", "?"}
	if got := Norms(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if tokens[1].Text != "Hola" {
		t.Fatalf("raw text not preserved: %q", tokens[1].Text)
	}
	starts := []bool{true, true, false, false, false, true, true, false, false}
	for i, tok := range tokens {
		if tok.SentenceStart != starts[i] {
			t.Fatalf("token %d %q: SentenceStart = %v", i, tok.Norm, tok.SentenceStart)
		}
	}
}

func TestTokenizeNumerals(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"en 2026", []string{"en", "2026"}},
		{"1.000.000 de", []string{"1000000", "de"}},
		{"1,5 y 3.14", []string{"1", ",", "5", "y", "3", ".", "14"}},
		{"007", []string{"7"}},
		{"١٢٣", []string{"123"}},
		{"12,3456", []string{"12", ",", "3456"}},
	}
	for _, tt := range tests {
		tokens := Tokenize(tt.text, Spanish)
		if got := Norms(tokens); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("Tokenize(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
	tokens := Tokenize("1.000", Spanish)
	if tokens[0].Class != LiteralNumber || tokens[0].Text != "1.000" {
		t.Fatalf("unexpected numeral token %+v", tokens[0])
	}
}

func TestTokenizeApostrophes(t *testing.T) {
	got := Norms(Tokenize("L'amour 'x'", French))
	want := []string{"l'amour", "'", "x", "'"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTokenizeChinese(t *testing.T) {
	got := Norms(Tokenize("我爱 中国 2026。", Chinese))
	want := []string{"我", "爱", "中", "国", "2026", "。"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTokenizeIsRestartable(t *testing.T) {
	text := "El año 2026, amor amor."
	a, b := Tokenize(text, Spanish), Tokenize(text, Spanish)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("tokenizer is not a pure function of its input")
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := map[string]LanguageTag{
		"我爱你":              Chinese,
		"مرحبا بالعالم":    Arabic,
		"The house is red": English,
		"Le chat est noir": French,
		"Eu não sei":       Portuguese,
		"Hola mundo":       Spanish,
	}
	for text, want := range tests {
		if got := DefaultDetector.Detect(Tokenize(text, "")); got != want {
			t.Fatalf("Detect(%q) = %s, want %s", text, got, want)
		}
	}
}
