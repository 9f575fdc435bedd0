package numcode

import (
	"math/big"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// TokenClass classifies a token for encoding.
type TokenClass uint8

// Token classes. Padding tokens only result from decoding sparse units.
const (
	ConceptClass  TokenClass = iota // dictionary-backed word or symbol
	LiteralNumber                   // numeral carried by value
	Padding                         // empty alignment position
)

func (c TokenClass) String() string {
	switch c {
	case ConceptClass:
		return "Concept"
	case LiteralNumber:
		return "LiteralNumber"
	case Padding:
		return "Padding"
	}
	return "<unknown>"
}

// Token is an atomic piece of text.
//
// Text is the raw substring, Norm the canonical form the codec works on:
// lowercase for concepts, canonical decimal for numerals, empty for padding.
// SentenceStart marks the first token of a sentence; it is presentation
// metadata and not part of a token's identity.
type Token struct {
	Text          string
	Norm          string
	Class         TokenClass
	SentenceStart bool
}

// Norms returns the canonical forms of tokens, skipping padding.
func Norms(tokens []Token) []string {
	norms := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Class != Padding {
			norms = append(norms, t.Norm)
		}
	}
	return norms
}

// Tokenize splits text into tokens.
//
// Whitespace separates tokens, every punctuation mark or symbol is a token of
// its own, letter runs (with inner apostrophes, as in "l'amour") form words
// and every ideograph is a word by itself. Maximal digit runs are numerals;
// a numeral may contain group separators (",", ".", "_", no-break spaces)
// each followed by exactly three digits, as in "1.000.000".
//
// Chinese text is written without spaces, so for Chinese every rune apart
// from numerals is a token of its own.
//
// Tokenize is a pure function of its input.
func Tokenize(text string, lang LanguageTag) []Token {
	runes := []rune(norm.NFC.String(text))
	lower := cases.Lower(language.Make(lang.BCP47()))
	var tokens []Token
	sentenceStart := true
	emit := func(raw string, class TokenClass, normalized string) {
		tokens = append(tokens, Token{
			Text:          raw,
			Norm:          normalized,
			Class:         class,
			SentenceStart: sentenceStart,
		})
		sentenceStart = nextSentenceStart(sentenceStart, class, normalized)
	}
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r) || unicode.IsControl(r):
			i++
		case digitValue(r) >= 0:
			j, value := scanNumeral(runes, i)
			emit(string(runes[i:j]), LiteralNumber, value.String())
			i = j
		case lang == Chinese || isIdeograph(r):
			emit(string(r), ConceptClass, caseFold(lower, lang, string(r)))
			i++
		case isWordRune(r):
			j := scanWord(runes, i)
			raw := string(runes[i:j])
			emit(raw, ConceptClass, caseFold(lower, lang, raw))
			i = j
		default:
			emit(string(r), ConceptClass, string(r))
			i++
		}
	}
	return tokens
}

func caseFold(lower cases.Caser, lang LanguageTag, s string) string {
	if lang == Chinese {
		return s
	}
	return lower.String(s)
}

var (
	sentenceTerminals = []string{".", "!", "?", "。", "！", "？", "؟"}
	openingMarks      = []string{"¿", "¡", "(", "\"", "«"}
)

// nextSentenceStart tells whether the token after a token of class and
// normalized form starts a sentence. Opening marks pass the flag on, so in
// "¿Qué?" the word is capitalised, not the mark.
func nextSentenceStart(start bool, class TokenClass, normalized string) bool {
	if class != ConceptClass {
		return false
	}
	return slices.Contains(sentenceTerminals, normalized) ||
		(start && slices.Contains(openingMarks, normalized))
}

func isIdeograph(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana)
}

func isWordRune(r rune) bool {
	return (unicode.IsLetter(r) || unicode.IsMark(r)) && !isIdeograph(r)
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

// scanWord returns the end of the word starting at runes[i]. Apostrophes
// belong to a word when surrounded by word runes.
func scanWord(runes []rune, i int) int {
	j := i
	for j < len(runes) {
		if isWordRune(runes[j]) {
			j++
			continue
		}
		if isApostrophe(runes[j]) && j+1 < len(runes) && isWordRune(runes[j+1]) {
			j++
			continue
		}
		break
	}
	return j
}

// digitValue returns the value of an ASCII, Arabic-Indic or full-width
// digit, or -1.
func digitValue(r rune) int {
	for _, zero := range []rune{'0', '٠', '۰', '０'} {
		if r >= zero && r <= zero+9 {
			return int(r - zero)
		}
	}
	return -1
}

func isGroupSeparator(r rune) bool {
	return r == ',' || r == '.' || r == '_' || r == '\u00a0' || r == '\u202f'
}

// scanNumeral returns the end of the numeral starting at runes[i] and its value.
func scanNumeral(runes []rune, i int) (int, *big.Int) {
	var digits strings.Builder
	j := i
	for j < len(runes) && digitValue(runes[j]) >= 0 {
		digits.WriteByte(byte('0' + digitValue(runes[j])))
		j++
	}
	for j < len(runes) {
		if !isGroupSeparator(runes[j]) || !isDigitGroup(runes, j+1) {
			break
		}
		for k := j + 1; k <= j+3; k++ {
			digits.WriteByte(byte('0' + digitValue(runes[k])))
		}
		j += 4
	}
	value, _ := new(big.Int).SetString(digits.String(), 10)
	return j, value
}

// isDigitGroup is a predicate: are there exactly three digits at runes[k]?
func isDigitGroup(runes []rune, k int) bool {
	if k+3 > len(runes) {
		return false
	}
	for _, r := range runes[k : k+3] {
		if digitValue(r) < 0 {
			return false
		}
	}
	return k+3 == len(runes) || digitValue(runes[k+3]) < 0
}
