package numcode

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// attachRight holds punctuation written without a preceding space.
var attachRight = map[string]bool{
	".": true, ",": true, ";": true, ":": true, "!": true, "?": true,
	")": true, "\"": true, "'": true, "-": true,
	"。": true, "，": true, "！": true, "？": true,
	"،": true, "؛": true, "؟": true,
}

// attachLeft holds punctuation written without a following space.
var attachLeft = map[string]bool{"(": true, "¿": true, "¡": true}

// Text reconstructs presentable text from decoded tokens.
//
// Padding is skipped. Tokens are separated by single spaces except before
// right-attaching punctuation and after opening marks; Chinese
// tokens are joined without separators. The first token of every sentence is
// capitalised. This is a presentation step only: the canonical token identity
// stays lowercase.
func Text(tokens []Token, lang LanguageTag) string {
	title := cases.Title(language.Make(lang.BCP47()), cases.NoLower)
	var b strings.Builder
	prev := ""
	for _, t := range tokens {
		if t.Class == Padding {
			continue
		}
		word := t.Norm
		if t.SentenceStart && t.Class == ConceptClass && lang != Chinese {
			word = title.String(word)
		}
		if b.Len() > 0 && lang != Chinese && !attachRight[t.Norm] && !attachLeft[prev] {
			b.WriteByte(' ')
		}
		b.WriteString(word)
		prev = t.Norm
	}
	return b.String()
}
