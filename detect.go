package numcode

import (
	"unicode"
)

// Detector guesses the language of a token sequence.
type Detector interface {
	Detect(tokens []Token) LanguageTag
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(tokens []Token) LanguageTag

// Detect calls f(tokens).
func (f DetectorFunc) Detect(tokens []Token) LanguageTag {
	return f(tokens)
}

// DefaultDetector is a script and function-word heuristic: Han script is
// Chinese, Arabic script is Arabic, then English, French and Portuguese are
// recognised by frequent function words. Everything else is Spanish.
var DefaultDetector Detector = DetectorFunc(detectLanguage)

var functionWords = []struct {
	lang  LanguageTag
	words map[string]bool
}{
	{English, setOf("the", "is", "are", "was", "were", "have", "has", "will", "would", "could")},
	{French, setOf("le", "les", "une", "est", "sont", "avec", "pour", "dans", "qui", "mais")},
	{Portuguese, setOf("não", "você", "são", "também", "muito", "uma", "isso", "então", "obrigado")},
}

func setOf(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func detectLanguage(tokens []Token) LanguageTag {
	for _, script := range []struct {
		table *unicode.RangeTable
		lang  LanguageTag
	}{{unicode.Han, Chinese}, {unicode.Arabic, Arabic}} {
		for _, t := range tokens {
			for _, r := range t.Text {
				if unicode.Is(script.table, r) {
					return script.lang
				}
			}
		}
	}
	for _, fw := range functionWords {
		for _, t := range tokens {
			if t.Class == ConceptClass && fw.words[t.Norm] {
				return fw.lang
			}
		}
	}
	return Spanish
}
