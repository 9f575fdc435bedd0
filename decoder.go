package numcode

import (
	"fmt"
	"math"
)

// Decode turns a NumCode stream back into tokens.
//
// Decoding is sequential; the only state is the token emitted last:
//   - Concept(id) emits the dictionary token for id
//   - Number(v) emits the decimal numeral v
//   - Repetition(n) emits the previous token n−1 more times, for n in total;
//     it must directly follow a Concept or Number unit
//   - Sparse(n) emits n padding tokens
//
// A stream decoding to more than MaxExpansion tokens fails with
// ErrExpansionLimit.
//
// Errors are reported as *UnitError identifying the offending unit.
// Decoded tokens are in canonical lowercase form; see Text for presentation.
func Decode(stream Stream, dict *Dictionary) ([]Token, error) {
	if dict == nil {
		return nil, fmt.Errorf("%w: no dictionary", ErrUnsupportedLanguage)
	}
	tokens := make([]Token, 0, len(stream))
	last := -1 // index of the token emitted by the previous unit, if repeatable
	for i, u := range stream {
		if err := u.Validate(); err != nil {
			return nil, &UnitError{Index: i, Unit: u, Err: err}
		}
		switch u.Kind {
		case Concept:
			id, ok := u.Uint64()
			if !ok || id > math.MaxUint32 {
				return nil, &UnitError{Index: i, Unit: u, Err: ErrUnknownID}
			}
			text, err := dict.LookupToken(uint32(id))
			if err != nil {
				return nil, &UnitError{Index: i, Unit: u, Err: ErrUnknownID}
			}
			tokens = append(tokens, Token{Text: text, Norm: text, Class: ConceptClass})
			last = len(tokens) - 1
		case Number:
			text := u.Int().String()
			tokens = append(tokens, Token{Text: text, Norm: text, Class: LiteralNumber})
			last = len(tokens) - 1
		case Repetition:
			if last < 0 {
				return nil, &UnitError{Index: i, Unit: u,
					Err: fmt.Errorf("%w: repetition without preceding token", ErrMalformedStream)}
			}
			n, ok := u.Uint64()
			if !ok || exceedsExpansion(len(tokens), n-1) {
				return nil, &UnitError{Index: i, Unit: u, Err: ErrExpansionLimit}
			}
			repeated := tokens[last]
			for range n - 1 {
				tokens = append(tokens, repeated)
			}
			last = -1
		case Sparse:
			n, ok := u.Uint64()
			if !ok || exceedsExpansion(len(tokens), n) {
				return nil, &UnitError{Index: i, Unit: u, Err: ErrExpansionLimit}
			}
			for range n {
				tokens = append(tokens, Token{Class: Padding})
			}
			last = -1
		}
	}
	markSentences(tokens)
	return tokens, nil
}

// MaxExpansion bounds the number of tokens a single stream may decode to.
const MaxExpansion = 1 << 24

// exceedsExpansion is a predicate: would n more tokens after have tokens
// exceed MaxExpansion?
func exceedsExpansion(have int, n uint64) bool {
	return n > MaxExpansion || have+int(n) > MaxExpansion
}

// markSentences sets SentenceStart on the first token and on every token
// following a sentence terminal, skipping padding.
func markSentences(tokens []Token) {
	start := true
	for i := range tokens {
		if tokens[i].Class == Padding {
			continue
		}
		tokens[i].SentenceStart = start
		start = nextSentenceStart(start, tokens[i].Class, tokens[i].Norm)
	}
}
