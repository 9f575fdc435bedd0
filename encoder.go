package numcode

import (
	"fmt"
	"math/big"
)

// Encode turns a token sequence into a NumCode stream.
//
// Concept tokens are replaced by their dictionary IDs, literal numbers are
// carried by value. A maximal run of N ≥ 2 identical concept tokens becomes
// the concept's ID followed by a Repetition unit with value N; a lone token
// is never followed by a repetition. Padding tokens (from decoded streams)
// collapse into Sparse units; text itself never produces them.
//
// A concept token missing from dict fails the whole call with a *TokenError
// wrapping ErrUnknownToken. Tokens are never dropped or substituted.
func Encode(tokens []Token, dict *Dictionary) (Stream, error) {
	if dict == nil {
		return nil, fmt.Errorf("%w: no dictionary", ErrUnsupportedLanguage)
	}
	stream := make(Stream, 0, len(tokens))
	for i := 0; i < len(tokens); {
		token := tokens[i]
		run := runLength(tokens, i)
		switch token.Class {
		case LiteralNumber:
			value, ok := new(big.Int).SetString(token.Norm, 10)
			if !ok || value.Sign() < 0 {
				return nil, &TokenError{Index: i, Token: token,
					Err: fmt.Errorf("%w: invalid numeral", ErrMalformedStream)}
			}
			stream = append(stream, Unit{Kind: Number, Value: value})
			i++
			continue
		case Padding:
			stream = append(stream, SparseUnit(uint64(run)))
			i += run
			continue
		}
		id, err := dict.LookupID(token.Norm)
		if err != nil {
			tracer().Debugf("token %d %q not in %s dictionary", i, token.Norm, dict.Language())
			return nil, &TokenError{Index: i, Token: token, Err: ErrUnknownToken}
		}
		stream = append(stream, ConceptUnit(uint64(id)))
		if run > 1 {
			stream = append(stream, RepetitionUnit(uint64(run)))
		}
		i += run
	}
	return stream, nil
}

// runLength counts identical tokens of the same class starting at tokens[i].
// Literal numbers never form runs.
func runLength(tokens []Token, i int) int {
	if tokens[i].Class == LiteralNumber {
		return 1
	}
	n := 1
	for i+n < len(tokens) && tokens[i+n].Class == tokens[i].Class &&
		tokens[i+n].Norm == tokens[i].Norm {
		n++
	}
	return n
}
