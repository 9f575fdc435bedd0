package numcode

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the codec. Concrete errors wrap one of these
// and identify the offending token or unit; test with errors.Is.
var (
	// ErrUnknownToken is returned when a concept token is absent from the dictionary.
	ErrUnknownToken = errors.New("unknown token")

	// ErrUnknownID is returned when a stream references an ID absent from the dictionary.
	ErrUnknownID = errors.New("unknown id")

	// ErrMalformedStream is returned for units that violate the stream grammar.
	ErrMalformedStream = errors.New("malformed stream")

	// ErrOverflow is returned when a numeral exceeds the representable range.
	ErrOverflow = errors.New("numeral overflow")

	// ErrExpansionLimit is returned when a stream would decode to more than
	// MaxExpansion tokens.
	ErrExpansionLimit = errors.New("expansion limit exceeded")

	// ErrInvalidDictionary is returned when dictionary entries violate the file contract.
	ErrInvalidDictionary = errors.New("invalid dictionary")

	// ErrUnsupportedLanguage is returned for language tags without a loaded dictionary.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// TokenError reports a token that could not be encoded.
type TokenError struct {
	Index int   // position in the token sequence
	Token Token // offending token
	Err   error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token %d %q: %v", e.Index, e.Token.Norm, e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

// UnitError reports a stream unit that could not be decoded.
type UnitError struct {
	Index int // position in the stream
	Unit  Unit
	Err   error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("unit %d (%s): %v", e.Index, e.Unit, e.Err)
}

func (e *UnitError) Unwrap() error { return e.Err }
