package numcode

import (
	"fmt"
	"math/big"
	"strings"
)

// SuffixKind classifies the number carried by a Unit.
type SuffixKind uint8

// Suffix kinds. The numeric values are the 2-bit wire tags.
const (
	Concept    SuffixKind = iota // dictionary ID, suffix 'b'
	Number                       // literal number, suffix 'n'
	Repetition                   // total run length, suffix 'r'
	Sparse                       // count of empty positions, suffix 's'
)

var suffixLetters = [...]byte{Concept: 'b', Number: 'n', Repetition: 'r', Sparse: 's'}

// Letter returns the suffix letter of the NumCode text grammar.
func (k SuffixKind) Letter() byte {
	if int(k) < len(suffixLetters) {
		return suffixLetters[k]
	}
	return '?'
}

func (k SuffixKind) String() string {
	switch k {
	case Concept:
		return "Concept"
	case Number:
		return "Number"
	case Repetition:
		return "Repetition"
	case Sparse:
		return "Sparse"
	}
	return fmt.Sprintf("SuffixKind(%d)", uint8(k))
}

// Valid is a predicate: is k one of the four suffix kinds?
func (k SuffixKind) Valid() bool {
	return k <= Sparse
}

// SuffixFromLetter maps a suffix letter to its kind.
func SuffixFromLetter(c byte) (SuffixKind, bool) {
	for k, l := range suffixLetters {
		if l == c {
			return SuffixKind(k), true
		}
	}
	return 0, false
}

// Unit is one element of a NumCode stream: a non-negative integer tagged
// with a suffix kind. Values are arbitrary precision; a nil Value reads as 0.
//
// Units share their Value; clients must not modify it after construction.
type Unit struct {
	Kind  SuffixKind
	Value *big.Int
}

// ConceptUnit creates a unit referencing dictionary ID id.
func ConceptUnit(id uint64) Unit {
	return Unit{Kind: Concept, Value: new(big.Int).SetUint64(id)}
}

// NumberUnit creates a literal-number unit.
func NumberUnit(v uint64) Unit {
	return Unit{Kind: Number, Value: new(big.Int).SetUint64(v)}
}

// NumberUnitBig creates a literal-number unit for an arbitrary-precision value.
func NumberUnitBig(v *big.Int) Unit {
	return Unit{Kind: Number, Value: new(big.Int).Set(v)}
}

// RepetitionUnit creates a unit for a run of n occurrences in total.
func RepetitionUnit(n uint64) Unit {
	return Unit{Kind: Repetition, Value: new(big.Int).SetUint64(n)}
}

// SparseUnit creates a unit for n empty alignment positions.
func SparseUnit(n uint64) Unit {
	return Unit{Kind: Sparse, Value: new(big.Int).SetUint64(n)}
}

var bigZero = new(big.Int)

// Int returns the unit's value, never nil.
func (u Unit) Int() *big.Int {
	if u.Value == nil {
		return bigZero
	}
	return u.Value
}

// Uint64 returns the value if it fits into 64 bits.
func (u Unit) Uint64() (uint64, bool) {
	v := u.Int()
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, false
	}
	return v.Uint64(), true
}

// Equal compares kind and value.
func (u Unit) Equal(other Unit) bool {
	return u.Kind == other.Kind && u.Int().Cmp(other.Int()) == 0
}

// Validate checks the per-unit invariants: known kind, value ≥ 0,
// concept IDs ≥ 1 and repetition totals ≥ 2.
func (u Unit) Validate() error {
	if !u.Kind.Valid() {
		return fmt.Errorf("%w: unknown suffix kind %d", ErrMalformedStream, u.Kind)
	}
	v := u.Int()
	if v.Sign() < 0 {
		return fmt.Errorf("%w: negative %s value", ErrMalformedStream, u.Kind)
	}
	switch u.Kind {
	case Concept:
		if v.Sign() == 0 {
			return fmt.Errorf("%w: concept ID 0", ErrMalformedStream)
		}
	case Repetition:
		if v.Cmp(big.NewInt(2)) < 0 {
			return fmt.Errorf("%w: repetition count %s < 2", ErrMalformedStream, v)
		}
	}
	return nil
}

// String renders u in the NumCode text grammar, e.g. "319b".
func (u Unit) String() string {
	return u.Int().String() + string(u.Kind.Letter())
}

// Stream is an ordered NumCode sequence.
type Stream []Unit

// Equal compares two streams unit by unit.
func (s Stream) Equal(other Stream) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// String renders s in the NumCode text grammar: whitespace-separated
// suffixed numbers.
func (s Stream) String() string {
	var b strings.Builder
	for i, u := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(u.String())
	}
	return b.String()
}

// ParseStream parses the NumCode text grammar. Every item must be
// <digits><suffixLetter> with suffixLetter one of b, n, r, s.
func ParseStream(text string) (Stream, error) {
	fields := strings.Fields(text)
	stream := make(Stream, 0, len(fields))
	for i, f := range fields {
		u, err := ParseUnit(f)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		stream = append(stream, u)
	}
	return stream, nil
}

// ParseUnit parses a single "<digits><suffixLetter>" item.
func ParseUnit(item string) (Unit, error) {
	if len(item) < 2 {
		return Unit{}, fmt.Errorf("%w: %q is not <digits><suffix>", ErrMalformedStream, item)
	}
	kind, ok := SuffixFromLetter(item[len(item)-1])
	if !ok {
		return Unit{}, fmt.Errorf("%w: unknown suffix in %q", ErrMalformedStream, item)
	}
	digits := item[:len(item)-1]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Unit{}, fmt.Errorf("%w: non-digit in %q", ErrMalformedStream, item)
		}
	}
	v, _ := new(big.Int).SetString(digits, 10)
	u := Unit{Kind: kind, Value: v}
	if err := u.Validate(); err != nil {
		return Unit{}, fmt.Errorf("%q: %w", item, err)
	}
	return u, nil
}
