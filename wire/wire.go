/*
Package wire packs NumCode streams into a compact binary form.

Every unit is written as a variable-length integer. The first byte holds the
suffix kind in its two low bits, the five lowest value bits in bits 2…6,
and a continuation flag in bit 7. Further bytes carry the remaining value
bits in groups of seven, least significant group first (LEB128), each with
a continuation flag in bit 7.

	first byte:  c vvvvv tt     tt = 0 Concept, 1 Number, 2 Repetition, 3 Sparse
	next bytes:  c vvvvvvv

Encodings are minimal: a value fitting into fewer bytes never uses more, and
decoding rejects any trailing zero group. Frequent words have small IDs, so
most concepts take a single byte.

For transport, streams may be wrapped into frames carrying a magic number,
the language and data type of the message, the payload length and a CRC-32
checksum (see EncodeFrame).
*/
package wire

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/npillmayer/numcode"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'numcode.wire'
func tracer() tracing.Trace {
	return tracing.Select("numcode.wire")
}

// ErrCorruptWire is returned for truncated or invalid byte sequences.
var ErrCorruptWire = errors.New("corrupt wire data")

// OffsetError reports the byte offset at which decoding failed.
type OffsetError struct {
	Offset int
	Reason string
	Err    error // optional cause
}

func (e *OffsetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt wire data at offset %d: %s: %v", e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt wire data at offset %d: %s", e.Offset, e.Reason)
}

// Unwrap makes OffsetError match ErrCorruptWire as well as its cause.
func (e *OffsetError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrCorruptWire, e.Err}
	}
	return []error{ErrCorruptWire}
}

const (
	tagBits   = 2
	firstBits = 5
	groupBits = 7
	contFlag  = 0x80
)

// AppendUnit appends the encoding of u to dst.
func AppendUnit(dst []byte, u numcode.Unit) ([]byte, error) {
	if !u.Kind.Valid() {
		return dst, fmt.Errorf("wire: invalid suffix kind %d: %w", u.Kind, numcode.ErrMalformedStream)
	}
	v := u.Int()
	if v.Sign() < 0 {
		return dst, fmt.Errorf("wire: negative value %s: %w", v, numcode.ErrMalformedStream)
	}
	if v.IsUint64() {
		return appendUint(dst, u.Kind, v.Uint64()), nil
	}
	return appendBig(dst, u.Kind, v), nil
}

func appendUint(dst []byte, kind numcode.SuffixKind, x uint64) []byte {
	b := byte(x&(1<<firstBits-1))<<tagBits | byte(kind)
	x >>= firstBits
	if x != 0 {
		b |= contFlag
	}
	dst = append(dst, b)
	for x != 0 {
		c := byte(x & (1<<groupBits - 1))
		x >>= groupBits
		if x != 0 {
			c |= contFlag
		}
		dst = append(dst, c)
	}
	return dst
}

func appendBig(dst []byte, kind numcode.SuffixKind, v *big.Int) []byte {
	x := new(big.Int).Set(v)
	b := lowBits(x, firstBits)<<tagBits | byte(kind)
	x.Rsh(x, firstBits)
	if x.Sign() != 0 {
		b |= contFlag
	}
	dst = append(dst, b)
	for x.Sign() != 0 {
		c := lowBits(x, groupBits)
		x.Rsh(x, groupBits)
		if x.Sign() != 0 {
			c |= contFlag
		}
		dst = append(dst, c)
	}
	return dst
}

func lowBits(x *big.Int, n uint) byte {
	w := x.Bits()
	if len(w) == 0 {
		return 0
	}
	return byte(uint(w[0]) & (1<<n - 1))
}

// ReadUnit decodes the unit at the start of src and returns it together
// with the number of bytes consumed. Offsets in errors are relative to src.
func ReadUnit(src []byte) (numcode.Unit, int, error) {
	if len(src) == 0 {
		return numcode.Unit{}, 0, &OffsetError{Offset: 0, Reason: "truncated unit"}
	}
	b := src[0]
	kind := numcode.SuffixKind(b & (1<<tagBits - 1))
	x := uint64(b>>tagBits) & (1<<firstBits - 1)
	var large *big.Int // takes over once the value exceeds 64 bits
	shift := uint(firstBits)
	n := 1
	for more := b&contFlag != 0; more; {
		if n >= len(src) {
			return numcode.Unit{}, n, &OffsetError{Offset: n, Reason: "truncated unit"}
		}
		c := src[n]
		more = c&contFlag != 0
		group := uint64(c & (1<<groupBits - 1))
		if !more && group == 0 {
			return numcode.Unit{}, n, &OffsetError{Offset: n, Reason: "non-minimal encoding"}
		}
		if large == nil && shift+groupBits <= 64 {
			x |= group << shift
		} else {
			if large == nil {
				large = new(big.Int).SetUint64(x)
			}
			g := new(big.Int).SetUint64(group)
			large.Or(large, g.Lsh(g, shift))
		}
		shift += groupBits
		n++
	}
	u := numcode.Unit{Kind: kind, Value: large}
	if large == nil {
		u.Value = new(big.Int).SetUint64(x)
	}
	if err := u.Validate(); err != nil {
		return numcode.Unit{}, n, &OffsetError{Offset: 0, Reason: "invalid unit", Err: err}
	}
	return u, n, nil
}

// Encode packs a stream. It fails only for units with an invalid kind or
// a negative value.
func Encode(stream numcode.Stream) ([]byte, error) {
	buf := make([]byte, 0, len(stream)*2)
	var err error
	for i, u := range stream {
		if buf, err = AppendUnit(buf, u); err != nil {
			return nil, &numcode.UnitError{Index: i, Unit: u, Err: err}
		}
	}
	return buf, nil
}

// Decode unpacks a byte sequence written by Encode.
func Decode(src []byte) (numcode.Stream, error) {
	stream := make(numcode.Stream, 0, len(src)/2+1)
	for offset := 0; offset < len(src); {
		u, n, err := ReadUnit(src[offset:])
		if err != nil {
			var oerr *OffsetError
			if errors.As(err, &oerr) {
				oerr.Offset += offset
			}
			tracer().Debugf("wire decode failed after %d units: %v", len(stream), err)
			return nil, err
		}
		stream = append(stream, u)
		offset += n
	}
	return stream, nil
}
