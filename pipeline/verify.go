package pipeline

import (
	"slices"

	"github.com/npillmayer/numcode"
	"github.com/npillmayer/numcode/grid"
	"github.com/npillmayer/numcode/wire"
)

// Verification reports a full round trip of a text through both
// transports.
type Verification struct {
	Message Message     // text encoded
	Strip   []grid.Grid // message written as a strip
	Frame   []byte      // message written as a wire frame
	Result  Result      // strip read back and decoded
	// StreamsMatch is set if the strip and the frame both reproduce the
	// stream unit for unit.
	StreamsMatch bool
	// TokensMatch is set if the decoded tokens equal the normalized input
	// tokens. Padding does not take part in the comparison.
	TokensMatch bool
}

// OK is a predicate: did the round trip reproduce the input?
func (v Verification) OK() bool {
	return v.StreamsMatch && v.TokensMatch
}

// Verify runs text → stream → strip → stream → text and text → stream →
// frame → stream, and compares the results. Errors are returned only if a
// stage fails; mismatches are reported in the Verification.
func (p *Pipeline) Verify(text string, lang numcode.LanguageTag) (Verification, error) {
	var v Verification
	var err error
	if v.Message, err = p.Encode(text, lang); err != nil {
		return v, err
	}
	if v.Strip, err = grid.EncodeStrip(v.Message.Stream, v.Message.Language, v.Message.DataType); err != nil {
		return v, err
	}
	read, err := ReadStrip(v.Strip)
	if err != nil {
		return v, err
	}
	if v.Frame, err = wire.EncodeFrame(wire.Frame{
		Language: v.Message.Language,
		DataType: v.Message.DataType,
		Stream:   v.Message.Stream,
	}); err != nil {
		return v, err
	}
	framed, err := wire.DecodeFrame(v.Frame)
	if err != nil {
		return v, err
	}
	v.StreamsMatch = read.Language == v.Message.Language &&
		read.Stream.Equal(v.Message.Stream) && framed.Stream.Equal(v.Message.Stream)
	if v.Result, err = p.Decode(read); err != nil {
		return v, err
	}
	want := numcode.Norms(numcode.Tokenize(text, v.Message.Language))
	v.TokensMatch = slices.Equal(want, numcode.Norms(v.Result.Tokens))
	tracer().Infof("verification of %d units: streams match=%v, tokens match=%v",
		len(v.Message.Stream), v.StreamsMatch, v.TokensMatch)
	return v, nil
}
