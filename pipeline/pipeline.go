/*
Package pipeline chains the NumCode stages into round trips.

	text ──Tokenize──▶ tokens ──Encode──▶ stream ──▶ grid strip | wire frame
	text ◀───Text──── tokens ◀──Decode── stream ◀──┘

A Pipeline is bound to a registry of dictionaries and selects the
dictionary by language tag, detecting the language if none is given.
Pipelines are immutable and may be shared between goroutines.
*/
package pipeline

import (
	"fmt"

	"github.com/npillmayer/numcode"
	"github.com/npillmayer/numcode/grid"
	"github.com/npillmayer/numcode/wire"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'numcode.pipeline'
func tracer() tracing.Trace {
	return tracing.Select("numcode.pipeline")
}

// Pipeline encodes text to NumCode and back.
type Pipeline struct {
	registry *numcode.Registry
	detector numcode.Detector
	dataType numcode.DataType
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDetector sets the language detector used for text without a
// language tag (default numcode.DefaultDetector).
func WithDetector(d numcode.Detector) Option {
	return func(p *Pipeline) {
		p.detector = d
	}
}

// WithDataType sets the data type announced in strips and frames
// (default plain text).
func WithDataType(dt numcode.DataType) Option {
	return func(p *Pipeline) {
		p.dataType = dt
	}
}

// New creates a pipeline over the dictionaries of a registry.
func New(registry *numcode.Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry: registry,
		detector: numcode.DefaultDetector,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registry returns the dictionaries the pipeline works with.
func (p *Pipeline) Registry() *numcode.Registry {
	return p.registry
}

// Message is an encoded text.
type Message struct {
	Language numcode.LanguageTag
	DataType numcode.DataType
	Stream   numcode.Stream
}

func (m Message) String() string {
	return fmt.Sprintf("[%s] %s", m.Language, m.Stream)
}

// Result is a decoded message.
type Result struct {
	Language numcode.LanguageTag
	DataType numcode.DataType
	Tokens   []numcode.Token
	Text     string
}

// Detect guesses the language of text.
func (p *Pipeline) Detect(text string) numcode.LanguageTag {
	lang := p.detector.Detect(numcode.Tokenize(text, ""))
	tracer().Debugf("detected language %s", lang)
	return lang
}

// Encode tokenizes text and encodes the tokens with the dictionary for
// lang. If lang is empty, the language is detected.
func (p *Pipeline) Encode(text string, lang numcode.LanguageTag) (Message, error) {
	if lang == "" {
		lang = p.Detect(text)
	}
	dict, err := p.registry.Dictionary(lang)
	if err != nil {
		return Message{}, err
	}
	tokens := numcode.Tokenize(text, lang)
	stream, err := numcode.Encode(tokens, dict)
	if err != nil {
		return Message{}, err
	}
	tracer().Debugf("encoded %d tokens into %d units", len(tokens), len(stream))
	return Message{Language: lang, DataType: p.dataType, Stream: stream}, nil
}

// Decode expands a message into tokens and reconstructs its text.
func (p *Pipeline) Decode(msg Message) (Result, error) {
	dict, err := p.registry.Dictionary(msg.Language)
	if err != nil {
		return Result{}, err
	}
	tokens, err := numcode.Decode(msg.Stream, dict)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Language: msg.Language,
		DataType: msg.DataType,
		Tokens:   tokens,
		Text:     numcode.Text(tokens, msg.Language),
	}, nil
}

// EncodeGrid encodes text onto a strip of grids, headed by a grid
// carrying language and data type.
func (p *Pipeline) EncodeGrid(text string, lang numcode.LanguageTag) ([]grid.Grid, error) {
	msg, err := p.Encode(text, lang)
	if err != nil {
		return nil, err
	}
	return grid.EncodeStrip(msg.Stream, msg.Language, msg.DataType)
}

// DecodeGrid reads a strip of grids. Strips without a language header
// are decoded with fallback.
func (p *Pipeline) DecodeGrid(strip []grid.Grid, fallback numcode.LanguageTag) (Result, error) {
	msg, err := ReadStrip(strip)
	if err != nil {
		return Result{}, err
	}
	if msg.Language == "" {
		msg.Language = fallback
	}
	return p.Decode(msg)
}

// ReadStrip recovers the message of a strip without decoding it.
func ReadStrip(strip []grid.Grid) (Message, error) {
	s, err := grid.DecodeStrip(strip)
	if err != nil {
		return Message{}, err
	}
	return Message{Language: s.Language, DataType: s.DataType, Stream: s.Stream}, nil
}

// EncodeWire encodes text into a wire frame.
func (p *Pipeline) EncodeWire(text string, lang numcode.LanguageTag) ([]byte, error) {
	msg, err := p.Encode(text, lang)
	if err != nil {
		return nil, err
	}
	return wire.EncodeFrame(wire.Frame{Language: msg.Language, DataType: msg.DataType, Stream: msg.Stream})
}

// DecodeWire decodes a wire frame.
func (p *Pipeline) DecodeWire(frame []byte) (Result, error) {
	f, err := wire.DecodeFrame(frame)
	if err != nil {
		return Result{}, err
	}
	return p.Decode(Message{Language: f.Language, DataType: f.DataType, Stream: f.Stream})
}
