/*
Package numcode maps natural-language token streams to compact numeric codes
and back.

Text is split into tokens, every word is replaced by its rank in a
per-language frequency dictionary ("concept" IDs), numerals are carried by
value, and runs of a repeated word collapse into the word plus a repetition
count. The result is a NumCode stream, a sequence of suffixed numbers:

	"amor amor amor, 2026" => 319b 3r 2n 2026n

with suffix letters b (concept), n (number), r (repetition total) and
s (sparse padding). Streams decode back to the lowercase canonical token
sequence; capitalisation is restored by a separate presentation step.

Dictionaries are immutable once loaded and are shared between goroutines
without locking. Every ID space is scoped to one language; a Registry holds
the dictionaries of all loaded languages and is passed explicitly to the
codec functions.

Sub-packages implement the transports: package grid maps a single suffixed
number onto a 10×20 ideogram grid ("Protocol Spec v6.8"), package wire packs
streams into bytes, package pipeline wires tokenizer, codec and transports
together.

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package numcode

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'numcode'
func tracer() tracing.Trace {
	return tracing.Select("numcode")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
