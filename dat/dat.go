/*
Package dat implements a frozen double-array trie (DAT) mapping token strings
to dictionary IDs.

  - Nodes/states are indices into Base/Check (0 is unused; Root is 1).
  - Transition: t := Base[s] + c; valid if Check[t] == s; next state is t.
  - c is a dense symbol ID in [1..Alphabet.Size()]. c==0 means "not in alphabet".
  - Value[s] != 0 marks s as terminal; the value is the token's ID.

A DAT is built once with a Builder and never changes afterwards, so it may be
shared between goroutines without locking.
*/
package dat

// DAT is a frozen double-array trie.
type DAT struct {
	// Root state index (1).
	Root uint32

	// Base and Check are the classic double-array.
	Base  []int32 // len == N
	Check []int32 // len == N

	// Value holds the ID stored for a terminal state, 0 for inner states.
	Value []uint32 // len == N

	// Alphabet maps runes to dense symbol IDs.
	Alphabet Alphabet

	keys int
}

// NStates returns number of allocated slots/states in the arrays.
func (d *DAT) NStates() int { return len(d.Base) }

// Len returns the number of keys stored.
func (d *DAT) Len() int { return d.keys }

// Transition returns (nextState, ok). dense must be in [1..Alphabet.Size()].
func (d *DAT) Transition(state uint32, dense uint16) (uint32, bool) {
	if dense == 0 || int(state) >= len(d.Base) {
		return 0, false
	}
	t := d.Base[state] + int32(dense)
	if t <= 0 || int(t) >= len(d.Check) {
		return 0, false
	}
	if d.Check[t] != int32(state) {
		return 0, false
	}
	return uint32(t), true
}

// Lookup returns the value stored for key.
func (d *DAT) Lookup(key string) (uint32, bool) {
	if d == nil || len(d.Base) == 0 || key == "" {
		return 0, false
	}
	state := d.Root
	for _, r := range key {
		next, ok := d.Transition(state, d.Alphabet.Dense(r))
		if !ok {
			return 0, false
		}
		state = next
	}
	if v := d.Value[state]; v != 0 {
		return v, true
	}
	return 0, false
}

// HasPrefix is a predicate: does any stored key start with prefix?
func (d *DAT) HasPrefix(prefix string) bool {
	if d == nil || len(d.Base) == 0 {
		return false
	}
	state := d.Root
	for _, r := range prefix {
		next, ok := d.Transition(state, d.Alphabet.Dense(r))
		if !ok {
			return false
		}
		state = next
	}
	return true
}

// Stats reports density metrics for the double array.
type Stats struct {
	Keys       int
	UsedSlots  int
	TotalSlots int
	MaxStateID int
	Symbols    int
}

// FillRatio is UsedSlots/TotalSlots.
func (s Stats) FillRatio() float64 {
	if s.TotalSlots == 0 {
		return 0
	}
	return float64(s.UsedSlots) / float64(s.TotalSlots)
}

// Stats computes density metrics.
func (d *DAT) Stats() Stats {
	stats := Stats{
		Keys:       d.keys,
		TotalSlots: d.NStates(),
		MaxStateID: int(d.Root),
		Symbols:    int(d.Alphabet.Size()),
	}
	for i := range d.Check {
		if i == int(d.Root) || d.Check[i] != 0 {
			stats.UsedSlots++
			stats.MaxStateID = max(stats.MaxStateID, i)
		}
	}
	return stats
}
