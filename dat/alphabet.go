package dat

// Alphabet maps runes to dense symbol IDs [1..Size].
//
// BMP code points go through a two-level page table:
//   - Top[hi] = page index (1..NumPages), or 0 meaning "page absent".
//   - Pages is a flat array of NumPages*256 entries.
//
// Code points beyond the BMP (emoji, CJK extension planes) are rare in
// dictionaries and are kept in a small side map.
//
// Lookup is O(1) with two array reads for BMP runes. Each populated page
// costs 512 bytes.
type Alphabet struct {
	Top    [256]uint16 // page index (1-based); 0 means none
	Pages  []uint16    // flat: NumPages*256
	Astral map[rune]uint16
	size   uint16
}

// Size returns the number of symbols in the alphabet.
func (a *Alphabet) Size() uint16 { return a.size }

// NumPages returns the number of allocated BMP pages.
func (a *Alphabet) NumPages() int { return len(a.Pages) >> 8 }

// Dense returns the dense symbol ID for r, or 0 if r is not in the alphabet.
func (a *Alphabet) Dense(r rune) uint16 {
	if r < 0 {
		return 0
	}
	if r > 0xFFFF {
		return a.Astral[r]
	}
	pi := a.Top[r>>8]
	if pi == 0 {
		return 0
	}
	return a.Pages[int(pi-1)<<8+int(r&0xFF)]
}

// Add assigns the next dense ID to r if r is new and returns r's ID.
// It returns false if the alphabet is exhausted.
func (a *Alphabet) Add(r rune) (uint16, bool) {
	if r < 0 {
		return 0, false
	}
	if d := a.Dense(r); d != 0 {
		return d, true
	}
	if a.size == ^uint16(0) {
		return 0, false
	}
	a.size++
	if r > 0xFFFF {
		if a.Astral == nil {
			a.Astral = make(map[rune]uint16)
		}
		a.Astral[r] = a.size
		return a.size, true
	}
	pi := a.ensurePage(uint16(r >> 8))
	a.Pages[int(pi-1)<<8+int(r&0xFF)] = a.size
	return a.size, true
}

func (a *Alphabet) ensurePage(hi uint16) uint16 {
	if pi := a.Top[hi]; pi != 0 {
		return pi
	}
	a.Pages = append(a.Pages, make([]uint16, 256)...)
	pi := uint16(len(a.Pages) >> 8)
	a.Top[hi] = pi
	return pi
}
