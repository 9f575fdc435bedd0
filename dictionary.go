package numcode

import (
	"cmp"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/npillmayer/numcode/dat"
)

// Entry is one line of a frequency dictionary.
type Entry struct {
	ID    uint32 `json:"id"`    // frequency rank, contiguous from 1
	Token string `json:"token"` // normalized token text
	Count uint64 `json:"count"` // corpus frequency
}

// EntryReader yields dictionary entries one-by-one.
// It should return io.EOF when the stream is exhausted.
type EntryReader interface {
	Next() (Entry, error)
}

// Dictionary is an immutable bijection between the tokens of one language
// and their frequency-rank IDs.
//
// A dictionary contains:
//   - a frozen double-array trie mapping token text to ID
//   - a compact token store mapping ID to token text and frequency.
//
// There are no mutating methods; a *Dictionary may be shared freely between
// goroutines.
type Dictionary struct {
	lang   LanguageTag
	index  *dat.DAT
	tokens *tokenStore
}

// LoadDictionary compiles a dictionary from a streaming, format-agnostic source.
//
// File format parsing is intentionally outside the base package. Use adapters
// like package dictfile to parse concrete formats and feed this API.
//
// Entries may arrive in any order. After reading, IDs have to be unique and
// contiguous from 1, tokens unique and non-empty, and counts must not
// increase with the ID. Violations are reported as ErrInvalidDictionary.
func LoadDictionary(lang LanguageTag, reader EntryReader) (*Dictionary, error) {
	if !lang.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	var entries []Entry
	for {
		entry, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.ID, b.ID)
	})
	builder := dat.NewBuilder()
	store := newTokenStore(len(entries))
	for i, entry := range entries {
		if entry.ID != uint32(i+1) {
			return nil, fmt.Errorf("%w: expected ID %d, found %d (%q)",
				ErrInvalidDictionary, i+1, entry.ID, entry.Token)
		}
		if entry.Token == "" {
			return nil, fmt.Errorf("%w: empty token at ID %d", ErrInvalidDictionary, entry.ID)
		}
		if i > 0 && entry.Count > entries[i-1].Count {
			return nil, fmt.Errorf("%w: count of ID %d (%d) exceeds count of ID %d (%d)",
				ErrInvalidDictionary, entry.ID, entry.Count, entry.ID-1, entries[i-1].Count)
		}
		if err := builder.Insert(entry.Token, entry.ID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDictionary, err)
		}
		if err := store.Put(entry.ID, entry.Token, entry.Count); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDictionary, err)
		}
	}
	dict := &Dictionary{
		lang:   lang,
		index:  builder.Freeze(),
		tokens: store,
	}
	stats := dict.index.Stats()
	tracer().Infof("dictionary %s: %d tokens, trie used=%d total=%d fill=%.2f symbols=%d",
		lang, stats.Keys, stats.UsedSlots, stats.TotalSlots, stats.FillRatio(), stats.Symbols)
	return dict, nil
}

// NewDictionary compiles a dictionary from in-memory entries.
func NewDictionary(lang LanguageTag, entries []Entry) (*Dictionary, error) {
	return LoadDictionary(lang, &sliceEntryReader{entries: entries})
}

type sliceEntryReader struct {
	entries []Entry
	index   int
}

func (r *sliceEntryReader) Next() (Entry, error) {
	if r.index >= len(r.entries) {
		return Entry{}, io.EOF
	}
	entry := r.entries[r.index]
	r.index++
	return entry, nil
}

// Language returns the language the dictionary's ID space belongs to.
func (dict *Dictionary) Language() LanguageTag {
	return dict.lang
}

// Len returns the number of entries.
func (dict *Dictionary) Len() int {
	return dict.tokens.Len()
}

// LookupID returns the ID of a normalized token.
func (dict *Dictionary) LookupID(token string) (uint32, error) {
	if id, ok := dict.index.Lookup(token); ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: %q (%s)", ErrUnknownToken, token, dict.lang)
}

// LookupToken returns the token text for an ID.
func (dict *Dictionary) LookupToken(id uint32) (string, error) {
	if token, ok := dict.tokens.Token(id); ok {
		return token, nil
	}
	return "", fmt.Errorf("%w: %d (%s, %d entries)", ErrUnknownID, id, dict.lang, dict.Len())
}

// Entry returns the full entry for an ID.
func (dict *Dictionary) Entry(id uint32) (Entry, bool) {
	token, ok := dict.tokens.Token(id)
	if !ok {
		return Entry{}, false
	}
	count, _ := dict.tokens.Count(id)
	return Entry{ID: id, Token: token, Count: count}, true
}

// Entries iterates over all entries in ID order.
func (dict *Dictionary) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for id := uint32(1); int(id) <= dict.Len(); id++ {
			entry, _ := dict.Entry(id)
			if !yield(entry) {
				return
			}
		}
	}
}

// HasPrefix is a predicate: does any token start with prefix?
func (dict *Dictionary) HasPrefix(prefix string) bool {
	return dict.index.HasPrefix(prefix)
}

// Stats reports density metrics of the token index.
func (dict *Dictionary) Stats() dat.Stats {
	return dict.index.Stats()
}

func (dict *Dictionary) String() string {
	return fmt.Sprintf("Dictionary(%s, %d tokens)", dict.lang, dict.Len())
}
