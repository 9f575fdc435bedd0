/*
Package suggest proposes dictionary tokens for words a dictionary does not know.

NumCode rejects concept tokens which are not in the dictionary of their
language. Clients use an Index to offer replacements: completions of a
prefix, or fuzzy matches containing the letters of the input in order.
Suggestions are ranked by frequency, most frequent first.
*/
package suggest

import (
	"cmp"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/derekparker/trie/v3"
	"github.com/npillmayer/numcode"
)

// Suggestion is a dictionary entry proposed for an unknown token.
type Suggestion = numcode.Entry

// Index is a prefix tree over the tokens of one dictionary.
// It is safe for concurrent reads.
type Index struct {
	dict *numcode.Dictionary
	tree *trie.Trie[uint32]
}

// NewIndex indexes all tokens of a dictionary.
func NewIndex(dict *numcode.Dictionary) *Index {
	tree := trie.New[uint32]()
	for e := range dict.Entries() {
		tree.Add(e.Token, e.ID)
	}
	return &Index{dict: dict, tree: tree}
}

// Language returns the language of the indexed dictionary.
func (ix *Index) Language() numcode.LanguageTag {
	return ix.dict.Language()
}

// Complete returns up to limit tokens starting with prefix.
func (ix *Index) Complete(prefix string, limit int) []Suggestion {
	return ix.rank(ix.tree.PrefixSearch(prefix), limit)
}

// Fuzzy returns up to limit tokens containing the runes of pattern in order.
func (ix *Index) Fuzzy(pattern string, limit int) []Suggestion {
	return ix.rank(ix.tree.FuzzySearch(pattern), limit)
}

// Suggest proposes replacements for token: completions of the longest
// prefix of token with any, falling back to fuzzy matches.
// Known tokens are their own single suggestion.
func (ix *Index) Suggest(token string, limit int) []Suggestion {
	if node, ok := ix.tree.Find(token); ok {
		e, _ := ix.dict.Entry(node.Val())
		return []Suggestion{e}
	}
	for prefix := token; utf8.RuneCountInString(prefix) >= 2; {
		if s := ix.Complete(prefix, limit); len(s) > 0 {
			return s
		}
		_, size := utf8.DecodeLastRuneInString(prefix)
		prefix = prefix[:len(prefix)-size]
	}
	return ix.Fuzzy(token, limit)
}

func (ix *Index) rank(keys []string, limit int) []Suggestion {
	suggestions := make([]Suggestion, 0, len(keys))
	for _, key := range keys {
		node, ok := ix.tree.Find(key)
		if !ok {
			continue
		}
		if e, ok := ix.dict.Entry(node.Val()); ok {
			suggestions = append(suggestions, e)
		}
	}
	// IDs are frequency ranks
	slices.SortFunc(suggestions, func(a, b Suggestion) int {
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// Set holds one index per language of a registry.
type Set struct {
	indexes map[numcode.LanguageTag]*Index
}

// NewSet indexes every dictionary of a registry.
func NewSet(reg *numcode.Registry) *Set {
	set := &Set{indexes: make(map[numcode.LanguageTag]*Index, reg.Len())}
	for _, lang := range reg.Languages() {
		dict, _ := reg.Dictionary(lang)
		set.indexes[lang] = NewIndex(dict)
	}
	return set
}

// Index returns the index for lang, or ErrUnsupportedLanguage.
func (set *Set) Index(lang numcode.LanguageTag) (*Index, error) {
	ix, ok := set.indexes[lang]
	if !ok {
		return nil, fmt.Errorf("suggest: %w: %q", numcode.ErrUnsupportedLanguage, lang)
	}
	return ix, nil
}
