package numcode

import (
	"fmt"
	"testing"
)

// mustDictionary creates a dictionary of n entries. words places real
// tokens at fixed IDs, all other IDs get filler tokens.
func mustDictionary(t *testing.T, lang LanguageTag, n int, words map[uint32]string) *Dictionary {
	t.Helper()
	entries := make([]Entry, 0, n)
	for id := uint32(1); id <= uint32(n); id++ {
		token, ok := words[id]
		if !ok {
			token = fmt.Sprintf("filler%d", id)
		}
		entries = append(entries, Entry{ID: id, Token: token, Count: uint64(10*n) - uint64(id)})
	}
	dict, err := NewDictionary(lang, entries)
	if err != nil {
		t.Fatalf("cannot create dictionary: %v", err)
	}
	return dict
}

func spanishDictionary(t *testing.T) *Dictionary {
	t.Helper()
	return mustDictionary(t, Spanish, 400, map[uint32]string{
		1: "de", 2: ".", 3: "la", 4: "que", 5: ",", 6: "el", 7: "en", 8: "y",
		9: "!", 10: "?", 11: "(", 12: ")", 13: "¿", 14: "es", 15: "un",
		20: "no", 42: "hola", 57: "mundo", 88: "año", 120: "gracias",
		319: "amor", 350: "l'amour",
	})
}
