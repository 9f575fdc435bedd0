package suggest

import (
	"errors"
	"slices"
	"testing"

	"github.com/npillmayer/numcode"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	words := []string{"de", "casa", "casas", "camino", "cosa", "amor", "amores"}
	entries := make([]numcode.Entry, len(words))
	for i, w := range words {
		entries[i] = numcode.Entry{ID: uint32(i + 1), Token: w, Count: uint64(100 - i)}
	}
	dict, err := numcode.NewDictionary(numcode.Spanish, entries)
	if err != nil {
		t.Fatal(err)
	}
	return NewIndex(dict)
}

func tokens(suggestions []Suggestion) []string {
	var s []string
	for _, sug := range suggestions {
		s = append(s, sug.Token)
	}
	return s
}

func TestComplete(t *testing.T) {
	ix := testIndex(t)
	if got := tokens(ix.Complete("cas", 0)); !slices.Equal(got, []string{"casa", "casas"}) {
		t.Fatalf("Complete(cas) = %v", got)
	}
	if got := tokens(ix.Complete("ca", 2)); !slices.Equal(got, []string{"casa", "casas"}) {
		t.Fatalf("Complete(ca, 2) = %v", got)
	}
	if got := ix.Complete("zz", 0); len(got) != 0 {
		t.Fatalf("Complete(zz) = %v", got)
	}
}

func TestSuggest(t *testing.T) {
	ix := testIndex(t)
	for _, test := range []struct {
		token string
		want  []string
	}{
		{"amor", []string{"amor"}},
		{"casita", []string{"casa", "casas"}},
		{"amorcito", []string{"amor", "amores"}},
		{"xq", nil},
	} {
		if got := tokens(ix.Suggest(test.token, 5)); !slices.Equal(got, test.want) {
			t.Errorf("Suggest(%q) = %v, want %v", test.token, got, test.want)
		}
	}
}

func TestSuggestionsCarryEntries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "numcode")
	defer teardown()
	//
	ix := testIndex(t)
	exact := ix.Suggest("amores", 5)
	if len(exact) != 1 || exact[0] != (Suggestion{ID: 7, Token: "amores", Count: 94}) {
		t.Fatalf("Suggest(amores) = %v, want entry 7", exact)
	}
	for _, s := range ix.Complete("ca", 0) {
		e, ok := ix.dict.Entry(s.ID)
		if !ok || e != s {
			t.Errorf("suggestion %v does not match dictionary entry %v", s, e)
		}
	}
}

func TestFuzzy(t *testing.T) {
	ix := testIndex(t)
	found := false
	for _, s := range ix.Fuzzy("cs", 0) {
		found = found || s.Token == "cosa"
	}
	if !found {
		t.Fatalf("expected fuzzy match for cosa")
	}
}

func TestSet(t *testing.T) {
	ix := testIndex(t)
	es, _ := numcode.NewDictionary(numcode.Spanish, []numcode.Entry{{ID: 1, Token: "de", Count: 1}})
	reg, err := numcode.NewRegistry(es)
	if err != nil {
		t.Fatal(err)
	}
	set := NewSet(reg)
	if got, err := set.Index(numcode.Spanish); err != nil || got.Language() != ix.Language() {
		t.Fatalf("Index(es) = %v, %v", got, err)
	}
	if _, err := set.Index(numcode.English); !errors.Is(err, numcode.ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
}
