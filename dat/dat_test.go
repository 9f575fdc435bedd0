package dat

import (
	"fmt"
	"testing"
)

func TestBuilderLookup(t *testing.T) {
	b := NewBuilder()
	keys := []string{"de", "la", "que", "el", "en", "l'amour", "año", "中", "中国", "😀"}
	for i, k := range keys {
		if err := b.Insert(k, uint32(i+1)); err != nil {
			t.Fatalf("insert %q: %v", k, err)
		}
	}
	d := b.Freeze()
	if d.Len() != len(keys) {
		t.Fatalf("expected %d keys, have %d", len(keys), d.Len())
	}
	for i, k := range keys {
		v, ok := d.Lookup(k)
		if !ok || v != uint32(i+1) {
			t.Fatalf("lookup %q: got (%d, %v), want %d", k, v, ok, i+1)
		}
	}
	for _, k := range []string{"d", "qu", "ques", "", "xyz", "中华"} {
		if v, ok := d.Lookup(k); ok {
			t.Fatalf("lookup %q should fail, got %d", k, v)
		}
	}
}

func TestBuilderRejects(t *testing.T) {
	b := NewBuilder()
	if err := b.Insert("", 1); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if err := b.Insert("a", 0); err == nil {
		t.Fatalf("expected error for zero value")
	}
	if err := b.Insert("a", 1); err != nil {
		t.Fatal(err)
	}
	if err := b.Insert("a", 2); err == nil {
		t.Fatalf("expected error for duplicate key")
	}
	b.Freeze()
	if err := b.Insert("b", 3); err == nil {
		t.Fatalf("expected error for insert after freeze")
	}
}

func TestHasPrefix(t *testing.T) {
	b := NewBuilder()
	_ = b.Insert("amor", 1)
	_ = b.Insert("amigo", 2)
	d := b.Freeze()
	for prefix, want := range map[string]bool{"am": true, "amo": true, "": true, "ax": false, "amores": false} {
		if got := d.HasPrefix(prefix); got != want {
			t.Fatalf("HasPrefix(%q) = %v, want %v", prefix, got, want)
		}
	}
}

func TestManyKeysStats(t *testing.T) {
	b := NewBuilder()
	const n = 5000
	for i := 1; i <= n; i++ {
		if err := b.Insert(fmt.Sprintf("w%dx", i), uint32(i)); err != nil {
			t.Fatal(err)
		}
	}
	d := b.Freeze()
	for i := 1; i <= n; i++ {
		if v, ok := d.Lookup(fmt.Sprintf("w%dx", i)); !ok || v != uint32(i) {
			t.Fatalf("lookup w%dx: got (%d, %v)", i, v, ok)
		}
	}
	stats := d.Stats()
	if stats.Keys != n || stats.UsedSlots <= 0 || stats.FillRatio() <= 0 || stats.FillRatio() > 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestAlphabetAstral(t *testing.T) {
	var a Alphabet
	d1, _ := a.Add('a')
	d2, _ := a.Add('😀')
	d3, _ := a.Add('a')
	if d1 != 1 || d2 != 2 || d3 != 1 {
		t.Fatalf("unexpected dense ids %d %d %d", d1, d2, d3)
	}
	if a.Dense('😀') != 2 || a.Dense('b') != 0 || a.Size() != 2 {
		t.Fatalf("alphabet lookup broken")
	}
}
