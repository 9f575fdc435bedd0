package dat

import (
	"fmt"
	"slices"
)

type buildNode struct {
	state    uint32
	value    uint32
	children map[uint16]*buildNode
}

// Builder collects keys in a pointer-based trie and compiles them into a DAT.
// A Builder is single-use: after Freeze it refuses further inserts.
type Builder struct {
	root     *buildNode
	alphabet Alphabet
	keys     int
	frozen   bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		root: &buildNode{children: make(map[uint16]*buildNode)},
	}
}

// Insert stores value for key. value must be non-zero, keys must be unique.
func (b *Builder) Insert(key string, value uint32) error {
	if b.frozen {
		return fmt.Errorf("dat: insert %q into frozen builder", key)
	}
	if key == "" {
		return fmt.Errorf("dat: empty key")
	}
	if value == 0 {
		return fmt.Errorf("dat: zero value for key %q", key)
	}
	n := b.root
	for _, r := range key {
		c, ok := b.alphabet.Add(r)
		if !ok {
			return fmt.Errorf("dat: alphabet exhausted at %#U", r)
		}
		child := n.children[c]
		if child == nil {
			child = &buildNode{children: make(map[uint16]*buildNode)}
			n.children[c] = child
		}
		n = child
	}
	if n.value != 0 {
		return fmt.Errorf("dat: duplicate key %q", key)
	}
	n.value = value
	b.keys++
	return nil
}

// Freeze lays out the trie breadth-first into a double array.
func (b *Builder) Freeze() *DAT {
	d := &DAT{
		Root:     1,
		Base:     make([]int32, 2),
		Check:    make([]int32, 2),
		Value:    make([]uint32, 2),
		Alphabet: b.alphabet,
		keys:     b.keys,
	}
	b.root.state = d.Root
	free := 2 // lowest slot that may still be unoccupied
	queue := []*buildNode{b.root}
	for q := 0; q < len(queue); q++ {
		n := queue[q]
		d.Value[n.state] = n.value
		if len(n.children) == 0 {
			continue
		}
		labels := sortedLabels(n.children)
		base := findBase(d.Check, labels, free)
		d.ensure(base + int(labels[len(labels)-1]))
		d.Base[n.state] = int32(base)
		for _, label := range labels {
			t := base + int(label)
			child := n.children[label]
			child.state = uint32(t)
			d.Check[t] = int32(n.state)
			queue = append(queue, child)
		}
		for free < len(d.Check) && d.Check[free] != 0 {
			free++
		}
	}
	b.root = nil
	b.frozen = true
	return d
}

func (d *DAT) ensure(idx int) {
	if idx < len(d.Base) {
		return
	}
	grow := idx + 1 - len(d.Base)
	d.Base = append(d.Base, make([]int32, grow)...)
	d.Check = append(d.Check, make([]int32, grow)...)
	d.Value = append(d.Value, make([]uint32, grow)...)
}

func sortedLabels(children map[uint16]*buildNode) []uint16 {
	labels := make([]uint16, 0, len(children))
	for label := range children {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// findBase returns the first base where every label lands on a free slot.
// No slot below free is unoccupied.
func findBase(check []int32, labels []uint16, free int) int {
	for base := max(1, free-int(labels[0])); ; base++ {
		ok := true
		for _, label := range labels {
			t := base + int(label)
			if t < len(check) && check[t] != 0 {
				ok = false
				break
			}
		}
		if ok {
			return base
		}
	}
}
