// Package syntax turns POSIX (grep-style) regular expressions into a flat
// postfix token list for the lazy DFA.
//
// The package contains the charclass primitives, the locale service the
// lexer consults, the lexer itself and a recursive-descent parser. The parse
// tree is never materialized as nodes: the parser appends tokens in postfix
// order, so every leaf of the expression is identified by its index in
// Tree.Tokens. That index is what the DFA calls a position.
//
// Example:
//
//	tree, err := syntax.Parse([]byte("a[0-9]+"), syntax.Config{
//	    Flags:  syntax.SyntaxEgrep,
//	    Locale: syntax.CLocale,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(tree) // BEG a CSET0 PLUS CAT CAT END CAT
package syntax

import (
	"math/bits"
	"strings"
)

// NotChar is the number of distinct byte values.
const NotChar = 256

// Charclass is a set of bytes stored as a 256-bit vector.
type Charclass [4]uint64

// Set adds b to the class.
func (c *Charclass) Set(b byte) {
	c[b>>6] |= 1 << (b & 63)
}

// Clear removes b from the class.
func (c *Charclass) Clear(b byte) {
	c[b>>6] &^= 1 << (b & 63)
}

// Has reports whether b is in the class.
func (c *Charclass) Has(b byte) bool {
	return c[b>>6]&(1<<(b&63)) != 0
}

// Fill adds every byte to the class.
func (c *Charclass) Fill() {
	for i := range c {
		c[i] = ^uint64(0)
	}
}

// Zero removes every byte from the class.
func (c *Charclass) Zero() {
	*c = Charclass{}
}

// Not complements the class in place.
func (c *Charclass) Not() {
	for i := range c {
		c[i] = ^c[i]
	}
}

// IsEmpty reports whether the class has no members.
func (c *Charclass) IsEmpty() bool {
	return c[0]|c[1]|c[2]|c[3] == 0
}

// IsFull reports whether every byte is a member.
func (c *Charclass) IsFull() bool {
	return c[0]&c[1]&c[2]&c[3] == ^uint64(0)
}

// And intersects c with o in place.
func (c *Charclass) And(o *Charclass) {
	for i := range c {
		c[i] &= o[i]
	}
}

// AndNot removes the members of o from c.
func (c *Charclass) AndNot(o *Charclass) {
	for i := range c {
		c[i] &^= o[i]
	}
}

// Or adds the members of o to c.
func (c *Charclass) Or(o *Charclass) {
	for i := range c {
		c[i] |= o[i]
	}
}

// Intersects reports whether c and o share a member.
func (c *Charclass) Intersects(o *Charclass) bool {
	return c[0]&o[0]|c[1]&o[1]|c[2]&o[2]|c[3]&o[3] != 0
}

// Count returns the number of members.
func (c *Charclass) Count() int {
	return bits.OnesCount64(c[0]) + bits.OnesCount64(c[1]) +
		bits.OnesCount64(c[2]) + bits.OnesCount64(c[3])
}

// First returns the smallest member, or -1 if the class is empty.
func (c *Charclass) First() int {
	for i, w := range c {
		if w != 0 {
			return i*64 + bits.TrailingZeros64(w)
		}
	}
	return -1
}

// String renders the class as byte ranges, e.g. "[0x30-0x39]".
func (c *Charclass) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	forEachRange(c, func(lo, hi byte) {
		if sb.Len() > 1 {
			sb.WriteByte(' ')
		}
		writeHexByte(&sb, lo)
		if hi != lo {
			sb.WriteByte('-')
			writeHexByte(&sb, hi)
		}
	})
	sb.WriteByte(']')
	return sb.String()
}

// forEachRange calls f for each maximal run of consecutive members.
func forEachRange(c *Charclass, f func(lo, hi byte)) {
	for b := 0; b < NotChar; {
		if !c.Has(byte(b)) {
			b++
			continue
		}
		lo := b
		for b+1 < NotChar && c.Has(byte(b+1)) {
			b++
		}
		f(byte(lo), byte(b))
		b++
	}
}

const hexDigits = "0123456789abcdef"

func writeHexByte(sb *strings.Builder, b byte) {
	sb.WriteString("0x")
	sb.WriteByte(hexDigits[b>>4])
	sb.WriteByte(hexDigits[b&15])
}

// CharclassTable interns charclasses: structurally equal classes always get
// the same index.
type CharclassTable struct {
	classes []Charclass
	index   map[Charclass]int
}

// NewCharclassTable creates an empty table.
func NewCharclassTable() *CharclassTable {
	return &CharclassTable{index: make(map[Charclass]int)}
}

// Index returns the index of c, adding it to the table if needed.
func (t *CharclassTable) Index(c *Charclass) int {
	if i, ok := t.index[*c]; ok {
		return i
	}
	i := len(t.classes)
	t.classes = append(t.classes, *c)
	t.index[*c] = i
	return i
}

// Get returns a pointer to the class at index i.
// The class must not be modified.
func (t *CharclassTable) Get(i int) *Charclass {
	return &t.classes[i]
}

// Len returns the number of interned classes.
func (t *CharclassTable) Len() int {
	return len(t.classes)
}

// Clone returns an independent copy of the table.
func (t *CharclassTable) Clone() *CharclassTable {
	n := &CharclassTable{
		classes: append([]Charclass(nil), t.classes...),
		index:   make(map[Charclass]int, len(t.index)),
	}
	for k, v := range t.index {
		n.index[k] = v
	}
	return n
}
