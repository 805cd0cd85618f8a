// Package literal extracts byte strings from parsed patterns so a search
// can skip text that cannot match before running the automaton.
//
// Two analyses are provided:
//   - FindMust computes the longest string every match contains, the
//     classic grep "must" analysis over the postfix token list.
//   - Extractor.Alternates recognizes patterns that are a small finite
//     set of strings, such as foo|bar|baz, for multi-string scanning.
package literal

import (
	"bytes"
	"sort"
)

// Literal is a byte string extracted from a pattern. Complete reports that
// the string is a whole match rather than a necessary fragment of one.
//
// Example:
//   - Pattern foo|bar → Literal{"foo", true}, Literal{"bar", true}
//   - Pattern foo.*bar → Literal{"foo", false}
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a Literal.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{
		Bytes:    b,
		Complete: complete,
	}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a debugging representation: "literal{bytes, complete=b}".
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a set of alternative literals, any of which may start a match.
type Seq struct {
	literals []Literal
}

// NewSeq creates a sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{
		literals: lits,
	}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at index i. It panics if i is out of range.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty reports whether the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// Patterns returns the byte strings of the sequence in order.
func (s *Seq) Patterns() [][]byte {
	if s.IsEmpty() {
		return nil
	}
	out := make([][]byte, len(s.literals))
	for i, lit := range s.literals {
		out[i] = lit.Bytes
	}
	return out
}

// Clone returns a deep copy of the sequence.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}

	cloned := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		cloned[i] = Literal{
			Bytes:    bytes.Clone(lit.Bytes),
			Complete: lit.Complete,
		}
	}
	return &Seq{literals: cloned}
}

// Minimize removes literals that have a shorter literal of the sequence as
// prefix, and exact duplicates. Text containing "foobar" also contains
// "foo", so a scan for the shorter string finds every candidate the longer
// one would.
//
// The remaining literals are ordered by length, shortest first. Literals
// of equal length keep their relative order.
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	sort.SliceStable(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for _, k := range kept {
			if isPrefix(k.Bytes, current.Bytes) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}
	s.literals = kept
}

// LongestCommonPrefix returns the longest prefix shared by all literals.
//
// Example: ["hello", "help", "hero"] → "he".
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}
	prefix := s.literals[0].Bytes
	for i := 1; i < len(s.literals); i++ {
		prefix = commonPrefix(prefix, s.literals[i].Bytes)
		if len(prefix) == 0 {
			return []byte{}
		}
	}
	return bytes.Clone(prefix)
}

// LongestCommonSuffix returns the longest suffix shared by all literals.
//
// Example: ["cat", "bat", "rat"] → "at".
func (s *Seq) LongestCommonSuffix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}
	suffix := s.literals[0].Bytes
	for i := 1; i < len(s.literals); i++ {
		suffix = commonSuffix(suffix, s.literals[i].Bytes)
		if len(suffix) == 0 {
			return []byte{}
		}
	}
	return bytes.Clone(suffix)
}

// isPrefix returns true if prefix is a prefix of s.
func isPrefix(prefix, s []byte) bool {
	if len(prefix) > len(s) {
		return false
	}
	return bytes.Equal(prefix, s[:len(prefix)])
}

// commonPrefix returns the longest common prefix of a and b, aliasing a.
func commonPrefix(a, b []byte) []byte {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// commonSuffix returns the longest common suffix of a and b, aliasing a.
func commonSuffix(a, b []byte) []byte {
	aLen, bLen := len(a), len(b)
	n := min(aLen, bLen)
	for i := 0; i < n; i++ {
		if a[aLen-1-i] != b[bLen-1-i] {
			return a[aLen-i:]
		}
	}
	return a[aLen-n:]
}
