// Package prefilter finds positions where a match may start, using literals
// that every match contains, so that the automaton only runs on lines that
// can match.
//
// The strategy is chosen from the literal analysis of the pattern:
//   - a required single byte → memchr
//   - a required string → memmem (case-insensitive for folded patterns)
//   - a set of alternative strings (foo|bar|baz) → Aho-Corasick
//
// Example:
//
//	tree, _ := syntax.Parse([]byte("foo.*bar"), syntax.Config{Flags: syntax.SyntaxEgrep})
//	pf := prefilter.NewBuilder(literal.FindMust(tree), nil).Build()
//	pos := pf.Find([]byte("xx foo yy bar"), 0)
//	// pos == 3
package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/grepdfa/literal"
	"github.com/coregx/grepdfa/simd"
)

// Prefilter reports candidate positions before the automaton runs.
//
// A candidate is the start of an occurrence of a literal every match
// contains. It does not guarantee a match unless IsComplete is true.
type Prefilter interface {
	// Find returns the first candidate at or after start, or -1.
	Find(haystack []byte, start int) int

	// IsComplete reports that an occurrence is itself a match of the
	// whole pattern.
	IsComplete() bool

	// LiteralLen returns the length of a complete match, or 0 if
	// IsComplete is false or matches vary in length.
	LiteralLen() int

	// HeapBytes returns the heap memory held by the prefilter.
	HeapBytes() int
}

// MatchFinder is implemented by prefilters whose occurrences vary in
// length and that can report the occurrence span.
type MatchFinder interface {
	// FindMatch returns the span of the first occurrence at or after
	// start, or (-1, -1).
	FindMatch(haystack []byte, start int) (start2, end int)
}

// Builder selects a prefilter from the literal analysis of a pattern.
type Builder struct {
	must       *literal.Must
	alternates *literal.Seq
	minLen     int
}

// NewBuilder creates a builder from the required literal and the
// alternative strings of a pattern. Either may be nil.
func NewBuilder(must *literal.Must, alternates *literal.Seq) *Builder {
	return &Builder{
		must:       must,
		alternates: alternates,
		minLen:     1,
	}
}

// WithMinLen sets the shortest literal worth scanning for.
func (b *Builder) WithMinLen(n int) *Builder {
	b.minLen = max(n, 1)
	return b
}

// Build returns the prefilter, or nil if the pattern has no usable
// literal.
//
// The required literal is preferred: it is a single scan and holds for
// every match. Alternatives are used when no single string is required.
func (b *Builder) Build() Prefilter {
	if m := b.must; m != nil && len(m.Literal) >= b.minLen {
		complete := m.Exact && !m.BegLine && !m.EndLine
		if m.CaseFolded {
			if !isASCII(m.Literal) {
				return nil
			}
			return newFoldPrefilter(m.Literal, complete)
		}
		if len(m.Literal) == 1 {
			return newMemchrPrefilter(m.Literal[0], complete)
		}
		return newMemmemPrefilter(m.Literal, complete)
	}

	if b.alternates.IsEmpty() {
		return nil
	}
	seq := b.alternates.Clone()
	seq.Minimize()
	if minLen(seq) < b.minLen {
		return nil
	}
	if seq.Len() == 1 {
		lit := seq.Get(0)
		if len(lit.Bytes) == 1 {
			return newMemchrPrefilter(lit.Bytes[0], lit.Complete)
		}
		return newMemmemPrefilter(lit.Bytes, lit.Complete)
	}
	pf, err := newAhoCorasickPrefilter(seq)
	if err != nil {
		return nil
	}
	return pf
}

// minLen returns the shortest literal length of a non-empty seq.
func minLen(seq *literal.Seq) int {
	n := seq.Get(0).Len()
	for i := 1; i < seq.Len(); i++ {
		n = min(n, seq.Get(i).Len())
	}
	return n
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}

// memchrPrefilter scans for a single byte.
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchrPrefilter(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{needle: needle, complete: complete}
}

func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	pos := simd.Memchr(haystack[start:], p.needle)
	if pos < 0 {
		return -1
	}
	return start + pos
}

func (p *memchrPrefilter) IsComplete() bool { return p.complete }

func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

func (p *memchrPrefilter) HeapBytes() int { return 0 }

// memmemPrefilter scans for a string.
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

func newMemmemPrefilter(needle []byte, complete bool) Prefilter {
	return &memmemPrefilter{needle: needle, complete: complete}
}

func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	pos := simd.Memmem(haystack[start:], p.needle)
	if pos < 0 {
		return -1
	}
	return start + pos
}

func (p *memmemPrefilter) IsComplete() bool { return p.complete }

func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

func (p *memmemPrefilter) HeapBytes() int { return len(p.needle) }

// foldPrefilter scans for an upper-cased ASCII string ignoring case.
type foldPrefilter struct {
	memmemPrefilter
}

func newFoldPrefilter(upper []byte, complete bool) Prefilter {
	return &foldPrefilter{memmemPrefilter{needle: upper, complete: complete}}
}

func (p *foldPrefilter) Find(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	pos := simd.MemmemFold(haystack[start:], p.needle)
	if pos < 0 {
		return -1
	}
	return start + pos
}

// ahoCorasickPrefilter scans for any of several strings at once.
type ahoCorasickPrefilter struct {
	auto     *ahocorasick.Automaton
	complete bool
	bytes    int
}

func newAhoCorasickPrefilter(seq *literal.Seq) (*ahoCorasickPrefilter, error) {
	builder := ahocorasick.NewBuilder()
	complete := true
	size := 0
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		builder.AddPattern(lit.Bytes)
		complete = complete && lit.Complete
		size += lit.Len()
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &ahoCorasickPrefilter{auto: auto, complete: complete, bytes: size}, nil
}

func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	s, _ := p.FindMatch(haystack, start)
	return s
}

func (p *ahoCorasickPrefilter) FindMatch(haystack []byte, start int) (int, int) {
	if start >= len(haystack) {
		return -1, -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1, -1
	}
	return m.Start, m.End
}

func (p *ahoCorasickPrefilter) IsComplete() bool { return p.complete }

func (p *ahoCorasickPrefilter) LiteralLen() int { return 0 }

// HeapBytes approximates the automaton by the total pattern length.
func (p *ahoCorasickPrefilter) HeapBytes() int { return p.bytes }
