package literal

import (
	"bytes"

	"github.com/coregx/grepdfa/syntax"
)

// Config limits literal extraction and decides when a literal is worth
// scanning for.
//
//   - MinLen: shortest required literal a prefilter is built for
//   - MaxLiterals: bound on the alternatives of one pattern, so that
//     (a|b)(c|d)(e|f)... does not explode
//   - MaxLiteralLen: bound on the length of each alternative
//   - MaxClassSize: largest bracket expression expanded into its members
//
// Example:
//
//	config := literal.Config{
//	    MinLen:        1,
//	    MaxLiterals:   64,
//	    MaxLiteralLen: 64,
//	    MaxClassSize:  10,
//	}
//	extractor := literal.New(config)
type Config struct {
	MinLen        int
	MaxLiterals   int
	MaxLiteralLen int
	MaxClassSize  int
}

// DefaultConfig returns the default extraction limits.
func DefaultConfig() Config {
	return Config{
		MinLen:        1,
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor pulls literal sets out of parsed patterns.
type Extractor struct {
	config Config
}

// New creates an Extractor with the given configuration.
func New(config Config) *Extractor {
	return &Extractor{config: config}
}

// Config returns the extraction limits.
func (e *Extractor) Config() Config {
	return e.config
}

// Alternates returns the strings tree matches when tree is nothing but a
// finite set of strings, such as foo|ba[rz]. Every literal of the result is
// Complete. The result is empty if tree has any other construct (closures,
// anchors, "."), an empty alternative, or exceeds the configured limits.
//
// Examples:
//
//	"foo|bar"   → ["foo", "bar"]
//	"ba[rz]"    → ["bar", "baz"]
//	"foo|b.r"   → []
//	"(a|b)*"    → []
func (e *Extractor) Alternates(tree *syntax.Tree) *Seq {
	toks := tree.Tokens
	if len(toks) < 5 {
		return NewSeq()
	}

	var stack [][][]byte
	for _, tok := range toks[1 : len(toks)-3] {
		switch {
		case tok.IsByte():
			stack = append(stack, [][]byte{{byte(tok)}})
		case tok.IsCSet():
			set := e.expandClass(tree.Classes.Get(tok.CSetIndex()))
			if set == nil {
				return NewSeq()
			}
			stack = append(stack, set)
		case tok == syntax.TokCat:
			r := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			l := stack[len(stack)-1]
			product := e.cross(l, r)
			if product == nil {
				return NewSeq()
			}
			stack[len(stack)-1] = product
		case tok == syntax.TokOr:
			r := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			l := stack[len(stack)-1]
			if len(l)+len(r) > e.config.MaxLiterals {
				return NewSeq()
			}
			stack[len(stack)-1] = append(l, r...)
		default:
			return NewSeq()
		}
	}
	if len(stack) != 1 {
		return NewSeq()
	}

	seq := &Seq{literals: make([]Literal, 0, len(stack[0]))}
	for _, s := range stack[0] {
		if !containsBytes(seq.literals, s) {
			seq.literals = append(seq.literals, NewLiteral(s, true))
		}
	}
	return seq
}

// expandClass lists the members of a small bracket expression.
func (e *Extractor) expandClass(c *syntax.Charclass) [][]byte {
	n := c.Count()
	if n == 0 || n > e.config.MaxClassSize || n > e.config.MaxLiterals {
		return nil
	}
	out := make([][]byte, 0, n)
	for b := 0; b < syntax.NotChar; b++ {
		if c.Has(byte(b)) {
			out = append(out, []byte{byte(b)})
		}
	}
	return out
}

// cross returns every concatenation of a member of l with a member of r,
// or nil if the result would exceed the limits.
func (e *Extractor) cross(l, r [][]byte) [][]byte {
	if len(l)*len(r) > e.config.MaxLiterals {
		return nil
	}
	out := make([][]byte, 0, len(l)*len(r))
	for _, a := range l {
		for _, b := range r {
			if len(a)+len(b) > e.config.MaxLiteralLen {
				return nil
			}
			out = append(out, concat(a, b))
		}
	}
	return out
}

func containsBytes(lits []Literal, s []byte) bool {
	for _, lit := range lits {
		if bytes.Equal(lit.Bytes, s) {
			return true
		}
	}
	return false
}
