package literal

import (
	"bytes"

	"github.com/coregx/grepdfa/syntax"
)

// Must describes a string that occurs in every match of a pattern.
type Must struct {
	// Literal is the longest string every match contains. When several
	// strings tie for longest, the first one found wins.
	Literal []byte

	// Exact reports that every match is exactly Literal, given the line
	// anchoring below.
	Exact bool

	// BegLine and EndLine report that Literal is anchored at the start or
	// end of a line. They are meaningful only when Literal is the whole
	// guaranteed match string.
	BegLine bool
	EndLine bool

	// CaseFolded reports that the pattern ignores case in a single-byte
	// locale. Literal is then upper-cased and must be compared without
	// regard to case.
	CaseFolded bool
}

// String returns Literal as a string.
func (m *Must) String() string {
	if m == nil {
		return ""
	}
	return string(m.Literal)
}

// mustFrame is what is known about the strings matched by one subtree:
//   - in: strings every match contains
//   - left, right: a prefix and a suffix of every match
//   - is: the only string matched, or empty if not unique
//
// begline and endline record line anchors at either end of is.
type mustFrame struct {
	in      [][]byte
	left    []byte
	right   []byte
	is      []byte
	begline bool
	endline bool
}

func (f *mustFrame) reset() {
	f.in = nil
	f.left = nil
	f.right = nil
	f.is = nil
	f.begline = false
	f.endline = false
}

// or merges the alternative r into f.
func (f *mustFrame) or(r *mustFrame) {
	if bytes.Equal(f.is, r.is) {
		f.begline = f.begline && r.begline
		f.endline = f.endline && r.endline
	} else {
		f.is = nil
		f.begline = false
		f.endline = false
	}
	f.left = bytes.Clone(commonPrefix(f.left, r.left))
	f.right = bytes.Clone(commonSuffix(f.right, r.right))
	f.in = inBoth(f.in, r.in)
}

// cat appends the frame of the right operand r to f.
func (f *mustFrame) cat(r *mustFrame) {
	f.in = addLists(f.in, r.in)
	if len(f.right) > 0 && len(r.left) > 0 {
		f.in = enlist(f.in, concat(f.right, r.left))
	}
	if len(f.is) > 0 {
		f.left = concat(f.left, r.left)
	}
	if len(r.is) == 0 {
		f.right = nil
	}
	f.right = concat(f.right, r.right)
	if (len(f.is) > 0 || f.begline) && (len(r.is) > 0 || r.endline) {
		f.is = concat(f.is, r.is)
		f.endline = r.endline
	} else {
		f.is = nil
		f.begline = false
		f.endline = false
	}
}

// FindMust returns the longest string that every match of tree contains,
// or nil if there is none.
func FindMust(tree *syntax.Tree) *Must {
	toks := tree.Tokens
	// BEG <regexp> CAT END CAT
	if len(toks) < 5 {
		return nil
	}
	info := tree.Info
	if info == nil {
		info = syntax.NewLocaleInfo(syntax.CLocale)
	}
	fold := tree.CaseFold && !info.Multibyte

	var stack []*mustFrame
	needBegline, needEndline := false, false
	for _, tok := range toks[1 : len(toks)-3] {
		switch {
		case tok == syntax.TokBegLine:
			stack = append(stack, &mustFrame{begline: true})
			needBegline = true
		case tok == syntax.TokEndLine:
			stack = append(stack, &mustFrame{endline: true})
			needEndline = true
		case tok == syntax.TokStar, tok == syntax.TokQMark:
			stack[len(stack)-1].reset()
		case tok == syntax.TokPlus:
			stack[len(stack)-1].is = nil
		case tok == syntax.TokOr, tok == syntax.TokCat:
			r := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if tok == syntax.TokOr {
				stack[len(stack)-1].or(r)
			} else {
				stack[len(stack)-1].cat(r)
			}
		case tok.IsByte():
			stack = append(stack, byteFrame(foldByte(info, byte(tok), fold)))
		case tok.IsCSet():
			if b, ok := singleByte(info, tree.Classes.Get(tok.CSetIndex()), fold); ok {
				stack = append(stack, byteFrame(b))
			} else {
				stack = append(stack, &mustFrame{})
			}
		default:
			// EMPTY, BACKREF, ANYCHAR, MBCSET and word assertions match
			// nothing known.
			stack = append(stack, &mustFrame{})
		}
	}
	if len(stack) != 1 {
		return nil
	}

	root := stack[0]
	var result []byte
	for _, s := range root.in {
		if len(s) > len(result) {
			result = s
		}
	}
	if len(result) == 0 {
		return nil
	}
	m := &Must{Literal: result, CaseFolded: fold}
	if bytes.Equal(result, root.is) {
		m.Exact = (!needBegline || root.begline) && (!needEndline || root.endline)
		m.BegLine = root.begline
		m.EndLine = root.endline
	}
	return m
}

func byteFrame(b byte) *mustFrame {
	return &mustFrame{
		in:    [][]byte{{b}},
		left:  []byte{b},
		right: []byte{b},
		is:    []byte{b},
	}
}

// foldByte upper-cases b when folding.
func foldByte(info *syntax.LocaleInfo, b byte, fold bool) byte {
	if !fold {
		return b
	}
	r := info.SBCToWC[b]
	if r == syntax.InvalidChar {
		return b
	}
	if u, ok := info.ByteOf(info.Locale.ToUpper(r)); ok {
		return u
	}
	return b
}

// singleByte reports whether c stands for one byte: it has a single
// member, or, when folding, all its members fold to the same byte.
func singleByte(info *syntax.LocaleInfo, c *syntax.Charclass, fold bool) (byte, bool) {
	first := c.First()
	if first < 0 {
		return 0, false
	}
	want := foldByte(info, byte(first), fold)
	for b := first + 1; b < syntax.NotChar; b++ {
		if !c.Has(byte(b)) {
			continue
		}
		if !fold || foldByte(info, byte(b), true) != want {
			return 0, false
		}
	}
	return want, true
}

// enlist adds s to list unless a member already contains it, dropping
// members that s contains. A dropped member is replaced by the last one.
func enlist(list [][]byte, s []byte) [][]byte {
	for _, old := range list {
		if bytes.Contains(old, s) {
			return list
		}
	}
	for j := 0; j < len(list); {
		if !bytes.Contains(s, list[j]) {
			j++
			continue
		}
		last := len(list) - 1
		list[j] = list[last]
		list = list[:last]
	}
	return append(list, s)
}

func addLists(list, add [][]byte) [][]byte {
	for _, s := range add {
		list = enlist(list, bytes.Clone(s))
	}
	return list
}

// inBoth returns the strings contained in some member of both lists.
func inBoth(left, right [][]byte) [][]byte {
	var both [][]byte
	for _, l := range left {
		for _, r := range right {
			both = addLists(both, commonSubstrings(l, r))
		}
	}
	return both
}

// commonSubstrings returns, for each start offset in left, the longest
// string beginning there that also occurs in right.
func commonSubstrings(left, right []byte) [][]byte {
	var out [][]byte
	for i := range left {
		n := 0
		for j := range right {
			if right[j] != left[i] {
				continue
			}
			k := 1
			for i+k < len(left) && j+k < len(right) && left[i+k] == right[j+k] {
				k++
			}
			n = max(n, k)
		}
		if n > 0 {
			out = enlist(out, bytes.Clone(left[i:i+n]))
		}
	}
	return out
}

func concat(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
