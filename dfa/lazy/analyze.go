package lazy

import (
	"github.com/coregx/grepdfa/internal/conv"
	"github.com/coregx/grepdfa/syntax"
)

// analysis is the immutable part of a DFA: the parse tree, the follow sets
// of every position and the per-byte context tables. It is shared by a DFA
// and all of its clones.
type analysis struct {
	tree    *syntax.Tree
	tokens  []syntax.Token
	classes *syntax.CharclassTable
	info    *syntax.LocaleInfo

	// follows[i] is the epsilon-closed follow set of token i.
	follows []PositionSet

	// initial is the position set of the initial states.
	initial PositionSet

	search    bool
	multibyte bool
	supported bool

	eol  byte
	sbit [syntax.NotChar]Context

	// newline holds the end-of-line byte unless anchored, letters the word
	// bytes, and special their union.
	newline syntax.Charclass
	letters syntax.Charclass
	special syntax.Charclass

	// anyClass is the class "." matches as a single byte.
	anyClass syntax.Charclass
}

// frame is one entry of the evaluation stack used while computing
// nullable, firstpos and lastpos bottom-up.
type frame struct {
	nullable bool
	first    PositionSet
	last     PositionSet
}

func analyze(tree *syntax.Tree, search bool, cfg Config) *analysis {
	an := &analysis{
		tree:    tree,
		tokens:  tree.Tokens,
		classes: tree.Classes,
		info:    tree.Info,
		search:  search,
		eol:     cfg.EOL,
	}
	if an.info == nil {
		an.info = syntax.NewLocaleInfo(syntax.CLocale)
	}
	an.supported = isSupported(tree.Tokens, an.info.Multibyte)
	an.multibyte = needsMultibyte(tree.Tokens, an.info)
	an.initContexts(cfg.Anchor)
	if tree.AnyClass >= 0 {
		an.anyClass = *tree.Classes.Get(tree.AnyClass)
	}

	an.follows = make([]PositionSet, len(an.tokens))
	an.computeFollows()
	an.closeEpsilons()
	if len(an.tokens) > 0 {
		an.initial = an.follows[0].Clone()
	}
	return an
}

// initContexts fills the byte classification tables.
func (an *analysis) initContexts(anchor bool) {
	for b := 0; b < syntax.NotChar; b++ {
		c := byte(b)
		switch {
		case c == an.eol && !anchor:
			an.sbit[b] = CtxNewline
			an.newline.Set(c)
		case an.info.IsWordByte(c):
			an.sbit[b] = CtxLetter
			an.letters.Set(c)
		default:
			an.sbit[b] = CtxNone
		}
	}
	an.special = an.newline
	an.special.Or(&an.letters)
}

// charclassContext returns the contexts of the bytes in c.
func (an *analysis) charclassContext(c *syntax.Charclass) Context {
	var ctx Context
	if c.Intersects(&an.newline) {
		ctx |= CtxNewline
	}
	if c.Intersects(&an.letters) {
		ctx |= CtxLetter
	}
	rest := *c
	rest.AndNot(&an.special)
	if !rest.IsEmpty() {
		ctx |= CtxNone
	}
	return ctx
}

// computeFollows runs the Berry-Sethi construction over the postfix tokens.
func (an *analysis) computeFollows() {
	stack := make([]frame, 0, an.tree.Depth+1)
	for i, tok := range an.tokens {
		switch tok {
		case syntax.TokEmpty:
			stack = append(stack, frame{nullable: true})

		case syntax.TokStar, syntax.TokPlus, syntax.TokQMark:
			f := &stack[len(stack)-1]
			if tok != syntax.TokQMark {
				for _, p := range f.last {
					an.follows[p.Index] = mergeSets(an.follows[p.Index], f.first)
				}
			}
			if tok != syntax.TokPlus {
				f.nullable = true
			}

		case syntax.TokCat:
			r := stack[len(stack)-1]
			l := &stack[len(stack)-2]
			for _, p := range l.last {
				an.follows[p.Index] = mergeSets(an.follows[p.Index], r.first)
			}
			if l.nullable {
				l.first = mergeSets(l.first, r.first)
			}
			if r.nullable {
				l.last = mergeSets(l.last, r.last)
			} else {
				l.last = r.last
			}
			l.nullable = l.nullable && r.nullable
			stack = stack[:len(stack)-1]

		case syntax.TokOr:
			r := stack[len(stack)-1]
			l := &stack[len(stack)-2]
			l.first = mergeSets(l.first, r.first)
			l.last = mergeSets(l.last, r.last)
			l.nullable = l.nullable || r.nullable
			stack = stack[:len(stack)-1]

		default:
			// Zero-width assertions get a real position here; the epsilon
			// closure below removes them again.
			p := PositionSet{{Index: conv.IntToUint32(i), Constraint: NoConstraint}}
			stack = append(stack, frame{
				nullable: tok == syntax.TokBackref,
				first:    p,
				last:     p,
			})
		}
	}
}

// isEpsilon reports whether tok is a zero-width leaf that the closure
// replaces by its follow set.
func isEpsilon(tok syntax.Token) bool {
	return tok == syntax.TokBeg || tok.IsConstraint()
}

// closeEpsilons removes every zero-width position from every follow set,
// substituting its own follows narrowed by its constraint.
func (an *analysis) closeEpsilons() {
	for i, tok := range an.tokens {
		if len(an.follows[i]) == 0 || !isEpsilon(tok) {
			continue
		}
		idx := conv.IntToUint32(i)
		c := constraintOf(tok)
		an.follows[i].delete(idx)
		for j := range an.follows {
			if j != i && len(an.follows[j]) > 0 {
				an.follows[j].replace(idx, an.follows[i], c)
			}
		}
	}
}

// isSupported reports whether the automaton can run the pattern by itself.
// Back-references and multibyte brackets always need the external matcher;
// word assertions do in multibyte locales.
func isSupported(tokens []syntax.Token, multibyte bool) bool {
	for _, tok := range tokens {
		switch {
		case tok == syntax.TokBackref, tok == syntax.TokMBCSet:
			return false
		case tok.IsWordConstraint() && multibyte:
			return false
		}
	}
	return true
}

// needsMultibyte reports whether execution must track character
// boundaries. UTF-8 is self-synchronizing, so only patterns that match a
// whole character through "." or a multibyte bracket need it there.
func needsMultibyte(tokens []syntax.Token, info *syntax.LocaleInfo) bool {
	if !info.Multibyte {
		return false
	}
	if !info.UTF8 {
		return true
	}
	for _, tok := range tokens {
		if tok == syntax.TokAnyChar || tok == syntax.TokMBCSet {
			return true
		}
	}
	return false
}
