package lazy

import (
	"strings"

	"github.com/coregx/grepdfa/syntax"
)

// Context is a bitset classifying the character next to a position.
//
// Every byte falls into exactly one class: the end-of-line byte, a word
// constituent (alphanumeric or underscore) or anything else. A state's
// context is the set of classes the previous character may have belonged to
// when the DFA entered it.
type Context uint8

const (
	// CtxNone is a character that is neither a newline nor a word byte.
	CtxNone Context = 1 << iota

	// CtxLetter is a word-constituent character.
	CtxLetter

	// CtxNewline is the end-of-line byte (or the start of the buffer).
	CtxNewline

	// CtxAny matches every class.
	CtxAny = CtxNone | CtxLetter | CtxNewline
)

// String renders the context as a "|"-separated list of class names.
func (c Context) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	if c&CtxNewline != 0 {
		parts = append(parts, "newline")
	}
	if c&CtxLetter != 0 {
		parts = append(parts, "letter")
	}
	if c&CtxNone != 0 {
		parts = append(parts, "other")
	}
	return strings.Join(parts, "|")
}

// Constraint is a 9-bit mask describing where a position may match.
//
// It holds three 3-bit fields, one per class of the current (next)
// character: newline in bits 8-6, letter in bits 5-3 and other in bits 2-0.
// Each field is the set of previous-character contexts in which the position
// succeeds.
type Constraint uint16

// Constraints for the zero-width assertions.
const (
	NoConstraint         Constraint = 0o777
	BegLineConstraint    Constraint = 0o444
	EndLineConstraint    Constraint = 0o700
	BegWordConstraint    Constraint = 0o050
	EndWordConstraint    Constraint = 0o202
	LimWordConstraint    Constraint = 0o252
	NotLimWordConstraint Constraint = 0o525
)

func (c Constraint) newline() Context { return Context(c>>6) & CtxAny }
func (c Constraint) letter() Context  { return Context(c>>3) & CtxAny }
func (c Constraint) other() Context   { return Context(c) & CtxAny }

// Succeeds reports whether a position carrying c matches when the previous
// character is in prev and the next one is in curr.
func (c Constraint) Succeeds(prev, curr Context) bool {
	var allowed Context
	if curr&CtxNone != 0 {
		allowed |= c.other()
	}
	if curr&CtxLetter != 0 {
		allowed |= c.letter()
	}
	if curr&CtxNewline != 0 {
		allowed |= c.newline()
	}
	return allowed&prev != 0
}

// prevNewlineDependent reports whether c distinguishes a preceding newline
// from the other classes.
func (c Constraint) prevNewlineDependent() bool {
	return (c^c>>2)&0o111 != 0
}

// prevLetterDependent reports whether c distinguishes a preceding word byte
// from the other classes.
func (c Constraint) prevLetterDependent() bool {
	return (c^c>>1)&0o111 != 0
}

// constraintOf returns the constraint a zero-width token imposes on the
// positions following it.
func constraintOf(tok syntax.Token) Constraint {
	switch tok {
	case syntax.TokBegLine:
		return BegLineConstraint
	case syntax.TokEndLine:
		return EndLineConstraint
	case syntax.TokBegWord:
		return BegWordConstraint
	case syntax.TokEndWord:
		return EndWordConstraint
	case syntax.TokLimWord:
		return LimWordConstraint
	case syntax.TokNotLimWord:
		return NotLimWordConstraint
	default:
		return NoConstraint
	}
}

// separateContexts returns the previous-character contexts the positions of
// s tell apart. Contexts outside the result all behave identically.
func separateContexts(s PositionSet) Context {
	var sep Context
	for _, p := range s {
		if p.Constraint.prevNewlineDependent() {
			sep |= CtxNewline
		}
		if p.Constraint.prevLetterDependent() {
			sep |= CtxLetter
		}
	}
	return sep
}
