package syntax

import (
	"fmt"
	"strings"
)

// Token is one element of the postfix parse tree. Values 0..255 are
// literal bytes, values at or above TokCSet reference a charclass, and the
// rest are the symbolic terminals and operators below.
type Token int32

const (
	// TokEnd ends the expression. The parser appends it so that the
	// accepting position is an ordinary leaf.
	TokEnd Token = -1

	// TokEmpty matches the empty string.
	TokEmpty Token = NotChar + iota - 1

	// TokBackref marks a construct the automaton cannot handle. Besides
	// real back-references it is emitted for unsupported multibyte forms.
	TokBackref

	TokBegLine    // ^
	TokEndLine    // $
	TokBegWord    // \<
	TokEndWord    // \>
	TokLimWord    // \b
	TokNotLimWord // \B

	TokQMark // ?
	TokStar  // *
	TokPlus  // +
	TokRepMN // {m,n}, lexer only
	TokCat
	TokOr
	TokLParen // lexer only
	TokRParen // lexer only

	// TokWChar is returned by the lexer in multibyte locales for an
	// ordinary character. The parser expands it into byte leaves.
	TokWChar

	// TokAnyChar matches any single valid character in a multibyte locale.
	TokAnyChar

	// TokBeg is the zero-width leaf at the very start of every tree.
	TokBeg

	// TokMBCSet is an inverted bracket expression in a multibyte locale.
	TokMBCSet

	// TokCSet is the base of charclass references: TokCSet+i is class i.
	TokCSet
)

var tokenNames = map[Token]string{
	TokEnd:        "END",
	TokEmpty:      "EMPTY",
	TokBackref:    "BACKREF",
	TokBegLine:    "BEGLINE",
	TokEndLine:    "ENDLINE",
	TokBegWord:    "BEGWORD",
	TokEndWord:    "ENDWORD",
	TokLimWord:    "LIMWORD",
	TokNotLimWord: "NOTLIMWORD",
	TokQMark:      "QMARK",
	TokStar:       "STAR",
	TokPlus:       "PLUS",
	TokRepMN:      "REPMN",
	TokCat:        "CAT",
	TokOr:         "OR",
	TokLParen:     "LPAREN",
	TokRParen:     "RPAREN",
	TokWChar:      "WCHAR",
	TokAnyChar:    "ANYCHAR",
	TokBeg:        "BEG",
	TokMBCSet:     "MBCSET",
}

// String renders the token the way the debugging dumps print it.
func (t Token) String() string {
	switch {
	case t.IsByte():
		if t > ' ' && t < 0x7f {
			return string(rune(t))
		}
		return fmt.Sprintf("0x%02x", int(t))
	case t.IsCSet():
		return fmt.Sprintf("CSET%d", t.CSetIndex())
	}
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", int32(t))
}

// IsByte reports whether t is a literal byte.
func (t Token) IsByte() bool {
	return t >= 0 && t < NotChar
}

// IsCSet reports whether t references a charclass.
func (t Token) IsCSet() bool {
	return t >= TokCSet
}

// CSetIndex returns the charclass index of a TokCSet+i token.
func (t Token) CSetIndex() int {
	return int(t - TokCSet)
}

// CSetToken returns the token referencing charclass i.
func CSetToken(i int) Token {
	return TokCSet + Token(i)
}

// IsConstraint reports whether t is a zero-width context assertion.
func (t Token) IsConstraint() bool {
	return t >= TokBegLine && t <= TokNotLimWord
}

// IsWordConstraint reports whether t is one of \< \> \b \B.
func (t Token) IsWordConstraint() bool {
	return t >= TokBegWord && t <= TokNotLimWord
}

// IsLeaf reports whether t occupies a position of its own.
func (t Token) IsLeaf() bool {
	switch {
	case t.IsByte(), t.IsCSet(), t.IsConstraint():
		return true
	}
	switch t {
	case TokEnd, TokBackref, TokAnyChar, TokMBCSet, TokBeg:
		return true
	}
	return false
}

// Multibyte property bits recorded per token in Tree.MBProps.
const (
	// MBFirst marks the first byte of a character.
	MBFirst uint8 = 1 << 0

	// MBLast marks the last byte of a character.
	MBLast uint8 = 1 << 1

	// MBWhole marks a token that is a complete character by itself.
	MBWhole = MBFirst | MBLast
)

// Tree is a parsed pattern: tokens in postfix order with the tables they
// reference. A Tree is immutable once Parse returns it.
type Tree struct {
	// Tokens is the postfix expression "BEG regexp CAT END CAT".
	Tokens []Token

	// MBProps has one entry per token. It is nil in unibyte locales.
	MBProps []uint8

	// Classes holds the charclasses referenced by TokCSet tokens.
	Classes *CharclassTable

	// Info describes the locale the tree was built for.
	Info *LocaleInfo

	// Depth is the maximum evaluation stack depth of Tokens.
	Depth int

	// Leaves is the number of leaf tokens.
	Leaves int

	// CaseFold records that the pattern was compiled case-insensitively.
	CaseFold bool

	// Flags are the syntax bits the pattern was parsed with.
	Flags Flags

	// AnyClass is the charclass index used for ".", or -1 if the pattern
	// has no ".".
	AnyClass int
}

// String renders the tokens separated by spaces.
func (t *Tree) String() string {
	var sb strings.Builder
	for i, tok := range t.Tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.String())
	}
	return sb.String()
}

// Has reports whether the tree contains tok.
func (t *Tree) Has(tok Token) bool {
	for _, x := range t.Tokens {
		if x == tok {
			return true
		}
	}
	return false
}

// MBProp returns the multibyte property of token i. Unibyte trees report
// every token as a whole character.
func (t *Tree) MBProp(i int) uint8 {
	if t.MBProps == nil {
		return MBWhole
	}
	return t.MBProps[i]
}
