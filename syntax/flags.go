package syntax

// Flags selects the dialect of POSIX regular expression syntax. The bits
// mirror the traditional RE_* syntax bits of GNU regex.
type Flags uint32

const (
	// BackslashEscapeInLists makes backslash an escape inside brackets.
	BackslashEscapeInLists Flags = 1 << iota

	// BkPlusQM makes \+ and \? the operators and + ? literals.
	BkPlusQM

	// CharClasses enables [:alpha:] style classes inside brackets.
	CharClasses

	// ContextIndepAnchors makes ^ and $ anchors everywhere.
	ContextIndepAnchors

	// ContextIndepOps makes * + ? and intervals operators even at the
	// start of an expression.
	ContextIndepOps

	// ContextInvalidOps is accepted for compatibility; the engine treats
	// leading operators like ContextIndepOps does.
	ContextInvalidOps

	// DotNewline lets . match newline.
	DotNewline

	// DotNotNull keeps . from matching NUL.
	DotNotNull

	// HatListsNotNewline keeps [^...] from matching newline.
	HatListsNotNewline

	// Intervals enables {m,n} repetition.
	Intervals

	// LimitedOps disables + ? and |.
	LimitedOps

	// NewlineAlt makes newline an alternation operator.
	NewlineAlt

	// NoBkBraces makes { } the interval operators instead of \{ \}.
	NoBkBraces

	// NoBkParens makes ( ) the grouping operators instead of \( \).
	NoBkParens

	// NoBkRefs disables \1 .. \9.
	NoBkRefs

	// NoBkVbar makes | the alternation operator instead of \|.
	NoBkVbar

	// NoEmptyRanges rejects ranges whose end precedes their start.
	NoEmptyRanges

	// UnmatchedRightParenOrd treats an unmatched ) as a literal.
	UnmatchedRightParenOrd

	// NoGNUOps disables the GNU escapes \< \> \b \B \w \W \s \S \` \'.
	NoGNUOps

	// InvalidIntervalOrd treats a malformed interval as literal text.
	InvalidIntervalOrd

	// ContextInvalidDup is accepted for compatibility and has no effect.
	ContextInvalidDup
)

// Syntax presets.
const (
	syntaxPOSIXCommon = CharClasses | DotNewline | DotNotNull | Intervals | NoEmptyRanges

	// SyntaxPOSIXBasic is POSIX basic regular expression syntax.
	SyntaxPOSIXBasic = syntaxPOSIXCommon | BkPlusQM | ContextInvalidDup

	// SyntaxPOSIXExtended is POSIX extended regular expression syntax.
	SyntaxPOSIXExtended = syntaxPOSIXCommon | ContextIndepAnchors |
		ContextIndepOps | NoBkBraces | NoBkParens | NoBkVbar |
		ContextInvalidOps | UnmatchedRightParenOrd

	// SyntaxGrep is the syntax of grep -G.
	SyntaxGrep = (SyntaxPOSIXBasic | NewlineAlt) &^ (ContextInvalidDup | DotNotNull)

	// SyntaxEgrep is the syntax of grep -E.
	SyntaxEgrep = (SyntaxPOSIXExtended | InvalidIntervalOrd | NewlineAlt) &^
		(ContextInvalidOps | DotNotNull)

	// SyntaxAWK is the syntax of traditional awk.
	SyntaxAWK = BackslashEscapeInLists | DotNotNull | NoBkParens | NoBkRefs |
		NoBkVbar | NoEmptyRanges | DotNewline | ContextIndepAnchors |
		CharClasses | UnmatchedRightParenOrd | NoGNUOps

	// SyntaxPOSIXAWK is the syntax of POSIX awk.
	SyntaxPOSIXAWK = SyntaxPOSIXExtended | BackslashEscapeInLists |
		Intervals | NoGNUOps | InvalidIntervalOrd
)

// Has reports whether all bits of mask are set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}
