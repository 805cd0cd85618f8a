package syntax

import "fmt"

// ErrorKind classifies fatal pattern errors.
type ErrorKind uint8

const (
	// UnbalancedBracket is a [ without its closing ].
	UnbalancedBracket ErrorKind = iota

	// UnbalancedParen is a ( without its closing ).
	UnbalancedParen

	// UnbalancedCloseParen is a ) without a matching (.
	UnbalancedCloseParen

	// InvalidClass is an unknown [:name:] class.
	InvalidClass

	// UnfinishedEscape is a pattern ending in a single backslash.
	UnfinishedEscape

	// InvalidInterval is a malformed {m,n} interval.
	InvalidInterval

	// TooBig is a repetition count or token count over the limit.
	TooBig

	// ConfusingBracket is [:space:] written without the outer brackets,
	// reported only when warnings are promoted to errors.
	ConfusingBracket
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case UnbalancedBracket:
		return "UnbalancedBracket"
	case UnbalancedParen:
		return "UnbalancedParen"
	case UnbalancedCloseParen:
		return "UnbalancedCloseParen"
	case InvalidClass:
		return "InvalidClass"
	case UnfinishedEscape:
		return "UnfinishedEscape"
	case InvalidInterval:
		return "InvalidInterval"
	case TooBig:
		return "TooBig"
	case ConfusingBracket:
		return "ConfusingBracket"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// Error is a fatal pattern error. Msg is the diagnostic handed to the
// error callback.
type Error struct {
	Kind    ErrorKind
	Msg     string
	Pattern string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Pattern == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s in %q", e.Msg, e.Pattern)
}

// Is implements error comparison for errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors for errors.Is.
var (
	ErrUnbalancedBracket    = &Error{Kind: UnbalancedBracket, Msg: "unbalanced ["}
	ErrUnbalancedParen      = &Error{Kind: UnbalancedParen, Msg: "unbalanced ("}
	ErrUnbalancedCloseParen = &Error{Kind: UnbalancedCloseParen, Msg: "unbalanced )"}
	ErrInvalidClass         = &Error{Kind: InvalidClass, Msg: "invalid character class"}
	ErrUnfinishedEscape     = &Error{Kind: UnfinishedEscape, Msg: `unfinished \ escape`}
	ErrInvalidInterval      = &Error{Kind: InvalidInterval, Msg: `invalid content of \{\}`}
	ErrTooBig               = &Error{Kind: TooBig, Msg: "regular expression too big"}
	ErrConfusingBracket     = &Error{Kind: ConfusingBracket, Msg: "character class syntax is [[:space:]], not [:space:]"}
)
