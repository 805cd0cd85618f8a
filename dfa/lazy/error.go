package lazy

import "fmt"

// ErrStateLimitExceeded is the panic value raised when subset construction
// interns more than Config.MaxStates position sets.
//
// Interned sets live as long as the DFA, so the limit is the only bound on
// memory for patterns like (a|b)*a(a|b){20}. Exec never returns it; a
// caller that wants to survive the limit recovers it around Exec.
var ErrStateLimitExceeded = &DFAError{
	Kind:    TooManyStates,
	Message: "lazy: position set limit exceeded",
}

// ErrInvalidConfig is matched by every error Build returns before any state
// exists: a failed Config.Validate or a tree with no tokens.
var ErrInvalidConfig = &DFAError{
	Kind:    InvalidConfig,
	Message: "lazy: cannot build automaton",
}

// ErrorKind tells Build failures from the state limit.
type ErrorKind uint8

const (
	// InvalidConfig: the tree or Config was rejected before construction.
	InvalidConfig ErrorKind = iota

	// TooManyStates: construction hit Config.MaxStates.
	TooManyStates
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidConfig:
		return "InvalidConfig"
	case TooManyStates:
		return "TooManyStates"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// DFAError is returned by Builder and raised by the state limit. Two
// DFAErrors compare equal under errors.Is when their kinds match, so
// errors.Is(err, ErrInvalidConfig) holds for any rejected build.
type DFAError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *DFAError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DFAError) Unwrap() error {
	return e.Cause
}

func (e *DFAError) Is(target error) bool {
	t, ok := target.(*DFAError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
