// Package grepdfa matches POSIX regular expressions the way grep does: line
// by line, reporting whether and where a line matches.
//
// A pattern is parsed into a postfix tree (package syntax) and compiled into
// a lazily built DFA (package lazy). Searches are layered:
//   - a prefilter scans for a literal every match must contain
//   - a superset automaton screens lines for patterns the exact DFA cannot
//     run by itself (back-references, some multibyte constructs)
//   - the exact DFA finds the earliest match end
//   - a backtracking matcher (regexp2) verifies lines for back-references
//
// Basic usage:
//
//	re, err := grepdfa.Compile([]byte("foo|ba[rz]"), true, grepdfa.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Does any line match?
//	if re.Match([]byte("one\ntwo bar\n")) {
//	    fmt.Println("matched!")
//	}
//
//	// Where is the first matching line?
//	start, end, ok := re.FindLine(buf, 0)
//
// A Regexp is safe for concurrent use. Every search borrows private
// automata from a pool, so transition tables built by one search are reused
// by later ones.
package grepdfa

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/coregx/grepdfa/dfa/lazy"
	"github.com/coregx/grepdfa/literal"
	"github.com/coregx/grepdfa/prefilter"
	"github.com/coregx/grepdfa/syntax"
)

// Options configures compilation and matching.
type Options struct {
	// Syntax selects the dialect, e.g. syntax.SyntaxEgrep for grep -E.
	Syntax syntax.Flags

	// Locale decodes the pattern and the input. Nil means syntax.CLocale.
	Locale syntax.Locale

	// CaseFold ignores case.
	CaseFold bool

	// Anchor makes ^ and $ match only at the start and end of the buffer.
	Anchor bool

	// EOLNul makes NUL the line terminator instead of newline (grep -z).
	EOLNul bool

	// StrayBackslashWarn and StartOpWarn enable the corresponding pattern
	// warnings.
	StrayBackslashWarn bool
	StartOpWarn        bool

	// Warn receives pattern warnings. Nil logs them through Logger.
	Warn func(msg string)

	// Error receives the diagnostic of a fatal pattern error before
	// Compile returns it.
	Error func(msg string)

	// Logger receives warnings and debug events. Nil means slog.Default().
	Logger *slog.Logger

	// DFA bounds the automaton caches. The zero value means
	// lazy.DefaultConfig(); EOL and Anchor are set from the fields above.
	DFA lazy.Config

	// Literal tunes literal extraction for the prefilter. The zero value
	// means literal.DefaultConfig().
	Literal literal.Config

	// MatchTimeout bounds a single backtracking match. Zero means no limit.
	MatchTimeout time.Duration
}

// DefaultOptions returns the options of grep -E in the C locale.
func DefaultOptions() Options {
	return Options{
		Syntax:  syntax.SyntaxEgrep,
		Locale:  syntax.CLocale,
		DFA:     lazy.DefaultConfig(),
		Literal: literal.DefaultConfig(),
	}
}

// Regexp is a compiled pattern.
//
// Example:
//
//	re := grepdfa.MustCompile(`^[0-9]+$`, grepdfa.DefaultOptions())
//	re.Match([]byte("abc\n123\n")) // true
type Regexp struct {
	pattern string
	opts    Options
	logger  *slog.Logger
	tree    *syntax.Tree
	eol     byte

	// exec honors the search flag given to Compile. search always
	// searches; it equals exec when the flag was set.
	exec   *lazy.DFA
	search *lazy.DFA

	// anchored is a non-searching automaton used to find where a match
	// starting at a given position ends. Nil if the DFA is unsupported.
	anchored *lazy.DFA

	superset *lazy.DFA

	must      *literal.Must
	prefilter prefilter.Prefilter

	// completeLiteral is set when a prefilter hit is a matching line.
	completeLiteral bool

	// fallback verifies lines when the DFA is unsupported.
	fallback *regexp2.Regexp

	pool  sync.Pool
	stats atomic.Pointer[lazy.Stats]
}

// Compile parses pattern and builds its automata. A searching Regexp finds
// matches anywhere; otherwise Exec only reports matches that start at the
// beginning of its input (or of a line).
//
// A fatal pattern error is passed to opts.Error and returned as a
// *syntax.Error.
func Compile(pattern []byte, search bool, opts Options) (*Regexp, error) {
	re := &Regexp{
		pattern: string(pattern),
		opts:    opts,
		logger:  opts.Logger,
		eol:     '\n',
	}
	if re.logger == nil {
		re.logger = slog.Default()
	}
	if opts.EOLNul {
		re.eol = 0
	}

	cfg := re.syntaxConfig()
	tree, err := syntax.Parse(pattern, cfg)
	if err != nil {
		var se *syntax.Error
		if opts.Error != nil && errors.As(err, &se) {
			opts.Error(se.Msg)
		}
		return nil, err
	}
	re.tree = tree

	if err := re.buildAutomata(search); err != nil {
		return nil, err
	}
	re.buildPrefilter()

	if !re.search.IsSupported() {
		if err := re.buildFallback(cfg); err != nil {
			return nil, err
		}
	}

	re.pool.New = func() any {
		return re.newSearchState()
	}
	return re, nil
}

// MustCompile compiles a searching Regexp and panics on error.
func MustCompile(pattern string, opts Options) *Regexp {
	re, err := Compile([]byte(pattern), true, opts)
	if err != nil {
		panic("grepdfa: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

func (re *Regexp) syntaxConfig() syntax.Config {
	warn := re.opts.Warn
	if warn == nil {
		warn = func(msg string) {
			re.logger.Warn("questionable pattern", "pattern", re.pattern, "warning", msg)
		}
	}
	return syntax.Config{
		Flags:              re.opts.Syntax,
		Locale:             re.opts.Locale,
		CaseFold:           re.opts.CaseFold,
		StrayBackslashWarn: re.opts.StrayBackslashWarn,
		StartOpWarn:        re.opts.StartOpWarn,
		Warn:               warn,
	}
}

func (re *Regexp) dfaConfig() lazy.Config {
	c := re.opts.DFA
	if c == (lazy.Config{}) {
		c = lazy.DefaultConfig()
	}
	return c.WithEOL(re.eol).WithAnchor(re.opts.Anchor)
}

func (re *Regexp) buildAutomata(search bool) error {
	c := re.dfaConfig()
	b := lazy.NewBuilder(re.tree, c)

	var err error
	if re.search, err = b.Build(true); err != nil {
		return fmt.Errorf("grepdfa: building automaton: %w", err)
	}
	re.exec = re.search
	if re.search.IsSupported() {
		if re.anchored, err = b.Build(false); err != nil {
			return fmt.Errorf("grepdfa: building automaton: %w", err)
		}
	}
	if !search {
		re.exec = re.anchored
		if re.exec == nil {
			// Unsupported: Exec reports a back-reference either way.
			re.exec = re.search
		}
	}

	if re.superset, err = lazy.BuildSuperset(re.tree, true, c); err != nil {
		return fmt.Errorf("grepdfa: building superset: %w", err)
	}
	return nil
}

func (re *Regexp) buildPrefilter() {
	lc := re.opts.Literal
	if lc == (literal.Config{}) {
		lc = literal.DefaultConfig()
	}
	re.must = literal.FindMust(re.tree)
	alts := literal.New(lc).Alternates(re.tree)
	re.prefilter = prefilter.NewBuilder(re.must, alts).WithMinLen(lc.MinLen).Build()
	if re.prefilter == nil {
		return
	}

	// A literal holding the line terminator never matches within one line.
	re.completeLiteral = re.prefilter.IsComplete()
	if re.must != nil && len(re.must.Literal) >= max(lc.MinLen, 1) {
		re.completeLiteral = re.completeLiteral && bytes.IndexByte(re.must.Literal, re.eol) < 0
	} else {
		for _, p := range alts.Patterns() {
			re.completeLiteral = re.completeLiteral && bytes.IndexByte(p, re.eol) < 0
		}
	}
}

// String returns the source pattern.
func (re *Regexp) String() string {
	return re.pattern
}

// Superset returns the searching superset automaton, or nil if the pattern
// has none. The superset accepts every line the pattern matches and runs
// without multibyte or back-reference bookkeeping.
func (re *Regexp) Superset() *lazy.DFA {
	return re.superset
}

// IsFast reports whether the exact automaton runs the plain byte loop.
func (re *Regexp) IsFast() bool {
	return re.search.IsFast()
}

// IsSupported reports whether the DFA matches the pattern without the
// backtracking matcher.
func (re *Regexp) IsSupported() bool {
	return re.search.IsSupported()
}

// RequiredLiteral returns the longest string every match contains, or nil.
func (re *Regexp) RequiredLiteral() *literal.Must {
	return re.must
}

// Tree returns the parse tree of the pattern.
func (re *Regexp) Tree() *syntax.Tree {
	return re.tree
}

// Stats returns the cache statistics of the most recently used searching
// automaton. Every pooled automaton keeps its own caches.
func (re *Regexp) Stats() lazy.Stats {
	if s := re.stats.Load(); s != nil {
		return *s
	}
	return re.search.Stats()
}

// QuoteMeta escapes the characters that are special in the given syntax, so
// the result matches s literally.
//
// Example:
//
//	grepdfa.QuoteMeta("1+1=2?", syntax.SyntaxEgrep) // `1\+1=2\?`
//	grepdfa.QuoteMeta("1+1=2?", syntax.SyntaxGrep)  // "1+1=2?"
func QuoteMeta(s string, flags syntax.Flags) string {
	special := `\.*[]^$`
	if flags.Has(syntax.NoBkParens) {
		special += "()"
	}
	if flags.Has(syntax.NoBkVbar) && !flags.Has(syntax.LimitedOps) {
		special += "|"
	}
	if flags.Has(syntax.NoBkBraces) && flags.Has(syntax.Intervals) {
		special += "{}"
	}
	if !flags.Has(syntax.BkPlusQM) && !flags.Has(syntax.LimitedOps) {
		special += "+?"
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
