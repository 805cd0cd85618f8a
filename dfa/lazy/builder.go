package lazy

import (
	"github.com/coregx/grepdfa/internal/sparse"
	"github.com/coregx/grepdfa/syntax"
)

// Builder constructs a Lazy DFA from a parse tree.
//
// The builder performs the initial setup:
//  1. Validate the configuration
//  2. Compute follow sets and their epsilon closure
//  3. Create the initial states
//
// Transition tables are built lazily during Exec.
type Builder struct {
	tree   *syntax.Tree
	config Config
}

// NewBuilder creates a new DFA builder for the given tree
func NewBuilder(tree *syntax.Tree, config Config) *Builder {
	return &Builder{
		tree:   tree,
		config: config,
	}
}

// Build constructs and returns a Lazy DFA. A searching DFA finds matches
// anywhere in the input; otherwise matches must start where execution
// starts. Returns error if configuration is invalid.
func (b *Builder) Build(search bool) (*DFA, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.tree == nil || len(b.tree.Tokens) == 0 || b.tree.Tokens[0] != syntax.TokBeg {
		return nil, &DFAError{
			Kind:    InvalidConfig,
			Message: "parse tree must start with BEG",
		}
	}
	return newDFA(analyze(b.tree, search, b.config), b.config), nil
}

// newDFA creates a DFA over an existing analysis with empty caches.
func newDFA(an *analysis, config Config) *DFA {
	d := &DFA{
		an:     an,
		config: config,
		byHash: make(map[uint32][]StateID),
		tables: newTableCache(config.MaxTables),
		mb:     newMBCache(config.MaxTables),
		union:  sparse.NewMap(uint32(len(an.tokens))),
	}
	if an.supported {
		d.initStartStates()
	}
	return d
}

// Compile is a convenience function to build a searching DFA from a tree
// with default config
func Compile(tree *syntax.Tree) (*DFA, error) {
	return CompileWithConfig(tree, DefaultConfig())
}

// CompileWithConfig builds a searching DFA from a tree with the specified
// configuration
func CompileWithConfig(tree *syntax.Tree, config Config) (*DFA, error) {
	return NewBuilder(tree, config).Build(true)
}

// CompilePattern is a convenience function to compile an extended regular
// expression in the C locale directly to a searching DFA.
//
// Example:
//
//	dfa, err := lazy.CompilePattern("(foo|bar)[0-9]+")
//	if err != nil {
//	    return err
//	}
//	end, _, _ := dfa.Exec([]byte("test foo123 end"), false)
func CompilePattern(pattern string) (*DFA, error) {
	return CompilePatternWithConfig(pattern, DefaultConfig())
}

// CompilePatternWithConfig compiles a pattern with custom configuration
func CompilePatternWithConfig(pattern string, config Config) (*DFA, error) {
	tree, err := syntax.Parse([]byte(pattern), syntax.Config{
		Flags:  syntax.SyntaxEgrep,
		Locale: syntax.CLocale,
	})
	if err != nil {
		return nil, &DFAError{
			Kind:    InvalidConfig,
			Message: "pattern parsing failed",
			Cause:   err,
		}
	}
	return CompileWithConfig(tree, config)
}
