// Package lazy implements a Lazy DFA (Deterministic Finite Automaton) engine
// for POSIX regular expressions.
//
// The DFA is built from the postfix parse tree of package syntax by
// position analysis (firstpos, lastpos and follow sets), so no NFA is
// materialized. States and their transition tables are constructed
// on-demand during matching, rather than building the complete DFA upfront.
// This provides:
//   - Fast matching: one table lookup per input byte
//   - Bounded memory: at most Config.MaxTables tables are kept alive
//   - Context awareness: ^, $, \<, \>, \b and \B are resolved through the
//     class (newline, word byte, other) of neighbouring characters
//
// Patterns the automaton cannot run exactly, such as back-references, are
// still accepted; Exec then reports that a backtracking matcher is needed.
// A superset automaton (see SupersetTree) can screen lines for them.
//
// Example usage:
//
//	// Compile pattern to DFA
//	dfa, err := lazy.CompilePattern("(foo|bar)[0-9]+")
//	if err != nil {
//	    return err
//	}
//
//	// Find the end of the earliest match
//	input := []byte("test foo123 end")
//	end, _, _ := dfa.Exec(input, false)
//	if end != -1 {
//	    fmt.Printf("Match ends at position %d\n", end)
//	}
package lazy

import (
	"github.com/coregx/grepdfa/internal/sparse"
	"github.com/coregx/grepdfa/syntax"
)

// DFA is a Lazy DFA engine that performs on-demand subset construction.
//
// The DFA maintains:
//   - The shared analysis of the pattern (follow sets, byte contexts)
//   - The states created so far, indexed by StateID
//   - A bounded cache of transition tables
//   - A bounded cache of whole-character transitions (multibyte locales)
//   - A StartTable of the initial states
//
// Thread safety: Not thread-safe. Each goroutine should use its own DFA
// instance, obtained with Clone. The analysis is immutable and shared by
// clones, but states and caches are mutable during search.
type DFA struct {
	an     *analysis
	config Config

	// states is the arena of all states; a StateID indexes it.
	states []*State

	// byHash maps a position set hash to the states with that hash.
	byHash map[uint32][]StateID

	tables tableCache
	mb     mbCache
	start  StartTable

	// Scratch space reused across buildState calls.
	union  *sparse.Map
	groups []group
}

// Clone returns a DFA for the same pattern with empty caches. The clone
// shares the immutable analysis and may be used concurrently with d.
func (d *DFA) Clone() *DFA {
	return newDFA(d.an, d.config)
}

// IsSupported reports whether the automaton can match the pattern by
// itself. It is false for back-references, multibyte bracket expressions
// and, in multibyte locales, word assertions.
func (d *DFA) IsSupported() bool {
	return d.an.supported
}

// IsMultibyte reports whether execution tracks multibyte character
// boundaries.
func (d *DFA) IsMultibyte() bool {
	return d.an.multibyte
}

// IsFast reports whether Exec runs the plain byte loop: the automaton is
// supported and needs no multibyte bookkeeping.
func (d *DFA) IsFast() bool {
	return d.an.supported && !d.an.multibyte
}

// IsSearch reports whether the DFA finds matches anywhere in its input.
func (d *DFA) IsSearch() bool {
	return d.an.search
}

// Tree returns the parse tree the DFA was built from.
func (d *DFA) Tree() *syntax.Tree {
	return d.an.tree
}

// Config returns the configuration of the DFA.
func (d *DFA) Config() Config {
	return d.config
}

// NumStates returns the number of states created so far.
func (d *DFA) NumStates() int {
	return len(d.states)
}

// State returns the state with the given ID, or nil if it does not exist.
func (d *DFA) State(id StateID) *State {
	if id < 0 || int(id) >= len(d.states) {
		return nil
	}
	return d.states[id]
}

// StartStates returns the table of initial states.
func (d *DFA) StartStates() *StartTable {
	return &d.start
}

// Stats reports cache usage of a DFA.
type Stats struct {
	// States is the number of states created.
	States int

	// Tables is the number of transition tables currently held.
	Tables int

	// TableBuilds counts table constructions, including rebuilds after
	// eviction.
	TableBuilds uint64

	// Hits and Misses count table lookups outside the exec fast path.
	Hits   uint64
	Misses uint64

	// Clears counts how many times the table cache was emptied.
	Clears int

	// MBTables is the number of states with cached whole-character
	// transitions, and MBClears how often that cache was emptied.
	MBTables int
	MBClears int
}

// Stats returns cache statistics for tuning Config.
func (d *DFA) Stats() Stats {
	return Stats{
		States:      len(d.states),
		Tables:      d.tables.size(),
		TableBuilds: d.tables.builds,
		Hits:        d.tables.hits,
		Misses:      d.tables.misses,
		Clears:      d.tables.clearCount,
		MBTables:    d.mb.live,
		MBClears:    d.mb.clearCount,
	}
}

// ResetCache drops every transition table, keeping the states. Tables are
// rebuilt on demand.
func (d *DFA) ResetCache() {
	for i := range d.tables.trans {
		d.tables.trans[i] = nil
		d.tables.fails[i] = nil
	}
	d.tables.live = 0
	for i := range d.mb.trans {
		d.mb.trans[i] = nil
	}
	d.mb.live = 0
}
