package lazy

import (
	"fmt"
	"strings"

	"github.com/coregx/grepdfa/internal/conv"
	"github.com/coregx/grepdfa/syntax"
)

// StateID identifies a DFA state. IDs are dense indices assigned in
// creation order; negative values are sentinels.
type StateID int32

// Special state constants
const (
	// DeadState is the transition target that leaves the automaton. The
	// end-of-line entry of every table holds it so the exec loop notices
	// line ends.
	DeadState StateID = -1

	// StartState is always state ID 0, the line-start initial state.
	StartState StateID = 0
)

// State is a set of positions together with the context of the previous
// character. States are created on demand and never freed while the DFA
// lives.
type State struct {
	// elems are the positions the state may be at, by decreasing index.
	elems PositionSet

	// hash caches elems.hash().
	hash uint32

	// context is the set of classes the previous character may belong to.
	context Context

	// constraint is the union of the constraints of END positions that
	// can succeed in context. The state accepts when it is nonzero.
	constraint Constraint

	// hasBackref is set if a back-reference position is in elems.
	hasBackref bool

	// mbps are the positions reachable by consuming one whole multibyte
	// character through ".". Filled when the state's table is built.
	mbps PositionSet
}

// Positions returns the positions of the state. The slice must not be
// modified.
func (s *State) Positions() PositionSet {
	return s.elems
}

// Context returns the context of the previous character.
func (s *State) Context() Context {
	return s.context
}

// IsAccepting returns true if the state accepts in some following context
func (s *State) IsAccepting() bool {
	return s.constraint != 0
}

// HasBackref returns true if the state contains a back-reference position
func (s *State) HasBackref() bool {
	return s.hasBackref
}

// acceptsIn reports whether the state accepts when the next character is in
// curr.
func (s *State) acceptsIn(curr Context) bool {
	return s.constraint.Succeeds(s.context, curr)
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, p := range s.elems {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.String())
	}
	fmt.Fprintf(&sb, "} ctx=%s", s.context)
	if s.constraint != 0 {
		fmt.Fprintf(&sb, " accept=%03o", uint16(s.constraint))
	}
	return sb.String()
}

// stateIndex returns the state for the position set s in context ctx,
// creating it if needed. s is copied when a state is created.
//
// Panics with ErrStateLimitExceeded when Config.MaxStates would be
// exceeded.
func (d *DFA) stateIndex(s PositionSet, ctx Context) StateID {
	h := s.hash()
	for _, id := range d.byHash[h] {
		st := d.states[id]
		if st.context == ctx && st.elems.Equal(s) {
			return id
		}
	}

	if len(d.states) >= d.config.MaxStates {
		panic(ErrStateLimitExceeded)
	}

	st := &State{
		elems:   s.Clone(),
		hash:    h,
		context: ctx,
	}
	for _, p := range s {
		switch d.an.tokens[p.Index] {
		case syntax.TokEnd:
			if p.Constraint.Succeeds(ctx, CtxAny) {
				st.constraint |= p.Constraint
			}
		case syntax.TokBackref:
			st.constraint = NoConstraint
			st.hasBackref = true
		}
	}

	id := StateID(conv.IntToInt32(len(d.states)))
	d.states = append(d.states, st)
	d.byHash[h] = append(d.byHash[h], id)
	d.tables.grow(len(d.states))
	d.mb.grow(len(d.states))
	return id
}
