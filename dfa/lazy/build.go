package lazy

import (
	"cmp"
	"slices"

	"github.com/coregx/grepdfa/syntax"
)

// group is a set of positions that all match exactly the bytes of label.
type group struct {
	label syntax.Charclass
	elems []uint32
}

// addToGroups refines groups with the position idx matching the bytes in
// matches. Groups partially covered by matches are split, and bytes no group
// covered yet start a new group.
func addToGroups(groups []group, matches syntax.Charclass, idx uint32) []group {
	n := len(groups)
	for g := 0; g < n && !matches.IsEmpty(); g++ {
		if !groups[g].label.Intersects(&matches) {
			continue
		}
		inter := groups[g].label
		inter.And(&matches)
		rest := groups[g].label
		rest.AndNot(&matches)
		if rest.IsEmpty() {
			groups[g].elems = append(groups[g].elems, idx)
		} else {
			elems := make([]uint32, len(groups[g].elems), len(groups[g].elems)+1)
			copy(elems, groups[g].elems)
			groups[g].label = rest
			groups = append(groups, group{label: inter, elems: append(elems, idx)})
		}
		matches.AndNot(&inter)
	}
	if !matches.IsEmpty() {
		groups = append(groups, group{label: matches, elems: []uint32{idx}})
	}
	return groups
}

// buildState computes the transition table of state s.
//
// The positions of s are partitioned into groups by the bytes they match
// in the state's context. Each group leads to the union of its members'
// follow sets; a searching automaton also re-enters the initial positions.
// Bytes no position matches lead back to the initial positions when
// searching and to DeadState otherwise.
func (d *DFA) buildState(s StateID) {
	an := d.an
	d.tables.reserve()
	st := d.states[s]

	var success Context
	for _, ctx := range [...]Context{CtxNewline, CtxLetter, CtxNone} {
		if st.acceptsIn(ctx) {
			success |= ctx
		}
	}
	d.tables.success[s] = success

	groups := d.groups[:0]
	for _, pos := range st.elems {
		tok := an.tokens[pos.Index]
		var matches syntax.Charclass
		switch {
		case tok.IsByte():
			matches.Set(byte(tok))
		case tok.IsCSet():
			matches = *an.classes.Get(tok.CSetIndex())
		case tok == syntax.TokAnyChar:
			matches = an.anyClass
			// "." also matches a whole multibyte character. Its follows
			// are reached through transitState instead of the table.
			if pos.Constraint.Succeeds(st.context, CtxNone) {
				for _, f := range an.follows[pos.Index] {
					st.mbps.Insert(f)
				}
			}
		default:
			continue
		}

		if pos.Constraint != NoConstraint {
			if !pos.Constraint.Succeeds(st.context, CtxNewline) {
				matches.AndNot(&an.newline)
			}
			if !pos.Constraint.Succeeds(st.context, CtxLetter) {
				matches.AndNot(&an.letters)
			}
			if !pos.Constraint.Succeeds(st.context, CtxNone) {
				matches.And(&an.special)
			}
			if matches.IsEmpty() {
				continue
			}
		}
		groups = addToGroups(groups, matches, pos.Index)
	}
	d.groups = groups

	t := new(table)
	var covered syntax.Charclass
	for i := range groups {
		g := &groups[i]
		covered.Or(&g.label)
		follows := d.unionFollows(g.elems)
		if an.search && d.mayRestart(follows) {
			follows = mergeSets(follows, an.initial)
		}
		d.fillTransitions(t, &g.label, follows)
	}

	rest := covered
	rest.Not()
	if !rest.IsEmpty() {
		if an.search {
			d.fillTransitions(t, &rest, an.initial)
		} else {
			for b := 0; b < syntax.NotChar; b++ {
				if rest.Has(byte(b)) {
					t[b] = DeadState
				}
			}
		}
	}

	// Keep the newline transition aside so the table entry can serve as a
	// sentinel for the exec loop.
	d.tables.newlines[s] = t[an.eol]
	t[an.eol] = DeadState

	d.tables.store(s, t, st.IsAccepting())
}

// unionFollows returns the union of the follow sets of the positions in
// elems, ordered by decreasing index.
func (d *DFA) unionFollows(elems []uint32) PositionSet {
	d.union.Clear()
	for _, idx := range elems {
		for _, f := range d.an.follows[idx] {
			d.union.Or(f.Index, uint32(f.Constraint))
		}
	}
	entries := d.union.Entries()
	set := make(PositionSet, len(entries))
	for i, e := range entries {
		set[i] = Position{Index: e.Key, Constraint: Constraint(e.Value)}
	}
	slices.SortFunc(set, func(a, b Position) int {
		return cmp.Compare(b.Index, a.Index)
	})
	return set
}

// mayRestart reports whether a searching automaton may add the initial
// positions to follows. In a multibyte locale that is only safe when the
// next byte must start a character; otherwise a byte in the middle of a
// character could start a spurious match.
func (d *DFA) mayRestart(follows PositionSet) bool {
	if !d.an.multibyte {
		return true
	}
	for _, p := range follows {
		if d.an.tree.MBProp(int(p.Index))&syntax.MBFirst == 0 {
			return false
		}
	}
	return true
}

// fillTransitions points the bytes of label at the states for follows,
// choosing per byte class among the context variants the new state needs.
func (d *DFA) fillTransitions(t *table, label *syntax.Charclass, follows PositionSet) {
	possible := d.an.charclassContext(label)
	separate := separateContexts(follows)

	state := DeadState
	if possible&^separate != 0 {
		state = d.stateIndex(follows, separate^CtxAny)
	}
	newline, letter := state, state
	if separate&possible&CtxNewline != 0 {
		newline = d.stateIndex(follows, CtxNewline)
	}
	if separate&possible&CtxLetter != 0 {
		letter = d.stateIndex(follows, CtxLetter)
	}

	for b := 0; b < syntax.NotChar; b++ {
		if !label.Has(byte(b)) {
			continue
		}
		switch d.an.sbit[b] {
		case CtxNewline:
			t[b] = newline
		case CtxLetter:
			t[b] = letter
		default:
			t[b] = state
		}
	}
}

// tableFor returns the table of s, building it first if needed.
func (d *DFA) tableFor(s StateID) *table {
	if t := d.tables.get(s); t != nil {
		return t
	}
	d.buildState(s)
	return d.tables.get(s)
}
