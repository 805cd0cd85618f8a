package lazy

// StartTable holds the initial states of a DFA.
//
// All initial states share the position set of the BEG leaf's follows and
// differ only in the context of the preceding character. A context is given
// its own state only when some initial position depends on it; otherwise the
// "other" state stands in for it. State 0 is always the state used at the
// start of the buffer.
//
// Initial states are created before anything else, so they occupy IDs
// [0, minTrcount) and their tables are never evicted.
type StartTable struct {
	// notbol is used after a character that is neither a newline nor a
	// word byte.
	notbol StateID

	// letter is used after a word byte. It equals notbol when no initial
	// position depends on a preceding word byte.
	letter StateID

	// minTrcount is the number of initial states.
	minTrcount StateID
}

// initStartStates materializes the initial states in a fixed order: newline
// (if separate), other, letter (if separate).
func (d *DFA) initStartStates() {
	init := d.an.initial
	sep := separateContexts(init)
	if sep&CtxNewline != 0 {
		d.stateIndex(init, CtxNewline)
	}
	d.start.notbol = d.stateIndex(init, sep^CtxAny)
	d.start.letter = d.start.notbol
	if sep&CtxLetter != 0 {
		d.start.letter = d.stateIndex(init, CtxLetter)
	}
	d.start.minTrcount = StateID(len(d.states))
	d.tables.keep = d.start.minTrcount
}

// Get returns the initial state for a preceding character of class ctx.
func (st *StartTable) Get(ctx Context) StateID {
	switch ctx {
	case CtxNewline:
		return StartState
	case CtxLetter:
		return st.letter
	default:
		return st.notbol
	}
}

// IsInitial reports whether s is one of the initial states.
func (st *StartTable) IsInitial(s StateID) bool {
	return s >= 0 && s < st.minTrcount
}

// restartState returns the state a line starts in when newlines are not
// allowed inside a match: the initial state for the end-of-line byte's
// context.
func (d *DFA) restartState() StateID {
	return d.start.Get(d.an.sbit[d.an.eol])
}

// contextAt returns the context of the character before pos. The start of
// the buffer counts as a newline.
func (d *DFA) contextAt(buf []byte, pos int) Context {
	if pos == 0 {
		return CtxNewline
	}
	return d.an.sbit[buf[pos-1]]
}
