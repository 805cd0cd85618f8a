package lazy

// Exec searches buf and returns the index just past the earliest match end,
// or -1 if there is none.
//
// The end of buf acts as an end-of-line byte. If allowNL is false a match
// cannot span lines: every end-of-line byte restarts the automaton in the
// line-start state. nlcount is the number of end-of-line bytes consumed
// before the returned position.
//
// An unsupported automaton (see IsSupported) does not scan at all and
// returns (0, 0, true): the caller must use a backtracking matcher.
//
// A non-searching DFA only finds matches starting at the beginning of buf
// (or, when allowNL is false, at the beginning of each line up to the first
// line that fails).
func (d *DFA) Exec(buf []byte, allowNL bool) (end, nlcount int, backref bool) {
	if !d.an.supported {
		return 0, 0, true
	}
	end, nlcount = d.exec(buf, allowNL)
	return end, nlcount, false
}

func (d *DFA) exec(buf []byte, allowNL bool) (int, int) {
	an := d.an
	n := len(buf)
	eol := an.eol
	mb := an.multibyte
	minTr := d.start.minTrcount
	tabs := &d.tables

	var s, s1 StateID
	p, mbp := 0, 0
	nlcount := 0
	for {
		if s < 0 {
			// Only the end-of-line entry leads to DeadState in a searching
			// automaton. Anything else, or the virtual sentinel past the
			// end of buf, ends the search.
			if p <= n && buf[p-1] == eol && tabs.newlines[s1] >= 0 {
				nlcount++
				mbp = p
				if allowNL {
					s = tabs.newlines[s1]
				} else {
					s = d.restartState()
				}
				continue
			}
			return -1, nlcount
		}

		if t := tabs.trans[s]; t != nil {
			if s < minTr {
				if !mb || len(d.states[s].mbps) == 0 {
					for p < n && t[buf[p]] == s {
						p++
					}
				}
				if mb {
					p = d.skipRemainsMB(buf, p, mbp)
					mbp = p
				}
			}
			s1 = s
			var whole bool
			if s, p, whole = d.step(t, s, buf, p); whole {
				mbp = p
			}
			continue
		}

		if f := tabs.fails[s]; f != nil {
			c := eol
			if p < n {
				c = buf[p]
			}
			if tabs.success[s]&an.sbit[c] != 0 || (p == n && d.states[s].acceptsIn(CtxNewline)) {
				return p, nlcount
			}
			if mb && s < minTr {
				p = d.skipRemainsMB(buf, p, mbp)
				mbp = p
			}
			s1 = s
			var whole bool
			if s, p, whole = d.step(f, s, buf, p); whole {
				mbp = p
			}
			continue
		}

		d.buildState(s)
	}
}

// ExecAt runs the automaton from start, entering it in the initial state
// for a preceding character of class ctx, and returns the index just past
// the longest match, or -1. The scan stops at the first end-of-line byte.
//
// ExecAt is meant for non-searching automata: it reports where a match
// beginning exactly at start can end. On a searching automaton the result
// is the last end of any match starting at or after start.
func (d *DFA) ExecAt(buf []byte, start int, ctx Context) int {
	if !d.an.supported {
		return -1
	}
	an := d.an
	n := len(buf)
	last := -1
	s := d.start.Get(ctx)
	p := start
	for s >= 0 {
		t := d.tableFor(s)
		c := an.eol
		if p < n {
			c = buf[p]
		}
		if d.tables.success[s]&an.sbit[c] != 0 || (p == n && d.states[s].acceptsIn(CtxNewline)) {
			last = p
		}
		if p >= n || c == an.eol {
			break
		}
		s, p, _ = d.step(t, s, buf, p)
	}
	return last
}

// ContextAt returns the context of the character preceding buf[pos].
func (d *DFA) ContextAt(buf []byte, pos int) Context {
	return d.contextAt(buf, pos)
}
