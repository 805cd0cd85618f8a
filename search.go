package grepdfa

import (
	"github.com/coregx/grepdfa/simd"
)

// Exec runs the automaton built for the search flag given to Compile and
// returns the index just past the earliest match end, or -1. See
// lazy.DFA.Exec for allowNL and nlcount.
//
// backref is true when the pattern needs the backtracking matcher; end is
// then meaningless. Match, FindLine and Find handle that case themselves.
func (re *Regexp) Exec(buf []byte, allowNL bool) (end, nlcount int, backref bool) {
	st := re.get()
	defer re.put(st)
	return st.exec.Exec(buf, allowNL)
}

// Match reports whether any line of buf matches.
func (re *Regexp) Match(buf []byte) bool {
	_, _, ok := re.FindLine(buf, 0)
	return ok
}

// FindLine returns the bounds of the first matching line at or after
// start, which must be the beginning of a line. lineEnd excludes the line
// terminator. A terminator at the very end of buf does not begin another
// line.
//
// With Options.Anchor, buf[start:] is treated as the whole input.
func (re *Regexp) FindLine(buf []byte, start int) (lineStart, lineEnd int, ok bool) {
	st := re.get()
	defer re.put(st)
	if re.opts.Anchor && start > 0 {
		s, e, ok := re.findLine(st, buf[start:], 0)
		if !ok {
			return -1, -1, false
		}
		return start + s, start + e, true
	}
	return re.findLine(st, buf, start)
}

// Find returns the leftmost-longest match in the first matching line of
// buf. For patterns run by the backtracking matcher the match is the
// leftmost one that matcher reports.
func (re *Regexp) Find(buf []byte) (start, end int, ok bool) {
	st := re.get()
	defer re.put(st)

	ls, le, ok := re.findLine(st, buf, 0)
	if !ok {
		return -1, -1, false
	}
	if re.fallback != nil {
		s, e, ok, err := re.fallbackFind(buf[ls:le])
		if err != nil {
			re.logger.Error("match failed", "pattern", re.pattern, "err", err)
			return -1, -1, false
		}
		if !ok {
			return -1, -1, false
		}
		return ls + s, ls + e, true
	}
	return re.longestIn(st, buf, ls, le)
}

// findLine layers the prefilter, the superset and the exact automaton.
// Each layer only narrows where the next one starts.
func (re *Regexp) findLine(st *searchState, buf []byte, beg int) (int, int, bool) {
	n := len(buf)
	narrow := !re.opts.Anchor
	for beg < n {
		ls := beg
		candidate := false
		if narrow && st.tracker != nil && st.tracker.IsActive() {
			pos := st.tracker.Find(buf, beg)
			switch {
			case pos >= 0:
				ls = re.lineStart(buf, beg, pos)
				candidate = true
				if re.completeLiteral {
					st.tracker.ConfirmMatch()
					return ls, re.lineEnd(buf, pos), true
				}
			case st.tracker.IsActive():
				return -1, -1, false
			}
		}

		if narrow && st.superset != nil {
			e, _, _ := st.superset.Exec(buf[ls:], false)
			if e < 0 || re.pastLastLine(buf, ls+e) {
				return -1, -1, false
			}
			ls = re.lineStart(buf, ls, ls+e)
		}

		if re.fallback == nil {
			e, _, _ := st.search.Exec(buf[ls:], false)
			if e < 0 || re.pastLastLine(buf, ls+e) {
				return -1, -1, false
			}
			if candidate {
				st.tracker.ConfirmMatch()
			}
			return re.lineStart(buf, ls, ls+e), re.lineEnd(buf, ls+e), true
		}

		le := re.lineEnd(buf, ls)
		if re.fallbackMatches(buf[ls:le]) {
			if candidate {
				st.tracker.ConfirmMatch()
			}
			return ls, le, true
		}
		beg = le + 1
	}
	return -1, -1, false
}

func (re *Regexp) fallbackMatches(line []byte) bool {
	_, _, ok, err := re.fallbackFind(line)
	if err != nil {
		re.logger.Error("match failed", "pattern", re.pattern, "err", err)
		return false
	}
	return ok
}

// longestIn tries each character position of the line in turn with the
// non-searching automaton, which reports the longest match starting there.
func (re *Regexp) longestIn(st *searchState, buf []byte, ls, le int) (int, int, bool) {
	info := re.tree.Info
	for i := ls; i <= le; {
		if e := st.anchored.ExecAt(buf, i, st.anchored.ContextAt(buf, i)); e >= 0 {
			return i, e, true
		}
		if i == le {
			break
		}
		step := 1
		if info.Multibyte {
			if _, size := info.DecodeAt(buf[i:le]); size > 1 {
				step = size
			}
		}
		i += step
	}
	return -1, -1, false
}

// lineStart returns the start of the line holding pos, searching back no
// further than lo.
func (re *Regexp) lineStart(buf []byte, lo, pos int) int {
	if i := simd.Memrchr(buf[lo:pos], re.eol); i >= 0 {
		return lo + i + 1
	}
	return lo
}

// lineEnd returns the index of the terminator ending the line holding pos,
// or len(buf).
func (re *Regexp) lineEnd(buf []byte, pos int) int {
	if i := simd.Memchr(buf[pos:], re.eol); i >= 0 {
		return pos + i
	}
	return len(buf)
}

// pastLastLine reports a match on the empty remainder after a final line
// terminator.
func (re *Regexp) pastLastLine(buf []byte, pos int) bool {
	n := len(buf)
	return pos == n && n > 0 && buf[n-1] == re.eol
}
