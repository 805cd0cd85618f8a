package lazy

import "github.com/coregx/grepdfa/syntax"

// mbCache memoizes transitions over whole multibyte characters.
//
// trans[s1][s] is the state reached from s1 when a valid multibyte
// character drives the byte automaton from s1 to s (DeadState included) and
// "." consumes it as a whole. Like tableCache it holds at most maxLive
// source states and is cleared entirely when full.
type mbCache struct {
	trans      []map[StateID]StateID
	live       int
	maxLive    int
	clearCount int
}

func newMBCache(maxLive int) mbCache {
	return mbCache{maxLive: maxLive}
}

func (c *mbCache) grow(n int) {
	for len(c.trans) < n {
		c.trans = append(c.trans, nil)
	}
}

func (c *mbCache) get(s1, s StateID) (StateID, bool) {
	m := c.trans[s1]
	if m == nil {
		return DeadState, false
	}
	next, ok := m[s]
	return next, ok
}

func (c *mbCache) put(s1, s, next StateID) {
	if c.trans[s1] == nil {
		if c.live >= c.maxLive {
			for i := range c.trans {
				c.trans[i] = nil
			}
			c.live = 0
			c.clearCount++
		}
		c.trans[s1] = make(map[StateID]StateID)
		c.live++
	}
	c.trans[s1][s] = next
}

// skipRemainsMB moves p forward to a character boundary. mbp is the last
// known boundary at or before p.
func (d *DFA) skipRemainsMB(buf []byte, p, mbp int) int {
	info := d.an.info
	if p >= len(buf) || info.NeverTrail(buf[p]) {
		return p
	}
	for mbp < p {
		_, n := info.DecodeAt(buf[mbp:])
		mbp += n
	}
	return mbp
}

// transitByte returns the successor of s on b, building its table if
// needed.
func (d *DFA) transitByte(s StateID, b byte) StateID {
	return d.tableFor(s)[b]
}

// transitState consumes the character starting at buf[p] from state s and
// returns the new state and position.
//
// The bytes of the character are first fed to the byte automaton, stopping
// early if it falls back to an initial state. For a valid character the
// positions s reserved for "." are then merged in.
func (d *DFA) transitState(s StateID, buf []byte, p int) (StateID, int) {
	r, n := d.an.info.DecodeAt(buf[p:])

	s1 := s
	i := 0
	for ; i < n && (i == 0 || s >= d.start.minTrcount); i++ {
		s = d.transitByte(s, buf[p])
		p++
	}
	p += n - i

	if r == syntax.InvalidChar {
		// "." never matches an invalid sequence.
		return s, p
	}

	if next, ok := d.mb.get(s1, s); ok {
		return next, p
	}

	var follows PositionSet
	if s < 0 {
		follows = d.states[s1].mbps.Clone()
	} else {
		follows = mergeSets(d.states[s1].mbps, d.states[s].elems)
	}
	next := d.stateIndex(follows, separateContexts(follows)^CtxAny)
	d.mb.put(s1, s, next)
	return next, p
}

// step advances one character from s whose table is t. It reports whether
// a whole multibyte character was consumed.
func (d *DFA) step(t *table, s StateID, buf []byte, p int) (StateID, int, bool) {
	if d.an.multibyte && p < len(buf) && len(d.states[s].mbps) > 0 &&
		d.an.info.SBCToWC[buf[p]] == syntax.InvalidChar {
		next, np := d.transitState(s, buf, p)
		return next, np, true
	}
	c := d.an.eol
	if p < len(buf) {
		c = buf[p]
	}
	return t[c], p + 1, false
}
