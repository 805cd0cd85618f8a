package lazy

import "github.com/coregx/grepdfa/syntax"

// table maps every input byte to the next state.
type table [syntax.NotChar]StateID

// tableCache stores the transition tables of a DFA with bounded memory.
//
// Tables are indexed by StateID. A non-accepting state keeps its table in
// trans and an accepting one in fails, so the exec loop only has to test
// for acceptance when it leaves the fast path.
//
// Memory management:
//   - Tables are never evicted individually (no LRU overhead)
//   - When maxLive tables exist, all tables of non-initial states are
//     dropped at once and rebuilt on demand
//   - newlines and success survive eviction; a rebuilt table recomputes
//     the same values
//
// Thread safety: Not thread-safe. Each DFA owns its cache.
type tableCache struct {
	trans []*table
	fails []*table

	// newlines[s] is the transition of s on the end-of-line byte. The
	// table itself holds DeadState there.
	newlines []StateID

	// success[s] is the set of next-character contexts in which s accepts.
	success []Context

	// keep is the number of leading states (the initial states) whose
	// tables are never evicted.
	keep StateID

	// live counts tables built since the last clear.
	live    int
	maxLive int

	// clearCount tracks how many times the cache has been cleared.
	clearCount int

	// builds counts every table construction, including rebuilds.
	builds uint64

	// Lookup statistics for tuning MaxTables.
	hits   uint64
	misses uint64
}

func newTableCache(maxLive int) tableCache {
	return tableCache{maxLive: maxLive}
}

// grow extends the per-state slices to cover n states.
func (c *tableCache) grow(n int) {
	for len(c.trans) < n {
		c.trans = append(c.trans, nil)
		c.fails = append(c.fails, nil)
		c.newlines = append(c.newlines, DeadState)
		c.success = append(c.success, 0)
	}
}

// get returns the table of s, or nil if it has to be built.
func (c *tableCache) get(s StateID) *table {
	if t := c.trans[s]; t != nil {
		c.hits++
		return t
	}
	if t := c.fails[s]; t != nil {
		c.hits++
		return t
	}
	c.misses++
	return nil
}

// reserve accounts for one table about to be built, clearing the cache
// first when it is full.
func (c *tableCache) reserve() {
	if c.live >= c.maxLive {
		c.clearKeepInitial()
	}
	c.live++
	c.builds++
}

// store installs t as the table of s.
func (c *tableCache) store(s StateID, t *table, accepting bool) {
	if accepting {
		c.fails[s] = t
	} else {
		c.trans[s] = t
	}
}

// clearKeepInitial drops every table except those of the initial states.
func (c *tableCache) clearKeepInitial() {
	for i := int(c.keep); i < len(c.trans); i++ {
		c.trans[i] = nil
		c.fails[i] = nil
	}
	c.live = 0
	c.clearCount++
}

// size returns the number of tables currently held.
func (c *tableCache) size() int {
	n := 0
	for i := range c.trans {
		if c.trans[i] != nil || c.fails[i] != nil {
			n++
		}
	}
	return n
}
