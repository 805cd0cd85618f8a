package grepdfa

import (
	"github.com/coregx/grepdfa/dfa/lazy"
	"github.com/coregx/grepdfa/prefilter"
)

// searchState holds the automata one search mutates. Automata build their
// transition tables while they run, so each goroutine borrows its own
// clones from the pool of the Regexp.
//
// Usage pattern:
//
//	st := re.get()
//	defer re.put(st)
//	// use st for search operations
type searchState struct {
	exec     *lazy.DFA
	search   *lazy.DFA
	anchored *lazy.DFA
	superset *lazy.DFA

	// tracker retires the prefilter for this state once its candidates
	// stop leading to matches.
	tracker *prefilter.Tracker

	// clears is the table cache clear count last reported.
	clears int
}

func (re *Regexp) newSearchState() *searchState {
	st := &searchState{search: re.search.Clone()}
	st.exec = st.search
	if re.anchored != nil {
		st.anchored = re.anchored.Clone()
	}
	if re.exec != re.search {
		st.exec = st.anchored
	}
	if re.superset != nil {
		st.superset = re.superset.Clone()
	}
	st.tracker = prefilter.NewTracker(re.prefilter)
	return st
}

func (re *Regexp) get() *searchState {
	return re.pool.Get().(*searchState)
}

// put returns st to the pool after publishing its statistics.
func (re *Regexp) put(st *searchState) {
	stats := st.search.Stats()
	if stats.Clears > st.clears {
		re.logger.Debug("dfa table cache cleared",
			"pattern", re.pattern,
			"clears", stats.Clears,
			"states", stats.States)
		st.clears = stats.Clears
	}
	re.stats.Store(&stats)
	re.pool.Put(st)
}
