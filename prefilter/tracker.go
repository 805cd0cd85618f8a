package prefilter

// Tracker wraps a Prefilter and retires it when too few of its candidates
// turn out to be on matching lines.
//
// A required literal that is common in the input (say "e" for e.*x) makes
// the prefilter stop on nearly every line, and the automaton then runs
// twice over the same bytes. Once the ratio of confirmed candidates to
// candidates drops below MinEfficiency the tracker reports inactive and
// the caller scans with the automaton alone.
//
// Example usage:
//
//	tracker := prefilter.NewTracker(pf)
//	for tracker.IsActive() {
//	    pos := tracker.Find(buf, start)
//	    if pos < 0 {
//	        break
//	    }
//	    if lineMatches(buf, pos) {
//	        tracker.ConfirmMatch()
//	        return pos
//	    }
//	    start = nextLine(buf, pos)
//	}
type Tracker struct {
	inner Prefilter

	candidates uint64
	confirms   uint64

	checkInterval  uint64
	minEfficiency  float64
	warmupPeriod   uint64
	lastCheckpoint uint64

	active bool
}

// TrackerConfig tunes when a Tracker gives up on its prefilter.
type TrackerConfig struct {
	// CheckInterval is the number of candidates between checks.
	// Default: 64
	CheckInterval uint64

	// MinEfficiency is the lowest acceptable confirms/candidates ratio.
	// Default: 0.1
	MinEfficiency float64

	// WarmupPeriod is the number of candidates before the first check.
	// Default: 128
	WarmupPeriod uint64
}

// DefaultTrackerConfig returns the default tracker configuration.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		CheckInterval: 64,
		MinEfficiency: 0.1,
		WarmupPeriod:  128,
	}
}

// NewTracker creates a tracker with the default configuration. It returns
// nil if inner is nil.
func NewTracker(inner Prefilter) *Tracker {
	return NewTrackerWithConfig(inner, DefaultTrackerConfig())
}

// NewTrackerWithConfig creates a tracker. It returns nil if inner is nil.
func NewTrackerWithConfig(inner Prefilter, config TrackerConfig) *Tracker {
	if inner == nil {
		return nil
	}
	return &Tracker{
		inner:         inner,
		checkInterval: config.CheckInterval,
		minEfficiency: config.MinEfficiency,
		warmupPeriod:  config.WarmupPeriod,
		active:        true,
	}
}

// Find returns the next candidate at or after start. It returns -1 once
// the tracker is inactive, even if candidates remain.
func (t *Tracker) Find(haystack []byte, start int) int {
	if !t.active {
		return -1
	}
	pos := t.inner.Find(haystack, start)
	if pos >= 0 {
		t.candidates++
		t.checkEffectiveness()
	}
	return pos
}

// ConfirmMatch records that the last candidate led to a match.
func (t *Tracker) ConfirmMatch() {
	t.confirms++
}

// IsActive reports whether the prefilter is still in use.
func (t *Tracker) IsActive() bool {
	return t.active
}

// Stats returns the candidate and confirm counts, their ratio and whether
// the tracker is still active.
func (t *Tracker) Stats() (candidates, confirms uint64, efficiency float64, active bool) {
	candidates = t.candidates
	confirms = t.confirms
	if candidates > 0 {
		efficiency = float64(confirms) / float64(candidates)
	}
	active = t.active
	return
}

// Reset clears the counts and reactivates the prefilter.
func (t *Tracker) Reset() {
	t.candidates = 0
	t.confirms = 0
	t.lastCheckpoint = 0
	t.active = true
}

// Inner returns the wrapped prefilter.
func (t *Tracker) Inner() Prefilter {
	return t.inner
}

func (t *Tracker) checkEffectiveness() {
	if t.candidates < t.warmupPeriod {
		return
	}
	if t.candidates-t.lastCheckpoint < t.checkInterval {
		return
	}
	t.lastCheckpoint = t.candidates

	if float64(t.confirms)/float64(t.candidates) < t.minEfficiency {
		t.active = false
	}
}
