package lazy

import "math"

// Config configures the behavior of the Lazy DFA engine.
//
// The configuration trades memory for speed: transition tables are the
// dominant cost (1KB each) and are rebuilt on demand after eviction, while
// states are kept for the lifetime of the DFA.
type Config struct {
	// MaxTables is the number of transition tables kept alive besides the
	// tables of the initial states. When the limit is reached every
	// non-initial table is dropped and rebuilt lazily as needed.
	// The same bound applies to the cache of multibyte transitions.
	//
	// Default: 1024
	MaxTables int

	// MaxStates is the maximum number of DFA states. States are never
	// freed; creating one more panics with ErrStateLimitExceeded.
	//
	// Default: 1<<20
	MaxStates int

	// EOL is the end-of-line byte. It is '\n' for ordinary text and NUL
	// for NUL-terminated records.
	//
	// Default: '\n'
	EOL byte

	// Anchor makes ^ and $ match only at the start and end of the buffer.
	// The end-of-line byte is then classified like any other non-word byte.
	Anchor bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTables: 1024,
		MaxStates: 1 << 20,
		EOL:       '\n',
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of acceptable range.
func (c *Config) Validate() error {
	if c.MaxTables <= 0 {
		return &DFAError{
			Kind:    InvalidConfig,
			Message: "MaxTables must be > 0",
		}
	}

	if c.MaxStates <= 0 || c.MaxStates > math.MaxInt32 {
		return &DFAError{
			Kind:    InvalidConfig,
			Message: "MaxStates must be in range [1, MaxInt32]",
		}
	}

	return nil
}

// WithMaxTables returns a new config with the specified table limit
func (c Config) WithMaxTables(maxTables int) Config {
	c.MaxTables = maxTables
	return c
}

// WithMaxStates returns a new config with the specified max states
func (c Config) WithMaxStates(maxStates int) Config {
	c.MaxStates = maxStates
	return c
}

// WithEOL returns a new config with the specified end-of-line byte
func (c Config) WithEOL(eol byte) Config {
	c.EOL = eol
	return c
}

// WithAnchor returns a new config with buffer anchoring enabled/disabled
func (c Config) WithAnchor(anchor bool) Config {
	c.Anchor = anchor
	return c
}
