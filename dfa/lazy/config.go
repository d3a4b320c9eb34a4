package lazy

// Config configures Lazy DFA behavior.
//
// The Lazy DFA builds states on demand during a search and keeps them in a
// per-search Cache. When either limit below is hit, the search stops with an
// error and the caller finishes it with the NFA.
type Config struct {
	// MaxStates is the maximum number of DFA states a Cache may hold.
	//
	// Each state costs roughly (AlphabetLen * 4) bytes for its transition
	// row plus the NFA state list it was built from.
	//
	// Default: 10,000 states
	MaxStates uint32

	// DeterminizationLimit is the maximum number of NFA states allowed in a
	// single DFA state. Larger sets signal a pattern for which the DFA would
	// be expensive to build.
	//
	// Default: 1,000
	DeterminizationLimit int
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		MaxStates:            10_000,
		DeterminizationLimit: 1_000,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxStates == 0 {
		return &DFAError{
			Kind:    InvalidConfig,
			Message: "MaxStates must be > 0",
		}
	}

	if c.DeterminizationLimit <= 0 {
		return &DFAError{
			Kind:    InvalidConfig,
			Message: "DeterminizationLimit must be > 0",
		}
	}

	return nil
}

// WithMaxStates returns a new config with the specified max states
func (c Config) WithMaxStates(maxStates uint32) Config {
	c.MaxStates = maxStates
	return c
}

// WithDeterminizationLimit returns a new config with the specified
// determinization limit
func (c Config) WithDeterminizationLimit(limit int) Config {
	c.DeterminizationLimit = limit
	return c
}
