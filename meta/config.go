// Package meta implements the meta-engine orchestrator that selects the
// regex execution strategy for a pattern.
//
// The meta-engine coordinates three engines:
//   - Aho-Corasick: when the pattern is exactly a small set of literals
//   - Lazy DFA: deterministic finite automaton with on-demand state construction
//   - NFA (PikeVM): fallback for assertions the DFA cannot resolve or DFA cache overflow
//
// Every engine runs in time linear in the haystack; none of them backtracks.
package meta

// Config controls meta-engine behavior and performance characteristics.
//
// Configuration options affect:
//   - Case sensitivity of the whole pattern
//   - Strategy selection (which engine to use)
//   - Cache sizes (DFA state cache)
//   - Limits (program size, determinization, recursion)
//
// Config is part of a compiled engine's identity: the program cache keys
// engines by pattern and by a hash of this struct.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.EnableDFA = false // Force NFA-only execution
//	engine, err := meta.CompileWithConfig(`\w+@\w+`, config)
type Config struct {
	// CaseInsensitive matches letters case-insensitively, as if the pattern
	// started with (?i). An inline (?-i) turns folding off again.
	// Default: false
	CaseInsensitive bool

	// EnableDFA enables the Lazy DFA engine.
	// When false, only NFA (PikeVM) is used.
	// Default: true
	EnableDFA bool

	// EnableLiterals enables the literal-set engine for patterns that are
	// exactly a finite set of strings.
	// Default: true
	EnableLiterals bool

	// MaxDFAStates sets the maximum number of DFA states per search cache.
	// Larger values use more memory but reduce NFA fallback frequency.
	// Default: 10000
	MaxDFAStates uint32

	// DeterminizationLimit caps the number of NFA states per DFA state.
	// Default: 1000
	DeterminizationLimit int

	// MaxProgramStates limits the size of the compiled NFA. Larger
	// patterns fail with ErrorPatternTooLarge.
	// Default: 100000
	MaxProgramStates int

	// MaxRecursionDepth limits operator nesting during NFA compilation.
	// Default: 1000
	MaxRecursionDepth int

	// MaxLiterals limits the size of the literal set handed to Aho-Corasick.
	// Default: 64
	MaxLiterals int
}

// DefaultConfig returns a configuration with sensible defaults.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.MaxDFAStates = 50000 // Increase cache for better hit rate
func DefaultConfig() Config {
	return Config{
		CaseInsensitive:      false,
		EnableDFA:            true,
		EnableLiterals:       true,
		MaxDFAStates:         10000,
		DeterminizationLimit: 1000,
		MaxProgramStates:     100000,
		MaxRecursionDepth:    1000,
		MaxLiterals:          64,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MaxDFAStates: 1 to 1,000,000
//   - DeterminizationLimit: 10 to 100,000
//   - MaxProgramStates: 16 to 10,000,000
//   - MaxRecursionDepth: 10 to 1,000
//   - MaxLiterals: 1 to 1,000
//
// Example:
//
//	config := meta.Config{MaxDFAStates: 0} // Invalid!
//	if err := config.Validate(); err != nil {
//	    log.Fatal(err)
//	}
func (c Config) Validate() error {
	if c.EnableDFA {
		if c.MaxDFAStates < 1 || c.MaxDFAStates > 1_000_000 {
			return &ConfigError{
				Field:   "MaxDFAStates",
				Message: "must be between 1 and 1,000,000",
			}
		}
		if c.DeterminizationLimit < 10 || c.DeterminizationLimit > 100_000 {
			return &ConfigError{
				Field:   "DeterminizationLimit",
				Message: "must be between 10 and 100,000",
			}
		}
	}

	if c.EnableLiterals {
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
	}

	if c.MaxProgramStates < 16 || c.MaxProgramStates > 10_000_000 {
		return &ConfigError{
			Field:   "MaxProgramStates",
			Message: "must be between 16 and 10,000,000",
		}
	}

	if c.MaxRecursionDepth < 10 || c.MaxRecursionDepth > 1_000 {
		return &ConfigError{
			Field:   "MaxRecursionDepth",
			Message: "must be between 10 and 1,000",
		}
	}

	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "linre: invalid config: " + e.Field + ": " + e.Message
}
