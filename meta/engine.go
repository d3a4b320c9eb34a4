package meta

import (
	"errors"
	"sync/atomic"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/linre/dfa/lazy"
	"github.com/coregx/linre/literal"
	"github.com/coregx/linre/nfa"
	"github.com/coregx/linre/syntax"
)

// Engine is the meta-engine that orchestrates all regex execution strategies.
//
// The Engine:
//  1. Parses the pattern and extracts an exact literal set, if any
//  2. Compiles the NFA
//  3. Selects the strategy (literals, DFA or NFA)
//  4. Coordinates search across engines
//
// Thread safety: the Engine uses a sync.Pool internally to provide thread-safe
// concurrent access. Multiple goroutines can safely call IsMatch on the same
// Engine instance concurrently. The NFA, DFA and Aho-Corasick automaton are
// immutable after compilation.
//
// Example:
//
//	engine, err := meta.Compile(`(foo|bar)\d+`)
//	if err != nil {
//	    return err
//	}
//	if engine.IsMatch([]byte("test foo123 end")) {
//	    println("matched")
//	}
type Engine struct {
	// Statistics (useful for debugging and tuning)
	// IMPORTANT: stats MUST be first field for proper 8-byte alignment on 32-bit platforms.
	// This ensures atomic operations on uint64 fields work correctly.
	stats Stats

	pattern     string
	nfa         *nfa.NFA
	pikevm      *nfa.PikeVM
	dfa         *lazy.DFA
	ahoCorasick *ahocorasick.Automaton
	literals    *literal.Seq
	strategy    Strategy
	config      Config

	pool *searchStatePool
}

// Stats tracks execution statistics for performance analysis.
type Stats struct {
	// NFASearches counts NFA (PikeVM) searches, including DFA fallbacks
	NFASearches uint64

	// DFASearches counts DFA searches
	DFASearches uint64

	// AhoCorasickSearches counts Aho-Corasick automaton searches
	AhoCorasickSearches uint64

	// DFAFallbacks counts DFA searches that hit a cache or determinization
	// limit and were finished by the NFA
	DFAFallbacks uint64
}

// Compile compiles a regex pattern string into an executable Engine with
// the default configuration.
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Steps:
//  1. Validate configuration
//  2. Parse pattern into a syntax.Tree
//  3. Compile to NFA
//  4. Extract an exact literal set and select the strategy
//  5. Build the strategy engine (Aho-Corasick or Lazy DFA)
//
// Returns an error if:
//   - Configuration is invalid (*ConfigError)
//   - Pattern syntax is invalid or the program is too large (*nfa.CompileError)
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	tree, err := parse(pattern, config)
	if err != nil {
		return nil, &nfa.CompileError{
			Pattern: pattern,
			Err:     err,
		}
	}

	compiler := nfa.NewCompiler(nfa.CompilerConfig{
		MaxStates:         config.MaxProgramStates,
		MaxRecursionDepth: config.MaxRecursionDepth,
	})
	prog, err := compiler.CompileTree(tree)
	if err != nil {
		var cerr *nfa.CompileError
		if errors.As(err, &cerr) {
			cerr.Pattern = pattern
		}
		return nil, err
	}

	lits := exactLiterals(tree, config)
	e := &Engine{
		pattern:  pattern,
		nfa:      prog,
		pikevm:   nfa.NewPikeVM(prog),
		literals: lits,
		strategy: selectStrategy(lits, config),
		config:   config,
	}
	e.buildStrategyEngines()
	e.pool = newSearchStatePool(e)
	return e, nil
}

// parse parses pattern with the flags config puts in effect. CaseInsensitive
// only seeds (?i), so an inline (?-i) still turns folding off.
func parse(pattern string, config Config) (*syntax.Tree, error) {
	var flags syntax.Flags
	if config.CaseInsensitive {
		flags |= syntax.FoldCase
	}
	return syntax.ParseWithFlags(pattern, flags)
}

// buildStrategyEngines builds the engine the selected strategy needs,
// downgrading the strategy when the engine cannot be built.
func (e *Engine) buildStrategyEngines() {
	if e.strategy == UseLiterals {
		builder := ahocorasick.NewBuilder()
		for i := 0; i < e.literals.Len(); i++ {
			builder.AddPattern(e.literals.Get(i).Bytes)
		}
		auto, err := builder.Build()
		if err == nil {
			e.ahoCorasick = auto
			return
		}
		e.strategy = selectStrategy(nil, e.config)
	}

	if e.strategy == UseDFA {
		dfaConfig := lazy.DefaultConfig().
			WithMaxStates(e.config.MaxDFAStates).
			WithDeterminizationLimit(e.config.DeterminizationLimit)
		dfa, err := lazy.New(e.nfa, dfaConfig)
		if err != nil {
			// Line and word assertions: the PikeVM handles them.
			e.strategy = UseNFA
			return
		}
		e.dfa = dfa
	}
}

// Pattern returns the source pattern.
func (e *Engine) Pattern() string {
	return e.pattern
}

// Strategy returns the execution strategy selected for this engine.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Config returns the configuration the engine was compiled with.
func (e *Engine) Config() Config {
	return e.config
}

// NFA returns the compiled program.
func (e *Engine) NFA() *nfa.NFA {
	return e.nfa
}

// Literals returns the exact literal set served by UseLiterals, or nil.
func (e *Engine) Literals() *literal.Seq {
	return e.literals
}

// Stats returns a snapshot of execution statistics.
func (e *Engine) Stats() Stats {
	return Stats{
		NFASearches:         atomic.LoadUint64(&e.stats.NFASearches),
		DFASearches:         atomic.LoadUint64(&e.stats.DFASearches),
		AhoCorasickSearches: atomic.LoadUint64(&e.stats.AhoCorasickSearches),
		DFAFallbacks:        atomic.LoadUint64(&e.stats.DFAFallbacks),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	atomic.StoreUint64(&e.stats.NFASearches, 0)
	atomic.StoreUint64(&e.stats.DFASearches, 0)
	atomic.StoreUint64(&e.stats.AhoCorasickSearches, 0)
	atomic.StoreUint64(&e.stats.DFAFallbacks, 0)
}
