package meta

import (
	"sync/atomic"
)

// IsMatch returns true if the pattern matches anywhere in the haystack.
//
// This is optimized for boolean matching:
//   - Uses early termination (returns immediately on first match)
//   - Avoids Match object creation
//   - Uses DFA.IsMatch when available, falling back to the PikeVM when the
//     DFA hits one of its limits
//
// Example:
//
//	engine, _ := meta.Compile("hello")
//	if engine.IsMatch([]byte("say hello world")) {
//	    println("matches!")
//	}
func (e *Engine) IsMatch(haystack []byte) bool {
	switch e.strategy {
	case UseLiterals:
		return e.isMatchAhoCorasick(haystack)
	case UseDFA:
		return e.isMatchDFA(haystack)
	default:
		return e.isMatchNFA(haystack)
	}
}

// IsMatchString is IsMatch for a string haystack.
func (e *Engine) IsMatchString(s string) bool {
	return e.IsMatch([]byte(s))
}

// isMatchNFA checks for match using the PikeVM with early termination.
// Thread-safe: uses pooled state.
func (e *Engine) isMatchNFA(haystack []byte) bool {
	atomic.AddUint64(&e.stats.NFASearches, 1)

	state := e.getSearchState()
	defer e.putSearchState(state)
	return e.pikevm.IsMatchWithState(haystack, state.pikevm)
}

// isMatchDFA checks for match using the Lazy DFA. When the DFA stops on a
// cache or determinization limit, the whole haystack is searched again by
// the PikeVM.
func (e *Engine) isMatchDFA(haystack []byte) bool {
	atomic.AddUint64(&e.stats.DFASearches, 1)

	state := e.getSearchState()
	defer e.putSearchState(state)

	matched, err := e.dfa.IsMatch(state.dfaCache, haystack)
	if err == nil {
		return matched
	}
	atomic.AddUint64(&e.stats.DFAFallbacks, 1)
	atomic.AddUint64(&e.stats.NFASearches, 1)
	return e.pikevm.IsMatchWithState(haystack, state.pikevm)
}

// isMatchAhoCorasick checks for any of the pattern's literals.
func (e *Engine) isMatchAhoCorasick(haystack []byte) bool {
	atomic.AddUint64(&e.stats.AhoCorasickSearches, 1)
	return e.ahoCorasick.IsMatch(haystack)
}
