// Package lazy implements a Lazy DFA (Deterministic Finite Automaton) engine
// for boolean regex matching.
//
// The Lazy DFA constructs DFA states on-demand during matching, rather than
// building the complete DFA upfront. This provides:
//   - Fast matching: one table lookup per input byte
//   - Bounded memory: states live in a per-search Cache with a size limit
//   - Graceful degradation: the caller falls back to the NFA when a limit is hit
//
// Only programs whose assertions are \A and \z (^ and $ outside multi-line
// mode) are supported: \A is resolved when the start state is built and \z
// when the input ends. Line and word assertions need look-behind context
// and are left to the PikeVM.
//
// Example usage:
//
//	prog, _ := nfa.NewDefaultCompiler().Compile(`(foo|bar)\d+`)
//	dfa, err := lazy.New(prog, lazy.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	cache := dfa.NewCache()
//	matched, err := dfa.IsMatch(cache, []byte("test foo123 end"))
package lazy

import (
	"github.com/coregx/linre/nfa"
)

// supportedLooks are the assertions the DFA resolves itself.
var supportedLooks = nfa.LookSet(0).Insert(nfa.LookStartText).Insert(nfa.LookEndText)

// DFA is a Lazy DFA engine that performs on-demand determinization.
//
// Thread safety: a DFA is immutable and may be shared. All mutable search
// state lives in a Cache, which each goroutine must own.
type DFA struct {
	nfa     *nfa.NFA
	config  Config
	classes *nfa.ByteClasses
	stride  int

	// emptyMatch is whether the program matches the empty input.
	emptyMatch bool
}

// New builds a DFA over n. It fails with ErrUnsupported when n uses
// assertions other than \A and \z, and with an InvalidConfig error when
// config does not validate.
func New(n *nfa.NFA, config Config) (*DFA, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if !n.LookSet().SubsetOf(supportedLooks) {
		return nil, &DFAError{
			Kind:    Unsupported,
			Message: "program uses assertions " + n.LookSet().String(),
		}
	}
	d := &DFA{
		nfa:     n,
		config:  config,
		classes: n.ByteClasses(),
		stride:  n.ByteClasses().AlphabetLen(),
	}
	d.emptyMatch = d.matchesEmpty()
	return d, nil
}

// NewCache returns an empty cache for searches with this DFA.
func (d *DFA) NewCache() *Cache {
	return newCache(d)
}

// ByteClasses returns the byte equivalence classes used by the transition
// table.
func (d *DFA) ByteClasses() *nfa.ByteClasses {
	return d.classes
}

// AlphabetLen returns the number of columns in the transition table.
func (d *DFA) AlphabetLen() int {
	return d.stride
}

// IsMatch reports whether the program matches anywhere in haystack.
//
// The search stops at the first accepting state. If the cache fills up or a
// state exceeds the determinization limit, IsMatch returns an error
// (ErrCacheFull or ErrStateLimitExceeded) and the result must be computed
// by another engine; a full cache is cleared before returning.
func (d *DFA) IsMatch(cache *Cache, haystack []byte) (bool, error) {
	if len(haystack) == 0 {
		return d.emptyMatch, nil
	}

	sid, err := d.startState(cache)
	if err != nil {
		return false, d.fail(cache, err)
	}
	if sid == DeadState {
		return false, nil
	}
	if cache.state(sid).isMatch {
		return true, nil
	}

	for _, b := range haystack {
		idx := int(sid)*cache.stride + int(d.classes.Get(b))
		next := cache.trans[idx]
		if next == InvalidState {
			cache.misses++
			next, err = d.nextState(cache, sid, b)
			if err != nil {
				return false, d.fail(cache, err)
			}
			cache.trans[idx] = next
		} else {
			cache.hits++
		}

		if next == DeadState {
			return false, nil
		}
		sid = next
		if cache.state(sid).isMatch {
			return true, nil
		}
	}
	return cache.state(sid).eoiMatch, nil
}

func (d *DFA) fail(cache *Cache, err error) error {
	if err == ErrCacheFull {
		cache.Clear()
	}
	return err
}

// startState returns the state at position 0 of a non-empty haystack,
// building it on first use.
func (d *DFA) startState(cache *Cache) (StateID, error) {
	if cache.start != InvalidState {
		return cache.start, nil
	}
	cache.seeds = append(cache.seeds[:0], d.nfa.StartUnanchored())
	id, err := d.addState(cache, cache.seeds, true)
	if err != nil {
		return InvalidState, err
	}
	cache.start = id
	return id, nil
}

// nextState computes the transition from sid on byte b.
func (d *DFA) nextState(cache *Cache, sid StateID, b byte) (StateID, error) {
	seeds := d.move(cache.state(sid).nfaStates, b, cache.seeds[:0])
	cache.seeds = seeds
	if len(seeds) == 0 {
		return DeadState, nil
	}
	return d.addState(cache, seeds, false)
}
