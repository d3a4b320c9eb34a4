package lazy

import (
	"slices"

	"github.com/coregx/linre/internal/sparse"
	"github.com/coregx/linre/nfa"
)

// Compile is a convenience function to build a DFA from an NFA with default config
func Compile(n *nfa.NFA) (*DFA, error) {
	return New(n, DefaultConfig())
}

// CompilePattern is a convenience function to compile a regex pattern directly to DFA.
// This combines NFA compilation and DFA construction.
//
// Example:
//
//	dfa, err := lazy.CompilePattern(`(foo|bar)\d+`)
//	if err != nil {
//	    return err
//	}
//	matched, _ := dfa.IsMatch(dfa.NewCache(), []byte("test foo123 end"))
func CompilePattern(pattern string) (*DFA, error) {
	return CompilePatternWithConfig(pattern, DefaultConfig())
}

// CompilePatternWithConfig compiles a pattern with custom configuration
func CompilePatternWithConfig(pattern string, config Config) (*DFA, error) {
	prog, err := nfa.NewDefaultCompiler().Compile(pattern)
	if err != nil {
		return nil, err
	}
	return New(prog, config)
}

// addState returns the DFA state for the epsilon closure of seeds, adding
// it to the cache if it is new. atStart reports whether the closure is
// taken at position 0, where \A holds.
//
// seeds must not alias cache.closure.
func (d *DFA) addState(cache *Cache, seeds []nfa.StateID, atStart bool) (StateID, error) {
	var satisfied nfa.LookSet
	if atStart {
		satisfied = satisfied.Insert(nfa.LookStartText)
	}
	cache.stack = d.epsilonClosure(cache.set, cache.stack, seeds, satisfied)

	// Keep only the states that still matter for the next step: those
	// consuming a byte, the match state, and pending \z assertions.
	states := cache.closure[:0]
	isMatch := false
	for _, v := range cache.set.Values() {
		sid := nfa.StateID(v)
		s := d.nfa.State(sid)
		switch s.Kind() {
		case nfa.StateByteRange, nfa.StateSparse:
			states = append(states, sid)
		case nfa.StateMatch:
			isMatch = true
			states = append(states, sid)
		case nfa.StateLook:
			if look, _ := s.Look(); look == nfa.LookEndText {
				states = append(states, sid)
			}
		}
	}
	cache.closure = states

	if len(states) == 0 {
		return DeadState, nil
	}
	if len(states) > d.config.DeterminizationLimit {
		return InvalidState, ErrStateLimitExceeded
	}
	slices.Sort(states)

	key := ComputeStateKey(states)
	if id, ok := cache.lookup(key, states); ok {
		return id, nil
	}
	eoiMatch := isMatch || d.matchesAtEOI(cache, states)
	return cache.insert(key, states, isMatch, eoiMatch)
}

// matchesAtEOI reports whether a match is reached from states once the
// pending \z assertions hold. It reuses cache.set, so callers must be done
// with the previous closure.
func (d *DFA) matchesAtEOI(cache *Cache, states []nfa.StateID) bool {
	cache.seeds = cache.seeds[:0]
	for _, sid := range states {
		if d.nfa.State(sid).Kind() == nfa.StateLook {
			cache.seeds = append(cache.seeds, sid)
		}
	}
	if len(cache.seeds) == 0 {
		return false
	}
	satisfied := nfa.LookSet(0).Insert(nfa.LookEndText)
	cache.stack = d.epsilonClosure(cache.set, cache.stack, cache.seeds, satisfied)
	return d.containsMatch(cache.set)
}

// matchesEmpty reports whether the program matches the empty haystack, where
// \A and \z both hold.
func (d *DFA) matchesEmpty() bool {
	set := sparse.NewSparseSet(uint32(d.nfa.States()))
	seeds := []nfa.StateID{d.nfa.StartUnanchored()}
	d.epsilonClosure(set, nil, seeds, supportedLooks)
	return d.containsMatch(set)
}

// epsilonClosure fills set with every state reachable from seeds without
// consuming input. Look states are crossed only for assertions in
// satisfied. The stack is returned for reuse.
func (d *DFA) epsilonClosure(set *sparse.SparseSet, stack, seeds []nfa.StateID, satisfied nfa.LookSet) []nfa.StateID {
	set.Clear()
	stack = append(stack[:0], seeds...)
	for len(stack) > 0 {
		sid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !set.Insert(uint32(sid)) {
			continue
		}

		s := d.nfa.State(sid)
		switch s.Kind() {
		case nfa.StateEpsilon:
			if next := s.Epsilon(); next != nfa.InvalidState {
				stack = append(stack, next)
			}
		case nfa.StateSplit:
			left, right := s.Split()
			if right != nfa.InvalidState {
				stack = append(stack, right)
			}
			if left != nfa.InvalidState {
				stack = append(stack, left)
			}
		case nfa.StateLook:
			look, next := s.Look()
			if satisfied.Contains(look) && next != nfa.InvalidState {
				stack = append(stack, next)
			}
		}
	}
	return stack
}

// move appends to dst the NFA states reached from states on byte b.
// The result may hold duplicates; the closure removes them.
func (d *DFA) move(states []nfa.StateID, b byte, dst []nfa.StateID) []nfa.StateID {
	for _, sid := range states {
		s := d.nfa.State(sid)
		switch s.Kind() {
		case nfa.StateByteRange:
			lo, hi, next := s.ByteRange()
			if b >= lo && b <= hi {
				dst = append(dst, next)
			}
		case nfa.StateSparse:
			for _, tr := range s.Transitions() {
				if b >= tr.Lo && b <= tr.Hi {
					dst = append(dst, tr.Next)
				}
			}
		}
	}
	return dst
}

func (d *DFA) containsMatch(set *sparse.SparseSet) bool {
	for _, v := range set.Values() {
		if d.nfa.IsMatch(nfa.StateID(v)) {
			return true
		}
	}
	return false
}
