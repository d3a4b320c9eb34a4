package lazy

import (
	"fmt"
	"hash/fnv"
	"slices"

	"github.com/coregx/linre/nfa"
)

// StateID uniquely identifies a DFA state within one Cache.
type StateID uint32

// Special state IDs
const (
	// InvalidState marks a transition that has not been computed yet
	InvalidState StateID = 0xFFFFFFFF

	// DeadState is the state with no NFA states: no match is possible
	// from it, whatever input follows.
	DeadState StateID = 0xFFFFFFFE
)

// State is a DFA state: the sorted set of NFA states active after the same
// input, and whether it is accepting.
type State struct {
	id StateID

	// isMatch means a match ends at the current position.
	isMatch bool

	// eoiMatch means a match ends at the current position if it is the end
	// of the input, i.e. after resolving pending $ and \z assertions.
	eoiMatch bool

	// nfaStates is sorted and duplicate-free.
	nfaStates []nfa.StateID
}

// ID returns the state's unique identifier
func (s *State) ID() StateID {
	return s.id
}

// IsMatch returns true if a match ends in this state.
func (s *State) IsMatch() bool {
	return s.isMatch
}

// IsMatchAtEOI returns true if a match ends in this state when no input
// remains.
func (s *State) IsMatchAtEOI() bool {
	return s.eoiMatch
}

// NFAStates returns the NFA states represented by this DFA state
func (s *State) NFAStates() []nfa.StateID {
	return s.nfaStates
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	return fmt.Sprintf("DFAState(id=%d, isMatch=%v, eoiMatch=%v, nfaStates=%v)",
		s.id, s.isMatch, s.eoiMatch, s.nfaStates)
}

// StateKey is a hash of a sorted NFA state set. Equal sets have equal keys;
// the cache resolves collisions by comparing the sets.
type StateKey uint64

// ComputeStateKey hashes a sorted NFA state set with FNV-1a.
func ComputeStateKey(nfaStates []nfa.StateID) StateKey {
	if len(nfaStates) == 0 {
		return StateKey(0)
	}

	h := fnv.New64a()
	var buf [4]byte
	for _, sid := range nfaStates {
		buf[0] = byte(sid)
		buf[1] = byte(sid >> 8)
		buf[2] = byte(sid >> 16)
		buf[3] = byte(sid >> 24)
		_, _ = h.Write(buf[:])
	}
	return StateKey(h.Sum64())
}

func sameStates(a, b []nfa.StateID) bool {
	return slices.Equal(a, b)
}
