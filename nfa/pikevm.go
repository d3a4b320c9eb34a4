package nfa

import (
	"github.com/coregx/linre/internal/sparse"
)

// PikeVM implements the Pike VM algorithm for NFA execution.
// It simulates the NFA by maintaining a set of active states and
// exploring all possible paths through the automaton in lockstep, so the
// running time is O(states * len(haystack)) for any pattern.
//
// Thread safety: PikeVM configuration (nfa) is immutable after creation.
// Mutable search state lives in PikeVMState, which each goroutine must own.
type PikeVM struct {
	nfa *NFA
}

// PikeVMState holds mutable per-search state for PikeVM.
// This struct should be pooled (via sync.Pool) for concurrent usage.
// Each goroutine must use its own PikeVMState instance.
type PikeVMState struct {
	// threads holds the current and next generation. Each set doubles as
	// the visited set for epsilon closure at its position, so a state is
	// explored at most once per byte.
	threads *sparse.SparseSets

	// stack is used for loop-based epsilon closure.
	// Only stores StateID for split right branches.
	stack []StateID
}

// NewPikeVM creates a new PikeVM for the given NFA
func NewPikeVM(nfa *NFA) *PikeVM {
	return &PikeVM{nfa: nfa}
}

// NewPikeVMState creates an empty state. Call PikeVM.InitState before use.
func NewPikeVMState() *PikeVMState {
	return &PikeVMState{
		threads: sparse.NewSparseSets(0),
	}
}

// InitState sizes state for this VM's NFA. A state initialized for a larger
// NFA can be reused without reallocation.
func (p *PikeVM) InitState(state *PikeVMState) {
	if state.threads == nil {
		state.threads = sparse.NewSparseSets(0)
	}
	state.threads.Resize(uint32(p.nfa.States()))
	if cap(state.stack) == 0 {
		state.stack = make([]StateID, 0, 16)
	}
}

// NumStates returns the number of NFA states
func (p *PikeVM) NumStates() int {
	return p.nfa.States()
}

// IsMatch reports whether the NFA matches anywhere in haystack.
// It allocates a fresh state; use IsMatchWithState on hot paths.
func (p *PikeVM) IsMatch(haystack []byte) bool {
	state := NewPikeVMState()
	p.InitState(state)
	return p.IsMatchWithState(haystack, state)
}

// IsMatchWithState reports whether the NFA matches anywhere in haystack,
// using caller-owned state. It returns as soon as any thread reaches the
// match state.
func (p *PikeVM) IsMatchWithState(haystack []byte, state *PikeVMState) bool {
	curr, next := state.threads.Set1, state.threads.Set2
	curr.Clear()
	next.Clear()

	if p.addThread(curr, p.nfa.startUnanchored, haystack, 0, state) {
		return true
	}

	for pos := 0; pos < len(haystack); pos++ {
		if curr.IsEmpty() {
			// Only reachable for anchored programs: no thread survived and
			// nothing re-seeds the start state.
			return false
		}
		b := haystack[pos]
		next.Clear()
		for _, v := range curr.Values() {
			s := &p.nfa.states[v]
			switch s.kind {
			case StateByteRange:
				if b >= s.lo && b <= s.hi && p.addThread(next, s.next, haystack, pos+1, state) {
					return true
				}
			case StateSparse:
				for _, tr := range s.transitions {
					if b < tr.Lo {
						break
					}
					if b <= tr.Hi && p.addThread(next, tr.Next, haystack, pos+1, state) {
						return true
					}
				}
			}
		}
		curr, next = next, curr
	}
	return false
}

// addThread computes the epsilon closure of id at pos into set and reports
// whether it reaches the match state. Linear chains are followed in the
// inner loop; only the right branch of a split is pushed on the stack.
func (p *PikeVM) addThread(set *sparse.SparseSet, id StateID, haystack []byte, pos int, state *PikeVMState) bool {
	stack := append(state.stack[:0], id)
	defer func() { state.stack = stack[:0] }()

	for len(stack) > 0 {
		sid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for sid != InvalidState && set.Insert(uint32(sid)) {
			s := &p.nfa.states[sid]
			next := InvalidState
			switch s.kind {
			case StateMatch:
				return true
			case StateEpsilon:
				next = s.next
			case StateSplit:
				stack = append(stack, s.right)
				next = s.left
			case StateLook:
				if checkLookAssertion(s.look, haystack, pos) {
					next = s.next
				}
			}
			sid = next
		}
	}
	return false
}
