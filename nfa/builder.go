package nfa

import (
	"fmt"
)

// Builder constructs NFAs incrementally using a low-level API.
// This provides full control over NFA construction and is used by the Compiler.
type Builder struct {
	states          []State
	startAnchored   StateID
	startUnanchored StateID
	byteClassSet    *ByteClassSet // Tracks byte class boundaries for DFA optimization
	looks           LookSet
}

// NewBuilder creates a new NFA builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new NFA builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		states:          make([]State, 0, capacity),
		startAnchored:   InvalidState,
		startUnanchored: InvalidState,
		byteClassSet:    NewByteClassSet(),
	}
}

func (b *Builder) add(s State) StateID {
	id := StateID(len(b.states))
	s.id = id
	b.states = append(b.states, s)
	return id
}

// AddMatch adds a match (accepting) state and returns its ID
func (b *Builder) AddMatch() StateID {
	return b.add(State{kind: StateMatch})
}

// AddByteRange adds a state that transitions on a single byte or byte range [lo, hi].
// For a single byte, set lo == hi.
func (b *Builder) AddByteRange(lo, hi byte, next StateID) StateID {
	b.byteClassSet.SetRange(lo, hi)
	return b.add(State{kind: StateByteRange, lo: lo, hi: hi, next: next})
}

// AddSparse adds a state with multiple byte range transitions.
// The transitions slice is copied to avoid aliasing issues.
func (b *Builder) AddSparse(transitions []Transition) StateID {
	for _, tr := range transitions {
		b.byteClassSet.SetRange(tr.Lo, tr.Hi)
	}
	trans := make([]Transition, len(transitions))
	copy(trans, transitions)
	return b.add(State{kind: StateSparse, transitions: trans})
}

// AddSplit adds a state with epsilon transitions to two states.
func (b *Builder) AddSplit(left, right StateID) StateID {
	return b.add(State{kind: StateSplit, left: left, right: right})
}

// AddEpsilon adds a state with a single epsilon transition (no input consumed)
func (b *Builder) AddEpsilon(next StateID) StateID {
	return b.add(State{kind: StateEpsilon, next: next})
}

// AddFail adds a dead state with no transitions
func (b *Builder) AddFail() StateID {
	return b.add(State{kind: StateFail})
}

// AddLook adds a zero-width assertion state.
// next is the state to transition to if the assertion succeeds.
func (b *Builder) AddLook(look Look, next StateID) StateID {
	b.looks = b.looks.Insert(look)
	// Line and word assertions inspect neighbouring bytes, so those bytes
	// need classes of their own.
	switch look {
	case LookStartLine, LookEndLine:
		b.byteClassSet.SetByte('\n')
	case LookWordBoundary, LookNoWordBoundary:
		b.byteClassSet.SetRange('0', '9')
		b.byteClassSet.SetRange('A', 'Z')
		b.byteClassSet.SetByte('_')
		b.byteClassSet.SetRange('a', 'z')
	}
	return b.add(State{kind: StateLook, look: look, next: next})
}

// Patch updates a state's target. This is used during compilation to handle
// forward references (e.g., loops, alternations).
// This only works for states with a single 'next' target (ByteRange, Epsilon, Look).
func (b *Builder) Patch(stateID, target StateID) error {
	if int(stateID) >= len(b.states) {
		return &BuildError{
			Message: "state ID out of bounds",
			StateID: stateID,
		}
	}

	s := &b.states[stateID]
	switch s.kind {
	case StateByteRange, StateEpsilon, StateLook:
		s.next = target
		return nil
	default:
		return &BuildError{
			Message: fmt.Sprintf("cannot patch state of kind %s", s.kind),
			StateID: stateID,
		}
	}
}

// PatchSplit updates the left or right target of a Split state
func (b *Builder) PatchSplit(stateID StateID, left, right StateID) error {
	if int(stateID) >= len(b.states) {
		return &BuildError{
			Message: "state ID out of bounds",
			StateID: stateID,
		}
	}

	s := &b.states[stateID]
	if s.kind != StateSplit {
		return &BuildError{
			Message: fmt.Sprintf("expected Split state, got %s", s.kind),
			StateID: stateID,
		}
	}

	s.left = left
	s.right = right
	return nil
}

// SetStarts sets separate anchored and unanchored start states
func (b *Builder) SetStarts(anchored, unanchored StateID) {
	b.startAnchored = anchored
	b.startUnanchored = unanchored
}

// States returns the current number of states
func (b *Builder) States() int {
	return len(b.states)
}

// Validate checks that the NFA is well-formed:
// - Start states are valid
// - All state references point to valid states
func (b *Builder) Validate() error {
	if b.startAnchored == InvalidState {
		return &BuildError{Message: "anchored start state not set", StateID: InvalidState}
	}
	if int(b.startAnchored) >= len(b.states) {
		return &BuildError{
			Message: "anchored start state out of bounds",
			StateID: b.startAnchored,
		}
	}
	if b.startUnanchored == InvalidState {
		return &BuildError{Message: "unanchored start state not set", StateID: InvalidState}
	}
	if int(b.startUnanchored) >= len(b.states) {
		return &BuildError{
			Message: "unanchored start state out of bounds",
			StateID: b.startUnanchored,
		}
	}

	valid := func(id StateID) bool {
		return id == InvalidState || int(id) < len(b.states)
	}
	for i, s := range b.states {
		id := StateID(i)
		switch s.kind {
		case StateByteRange, StateEpsilon, StateLook:
			if !valid(s.next) {
				return &BuildError{
					Message: fmt.Sprintf("invalid next state %d", s.next),
					StateID: id,
				}
			}
		case StateSplit:
			if !valid(s.left) {
				return &BuildError{
					Message: fmt.Sprintf("invalid left state %d", s.left),
					StateID: id,
				}
			}
			if !valid(s.right) {
				return &BuildError{
					Message: fmt.Sprintf("invalid right state %d", s.right),
					StateID: id,
				}
			}
		case StateSparse:
			for j, t := range s.transitions {
				if !valid(t.Next) {
					return &BuildError{
						Message: fmt.Sprintf("invalid transition %d target %d", j, t.Next),
						StateID: id,
					}
				}
			}
		}
	}

	return nil
}

// Build validates and returns the constructed NFA. The builder must not be
// used afterwards.
func (b *Builder) Build() (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &NFA{
		states:          b.states,
		startAnchored:   b.startAnchored,
		startUnanchored: b.startUnanchored,
		byteClasses:     b.byteClassSet.ByteClasses(),
		looks:           b.looks,
	}, nil
}
