package lazy

import (
	"github.com/coregx/linre/internal/sparse"
	"github.com/coregx/linre/nfa"
)

// Cache holds the DFA states and transitions built during searches.
//
// A Cache belongs to one DFA and must not be used by two goroutines at
// once; pool caches (sync.Pool) to share them between searches. The DFA
// itself is immutable.
type Cache struct {
	states []*State
	index  map[StateKey][]StateID

	// trans is the transition table: row id*stride, column byte class.
	// InvalidState marks an entry not computed yet.
	trans  []StateID
	stride int

	maxStates uint32
	start     StateID

	// Scratch space for determinization.
	set     *sparse.SparseSet
	stack   []nfa.StateID
	seeds   []nfa.StateID
	closure []nfa.StateID

	clearCount   int
	hits, misses uint64
}

func newCache(d *DFA) *Cache {
	return &Cache{
		index:     make(map[StateKey][]StateID),
		stride:    d.stride,
		maxStates: d.config.MaxStates,
		start:     InvalidState,
		set:       sparse.NewSparseSet(uint32(d.nfa.States())),
	}
}

// Size returns the number of cached states.
func (c *Cache) Size() int {
	return len(c.states)
}

// IsFull reports whether the cache reached its state limit.
func (c *Cache) IsFull() bool {
	return uint32(len(c.states)) >= c.maxStates
}

// Stats returns transition lookups that hit a computed entry and those that
// required determinization.
func (c *Cache) Stats() (hits, misses uint64, hitRate float64) {
	hits, misses = c.hits, c.misses
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return hits, misses, hitRate
}

// ClearCount returns how many times the cache was cleared because it was
// full.
func (c *Cache) ClearCount() int {
	return c.clearCount
}

// Clear drops every state but keeps the allocated memory.
func (c *Cache) Clear() {
	for i := range c.states {
		c.states[i] = nil
	}
	c.states = c.states[:0]
	clear(c.index)
	c.trans = c.trans[:0]
	c.start = InvalidState
	c.clearCount++
}

// state returns the cached state with the given id.
func (c *Cache) state(id StateID) *State {
	return c.states[id]
}

// lookup finds an existing state for a sorted NFA state set.
func (c *Cache) lookup(key StateKey, nfaStates []nfa.StateID) (StateID, bool) {
	for _, id := range c.index[key] {
		if sameStates(c.states[id].nfaStates, nfaStates) {
			return id, true
		}
	}
	return InvalidState, false
}

// insert adds a new state, copying nfaStates. It fails with ErrCacheFull
// when the cache is at capacity.
func (c *Cache) insert(key StateKey, nfaStates []nfa.StateID, isMatch, eoiMatch bool) (StateID, error) {
	if c.IsFull() {
		return InvalidState, ErrCacheFull
	}
	id := StateID(len(c.states))
	c.states = append(c.states, &State{
		id:        id,
		isMatch:   isMatch,
		eoiMatch:  eoiMatch,
		nfaStates: append([]nfa.StateID(nil), nfaStates...),
	})
	c.index[key] = append(c.index[key], id)
	for i := 0; i < c.stride; i++ {
		c.trans = append(c.trans, InvalidState)
	}
	return id, nil
}
