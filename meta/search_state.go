package meta

import (
	"sync"

	"github.com/coregx/linre/dfa/lazy"
	"github.com/coregx/linre/nfa"
)

// SearchState holds per-search mutable state for thread-safe concurrent searches.
// It is obtained from a sync.Pool so the same compiled Engine can be used
// from multiple goroutines.
//
// Usage pattern:
//
//	state := engine.getSearchState()
//	defer engine.putSearchState(state)
//	// use state for search operations
//
// Thread safety: Each goroutine must use its own SearchState instance.
// The SearchState itself is NOT thread-safe - it must not be shared between goroutines.
type SearchState struct {
	// pikevm holds the PikeVM thread lists and closure stack.
	pikevm *nfa.PikeVMState

	// dfaCache holds the lazily built DFA states. It survives being
	// returned to the pool, so later searches start warm.
	dfaCache *lazy.Cache
}

// newSearchState creates a new SearchState sized for e.
func newSearchState(e *Engine) *SearchState {
	state := &SearchState{
		pikevm: nfa.NewPikeVMState(),
	}
	e.pikevm.InitState(state.pikevm)
	if e.dfa != nil {
		state.dfaCache = e.dfa.NewCache()
	}
	return state
}

// searchStatePool manages a pool of SearchState instances for thread-safe reuse.
// This follows the stdlib regexp pattern of using sync.Pool for concurrent safety.
type searchStatePool struct {
	pool sync.Pool
}

// newSearchStatePool creates a pool whose states fit e.
func newSearchStatePool(e *Engine) *searchStatePool {
	p := &searchStatePool{}
	p.pool = sync.Pool{
		New: func() any {
			return newSearchState(e)
		},
	}
	return p
}

// get retrieves a SearchState from the pool, creating one if necessary.
func (p *searchStatePool) get() *SearchState {
	return p.pool.Get().(*SearchState)
}

// put returns a SearchState to the pool for reuse.
func (p *searchStatePool) put(state *SearchState) {
	if state == nil {
		return
	}
	p.pool.Put(state)
}

func (e *Engine) getSearchState() *SearchState {
	return e.pool.get()
}

func (e *Engine) putSearchState(state *SearchState) {
	e.pool.put(state)
}
