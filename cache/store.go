package cache

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/coregx/linre/meta"
)

// lruStore is PolicyLRU. golang-lru locks internally.
type lruStore struct {
	cache *lru.Cache
}

func newLRUStore(size int, onEvict func(Key)) (*lruStore, error) {
	c, err := lru.NewWithEvict(size, func(key, _ interface{}) {
		onEvict(key.(Key))
	})
	if err != nil {
		return nil, err
	}
	return &lruStore{cache: c}, nil
}

func (s *lruStore) get(k Key) (*meta.Engine, bool) {
	v, ok := s.cache.Get(k)
	if !ok {
		return nil, false
	}
	return v.(*meta.Engine), true
}

func (s *lruStore) add(k Key, e *meta.Engine) *meta.Engine {
	if present, _ := s.cache.ContainsOrAdd(k, e); present {
		// The existing entry may be evicted before we read it; e is then
		// as good an answer as any.
		if v, ok := s.cache.Get(k); ok {
			return v.(*meta.Engine)
		}
	}
	return e
}

func (s *lruStore) len() int {
	return s.cache.Len()
}

func (s *lruStore) purge() {
	s.cache.Purge()
}

// mapStore is PolicyUnbounded.
type mapStore struct {
	m sync.Map
	n atomic.Int64
}

func (s *mapStore) get(k Key) (*meta.Engine, bool) {
	v, ok := s.m.Load(k)
	if !ok {
		return nil, false
	}
	return v.(*meta.Engine), true
}

func (s *mapStore) add(k Key, e *meta.Engine) *meta.Engine {
	v, loaded := s.m.LoadOrStore(k, e)
	if !loaded {
		s.n.Add(1)
	}
	return v.(*meta.Engine)
}

func (s *mapStore) len() int {
	return int(s.n.Load())
}

func (s *mapStore) purge() {
	s.m.Range(func(k, _ any) bool {
		if _, ok := s.m.LoadAndDelete(k); ok {
			s.n.Add(-1)
		}
		return true
	})
}
