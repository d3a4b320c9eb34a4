// Package cache keeps compiled engines keyed by pattern and configuration,
// so repeated calls with the same pattern compile it once.
//
// Two policies are available: a bounded LRU (the default) and an unbounded
// map. Both are safe for concurrent use. Compilation happens outside any
// lock, so two goroutines missing on the same key may both compile; the
// first engine stored wins and is returned to both.
package cache

import (
	"fmt"
	"sync/atomic"

	"github.com/mitchellh/hashstructure"
	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/coregx/linre/meta"
)

// ErrInvalidCapacity is returned by New when an LRU cache is configured
// with a non-positive capacity.
var ErrInvalidCapacity = errors.NewKind("cache: invalid capacity %d")

// ErrUnknownPolicy is returned by New for a policy it does not implement.
var ErrUnknownPolicy = errors.NewKind("cache: unknown policy %s")

// Policy selects how entries are retained.
type Policy int

const (
	// PolicyLRU keeps at most Config.Capacity engines, evicting the least
	// recently used.
	PolicyLRU Policy = iota

	// PolicyUnbounded keeps every engine until Purge.
	PolicyUnbounded
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyLRU:
		return "lru"
	case PolicyUnbounded:
		return "unbounded"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Config configures a Cache.
type Config struct {
	// Policy selects the retention policy.
	// Default: PolicyLRU
	Policy Policy

	// Capacity bounds the number of engines kept by PolicyLRU.
	// Default: 1024
	Capacity int

	// Logger receives debug records for compilations and evictions.
	// Default: logrus.StandardLogger()
	Logger logrus.FieldLogger
}

// DefaultConfig returns an LRU configuration holding 1024 engines.
func DefaultConfig() Config {
	return Config{
		Policy:   PolicyLRU,
		Capacity: 1024,
	}
}

// Validate checks the policy and capacity.
func (c Config) Validate() error {
	switch c.Policy {
	case PolicyLRU:
		if c.Capacity <= 0 {
			return ErrInvalidCapacity.New(c.Capacity)
		}
	case PolicyUnbounded:
	default:
		return ErrUnknownPolicy.New(c.Policy)
	}
	return nil
}

// Key identifies a compiled engine: the exact pattern text and a hash of
// the engine configuration.
type Key struct {
	Pattern    string
	ConfigHash uint64
}

// KeyFor returns the cache key of pattern compiled with config.
func KeyFor(pattern string, config meta.Config) (Key, error) {
	h, err := hashstructure.Hash(config, nil)
	if err != nil {
		return Key{}, err
	}
	return Key{Pattern: pattern, ConfigHash: h}, nil
}

// store is a retention policy.
type store interface {
	get(k Key) (*meta.Engine, bool)
	// add stores e unless k is present, and returns the stored engine.
	add(k Key, e *meta.Engine) *meta.Engine
	len() int
	purge()
}

// Stats are cumulative cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
}

// HitRate returns Hits / (Hits + Misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache maps (pattern, config) to compiled engines.
type Cache struct {
	policy Policy
	store  store
	log    logrus.FieldLogger

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64

	// purging suppresses eviction accounting while Purge runs.
	purging atomic.Bool
}

// New creates a cache. It fails with ErrInvalidCapacity or
// ErrUnknownPolicy when config does not validate.
func New(config Config) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Cache{
		policy: config.Policy,
		log:    config.Logger,
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}

	switch config.Policy {
	case PolicyLRU:
		s, err := newLRUStore(config.Capacity, c.onEvict)
		if err != nil {
			return nil, err
		}
		c.store = s
	case PolicyUnbounded:
		c.store = &mapStore{}
	}
	return c, nil
}

// GetOrCompile returns the engine for pattern and config, compiling it on
// a miss. Compilation errors are returned and never cached.
func (c *Cache) GetOrCompile(pattern string, config meta.Config) (*meta.Engine, error) {
	key, err := KeyFor(pattern, config)
	if err != nil {
		return nil, err
	}

	if e, ok := c.store.get(key); ok {
		c.hits.Add(1)
		return e, nil
	}
	c.misses.Add(1)

	e, err := meta.CompileWithConfig(pattern, config)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"pattern": pattern,
			"error":   err,
		}).Debug("pattern compilation failed")
		return nil, err
	}

	stored := c.store.add(key, e)
	c.log.WithFields(logrus.Fields{
		"pattern":  pattern,
		"strategy": stored.Strategy().String(),
		"policy":   c.policy.String(),
	}).Debug("compiled pattern")
	return stored, nil
}

func (c *Cache) onEvict(k Key) {
	if c.purging.Load() {
		return
	}
	c.evictions.Add(1)
	c.log.WithField("pattern", k.Pattern).Debug("evicted compiled pattern")
}

// Len returns the number of cached engines.
func (c *Cache) Len() int {
	return c.store.len()
}

// Purge drops every cached engine. Counters are kept, and purged engines
// are not counted as evictions.
func (c *Cache) Purge() {
	c.purging.Store(true)
	defer c.purging.Store(false)
	c.store.purge()
	c.log.Debug("purged compiled patterns")
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.store.len(),
	}
}
