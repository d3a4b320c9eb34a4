package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/linre/meta"
	"github.com/coregx/linre/nfa"
	"github.com/coregx/linre/syntax"
)

func newTestCache(t *testing.T, config Config) (*Cache, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	config.Logger = logger
	c, err := New(config)
	require.NoError(t, err)
	return c, hook
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, Config{Policy: PolicyUnbounded}.Validate())

	err := Config{Policy: PolicyLRU, Capacity: 0}.Validate()
	require.Error(t, err)
	assert.True(t, ErrInvalidCapacity.Is(err))

	err = Config{Policy: Policy(7), Capacity: 10}.Validate()
	require.Error(t, err)
	assert.True(t, ErrUnknownPolicy.Is(err))
	assert.Contains(t, err.Error(), "Policy(7)")

	_, err = New(Config{Policy: PolicyLRU, Capacity: -1})
	assert.True(t, ErrInvalidCapacity.Is(err))
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "lru", PolicyLRU.String())
	assert.Equal(t, "unbounded", PolicyUnbounded.String())
	assert.Equal(t, "Policy(9)", Policy(9).String())
}

func TestKeyFor(t *testing.T) {
	k1, err := KeyFor("abc", meta.DefaultConfig())
	require.NoError(t, err)
	k2, err := KeyFor("abc", meta.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	folded := meta.DefaultConfig()
	folded.CaseInsensitive = true
	k3, err := KeyFor("abc", folded)
	require.NoError(t, err)
	assert.NotEqual(t, k1.ConfigHash, k3.ConfigHash)

	k4, err := KeyFor("abd", meta.DefaultConfig())
	require.NoError(t, err)
	assert.NotEqual(t, k1, k4)
}

func TestCache_GetOrCompile(t *testing.T) {
	for _, policy := range []Policy{PolicyLRU, PolicyUnbounded} {
		t.Run(policy.String(), func(t *testing.T) {
			c, hook := newTestCache(t, Config{Policy: policy, Capacity: 16})

			e1, err := c.GetOrCompile("a+b", meta.DefaultConfig())
			require.NoError(t, err)
			e2, err := c.GetOrCompile("a+b", meta.DefaultConfig())
			require.NoError(t, err)
			assert.Same(t, e1, e2)

			folded := meta.DefaultConfig()
			folded.CaseInsensitive = true
			e3, err := c.GetOrCompile("a+b", folded)
			require.NoError(t, err)
			assert.NotSame(t, e1, e3)
			assert.True(t, e3.IsMatch([]byte("AAB")))
			assert.False(t, e1.IsMatch([]byte("AAB")))

			stats := c.Stats()
			assert.Equal(t, uint64(1), stats.Hits)
			assert.Equal(t, uint64(2), stats.Misses)
			assert.Equal(t, 2, stats.Size)
			assert.InDelta(t, 1.0/3.0, stats.HitRate(), 1e-9)
			assert.Equal(t, 2, c.Len())

			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
			assert.Equal(t, "a+b", hook.LastEntry().Data["pattern"])
		})
	}
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	c, hook := newTestCache(t, DefaultConfig())

	for i := 0; i < 3; i++ {
		_, err := c.GetOrCompile("(a", meta.DefaultConfig())
		var cerr *nfa.CompileError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, syntax.ErrorMissingParen, cerr.Code())
	}
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, uint64(3), c.Stats().Misses)
	assert.Equal(t, "pattern compilation failed", hook.LastEntry().Message)

	bad := meta.DefaultConfig()
	bad.MaxDFAStates = 0
	_, err := c.GetOrCompile("a", bad)
	var cfgErr *meta.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestCache_LRUEviction(t *testing.T) {
	c, hook := newTestCache(t, Config{Policy: PolicyLRU, Capacity: 2})

	for _, p := range []string{"a", "b", "c"} {
		_, err := c.GetOrCompile(p, meta.DefaultConfig())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, uint64(1), c.Stats().Evictions)

	var evicted bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "evicted compiled pattern" {
			evicted = true
			assert.Equal(t, "a", entry.Data["pattern"])
		}
	}
	assert.True(t, evicted, "no eviction logged")

	// "a" was evicted and compiles again.
	before := c.Stats().Misses
	_, err := c.GetOrCompile("a", meta.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, before+1, c.Stats().Misses)
}

func TestCache_Purge(t *testing.T) {
	for _, policy := range []Policy{PolicyLRU, PolicyUnbounded} {
		t.Run(policy.String(), func(t *testing.T) {
			c, _ := newTestCache(t, Config{Policy: policy, Capacity: 8})
			for i := 0; i < 5; i++ {
				_, err := c.GetOrCompile(fmt.Sprintf("x%d", i), meta.DefaultConfig())
				require.NoError(t, err)
			}
			require.Equal(t, 5, c.Len())

			c.Purge()
			assert.Equal(t, 0, c.Len())
			assert.Equal(t, uint64(0), c.Stats().Evictions)
			assert.Equal(t, uint64(5), c.Stats().Misses)
		})
	}
}

// TestCache_ConcurrentSameKey checks that concurrent misses on one key all
// end up with the same stored engine.
func TestCache_ConcurrentSameKey(t *testing.T) {
	for _, policy := range []Policy{PolicyLRU, PolicyUnbounded} {
		t.Run(policy.String(), func(t *testing.T) {
			c, _ := newTestCache(t, Config{Policy: policy, Capacity: 64})

			const workers = 32
			engines := make([]*meta.Engine, workers)
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					e, err := c.GetOrCompile(`(foo|bar)\d+`, meta.DefaultConfig())
					if err == nil {
						engines[i] = e
					}
				}(i)
			}
			wg.Wait()

			for i := 1; i < workers; i++ {
				require.NotNil(t, engines[i])
				assert.Same(t, engines[0], engines[i])
			}
			assert.Equal(t, 1, c.Len())
			stats := c.Stats()
			assert.Equal(t, uint64(workers), stats.Hits+stats.Misses)
		})
	}
}
