package retrieval

import (
	"fmt"
	"testing"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cachedStatements(id string) []core.Statement {
	return []core.Statement{{Id: id, Text: "statement " + id, Weight: 1.0}}
}

func TestResultCache_LRUEviction(t *testing.T) {
	cache := newResultCache(2)

	cache.put(1, cachedStatements("one"))
	cache.put(2, cachedStatements("two"))
	cache.put(3, cachedStatements("three")) // evicts fingerprint 1

	_, ok := cache.get(1)
	assert.False(t, ok)
	_, ok = cache.get(2)
	assert.True(t, ok)
	_, ok = cache.get(3)
	assert.True(t, ok)
	assert.Equal(t, 2, cache.len())
}

func TestResultCache_GetPromotesRecency(t *testing.T) {
	cache := newResultCache(2)

	cache.put(1, cachedStatements("one"))
	cache.put(2, cachedStatements("two"))

	// Touch 1 so 2 becomes the eviction victim.
	_, ok := cache.get(1)
	require.True(t, ok)

	cache.put(3, cachedStatements("three"))

	_, ok = cache.get(1)
	assert.True(t, ok)
	_, ok = cache.get(2)
	assert.False(t, ok)
}

func TestResultCache_UpdateExistingEntry(t *testing.T) {
	cache := newResultCache(2)

	cache.put(1, cachedStatements("old"))
	cache.put(1, cachedStatements("new"))

	got, ok := cache.get(1)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Id)
	assert.Equal(t, 1, cache.len())
}

func TestResultCache_ZeroCapacityDisablesCaching(t *testing.T) {
	cache := newResultCache(0)

	cache.put(1, cachedStatements("one"))
	_, ok := cache.get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.len())
}

func TestResultCache_ReturnsCopies(t *testing.T) {
	cache := newResultCache(4)
	cache.put(1, cachedStatements("one"))

	got, ok := cache.get(1)
	require.True(t, ok)
	got[0].Id = "mutated"

	again, ok := cache.get(1)
	require.True(t, ok)
	assert.Equal(t, "one", again[0].Id)
}

func TestEngineCaching(t *testing.T) {
	newCountingEngine := func(t *testing.T, capacity int) (*Engine, *staticKB) {
		t.Helper()
		kb := &staticKB{statements: rustCorpus()}
		scorer, err := scoring.NewIDFScorer()
		require.NoError(t, err)
		engine, err := NewEngine(kb, scorer, WithCacheCapacity(capacity))
		require.NoError(t, err)
		return engine, kb
	}

	t.Run("repeated query is served from cache", func(t *testing.T) {
		engine, kb := newCountingEngine(t, 8)
		engine.Retrieve("rust ownership", 2, 1)
		engine.Retrieve("rust ownership", 2, 1)
		assert.Equal(t, 1, kb.snapshots)
	})

	t.Run("distinct seeds miss independently", func(t *testing.T) {
		engine, kb := newCountingEngine(t, 8)
		engine.Retrieve("rust ownership", 2, 1)
		engine.Retrieve("rust ownership", 2, 2)
		assert.Equal(t, 2, kb.snapshots)
	})

	t.Run("eviction forces recomputation, not a stale hit", func(t *testing.T) {
		engine, kb := newCountingEngine(t, 1)
		for i, query := range []string{"rust ownership", "memory management", "rust ownership"} {
			engine.Retrieve(query, 2, 1)
			require.Equal(t, i+1, kb.snapshots)
		}
	})

	t.Run("capacity zero disables caching", func(t *testing.T) {
		engine, kb := newCountingEngine(t, 0)
		engine.Retrieve("rust ownership", 2, 1)
		engine.Retrieve("rust ownership", 2, 1)
		assert.Equal(t, 2, kb.snapshots)
	})

	t.Run("capacity bounds entry count", func(t *testing.T) {
		engine, _ := newCountingEngine(t, 3)
		for i := 0; i < 10; i++ {
			engine.Retrieve(fmt.Sprintf("query %d", i), 2, 1)
		}
		assert.Equal(t, 3, engine.cache.len())
	})
}
