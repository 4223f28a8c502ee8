package retrieval

import (
	"fmt"
	"testing"

	"github.com/poiesic/recall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedFixture(n int) []core.Scored[core.Statement] {
	ranked := make([]core.Scored[core.Statement], 0, n)
	for i := 0; i < n; i++ {
		ranked = append(ranked, core.Scored[core.Statement]{
			Item:  core.Statement{Id: fmt.Sprintf("s%d", i), Text: fmt.Sprintf("statement %d", i)},
			Score: float64(n - i),
		})
	}
	return ranked
}

func TestGreedyStrategy(t *testing.T) {
	strategy := GreedyStrategy{}
	cfg := DefaultConfig()

	t.Run("selects top k in order", func(t *testing.T) {
		out := strategy.Select(rankedFixture(5), 3, cfg, 1)
		assert.Equal(t, []string{"s0", "s1", "s2"}, statementIds(out))
	})

	t.Run("k larger than candidates", func(t *testing.T) {
		out := strategy.Select(rankedFixture(2), 10, cfg, 1)
		assert.Len(t, out, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, strategy.Select(nil, 3, cfg, 1))
	})
}

func TestEpsilonGreedyStrategy(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("epsilon zero matches greedy", func(t *testing.T) {
		eps := EpsilonGreedyStrategy{Epsilon: 0}
		greedy := GreedyStrategy{}
		assert.Equal(t,
			greedy.Select(rankedFixture(6), 4, cfg, 7),
			eps.Select(rankedFixture(6), 4, cfg, 7),
		)
	})

	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		eps := EpsilonGreedyStrategy{Epsilon: 0.5}
		a := eps.Select(rankedFixture(10), 5, cfg, 42)
		b := eps.Select(rankedFixture(10), 5, cfg, 42)
		assert.Equal(t, a, b)
	})

	t.Run("selections are unique", func(t *testing.T) {
		eps := EpsilonGreedyStrategy{Epsilon: 1.0}
		out := eps.Select(rankedFixture(10), 10, cfg, 3)
		require.Len(t, out, 10)
		seen := make(map[string]bool)
		for _, statement := range out {
			assert.False(t, seen[statement.Id])
			seen[statement.Id] = true
		}
	})
}
