package scoring

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/poiesic/recall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCorpus() []core.Statement {
	return []core.Statement{
		{Id: "a", Text: "rust ownership model prevents data races", Weight: 1.0},
		{Id: "b", Text: "garbage collection simplifies memory management", Weight: 1.0},
		{Id: "c", Text: "ownership and borrowing in rust", Weight: 1.0},
	}
}

func TestNewIDFScorer(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		scorer, err := NewIDFScorer()
		require.NoError(t, err)
		assert.NotNil(t, scorer)
	})

	t.Run("nil tokenizer rejected", func(t *testing.T) {
		_, err := NewIDFScorer(WithTokenizer(nil))
		assert.Equal(t, ErrTokenizerRequired, err)
	})
}

func TestIDFScorer_Score(t *testing.T) {
	scorer, err := NewIDFScorer()
	require.NoError(t, err)
	require.NoError(t, scorer.Prepare(testCorpus()))

	t.Run("overlapping statement scores positive", func(t *testing.T) {
		score := scorer.Score("rust ownership", testCorpus()[0])
		assert.Greater(t, score, 0.0)
	})

	t.Run("disjoint statement scores zero", func(t *testing.T) {
		score := scorer.Score("rust ownership", testCorpus()[1])
		assert.Equal(t, 0.0, score)
	})

	t.Run("identical text scores near one", func(t *testing.T) {
		score := scorer.Score(testCorpus()[0].Text, testCorpus()[0])
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("zero weight forces zero score", func(t *testing.T) {
		st := core.Statement{Id: "z", Text: "rust ownership model prevents data races", Weight: 0}
		assert.Equal(t, 0.0, scorer.Score("rust ownership", st))
	})

	t.Run("negative weight treated as zero", func(t *testing.T) {
		st := core.Statement{Id: "n", Text: "rust ownership", Weight: -3}
		assert.Equal(t, 0.0, scorer.Score("rust ownership", st))
	})

	t.Run("non-finite weight treated as one", func(t *testing.T) {
		st := core.Statement{Id: "i", Text: "rust ownership", Weight: math.NaN()}
		assert.Greater(t, scorer.Score("rust ownership", st), 0.0)
	})

	t.Run("blank query scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.Score("   ", testCorpus()[0]))
	})

	t.Run("blank statement scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.Score("rust", core.Statement{Id: "e", Text: "  "}))
	})

	t.Run("score is always finite and non-negative", func(t *testing.T) {
		queries := []string{"", "rust", "!!!", "ownership model", "完全に異なる"}
		for _, q := range queries {
			for _, st := range testCorpus() {
				score := scorer.Score(q, st)
				assert.False(t, math.IsNaN(score), "query %q", q)
				assert.False(t, math.IsInf(score, 0), "query %q", q)
				assert.GreaterOrEqual(t, score, 0.0, "query %q", q)
			}
		}
	})
}

func TestIDFScorer_UnpreparedFallback(t *testing.T) {
	scorer, err := NewIDFScorer()
	require.NoError(t, err)

	// Without Prepare, every token carries weight 1.0 and scoring still works.
	score := scorer.Score("rust ownership", testCorpus()[0])
	assert.Greater(t, score, 0.0)
}

func TestIDFScorer_PrepareIdempotent(t *testing.T) {
	first, err := NewIDFScorer()
	require.NoError(t, err)
	require.NoError(t, first.Prepare(testCorpus()))

	query := "rust ownership"
	want := first.Score(query, testCorpus()[0])

	// A second Prepare with a different corpus must not change statistics.
	other := []core.Statement{{Id: "x", Text: "completely unrelated corpus"}}
	require.NoError(t, first.Prepare(other))
	assert.Equal(t, want, first.Score(query, testCorpus()[0]))
}

func TestIDFScorer_ConcurrentPrepare(t *testing.T) {
	scorer, err := NewIDFScorer()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = scorer.Prepare(testCorpus())
		}()
	}
	wg.Wait()

	assert.Greater(t, scorer.Score("rust ownership", testCorpus()[0]), 0.0)
}

func TestIDFScorer_Tokens(t *testing.T) {
	scorer, err := NewIDFScorer()
	require.NoError(t, err)

	t.Run("non-blank statement yields tokens", func(t *testing.T) {
		tokens, ok := scorer.Tokens(testCorpus()[0])
		require.True(t, ok)
		assert.Contains(t, tokens, "rust")
		assert.Contains(t, tokens, "ownership")
	})

	t.Run("blank statement yields none", func(t *testing.T) {
		_, ok := scorer.Tokens(core.Statement{Id: "blank", Text: "   "})
		assert.False(t, ok)
	})

	t.Run("token cache is stable across calls", func(t *testing.T) {
		a, _ := scorer.Tokens(testCorpus()[0])
		b, _ := scorer.Tokens(testCorpus()[0])
		assert.Equal(t, a, b)
	})
}

func TestIDFScorer_RareTokensWeighMore(t *testing.T) {
	// "shared" appears in every document, "unique" in one: a query hitting
	// the rare token must outrank a query hitting the common one on the same
	// statement.
	corpus := make([]core.Statement, 0, 8)
	for i := 0; i < 7; i++ {
		corpus = append(corpus, core.Statement{
			Id:   fmt.Sprintf("common-%d", i),
			Text: fmt.Sprintf("shared filler phrase number %d", i),
		})
	}
	target := core.Statement{Id: "target", Text: "shared unique marker"}
	corpus = append(corpus, target)

	scorer, err := NewIDFScorer()
	require.NoError(t, err)
	require.NoError(t, scorer.Prepare(corpus))

	rare := scorer.Score("unique", target)
	common := scorer.Score("shared", target)
	assert.Greater(t, rare, common)
}
