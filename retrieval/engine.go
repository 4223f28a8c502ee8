// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retrieval

import (
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/scoring"
	"github.com/poiesic/recall/tokenize"
)

const (
	// confidence is top1 over the sum of this many top scores
	confidenceTopN    = 16
	confidenceEpsilon = 1e-9

	// at most this many band members contribute terms to the refined query
	refineBandMembers = 12

	// minimum substring length for the gate's containment fallback
	gateSubstringMinLen = 3

	defaultCacheCapacity = 256
)

// KnowledgeBase supplies the corpus snapshot the engine retrieves from.
// SnapshotSorted must return a stable, deterministic ordering for the same
// underlying state: the ordering affects the per-iteration candidate cap and
// tie-breaks.
type KnowledgeBase interface {
	SnapshotSorted() []core.Statement
}

// Engine is the deterministic retrieval pipeline. A single Engine instance
// supports concurrent Retrieve calls: per-call state is local, the result
// cache is internally synchronized and scorer warmup runs at most once.
type Engine struct {
	kb        KnowledgeBase
	scorer    scoring.Scorer
	strategy  Strategy
	config    Config
	tokenizer *tokenize.Tokenizer
	cache     *resultCache
	logger    *slog.Logger

	warmupOnce sync.Once
}

var _ Retriever = (*Engine)(nil)

// EngineOption configures an Engine.
type EngineOption func(*engineOptions) error

type engineOptions struct {
	config        Config
	strategy      Strategy
	cacheCapacity int
	logger        *slog.Logger
}

// WithConfig sets the exploration configuration.
// Invalid values are clamped via Config.Normalize.
func WithConfig(cfg Config) EngineOption {
	return func(o *engineOptions) error {
		o.config = cfg.Normalize()
		return nil
	}
}

// WithStrategy sets the exploration strategy that turns the ranked candidate
// list into the final selection. Default is GreedyStrategy.
func WithStrategy(strategy Strategy) EngineOption {
	return func(o *engineOptions) error {
		if strategy == nil {
			return ErrStrategyRequired
		}
		o.strategy = strategy
		return nil
	}
}

// WithCacheCapacity bounds the result cache. A capacity of 0 disables
// caching entirely.
func WithCacheCapacity(capacity int) EngineOption {
	return func(o *engineOptions) error {
		if capacity < 0 {
			capacity = 0
		}
		o.cacheCapacity = capacity
		return nil
	}
}

// WithEngineLogger sets a custom logger.
// Default is slog.Default().
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewEngine creates a retrieval engine over the given knowledge base and
// scorer.
func NewEngine(kb KnowledgeBase, scorer scoring.Scorer, opts ...EngineOption) (*Engine, error) {
	if kb == nil {
		return nil, ErrKnowledgeBaseRequired
	}
	if scorer == nil {
		return nil, ErrScorerRequired
	}

	options := &engineOptions{
		config:        DefaultConfig(),
		strategy:      GreedyStrategy{},
		cacheCapacity: defaultCacheCapacity,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	tokenizer, err := tokenize.New(tokenize.WithMinTokenLen(options.config.GateMinTokenLen))
	if err != nil {
		return nil, err
	}

	return &Engine{
		kb:        kb,
		scorer:    scorer,
		strategy:  options.strategy,
		config:    options.config,
		tokenizer: tokenizer,
		cache:     newResultCache(options.cacheCapacity),
		logger:    options.logger,
	}, nil
}

// Retrieve returns up to k statements relevant to the query, deterministic
// for a fixed (query, k, seed, corpus snapshot, scorer statistics).
// Malformed input is normalized, never rejected: a blank query or empty
// corpus yields an empty result.
func (e *Engine) Retrieve(query string, k int, seed int64) []core.Statement {
	if k <= 0 {
		return nil
	}

	fingerprint := queryFingerprint(seed, query)
	if cached, ok := e.cache.get(fingerprint); ok {
		if len(cached) > k {
			cached = cached[:k]
		}
		return cached
	}

	deduped := dedupSnapshot(e.kb.SnapshotSorted())
	e.warmup(deduped)

	ranked := e.rank(query, k, deduped)

	confidence := confidenceOf(ranked)
	effectiveK := k
	if e.config.QualityFloor > 0 && confidence < e.config.QualityFloor {
		// low concentration: trade recall for precision
		effectiveK = k / 2
		if effectiveK < 1 {
			effectiveK = 1
		}
		e.logger.Debug("confidence below quality floor, narrowing selection",
			"confidence", confidence, "floor", e.config.QualityFloor, "k", effectiveK)
	}

	selection := e.strategy.Select(ranked, effectiveK, e.config, seed)
	e.cache.put(fingerprint, selection)
	return selection
}

// warmup prepares the scorer exactly once per engine instance. Failures are
// logged and swallowed: retrieval proceeds with whatever degraded scoring
// the scorer falls back to.
func (e *Engine) warmup(corpus []core.Statement) {
	e.warmupOnce.Do(func() {
		if err := e.scorer.Prepare(corpus); err != nil {
			e.logger.Warn("scorer warmup failed, continuing with unweighted scoring", "err", err)
		}
	})
}

// rank runs the iterative gate/score/aggregate/refine loop and returns the
// final ranked candidate list.
func (e *Engine) rank(query string, k int, snapshot []core.Statement) []core.Scored[core.Statement] {
	aggregated := make(map[string]float64)
	byKey := make(map[string]core.Statement)

	currentQuery := query
	iterationWeight := 1.0
	bandSize := 4 * k
	if bandSize < 16 {
		bandSize = 16
	}

	for iteration := 0; iteration < e.config.Iterations; iteration++ {
		queryTokens := e.tokenizer.Tokenize(currentQuery)
		tokenSet := make(map[string]bool, len(queryTokens))
		var substringTerms []string
		for _, tok := range queryTokens {
			tokenSet[tok] = true
			if utf8.RuneCountInString(tok) >= gateSubstringMinLen {
				substringTerms = append(substringTerms, tok)
			}
		}

		var iterationScored []core.Scored[core.Statement]
		scored := 0
		for _, statement := range snapshot {
			// The cap is evaluated in snapshot order, not score order:
			// high-scoring statements late in the snapshot can be skipped.
			// Intentionally preserved behavior.
			if e.config.MaxCandidatesPerIter > 0 && scored >= e.config.MaxCandidatesPerIter {
				break
			}
			if len(tokenSet) > 0 && !e.passesGate(statement, tokenSet, substringTerms) {
				continue
			}

			score := e.scorer.Score(currentQuery, statement)
			scored++
			if math.IsNaN(score) || math.IsInf(score, 0) || score < e.config.MinScore {
				continue
			}

			weighted := score * iterationWeight
			key := statement.Key()
			aggregated[key] += weighted
			byKey[key] = statement
			iterationScored = append(iterationScored, core.Scored[core.Statement]{
				Item:  statement,
				Score: weighted,
			})
		}

		if iteration+1 < e.config.Iterations {
			sortRanked(iterationScored)
			band := iterationScored
			if len(band) > bandSize {
				band = band[:bandSize]
			}
			currentQuery = e.refineQuery(query, band)
			iterationWeight *= e.config.IterationDecay
		}
	}

	ranked := make([]core.Scored[core.Statement], 0, len(aggregated))
	for key, score := range aggregated {
		if score < e.config.MinScore {
			continue
		}
		ranked = append(ranked, core.Scored[core.Statement]{Item: byKey[key], Score: score})
	}
	sortRanked(ranked)
	return ranked
}

// passesGate applies the cheap relevance gate: the scorer's cached token
// array when available, falling back to case-insensitive substring
// containment when it is not.
func (e *Engine) passesGate(statement core.Statement, tokenSet map[string]bool, substringTerms []string) bool {
	if tokens, ok := e.scorer.Tokens(statement); ok {
		for _, tok := range tokens {
			if tokenSet[tok] {
				return true
			}
		}
		return false
	}

	text := strings.ToLower(statement.Text)
	for _, term := range substringTerms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// refineQuery derives the next iteration's query from the current band:
// the original query plus a "context:" section of the top weighted terms.
// Term weight is the sum of originating-candidate scores over at most the
// first refineBandMembers band members; ties break on the earliest-seen
// term.
func (e *Engine) refineQuery(originalQuery string, band []core.Scored[core.Statement]) string {
	if e.config.RefineTerms == 0 || len(band) == 0 {
		return originalQuery
	}

	members := band
	if len(members) > refineBandMembers {
		members = members[:refineBandMembers]
	}

	termWeight := make(map[string]float64)
	termFirstSeen := make(map[string]int)
	order := 0
	for _, member := range members {
		tokens, ok := e.scorer.Tokens(member.Item)
		if !ok {
			tokens = e.tokenizer.Tokenize(member.Item.Text)
		}
		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			if seen[tok] {
				continue
			}
			seen[tok] = true
			if _, known := termFirstSeen[tok]; !known {
				termFirstSeen[tok] = order
				order++
			}
			termWeight[tok] += member.Score
		}
	}
	if len(termWeight) == 0 {
		return originalQuery
	}

	terms := make([]string, 0, len(termWeight))
	for tok := range termWeight {
		terms = append(terms, tok)
	}
	slices.SortFunc(terms, func(a, b string) int {
		if termWeight[a] != termWeight[b] {
			if termWeight[a] > termWeight[b] {
				return -1
			}
			return 1
		}
		return termFirstSeen[a] - termFirstSeen[b]
	})
	if len(terms) > e.config.RefineTerms {
		terms = terms[:e.config.RefineTerms]
	}

	return originalQuery + " context: " + strings.Join(terms, " ")
}

// dedupSnapshot drops blank entries and deduplicates by statement key,
// keeping the first occurrence in snapshot order. It is a pure prefix scan,
// never a re-sort.
func dedupSnapshot(snapshot []core.Statement) []core.Statement {
	deduped := make([]core.Statement, 0, len(snapshot))
	seen := make(map[string]bool, len(snapshot))
	for _, statement := range snapshot {
		if strings.TrimSpace(statement.Text) == "" {
			continue
		}
		key := statement.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, statement)
	}
	return deduped
}

// sortRanked orders candidates by score descending, tie-broken by id
// ascending (empty id sorts first) and finally by statement key for a total
// order.
func sortRanked(ranked []core.Scored[core.Statement]) {
	slices.SortFunc(ranked, func(a, b core.Scored[core.Statement]) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		if cmp := strings.Compare(a.Item.Id, b.Item.Id); cmp != 0 {
			return cmp
		}
		return strings.Compare(a.Item.Key(), b.Item.Key())
	})
}

// confidenceOf estimates result concentration: the top score over the sum of
// the top-N scores. It is not a probability.
func confidenceOf(ranked []core.Scored[core.Statement]) float64 {
	if len(ranked) == 0 || ranked[0].Score <= 0 {
		return 0.0
	}
	n := confidenceTopN
	if n > len(ranked) {
		n = len(ranked)
	}
	var sum float64
	for _, candidate := range ranked[:n] {
		sum += candidate.Score
	}
	return ranked[0].Score / (sum + confidenceEpsilon)
}
