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


package scoring

import (
	"log/slog"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/tokenize"
)

// Tokens shorter than this do not count toward document frequency.
const minStatTokenLen = 3

// IDFScorer scores statements by IDF-weighted cosine-like token overlap.
//
// Statistics are frozen after the first successful Prepare; before that (or
// after a failed Prepare) every token carries the default weight 1.0, so the
// scorer degrades to plain normalized overlap. The per-statement token cache
// grows monotonically and is safe for concurrent population.
type IDFScorer struct {
	tokenizer *tokenize.Tokenizer
	logger    *slog.Logger

	prepareOnce sync.Once
	prepared    atomic.Bool
	idf         map[string]float64

	tokenCache sync.Map // statement key -> []string
}

var _ Scorer = (*IDFScorer)(nil)

// IDFOption configures an IDFScorer.
type IDFOption func(*IDFScorer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) IDFOption {
	return func(s *IDFScorer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithTokenizer sets the tokenizer used for queries and statements.
func WithTokenizer(tokenizer *tokenize.Tokenizer) IDFOption {
	return func(s *IDFScorer) error {
		if tokenizer == nil {
			return ErrTokenizerRequired
		}
		s.tokenizer = tokenizer
		return nil
	}
}

// NewIDFScorer creates an IDF scorer with a default tokenizer.
func NewIDFScorer(opts ...IDFOption) (*IDFScorer, error) {
	tokenizer, err := tokenize.New()
	if err != nil {
		return nil, err
	}

	s := &IDFScorer{
		tokenizer: tokenizer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Prepare tokenizes every non-empty statement, caches the token arrays and
// computes inverse-document-frequency weights. Only the first call has
// effect; concurrent callers observe either "not prepared" or "fully
// prepared", never a partial state.
func (s *IDFScorer) Prepare(corpus []core.Statement) error {
	s.prepareOnce.Do(func() {
		df := make(map[string]int)
		docs := 0

		for _, statement := range corpus {
			if strings.TrimSpace(statement.Text) == "" {
				continue
			}
			docs++

			tokens := s.statementTokens(statement)
			seen := make(map[string]bool, len(tokens))
			for _, tok := range tokens {
				if utf8.RuneCountInString(tok) < minStatTokenLen {
					continue
				}
				if seen[tok] {
					continue
				}
				seen[tok] = true
				df[tok]++
			}
		}

		idf := make(map[string]float64, len(df))
		for tok, freq := range df {
			idf[tok] = math.Log(float64(docs+1)/float64(freq+1)) + 1
		}

		s.idf = idf
		s.prepared.Store(true)
		s.logger.Debug("corpus statistics prepared", "documents", docs, "vocabulary", len(idf))
	})
	return nil
}

// Tokens returns the statement's cached token array for external gating.
func (s *IDFScorer) Tokens(statement core.Statement) ([]string, bool) {
	if strings.TrimSpace(statement.Text) == "" {
		return nil, false
	}
	return s.statementTokens(statement), true
}

// Score returns the IDF-weighted cosine-like overlap between query and
// statement, multiplied by the statement's normalized weight.
func (s *IDFScorer) Score(query string, statement core.Statement) float64 {
	queryTokens := s.tokenizer.Tokenize(query)
	if len(queryTokens) == 0 {
		return 0.0
	}

	statementTokens, ok := s.Tokens(statement)
	if !ok || len(statementTokens) == 0 {
		return 0.0
	}

	qw := s.weightSums(queryTokens)
	dw := s.weightSums(statementTokens)

	var dot float64
	for tok, w := range qw {
		if dwTok, shared := dw[tok]; shared {
			dot += w * dwTok
		}
	}
	if dot <= 0 {
		return 0.0
	}

	qNorm := vectorNorm(qw)
	dNorm := vectorNorm(dw)
	if qNorm == 0 || dNorm == 0 {
		return 0.0
	}

	score := dot / (qNorm * dNorm) * statement.NormalizedWeight()
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0.0
	}
	return score
}

// statementTokens returns the statement's tokens, populating the append-only
// cache on first access. Entries are never invalidated.
func (s *IDFScorer) statementTokens(statement core.Statement) []string {
	key := statement.Key()
	if cached, ok := s.tokenCache.Load(key); ok {
		return cached.([]string)
	}

	tokens := s.tokenizer.Tokenize(statement.Text)
	actual, _ := s.tokenCache.LoadOrStore(key, tokens)
	return actual.([]string)
}

// weightSums accumulates per-token IDF weight sums. Tokens absent from the
// corpus statistics default to weight 1.0.
func (s *IDFScorer) weightSums(tokens []string) map[string]float64 {
	sums := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		sums[tok] += s.tokenWeight(tok)
	}
	return sums
}

func (s *IDFScorer) tokenWeight(tok string) float64 {
	if !s.prepared.Load() {
		return 1.0
	}
	if w, ok := s.idf[tok]; ok {
		return w
	}
	return 1.0
}

func vectorNorm(weights map[string]float64) float64 {
	var sum float64
	for _, w := range weights {
		sum += w * w
	}
	return math.Sqrt(sum)
}
