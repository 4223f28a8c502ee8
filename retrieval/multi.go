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
	"strings"

	"github.com/poiesic/recall/core"
)

// normalized text keys are truncated to this many runes
const mergeKeyMaxLen = 160

// Retriever is the minimal single-query retrieval capability.
type Retriever interface {
	// Retrieve returns up to k statements relevant to the query,
	// deterministic for fixed inputs and corpus state.
	Retrieve(query string, k int, seed int64) []core.Statement
}

// BatchRetriever is an optional capability: implementations that can answer
// multiple queries natively (for example with one index pass) may provide it
// to override the default per-query merge in RetrieveMulti. External
// behavior must match the default when the same inputs are given.
type BatchRetriever interface {
	RetrieveBatch(queries []string, k int, seed int64) []core.Statement
}

// RetrieveMulti answers multiple queries with a single merged result of up
// to k statements, layered over single-query retrieval.
//
// Blank queries are skipped and do not consume a sub-seed position. Each
// remaining query is asked for ceil(k/n) results (minimum 1) under a
// distinct derived sub-seed, in query order. Results merge first-occurrence
// wins, keyed by statement id when present and by normalized text
// otherwise, stopping as soon as k statements are collected.
func RetrieveMulti(r Retriever, queries []string, k int, seed int64) []core.Statement {
	if r == nil || k <= 0 {
		return nil
	}
	if batch, ok := r.(BatchRetriever); ok {
		return batch.RetrieveBatch(queries, k, seed)
	}

	active := make([]string, 0, len(queries))
	for _, query := range queries {
		if strings.TrimSpace(query) != "" {
			active = append(active, query)
		}
	}
	if len(active) == 0 {
		return nil
	}

	perQuery := (k + len(active) - 1) / len(active)
	if perQuery < 1 {
		perQuery = 1
	}

	merged := make([]core.Statement, 0, k)
	seen := make(map[string]bool, k)
	for i, query := range active {
		if len(merged) >= k {
			break
		}
		for _, statement := range r.Retrieve(query, perQuery, subSeed(seed, i)) {
			if len(merged) >= k {
				break
			}
			key := mergeKey(statement)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, statement)
		}
	}
	return merged
}

// mergeKey returns the duplicate-detection key for merged results: the id
// when present, otherwise the normalized text.
func mergeKey(statement core.Statement) string {
	if statement.Id != "" {
		return statement.Id
	}
	return normalizeTextKey(statement.Text)
}

// normalizeTextKey trims, lowercases, collapses internal whitespace and
// truncates to mergeKeyMaxLen runes.
func normalizeTextKey(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	runes := []rune(normalized)
	if len(runes) > mergeKeyMaxLen {
		normalized = string(runes[:mergeKeyMaxLen])
	}
	return normalized
}
