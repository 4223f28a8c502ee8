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

import "github.com/poiesic/recall/core"

// Scorer produces relevance scores for (query, statement) pairs.
// Implementations must be thread-safe for concurrent use.
type Scorer interface {
	// Score returns a finite, non-negative relevance score for the
	// statement given the query. Malformed input yields 0.0, never an
	// error or panic.
	Score(query string, statement core.Statement) float64

	// Prepare builds corpus statistics. At most one call per instance has
	// effect; later calls are no-ops. Callers treat a failure as non-fatal
	// and proceed with unweighted scoring.
	Prepare(corpus []core.Statement) error

	// Tokens returns the statement's cached token array for fast external
	// gating, or ok=false when no tokens can be supplied. Callers must not
	// mutate the returned slice.
	Tokens(statement core.Statement) ([]string, bool)
}
