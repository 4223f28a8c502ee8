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
	"math/rand"

	"github.com/poiesic/recall/core"
)

// Strategy converts a fully ranked candidate list into a final top-k
// selection. It is the sole owner of any explore/exploit trade-off and must
// be a deterministic function of its inputs.
type Strategy interface {
	Select(ranked []core.Scored[core.Statement], k int, cfg Config, seed int64) []core.Statement
}

// GreedyStrategy selects the top-k ranked candidates in order.
// This is the default strategy.
type GreedyStrategy struct{}

var _ Strategy = GreedyStrategy{}

// Select returns the first k candidates.
func (GreedyStrategy) Select(ranked []core.Scored[core.Statement], k int, _ Config, _ int64) []core.Statement {
	if k > len(ranked) {
		k = len(ranked)
	}
	if k <= 0 {
		return nil
	}
	out := make([]core.Statement, 0, k)
	for _, candidate := range ranked[:k] {
		out = append(out, candidate.Item)
	}
	return out
}

// EpsilonGreedyStrategy mostly exploits the ranking but, with probability
// Epsilon per slot, explores a uniformly chosen candidate from the remaining
// tail. Selection is deterministic for a fixed seed.
type EpsilonGreedyStrategy struct {
	Epsilon float64
}

var _ Strategy = EpsilonGreedyStrategy{}

// Select fills k slots, exploring past the greedy choice with probability
// Epsilon.
func (s EpsilonGreedyStrategy) Select(ranked []core.Scored[core.Statement], k int, _ Config, seed int64) []core.Statement {
	if k > len(ranked) {
		k = len(ranked)
	}
	if k <= 0 {
		return nil
	}

	remaining := make([]core.Scored[core.Statement], len(ranked))
	copy(remaining, ranked)

	rng := rand.New(rand.NewSource(seed))
	out := make([]core.Statement, 0, k)
	for len(out) < k {
		idx := 0
		if s.Epsilon > 0 && len(remaining) > 1 && rng.Float64() < s.Epsilon {
			idx = 1 + rng.Intn(len(remaining)-1)
		}
		out = append(out, remaining[idx].Item)
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return out
}
