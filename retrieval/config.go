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

// Config holds the exploration configuration for the retrieval pipeline.
type Config struct {
	// Iterations is the number of score/refine rounds. Minimum 1.
	Iterations int

	// GateMinTokenLen is the minimum token length used when tokenizing the
	// iteration query for candidate gating.
	GateMinTokenLen int

	// MaxCandidatesPerIter caps how many statements are scored per
	// iteration. The cap is evaluated in snapshot order, not score order,
	// so statements late in the snapshot can be skipped even when they
	// would score highly. Zero or negative disables the cap.
	MaxCandidatesPerIter int

	// MinScore discards candidates scoring below this threshold, both per
	// iteration and in the final ranking.
	MinScore float64

	// RefineTerms is how many top weighted terms from the band are appended
	// to the refined query.
	RefineTerms int

	// IterationDecay multiplies the iteration weight after each round.
	// Must be in (0, 1].
	IterationDecay float64

	// QualityFloor, when positive, halves the requested k whenever the
	// confidence estimate falls below it.
	QualityFloor float64
}

// DefaultConfig returns the exploration configuration used when none is
// provided.
func DefaultConfig() Config {
	return Config{
		Iterations:           2,
		GateMinTokenLen:      2,
		MaxCandidatesPerIter: 512,
		MinScore:             0.05,
		RefineTerms:          6,
		IterationDecay:       0.8,
		QualityFloor:         0,
	}
}

// Normalize clamps invalid values to safe defaults.
func (c Config) Normalize() Config {
	if c.Iterations < 1 {
		c.Iterations = 1
	}
	if c.GateMinTokenLen < 1 {
		c.GateMinTokenLen = 1
	}
	if c.MaxCandidatesPerIter < 0 {
		c.MaxCandidatesPerIter = 0
	}
	if c.MinScore < 0 {
		c.MinScore = 0
	}
	if c.RefineTerms < 0 {
		c.RefineTerms = 0
	}
	if c.IterationDecay <= 0 || c.IterationDecay > 1 {
		c.IterationDecay = 1
	}
	if c.QualityFloor < 0 {
		c.QualityFloor = 0
	}
	return c
}
