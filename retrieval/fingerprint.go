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

import "github.com/poiesic/recall/core"

// golden-ratio increment used by the splitmix64 sequence
const mixIncrement = 0x9E3779B97F4A7C15

// mix64 is the splitmix64 finalizer: a cheap, well-distributed 64-bit mixing
// function.
func mix64(z uint64) uint64 {
	z ^= z >> 30
	z *= 0xBF58476D1CE4E5B9
	z ^= z >> 27
	z *= 0x94D049BB133111EB
	z ^= z >> 31
	return z
}

// queryFingerprint combines a seed and a query into a 64-bit cache key.
// Identical (seed, query) pairs always map to the same fingerprint.
func queryFingerprint(seed int64, query string) uint64 {
	h := uint64(core.IDFromContent(query))
	return mix64(uint64(seed) ^ (h * mixIncrement))
}

// subSeed derives the deterministic seed for the i-th query of a multi-query
// retrieval. Sub-seeds differ across indices for the same base seed.
func subSeed(seed int64, index int) int64 {
	return int64(mix64(uint64(seed) + uint64(index+1)*mixIncrement))
}
