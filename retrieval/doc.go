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


// Package retrieval implements the deterministic knowledge-retrieval and
// ranking pipeline.
//
// The Engine type orchestrates a multi-iteration score-and-refine loop over
// a deduplicated knowledge-base snapshot:
//   - a cheap lexical gate bounds scoring cost on large corpora
//   - scores are aggregated across iterations with a decaying weight
//   - each iteration's top band refines the next iteration's query
//   - a confidence estimate can shrink the requested result count
//   - the final selection is delegated to a pluggable exploration Strategy
//
// Results are fully deterministic for a fixed corpus snapshot, query, k and
// seed, and recent selections are served from a bounded LRU cache keyed by a
// (seed, query) fingerprint. Multi-query retrieval is layered over the
// single-query Retriever capability by RetrieveMulti.
package retrieval
