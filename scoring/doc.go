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


// Package scoring provides statistical relevance scoring over a corpus of
// statements.
//
// The reference IDFScorer computes an IDF-weighted cosine-like overlap
// between a query and a statement. Corpus statistics are built once per
// scorer instance by Prepare and are immutable afterwards; repeated or
// concurrent Prepare calls have no further effect. Scoring never fails and
// never returns NaN or infinite values.
package scoring
