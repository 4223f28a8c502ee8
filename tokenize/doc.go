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


// Package tokenize provides Unicode-aware lexical tokenization for the
// retrieval engine.
//
// The Tokenizer type converts free text into an ordered sequence of
// normalized tokens in a single left-to-right scan:
//   - URLs, email addresses, hashtags and mentions are consumed as single
//     atomic tokens
//   - runs of letters and digits form token bodies, with inner connector
//     characters (as in "node.js", "it's", "snake_case") kept when both
//     neighbors are alphanumeric
//   - candidates pass length clamping and a quality gate before emission
//
// Tokenization is pure and deterministic: the same input and configuration
// always yield the same sequence, and malformed input never fails.
package tokenize
