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


// Package gen provides abstractions for the answer-generation backend.
//
// Retrieval produces ranked statements; a Generator turns a query plus those
// statements into a natural-language answer. The package follows the
// dependency inversion principle so retrieval and assembly logic never
// couple to a concrete LLM client.
//
// # Implementation Packages
//
//   - gen/openai: production implementation using OpenAI-compatible chat APIs
//   - gen/mock: test doubles for unit testing without external services
//
// Public constructors (openai.NewGenerator) return the Generator INTERFACE
// to enforce abstraction. Test utility constructors (mock.NewGenerator)
// return CONCRETE types to enable assertions and behavior injection.
package gen
