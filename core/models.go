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


package core

import (
	"encoding/binary"
	"math"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Statement is an atomic knowledge fact: a short piece of text with an
// optional identifier and a non-negative relevance weight.
type Statement struct {
	Id     string
	Text   string
	Weight float64
}

// Key returns the identity used for deduplication and caching: the Id when
// present, otherwise the trimmed text.
func (s Statement) Key() string {
	if s.Id != "" {
		return s.Id
	}
	return strings.TrimSpace(s.Text)
}

// NormalizedWeight returns the statement weight clamped for scoring:
// non-finite weights default to 1.0, negative weights to 0.0.
func (s Statement) NormalizedWeight() float64 {
	w := s.Weight
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return 1.0
	}
	if w < 0 {
		return 0.0
	}
	return w
}

// Scored pairs an item with a relevance score. It is produced transiently by
// scoring and ranking steps and never persisted.
type Scored[T any] struct {
	Item  T
	Score float64
}

// EventKind identifies the type of an event log entry.
type EventKind int

const (
	// EventUserTurn records a message from the human user.
	EventUserTurn EventKind = iota + 1
	// EventAssistantTurn records a message from the assistant.
	EventAssistantTurn
	// EventLearnedUpsert records a statement learned into the knowledge base.
	EventLearnedUpsert
)

// Event is one entry in the append-only event log: a conversation turn or a
// learned knowledge-base upsert.
type Event struct {
	Seq         uint64
	Kind        EventKind
	Text        string
	StatementId string
	Weight      float64
	At          time.Time
}
