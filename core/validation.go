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
	"fmt"
	"strings"
	"time"
)

// ValidateStatement validates a Statement according to domain rules.
//
// Validation rules:
//   - Text must not be blank
//
// NOT validated:
//   - Id (empty is valid; identity falls back to trimmed text)
//   - Weight (non-finite and negative weights are normalized by scorers)
func ValidateStatement(statement *Statement) error {
	if statement == nil {
		return fmt.Errorf("%w: statement is nil", ErrInvalidStatement)
	}

	if strings.TrimSpace(statement.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidStatement, ErrEmptyText)
	}

	return nil
}

// ValidateEvent validates an Event according to domain rules.
//
// Validation rules:
//   - Kind must be a known EventKind
//   - Text must not be blank
//   - At must not be in the future
func ValidateEvent(event *Event) error {
	if event == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidEvent)
	}

	if err := ValidateEventKind(event.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	if strings.TrimSpace(event.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrEmptyText)
	}

	if !IsValidTimestamp(event.At) {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateEventKind validates that an EventKind has a valid value.
func ValidateEventKind(kind EventKind) error {
	switch kind {
	case EventUserTurn, EventAssistantTurn, EventLearnedUpsert:
		return nil
	}
	return fmt.Errorf("%w: value %d", ErrInvalidEventKind, kind)
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
