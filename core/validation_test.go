package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateStatement(t *testing.T) {
	t.Run("valid statement", func(t *testing.T) {
		err := ValidateStatement(&Statement{Id: "a", Text: "ownership and borrowing", Weight: 1.0})
		assert.NoError(t, err)
	})

	t.Run("nil statement", func(t *testing.T) {
		err := ValidateStatement(nil)
		assert.ErrorIs(t, err, ErrInvalidStatement)
	})

	t.Run("blank text", func(t *testing.T) {
		err := ValidateStatement(&Statement{Text: "   "})
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("empty id is valid", func(t *testing.T) {
		err := ValidateStatement(&Statement{Text: "text without id"})
		assert.NoError(t, err)
	})
}

func TestValidateEvent(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid event", func(t *testing.T) {
		err := ValidateEvent(&Event{Kind: EventUserTurn, Text: "hello", At: now})
		assert.NoError(t, err)
	})

	t.Run("nil event", func(t *testing.T) {
		err := ValidateEvent(nil)
		assert.ErrorIs(t, err, ErrInvalidEvent)
	})

	t.Run("unknown kind", func(t *testing.T) {
		err := ValidateEvent(&Event{Kind: EventKind(99), Text: "hello", At: now})
		assert.ErrorIs(t, err, ErrInvalidEventKind)
	})

	t.Run("blank text", func(t *testing.T) {
		err := ValidateEvent(&Event{Kind: EventAssistantTurn, Text: "", At: now})
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("future timestamp", func(t *testing.T) {
		err := ValidateEvent(&Event{Kind: EventUserTurn, Text: "hello", At: now.Add(time.Hour)})
		assert.ErrorIs(t, err, ErrInvalidTimestamp)
	})
}
