package storage

import (
	"context"

	"github.com/poiesic/recall/core"
)

// StatementRepository provides persistence for knowledge statements.
// Implementations must be thread-safe and support concurrent access.
type StatementRepository interface {
	// Upsert inserts or replaces statements keyed by their Key().
	// Statements with an empty key are rejected with ErrEmptyKey.
	Upsert(ctx context.Context, statements ...core.Statement) error

	// Delete removes statements by their keys.
	// Returns ErrNotFound if any statement doesn't exist.
	Delete(ctx context.Context, keys ...string) error

	// Get retrieves a single statement by its key.
	// Returns ErrNotFound if the statement doesn't exist.
	Get(ctx context.Context, key string) (core.Statement, error)

	// SnapshotSorted returns all stored statements in a stable deterministic
	// order (ascending by key). The returned slice is a copy the caller may
	// hold without further synchronization. Served from memory.
	SnapshotSorted() []core.Statement

	// Len returns the number of stored statements.
	Len() int

	// Close closes the repository and releases resources.
	Close() error
}

// EventLog provides an append-only record of conversation turns and learned
// knowledge-base upserts. Implementations must be thread-safe.
type EventLog interface {
	// Append persists events in order, assigning each a unique monotonically
	// increasing sequence number and a timestamp when unset.
	// Returns the events with Seq and At populated.
	Append(ctx context.Context, events ...core.Event) ([]core.Event, error)

	// Replay invokes fn for every logged event in sequence order.
	// Iteration stops at the first error from fn, which is returned.
	Replay(ctx context.Context, fn func(core.Event) error) error

	// Close closes the log and releases resources.
	Close() error
}
