package badger

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

func TestStatementBasics(t *testing.T) {
	statements, events, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { events.Close(); statements.Close(); backend.Close() }()

	ctx := context.Background()

	// Test upserting a statement
	statement := core.Statement{Id: "paris", Text: "the capital of France is Paris", Weight: 1.0}
	if err := statements.Upsert(ctx, statement); err != nil {
		t.Fatalf("Failed to upsert statement: %v", err)
	}

	// Test retrieving the statement
	got, err := statements.Get(ctx, "paris")
	if err != nil {
		t.Fatalf("Failed to get statement: %v", err)
	}
	if got.Text != statement.Text {
		t.Fatalf("Expected '%s', got '%s'", statement.Text, got.Text)
	}

	// Upsert with the same key replaces
	statement.Weight = 0.5
	if err := statements.Upsert(ctx, statement); err != nil {
		t.Fatalf("Failed to re-upsert statement: %v", err)
	}
	got, err = statements.Get(ctx, "paris")
	if err != nil {
		t.Fatalf("Failed to get statement: %v", err)
	}
	if got.Weight != 0.5 {
		t.Fatalf("Expected weight 0.5, got %f", got.Weight)
	}
	if statements.Len() != 1 {
		t.Fatalf("Expected 1 statement, got %d", statements.Len())
	}
}

func TestStatementEmptyKeyRejected(t *testing.T) {
	statements, events, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { events.Close(); statements.Close(); backend.Close() }()

	err = statements.Upsert(context.Background(), core.Statement{Id: "", Text: "   "})
	if !errors.Is(err, storage.ErrEmptyKey) {
		t.Fatalf("Expected ErrEmptyKey, got %v", err)
	}
}

func TestStatementDelete(t *testing.T) {
	statements, events, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { events.Close(); statements.Close(); backend.Close() }()

	ctx := context.Background()

	if err := statements.Upsert(ctx, core.Statement{Id: "a", Text: "alpha"}); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}
	if err := statements.Delete(ctx, "a"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if _, err := statements.Get(ctx, "a"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	// Deleting a missing key fails
	if err := statements.Delete(ctx, "a"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotSortedOrder(t *testing.T) {
	statements, events, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { events.Close(); statements.Close(); backend.Close() }()

	ctx := context.Background()

	err = statements.Upsert(ctx,
		core.Statement{Id: "c", Text: "third"},
		core.Statement{Id: "a", Text: "first"},
		core.Statement{Id: "", Text: "b-text keys sort with ids"},
	)
	if err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	snapshot := statements.SnapshotSorted()
	if len(snapshot) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(snapshot))
	}
	for i := 1; i < len(snapshot); i++ {
		if snapshot[i-1].Key() > snapshot[i].Key() {
			t.Fatalf("Snapshot out of order at %d: %q > %q", i, snapshot[i-1].Key(), snapshot[i].Key())
		}
	}

	// Mutating the snapshot must not affect the repository
	snapshot[0].Text = "mutated"
	again := statements.SnapshotSorted()
	if again[0].Text == "mutated" {
		t.Fatal("Snapshot is not a copy")
	}
}

func TestStatementPersistenceAcrossReopen(t *testing.T) {
	dir, err := os.MkdirTemp("", "recall-badger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	ctx := context.Background()

	backend, err := OpenBackend(dir, false)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	statements, err := NewStatementRepository(backend)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	err = statements.Upsert(ctx,
		core.Statement{Id: "a", Text: "alpha", Weight: 1.0},
		core.Statement{Id: "b", Text: "beta", Weight: 0.5},
	)
	if err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}
	statements.Close()
	if err := backend.Close(); err != nil {
		t.Fatalf("Failed to close backend: %v", err)
	}

	// Reopen: the sorted snapshot must be rebuilt from disk
	backend, err = OpenBackend(dir, false)
	if err != nil {
		t.Fatalf("Failed to reopen backend: %v", err)
	}
	defer backend.Close()
	statements, err = NewStatementRepository(backend)
	if err != nil {
		t.Fatalf("Failed to recreate repository: %v", err)
	}
	defer statements.Close()

	snapshot := statements.SnapshotSorted()
	if len(snapshot) != 2 {
		t.Fatalf("Expected 2 statements after reopen, got %d", len(snapshot))
	}
	if snapshot[0].Id != "a" || snapshot[1].Id != "b" {
		t.Fatalf("Unexpected snapshot after reopen: %+v", snapshot)
	}
	if snapshot[1].Weight != 0.5 {
		t.Fatalf("Expected weight 0.5, got %f", snapshot[1].Weight)
	}
}
