package badger

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// StatementRepository implements storage.StatementRepository for BadgerDB.
//
// All statements are also held in memory so SnapshotSorted can serve the
// retrieval hot path without touching disk. The in-memory view is rebuilt
// from disk when the repository opens and kept in sync on every mutation.
type StatementRepository struct {
	backend *Backend

	mu         sync.RWMutex
	statements map[string]core.Statement
	sorted     []core.Statement
}

var _ storage.StatementRepository = (*StatementRepository)(nil)

// NewStatementRepository creates a StatementRepository over the backend,
// loading all persisted statements into memory.
func NewStatementRepository(backend *Backend) (storage.StatementRepository, error) {
	r := &StatementRepository{
		backend:    backend,
		statements: make(map[string]core.Statement),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// load scans all persisted statements into the in-memory view.
func (r *StatementRepository) load() error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(statementPrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var statement core.Statement
			err := iter.Item().Value(func(val []byte) error {
				var err error
				statement, err = storage.UnmarshalStatement(val)
				return err
			})
			if err != nil {
				return err
			}
			r.statements[statement.Key()] = statement
		}
		return nil
	}, false)
	if err != nil {
		return err
	}
	r.resort()
	return nil
}

// Close releases resources. StatementRepository has no resources of its own;
// the backend is closed separately.
func (r *StatementRepository) Close() error {
	return nil
}

// Upsert inserts or replaces statements keyed by their Key().
func (r *StatementRepository) Upsert(ctx context.Context, statements ...core.Statement) error {
	for _, statement := range statements {
		if statement.Key() == "" {
			return storage.ErrEmptyKey
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, statement := range statements {
			key := makeStatementKey(statement.Key())
			if err := tx.Set(key, storage.MarshalStatement(statement)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, statement := range statements {
		r.statements[statement.Key()] = statement
	}
	r.resort()
	return nil
}

// Delete removes statements by their keys.
func (r *StatementRepository) Delete(ctx context.Context, keys ...string) error {
	r.mu.RLock()
	for _, key := range keys {
		if _, ok := r.statements[key]; !ok {
			r.mu.RUnlock()
			return storage.ErrNotFound
		}
	}
	r.mu.RUnlock()

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := tx.Delete(makeStatementKey(key)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		delete(r.statements, key)
	}
	r.resort()
	return nil
}

// Get retrieves a single statement by its key.
func (r *StatementRepository) Get(ctx context.Context, key string) (core.Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	statement, ok := r.statements[key]
	if !ok {
		return core.Statement{}, storage.ErrNotFound
	}
	return statement, nil
}

// SnapshotSorted returns a copy of all statements ordered ascending by key.
func (r *StatementRepository) SnapshotSorted() []core.Statement {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Statement, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// Len returns the number of stored statements.
func (r *StatementRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.statements)
}

// resort rebuilds the sorted view. Callers must hold the write lock (or have
// exclusive access during load).
func (r *StatementRepository) resort() {
	sorted := make([]core.Statement, 0, len(r.statements))
	for _, statement := range r.statements {
		sorted = append(sorted, statement)
	}
	slices.SortFunc(sorted, func(a, b core.Statement) int {
		return strings.Compare(a.Key(), b.Key())
	})
	r.sorted = sorted
}
