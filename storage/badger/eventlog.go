package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// EventLog implements storage.EventLog for BadgerDB. Sequence numbers come
// from a badger sequence, so they survive restarts and stay unique across
// concurrent appenders.
type EventLog struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.EventLog = (*EventLog)(nil)

// NewEventLog creates an EventLog over the backend.
func NewEventLog(backend *Backend) (storage.EventLog, error) {
	seq, err := backend.GetSequence(eventSeqName)
	if err != nil {
		return nil, err
	}
	return &EventLog{backend: backend, seq: seq}, nil
}

// Close releases the sequence lease.
func (l *EventLog) Close() error {
	return l.seq.Release()
}

// Append persists events in order, assigning sequence numbers and filling in
// missing timestamps.
func (l *EventLog) Append(ctx context.Context, events ...core.Event) ([]core.Event, error) {
	for i := range events {
		if err := core.ValidateEventKind(events[i].Kind); err != nil {
			return nil, err
		}
		next, err := l.seq.Next()
		if err != nil {
			return nil, err
		}
		// Sequence numbers are 1-based so a zero Seq always means "unassigned".
		events[i].Seq = next + 1
		if events[i].At.IsZero() {
			events[i].At = time.Now().UTC()
		}
	}

	err := l.backend.WithTx(func(tx *badger.Txn) error {
		for _, event := range events {
			key := makeEventKey(event.Seq)
			if err := tx.Set(key, storage.MarshalEvent(event)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Replay invokes fn for every logged event in sequence order.
func (l *EventLog) Replay(ctx context.Context, fn func(core.Event) error) error {
	return l.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(eventPrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var event core.Event
			err := iter.Item().Value(func(val []byte) error {
				var err error
				event, err = storage.UnmarshalEvent(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(event); err != nil {
				return err
			}
		}
		return nil
	}, false)
}
