package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/toolrank/core"
	"github.com/poiesic/toolrank/storage"
)

// CallLogRepository implements storage.CallLogRepository for BadgerDB.
type CallLogRepository struct {
	backend *Backend
}

var _ storage.CallLogRepository = (*CallLogRepository)(nil)

// NewCallLogRepository creates a new CallLogRepository.
func NewCallLogRepository(backend *Backend) *CallLogRepository {
	return &CallLogRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *CallLogRepository) Close() error {
	return nil
}

// AppendCalls appends call events to the log.
func (r *CallLogRepository) AppendCalls(ctx context.Context, events ...*core.CallEvent) ([]*core.CallEvent, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, event := range events {
			if err := core.ValidateCallEvent(event); err != nil {
				return err
			}

			if event.Id == 0 {
				event.Id = event.ContentID()
			}
			if event.InsertedAt.IsZero() {
				event.InsertedAt = time.Now().UTC()
			}

			// Store primary record
			key := makeCallEventKey(event.Id)
			value := storage.MarshalCallEvent(event)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update time index
			timeKey := makeCallTimeKey(event.Timestamp, event.Id)
			if err := tx.Set(timeKey, storage.MarshalID(event.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return events, err
}

// GetCallsSince retrieves events with Timestamp >= since, ordered by
// session and then by timestamp within each session.
func (r *CallLogRepository) GetCallsSince(ctx context.Context, since time.Time) ([]*core.CallEvent, error) {
	var events []*core.CallEvent

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(callEventTimePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		start := makePartialCallTimeKey(since)
		for iter.Seek(start); iter.Valid(); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			event, err := r.readCallEvent(tx, id)
			if err != nil {
				return err
			}
			if event != nil {
				events = append(events, event)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	slices.SortFunc(events, func(a, b *core.CallEvent) int {
		if c := strings.Compare(a.Session, b.Session); c != 0 {
			return c
		}
		return a.Timestamp.Compare(b.Timestamp)
	})

	return events, nil
}

func (r *CallLogRepository) readCallEvent(tx *badger.Txn, id core.ID) (*core.CallEvent, error) {
	item, err := tx.Get(makeCallEventKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var event *core.CallEvent
	err = item.Value(func(val []byte) error {
		var err error
		event, err = storage.UnmarshalCallEvent(val)
		return err
	})
	return event, err
}
