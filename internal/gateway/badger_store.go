package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"manifest-reconciliation/internal/domain"
)

// BadgerStateStore keeps workflow state in an embedded badger database,
// one key per field under "<namespace>/<field>".
type BadgerStateStore struct {
	db *badger.DB
}

// OpenBadgerStateStore opens (or creates) the database at path. With
// inMemory set nothing touches the disk.
func OpenBadgerStateStore(path string, inMemory bool) (*BadgerStateStore, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store at %q: %w", path, err)
	}
	return &BadgerStateStore{db: db}, nil
}

func fieldKey(namespace, field string) []byte {
	return []byte(namespace + "/" + field)
}

// Load returns the stored state, or nil when nothing was saved.
func (s *BadgerStateStore) Load(ctx context.Context, namespace string) (*domain.WorkflowState, error) {
	values := make(map[string][]byte, len(domain.PersistedFields))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, field := range domain.PersistedFields {
			item, err := txn.Get(fieldKey(namespace, field))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			values[field] = raw
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read state %s: %w", namespace, err)
	}
	return decodeFields(values)
}

// Save writes every field in a single transaction.
func (s *BadgerStateStore) Save(ctx context.Context, namespace string, state *domain.WorkflowState) error {
	values, err := encodeFields(state)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		for field, raw := range values {
			if err := txn.Set(fieldKey(namespace, field), raw); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write state %s: %w", namespace, err)
	}
	return nil
}

// Clear deletes every field of namespace.
func (s *BadgerStateStore) Clear(ctx context.Context, namespace string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, field := range domain.PersistedFields {
			if err := txn.Delete(fieldKey(namespace, field)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear state %s: %w", namespace, err)
	}
	return nil
}

// Close releases the database.
func (s *BadgerStateStore) Close() error {
	return s.db.Close()
}
