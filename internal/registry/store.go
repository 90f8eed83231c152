package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// keyPrefix namespaces registry records inside the badger database.
const keyPrefix = "registry/"

// Store persists one registry record per workspace in an embedded badger
// database. Every mutation is a read-modify-write of that workspace's
// record; the Store serializes mutations per workspace key so concurrent
// writers (a manual backup, a sweep, a watcher reconciliation) cannot lose
// each other's updates.
type Store struct {
	db *badger.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Open opens (or creates) the registry database at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}
	return &Store{db: db, locks: make(map[string]*sync.Mutex)}, nil
}

// OpenInMemory opens a non-persistent store for testing.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory registry: %w", err)
	}
	return &Store{db: db, locks: make(map[string]*sync.Mutex)}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// workspaceLock returns the mutex serializing mutations for one workspace.
func (s *Store) workspaceLock(workspaceKey string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[workspaceKey]
	if !ok {
		l = &sync.Mutex{}
		s.locks[workspaceKey] = l
	}
	return l
}

// Load returns the registry for a workspace. A workspace with no record is
// a valid empty state, never an error.
func (s *Store) Load(ctx context.Context, workspaceKey string) (Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reg := Registry{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + workspaceKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &reg)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return reg, nil
}

// Update runs fn inside the workspace's critical section and persists the
// registry fn returns. fn receives the current registry and may mutate it
// in place. Returning an error from fn aborts the update without persisting.
func (s *Store) Update(ctx context.Context, workspaceKey string, fn func(Registry) (Registry, error)) error {
	l := s.workspaceLock(workspaceKey)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	reg, err := s.Load(ctx, workspaceKey)
	if err != nil {
		return err
	}

	next, err := fn(reg)
	if err != nil {
		return err
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+workspaceKey), data)
	})
	if err != nil {
		return fmt.Errorf("failed to persist registry: %w", err)
	}
	return nil
}

// Append adds an entry to the end of the list for originalName, creating the
// list if absent, and persists.
func (s *Store) Append(ctx context.Context, workspaceKey, originalName string, entry Entry) error {
	return s.Update(ctx, workspaceKey, func(reg Registry) (Registry, error) {
		reg[originalName] = append(reg[originalName], entry)
		return reg, nil
	})
}

// Replace overwrites the stored registry for one workspace wholesale.
func (s *Store) Replace(ctx context.Context, workspaceKey string, reg Registry) error {
	return s.Update(ctx, workspaceKey, func(Registry) (Registry, error) {
		return reg, nil
	})
}

// ClearAll wipes every workspace's registry. Only used as an explicit,
// confirmed reset.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.DropPrefix([]byte(keyPrefix)); err != nil {
		return fmt.Errorf("failed to clear registry: %w", err)
	}
	return nil
}
