// Package testsupport provides an in-memory datastore satisfying the
// pkg/datastore contract, plus YAML fixture loading, so field behaviour can
// be exercised without a real backend.
package testsupport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-dsfields/pkg/datastore"
)

// Key is an opaque memstore key. Encode returns "<kind>/<id>".
type Key struct {
	Kind string
	ID   string
}

// Encode returns the URL-safe token for the key.
func (k Key) Encode() string { return k.Kind + "/" + k.ID }

// Equal reports whether other is the same memstore key.
func (k Key) Equal(other datastore.Key) bool {
	o, ok := other.(Key)
	return ok && o == k
}

// Entity is a stored record with a display name used as its default label.
type Entity struct {
	K    Key
	Name string
}

// Key returns the entity's key.
func (e *Entity) Key() datastore.Key { return e.K }

func (e *Entity) String() string { return e.Name }

// Store holds entities in insertion order and hands out queries and refs
// over them. All operations are safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	entities   []*Entity
	fetchCalls int
}

// NewStore seeds a store with the provided entities.
func NewStore(entities ...*Entity) *Store {
	s := &Store{}
	s.Put(entities...)
	return s
}

// Put appends entities, replacing any existing entity with the same key.
func (s *Store) Put(entities ...*Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entity := range entities {
		replaced := false
		for i, existing := range s.entities {
			if existing.K == entity.K {
				s.entities[i] = entity
				replaced = true
				break
			}
		}
		if !replaced {
			s.entities = append(s.entities, entity)
		}
	}
}

// Delete removes the entity with the given key, if present.
func (s *Store) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, entity := range s.entities {
		if entity.K == key {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			return
		}
	}
}

// FetchCalls reports how many times any query against the store has run.
func (s *Store) FetchCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchCalls
}

func (s *Store) fetchKind(kind string) []datastore.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchCalls++
	var out []datastore.Entity
	for _, entity := range s.entities {
		if kind == "" || entity.K.Kind == kind {
			out = append(out, entity)
		}
	}
	return out
}

func (s *Store) lookup(key Key) (*Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entity := range s.entities {
		if entity.K == key {
			return entity, true
		}
	}
	return nil, false
}

// Query returns a re-runnable query over all entities of the given kind, in
// insertion order. An empty kind matches everything.
func (s *Store) Query(kind string) datastore.Query {
	return memQuery{store: s, kind: kind}
}

// Kind returns the datastore.Kind handle for the given kind name, whose
// default query is Query(kind).
func (s *Store) Kind(name string) datastore.Kind {
	return memKind{store: s, name: name}
}

// Ref returns a synchronous reference to the keyed entity. Resolution fails
// if the entity no longer exists.
func (s *Store) Ref(key Key) Ref {
	return Ref{store: s, key: key}
}

// AsyncRef returns a reference that resolves on its own goroutine after an
// optional delay, for exercising out-of-order completion.
func (s *Store) AsyncRef(key Key, delay time.Duration) AsyncRef {
	return AsyncRef{Ref: Ref{store: s, key: key, delay: delay}}
}

type memQuery struct {
	store *Store
	kind  string
}

func (q memQuery) Fetch(ctx context.Context) ([]datastore.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return q.store.fetchKind(q.kind), nil
}

func (q memQuery) FetchAsync(ctx context.Context) *datastore.Future {
	return datastore.Go(func() ([]datastore.Entity, error) {
		return q.Fetch(ctx)
	})
}

type memKind struct {
	store *Store
	name  string
}

func (k memKind) Query() datastore.Query { return k.store.Query(k.name) }

// Ref resolves a key against the store, sleeping for its configured delay
// first so tests can force slow lookups.
type Ref struct {
	store *Store
	key   Key
	delay time.Duration
}

// Key returns the key the reference points at.
func (r Ref) Key() Key { return r.key }

// Get resolves the reference or fails if the entity was deleted.
func (r Ref) Get(ctx context.Context) (datastore.Entity, error) {
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	entity, ok := r.store.lookup(r.key)
	if !ok {
		return nil, fmt.Errorf("testsupport: no entity for key %s", r.key.Encode())
	}
	return entity, nil
}

// AsyncRef adds non-blocking resolution on top of Ref.
type AsyncRef struct {
	Ref
}

// GetAsync dispatches the lookup and returns its handle.
func (r AsyncRef) GetAsync(ctx context.Context) *datastore.Pending {
	return datastore.GoRef(func() (datastore.Entity, error) {
		return r.Get(ctx)
	})
}

// FailingQuery always returns err, for exercising propagated external
// failures.
func FailingQuery(err error) datastore.Query {
	return failingQuery{err: err}
}

type failingQuery struct {
	err error
}

func (q failingQuery) Fetch(context.Context) ([]datastore.Entity, error) { return nil, q.err }

func (q failingQuery) FetchAsync(context.Context) *datastore.Future {
	return datastore.ResolvedFuture(nil, q.err)
}
