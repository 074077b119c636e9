// Package datastore declares the contract the hosting application's
// datastore layer must satisfy for dsfields to resolve references. The
// package performs no storage or network work of its own; it only shapes the
// seam and provides ordered join helpers over the handles the collaborator
// returns.
package datastore

import "context"

// Key identifies a stored entity. Encode returns a stable, URL-safe token
// usable as an HTML option value and for equality checks across renders.
type Key interface {
	Encode() string
	Equal(other Key) bool
}

// Entity is a referenced object managed by the external datastore.
type Entity interface {
	Key() Key
}

// Query yields entities in a stable order. Fetch may be called repeatedly;
// implementations either re-run the query or serve a cached result.
// FetchAsync dispatches the fetch immediately and returns a handle that can
// be awaited later.
type Query interface {
	Fetch(ctx context.Context) ([]Entity, error)
	FetchAsync(ctx context.Context) *Future
}

// Kind describes an entity kind able to produce its default all-entities
// query. Fields constructed with a kind derive their query from it.
type Kind interface {
	Query() Query
}

// Ref is a stored reference to a single entity, as held on a model property,
// resolvable to the entity itself.
type Ref interface {
	Get(ctx context.Context) (Entity, error)
}

// AsyncRef is implemented by references whose backing store supports
// non-blocking resolution. ResolveAll prefers it when present.
type AsyncRef interface {
	Ref
	GetAsync(ctx context.Context) *Pending
}
