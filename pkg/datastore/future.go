package datastore

// Future is the handle for an in-flight whole-query fetch. Result blocks
// until the dispatched work completes and memoizes the outcome; it never
// re-dispatches, so repeated reads are cheap.
type Future struct {
	done     chan struct{}
	entities []Entity
	err      error
}

// Go runs fn on its own goroutine and returns the Future tracking it.
// Collaborators implementing Query.FetchAsync can build their handle with it.
func Go(fn func() ([]Entity, error)) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.entities, f.err = fn()
	}()
	return f
}

// ResolvedFuture wraps an already-materialized result so synchronous
// collaborators can satisfy the async contract without a goroutine.
func ResolvedFuture(entities []Entity, err error) *Future {
	f := &Future{done: make(chan struct{}), entities: entities, err: err}
	close(f.done)
	return f
}

// Result blocks until the fetch completes and returns its outcome.
func (f *Future) Result() ([]Entity, error) {
	<-f.done
	return f.entities, f.err
}

// Pending is the single-entity counterpart of Future, returned by
// AsyncRef.GetAsync.
type Pending struct {
	done   chan struct{}
	entity Entity
	err    error
}

// GoRef runs fn on its own goroutine and returns the Pending tracking it.
func GoRef(fn func() (Entity, error)) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.entity, p.err = fn()
	}()
	return p
}

// ResolvedPending wraps an already-resolved entity.
func ResolvedPending(entity Entity, err error) *Pending {
	p := &Pending{done: make(chan struct{}), entity: entity, err: err}
	close(p.done)
	return p
}

// Result blocks until the resolution completes and returns its outcome.
func (p *Pending) Result() (Entity, error) {
	<-p.done
	return p.entity, p.err
}
