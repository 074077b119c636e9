package fields

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-dsfields/pkg/datastore"
)

// PrefetchedKeyField behaves exactly like KeyField but dispatches the
// backing query asynchronously at construction. Every later query access
// awaits the one dispatch, so a form with several such fields overlaps their
// query latency instead of paying it serially.
type PrefetchedKeyField struct {
	KeyField
}

// NewPrefetchedKeyField constructs a prefetching single key selection field.
// Unlike NewKeyField, a query (or kind) is mandatory: the fetch is kicked
// off before this returns. The construction context governs the dispatched
// fetch; a stalled fetch stalls the first data access, not construction.
func NewPrefetchedKeyField(ctx context.Context, name string, opts ...Option) (*PrefetchedKeyField, error) {
	if name == "" {
		return nil, fmt.Errorf("fields: prefetched key field name is required")
	}
	core, err := newChoiceCore(name, buildConfig(opts))
	if err != nil {
		return nil, err
	}
	if err := prefetch(ctx, &core); err != nil {
		return nil, err
	}
	return &PrefetchedKeyField{KeyField: KeyField{choiceCore: core}}, nil
}

// RepeatedPrefetchedKeyField combines the multi-select contract with the
// prefetch-at-construction timing.
type RepeatedPrefetchedKeyField struct {
	RepeatedKeyField
}

// NewRepeatedPrefetchedKeyField constructs a prefetching repeated key
// selection field. A query (or kind) is mandatory.
func NewRepeatedPrefetchedKeyField(ctx context.Context, name string, opts ...Option) (*RepeatedPrefetchedKeyField, error) {
	if name == "" {
		return nil, fmt.Errorf("fields: repeated prefetched key field name is required")
	}
	core, err := newChoiceCore(name, buildConfig(opts))
	if err != nil {
		return nil, err
	}
	if err := prefetch(ctx, &core); err != nil {
		return nil, err
	}
	return &RepeatedPrefetchedKeyField{RepeatedKeyField: RepeatedKeyField{choiceCore: core}}, nil
}

// prefetch swaps the core's fetch strategy for one that awaits a single
// up-front dispatch. Result memoizes, so repeated access never re-runs the
// query.
func prefetch(ctx context.Context, core *choiceCore) error {
	if core.query == nil {
		return errors.New("fields: prefetched fields require a query or kind")
	}
	future := core.query.FetchAsync(ctx)
	core.fetch = func(context.Context) ([]datastore.Entity, error) {
		return future.Result()
	}
	return nil
}
