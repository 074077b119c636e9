package datastore

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ResolveAll resolves refs to entities, preserving input order regardless of
// completion order. References supporting async resolution are dispatched up
// front and joined after the synchronous group finishes; the remainder fan
// out on an errgroup. The first failure wins and is returned unwrapped so
// callers can treat it as a propagated external error.
func ResolveAll(ctx context.Context, refs []Ref) ([]Entity, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	out := make([]Entity, len(refs))
	pending := make([]*Pending, len(refs))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		if ref == nil {
			return nil, fmt.Errorf("datastore: resolve all: nil ref at index %d", i)
		}
		if async, ok := ref.(AsyncRef); ok {
			pending[i] = async.GetAsync(ctx)
			continue
		}
		i, ref := i, ref
		group.Go(func() error {
			entity, err := ref.Get(groupCtx)
			if err != nil {
				return err
			}
			out[i] = entity
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	for i, handle := range pending {
		if handle == nil {
			continue
		}
		entity, err := handle.Result()
		if err != nil {
			return nil, err
		}
		out[i] = entity
	}
	return out, nil
}
