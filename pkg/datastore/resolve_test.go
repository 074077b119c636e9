package datastore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dsfields/pkg/datastore"
	"github.com/goliatone/go-dsfields/pkg/testsupport"
)

func seedStore() *testsupport.Store {
	return testsupport.NewStore(
		&testsupport.Entity{K: testsupport.Key{Kind: "author", ID: "a1"}, Name: "Ada Lovelace"},
		&testsupport.Entity{K: testsupport.Key{Kind: "author", ID: "a2"}, Name: "Grace Hopper"},
		&testsupport.Entity{K: testsupport.Key{Kind: "author", ID: "a3"}, Name: "Alan Turing"},
	)
}

func TestResolveAll_PreservesOrderAcrossCompletionOrder(t *testing.T) {
	ctx := context.Background()
	store := seedStore()

	// Delays are inverted relative to position: the first ref completes
	// last.
	refs := []datastore.Ref{
		store.AsyncRef(testsupport.Key{Kind: "author", ID: "a1"}, 40*time.Millisecond),
		store.AsyncRef(testsupport.Key{Kind: "author", ID: "a2"}, 20*time.Millisecond),
		store.AsyncRef(testsupport.Key{Kind: "author", ID: "a3"}, 0),
	}

	entities, err := datastore.ResolveAll(ctx, refs)
	if err != nil {
		t.Fatalf("resolve all: %v", err)
	}
	got := make([]string, len(entities))
	for i, entity := range entities {
		got[i] = entity.Key().Encode()
	}
	want := []string{"author/a1", "author/a2", "author/a3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveAll_MixedSyncAndAsync(t *testing.T) {
	ctx := context.Background()
	store := seedStore()

	refs := []datastore.Ref{
		store.Ref(testsupport.Key{Kind: "author", ID: "a2"}),
		store.AsyncRef(testsupport.Key{Kind: "author", ID: "a1"}, 10*time.Millisecond),
		store.Ref(testsupport.Key{Kind: "author", ID: "a3"}),
	}

	entities, err := datastore.ResolveAll(ctx, refs)
	if err != nil {
		t.Fatalf("resolve all: %v", err)
	}
	got := make([]string, len(entities))
	for i, entity := range entities {
		got[i] = entity.Key().Encode()
	}
	want := []string{"author/a2", "author/a1", "author/a3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveAll_FirstErrorWins(t *testing.T) {
	ctx := context.Background()
	store := seedStore()

	refs := []datastore.Ref{
		store.Ref(testsupport.Key{Kind: "author", ID: "a1"}),
		store.Ref(testsupport.Key{Kind: "author", ID: "missing"}),
	}

	if _, err := datastore.ResolveAll(ctx, refs); err == nil {
		t.Fatal("expected resolution failure")
	}
}

func TestResolveAll_Empty(t *testing.T) {
	entities, err := datastore.ResolveAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("resolve all: %v", err)
	}
	if entities != nil {
		t.Fatalf("expected nil, got %v", entities)
	}
}

func TestFuture_MemoizesResult(t *testing.T) {
	calls := 0
	future := datastore.Go(func() ([]datastore.Entity, error) {
		calls++
		return nil, errors.New("boom")
	})

	for i := 0; i < 3; i++ {
		if _, err := future.Result(); err == nil {
			t.Fatal("expected error")
		}
	}
	if calls != 1 {
		t.Fatalf("expected one dispatch, got %d", calls)
	}
}

func TestResolvedFuture(t *testing.T) {
	store := seedStore()
	query := store.Query("author")
	entities, err := query.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	future := datastore.ResolvedFuture(entities, nil)
	got, err := future.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entities, got %d", len(got))
	}
}

func TestPending_Result(t *testing.T) {
	store := seedStore()
	ref := store.AsyncRef(testsupport.Key{Kind: "author", ID: "a1"}, 0)

	pending := ref.GetAsync(context.Background())
	entity, err := pending.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if entity.Key().Encode() != "author/a1" {
		t.Fatalf("expected author/a1, got %s", entity.Key().Encode())
	}
}
