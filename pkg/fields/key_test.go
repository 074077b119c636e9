package fields_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dsfields/pkg/datastore"
	"github.com/goliatone/go-dsfields/pkg/fields"
	"github.com/goliatone/go-dsfields/pkg/testsupport"
)

func authorStore() *testsupport.Store {
	return testsupport.NewStore(
		&testsupport.Entity{K: testsupport.Key{Kind: "author", ID: "a1"}, Name: "Ada Lovelace"},
		&testsupport.Entity{K: testsupport.Key{Kind: "author", ID: "a2"}, Name: "Grace Hopper"},
		&testsupport.Entity{K: testsupport.Key{Kind: "author", ID: "a3"}, Name: "Alan Turing"},
	)
}

func TestKeyField_ResolvesSubmittedToken(t *testing.T) {
	ctx := context.Background()
	store := authorStore()

	field, err := fields.NewKeyField("author", fields.WithQuery(store.Query("author")))
	if err != nil {
		t.Fatalf("new key field: %v", err)
	}
	if err := field.ProcessFormdata([]string{"author/a2"}); err != nil {
		t.Fatalf("process formdata: %v", err)
	}

	data, err := field.Data(ctx)
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if data == nil || data.Key().Encode() != "author/a2" {
		t.Fatalf("expected author/a2, got %v", data)
	}

	// Resolution is memoized: deleting the entity afterwards must not
	// change the resolved data or trigger another scan.
	fetches := store.FetchCalls()
	store.Delete(testsupport.Key{Kind: "author", ID: "a2"})
	again, err := field.Data(ctx)
	if err != nil {
		t.Fatalf("data again: %v", err)
	}
	if again == nil || again.Key().Encode() != "author/a2" {
		t.Fatalf("expected memoized author/a2, got %v", again)
	}
	if got := store.FetchCalls(); got != fetches {
		t.Fatalf("expected no further fetches, got %d -> %d", fetches, got)
	}
}

func TestKeyField_UnmatchedTokenResolvesToNilOnce(t *testing.T) {
	ctx := context.Background()
	store := authorStore()

	field, err := fields.NewKeyField("author", fields.WithQuery(store.Query("author")))
	if err != nil {
		t.Fatalf("new key field: %v", err)
	}
	if err := field.ProcessFormdata([]string{"author/gone"}); err != nil {
		t.Fatalf("process formdata: %v", err)
	}

	data, err := field.Data(ctx)
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil data for unmatched token, got %v", data)
	}

	fetches := store.FetchCalls()
	if _, err := field.Data(ctx); err != nil {
		t.Fatalf("data again: %v", err)
	}
	if got := store.FetchCalls(); got != fetches {
		t.Fatalf("unmatched token must not rescan, fetches %d -> %d", fetches, got)
	}
}

func TestKeyField_BlankSentinel(t *testing.T) {
	ctx := context.Background()
	store := authorStore()

	field, err := fields.NewKeyField("author",
		fields.WithQuery(store.Query("author")),
		fields.AllowBlank(),
	)
	if err != nil {
		t.Fatalf("new key field: %v", err)
	}
	if err := field.ProcessFormdata([]string{fields.BlankToken}); err != nil {
		t.Fatalf("process formdata: %v", err)
	}

	data, err := field.Data(ctx)
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil data for blank sentinel, got %v", data)
	}
	if err := field.PreValidate(ctx); err != nil {
		t.Fatalf("blank selection with AllowBlank must validate, got %v", err)
	}
}

func TestKeyField_PreValidate(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		setup   func(t *testing.T, store *testsupport.Store, field *fields.KeyField)
		wantErr bool
	}{
		{
			name: "valid selection",
			setup: func(t *testing.T, store *testsupport.Store, field *fields.KeyField) {
				if err := field.ProcessFormdata([]string{"author/a1"}); err != nil {
					t.Fatalf("process formdata: %v", err)
				}
			},
		},
		{
			name:    "no selection without blank",
			setup:   func(*testing.T, *testsupport.Store, *fields.KeyField) {},
			wantErr: true,
		},
		{
			name: "selection deleted between render and submit",
			setup: func(t *testing.T, store *testsupport.Store, field *fields.KeyField) {
				if err := field.ProcessFormdata([]string{"author/a3"}); err != nil {
					t.Fatalf("process formdata: %v", err)
				}
				if _, err := field.Data(ctx); err != nil {
					t.Fatalf("data: %v", err)
				}
				store.Delete(testsupport.Key{Kind: "author", ID: "a3"})
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := authorStore()
			field, err := fields.NewKeyField("author", fields.WithQuery(store.Query("author")))
			if err != nil {
				t.Fatalf("new key field: %v", err)
			}
			tc.setup(t, store, field)

			err = field.PreValidate(ctx)
			if tc.wantErr {
				if !fields.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("pre validate: %v", err)
			}
		})
	}
}

func TestKeyField_IterChoices(t *testing.T) {
	ctx := context.Background()
	store := authorStore()

	field, err := fields.NewKeyField("author",
		fields.WithQuery(store.Query("author")),
		fields.AllowBlank(),
		fields.WithBlankText("(none)"),
		fields.WithLabelAttr("Name"),
	)
	if err != nil {
		t.Fatalf("new key field: %v", err)
	}
	if err := field.ProcessFormdata([]string{"author/a2"}); err != nil {
		t.Fatalf("process formdata: %v", err)
	}

	choices, err := field.IterChoices(ctx)
	if err != nil {
		t.Fatalf("iter choices: %v", err)
	}

	want := []fields.Choice{
		{Value: fields.BlankToken, Label: "(none)", Selected: false},
		{Value: "author/a1", Label: "Ada Lovelace", Selected: false},
		{Value: "author/a2", Label: "Grace Hopper", Selected: true},
		{Value: "author/a3", Label: "Alan Turing", Selected: false},
	}
	if diff := cmp.Diff(want, choices); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyField_IterChoicesEmptyQuery(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore()

	field, err := fields.NewKeyField("author",
		fields.WithQuery(store.Query("author")),
		fields.AllowBlank(),
	)
	if err != nil {
		t.Fatalf("new key field: %v", err)
	}

	choices, err := field.IterChoices(ctx)
	if err != nil {
		t.Fatalf("iter choices on empty query: %v", err)
	}
	if len(choices) != 1 || choices[0].Value != fields.BlankToken || !choices[0].Selected {
		t.Fatalf("expected only a selected blank choice, got %+v", choices)
	}
}

func TestKeyField_ProcessDataResolvesRef(t *testing.T) {
	ctx := context.Background()
	store := authorStore()

	field, err := fields.NewKeyField("author", fields.WithQuery(store.Query("author")))
	if err != nil {
		t.Fatalf("new key field: %v", err)
	}
	ref := store.Ref(testsupport.Key{Kind: "author", ID: "a1"})
	if err := field.ProcessData(ctx, ref); err != nil {
		t.Fatalf("process data: %v", err)
	}

	data, err := field.Data(ctx)
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if data == nil || data.Key().Encode() != "author/a1" {
		t.Fatalf("expected author/a1, got %v", data)
	}
}

func TestKeyField_ProcessDataPropagatesExternalFailure(t *testing.T) {
	ctx := context.Background()
	store := authorStore()

	field, err := fields.NewKeyField("author", fields.WithQuery(store.Query("author")))
	if err != nil {
		t.Fatalf("new key field: %v", err)
	}
	ref := store.Ref(testsupport.Key{Kind: "author", ID: "deleted"})

	err = field.ProcessData(ctx, ref)
	if err == nil {
		t.Fatal("expected resolution failure to propagate")
	}
	if fields.IsValidation(err) {
		t.Fatalf("external failure must not be a validation error: %v", err)
	}
}

func TestKeyField_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := authorStore()

	field, err := fields.NewKeyField("author", fields.WithQuery(store.Query("author")))
	if err != nil {
		t.Fatalf("new key field: %v", err)
	}
	if err := field.ProcessFormdata([]string{"author/a2"}); err != nil {
		t.Fatalf("process formdata: %v", err)
	}

	var model struct {
		Author datastore.Key
	}
	if err := field.PopulateObj(ctx, &model, "Author"); err != nil {
		t.Fatalf("populate obj: %v", err)
	}
	key, ok := model.Author.(testsupport.Key)
	if !ok {
		t.Fatalf("expected testsupport.Key, got %T", model.Author)
	}

	reloaded, err := fields.NewKeyField("author", fields.WithQuery(store.Query("author")))
	if err != nil {
		t.Fatalf("new key field: %v", err)
	}
	if err := reloaded.ProcessData(ctx, store.Ref(key)); err != nil {
		t.Fatalf("process data from stored key: %v", err)
	}
	data, err := reloaded.Data(ctx)
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if data == nil || !data.Key().Equal(key) {
		t.Fatalf("round trip mismatch: got %v, want key %s", data, key.Encode())
	}
}

func TestKeyField_PopulateNilSelection(t *testing.T) {
	ctx := context.Background()
	store := authorStore()

	field, err := fields.NewKeyField("author",
		fields.WithQuery(store.Query("author")),
		fields.AllowBlank(),
	)
	if err != nil {
		t.Fatalf("new key field: %v", err)
	}

	model := map[string]any{"author": "sentinel"}
	if err := field.PopulateObj(ctx, model, "author"); err != nil {
		t.Fatalf("populate obj: %v", err)
	}
	if model["author"] != nil {
		t.Fatalf("expected nil, got %v", model["author"])
	}

	// Seeding from a nil stored value leaves the field unset.
	if err := field.ProcessData(ctx, nil); err != nil {
		t.Fatalf("process data nil: %v", err)
	}
	data, err := field.Data(ctx)
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if data != nil {
		t.Fatalf("expected unset data, got %v", data)
	}
}

func TestKeyField_QueryKindExclusive(t *testing.T) {
	store := authorStore()

	_, err := fields.NewKeyField("author",
		fields.WithQuery(store.Query("author")),
		fields.WithKind(store.Kind("author")),
	)
	if err == nil {
		t.Fatal("expected error when both query and kind are set")
	}
}

func TestKeyField_KindDerivesDefaultQuery(t *testing.T) {
	ctx := context.Background()
	store := authorStore()

	field, err := fields.NewKeyField("author", fields.WithKind(store.Kind("author")))
	if err != nil {
		t.Fatalf("new key field: %v", err)
	}
	choices, err := field.IterChoices(ctx)
	if err != nil {
		t.Fatalf("iter choices: %v", err)
	}
	if len(choices) != 3 {
		t.Fatalf("expected 3 choices from kind query, got %d", len(choices))
	}
}

func TestKeyField_ExternalQueryFailurePropagates(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("backend unavailable")

	field, err := fields.NewKeyField("author", fields.WithQuery(testsupport.FailingQuery(boom)))
	if err != nil {
		t.Fatalf("new key field: %v", err)
	}
	if err := field.ProcessFormdata([]string{"author/a1"}); err != nil {
		t.Fatalf("process formdata: %v", err)
	}

	if _, err := field.Data(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected backend error to propagate, got %v", err)
	}
}

func TestKeyField_DefaultLabelUsesStringer(t *testing.T) {
	ctx := context.Background()
	store := authorStore()

	field, err := fields.NewKeyField("author", fields.WithQuery(store.Query("author")))
	if err != nil {
		t.Fatalf("new key field: %v", err)
	}
	choices, err := field.IterChoices(ctx)
	if err != nil {
		t.Fatalf("iter choices: %v", err)
	}
	if choices[0].Label != "Ada Lovelace" {
		t.Fatalf("expected stringer label, got %q", choices[0].Label)
	}
}

func TestKeyField_LabelFunc(t *testing.T) {
	ctx := context.Background()
	store := authorStore()

	field, err := fields.NewKeyField("author",
		fields.WithQuery(store.Query("author")),
		fields.WithLabelFunc(func(entity datastore.Entity) string {
			return "author: " + entity.Key().Encode()
		}),
	)
	if err != nil {
		t.Fatalf("new key field: %v", err)
	}
	choices, err := field.IterChoices(ctx)
	if err != nil {
		t.Fatalf("iter choices: %v", err)
	}
	if choices[0].Label != "author: author/a1" {
		t.Fatalf("unexpected label %q", choices[0].Label)
	}
}
