package fields

import (
	"context"
	"fmt"

	"github.com/goliatone/go-dsfields/pkg/datastore"
)

// entry pairs a submitted token with its resolved entity. A nil entity
// records the deliberate leniency of the data getter: unmatched tokens stay
// visible so validation can reject them by name.
type entry struct {
	token  string
	entity datastore.Entity
}

// RepeatedKeyField maps a repeated key property to a multi-choice selector.
// Submitted tokens are kept verbatim and resolved in one pass against a
// token map built from the query on first data read.
type RepeatedKeyField struct {
	choiceCore

	state   resolution
	entries []entry
}

// NewRepeatedKeyField constructs a repeated key selection field. Query
// sourcing follows the same rules as NewKeyField.
func NewRepeatedKeyField(name string, opts ...Option) (*RepeatedKeyField, error) {
	if name == "" {
		return nil, fmt.Errorf("fields: repeated key field name is required")
	}
	core, err := newChoiceCore(name, buildConfig(opts))
	if err != nil {
		return nil, err
	}
	return &RepeatedKeyField{choiceCore: core}, nil
}

// SetQuery replaces the backing query for fields constructed without one.
func (f *RepeatedKeyField) SetQuery(query datastore.Query) { f.setQuery(query) }

// Data returns the resolved selections in submission order. Unmatched
// tokens occupy their slot as nil entries; PreValidate rejects them and
// PopulateObj filters them out. The slice is empty, never an error, when no
// tokens were submitted.
func (f *RepeatedKeyField) Data(ctx context.Context) ([]datastore.Entity, error) {
	if tokens, ok := f.state.take(); ok {
		entries := make([]entry, len(tokens))
		if len(tokens) > 0 {
			entities, err := f.entities(ctx)
			if err != nil {
				return nil, err
			}
			byToken := make(map[string]datastore.Entity, len(entities))
			for _, entity := range entities {
				byToken[entity.Key().Encode()] = entity
			}
			for i, token := range tokens {
				entries[i] = entry{token: token, entity: byToken[token]}
			}
		}
		f.setEntries(entries)
	}

	out := make([]datastore.Entity, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.entity
	}
	return out, nil
}

// SetData stores the selections directly and discards pending tokens.
func (f *RepeatedKeyField) SetData(entities []datastore.Entity) {
	entries := make([]entry, len(entities))
	for i, entity := range entities {
		entries[i] = entry{entity: entity}
		if entity != nil {
			entries[i].token = entity.Key().Encode()
		}
	}
	f.setEntries(entries)
}

func (f *RepeatedKeyField) setEntries(entries []entry) {
	f.entries = entries
	f.state.clear()
}

// ProcessData seeds the field from stored references, resolving them all
// concurrently while preserving input order. Any resolution failure is a
// propagated external error and leaves the field unset.
func (f *RepeatedKeyField) ProcessData(ctx context.Context, value any) error {
	switch v := value.(type) {
	case nil:
		f.setEntries(nil)
		return nil
	case []datastore.Ref:
		entities, err := datastore.ResolveAll(ctx, v)
		if err != nil {
			return err
		}
		f.SetData(entities)
		return nil
	case []datastore.Entity:
		f.SetData(v)
		return nil
	default:
		return fmt.Errorf("fields: repeated key field %q: cannot process %T", f.name, value)
	}
}

// ProcessFormdata stores the submitted token list verbatim for lazy
// resolution. No eager lookup happens here.
func (f *RepeatedKeyField) ProcessFormdata(values []string) error {
	f.entries = nil
	f.state.setPending(values)
	return nil
}

// IterChoices enumerates options in query order, marking each selected when
// its key appears among the resolved selections. The blank choice never
// applies to a multi select.
func (f *RepeatedKeyField) IterChoices(ctx context.Context) ([]Choice, error) {
	data, err := f.Data(ctx)
	if err != nil {
		return nil, err
	}
	selected := make(map[string]struct{}, len(data))
	for _, entity := range data {
		if entity != nil {
			selected[entity.Key().Encode()] = struct{}{}
		}
	}

	entities, err := f.entities(ctx)
	if err != nil {
		return nil, err
	}
	choices := make([]Choice, 0, len(entities))
	for _, entity := range entities {
		token := entity.Key().Encode()
		_, isSelected := selected[token]
		choices = append(choices, Choice{
			Value:    token,
			Label:    f.getLabel(entity),
			Selected: isSelected,
		})
	}
	return choices, nil
}

// Multiple reports that the field renders as a multi select.
func (f *RepeatedKeyField) Multiple() bool { return true }

// PreValidate fails when any resolved entry is absent from the current
// query results. Selections are compared by key, matching the single-select
// field. An empty selection always passes.
func (f *RepeatedKeyField) PreValidate(ctx context.Context) error {
	if _, err := f.Data(ctx); err != nil {
		return err
	}
	if len(f.entries) == 0 {
		return nil
	}

	entities, err := f.entities(ctx)
	if err != nil {
		return err
	}
	present := make(map[string]struct{}, len(entities))
	for _, entity := range entities {
		present[entity.Key().Encode()] = struct{}{}
	}
	for _, e := range f.entries {
		if e.entity == nil {
			return Invalid("%q is not a valid choice for this field", e.token)
		}
		token := e.entity.Key().Encode()
		if _, ok := present[token]; !ok {
			return Invalid("%q is not a valid choice for this field", token)
		}
	}
	return nil
}

// PopulateObj writes the list of resolved keys onto the target attribute.
// Unresolved entries are filtered out; no selection writes an empty list.
func (f *RepeatedKeyField) PopulateObj(ctx context.Context, obj any, name string) error {
	if _, err := f.Data(ctx); err != nil {
		return err
	}
	keys := make([]datastore.Key, 0, len(f.entries))
	for _, e := range f.entries {
		if e.entity != nil {
			keys = append(keys, e.entity.Key())
		}
	}
	return setAttr(obj, name, keys)
}
