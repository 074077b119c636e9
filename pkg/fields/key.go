package fields

import (
	"context"
	"fmt"

	"github.com/goliatone/go-dsfields/pkg/datastore"
)

// BlankToken is the sentinel option value submitted when the blank choice is
// selected. It is kept wire-compatible with existing templates.
const BlankToken = "__None"

// choiceCore carries the configuration shared by all key selection fields:
// identity, label extraction, blank handling, and the query fetch strategy.
type choiceCore struct {
	name       string
	label      string
	validators []Validator
	allowBlank bool
	blankText  string
	getLabel   func(datastore.Entity) string
	query      datastore.Query
	fetch      func(ctx context.Context) ([]datastore.Entity, error)
}

func newChoiceCore(name string, cfg *config) (choiceCore, error) {
	query, err := cfg.resolveQuery()
	if err != nil {
		return choiceCore{}, err
	}
	label := cfg.label
	if label == "" {
		label = name
	}
	core := choiceCore{
		name:       name,
		label:      label,
		validators: cfg.validators,
		allowBlank: cfg.allowBlank,
		blankText:  cfg.blankText,
		getLabel:   cfg.labelExtractor(),
	}
	core.setQuery(query)
	return core, nil
}

func (c *choiceCore) setQuery(query datastore.Query) {
	c.query = query
	if query == nil {
		c.fetch = nil
		return
	}
	c.fetch = query.Fetch
}

func (c *choiceCore) entities(ctx context.Context) ([]datastore.Entity, error) {
	if c.fetch == nil {
		return nil, fmt.Errorf("fields: field %q has no query", c.name)
	}
	return c.fetch(ctx)
}

// Name returns the form input name.
func (c *choiceCore) Name() string { return c.name }

// Label returns the display label.
func (c *choiceCore) Label() string { return c.label }

// Validators returns the user validator chain.
func (c *choiceCore) Validators() []Validator { return c.validators }

// KeyField maps one key-valued property to a single-choice selector. A
// submitted token is resolved lazily: the first data read scans the query
// for an entity whose encoded key matches.
type KeyField struct {
	choiceCore

	state resolution
	data  datastore.Entity
}

// NewKeyField constructs a single key selection field. Provide the
// selectable entities with WithQuery or WithKind; a field built with
// neither must receive one through SetQuery before its data is touched.
func NewKeyField(name string, opts ...Option) (*KeyField, error) {
	if name == "" {
		return nil, fmt.Errorf("fields: key field name is required")
	}
	core, err := newChoiceCore(name, buildConfig(opts))
	if err != nil {
		return nil, err
	}
	return &KeyField{choiceCore: core}, nil
}

// SetQuery replaces the backing query for fields constructed without one.
func (f *KeyField) SetQuery(query datastore.Query) { f.setQuery(query) }

// Data returns the current selection, resolving a pending submitted token
// against the query on first read. An unmatched token resolves to nil; the
// pending state is consumed either way, so later reads do not rescan.
func (f *KeyField) Data(ctx context.Context) (datastore.Entity, error) {
	if tokens, ok := f.state.take(); ok {
		var match datastore.Entity
		if len(tokens) > 0 {
			entities, err := f.entities(ctx)
			if err != nil {
				return nil, err
			}
			for _, entity := range entities {
				if entity.Key().Encode() == tokens[0] {
					match = entity
					break
				}
			}
		}
		f.SetData(match)
	}
	return f.data, nil
}

// SetData stores the selection directly and discards any pending token.
func (f *KeyField) SetData(entity datastore.Entity) {
	f.data = entity
	f.state.clear()
}

// ProcessData seeds the field from a stored reference, resolving it eagerly.
// A resolution failure is a propagated external error. Nil leaves the field
// unset.
func (f *KeyField) ProcessData(ctx context.Context, value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case datastore.Ref:
		entity, err := v.Get(ctx)
		if err != nil {
			return err
		}
		f.SetData(entity)
		return nil
	case datastore.Entity:
		f.SetData(v)
		return nil
	default:
		return fmt.Errorf("fields: key field %q: cannot process %T", f.name, value)
	}
}

// ProcessFormdata stores the first submitted value for lazy resolution. The
// blank sentinel clears the selection immediately.
func (f *KeyField) ProcessFormdata(values []string) error {
	if len(values) == 0 {
		return nil
	}
	if values[0] == BlankToken {
		f.SetData(nil)
		return nil
	}
	f.data = nil
	f.state.setPending(values[:1])
	return nil
}

// IterChoices enumerates options in query order, with the blank choice
// first when permitted. An empty query yields only the blank choice, or
// nothing.
func (f *KeyField) IterChoices(ctx context.Context) ([]Choice, error) {
	data, err := f.Data(ctx)
	if err != nil {
		return nil, err
	}
	entities, err := f.entities(ctx)
	if err != nil {
		return nil, err
	}

	choices := make([]Choice, 0, len(entities)+1)
	if f.allowBlank {
		choices = append(choices, Choice{
			Value:    BlankToken,
			Label:    f.blankText,
			Selected: data == nil,
		})
	}
	for _, entity := range entities {
		choices = append(choices, Choice{
			Value:    entity.Key().Encode(),
			Label:    f.getLabel(entity),
			Selected: data != nil && data.Key().Equal(entity.Key()),
		})
	}
	return choices, nil
}

// Multiple reports that the field renders as a single select.
func (f *KeyField) Multiple() bool { return false }

// PreValidate fails when a selection's key is absent from the current query
// results, or when no selection exists and blank is not permitted. The scan
// is exhaustive with an early break on match, so a selection deleted between
// render and submit is caught.
func (f *KeyField) PreValidate(ctx context.Context) error {
	data, err := f.Data(ctx)
	if err != nil {
		return err
	}
	if data == nil {
		if f.allowBlank {
			return nil
		}
		return ErrInvalidChoice
	}

	entities, err := f.entities(ctx)
	if err != nil {
		return err
	}
	for _, entity := range entities {
		if data.Key().Equal(entity.Key()) {
			return nil
		}
	}
	return ErrInvalidChoice
}

// PopulateObj writes the selection's key onto the target attribute, or nil
// when nothing is selected.
func (f *KeyField) PopulateObj(ctx context.Context, obj any, name string) error {
	data, err := f.Data(ctx)
	if err != nil {
		return err
	}
	if data == nil {
		return setAttr(obj, name, nil)
	}
	return setAttr(obj, name, data.Key())
}
