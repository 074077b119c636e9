// Package dsfields provides form fields backed by a datastore's reference
// and list property types. The root package re-exports the field API so
// most callers only import this package plus their datastore adapter; the
// pkg/ packages remain importable on their own.
package dsfields

import (
	"context"

	"github.com/goliatone/go-dsfields/pkg/datastore"
	"github.com/goliatone/go-dsfields/pkg/fields"
	"github.com/goliatone/go-dsfields/pkg/forms"
)

// BlankToken is the sentinel submitted when the blank choice is selected.
const BlankToken = fields.BlankToken

// Re-exported field contracts and types.
type (
	Field       = fields.Field
	ChoiceField = fields.ChoiceField
	TextField   = fields.TextField
	Choice      = fields.Choice
	Validator   = fields.Validator
	Option      = fields.Option

	KeyField                   = fields.KeyField
	RepeatedKeyField           = fields.RepeatedKeyField
	PrefetchedKeyField         = fields.PrefetchedKeyField
	RepeatedPrefetchedKeyField = fields.RepeatedPrefetchedKeyField
	StringListField            = fields.StringListField
	IntegerListField           = fields.IntegerListField
	GeoPointField              = fields.GeoPointField

	Form = forms.Form
)

// NewKeyField constructs a single key selection field.
func NewKeyField(name string, opts ...Option) (*KeyField, error) {
	return fields.NewKeyField(name, opts...)
}

// NewRepeatedKeyField constructs a repeated key selection field.
func NewRepeatedKeyField(name string, opts ...Option) (*RepeatedKeyField, error) {
	return fields.NewRepeatedKeyField(name, opts...)
}

// NewPrefetchedKeyField constructs a single key selection field whose query
// is dispatched before this returns.
func NewPrefetchedKeyField(ctx context.Context, name string, opts ...Option) (*PrefetchedKeyField, error) {
	return fields.NewPrefetchedKeyField(ctx, name, opts...)
}

// NewRepeatedPrefetchedKeyField constructs a repeated key selection field
// whose query is dispatched before this returns.
func NewRepeatedPrefetchedKeyField(ctx context.Context, name string, opts ...Option) (*RepeatedPrefetchedKeyField, error) {
	return fields.NewRepeatedPrefetchedKeyField(ctx, name, opts...)
}

// NewStringListField constructs a newline-delimited string list field.
func NewStringListField(name string, opts ...Option) (*StringListField, error) {
	return fields.NewStringListField(name, opts...)
}

// NewIntegerListField constructs a newline-delimited integer list field.
func NewIntegerListField(name string, opts ...Option) (*IntegerListField, error) {
	return fields.NewIntegerListField(name, opts...)
}

// NewGeoPointField constructs a "<lat>,<lon>" decimal coordinate field.
func NewGeoPointField(name string, opts ...Option) (*GeoPointField, error) {
	return fields.NewGeoPointField(name, opts...)
}

// NewForm builds a form over the given fields.
func NewForm(fieldList ...Field) (*Form, error) {
	return forms.New(fieldList...)
}

// ResolveAll resolves references to entities preserving input order.
func ResolveAll(ctx context.Context, refs []datastore.Ref) ([]datastore.Entity, error) {
	return datastore.ResolveAll(ctx, refs)
}
