// Package fields implements form fields backed by a datastore's reference
// and list property types: single and repeated key selections resolved
// against a query, newline-delimited string and integer lists, and a
// decimal geographic point. Fields translate between stored property values
// and HTML-form string values; rendering and storage belong to the hosting
// form library and the datastore collaborator.
package fields

import "context"

// Field is the lifecycle contract the hosting form drives. A field instance
// is single-use: seeded once from model data, optionally overwritten once
// from submitted input, validated, then written back to a model.
type Field interface {
	// Name is the form input name the field binds to.
	Name() string
	// Label is the human-readable label for rendering.
	Label() string
	// ProcessData seeds the field from a stored model value. External
	// resolution failures propagate unwrapped.
	ProcessData(ctx context.Context, value any) error
	// ProcessFormdata ingests submitted form values. Parse failures return
	// a ValidationError; no partial data is retained.
	ProcessFormdata(values []string) error
	// PreValidate checks the field's resolved data against its backing
	// query or format rules before user validators run.
	PreValidate(ctx context.Context) error
	// PopulateObj writes the validated value onto obj's attribute name.
	PopulateObj(ctx context.Context, obj any, name string) error
	// Validators returns the user-supplied validator chain.
	Validators() []Validator
}

// Validator is a user-supplied check run by the hosting form after
// PreValidate succeeds.
type Validator func(ctx context.Context, field Field) error

// Choice is one selectable option: the serialized key token, its display
// label, and whether it matches the field's current data.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// ChoiceField is implemented by fields rendered as selects.
type ChoiceField interface {
	Field
	// IterChoices enumerates options in query order, blank choice first
	// when permitted. Enumerating may trigger the backing fetch.
	IterChoices(ctx context.Context) ([]Choice, error)
	// Multiple reports whether the select accepts more than one option.
	Multiple() bool
}

// TextField is implemented by fields rendered as free-text inputs. Value
// returns the string to redisplay: raw submitted text wins over serialized
// data so invalid input survives a failed round trip.
type TextField interface {
	Field
	Value() string
}
