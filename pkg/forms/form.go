// Package forms hosts dsfields field instances through the standard form
// lifecycle: seed from model data, overlay submitted input, validate, and
// write back. A Form is single-use per render/submission cycle.
package forms

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-dsfields/pkg/fields"
)

// Form is an ordered set of named fields plus the validation messages they
// accumulate. It requires no synchronization; instances are never shared
// across submissions.
type Form struct {
	fields []fields.Field
	byName map[string]fields.Field
	errors map[string][]string
}

// New builds a form over the given fields. Field names must be unique.
func New(fieldList ...fields.Field) (*Form, error) {
	form := &Form{
		byName: make(map[string]fields.Field, len(fieldList)),
		errors: make(map[string][]string),
	}
	for _, field := range fieldList {
		if field == nil {
			return nil, fmt.Errorf("forms: nil field")
		}
		name := field.Name()
		if _, exists := form.byName[name]; exists {
			return nil, fmt.Errorf("forms: duplicate field name %q", name)
		}
		form.fields = append(form.fields, field)
		form.byName[name] = field
	}
	return form, nil
}

// Fields returns the fields in declaration order.
func (f *Form) Fields() []fields.Field { return f.fields }

// Field looks a field up by name.
func (f *Form) Field(name string) (fields.Field, bool) {
	field, ok := f.byName[name]
	return field, ok
}

// Process seeds each field from model data, then overlays submitted form
// input. With a non-nil formdata every field sees its value list, absent
// keys included: browsers omit a fully-deselected multi select, and that
// empty list must clear a seeded selection rather than keep it. Validation
// failures from input parsing are recorded as field errors; external
// failures (a stored reference that no longer resolves, a failed fetch)
// abort and propagate.
func (f *Form) Process(ctx context.Context, data map[string]any, formdata url.Values) error {
	for _, field := range f.fields {
		name := field.Name()
		if value, ok := data[name]; ok {
			if err := field.ProcessData(ctx, value); err != nil {
				return fmt.Errorf("forms: process %q: %w", name, err)
			}
		}
		if formdata == nil {
			continue
		}
		if err := field.ProcessFormdata(formdata[name]); err != nil {
			if !fields.IsValidation(err) {
				return fmt.Errorf("forms: process %q: %w", name, err)
			}
			f.addError(name, err.Error())
		}
	}
	return nil
}

// Validate runs each field's PreValidate and validator chain. A failing
// field records its messages and does not abort sibling validation. The
// returned error is non-nil only for propagated external failures.
func (f *Form) Validate(ctx context.Context) (bool, error) {
	for _, field := range f.fields {
		name := field.Name()
		if err := field.PreValidate(ctx); err != nil {
			if !fields.IsValidation(err) {
				return false, fmt.Errorf("forms: validate %q: %w", name, err)
			}
			f.addError(name, err.Error())
			continue
		}
		for _, validator := range field.Validators() {
			if err := validator(ctx, field); err != nil {
				if !fields.IsValidation(err) {
					return false, fmt.Errorf("forms: validate %q: %w", name, err)
				}
				f.addError(name, err.Error())
			}
		}
	}
	return len(f.errors) == 0, nil
}

// Populate writes each field's validated data onto obj, which is either a
// map[string]any or a struct pointer.
func (f *Form) Populate(ctx context.Context, obj any) error {
	for _, field := range f.fields {
		if err := field.PopulateObj(ctx, obj, field.Name()); err != nil {
			return fmt.Errorf("forms: populate %q: %w", field.Name(), err)
		}
	}
	return nil
}

// Errors returns all recorded field messages keyed by field name.
func (f *Form) Errors() map[string][]string {
	if len(f.errors) == 0 {
		return nil
	}
	return f.errors
}

// FieldErrors returns the messages recorded for one field.
func (f *Form) FieldErrors(name string) []string { return f.errors[name] }

func (f *Form) addError(name, message string) {
	f.errors[name] = appendMessage(f.errors[name], message)
}

// appendMessage trims and dedupes while preserving order, so repeated
// validator failures do not stack identical messages.
func appendMessage(existing []string, message string) []string {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return existing
	}
	for _, have := range existing {
		if have == trimmed {
			return existing
		}
	}
	return append(existing, trimmed)
}
