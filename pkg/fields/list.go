package fields

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// textCore carries the configuration shared by the textarea-backed list
// fields and the geo point field.
type textCore struct {
	name       string
	label      string
	validators []Validator
	raw        []string
}

func newTextCore(name string, cfg *config) textCore {
	label := cfg.label
	if label == "" {
		label = name
	}
	return textCore{name: name, label: label, validators: cfg.validators}
}

// Name returns the form input name.
func (c *textCore) Name() string { return c.name }

// Label returns the display label.
func (c *textCore) Label() string { return c.label }

// Validators returns the user validator chain.
func (c *textCore) Validators() []Validator { return c.validators }

// splitLines frames a submitted text block as one item per line: an empty
// submission yields no items, and a trailing newline does not produce a
// trailing empty item.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = strings.TrimSuffix(normalized, "\n")
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, "\n")
}

// StringListField maps a repeated string property to a newline-delimited
// textarea.
type StringListField struct {
	textCore

	data []string
}

// NewStringListField constructs a string list field.
func NewStringListField(name string, opts ...Option) (*StringListField, error) {
	if name == "" {
		return nil, fmt.Errorf("fields: string list field name is required")
	}
	return &StringListField{textCore: newTextCore(name, buildConfig(opts))}, nil
}

// Data returns the current list of lines.
func (f *StringListField) Data() []string { return f.data }

// ProcessData seeds the field from a stored string list.
func (f *StringListField) ProcessData(_ context.Context, value any) error {
	switch v := value.(type) {
	case nil:
		f.data = nil
		return nil
	case []string:
		f.data = append([]string(nil), v...)
		return nil
	default:
		return fmt.Errorf("fields: string list field %q: cannot process %T", f.name, value)
	}
}

// ProcessFormdata splits the submitted text block into lines. An empty
// submission stores an empty list.
func (f *StringListField) ProcessFormdata(values []string) error {
	if len(values) == 0 {
		return nil
	}
	f.raw = values
	f.data = splitLines(values[0])
	return nil
}

// PreValidate is a no-op; any line is a valid string.
func (f *StringListField) PreValidate(context.Context) error { return nil }

// PopulateObj writes the line list onto the target attribute.
func (f *StringListField) PopulateObj(_ context.Context, obj any, name string) error {
	return setAttr(obj, name, append([]string(nil), f.data...))
}

// Value returns the textarea redisplay text: the raw submission if one
// exists, otherwise the stored lines joined with newlines, falling back to
// the empty string.
func (f *StringListField) Value() string {
	if len(f.raw) > 0 {
		return f.raw[0]
	}
	return strings.Join(f.data, "\n")
}

// IntegerListField maps a repeated integer property to a newline-delimited
// textarea. Every line must parse as an integer; one malformed line fails
// the whole field.
type IntegerListField struct {
	textCore

	data []int64
}

// NewIntegerListField constructs an integer list field.
func NewIntegerListField(name string, opts ...Option) (*IntegerListField, error) {
	if name == "" {
		return nil, fmt.Errorf("fields: integer list field name is required")
	}
	return &IntegerListField{textCore: newTextCore(name, buildConfig(opts))}, nil
}

// Data returns the current list of integers.
func (f *IntegerListField) Data() []int64 { return f.data }

// ProcessData seeds the field from a stored integer list.
func (f *IntegerListField) ProcessData(_ context.Context, value any) error {
	switch v := value.(type) {
	case nil:
		f.data = nil
		return nil
	case []int64:
		f.data = append([]int64(nil), v...)
		return nil
	case []int:
		out := make([]int64, len(v))
		for i, n := range v {
			out[i] = int64(n)
		}
		f.data = out
		return nil
	default:
		return fmt.Errorf("fields: integer list field %q: cannot process %T", f.name, value)
	}
}

// ProcessFormdata parses every line of the submitted text block. On any
// parse failure the field reports a validation error and retains no partial
// data.
func (f *IntegerListField) ProcessFormdata(values []string) error {
	if len(values) == 0 {
		return nil
	}
	f.raw = values

	lines := splitLines(values[0])
	parsed := make([]int64, len(lines))
	for i, line := range lines {
		n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err != nil {
			return ErrInvalidIntList
		}
		parsed[i] = n
	}
	f.data = parsed
	return nil
}

// PreValidate is a no-op; parsing already happened in ProcessFormdata.
func (f *IntegerListField) PreValidate(context.Context) error { return nil }

// PopulateObj writes the integer list onto the target attribute.
func (f *IntegerListField) PopulateObj(_ context.Context, obj any, name string) error {
	return setAttr(obj, name, append([]int64(nil), f.data...))
}

// Value returns the textarea redisplay text, raw submission first.
func (f *IntegerListField) Value() string {
	if len(f.raw) > 0 {
		return f.raw[0]
	}
	lines := make([]string, len(f.data))
	for i, n := range f.data {
		lines[i] = strconv.FormatInt(n, 10)
	}
	return strings.Join(lines, "\n")
}
