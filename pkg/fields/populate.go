package fields

import (
	"fmt"
	"reflect"
	"strings"
)

// setAttr assigns value to obj's attribute name. obj is either a
// map[string]any or a pointer to a struct with a matching exported field
// (exact name first, then case-insensitive). A nil value zeroes the target.
func setAttr(obj any, name string, value any) error {
	if obj == nil {
		return fmt.Errorf("fields: populate %q: target is nil", name)
	}
	if m, ok := obj.(map[string]any); ok {
		m[name] = value
		return nil
	}

	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("fields: populate %q: target must be a map or struct pointer, got %T", name, obj)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("fields: populate %q: target must point at a struct, got %T", name, obj)
	}

	target := rv.FieldByName(name)
	if !target.IsValid() {
		target = rv.FieldByNameFunc(func(candidate string) bool {
			return strings.EqualFold(candidate, name)
		})
	}
	if !target.IsValid() {
		return fmt.Errorf("fields: populate %q: no such field on %T", name, obj)
	}
	if !target.CanSet() {
		return fmt.Errorf("fields: populate %q: field is not settable on %T", name, obj)
	}

	if value == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	vv := reflect.ValueOf(value)
	if !vv.Type().AssignableTo(target.Type()) {
		return fmt.Errorf("fields: populate %q: cannot assign %T to %s", name, value, target.Type())
	}
	target.Set(vv)
	return nil
}
