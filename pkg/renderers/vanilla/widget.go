package vanilla

import "github.com/goliatone/go-dsfields/pkg/fields"

// Widget identifiers produced by WidgetFor.
const (
	WidgetSelect         = "select"
	WidgetSelectMultiple = "select-multiple"
	WidgetTextarea       = "textarea"
	WidgetInput          = "input"
)

// WidgetFor resolves which widget renders the field. Choice fields win over
// the text contract since selection fields have no free-text value.
func WidgetFor(field fields.Field) string {
	switch f := field.(type) {
	case fields.ChoiceField:
		if f.Multiple() {
			return WidgetSelectMultiple
		}
		return WidgetSelect
	case *fields.StringListField:
		return WidgetTextarea
	case *fields.IntegerListField:
		return WidgetTextarea
	case fields.TextField:
		return WidgetInput
	default:
		return WidgetInput
	}
}
