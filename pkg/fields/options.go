package fields

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/goliatone/go-dsfields/pkg/datastore"
)

// Option configures a field at construction time.
type Option func(*config)

type config struct {
	label      string
	validators []Validator
	query      datastore.Query
	kind       datastore.Kind
	allowBlank bool
	blankText  string
	labelAttr  string
	labelFunc  func(datastore.Entity) string
}

// WithLabel sets the field's display label. It defaults to the field name.
func WithLabel(label string) Option {
	return func(cfg *config) {
		cfg.label = label
	}
}

// WithValidators appends user validators run after PreValidate.
func WithValidators(validators ...Validator) Option {
	return func(cfg *config) {
		for _, v := range validators {
			if v != nil {
				cfg.validators = append(cfg.validators, v)
			}
		}
	}
}

// WithQuery supplies the ready-made query listing selectable entities.
// Mutually exclusive with WithKind.
func WithQuery(query datastore.Query) Option {
	return func(cfg *config) {
		cfg.query = query
	}
}

// WithKind derives the selectable-entity query from the kind's default
// all-entities query. Mutually exclusive with WithQuery.
func WithKind(kind datastore.Kind) Option {
	return func(cfg *config) {
		cfg.kind = kind
	}
}

// AllowBlank adds a blank choice at the top of the option list so None can
// be chosen.
func AllowBlank() Option {
	return func(cfg *config) {
		cfg.allowBlank = true
	}
}

// WithBlankText overrides the blank option's display label.
func WithBlankText(text string) Option {
	return func(cfg *config) {
		cfg.blankText = text
	}
}

// WithLabelAttr labels each option with the named exported field of the
// entity struct.
func WithLabelAttr(attr string) Option {
	return func(cfg *config) {
		cfg.labelAttr = attr
	}
}

// WithLabelFunc labels each option with the result of fn.
func WithLabelFunc(fn func(datastore.Entity) string) Option {
	return func(cfg *config) {
		cfg.labelFunc = fn
	}
}

func buildConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// resolveQuery applies the query XOR kind rule. Neither being set is legal;
// such a field must receive a query via SetQuery before any data access.
func (cfg *config) resolveQuery() (datastore.Query, error) {
	if cfg.query != nil && cfg.kind != nil {
		return nil, errors.New("fields: provide either a query or a kind, not both")
	}
	if cfg.query != nil {
		return cfg.query, nil
	}
	if cfg.kind != nil {
		return cfg.kind.Query(), nil
	}
	return nil, nil
}

// labelExtractor collapses the label accessor choice into a single function
// at construction time. Precedence: explicit function, attribute name, then
// the entity's Stringer or its key token.
func (cfg *config) labelExtractor() func(datastore.Entity) string {
	if cfg.labelFunc != nil {
		return cfg.labelFunc
	}
	if cfg.labelAttr != "" {
		attr := cfg.labelAttr
		return func(entity datastore.Entity) string {
			return attrString(entity, attr)
		}
	}
	return func(entity datastore.Entity) string {
		if s, ok := entity.(fmt.Stringer); ok {
			return s.String()
		}
		return entity.Key().Encode()
	}
}

func attrString(entity datastore.Entity, attr string) string {
	rv := reflect.ValueOf(entity)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Sprint(entity)
	}
	field := rv.FieldByName(attr)
	if !field.IsValid() {
		return ""
	}
	return fmt.Sprint(field.Interface())
}
