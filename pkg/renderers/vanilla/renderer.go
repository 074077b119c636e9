// Package vanilla renders dsfields fields as plain HTML widgets using the
// embedded pongo2 template bundle. Option labels pass through a strict
// sanitisation policy before templating.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-dsfields/pkg/fields"
	"github.com/goliatone/go-dsfields/pkg/forms"
)

// Option configures the renderer before construction.
type Option func(*config)

type config struct {
	templateFS fs.FS
	submitText string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithSubmitText overrides the submit button label.
func WithSubmitText(text string) Option {
	return func(cfg *config) {
		if text != "" {
			cfg.submitText = text
		}
	}
}

// Renderer renders individual field widgets and whole forms.
type Renderer struct {
	mu         sync.RWMutex
	set        *pongo2.TemplateSet
	cache      map[string]*pongo2.Template
	policy     *bluemonday.Policy
	submitText string
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), submitText: "Submit"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	return &Renderer{
		set:        pongo2.NewSet("dsfields", pongo2.NewFSLoader(cfg.templateFS)),
		cache:      make(map[string]*pongo2.Template),
		policy:     bluemonday.StrictPolicy(),
		submitText: cfg.submitText,
	}, nil
}

// Name identifies the renderer.
func (r *Renderer) Name() string { return "vanilla" }

// ContentType is the MIME type of rendered output.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// RenderField renders one field's widget. Choice fields become selects
// (multiple when the field allows it), list fields become textareas, and
// everything else becomes a text input.
func (r *Renderer) RenderField(ctx context.Context, field fields.Field) ([]byte, error) {
	widget := WidgetFor(field)

	var (
		data map[string]any
		tmpl string
	)
	switch widget {
	case WidgetSelect, WidgetSelectMultiple:
		choiceField, ok := field.(fields.ChoiceField)
		if !ok {
			return nil, fmt.Errorf("vanilla: field %q: widget %q needs choices", field.Name(), widget)
		}
		choices, err := choiceField.IterChoices(ctx)
		if err != nil {
			return nil, fmt.Errorf("vanilla: field %q: iter choices: %w", field.Name(), err)
		}
		for i := range choices {
			choices[i].Label = r.policy.Sanitize(choices[i].Label)
		}
		tmpl = "templates/widgets/select.tmpl"
		data = map[string]any{
			"name":     field.Name(),
			"multiple": widget == WidgetSelectMultiple,
			"choices":  choices,
		}
	case WidgetTextarea, WidgetInput:
		textField, ok := field.(fields.TextField)
		if !ok {
			return nil, fmt.Errorf("vanilla: field %q: widget %q needs a text value", field.Name(), widget)
		}
		tmpl = "templates/widgets/textarea.tmpl"
		if widget == WidgetInput {
			tmpl = "templates/widgets/input.tmpl"
		}
		data = map[string]any{
			"name":  field.Name(),
			"value": textField.Value(),
		}
	default:
		return nil, fmt.Errorf("vanilla: field %q: unknown widget %q", field.Name(), widget)
	}

	out, err := r.render(tmpl, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla: field %q: %w", field.Name(), err)
	}
	return out, nil
}

// RenderForm renders every field of the form inside a <form> element posting
// to action, including any recorded field errors.
func (r *Renderer) RenderForm(ctx context.Context, form *forms.Form, action string) ([]byte, error) {
	type fieldRow struct {
		Name   string
		Label  string
		Widget string
		Errors []string
	}

	rows := make([]fieldRow, 0, len(form.Fields()))
	for _, field := range form.Fields() {
		widget, err := r.RenderField(ctx, field)
		if err != nil {
			return nil, err
		}
		rows = append(rows, fieldRow{
			Name:   field.Name(),
			Label:  r.policy.Sanitize(field.Label()),
			Widget: string(widget),
			Errors: form.FieldErrors(field.Name()),
		})
	}

	out, err := r.render("templates/form.tmpl", map[string]any{
		"action":      action,
		"rows":        rows,
		"submit_text": r.submitText,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla: render form: %w", err)
	}
	return out, nil
}

func (r *Renderer) render(name string, data map[string]any) ([]byte, error) {
	tmpl, err := r.template(name)
	if err != nil {
		return nil, err
	}
	out, err := tmpl.ExecuteBytes(pongo2.Context(data))
	if err != nil {
		return nil, fmt.Errorf("execute template %q: %w", name, err)
	}
	return out, nil
}

func (r *Renderer) template(name string) (*pongo2.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.cache[name]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.cache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := r.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("load template %q: %w", name, err)
	}
	r.cache[name] = tmpl
	return tmpl, nil
}
