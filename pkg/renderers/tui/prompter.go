package tui

import (
	"context"
	"fmt"

	"github.com/goliatone/go-dsfields/pkg/fields"
	"github.com/goliatone/go-dsfields/pkg/forms"
)

// FormPrompter walks a form's fields, prompts for each, and feeds the
// answers back through ProcessFormdata so the normal validation lifecycle
// applies afterwards.
type FormPrompter struct {
	driver PromptDriver
}

// NewFormPrompter builds a prompter over the given driver. A nil driver
// falls back to the survey implementation.
func NewFormPrompter(driver PromptDriver) *FormPrompter {
	if driver == nil {
		driver = NewSurveyDriver()
	}
	return &FormPrompter{driver: driver}
}

// Run prompts for every field in declaration order. Choice fields become
// select prompts whose answers map back to option tokens; text fields
// become multi-line or single-line prompts seeded with the current value.
func (p *FormPrompter) Run(ctx context.Context, form *forms.Form) error {
	for _, field := range form.Fields() {
		if err := p.promptField(ctx, field); err != nil {
			return err
		}
	}
	return nil
}

func (p *FormPrompter) promptField(ctx context.Context, field fields.Field) error {
	switch f := field.(type) {
	case fields.ChoiceField:
		return p.promptChoice(ctx, f)
	case *fields.StringListField:
		return p.promptTextArea(ctx, f)
	case *fields.IntegerListField:
		return p.promptTextArea(ctx, f)
	case fields.TextField:
		answer, err := p.driver.Input(ctx, InputConfig{
			Message: f.Label(),
			Default: f.Value(),
		})
		if err != nil {
			return fmt.Errorf("tui: prompt %q: %w", f.Name(), err)
		}
		return f.ProcessFormdata([]string{answer})
	default:
		return fmt.Errorf("tui: field %q has no prompt mapping", field.Name())
	}
}

func (p *FormPrompter) promptChoice(ctx context.Context, field fields.ChoiceField) error {
	choices, err := field.IterChoices(ctx)
	if err != nil {
		return fmt.Errorf("tui: prompt %q: iter choices: %w", field.Name(), err)
	}

	options := make([]string, len(choices))
	var selected []int
	for i, choice := range choices {
		options[i] = choice.Label
		if options[i] == "" {
			options[i] = choice.Value
		}
		if choice.Selected {
			selected = append(selected, i)
		}
	}

	if field.Multiple() {
		picked, err := p.driver.MultiSelect(ctx, SelectConfig{
			Message:  field.Label(),
			Options:  options,
			Defaults: selected,
		})
		if err != nil {
			return fmt.Errorf("tui: prompt %q: %w", field.Name(), err)
		}
		tokens := make([]string, 0, len(picked))
		for _, index := range picked {
			if index >= 0 && index < len(choices) {
				tokens = append(tokens, choices[index].Value)
			}
		}
		return field.ProcessFormdata(tokens)
	}

	defaultIndex := 0
	if len(selected) > 0 {
		defaultIndex = selected[0]
	}
	picked, err := p.driver.Select(ctx, SelectConfig{
		Message:      field.Label(),
		Options:      options,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return fmt.Errorf("tui: prompt %q: %w", field.Name(), err)
	}
	if picked < 0 || picked >= len(choices) {
		return fmt.Errorf("tui: prompt %q: selection out of range", field.Name())
	}
	return field.ProcessFormdata([]string{choices[picked].Value})
}

func (p *FormPrompter) promptTextArea(ctx context.Context, field fields.TextField) error {
	answer, err := p.driver.TextArea(ctx, TextAreaConfig{
		Message: field.Label(),
		Default: field.Value(),
	})
	if err != nil {
		return fmt.Errorf("tui: prompt %q: %w", field.Name(), err)
	}
	return field.ProcessFormdata([]string{answer})
}
