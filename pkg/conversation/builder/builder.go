package builder

import (
	"strings"

	"github.com/go-go-golems/glazed/pkg/helpers/templating"
	"github.com/go-go-golems/promptweaver/pkg/conversation"
	"github.com/go-go-golems/promptweaver/pkg/templates"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Turn is one entry of a transcript before template rendering.
type Turn struct {
	Role      string `json:"role" yaml:"role"`
	Text      string `json:"text" yaml:"text"`
	Preprompt string `json:"preprompt,omitempty" yaml:"preprompt,omitempty"`
	Input     string `json:"input,omitempty" yaml:"input,omitempty"`
}

// PromptBuilder helps construct a conversation.Builder from a template name
// or custom template, a system prompt and a list of turns.
//
// All texts are rendered as go templates (with sprig and glazed functions)
// against the configured variables before they are added to the conversation.
type PromptBuilder struct {
	templateName   string
	customTemplate *templates.Template
	systemPrompt   string
	turns          []Turn
	variables      map[string]interface{}
	historyPairs   int

	store  templates.Store
	logger *zerolog.Logger
}

// NewPromptBuilder creates a new builder for conversation.Builder
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		variables: make(map[string]interface{}),
	}
}

func (b *PromptBuilder) WithStore(store templates.Store) *PromptBuilder {
	b.store = store
	return b
}

func (b *PromptBuilder) WithLogger(logger zerolog.Logger) *PromptBuilder {
	b.logger = &logger
	return b
}

func (b *PromptBuilder) WithTemplate(name string) *PromptBuilder {
	b.templateName = name
	return b
}

func (b *PromptBuilder) WithCustomTemplate(tpl templates.Template) *PromptBuilder {
	b.customTemplate = &tpl
	return b
}

func (b *PromptBuilder) WithSystemPrompt(systemPrompt string) *PromptBuilder {
	b.systemPrompt = systemPrompt
	return b
}

func (b *PromptBuilder) WithTurns(turns ...Turn) *PromptBuilder {
	b.turns = append(b.turns, turns...)
	return b
}

func (b *PromptBuilder) WithVariables(variables map[string]interface{}) *PromptBuilder {
	if b.variables == nil {
		b.variables = make(map[string]interface{})
	}
	for k, v := range variables {
		b.variables[k] = v
	}
	return b
}

// WithHistory reduces the conversation to the last n user/model pairs after
// all turns have been added. Zero disables the reduction.
func (b *PromptBuilder) WithHistory(n int) *PromptBuilder {
	b.historyPairs = n
	return b
}

// Build creates and fills a new conversation.Builder
func (b *PromptBuilder) Build() (*conversation.Builder, error) {
	options := []conversation.BuilderOption{}
	if b.logger != nil {
		options = append(options, conversation.WithLogger(*b.logger))
	}
	c := conversation.NewBuilder(b.store, options...)

	if b.templateName != "" {
		if err := c.SelectTemplate(b.templateName); err != nil {
			return nil, err
		}
	}
	if b.customTemplate != nil {
		t := b.customTemplate
		c.SetCustomTemplate(t.System, t.Response, t.User, t.Input)
	}

	if err := b.initializeConversation(c); err != nil {
		return nil, err
	}

	return c, nil
}

func (b *PromptBuilder) initializeConversation(c *conversation.Builder) error {
	if b.systemPrompt != "" {
		s, err := b.render("system-prompt", b.systemPrompt)
		if err != nil {
			return err
		}
		if err := c.SetSystemPrompt(s); err != nil {
			return errors.Wrap(err, "failed to set system prompt")
		}
	}

	for i, turn := range b.turns {
		text, err := b.render("turn", turn.Text)
		if err != nil {
			return errors.Wrapf(err, "turn %d", i)
		}
		preprompt, err := b.render("preprompt", turn.Preprompt)
		if err != nil {
			return errors.Wrapf(err, "turn %d", i)
		}
		input, err := b.render("input", turn.Input)
		if err != nil {
			return errors.Wrapf(err, "turn %d", i)
		}

		err = c.AddTurn(turn.Role, text,
			conversation.WithPreprompt(preprompt),
			conversation.WithInput(input),
		)
		if err != nil {
			return errors.Wrapf(err, "failed to add turn %d", i)
		}
	}

	if b.historyPairs > 0 {
		if err := c.ReduceHistory(b.historyPairs); err != nil {
			return errors.Wrap(err, "failed to reduce history")
		}
	}

	return nil
}

func (b *PromptBuilder) render(name string, text string) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	t, err := templating.CreateTemplate(name).Parse(text)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse %s template", name)
	}

	var buf strings.Builder
	if err := t.Execute(&buf, b.variables); err != nil {
		return "", errors.Wrapf(err, "failed to execute %s template", name)
	}
	return buf.String(), nil
}
