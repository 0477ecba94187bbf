package conversation

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type BuilderOption func(*Builder)

func WithLogger(logger zerolog.Logger) BuilderOption {
	return func(b *Builder) {
		b.baseLogger = logger
	}
}

func WithConversationID(id uuid.UUID) BuilderOption {
	return func(b *Builder) {
		b.id = id
	}
}

type turnOptions struct {
	preprompt    string
	input        string
	systemPrompt string
}

// TurnOption configures AddTurn and GenerateOneShot.
type TurnOption func(*turnOptions)

// WithPreprompt prepends text to the turn. Both parts are trimmed and joined
// without a separator.
func WithPreprompt(preprompt string) TurnOption {
	return func(o *turnOptions) {
		o.preprompt = preprompt
	}
}

// WithInput sets the separate input field of instruction-style templates.
// Only valid for user turns.
func WithInput(input string) TurnOption {
	return func(o *turnOptions) {
		o.input = input
	}
}

// WithSystemPrompt overrides the system text for GenerateOneShot.
func WithSystemPrompt(systemPrompt string) TurnOption {
	return func(o *turnOptions) {
		o.systemPrompt = systemPrompt
	}
}

func applyTurnOptions(opts []TurnOption) turnOptions {
	ret := turnOptions{}
	for _, o := range opts {
		o(&ret)
	}
	return ret
}
