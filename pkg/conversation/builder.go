package conversation

import (
	"strings"

	"github.com/go-go-golems/promptweaver/pkg/templates"
	"github.com/google/uuid"
	clone "github.com/huandu/go-clone"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultHistoryPairs is the number of user/model pairs kept by ReduceHistory
// when callers have no better value.
const DefaultHistoryPairs = 4

type Builder struct {
	id         uuid.UUID
	store      templates.Store
	baseLogger zerolog.Logger
	logger     zerolog.Logger

	template   templates.Template
	templateID string
	family     Family

	systemText string
	turns      []Entry
}

// NewBuilder creates an empty builder. A nil store falls back to the built-in
// templates.
func NewBuilder(store templates.Store, options ...BuilderOption) *Builder {
	if store == nil {
		store = templates.Defaults()
	}
	ret := &Builder{
		id:         uuid.Nil,
		store:      store,
		baseLogger: log.Logger,
		family:     FamilyNone,
	}
	for _, option := range options {
		option(ret)
	}
	if ret.id == uuid.Nil {
		ret.id = uuid.New()
	}
	ret.logger = ret.baseLogger.With().Str("conversation_id", ret.id.String()).Logger()

	return ret
}

func (b *Builder) ID() uuid.UUID {
	return b.id
}

func (b *Builder) TemplateID() string {
	return b.templateID
}

func (b *Builder) Family() Family {
	return b.family
}

func (b *Builder) Template() templates.Template {
	return b.template
}

func (b *Builder) SystemText() string {
	return b.systemText
}

// IsBracketedInstructionFormat reports whether the first user turn has its
// opening instruction marker removed.
func (b *Builder) IsBracketedInstructionFormat() bool {
	return b.family == FamilyLlama2Chat
}

func (b *Builder) Len() int {
	return len(b.turns)
}

// Turns returns a copy of the conversation entries.
func (b *Builder) Turns() []Entry {
	return clone.Clone(b.turns).([]Entry)
}

// Clone forks the conversation. The copy gets a new id and shares the store.
func (b *Builder) Clone() *Builder {
	ret := *b
	ret.id = uuid.New()
	ret.turns = b.Turns()
	ret.logger = ret.baseLogger.With().
		Str("conversation_id", ret.id.String()).
		Str("forked_from", b.id.String()).
		Logger()
	return &ret
}

func (b *Builder) ensureBound() error {
	if b.family == FamilyNone {
		return ErrNoTemplateBound
	}
	return nil
}

// SelectTemplate binds the named template. On failure the builder is left
// unchanged.
func (b *Builder) SelectTemplate(name string) error {
	id := templates.NormalizeName(name)
	tpl, ok := b.store.Lookup(id)
	if !ok {
		return errors.Wrapf(ErrTemplateNotFound, "%q", name)
	}

	b.template = tpl
	b.templateID = id
	b.family = FamilyForTemplate(id)

	b.logger.Debug().
		Str("template", id).
		Str("family", b.family.String()).
		Msg("selected template")
	return nil
}

// SetCustomTemplate binds ad hoc format strings. The template id is left as
// is, but rendering always uses plain string formatting. This also holds when
// the id is llama-2-chat or alpaca: the first user turn keeps its instruction
// marker and one-shot prompts never use the input section.
func (b *Builder) SetCustomTemplate(system, response, user, input string) {
	b.template = templates.Template{
		System:   system,
		User:     user,
		Response: response,
		Input:    input,
	}
	b.family = FamilyCustom

	b.logger.Debug().
		Str("template", b.templateID).
		Msg("set custom template")
}

// SetSystemPrompt replaces the whole conversation with a single system entry.
func (b *Builder) SetSystemPrompt(text string) error {
	if err := b.ensureBound(); err != nil {
		return err
	}
	e, err := b.family.strategy().renderSystem(b.template, text)
	if err != nil {
		return errors.Wrap(err, "could not render system prompt")
	}

	b.turns = []Entry{e}
	b.systemText = text

	b.logger.Trace().Int("turns", len(b.turns)).Msg("set system prompt")
	return nil
}

// AddTurn appends a turn for role (system, user or model, case-insensitive).
//
// A system turn replaces the conversation, see SetSystemPrompt.
func (b *Builder) AddTurn(role string, text string, opts ...TurnOption) error {
	r, err := ParseRole(role)
	if err != nil {
		return err
	}
	o := applyTurnOptions(opts)
	if o.systemPrompt != "" {
		return errors.Wrap(ErrInvalidArgument, "system prompt option is only valid for one-shot prompts")
	}
	if o.input != "" && r != RoleUser {
		return errors.Wrapf(ErrInvalidArgument, "input can only be used with the user role, got %s", r)
	}
	if err := b.ensureBound(); err != nil {
		return err
	}

	combined := strings.TrimSpace(o.preprompt) + strings.TrimSpace(text)
	s := b.family.strategy()

	var e Entry
	switch r {
	case RoleSystem:
		return b.SetSystemPrompt(combined)
	case RoleUser:
		e, err = s.renderUser(b.template, userTurn{
			prompt: combined,
			input:  strings.TrimSpace(o.input),
			first:  len(b.turns) == 1,
		})
	case RoleModel:
		e, err = s.renderModel(b.template, combined)
	}
	if err != nil {
		return errors.Wrapf(err, "could not render %s turn", r)
	}

	b.turns = append(b.turns, e)

	b.logger.Trace().
		Str("role", string(r)).
		Int("turns", len(b.turns)).
		Msg("added turn")
	return nil
}

// ClearConversation keeps only the system entry, if any.
func (b *Builder) ClearConversation() error {
	if err := b.ensureBound(); err != nil {
		return err
	}
	if len(b.turns) > 1 {
		b.turns = b.turns[:1]
	}
	return nil
}

// ReduceHistory keeps the system entry and the last keep user/model pairs,
// counting a trailing incomplete pair. Dropped turns are gone for good.
func (b *Builder) ReduceHistory(keep int) error {
	if err := b.ensureBound(); err != nil {
		return err
	}
	if len(b.turns) == 0 {
		return nil
	}

	window := keep*2 - 1
	if len(b.turns)-1 < window {
		window = len(b.turns) - 1
	}

	ret := make([]Entry, 0, 1+max(window, 0))
	ret = append(ret, b.turns[0])
	if window > 0 {
		ret = append(ret, b.turns[len(b.turns)-window:]...)
	}

	b.logger.Debug().
		Int("keep", keep).
		Int("before", len(b.turns)).
		Int("after", len(ret)).
		Msg("reduced history")
	b.turns = ret
	return nil
}

// GenerateOneShot renders a system section and a single user prompt without
// touching the conversation. A non-empty WithSystemPrompt replaces the stored
// system text; if none was ever set the system section is rendered empty.
func (b *Builder) GenerateOneShot(userPrompt string, opts ...TurnOption) (string, error) {
	if err := b.ensureBound(); err != nil {
		return "", err
	}
	o := applyTurnOptions(opts)

	systemText := b.systemText
	if o.systemPrompt != "" {
		systemText = strings.TrimSpace(o.systemPrompt)
	}

	ret, err := b.family.strategy().renderOneShot(b.template, strings.TrimSpace(systemText), userTurn{
		prompt: strings.TrimSpace(o.preprompt) + strings.TrimSpace(userPrompt),
		input:  strings.TrimSpace(o.input),
	})
	if err != nil {
		return "", errors.Wrap(err, "could not render one-shot prompt")
	}

	b.systemText = systemText
	return strings.TrimSpace(ret), nil
}

// GeneratePrompt renders the conversation. Structured families return the
// records; every other family returns the concatenated, trimmed text.
func (b *Builder) GeneratePrompt() (*Prompt, error) {
	if err := b.ensureBound(); err != nil {
		return nil, err
	}

	if b.family.strategy().structured() {
		msgs := make([]Message, 0, len(b.turns))
		for _, e := range b.turns {
			if e.Message != nil {
				msgs = append(msgs, *e.Message)
				continue
			}
			// text rendered before switching to a structured template
			msgs = append(msgs, Message{Role: roleTag(b.template, e.Role), Content: e.Text})
		}
		return &Prompt{Messages: msgs, Structured: true}, nil
	}

	var sb strings.Builder
	for _, e := range b.turns {
		sb.WriteString(e.String())
	}
	return &Prompt{Text: strings.TrimSpace(sb.String())}, nil
}
