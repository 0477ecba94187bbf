package conversation

import (
	"strings"

	"github.com/go-go-golems/promptweaver/pkg/templates"
)

// Family selects how a bound template is applied to turns.
type Family int

const (
	FamilyNone Family = iota
	FamilyPlain
	FamilyLlama2Chat
	FamilyOpenAI
	FamilyAlpaca
	// FamilyCustom is bound by SetCustomTemplate and always formats plain text.
	FamilyCustom
)

const (
	TemplateLlama2Chat = "llama-2-chat"
	TemplateOpenAI     = "openai"
	TemplateAlpaca     = "alpaca"
)

// instructionMarker is removed from the first user turn of llama-2-chat
// conversations, since the system template already opens the instruction.
const instructionMarker = " [INST]"

func (f Family) String() string {
	switch f {
	case FamilyNone:
		return "none"
	case FamilyPlain:
		return "plain"
	case FamilyLlama2Chat:
		return "llama-2-chat"
	case FamilyOpenAI:
		return "openai"
	case FamilyAlpaca:
		return "alpaca"
	case FamilyCustom:
		return "custom"
	}
	return "unknown"
}

// FamilyForTemplate maps a template id to its family.
func FamilyForTemplate(id string) Family {
	switch templates.NormalizeName(id) {
	case TemplateLlama2Chat:
		return FamilyLlama2Chat
	case TemplateOpenAI:
		return FamilyOpenAI
	case TemplateAlpaca:
		return FamilyAlpaca
	default:
		return FamilyPlain
	}
}

type userTurn struct {
	prompt string
	input  string
	// first is set when the conversation holds only the system entry.
	first bool
}

type strategy interface {
	renderSystem(tpl templates.Template, text string) (Entry, error)
	renderUser(tpl templates.Template, turn userTurn) (Entry, error)
	renderModel(tpl templates.Template, text string) (Entry, error)
	renderOneShot(tpl templates.Template, system string, turn userTurn) (string, error)
	structured() bool
}

func (f Family) strategy() strategy {
	switch f {
	case FamilyLlama2Chat:
		return llama2Strategy{}
	case FamilyOpenAI:
		return openAIStrategy{}
	case FamilyAlpaca:
		return alpacaStrategy{}
	case FamilyNone, FamilyPlain, FamilyCustom:
		return plainStrategy{}
	}
	return plainStrategy{}
}

type plainStrategy struct{}

func (plainStrategy) renderSystem(tpl templates.Template, text string) (Entry, error) {
	s, err := tpl.FormatSystem(strings.TrimSpace(text))
	if err != nil {
		return Entry{}, err
	}
	return Entry{Role: RoleSystem, Text: s}, nil
}

func (plainStrategy) renderUser(tpl templates.Template, turn userTurn) (Entry, error) {
	s, err := tpl.FormatUser(turn.prompt, turn.input)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Role: RoleUser, Text: s}, nil
}

func (plainStrategy) renderModel(tpl templates.Template, text string) (Entry, error) {
	s, err := tpl.FormatResponse(text)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Role: RoleModel, Text: s}, nil
}

func (plainStrategy) renderOneShot(tpl templates.Template, system string, turn userTurn) (string, error) {
	sys, err := tpl.FormatSystem(system)
	if err != nil {
		return "", err
	}
	user, err := tpl.FormatUser(turn.prompt, turn.input)
	if err != nil {
		return "", err
	}
	return sys + user, nil
}

func (plainStrategy) structured() bool { return false }

type llama2Strategy struct {
	plainStrategy
}

func (s llama2Strategy) renderUser(tpl templates.Template, turn userTurn) (Entry, error) {
	e, err := s.plainStrategy.renderUser(tpl, turn)
	if err != nil {
		return Entry{}, err
	}
	if turn.first {
		e.Text = strings.ReplaceAll(e.Text, instructionMarker, "")
	}
	return e, nil
}

type alpacaStrategy struct {
	plainStrategy
}

func (s alpacaStrategy) renderUser(tpl templates.Template, turn userTurn) (Entry, error) {
	if turn.input == "" {
		return s.plainStrategy.renderUser(tpl, turn)
	}
	text, err := tpl.FormatInput(turn.prompt, turn.input)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Role: RoleUser, Text: text}, nil
}

func (s alpacaStrategy) renderOneShot(tpl templates.Template, system string, turn userTurn) (string, error) {
	if turn.input == "" {
		return s.plainStrategy.renderOneShot(tpl, system, turn)
	}
	sys, err := tpl.FormatSystem(system)
	if err != nil {
		return "", err
	}
	in, err := tpl.FormatInput(turn.prompt, turn.input)
	if err != nil {
		return "", err
	}
	return sys + in, nil
}

// openAIStrategy keeps turns as role/content records. The template fields
// hold the role tags.
type openAIStrategy struct {
	plainStrategy
}

func (openAIStrategy) renderSystem(tpl templates.Template, text string) (Entry, error) {
	return Entry{Role: RoleSystem, Message: &Message{Role: tpl.System, Content: text}}, nil
}

func (openAIStrategy) renderUser(tpl templates.Template, turn userTurn) (Entry, error) {
	return Entry{Role: RoleUser, Message: &Message{Role: tpl.User, Content: turn.prompt}}, nil
}

func (openAIStrategy) renderModel(tpl templates.Template, text string) (Entry, error) {
	return Entry{Role: RoleModel, Message: &Message{Role: tpl.Response, Content: text}}, nil
}

func (openAIStrategy) structured() bool { return true }

func roleTag(tpl templates.Template, role Role) string {
	switch role {
	case RoleSystem:
		return tpl.System
	case RoleUser:
		return tpl.User
	case RoleModel:
		return tpl.Response
	}
	return string(role)
}
