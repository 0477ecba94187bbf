package conversation

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
	RoleModel  Role = "model"
)

// ParseRole accepts system, user and model in any case. Surrounding
// whitespace is ignored.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleSystem, RoleUser, RoleModel:
		return r, nil
	default:
		return "", errors.Wrapf(ErrInvalidRole, "%q", s)
	}
}

// Message is a structured role/content record, as used by chat APIs.
type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

func (m Message) String() string {
	return fmt.Sprintf("[%s]: %s", m.Role, strings.TrimRight(m.Content, "\n"))
}

// Entry is one element of the conversation: either a pre-formatted string or,
// for structured template families, a Message.
type Entry struct {
	Role    Role     `json:"role" yaml:"role"`
	Text    string   `json:"text,omitempty" yaml:"text,omitempty"`
	Message *Message `json:"message,omitempty" yaml:"message,omitempty"`
}

func (e Entry) IsStructured() bool {
	return e.Message != nil
}

// String returns the text that the entry contributes to a concatenated prompt.
func (e Entry) String() string {
	if e.Message != nil {
		return e.Message.Content
	}
	return e.Text
}

// Prompt is the rendered conversation. Exactly one of Text and Messages is
// meaningful, depending on the bound template family.
type Prompt struct {
	Text       string    `json:"text,omitempty" yaml:"text,omitempty"`
	Messages   []Message `json:"messages,omitempty" yaml:"messages,omitempty"`
	Structured bool      `json:"structured" yaml:"structured"`
}

func (p *Prompt) IsStructured() bool {
	return p.Structured
}

func (p *Prompt) String() string {
	if !p.Structured {
		return p.Text
	}
	lines := make([]string, 0, len(p.Messages))
	for _, m := range p.Messages {
		lines = append(lines, m.String())
	}
	return strings.Join(lines, "\n")
}
