package builder

import (
	"io"
	"os"

	"github.com/go-go-golems/promptweaver/pkg/templates"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Transcript is the file representation of a conversation to render.
// YAML is a superset of JSON, so both formats are accepted.
type Transcript struct {
	Template  string                 `yaml:"template,omitempty"`
	Custom    *templates.Template    `yaml:"custom,omitempty"`
	System    string                 `yaml:"system,omitempty"`
	Variables map[string]interface{} `yaml:"variables,omitempty"`
	History   int                    `yaml:"history,omitempty"`
	Turns     []Turn                 `yaml:"turns,omitempty"`
}

func DecodeTranscript(r io.Reader) (*Transcript, error) {
	t := &Transcript{}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(t); err != nil {
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		return nil, errors.Wrap(err, "could not decode transcript")
	}
	return t, nil
}

func LoadTranscript(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open transcript %s", path)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	return DecodeTranscript(f)
}

// PromptBuilder returns a builder preloaded with the transcript.
// Template selection from the transcript can be overridden by the caller
// afterwards with WithTemplate.
func (t *Transcript) PromptBuilder() *PromptBuilder {
	b := NewPromptBuilder().
		WithTemplate(t.Template).
		WithSystemPrompt(t.System).
		WithVariables(t.Variables).
		WithHistory(t.History).
		WithTurns(t.Turns...)
	if t.Custom != nil {
		b = b.WithCustomTemplate(*t.Custom)
	}
	return b
}
