package builder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-go-golems/promptweaver/pkg/conversation"
	"github.com/go-go-golems/promptweaver/pkg/templates"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRendersVariables(t *testing.T) {
	c, err := NewPromptBuilder().
		WithLogger(zerolog.Nop()).
		WithTemplate("vicuna").
		WithSystemPrompt("You are {{ .name | upper }}.").
		WithVariables(map[string]interface{}{"name": "helpful", "question": "Hi"}).
		WithTurns(
			Turn{Role: "user", Text: "{{ .question }}"},
			Turn{Role: "model", Text: "Hello!"},
		).
		Build()
	require.NoError(t, err)

	p, err := c.GeneratePrompt()
	require.NoError(t, err)
	assert.Equal(t, "You are HELPFUL.\nUSER: Hi\nASSISTANT: Hello!</s>", p.Text)
}

func TestBuildRendersGlazedTemplateFuncs(t *testing.T) {
	c, err := NewPromptBuilder().
		WithLogger(zerolog.Nop()).
		WithTemplate("vicuna").
		WithTurns(Turn{Role: "user", Text: "Explain {{ .fn | code }} in {{ padLeft .n 3 }} words"}).
		WithVariables(map[string]interface{}{"fn": "Format", "n": "5"}).
		Build()
	require.NoError(t, err)

	p, err := c.GeneratePrompt()
	require.NoError(t, err)
	assert.Equal(t, "USER: Explain `Format` in   5 words\nASSISTANT:", p.Text)
}

func TestBuildLeavesPlainBracesAlone(t *testing.T) {
	c, err := NewPromptBuilder().
		WithLogger(zerolog.Nop()).
		WithTemplate("vicuna").
		WithTurns(Turn{Role: "user", Text: "print {x}"}).
		Build()
	require.NoError(t, err)

	p, err := c.GeneratePrompt()
	require.NoError(t, err)
	assert.Equal(t, "USER: print {x}\nASSISTANT:", p.Text)
}

func TestBuildUnknownTemplate(t *testing.T) {
	_, err := NewPromptBuilder().
		WithLogger(zerolog.Nop()).
		WithTemplate("nope").
		Build()
	require.ErrorIs(t, err, conversation.ErrTemplateNotFound)
}

func TestBuildInvalidTurn(t *testing.T) {
	_, err := NewPromptBuilder().
		WithLogger(zerolog.Nop()).
		WithTemplate("alpaca").
		WithTurns(Turn{Role: "model", Text: "x", Input: "y"}).
		Build()
	require.ErrorIs(t, err, conversation.ErrInvalidArgument)
}

func TestBuildWithCustomStoreAndHistory(t *testing.T) {
	store := templates.NewInMemoryStore()
	store.Put("Pipes", templates.Template{System: "{system}|", User: "u:{prompt}|", Response: "m:{response}|"})

	c, err := NewPromptBuilder().
		WithLogger(zerolog.Nop()).
		WithStore(store).
		WithTemplate("pipes").
		WithSystemPrompt("s").
		WithTurns(
			Turn{Role: "user", Text: "1"},
			Turn{Role: "model", Text: "2"},
			Turn{Role: "user", Text: "3"},
			Turn{Role: "model", Text: "4"},
			Turn{Role: "user", Text: "5"},
		).
		WithHistory(1).
		Build()
	require.NoError(t, err)

	p, err := c.GeneratePrompt()
	require.NoError(t, err)
	assert.Equal(t, "s|u:5|", p.Text)
}

const transcriptYAML = `
template: alpaca
system: "{{ .persona }}"
variables:
  persona: You follow instructions.
turns:
  - role: user
    text: Translate to English
    input: bonjour
  - role: model
    text: hello
`

func TestDecodeTranscript(t *testing.T) {
	tr, err := DecodeTranscript(strings.NewReader(transcriptYAML))
	require.NoError(t, err)
	assert.Equal(t, "alpaca", tr.Template)
	require.Len(t, tr.Turns, 2)
	assert.Equal(t, "bonjour", tr.Turns[0].Input)

	c, err := tr.PromptBuilder().WithLogger(zerolog.Nop()).Build()
	require.NoError(t, err)

	p, err := c.GeneratePrompt()
	require.NoError(t, err)
	assert.Equal(t,
		"You follow instructions.\n\n### Instruction:\nTranslate to English\n\n### Input:\nbonjour\n\n### Response:\nhello",
		p.Text)
}

func TestDecodeTranscriptRejectsUnknownFields(t *testing.T) {
	_, err := DecodeTranscript(strings.NewReader("template: vicuna\nturnz: []\n"))
	require.Error(t, err)
}

func TestLoadTranscriptJSONWithCustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.json")
	content := `{
  "custom": {"system": "<{system}>", "user": "[{prompt}]", "response": "({response})"},
  "system": "sys",
  "turns": [{"role": "user", "text": "q"}, {"role": "model", "text": "a"}]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tr, err := LoadTranscript(path)
	require.NoError(t, err)
	require.NotNil(t, tr.Custom)

	c, err := tr.PromptBuilder().WithLogger(zerolog.Nop()).Build()
	require.NoError(t, err)
	assert.Equal(t, conversation.FamilyCustom, c.Family())

	p, err := c.GeneratePrompt()
	require.NoError(t, err)
	assert.Equal(t, "<sys>[q](a)", p.Text)
}

func TestLoadTranscriptMissingFile(t *testing.T) {
	_, err := LoadTranscript(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
