package cmds

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-go-golems/promptweaver/pkg/conversation"
	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v3"
)

type chatPayload struct {
	Messages []openai.ChatCompletionMessage `json:"messages"`
}

// WritePrompt prints p in the requested format. json always produces an
// openai chat payload; text prints the raw prompt for text families.
func WritePrompt(w io.Writer, p *conversation.Prompt, format string) error {
	switch format {
	case "", "text":
		_, err := fmt.Fprintln(w, p.String())
		return err
	case "json":
		b, err := json.MarshalIndent(chatPayload{Messages: p.OpenAIMessages()}, "", "  ")
		if err != nil {
			return errors.Wrap(err, "could not encode prompt")
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(p); err != nil {
			return errors.Wrap(err, "could not encode prompt")
		}
		return encoder.Close()
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}
