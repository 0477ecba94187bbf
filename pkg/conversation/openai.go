package conversation

import (
	"github.com/sashabaranov/go-openai"
)

// ToOpenAIMessages converts structured records into a chat completion
// payload. Role tags are passed through unchanged.
func ToOpenAIMessages(msgs []Message) []openai.ChatCompletionMessage {
	ret := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		ret = append(ret, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return ret
}

// OpenAIMessages returns the chat payload of a structured prompt. A text
// prompt is sent as a single user message.
func (p *Prompt) OpenAIMessages() []openai.ChatCompletionMessage {
	if !p.Structured {
		return []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: p.Text},
		}
	}
	return ToOpenAIMessages(p.Messages)
}
