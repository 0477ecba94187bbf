package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		tpl      string
		values   Values
		expected string
		err      error
	}{
		{
			name:     "simple",
			tpl:      "USER: {prompt}\nASSISTANT:",
			values:   Values{"prompt": "Hi"},
			expected: "USER: Hi\nASSISTANT:",
		},
		{
			name:     "repeated and unused",
			tpl:      "{prompt}/{prompt}",
			values:   Values{"prompt": "a", "input": "b"},
			expected: "a/a",
		},
		{
			name:     "escaped braces",
			tpl:      "{{literal}} {prompt} }}",
			values:   Values{"prompt": "x"},
			expected: "{literal} x }",
		},
		{
			name:     "values are not re-expanded",
			tpl:      "{prompt}",
			values:   Values{"prompt": "{input}"},
			expected: "{input}",
		},
		{
			name:     "format spec ignored",
			tpl:      "<{prompt:>10}><{prompt!r}>",
			values:   Values{"prompt": "x"},
			expected: "<x><x>",
		},
		{
			name:     "no placeholders",
			tpl:      "assistant",
			values:   Values{"response": "x"},
			expected: "assistant",
		},
		{
			name:   "unknown placeholder",
			tpl:    "{response}",
			values: Values{"prompt": "x"},
			err:    ErrUnknownPlaceholder,
		},
		{
			name:   "positional placeholder",
			tpl:    "{} and {0}",
			values: Values{},
			err:    ErrUnknownPlaceholder,
		},
		{
			name:   "unclosed brace",
			tpl:    "{prompt",
			values: Values{"prompt": "x"},
			err:    ErrMalformedTemplate,
		},
		{
			name:   "single closing brace",
			tpl:    "a } b",
			values: Values{},
			err:    ErrMalformedTemplate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.tpl, tt.values)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				require.ErrorIs(t, err, ErrFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTemplateFormatters(t *testing.T) {
	tpl := Template{
		System:   "{system}\n",
		User:     "Q: {prompt} ({input})",
		Response: "A: {response}",
		Input:    "I: {prompt}/{input}",
	}

	s, err := tpl.FormatSystem("sys")
	require.NoError(t, err)
	assert.Equal(t, "sys\n", s)

	s, err = tpl.FormatUser("p", "i")
	require.NoError(t, err)
	assert.Equal(t, "Q: p (i)", s)

	s, err = tpl.FormatInput("p", "i")
	require.NoError(t, err)
	assert.Equal(t, "I: p/i", s)

	s, err = tpl.FormatResponse("r")
	require.NoError(t, err)
	assert.Equal(t, "A: r", s)

	_, err = Template{Response: "{prompt}"}.FormatResponse("r")
	require.ErrorIs(t, err, ErrUnknownPlaceholder)
}
