package templates

// Template is the set of format strings used to wrap one model family's turns.
//
// System wraps the system message ({system}), User wraps a user turn
// ({prompt}, optionally {input}), Response wraps a model turn ({response}),
// and Input is the alternate user wrapper for instruction formats that carry a
// separate input field ({prompt} and {input}).
//
// For structured chat families the fields hold role tags instead of format
// strings.
type Template struct {
	System   string `json:"system" yaml:"system"`
	User     string `json:"user" yaml:"user"`
	Response string `json:"response" yaml:"response"`
	Input    string `json:"input,omitempty" yaml:"input,omitempty"`
}

func (t Template) FormatSystem(system string) (string, error) {
	return Format(t.System, Values{"system": system})
}

func (t Template) FormatUser(prompt, input string) (string, error) {
	return Format(t.User, Values{"prompt": prompt, "input": input})
}

func (t Template) FormatInput(prompt, input string) (string, error) {
	return Format(t.Input, Values{"prompt": prompt, "input": input})
}

func (t Template) FormatResponse(response string) (string, error) {
	return Format(t.Response, Values{"response": response})
}
