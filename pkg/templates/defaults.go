package templates

import (
	_ "embed"
)

//go:embed defaults.json
var defaultTemplatesJSON []byte

// Defaults returns a fresh store holding the built-in templates.
func Defaults() *InMemoryStore {
	m, err := DecodeJSON(defaultTemplatesJSON)
	if err != nil {
		panic(err)
	}
	return NewInMemoryStoreFromMap(m)
}
