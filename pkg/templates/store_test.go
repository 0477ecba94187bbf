package templates

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreIsCaseInsensitive(t *testing.T) {
	s := NewInMemoryStore()
	s.Put("  Vicuna ", Template{System: "{system}"})

	tpl, ok := s.Lookup("VICUNA")
	require.True(t, ok)
	assert.Equal(t, "{system}", tpl.System)
	assert.Equal(t, []string{"vicuna"}, s.Names())

	assert.True(t, s.Delete("vicuna"))
	assert.False(t, s.Delete("vicuna"))
	_, ok = s.Lookup("vicuna")
	assert.False(t, ok)
}

func TestInMemoryStoreMerge(t *testing.T) {
	a := NewInMemoryStoreFromMap(map[string]Template{
		"one": {System: "a1"},
		"two": {System: "a2"},
	})
	b := NewInMemoryStoreFromMap(map[string]Template{
		"TWO":   {System: "b2"},
		"three": {System: "b3"},
	})

	a.Merge(b)
	a.Merge(nil)

	assert.Equal(t, []string{"one", "three", "two"}, a.Names())
	tpl, _ := a.Lookup("two")
	assert.Equal(t, "b2", tpl.System)
}

func TestDefaults(t *testing.T) {
	s := Defaults()
	for _, name := range []string{
		"alpaca", "chatml", "llama-2-chat", "mistral-instruct",
		"openai", "orca-hashes", "vicuna", "zephyr",
	} {
		_, ok := s.Lookup(name)
		assert.True(t, ok, name)
	}

	vicuna, _ := s.Lookup("vicuna")
	assert.Equal(t, Template{
		System:   "{system}\n",
		User:     "USER: {prompt}\nASSISTANT:",
		Response: " {response}</s>",
	}, vicuna)

	// every default store is independent
	s.Put("vicuna", Template{})
	again, _ := Defaults().Lookup("vicuna")
	assert.Equal(t, vicuna, again)
}

func TestDecodeYAML(t *testing.T) {
	m, err := DecodeYAML([]byte(`
pipes:
  system: "{system}|"
  user: "{prompt}|"
  response: "{response}|"
`))
	require.NoError(t, err)
	require.Contains(t, m, "pipes")
	assert.Equal(t, "", m["pipes"].Input)

	out, err := EncodeYAML(m)
	require.NoError(t, err)
	assert.Contains(t, string(out), "pipes:")

	_, err = DecodeYAML([]byte("- not a map"))
	require.Error(t, err)
}

func TestDecodeJSONInvalid(t *testing.T) {
	_, err := DecodeJSON([]byte("{"))
	require.Error(t, err)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "templates.json", `{"Mine": {"system": "s", "user": "u", "response": "r", "input": "i"}}`)

	s, err := LoadFile(path)
	require.NoError(t, err)
	tpl, ok := s.Lookup("mine")
	require.True(t, ok)
	assert.Equal(t, Template{System: "s", User: "u", Response: "r", Input: "i"}, tpl)

	_, err = LoadFile(writeFile(t, dir, "templates.txt", "x"))
	require.Error(t, err)
}

func TestLoadDirOverridesInLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"shared": {"system": "from-a"}, "only-a": {"system": "a"}}`)
	writeFile(t, dir, "b.yaml", "shared:\n  system: from-b\n")
	writeFile(t, dir, "notes.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	s, err := LoadDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"only-a", "shared"}, s.Names())
	tpl, _ := s.Lookup("shared")
	assert.Equal(t, "from-b", tpl.System)
}

func TestLoadDirPropagatesErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", `{"x": {"system": "s"}}`)
	writeFile(t, dir, "bad.yaml", "x: [")

	_, err := LoadDir(context.Background(), dir)
	require.Error(t, err)

	_, err = LoadDir(context.Background(), filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestLoadDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"x": {"system": "s"}}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadDir(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
}
