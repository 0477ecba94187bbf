package templates

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const maxConcurrentLoads = 4

// DecodeJSON parses a JSON object mapping template ids to templates.
func DecodeJSON(data []byte) (map[string]Template, error) {
	ret := map[string]Template{}
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, errors.Wrap(err, "could not decode JSON templates")
	}
	return ret, nil
}

// DecodeYAML parses a YAML mapping of template ids to templates.
func DecodeYAML(data []byte) (map[string]Template, error) {
	ret := map[string]Template{}
	if err := yaml.Unmarshal(data, &ret); err != nil {
		return nil, errors.Wrap(err, "could not decode YAML templates")
	}
	return ret, nil
}

// EncodeYAML is used by the CLI to print templates.
func EncodeYAML(m map[string]Template) ([]byte, error) {
	b, err := yaml.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "could not encode YAML templates")
	}
	return b, nil
}

func isTemplateFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// ReadFile decodes a single template file, picking the codec by extension.
func ReadFile(path string) (map[string]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read template file %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(data)
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return nil, errors.Errorf("unsupported template file extension: %s", path)
	}
}

// LoadFile returns a store holding the templates of a single file.
func LoadFile(path string) (*InMemoryStore, error) {
	m, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Int("templates", len(m)).Msg("loaded template file")
	return NewInMemoryStoreFromMap(m), nil
}

// LoadDir reads every .json/.yaml/.yml file in dir (not recursive).
// Files are decoded concurrently and merged in lexical order, so a template
// defined in a later file overrides an earlier one.
func LoadDir(ctx context.Context, dir string) (*InMemoryStore, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read template directory %s", dir)
	}

	paths := []string{}
	for _, e := range entries {
		if e.IsDir() || !isTemplateFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	results := make([]map[string]Template, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := ReadFile(path)
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	store := NewInMemoryStore()
	for i, m := range results {
		for name, tpl := range m {
			if _, ok := store.Lookup(name); ok {
				log.Debug().Str("template", name).Str("path", paths[i]).Msg("overriding template")
			}
			store.Put(name, tpl)
		}
	}
	log.Debug().Str("dir", dir).Int("files", len(paths)).Int("templates", store.Len()).Msg("loaded template directory")

	return store, nil
}
