package cmds

import (
	"context"

	"github.com/go-go-golems/promptweaver/pkg/templates"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// LoadStore builds the template store from the built-in templates, the
// configured template directories and the templates file, in that order.
func LoadStore(ctx context.Context) (*templates.InMemoryStore, error) {
	return loadStore(ctx, viper.GetStringSlice("template-dirs"), viper.GetString("templates-file"))
}

func loadStore(ctx context.Context, dirs []string, file string) (*templates.InMemoryStore, error) {
	store := templates.Defaults()

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		s, err := templates.LoadDir(ctx, dir)
		if err != nil {
			return nil, err
		}
		store.Merge(s)
	}

	if file != "" {
		s, err := templates.LoadFile(file)
		if err != nil {
			return nil, err
		}
		store.Merge(s)
	}

	log.Debug().Strs("templates", store.Names()).Msg("template store ready")
	return store, nil
}
