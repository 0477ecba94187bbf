package cmds

import (
	"fmt"

	"github.com/go-go-golems/promptweaver/pkg/conversation"
	"github.com/go-go-golems/promptweaver/pkg/templates"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewTemplatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect the available prompt templates",
	}

	cmd.AddCommand(newListTemplatesCommand())
	cmd.AddCommand(newShowTemplateCommand())

	return cmd
}

func newListTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List template names and their family",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := LoadStore(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range store.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, conversation.FamilyForTemplate(name))
			}
			return nil
		},
	}
}

func newShowTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME...",
		Short: "Print templates as YAML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := LoadStore(cmd.Context())
			if err != nil {
				return err
			}
			m := map[string]templates.Template{}
			for _, name := range args {
				tpl, ok := store.Lookup(name)
				if !ok {
					return errors.Wrapf(conversation.ErrTemplateNotFound, "%q", name)
				}
				m[templates.NormalizeName(name)] = tpl
			}
			b, err := templates.EncodeYAML(m)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
