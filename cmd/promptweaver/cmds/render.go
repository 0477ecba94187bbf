package cmds

import (
	"github.com/go-go-golems/promptweaver/pkg/conversation"
	"github.com/go-go-golems/promptweaver/pkg/conversation/builder"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render TRANSCRIPT",
		Short: "Render a transcript file (yaml or json, - for stdin) into a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				tr  *builder.Transcript
				err error
			)
			if args[0] == "-" {
				tr, err = builder.DecodeTranscript(cmd.InOrStdin())
			} else {
				tr, err = builder.LoadTranscript(args[0])
			}
			if err != nil {
				return err
			}

			vars, err := cmd.Flags().GetStringToString("var")
			if err != nil {
				return err
			}
			if tr.Variables == nil {
				tr.Variables = map[string]interface{}{}
			}
			for k, v := range vars {
				tr.Variables[k] = v
			}
			if cmd.Flags().Changed("history") {
				tr.History, _ = cmd.Flags().GetInt("history")
			}
			if tr.Template == "" && tr.Custom == nil {
				tr.Template = viper.GetString("template")
			}

			store, err := LoadStore(cmd.Context())
			if err != nil {
				return err
			}

			c, err := tr.PromptBuilder().
				WithStore(store).
				WithLogger(log.Logger).
				Build()
			if err != nil {
				return err
			}

			return writeConversation(cmd, c)
		},
	}

	cmd.Flags().StringToString("var", map[string]string{}, "Template variables (key=value)")
	cmd.Flags().Int("history", 0, "Keep only the last N user/model pairs")

	return cmd
}

func writeConversation(cmd *cobra.Command, c *conversation.Builder) error {
	p, err := c.GeneratePrompt()
	if err != nil {
		return err
	}
	log.Debug().
		Str("conversation_id", c.ID().String()).
		Str("template", c.TemplateID()).
		Int("turns", c.Len()).
		Msg("rendered conversation")
	return WritePrompt(cmd.OutOrStdout(), p, viper.GetString("output"))
}

func NewOneShotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "one-shot PROMPT",
		Short: "Render a single prompt with a system section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := viper.GetString("template")
			if name == "" {
				return errors.New("--template is required")
			}

			store, err := LoadStore(cmd.Context())
			if err != nil {
				return err
			}

			c := conversation.NewBuilder(store, conversation.WithLogger(log.Logger))
			if err := c.SelectTemplate(name); err != nil {
				return err
			}

			system, _ := cmd.Flags().GetString("system")
			preprompt, _ := cmd.Flags().GetString("preprompt")
			input, _ := cmd.Flags().GetString("input")

			s, err := c.GenerateOneShot(args[0],
				conversation.WithSystemPrompt(system),
				conversation.WithPreprompt(preprompt),
				conversation.WithInput(input),
			)
			if err != nil {
				return err
			}

			return WritePrompt(cmd.OutOrStdout(), &conversation.Prompt{Text: s}, viper.GetString("output"))
		},
	}

	cmd.Flags().String("system", "", "System prompt")
	cmd.Flags().String("preprompt", "", "Text prepended to the prompt")
	cmd.Flags().String("input", "", "Separate input for instruction templates (alpaca)")

	return cmd
}
