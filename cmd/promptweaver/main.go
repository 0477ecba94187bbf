package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-go-golems/promptweaver/cmd/promptweaver/cmds"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "promptweaver",
	Short: "promptweaver renders chat conversations into model specific prompts",
	// flags are only parsed once the command runs, so --log-level and co are
	// applied here a second time
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	SilenceUsage: true,
}

func setupLogging() error {
	logger, err := cmds.DefaultLogger(cmds.LogSettings{
		Level:      viper.GetString("log-level"),
		Format:     viper.GetString("log-format"),
		File:       viper.GetString("log-file"),
		WithCaller: viper.GetBool("with-caller"),
		Verbose:    viper.GetBool("verbose"),
	})
	if err != nil {
		return err
	}
	log.Logger = logger
	return nil
}

func configSearchPaths() []string {
	paths := []string{".", "$HOME/.promptweaver", "/etc/promptweaver"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "promptweaver"))
	}
	return paths
}

// configFlag finds --config before cobra parses the command line, since the
// config file decides the defaults of every other flag.
func configFlag(args []string) string {
	for i, arg := range args {
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func initConfig(rootCmd *cobra.Command, configPath string) error {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		for _, p := range configSearchPaths() {
			viper.AddConfigPath(p)
		}
	}

	var notFound viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return errors.Wrap(err, "could not read config")
	}

	viper.SetEnvPrefix("promptweaver")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return err
	}

	// only the config file and environment are known at this point
	if err := setupLogging(); err != nil {
		return err
	}
	log.Debug().
		Str("config", viper.ConfigFileUsed()).
		Msg("loaded configuration")

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// logging flags
	rootCmd.PersistentFlags().Bool("with-caller", false, "Log caller")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (trace, debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (json, text)")
	rootCmd.PersistentFlags().String("log-file", "", "Log file (default: stderr)")

	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ~/.promptweaver/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Verbose output")

	// template sources
	rootCmd.PersistentFlags().StringSlice("template-dirs", []string{}, "Directories with additional template files")
	rootCmd.PersistentFlags().String("templates-file", "", "Additional template file (json or yaml)")
	rootCmd.PersistentFlags().String("template", "", "Template to use when none is given by the command input")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text, json, yaml)")

	if err := initConfig(rootCmd, configFlag(os.Args[1:])); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(
		cmds.NewTemplatesCommand(),
		cmds.NewRenderCommand(),
		cmds.NewOneShotCommand(),
		cmds.NewConfigCommand(),
	)
}
