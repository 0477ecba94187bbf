package cmds

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const templateDirsKey = "template-dirs"

// commands for manipulating the config file
//
// - add / remove template directories
// - list template directories

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the promptweaver configuration file",
	}

	dirs := &cobra.Command{
		Use:   "template-dirs",
		Short: "Manage the template directories in the configuration",
	}
	dirs.AddCommand(newAddTemplateDirCommand())
	dirs.AddCommand(newRemoveTemplateDirCommand())
	dirs.AddCommand(newListTemplateDirsCommand())

	cmd.AddCommand(dirs)
	return cmd
}

func configFileUsed() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return "", errors.New("no config file found")
	}
	return configFile, nil
}

func newAddTemplateDirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [directories...]",
		Short: "Add directories to the template-dirs entry in the config file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := configFileUsed()
			if err != nil {
				return err
			}
			root, err := readAndParseConfig(configFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			added, err := addDirs(out, root, args)
			if err != nil {
				return err
			}
			if !added {
				return nil
			}

			if err := writeConfig(configFile, root); err != nil {
				return err
			}
			fmt.Fprintln(out, "\nCurrent template directories:")
			printDirs(out, findOrCreateSequence(root, templateDirsKey))
			return nil
		},
	}
}

func newRemoveTemplateDirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [directories...]",
		Short: "Remove directories from the template-dirs entry in the config file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := configFileUsed()
			if err != nil {
				return err
			}
			root, err := readAndParseConfig(configFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			removed, err := removeDirs(out, root, args)
			if err != nil {
				return err
			}
			if !removed {
				return nil
			}

			if err := writeConfig(configFile, root); err != nil {
				return err
			}
			fmt.Fprintln(out, "\nUpdated template directories:")
			printDirs(out, findOrCreateSequence(root, templateDirsKey))
			return nil
		},
	}
}

func newListTemplateDirsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the template directories of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := configFileUsed()
			if err != nil {
				return err
			}
			root, err := readAndParseConfig(configFile)
			if err != nil {
				return err
			}
			printDirs(cmd.OutOrStdout(), findOrCreateSequence(root, templateDirsKey))
			return nil
		},
	}
}

func addDirs(out io.Writer, root *yaml.Node, dirs []string) (bool, error) {
	dirsNode := findOrCreateSequence(root, templateDirsKey)
	added := false
	for _, dir := range dirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return false, errors.Wrapf(err, "error getting absolute path for %s", dir)
		}
		if dirExists(dirsNode, absDir) {
			fmt.Fprintf(out, "Template directory %s already exists in the list. Skipping.\n", absDir)
			continue
		}
		fmt.Fprintf(out, "Adding %s to template directories.\n", absDir)
		dirsNode.Content = append(dirsNode.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: absDir,
		})
		added = true
	}
	return added, nil
}

func removeDirs(out io.Writer, root *yaml.Node, dirs []string) (bool, error) {
	dirsNode := findOrCreateSequence(root, templateDirsKey)
	removed := false
	for _, dir := range dirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return false, errors.Wrapf(err, "error getting absolute path for %s", dir)
		}
		if removeDir(dirsNode, absDir) {
			fmt.Fprintf(out, "Removed %s from template directories.\n", absDir)
			removed = true
		} else {
			fmt.Fprintf(out, "Template directory %s not found in the list. Skipping.\n", absDir)
		}
	}
	return removed, nil
}

func readAndParseConfig(configFile string) (*yaml.Node, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "error parsing config file")
	}
	return &root, nil
}

func writeConfig(configFile string, root *yaml.Node) error {
	f, err := os.Create(configFile)
	if err != nil {
		return errors.Wrap(err, "error opening config file for writing")
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return errors.Wrap(err, "error writing config file")
	}
	return encoder.Close()
}

// findOrCreateSequence returns the sequence stored under key in the top level
// mapping of root, creating the document, mapping and sequence as needed.
func findOrCreateSequence(root *yaml.Node, key string) *yaml.Node {
	if root.Kind != yaml.DocumentNode {
		if root.Kind == 0 {
			root.Kind = yaml.DocumentNode
		} else {
			inner := *root
			*root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{&inner}}
		}
	}

	var mapNode *yaml.Node
	if len(root.Content) > 0 && root.Content[0].Kind == yaml.MappingNode {
		mapNode = root.Content[0]
	} else {
		mapNode = &yaml.Node{Kind: yaml.MappingNode}
		root.Content = []*yaml.Node{mapNode}
	}

	for i := 0; i < len(mapNode.Content); i += 2 {
		if mapNode.Content[i].Value == key {
			if mapNode.Content[i+1].Kind != yaml.SequenceNode {
				mapNode.Content[i+1] = &yaml.Node{Kind: yaml.SequenceNode}
			}
			return mapNode.Content[i+1]
		}
	}

	keyNode := &yaml.Node{
		Kind:  yaml.ScalarNode,
		Value: key,
	}
	valueNode := &yaml.Node{
		Kind: yaml.SequenceNode,
	}
	mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	return valueNode
}

func dirExists(dirsNode *yaml.Node, dir string) bool {
	for _, node := range dirsNode.Content {
		if node.Value == dir {
			return true
		}
	}
	return false
}

func removeDir(dirsNode *yaml.Node, dir string) bool {
	for i, node := range dirsNode.Content {
		if node.Value == dir {
			dirsNode.Content = append(dirsNode.Content[:i], dirsNode.Content[i+1:]...)
			return true
		}
	}
	return false
}

func printDirs(out io.Writer, dirsNode *yaml.Node) {
	for _, node := range dirsNode.Content {
		fmt.Fprintf(out, "- %s\n", node.Value)
	}
}
