package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/SDen99/DatasetViewer-sub000/internal/cli/config"
	"github.com/SDen99/DatasetViewer-sub000/internal/cli/output"
	sharedcfg "github.com/SDen99/DatasetViewer-sub000/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const exampleTemplate = "example"

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a defineview configuration file",
		Long: `Write defineview.yaml with every setting at its default value: output
format, accepted Define-XML namespaces, dataset file extensions, value-level
metadata rules, server port and export database.

Use --example to also write a small ADaM define.xml with value-level
metadata to try the other commands on.`,
		Example: `  # Initialize in current directory
  defineview init

  # Initialize with an example define.xml
  defineview init --example

  # Initialize in a new directory
  defineview init my-study --example

  # Force overwrite existing config
  defineview init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cmdCtx := NewCommandContextWithoutEngine(cmd)
			return runInit(cmdCtx.Renderer, dir, force, example)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Also write an example define.xml")

	return cmd
}

func runInit(r *output.Renderer, dir string, force, example bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, sharedcfg.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", sharedcfg.ConfigFileName)
	}

	if err := writeDefaultConfig(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	r.StatusLine(sharedcfg.ConfigFileName, "success", "")

	if example {
		if err := copyTemplate(exampleTemplate, dir, force); err != nil {
			return fmt.Errorf("failed to write example: %w", err)
		}
		files, _ := listTemplateFiles(exampleTemplate)
		for _, f := range files {
			r.StatusLine(f, "success", "")
		}
	}

	r.Println("")
	r.Success("defineview initialized!")
	r.Println("")
	r.Println("Next steps:")
	if example {
		r.Println("  1. Run 'defineview summary define.xml' to see what the define contains")
		r.Println("  2. Run 'defineview vlm define.xml ADVS' to see a value-level metadata table")
		r.Println("  3. Run 'defineview serve define.xml' to browse it over HTTP")
	} else {
		r.Println("  1. Edit " + sharedcfg.ConfigFileName + " to match your sponsor conventions")
		r.Println("  2. Run 'defineview datasets <define.xml>' to list datasets")
		r.Println("  3. Run 'defineview vlm <define.xml> <dataset>' to see a value-level metadata table")
	}

	return nil
}

func writeDefaultConfig(path string) error {
	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return err
	}
	header := []byte("# defineview configuration\n# Settings can be overridden with DEFINEVIEW_* environment variables.\n\n")
	return os.WriteFile(path, append(header, data...), 0600)
}
