// Package initcmd implements 'configs init' that writes the project .configs.yaml
package initcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jonnyzzz.com/configs/config"
	"jonnyzzz.com/configs/configservice"
)

type initCommandConfig struct {
	files      []string
	remoteRoot string
}

func NewInitCommand() *cobra.Command {
	c := &initCommandConfig{}

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create or update .configs.yaml",
		Long: `Create .configs.yaml in the given directory (the working directory by default).
An existing file keeps its comments and other settings, only the given values change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.doTheCommand,
	}
	cmd.Flags().StringSliceVar(&c.files, "files", config.DefaultFiles(), "files to keep in sync")
	cmd.Flags().StringVar(&c.remoteRoot, "remote-root", "", "base URL of the remote configs repository")

	return cmd
}

func (c *initCommandConfig) doTheCommand(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("failed to resolve directory path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	configPath := filepath.Join(absPath, config.FileName)
	service := configservice.NewConfigService(configPath)
	out := cmd.OutOrStdout()

	_, statErr := os.Stat(configPath)
	exists := statErr == nil
	filesChanged := cmd.Flags().Changed("files")

	if exists && !filesChanged && c.remoteRoot == "" {
		if err := service.EnsureValidConfig(); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Found existing %s, nothing to change\n", configPath)
		return nil
	}

	section := &configservice.ProjectSection{
		RemoteRoot: c.remoteRoot,
		Files:      c.files,
	}
	if exists && !filesChanged {
		current, err := service.Files().ReadProjectSection()
		if err != nil {
			return err
		}
		section.Files = current.Files
	}

	if err := service.Files().UpdateFiles(section); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	if err := service.EnsureValidConfig(); err != nil {
		return err
	}

	if exists {
		_, _ = fmt.Fprintf(out, "Updated %s\n", configPath)
	} else {
		_, _ = fmt.Fprintf(out, "Created %s\n", configPath)
	}
	return nil
}
