// Package cmd contains the CLI commands of configs.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"jonnyzzz.com/configs/config"
	"jonnyzzz.com/configs/initcmd"
	"jonnyzzz.com/configs/layout"
	"jonnyzzz.com/configs/lock"
	"jonnyzzz.com/configs/reconcile"
	"jonnyzzz.com/configs/syntax"
	"jonnyzzz.com/configs/ui"
	"jonnyzzz.com/configs/updates"
	"jonnyzzz.com/configs/versioninfo"
)

type rootCommandConfig struct {
	autoConfirm bool
	configFile  string
	localDir    string
	cacheDir    string
	remoteRoot  string
	files       []string
	verbose     bool

	// stdin answers the confirmation prompts
	stdin *os.File
}

// NewRootCommand creates the configs command that syncs the managed files
func NewRootCommand() *cobra.Command {
	return newRootCommand(os.Stdin)
}

func newRootCommand(stdin *os.File) *cobra.Command {
	c := &rootCommandConfig{
		stdin: stdin,
	}

	cmd := &cobra.Command{
		Use:   "configs",
		Short: "Keep shared config files in sync with a remote repository",
		Long: headerStyle.Render("configs") + ` keeps local copies of shared config files in sync with a remote repository.

Each managed file is downloaded, stamped with a version marker and compared
with the local copy. Changes are shown as a diff and applied after confirmation.
When the remote is unreachable the last downloaded copy is used instead.

The managed files and their locations are read from .configs.yaml, searched
from the working directory upwards. Use 'configs init' to create it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.doTheCommand,
	}

	flags := cmd.Flags()
	flags.BoolVarP(&c.autoConfirm, "yes", "y", false, "accept all changes without prompting")
	flags.StringSliceVar(&c.files, "files", nil, "managed files, overrides the configured list")
	flags.StringVar(&c.localDir, "local-dir", "", "directory holding the local copies (default is the working directory)")
	flags.StringVar(&c.cacheDir, "cache-dir", "", "directory holding the repository copies (default is the user cache directory)")
	flags.StringVar(&c.remoteRoot, "remote-root", "", "base URL of the remote configs repository")
	cmd.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default is .configs.yaml found from the working directory upwards)")
	cmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(NewVersionCommand())
	cmd.AddCommand(initcmd.NewInitCommand())

	return cmd
}

// Execute runs the root command, the process exits with the code of a returned ExitError
func Execute() {
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(),
		fang.WithVersion(versioninfo.Current()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func (c *rootCommandConfig) doTheCommand(cmd *cobra.Command, _ []string) error {
	overrides, err := c.overrides(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFilePath: c.configFile,
		Overrides:      overrides,
	})
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	logger.Debug("Loaded configuration", "config", cfg.String())

	instance := lock.NewSingleInstance(cfg.CacheDir)
	if err := instance.Lock(); err != nil {
		return err
	}
	defer func() {
		if err := instance.Release(); err != nil {
			logger.Debug("Failed to release lock", "path", instance.Path(), "err", err)
		}
	}()

	version := versioninfo.Current()
	opts := reconcile.Options{
		Files: cfg.Files,
		Roots: layout.Roots{
			RemoteRoot: cfg.RemoteRoot,
			LocalRoot:  cfg.LocalDir,
			CacheRoot:  cfg.CacheDir,
		},
		Version:     version,
		Fetcher:     updates.NewDownloader(cfg.Timeout, "configs/"+version),
		Confirmer:   ui.NewTerminalPrompt(c.stdin, cmd.OutOrStdout()),
		Differ:      ui.NewUnifiedDiffer(cmd.OutOrStdout()),
		Logger:      logger,
		AutoConfirm: c.autoConfirm,
	}
	if cfg.ValidateContent {
		opts.Validator = syntax.NewValidator()
	}

	reconciler, err := reconcile.New(opts)
	if err != nil {
		return err
	}

	result, runErr := reconciler.Run(cmd.Context())
	if result != nil {
		result.Log(logger)
	}
	if runErr != nil {
		return runErr
	}

	if result.HasFailures() {
		return &ExitError{
			Code: 1,
			Err:  fmt.Errorf("%d of %d configs failed to update", len(result.Failed), len(cfg.Files)),
		}
	}
	return nil
}

// overrides collects the flags given on the command line, relative paths resolve against the working directory
func (c *rootCommandConfig) overrides(cmd *cobra.Command) (map[string]any, error) {
	flags := cmd.Flags()
	overrides := map[string]any{}

	for _, dir := range []struct {
		flag  string
		key   string
		value string
	}{
		{flag: "local-dir", key: config.KeyLocalDir, value: c.localDir},
		{flag: "cache-dir", key: config.KeyCacheDir, value: c.cacheDir},
	} {
		if !flags.Changed(dir.flag) {
			continue
		}
		abs, err := filepath.Abs(dir.value)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve --%s: %w", dir.flag, err)
		}
		overrides[dir.key] = abs
	}

	if flags.Changed("remote-root") {
		overrides[config.KeyRemoteRoot] = c.remoteRoot
	}
	if flags.Changed("files") {
		overrides[config.KeyFiles] = c.files
	}
	if flags.Changed("verbose") {
		overrides[config.KeyVerbose] = c.verbose
	}

	return overrides, nil
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "configs",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
