package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"jonnyzzz.com/configs/layout"
	"jonnyzzz.com/configs/marker"
	"jonnyzzz.com/configs/syntax"
	"jonnyzzz.com/configs/ui"
	"jonnyzzz.com/configs/updates"
	"jonnyzzz.com/configs/versioninfo"
)

// ErrEmptyContent is returned for a remote file that was served without content
var ErrEmptyContent = errors.New("remote content is empty")

// Options configures a Reconciler
type Options struct {
	// Files is the ordered list of managed file names
	Files []string
	Roots layout.Roots
	// Version is stamped into every marker, versioninfo.Dev when empty
	Version string

	Fetcher   updates.Fetcher
	Confirmer ui.Confirmer
	Differ    ui.Differ
	// Validator is optional, fetched content is not checked when nil
	Validator syntax.Validator
	Logger    *log.Logger

	// AutoConfirm forces batch mode: no prompts, no diffs, every change accepted
	AutoConfirm bool
}

// Reconciler brings local copies of the managed files in line with the remote source
type Reconciler struct {
	files     []*layout.ConfigFile
	version   string
	fetcher   updates.Fetcher
	confirmer ui.Confirmer
	differ    ui.Differ
	validator syntax.Validator
	logger    *log.Logger
	batch     bool
}

// New resolves every managed file and decides whether the run is in batch mode.
// Batch mode is entered on request or when none of the managed files exist locally yet.
func New(opts Options) (*Reconciler, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("fetcher is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	version := opts.Version
	if version == "" {
		version = versioninfo.Dev
	}

	files := make([]*layout.ConfigFile, 0, len(opts.Files))
	for _, name := range opts.Files {
		file, err := layout.NewConfigFile(opts.Roots, name)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	r := &Reconciler{
		files:     files,
		version:   version,
		fetcher:   opts.Fetcher,
		confirmer: opts.Confirmer,
		differ:    opts.Differ,
		validator: opts.Validator,
		logger:    logger,
		batch:     opts.AutoConfirm,
	}

	firstTime, err := r.firstTimeSetup()
	if err != nil {
		return nil, err
	}
	if firstTime && len(files) > 0 {
		logger.Info("No configs found. Downloading all available configs.")
		r.batch = true
	}

	if r.batch {
		r.confirmer = ui.AutoConfirm{}
	} else if r.confirmer == nil {
		return nil, errors.New("confirmer is required outside of batch mode")
	}

	return r, nil
}

// Batch reports whether prompts and diffs are suppressed
func (r *Reconciler) Batch() bool {
	return r.batch
}

// Files returns the resolved managed files in processing order
func (r *Reconciler) Files() []*layout.ConfigFile {
	return r.files
}

func (r *Reconciler) firstTimeSetup() (bool, error) {
	for _, file := range r.files {
		exists, err := file.LocalExists()
		if err != nil {
			return false, err
		}
		if exists {
			return false, nil
		}
	}
	return true, nil
}

// Run processes every managed file in order.
// A failure to reach the remote only affects that file, filesystem and prompt errors abort the run.
func (r *Reconciler) Run(ctx context.Context) (*Result, error) {
	result := newResult()

	for _, file := range r.files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		outcome, err := r.reconcile(ctx, file)
		if err != nil {
			return result, fmt.Errorf("failed to process %s config: %w", file.Name, err)
		}
		r.logger.Debug("Processed config", "name", file.Name, "outcome", outcome)
		result.record(file.Name, outcome)
	}

	return result, nil
}

func (r *Reconciler) reconcile(ctx context.Context, file *layout.ConfigFile) (Outcome, error) {
	content, err := r.fetch(ctx, file)
	if err != nil {
		r.logger.Warnf("Failed to download %s from %s", file.Name, file.RemoteURL)
		r.logger.Debug("Download error", "name", file.Name, "err", err)
		return r.useFallback(file)
	}

	stamped := marker.Stamp(file.Name, content, r.version)

	// The repository copy always mirrors the latest remote content.
	if err := writeText(file.CachePath, stamped); err != nil {
		return Failed, err
	}

	exists, err := file.LocalExists()
	if err != nil {
		return Failed, err
	}
	if exists {
		return r.updateExisting(file, stamped)
	}
	return r.createNew(file, stamped)
}

func (r *Reconciler) fetch(ctx context.Context, file *layout.ConfigFile) (string, error) {
	content, err := r.fetcher.Fetch(ctx, file.RemoteURL)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%s: %w", file.RemoteURL, ErrEmptyContent)
	}
	if r.validator != nil {
		if err := r.validator.Check(file.Name, content); err != nil {
			return "", err
		}
	}
	return content, nil
}

func (r *Reconciler) updateExisting(file *layout.ConfigFile, stamped string) (Outcome, error) {
	current, err := readText(file.LocalPath)
	if err != nil {
		return Failed, err
	}

	if marker.EqualIgnoringVersion(current, stamped) {
		return r.updateVersion(file, current, stamped)
	}

	if !r.batch && r.differ != nil {
		if err := r.differ.ShowDiff(current, stamped, file.Name); err != nil {
			return Failed, err
		}
	}

	ok, err := r.confirmer.Confirm(fmt.Sprintf("Update %s config?", file.Name), true)
	if err != nil {
		return Failed, err
	}
	if !ok {
		r.logger.Debugf("Skipped update of %s config.", file.Name)
		return Unchanged, nil
	}

	if err := writeText(file.LocalPath, stamped); err != nil {
		return Failed, err
	}
	r.logger.Infof("Updated %s config.", file.Name)
	return Updated, nil
}

// updateVersion handles a local copy whose content only differs by the version marker
func (r *Reconciler) updateVersion(file *layout.ConfigFile, current, stamped string) (Outcome, error) {
	localVersion, found := marker.Extract(current)
	if found && localVersion == r.version {
		return Unchanged, nil
	}

	from := localVersion
	if !found {
		from = "none"
	}
	if versioninfo.Compare(from, r.version) > 0 {
		r.logger.Warnf("Local %s config version %s is newer than %s.", file.Name, from, r.version)
	}

	ok, err := r.confirmer.Confirm(fmt.Sprintf("Update %s version from %s to %s?", file.Name, from, r.version), true)
	if err != nil {
		return Failed, err
	}
	if !ok {
		return Unchanged, nil
	}

	if err := writeText(file.LocalPath, stamped); err != nil {
		return Failed, err
	}
	r.logger.Infof("Updated %s config version from %s to %s.", file.Name, from, r.version)
	return Updated, nil
}

func (r *Reconciler) createNew(file *layout.ConfigFile, stamped string) (Outcome, error) {
	ok, err := r.confirmer.Confirm(fmt.Sprintf("Create new %s config?", file.Name), true)
	if err != nil {
		return Failed, err
	}
	if !ok {
		r.logger.Debugf("Skipped creation of %s config.", file.Name)
		return Skipped, nil
	}

	if err := writeText(file.LocalPath, stamped); err != nil {
		return Failed, err
	}
	r.logger.Infof("Created new %s config.", file.Name)
	return Created, nil
}

// useFallback applies the repository copy when the remote could not be used
func (r *Reconciler) useFallback(file *layout.ConfigFile) (Outcome, error) {
	cached, err := file.CacheExists()
	if err != nil {
		return Failed, err
	}
	if !cached {
		r.logger.Warnf("No fallback available for %s config.", file.Name)
		return Failed, nil
	}

	exists, err := file.LocalExists()
	if err != nil {
		return Failed, err
	}
	if exists {
		ok, err := r.confirmer.Confirm(fmt.Sprintf("Use repository version of %s config?", file.Name), true)
		if err != nil {
			return Failed, err
		}
		if !ok {
			return Failed, nil
		}
	}

	if err := copyFile(file.CachePath, file.LocalPath); err != nil {
		return Failed, err
	}
	r.logger.Warnf("Used repository version for %s config.", file.Name)
	return FallbackUsed, nil
}
