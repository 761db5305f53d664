package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/viper"
)

const (
	// FileName is the project configuration file searched for from the working directory upwards
	FileName = ".configs.yaml"
	// EnvPrefix prefixes environment overrides, e.g. CONFIGS_REMOTE_ROOT
	EnvPrefix = "CONFIGS"
	// DefaultRemoteRoot is the canonical source of the managed files
	DefaultRemoteRoot = "https://raw.githubusercontent.com/dannystewart/configs/refs/heads/main"
	// DefaultTimeout bounds a single remote fetch
	DefaultTimeout = 30 * time.Second
)

// Keys understood in the config file, the environment and flag overrides
const (
	KeyRemoteRoot = "remote_root"
	KeyFiles      = "files"
	KeyLocalDir   = "local_dir"
	KeyCacheDir   = "cache_dir"
	KeyTimeout    = "timeout"
	KeyValidate   = "validate"
	KeyVerbose    = "verbose"
)

// DefaultFiles returns the managed files used when nothing else is configured
func DefaultFiles() []string {
	return []string{"ruff.toml", "mypy.ini"}
}

// Config is the resolved configuration of a run
type Config struct {
	RemoteRoot      string
	Files           []string
	LocalDir        string
	CacheDir        string
	Timeout         time.Duration
	ValidateContent bool
	Verbose         bool

	// Path is the loaded config file, empty when only defaults and overrides were used
	Path string
}

func (c *Config) String() string {
	return fmt.Sprintf("ConfigPath: %s, LocalDir: %s, CacheDir: %s, Files: %s", c.Path, c.LocalDir, c.CacheDir, strings.Join(c.Files, ", "))
}

// LoadOptions defines explicit configuration loading inputs
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set
	ConfigFilePath string
	// WorkDir is where the config file search starts and the default local directory
	WorkDir string
	// Overrides take precedence over the environment and the config file, typically flags
	Overrides map[string]any
}

// Load resolves the configuration from defaults, the config file, the environment and overrides.
// A missing config file is not an error unless it was requested explicitly.
func Load(opts LoadOptions) (*Config, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get the current working directory: %w", err)
		}
		workDir = wd
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyRemoteRoot, DefaultRemoteRoot)
	v.SetDefault(KeyFiles, DefaultFiles())
	v.SetDefault(KeyLocalDir, "")
	v.SetDefault(KeyCacheDir, "")
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyValidate, true)
	v.SetDefault(KeyVerbose, false)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	configPath := opts.ConfigFilePath
	if configPath == "" {
		found, err := FindConfigFile(workDir)
		switch {
		case err == nil:
			configPath = found
		case errors.Is(err, ErrConfigNotFound):
		default:
			return nil, err
		}
	} else if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file not found: %s: %w", configPath, err)
	}

	baseDir := workDir
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
		if abs, err := filepath.Abs(configPath); err == nil {
			configPath = abs
		}
		baseDir = filepath.Dir(configPath)
	}

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	cfg := &Config{
		RemoteRoot:      strings.TrimSpace(v.GetString(KeyRemoteRoot)),
		Files:           fileList(v),
		Timeout:         v.GetDuration(KeyTimeout),
		ValidateContent: v.GetBool(KeyValidate),
		Verbose:         v.GetBool(KeyVerbose),
		Path:            configPath,
	}

	cfg.LocalDir = resolveDir(v.GetString(KeyLocalDir), baseDir, workDir)
	if cfg.CacheDir, err = resolveCacheDir(v.GetString(KeyCacheDir), baseDir); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		if configPath != "" {
			return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the fields that the run depends on
func (c *Config) Validate() error {
	if c.RemoteRoot == "" {
		return fmt.Errorf("%s is required", KeyRemoteRoot)
	}
	u, err := url.Parse(c.RemoteRoot)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", KeyRemoteRoot, c.RemoteRoot, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: expected an http or https URL", KeyRemoteRoot, c.RemoteRoot)
	}

	if len(c.Files) == 0 {
		return fmt.Errorf("no managed files configured in %s", KeyFiles)
	}
	seen := make(map[string]bool, len(c.Files))
	for _, name := range c.Files {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("empty file name in %s", KeyFiles)
		}
		if seen[name] {
			return fmt.Errorf("duplicate file %s in %s", name, KeyFiles)
		}
		seen[name] = true
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyTimeout, c.Timeout)
	}
	return nil
}

// fileList reads the managed files, a single string such as CONFIGS_FILES=a.toml,b.ini
// is split on commas and whitespace
func fileList(v *viper.Viper) []string {
	raw, ok := v.Get(KeyFiles).(string)
	if !ok {
		return v.GetStringSlice(KeyFiles)
	}
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// resolveDir makes a configured directory absolute against baseDir, falling back to defaultDir
func resolveDir(value, baseDir, defaultDir string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultDir
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(baseDir, value)
}

func resolveCacheDir(value, baseDir string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return resolveDir(value, baseDir, ""), nil
	}
	userCache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve the user cache directory, set %s: %w", KeyCacheDir, err)
	}
	return filepath.Join(userCache, "configs"), nil
}
