package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BitYantriki/claude-project-setup/internal/logging"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "intellij-mcp-server" // application name used for config directory

const (
	DefaultMaxDepth     = 3
	DefaultMaxFileBytes = 10 << 20
	DefaultShell        = "sh"
)

// Git status backends.
const (
	GitBackendAuto  = "auto"
	GitBackendCLI   = "cli"
	GitBackendGoGit = "go-git"
)

// Config holds server tuning. The project root is deliberately absent: it only
// ever comes from the command line.
type Config struct {
	// DefaultMaxDepth is used by project_structure when maxDepth is omitted.
	DefaultMaxDepth int `yaml:"default_max_depth"`
	// MaxFileBytes caps read_file. Zero or less disables the cap.
	MaxFileBytes int64 `yaml:"max_file_bytes"`
	// CommandTimeout bounds execute_command. Zero means no timeout.
	CommandTimeout time.Duration `yaml:"command_timeout"`
	// Shell runs execute_command as `<shell> -c <command>`.
	Shell string `yaml:"shell"`
	// GitBackend selects how git_status is computed: auto, cli or go-git.
	GitBackend string `yaml:"git_backend"`
}

// ConfigPath returns the standard config file path for the current platform
func ConfigPath() string {
	configPath := filepath.Join(xdg.ConfigHome, APP_NAME, "config.yaml")

	logging.Debug("Determined config path", "path", configPath)
	return configPath
}

// FindConfigFile returns the path to the standard config file, and whether it exists.
func FindConfigFile() (string, bool) {
	primary := ConfigPath()
	if _, err := os.Stat(primary); err == nil {
		logging.Debug("Config found at primary path", "path", primary)
		return primary, true
	}
	return primary, false
}

// Load loads the config from the standard location.
// A missing file is not an error: defaults are returned.
func Load() (*Config, error) {
	configPath, exists := FindConfigFile()
	if !exists {
		logging.Debug("No config file, using defaults", "path", configPath)
		cfg := DefaultConfig()
		return &cfg, nil
	}
	return LoadFrom(configPath)
}

// LoadFrom loads config from a specific path. Keys absent from the file keep
// their default values.
func LoadFrom(path string) (*Config, error) {
	logging.Debug("Reading config file", "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultMaxDepth: DefaultMaxDepth,
		MaxFileBytes:    DefaultMaxFileBytes,
		CommandTimeout:  0,
		Shell:           DefaultShell,
		GitBackend:      GitBackendAuto,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.DefaultMaxDepth < 0 {
		return fmt.Errorf("default_max_depth must not be negative, got %d", c.DefaultMaxDepth)
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("command_timeout must not be negative, got %s", c.CommandTimeout)
	}
	if c.Shell == "" {
		return fmt.Errorf("shell must not be empty")
	}
	switch c.GitBackend {
	case GitBackendAuto, GitBackendCLI, GitBackendGoGit:
	default:
		return fmt.Errorf("git_backend must be one of %s, %s, %s; got %q",
			GitBackendAuto, GitBackendCLI, GitBackendGoGit, c.GitBackend)
	}
	return nil
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ResolveProjectRoot turns the startup argument into the absolute,
// symlink-evaluated project root. An empty argument means the working directory.
func ResolveProjectRoot(arg string) (string, error) {
	if arg == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", err)
		}
		arg = wd
	}

	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root %s: %w", arg, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root %s: %w", arg, err)
	}

	info, err := os.Stat(real)
	if err != nil {
		return "", fmt.Errorf("failed to stat project root %s: %w", real, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project root is not a directory: %s", real)
	}

	return real, nil
}
