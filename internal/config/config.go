package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the svnws configuration
type Config struct {
	RepoDir  string `toml:"repo_dir"`  // local filesystem path of the central repository
	RepoURL  string `toml:"repo_url"`  // optional explicit repository URL
	StoreDir string `toml:"store_dir"` // base directory for project checkouts

	UI UIConfig `toml:"ui"`
}

// UIConfig customizes terminal output.
type UIConfig struct {
	Theme    string `toml:"theme"`    // color theme name (see styles.ValidThemeNames)
	Nerdfont bool   `toml:"nerdfont"` // use nerd font symbols in listings
}

// Default returns the default configuration
func Default() Config {
	return Config{}
}

// ResolvedRepoURL returns the repository URL to talk to.
// Returns RepoURL if set, otherwise a file:// URL derived from RepoDir.
func (c *Config) ResolvedRepoURL() string {
	if c.RepoURL != "" {
		return strings.TrimRight(c.RepoURL, "/")
	}
	if c.RepoDir == "" {
		return ""
	}
	return "file://" + filepath.ToSlash(c.RepoDir)
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	// Allow ~ paths
	if len(path) >= 1 && path[0] == '~' {
		return nil
	}
	// Must be absolute
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "svnws", "config.toml"), nil
}

// Load reads config from ~/.config/svnws/config.toml
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(Default())
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return applyEnv(cfg)
}

// applyEnv overlays environment variable overrides and normalizes paths.
func applyEnv(cfg Config) (Config, error) {
	if v := os.Getenv("SVNWS_REPO_DIR"); v != "" {
		cfg.RepoDir = v
	}
	if v := os.Getenv("SVNWS_STORE_DIR"); v != "" {
		cfg.StoreDir = v
	}

	if err := ValidatePath(cfg.RepoDir, "repo_dir"); err != nil {
		return Default(), err
	}
	if err := ValidatePath(cfg.StoreDir, "store_dir"); err != nil {
		return Default(), err
	}

	if cfg.RepoDir != "" {
		expanded, err := expandPath(cfg.RepoDir)
		if err != nil {
			return Default(), fmt.Errorf("expand repo_dir: %w", err)
		}
		cfg.RepoDir = expanded
	}
	if cfg.StoreDir != "" {
		expanded, err := expandPath(cfg.StoreDir)
		if err != nil {
			return Default(), fmt.Errorf("expand store_dir: %w", err)
		}
		cfg.StoreDir = expanded
	}

	return cfg, nil
}
