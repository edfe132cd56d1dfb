// Package config handles loading and validation of svnws configuration.
//
// Configuration is read from ~/.config/svnws/config.toml with environment
// variable overrides for directory settings.
//
// # Configuration Sources (highest priority first)
//
//   - SVNWS_REPO_DIR env var: Local filesystem path of the central repository
//   - SVNWS_STORE_DIR env var: Directory holding project checkouts
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - repo_dir: Local filesystem path of the central SVN repository
//     (must be absolute or ~/...)
//   - repo_url: Optional explicit repository URL; derived from repo_dir
//     as a file:// URL when empty
//   - store_dir: Base directory for project checkouts, one subdirectory
//     per repository name
//
// # Path Validation
//
// Directory paths must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory.
package config
