package config

import (
	"os"
	"path/filepath"
)

// baseDir resolves an XDG base directory from its environment variable,
// falling back to the conventional subdirectory of the user's home.
func baseDir(envVar string, fallback ...string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// DefaultDBPath returns the standard location of the ratings database.
func DefaultDBPath() string {
	return filepath.Join(baseDir("XDG_DATA_HOME", ".local", "share"), "rateboard", "ratings.db")
}

// DefaultConfigPath returns the standard location of config.toml.
func DefaultConfigPath() string {
	return filepath.Join(baseDir("XDG_CONFIG_HOME", ".config"), "rateboard", "config.toml")
}

// DefaultCatalogPath returns the standard location of the problem catalog.
func DefaultCatalogPath() string {
	return filepath.Join(baseDir("XDG_CONFIG_HOME", ".config"), "rateboard", "problems.csv")
}
