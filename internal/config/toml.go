// Package config loads rateboard's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig mirrors the on-disk TOML layout.
type FileConfig struct {
	Session SessionConfig `toml:"session"`
	Sheet   SheetConfig   `toml:"sheet"`
	SQLite  SQLiteConfig  `toml:"sqlite"`
}

// SessionConfig maps rating-session settings.
type SessionConfig struct {
	Rater   *string `toml:"rater"`
	Catalog *string `toml:"catalog"`
	Store   *string `toml:"store"`
}

// SheetConfig maps Google Sheets store settings.
type SheetConfig struct {
	SpreadsheetID *string `toml:"spreadsheet_id"`
	Credentials   *string `toml:"credentials"`
	Worksheet     *string `toml:"worksheet"`
}

// SQLiteConfig maps local SQLite store settings.
type SQLiteConfig struct {
	DB *string `toml:"db"`
}

// LoadConfig reads the TOML config at path. A missing file yields the
// zero config without error.
func LoadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	if path == "" {
		return cfg, errors.New("empty config path")
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
