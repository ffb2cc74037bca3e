// Package config loads flipbook settings from a TOML file and FLIPBOOK_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "FLIPBOOK_"

// Document holds defaults for new documents.
type Document struct {
	DefaultName string `toml:"default_name" env:"DEFAULT_NAME"`
}

// Export holds the defaults of the export, sheet and still commands.
type Export struct {
	Format       string  `toml:"format" env:"FORMAT"`
	Quality      int     `toml:"quality" env:"QUALITY"`
	Background   bool    `toml:"background" env:"BACKGROUND"`
	Antialiasing bool    `toml:"antialiasing" env:"ANTIALIASING"`
	CurveOpacity float64 `toml:"curve_opacity" env:"CURVE_OPACITY"`
	FPS          int     `toml:"fps" env:"FPS"`
	ExportFPS    int     `toml:"export_fps" env:"EXPORT_FPS"` // 0 keeps the document rate
	Width        int     `toml:"width" env:"WIDTH"`
	Height       int     `toml:"height" env:"HEIGHT"`
	Workers      int     `toml:"workers" env:"WORKERS"` // 0 sizes the pool from the host
}

// Import holds the defaults of the import command.
type Import struct {
	DPI int `toml:"dpi" env:"DPI"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" env:"FORMAT"`
	Level  string `toml:"level" env:"LEVEL"`
}

type Config struct {
	Document Document `toml:"document" envPrefix:"DOCUMENT_"`
	Export   Export   `toml:"export" envPrefix:"EXPORT_"`
	Import   Import   `toml:"import" envPrefix:"IMPORT_"`
	Logging  Logging  `toml:"logging" envPrefix:"LOG_"`
}

// DefaultConfigPath returns the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/flipbook/config.toml")
}

// Load reads the file at path (or the default locations when path is
// empty), applies environment overrides, then normalizes and validates the
// result. It also returns the resolved path and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, "", false, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("flipbook.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample writes the default configuration to path. An existing file
// is left untouched.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config %s already exists", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encode sample config: %w", err)
	}
	if err := os.WriteFile(expanded, data, 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
