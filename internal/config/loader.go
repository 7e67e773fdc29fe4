package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnknownMode is returned when no defaults exist for a mode id.
var ErrUnknownMode = errors.New("unknown mode")

// configExts lists the file formats tried in each search directory.
var configExts = []string{".yaml", ".yml", ".toml"}

// Load loads the world configuration for a mode.
// Search order: customPath -> ~/.grove/configs/<mode>.{yaml,toml} ->
// ./configs/<mode>.{yaml,toml} -> embedded default -> hardcoded default.
//
// Files are decoded on top of the mode's defaults, so a file only needs the
// keys it changes.
func Load(mode, customPath string) (WorldConfig, error) {
	fallback, ok := hardcodedDefaults[mode]
	if !ok {
		return WorldConfig{}, fmt.Errorf("config: %q: %w", mode, ErrUnknownMode)
	}

	// Embedded YAML is the base every other source is layered on.
	base := fallback()
	if err := yaml.Unmarshal(embeddedDefaults[mode], &base); err != nil {
		base = fallback() // Fallback to hardcoded if embed fails
	}

	// Try custom path first
	if customPath != "" {
		cfg := base
		if err := decodeFile(customPath, &cfg); err != nil {
			return base, err
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	for _, dir := range []string{userConfigDir(), "configs"} {
		if dir == "" {
			continue
		}
		for _, ext := range configExts {
			cfg := base
			if err := decodeFile(filepath.Join(dir, mode+ext), &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	return base, nil
}

// Default returns the embedded configuration for a mode without touching
// the filesystem.
func Default(mode string) (WorldConfig, error) {
	fallback, ok := hardcodedDefaults[mode]
	if !ok {
		return WorldConfig{}, fmt.Errorf("config: %q: %w", mode, ErrUnknownMode)
	}
	cfg := fallback()
	if err := yaml.Unmarshal(embeddedDefaults[mode], &cfg); err != nil {
		return fallback(), nil
	}
	return cfg, nil
}

// decodeFile reads path and decodes it into cfg, picking the format from
// the file extension.
func decodeFile(path string, cfg *WorldConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Decode(filepath.Ext(path), data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Decode parses data in the format named by ext (".yaml", ".yml" or
// ".toml") into cfg.
func Decode(ext string, data []byte, cfg *WorldConfig) error {
	switch strings.ToLower(ext) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml", "":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

// userConfigDir returns the user config directory, or empty if home is
// unavailable.
func userConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".grove", "configs")
}
