package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the search directories.
const FileName = "blocks.yaml"

// Source tells where a loaded config came from.
type Source string

const (
	SourceCustom   Source = "custom"
	SourceUser     Source = "user"
	SourceLocal    Source = "local"
	SourceEmbedded Source = "embedded"
)

// Load loads the blocks configuration.
// Search order: customPath -> ~/.blocks/configs/blocks.yaml -> ./configs/blocks.yaml -> embedded default.
// An explicit customPath that cannot be read, parsed or validated is an error;
// broken files found during the implicit search are skipped.
func Load(customPath string) (BlocksConfig, Source, error) {
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return BlocksConfig{}, SourceCustom, err
		}
		return cfg, SourceCustom, nil
	}

	if userCfgPath := UserConfigPath(); userCfgPath != "" {
		if cfg, err := loadFile(userCfgPath); err == nil {
			return cfg, SourceUser, nil
		}
	}

	if cfg, err := loadFile(filepath.Join("configs", FileName)); err == nil {
		return cfg, SourceLocal, nil
	}

	cfg, err := parse(defaultBlocksYAML)
	if err != nil {
		return DefaultBlocksConfig(), SourceEmbedded, nil
	}
	return cfg, SourceEmbedded, nil
}

// loadFile reads, parses and validates one file.
func loadFile(path string) (BlocksConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BlocksConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := parse(data)
	if err != nil {
		return BlocksConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// parse decodes YAML over the built-in defaults, so a file may set only the
// keys it cares about, then validates the result.
func parse(data []byte) (BlocksConfig, error) {
	cfg := DefaultBlocksConfig()
	cfg.Variants = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BlocksConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return BlocksConfig{}, err
	}
	return cfg, nil
}

// UserConfigPath returns the path to the user config file, or empty if home is unavailable.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".blocks", "configs", FileName)
}
