package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// LoadTOML attempts to load configuration from a uast.toml file. A missing
// file is not an error; it returns (nil, nil) so the caller can fall back.
func LoadTOML(projectRoot string) (*Config, error) {
	tomlPath := filepath.Join(projectRoot, "uast.toml")

	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(tomlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read uast.toml: %v", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse uast.toml: %w", err)
	}
	resolveRoot(cfg, projectRoot)
	return cfg, nil
}
