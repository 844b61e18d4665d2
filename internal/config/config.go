// Package config loads pipeline configuration from .uast.kdl or uast.toml
// files, with sensible defaults and CLI overrides applied by the front end.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

type Config struct {
	Version     int         `toml:"version"`
	Project     Project     `toml:"project"`
	Index       Index       `toml:"index"`
	Performance Performance `toml:"performance"`
	Resolution  Resolution  `toml:"resolution"`
	Include     []string    `toml:"include"`
	Exclude     []string    `toml:"exclude"`
}

type Project struct {
	Root string `toml:"root"`
	Name string `toml:"name"`
}

type Index struct {
	MaxFileSize     int64 `toml:"max_file_size"`
	MaxFileCount    int   `toml:"max_file_count"`
	FollowSymlinks  bool  `toml:"follow_symlinks"`
	WatchMode       bool  `toml:"watch_mode"`
	WatchDebounceMs int   `toml:"watch_debounce_ms"`
}

type Performance struct {
	ParallelFileWorkers int `toml:"parallel_file_workers"` // 0 = auto-detect (NumCPU)
	SymbolTableBuckets  int `toml:"symbol_table_buckets"`
}

type Resolution struct {
	Enabled     bool `toml:"enabled"`
	Suggestions bool `toml:"suggestions"` // fuzzy hints for unresolved references
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	root, _ := os.Getwd()
	if root == "" {
		root = "."
	}
	return &Config{
		Version: 1,
		Project: Project{Root: root},
		Index: Index{
			MaxFileSize:     10 * 1024 * 1024,
			MaxFileCount:    10000,
			WatchDebounceMs: 100,
		},
		Performance: Performance{
			ParallelFileWorkers: 0,
			SymbolTableBuckets:  64,
		},
		Resolution: Resolution{Enabled: true},
		Exclude:    []string{"**/node_modules/**", "**/.git/**", "**/build/**"},
	}
}

// Workers resolves the effective worker count.
func (c *Config) Workers() int {
	if c.Performance.ParallelFileWorkers > 0 {
		return c.Performance.ParallelFileWorkers
	}
	return runtime.NumCPU()
}

// Load reads configuration from projectRoot, preferring .uast.kdl over
// uast.toml, and falls back to defaults when neither exists.
func Load(projectRoot string) (*Config, error) {
	if cfg, err := LoadKDL(projectRoot); err != nil {
		return nil, err
	} else if cfg != nil {
		return cfg, nil
	}
	if cfg, err := LoadTOML(projectRoot); err != nil {
		return nil, err
	} else if cfg != nil {
		return cfg, nil
	}
	cfg := Default()
	if abs, err := filepath.Abs(projectRoot); err == nil {
		cfg.Project.Root = abs
	} else {
		cfg.Project.Root = projectRoot
	}
	return cfg, nil
}

// resolveRoot makes Project.Root absolute relative to the config file's
// directory.
func resolveRoot(cfg *Config, projectRoot string) {
	if cfg.Project.Root == "" {
		if abs, err := filepath.Abs(projectRoot); err == nil {
			cfg.Project.Root = abs
		} else {
			cfg.Project.Root = projectRoot
		}
		return
	}
	if !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Join(projectRoot, cfg.Project.Root)
	}
	cfg.Project.Root = filepath.Clean(cfg.Project.Root)
}

// Validate rejects configurations the pipeline cannot honor.
func (c *Config) Validate() error {
	if c.Index.MaxFileSize < 0 {
		return fmt.Errorf("index.max_file_size must be non-negative, got %d", c.Index.MaxFileSize)
	}
	if c.Performance.SymbolTableBuckets < 0 {
		return fmt.Errorf("performance.symbol_table_buckets must be non-negative, got %d", c.Performance.SymbolTableBuckets)
	}
	return nil
}
