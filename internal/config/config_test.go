package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, int64(10*1024*1024), cfg.Index.MaxFileSize)
	assert.Equal(t, 10000, cfg.Index.MaxFileCount)
	assert.Equal(t, 100, cfg.Index.WatchDebounceMs)
	assert.Equal(t, 64, cfg.Performance.SymbolTableBuckets)
	assert.True(t, cfg.Resolution.Enabled)
	assert.Contains(t, cfg.Exclude, "**/node_modules/**")
}

func TestWorkers(t *testing.T) {
	cfg := Default()
	assert.Equal(t, runtime.NumCPU(), cfg.Workers())
	cfg.Performance.ParallelFileWorkers = 3
	assert.Equal(t, 3, cfg.Workers())
}

func TestParseKDL(t *testing.T) {
	content := `
project {
    name "demo"
    root "src"
}
index {
    max_file_size 2048
    max_file_count 50
    watch_debounce_ms 250
}
performance {
    parallel_file_workers 2
    symbol_table_buckets 128
}
resolution {
    enabled false
    suggestions true
}
include "**/*.c" "**/*.py"
exclude "**/vendor/**"
`
	cfg, err := parseKDL(content)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, "src", cfg.Project.Root)
	assert.Equal(t, int64(2048), cfg.Index.MaxFileSize)
	assert.Equal(t, 50, cfg.Index.MaxFileCount)
	assert.Equal(t, 250, cfg.Index.WatchDebounceMs)
	assert.Equal(t, 2, cfg.Performance.ParallelFileWorkers)
	assert.Equal(t, 128, cfg.Performance.SymbolTableBuckets)
	assert.False(t, cfg.Resolution.Enabled)
	assert.True(t, cfg.Resolution.Suggestions)
	assert.Equal(t, []string{"**/*.c", "**/*.py"}, cfg.Include)
	assert.Equal(t, []string{"**/vendor/**"}, cfg.Exclude)
}

func TestParseKDLPartialKeepsDefaults(t *testing.T) {
	cfg, err := parseKDL("index {\n    max_file_count 7\n}\n")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Index.MaxFileCount)
	assert.Equal(t, int64(10*1024*1024), cfg.Index.MaxFileSize)
	assert.True(t, cfg.Resolution.Enabled)
}

func TestParseKDLInvalid(t *testing.T) {
	_, err := parseKDL(`project { unterminated "`)
	assert.Error(t, err)
}

func TestLoadKDLMissingFile(t *testing.T) {
	cfg, err := LoadKDL(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadKDLResolvesRoot(t *testing.T) {
	dir := t.TempDir()
	content := "project {\n    root \"src\"\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".uast.kdl"), []byte(content), 0o644))

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, filepath.Join(dir, "src"), cfg.Project.Root)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	content := `
version = 1

[project]
name = "demo"

[index]
max_file_count = 25

[resolution]
enabled = false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uast.toml"), []byte(content), 0o644))

	cfg, err := LoadTOML(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, 25, cfg.Index.MaxFileCount)
	assert.False(t, cfg.Resolution.Enabled)
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, dir, cfg.Project.Root)
	assert.Equal(t, 10000, cfg.Index.MaxFileCount)
}

func TestLoadPrefersKDLOverTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".uast.kdl"), []byte("project {\n    name \"from-kdl\"\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uast.toml"), []byte("[project]\nname = \"from-toml\"\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-kdl", cfg.Project.Name)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Index.MaxFileSize = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Performance.SymbolTableBuckets = -2
	assert.Error(t, cfg.Validate())
}
