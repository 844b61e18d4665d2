package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/uast/internal/config"
	"github.com/standardbeagle/uast/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Project.Root = root
	cfg.Performance.ParallelFileWorkers = 2
	return cfg
}

func TestIndexProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.c", "/** @brief Helper. */\nint helper() { return 1; }\n")
	writeFile(t, dir, "mod.py", "def area():\n    return 0\n")
	writeFile(t, dir, "notes.txt", "not source\n")

	ix := NewIndexer(testConfig(dir))
	stats, err := ix.IndexProject(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesIndexed)
	assert.Equal(t, 0, stats.FilesFailed)
	assert.GreaterOrEqual(t, stats.SymbolsRegistered, 2)

	entry := ix.Table().Lookup("a.c.helper")
	require.NotNil(t, entry)
	assert.Equal(t, types.NodeFunction, entry.Node.Type)
	assert.Contains(t, entry.Node.Docstring, "Helper.")

	require.NotNil(t, ix.Table().Lookup("ROOT.area"))
	assert.NotNil(t, ix.AST(filepath.Join(dir, "a.c")))
}

func TestIndexProjectGlobFilters(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.c", "int keep() { return 0; }\n")
	writeFile(t, dir, "skip.py", "def skip():\n    pass\n")
	writeFile(t, dir, "vendor/dep.c", "int dep() { return 0; }\n")

	cfg := testConfig(dir)
	cfg.Include = []string{"**/*.c"}
	cfg.Exclude = append(cfg.Exclude, "vendor/**")

	ix := NewIndexer(cfg)
	stats, err := ix.IndexProject(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FilesIndexed)
	assert.NotNil(t, ix.Table().Lookup("keep.c.keep"))
	assert.Nil(t, ix.Table().Lookup("ROOT.skip"))
	assert.Nil(t, ix.Table().Lookup("dep.c.dep"))
}

func TestIndexProjectMaxFileSize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.c", "int f() { return 0; }\n")
	writeFile(t, dir, "big.c", "int g() { return 0; } // padded well past the limit below\n")

	cfg := testConfig(dir)
	cfg.Index.MaxFileSize = 30

	ix := NewIndexer(cfg)
	stats, err := ix.IndexProject(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesIndexed)
}

func TestIndexFileSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.c", "int f() { return 0; }\n")

	ix := NewIndexer(testConfig(dir))
	require.NoError(t, ix.IndexFile(context.Background(), path))
	require.NoError(t, ix.IndexFile(context.Background(), path))
	assert.Equal(t, 1, ix.Stats().FilesIndexed)

	// Changed content reindexes and replaces the prior symbols.
	require.NoError(t, os.WriteFile(path, []byte("int g() { return 0; }\n"), 0o644))
	require.NoError(t, ix.IndexFile(context.Background(), path))
	assert.Equal(t, 2, ix.Stats().FilesIndexed)
	assert.Nil(t, ix.Table().Lookup("a.c.f"))
	assert.NotNil(t, ix.Table().Lookup("a.c.g"))
}

func TestRemoveFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.c", "int f() { return 0; }\n")

	ix := NewIndexer(testConfig(dir))
	require.NoError(t, ix.IndexFile(context.Background(), path))
	require.NotNil(t, ix.Table().Lookup("a.c.f"))

	ix.RemoveFile(path)
	assert.Nil(t, ix.Table().Lookup("a.c.f"))
	assert.Nil(t, ix.AST(path))

	// Removing an unindexed path is a no-op.
	ix.RemoveFile(filepath.Join(dir, "other.c"))
}

func TestResolutionStats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.c", "int helper() { return 1; }\n")

	ix := NewIndexer(testConfig(dir))
	stats, err := ix.IndexProject(context.Background())
	require.NoError(t, err)

	// The definition resolves to its own table entry.
	assert.GreaterOrEqual(t, stats.ReferencesAttempted, 1)
	assert.GreaterOrEqual(t, stats.ReferencesResolved, 1)
}

func TestResolutionDisabled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.c", "int helper() { return 1; }\n")

	cfg := testConfig(dir)
	cfg.Resolution.Enabled = false

	ix := NewIndexer(cfg)
	stats, err := ix.IndexProject(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.ReferencesAttempted)
}

func TestWatcherReindexesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.c", "int f() { return 0; }\n")

	cfg := testConfig(dir)
	cfg.Index.WatchDebounceMs = 20

	ix := NewIndexer(cfg)
	_, err := ix.IndexProject(context.Background())
	require.NoError(t, err)

	w, err := NewWatcher(ix)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(path, []byte("int g() { return 0; }\n"), 0o644))
	require.Eventually(t, func() bool {
		return ix.Table().Lookup("a.c.g") != nil
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
