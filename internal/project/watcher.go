package project

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/uast/internal/debug"
	"github.com/standardbeagle/uast/internal/parser"
	"github.com/standardbeagle/uast/internal/types"
)

// Watcher reindexes files incrementally as they change on disk. Events are
// debounced so editors that write in bursts trigger one reindex.
type Watcher struct {
	indexer  *Indexer
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]fsnotify.Op
	timer   *time.Timer
}

// NewWatcher creates a watcher over the indexer's project root.
func NewWatcher(indexer *Indexer) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	debounceMs := indexer.cfg.Index.WatchDebounceMs
	if debounceMs <= 0 {
		debounceMs = 100
	}

	w := &Watcher{
		indexer:  indexer,
		watcher:  fsw,
		debounce: time.Duration(debounceMs) * time.Millisecond,
		pending:  make(map[string]fsnotify.Op),
	}
	if err := w.addRecursive(indexer.cfg.Project.Root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			rel, relErr := filepath.Rel(root, path)
			if relErr == nil && w.indexer.excluded(filepath.ToSlash(rel)+"/") {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}

// Run processes events until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			debug.LogParse("watcher error: %v\n", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// New directories must be watched before their contents change.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
			return
		}
	}
	if parser.LanguageForPath(event.Name) == types.LangUnknown {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] |= event.Op
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.flush(ctx) })
	w.mu.Unlock()
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	pending := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.mu.Unlock()

	for path, op := range pending {
		switch {
		case op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename):
			w.indexer.RemoveFile(path)
		case op.Has(fsnotify.Create) || op.Has(fsnotify.Write):
			if err := w.indexer.IndexFile(ctx, path); err != nil {
				debug.LogParse("reindex of %s failed: %v\n", path, err)
			}
		}
	}
}
