// Package project orchestrates the pipeline across a whole source tree:
// file discovery with glob filters, parallel per-file parsing and AST
// building, serialized symbol registration, and reference resolution.
package project

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/uast/internal/astbuilder"
	"github.com/standardbeagle/uast/internal/config"
	"github.com/standardbeagle/uast/internal/debug"
	"github.com/standardbeagle/uast/internal/parser"
	"github.com/standardbeagle/uast/internal/resolver"
	"github.com/standardbeagle/uast/internal/symtab"
	"github.com/standardbeagle/uast/internal/types"
)

// Stats summarizes one indexing run.
type Stats struct {
	FilesIndexed        int
	FilesFailed         int
	SymbolsRegistered   int
	SymbolCollisions    int
	ReferencesAttempted int
	ReferencesResolved  int
}

// Indexer owns the shared pipeline state for one project. File ASTs are
// retained for the lifetime of the indexer because the symbol table and
// reference links borrow their nodes.
type Indexer struct {
	cfg      *config.Config
	parser   *parser.TreeSitterParser
	builder  *astbuilder.Builder
	table    *symtab.Table
	resolver *resolver.Resolver

	// mu serializes symbol registration and guards the AST/hash maps; a
	// table rehash touches every bucket and cannot overlap other writes.
	mu     sync.Mutex
	asts   map[string]*types.ASTNode
	langs  map[string]types.Language
	hashes map[string]uint64

	stats Stats
}

// NewIndexer creates an indexer for the configured project.
func NewIndexer(cfg *config.Config) *Indexer {
	if cfg == nil {
		cfg = config.Default()
	}
	table := symtab.NewWithBuckets(cfg.Performance.SymbolTableBuckets)
	res := resolver.New(table)
	res.EnableSuggestions(cfg.Resolution.Suggestions)
	return &Indexer{
		cfg:      cfg,
		parser:   parser.New(),
		builder:  astbuilder.New(nil),
		table:    table,
		resolver: res,
		asts:     make(map[string]*types.ASTNode),
		langs:    make(map[string]types.Language),
		hashes:   make(map[string]uint64),
	}
}

// Table exposes the symbol table for lookups.
func (ix *Indexer) Table() *symtab.Table { return ix.table }

// Resolver exposes the reference resolver for statistics.
func (ix *Indexer) Resolver() *resolver.Resolver { return ix.resolver }

// AST returns the retained AST for a previously indexed file.
func (ix *Indexer) AST(path string) *types.ASTNode {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.asts[path]
}

// Stats returns a copy of the run counters, merged with the resolver's.
func (ix *Indexer) Stats() Stats {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	s := ix.stats
	s.SymbolCollisions = ix.table.Collisions()
	rs := ix.resolver.Stats()
	s.ReferencesAttempted = rs.Attempted
	s.ReferencesResolved = rs.Resolved
	return s
}

// IndexProject discovers, parses, and builds every matching file in
// parallel, registers symbols serially, then resolves references once all
// registration has completed.
func (ix *Indexer) IndexProject(ctx context.Context) (Stats, error) {
	files, err := ix.collectFiles()
	if err != nil {
		return ix.Stats(), err
	}
	debug.LogParse("indexing %d files under %s\n", len(files), ix.cfg.Project.Root)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.cfg.Workers())
	for _, path := range files {
		g.Go(func() error {
			if err := ix.indexOne(gctx, path); err != nil {
				// Per-file failures degrade the result, never abort the run.
				debug.LogParse("failed to index %s: %v\n", path, err)
				ix.mu.Lock()
				ix.stats.FilesFailed++
				ix.mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ix.Stats(), err
	}

	if ix.cfg.Resolution.Enabled {
		ix.resolveAll()
	}
	return ix.Stats(), nil
}

// IndexFile (re)indexes one file: prior symbols for the path are dropped,
// the file is rebuilt, and its symbols re-registered. Unchanged content is
// skipped via a content hash.
func (ix *Indexer) IndexFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	sum := xxhash.Sum64(content)
	ix.mu.Lock()
	if prev, ok := ix.hashes[path]; ok && prev == sum {
		ix.mu.Unlock()
		return nil
	}
	ix.mu.Unlock()

	root, lang, err := ix.builder.BuildFile(ctx, ix.parser, path, content)
	if err != nil {
		return err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, existed := ix.asts[path]; existed {
		ix.table.RemoveByFile(path)
	}
	count := ix.table.RegisterFromAST(root, "", path, lang)
	ix.asts[path] = root
	ix.langs[path] = lang
	ix.hashes[path] = sum
	ix.stats.FilesIndexed++
	ix.stats.SymbolsRegistered += count
	return nil
}

// RemoveFile drops a deleted file's AST and symbols.
func (ix *Indexer) RemoveFile(path string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.asts[path]; ok {
		ix.table.RemoveByFile(path)
		delete(ix.asts, path)
		delete(ix.langs, path)
		delete(ix.hashes, path)
	}
}

func (ix *Indexer) indexOne(ctx context.Context, path string) error {
	return ix.IndexFile(ctx, path)
}

// resolveAll runs reference resolution over every retained AST. Resolution
// only reads the table, so it follows registration strictly.
func (ix *Indexer) resolveAll() {
	ix.mu.Lock()
	paths := make([]string, 0, len(ix.asts))
	for path := range ix.asts {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	ix.mu.Unlock()

	for _, path := range paths {
		ix.mu.Lock()
		root := ix.asts[path]
		lang := ix.langs[path]
		ix.mu.Unlock()
		ix.resolver.ResolveFile(root, lang)
	}
}

// collectFiles walks the project root applying the include/exclude globs
// and the closed extension mapping.
func (ix *Indexer) collectFiles() ([]string, error) {
	root := ix.cfg.Project.Root
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if ix.excluded(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if parser.LanguageForPath(path) == types.LangUnknown {
			return nil
		}
		if ix.excluded(rel) || !ix.included(rel) {
			return nil
		}
		if ix.cfg.Index.MaxFileSize > 0 {
			if info, err := d.Info(); err == nil && info.Size() > ix.cfg.Index.MaxFileSize {
				debug.LogParse("skipping oversized file %s\n", path)
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if ix.cfg.Index.MaxFileCount > 0 && len(files) > ix.cfg.Index.MaxFileCount {
		files = files[:ix.cfg.Index.MaxFileCount]
	}
	return files, err
}

func (ix *Indexer) excluded(rel string) bool {
	for _, pattern := range ix.cfg.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		// Directory patterns also exclude everything beneath them.
		if strings.HasSuffix(rel, "/") {
			if ok, _ := doublestar.Match(pattern, strings.TrimSuffix(rel, "/")); ok {
				return true
			}
		}
	}
	return false
}

func (ix *Indexer) included(rel string) bool {
	if len(ix.cfg.Include) == 0 {
		return true
	}
	for _, pattern := range ix.cfg.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
