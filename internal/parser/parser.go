// Package parser wraps the tree-sitter grammar engine: per-language parser
// and query setup, language detection, and execution of the semantic query
// categories that feed the AST builder.
package parser

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/uast/internal/debug"
	uasterrors "github.com/standardbeagle/uast/internal/errors"
	"github.com/standardbeagle/uast/internal/types"
)

// QueryCategories is the fixed, ordered sequence of semantic query
// categories. Containers (classes, structs) run first so later categories
// can nest under the right parent.
var QueryCategories = []string{
	"classes",
	"structs",
	"functions",
	"methods",
	"variables",
	"imports",
	"docstrings",
}

// Capture is one named sub-match of a query, with the grammar node kind and
// the literal source text it spans. Ranges are 0-indexed.
type Capture struct {
	Name      string
	Kind      string
	StartByte uint32
	EndByte   uint32
	Range     types.SourceRange
	Text      string
}

// QueryMatch is one match of a category query: the full capture set,
// including the main capture and any .name/.signature/.docstring captures.
type QueryMatch struct {
	Category string
	Captures []Capture
}

// TreeSitterParser owns the per-language tree-sitter parsers and compiled
// category queries. Languages are initialized lazily on first use.
type TreeSitterParser struct {
	parsers map[types.Language]*tree_sitter.Parser
	queries map[types.Language]map[string]*tree_sitter.Query

	parserMutex sync.RWMutex
	lazyInit    map[types.Language]func()
	initialized map[types.Language]bool
}

// New creates a parser with no languages initialized yet.
func New() *TreeSitterParser {
	p := &TreeSitterParser{
		parsers:     make(map[types.Language]*tree_sitter.Parser),
		queries:     make(map[types.Language]map[string]*tree_sitter.Query),
		initialized: make(map[types.Language]bool),
	}
	p.lazyInit = map[types.Language]func(){
		types.LangC:          p.setupC,
		types.LangCPP:        p.setupCpp,
		types.LangPython:     p.setupPython,
		types.LangJavaScript: p.setupJavaScript,
		types.LangTypeScript: p.setupTypeScript,
	}
	return p
}

var parserPool = sync.Pool{
	New: func() interface{} { return New() },
}

// GetSharedParser returns a parser instance from the pool.
func GetSharedParser() *TreeSitterParser {
	return parserPool.Get().(*TreeSitterParser)
}

// PutSharedParser returns a parser to the pool for reuse.
func PutSharedParser(p *TreeSitterParser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// ensureInitialized lazily runs the language's setup function once.
func (p *TreeSitterParser) ensureInitialized(lang types.Language) bool {
	p.parserMutex.RLock()
	if p.initialized[lang] {
		ok := p.parsers[lang] != nil
		p.parserMutex.RUnlock()
		return ok
	}
	p.parserMutex.RUnlock()

	p.parserMutex.Lock()
	defer p.parserMutex.Unlock()
	if p.initialized[lang] {
		return p.parsers[lang] != nil
	}
	setup, ok := p.lazyInit[lang]
	if !ok {
		return false
	}
	setup()
	p.initialized[lang] = true
	return p.parsers[lang] != nil
}

// Parse parses content with the grammar for lang and returns the raw tree
// plus the buffer the tree's byte offsets refer to. The caller must Close
// the tree when done.
func (p *TreeSitterParser) Parse(ctx context.Context, path string, content []byte, lang types.Language) (tree *tree_sitter.Tree, buffer []byte, err error) {
	if lang == types.LangUnknown {
		return nil, nil, uasterrors.NewUnknownLanguageError(path)
	}
	if len(content) == 0 {
		return nil, nil, uasterrors.NewInputError(path, "empty content", nil)
	}
	if !utf8.Valid(content) {
		return nil, nil, uasterrors.NewInputError(path, "invalid UTF-8 encoding", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if !p.ensureInitialized(lang) {
		return nil, nil, uasterrors.NewInputError(path, fmt.Sprintf("no grammar available for language %s", lang), nil)
	}

	p.parserMutex.RLock()
	parser := p.parsers[lang]
	p.parserMutex.RUnlock()

	// Tree-sitter mutates input buffers via CGO. Parse a defensive copy so
	// callers can keep treating their content as immutable.
	buffer = make([]byte, len(content))
	copy(buffer, content)

	defer func() {
		if r := recover(); r != nil {
			debug.LogParse("TREE-SITTER PANIC in file %s: %v\n", path, r)
			tree = nil
			err = uasterrors.NewBuildError("parse", fmt.Errorf("grammar engine panic: %v", r)).
				WithType(uasterrors.ErrorTypeParse).WithFile(path)
		}
	}()

	tree = parser.Parse(buffer, nil)
	if tree == nil {
		return nil, nil, uasterrors.NewBuildError("parse", fmt.Errorf("grammar engine returned no tree")).
			WithType(uasterrors.ErrorTypeParse).WithFile(path)
	}
	return tree, buffer, nil
}

// ExtractMatches runs every category query for lang against the tree and
// groups the matches by category. Categories without a compiled query for
// this language are absent from the result.
func (p *TreeSitterParser) ExtractMatches(lang types.Language, tree *tree_sitter.Tree, content []byte) map[string][]QueryMatch {
	if tree == nil || !p.ensureInitialized(lang) {
		return nil
	}
	out := make(map[string][]QueryMatch, len(QueryCategories))
	for _, category := range QueryCategories {
		if matches := p.runCategory(lang, category, tree, content); len(matches) > 0 {
			out[category] = matches
		}
	}
	return out
}

func (p *TreeSitterParser) runCategory(lang types.Language, category string, tree *tree_sitter.Tree, content []byte) []QueryMatch {
	p.parserMutex.RLock()
	query := p.queries[lang][category]
	p.parserMutex.RUnlock()
	if query == nil {
		return nil
	}

	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()
	queryMatches := qc.Matches(query, tree.RootNode(), content)
	captureNames := query.CaptureNames()

	var out []QueryMatch
	for {
		match := queryMatches.Next()
		if match == nil {
			break
		}
		// Matches with zero captures carry nothing extractable.
		if len(match.Captures) == 0 {
			continue
		}
		qm := QueryMatch{Category: category, Captures: make([]Capture, 0, len(match.Captures))}
		for _, c := range match.Captures {
			node := c.Node
			startByte := uint32(node.StartByte())
			endByte := uint32(node.EndByte())
			start := node.StartPosition()
			end := node.EndPosition()
			text := ""
			if int(endByte) <= len(content) && startByte <= endByte {
				text = string(content[startByte:endByte])
			}
			qm.Captures = append(qm.Captures, Capture{
				Name:      captureNames[c.Index],
				Kind:      node.Kind(),
				StartByte: startByte,
				EndByte:   endByte,
				Range: types.SourceRange{
					Start: types.SourceLocation{Line: uint32(start.Row), Column: uint32(start.Column), ByteOffset: startByte},
					End:   types.SourceLocation{Line: uint32(end.Row), Column: uint32(end.Column), ByteOffset: endByte},
				},
				Text: text,
			})
		}
		out = append(out, qm)
	}
	return out
}

// Close releases every initialized parser and compiled query.
func (p *TreeSitterParser) Close() {
	p.parserMutex.Lock()
	defer p.parserMutex.Unlock()
	for lang, queries := range p.queries {
		for _, q := range queries {
			q.Close()
		}
		delete(p.queries, lang)
	}
	for lang, parser := range p.parsers {
		parser.Close()
		delete(p.parsers, lang)
	}
	p.initialized = make(map[types.Language]bool)
}
