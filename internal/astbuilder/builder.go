// Package astbuilder turns raw parse trees into canonical ASTs. It executes
// the ordered semantic query categories, maps matches to canonical nodes,
// computes the qualified-name hierarchy, associates docstrings, and runs
// the language's schema compliance.
package astbuilder

import (
	"context"
	"strings"

	"github.com/standardbeagle/uast/internal/debug"
	uasterrors "github.com/standardbeagle/uast/internal/errors"
	"github.com/standardbeagle/uast/internal/parser"
	"github.com/standardbeagle/uast/internal/schema"
	"github.com/standardbeagle/uast/internal/types"
)

// categoryNodeTypes maps a query category to the canonical type its main
// captures become. Categories absent here are skipped with a log entry.
var categoryNodeTypes = map[string]types.NodeType{
	"classes":    types.NodeClass,
	"structs":    types.NodeStruct,
	"functions":  types.NodeFunction,
	"methods":    types.NodeMethod,
	"variables":  types.NodeVariable,
	"imports":    types.NodeImport,
	"docstrings": types.NodeDocstring,
}

// nameLine keys a named node by its name and starting line.
type nameLine struct {
	name string
	line uint32
}

// Builder builds canonical ASTs. The compliance registry is passed in
// explicitly so tests can construct builders in isolation.
type Builder struct {
	registry *schema.Registry
}

// New creates a builder using the given compliance registry.
func New(registry *schema.Registry) *Builder {
	if registry == nil {
		registry = schema.NewRegistry()
	}
	return &Builder{registry: registry}
}

// Input is everything Build needs for one file: the source, its language,
// the raw tree's root kind, and the query matches grouped by category.
type Input struct {
	Filename string
	Content  []byte
	Language types.Language
	RootKind string
	Matches  map[string][]parser.QueryMatch
}

// Build converts one file's query matches into a canonical AST. It always
// returns a non-nil root on success; total failure of one category never
// aborts the others.
func (b *Builder) Build(in Input) (*types.ASTNode, error) {
	if in.Language == types.LangUnknown {
		return nil, uasterrors.NewUnknownLanguageError(in.Filename)
	}

	root := b.newRoot(in)

	// Function bindings like `const f = () => {}` match both the functions
	// and variables queries; the FUNCTION node wins and the declarator's
	// VARIABLE match is dropped.
	functionAt := make(map[nameLine]bool)

	for _, category := range parser.QueryCategories {
		matches := in.Matches[category]
		if len(matches) == 0 {
			continue
		}
		nodeType, ok := categoryNodeTypes[category]
		if !ok {
			debug.LogBuild("skipping unknown query category %q for %s\n", category, in.Filename)
			continue
		}
		for _, m := range matches {
			node := buildNode(category, nodeType, m)
			if node == nil {
				debug.LogBuild("dropped %s match without a main capture in %s\n", category, in.Filename)
				continue
			}
			if category == "variables" && functionAt[nameLine{node.Name, node.Range.Start.Line}] {
				debug.LogBuild("dropped variable %q shadowed by a function binding in %s\n", node.Name, in.Filename)
				continue
			}
			b.registry.Normalize(in.Language, node)
			root.AddChild(node)

			if node.Type == types.NodeFunction || node.Type == types.NodeMethod {
				functionAt[nameLine{node.Name, node.Range.Start.Line}] = true
				for i := range m.Captures {
					if captureRole(m.Captures[i].Name) == "name" {
						functionAt[nameLine{node.Name, m.Captures[i].Range.Start.Line}] = true
					}
				}
			}
		}
	}

	b.registry.Normalize(in.Language, root)
	qualifyNames(root)
	AssociateDocstrings(root)

	if err := b.registry.PostProcess(in.Language, root); err != nil {
		// Post-processing failures degrade the result, they do not void it.
		debug.LogBuild("post-process failed for %s: %v\n", in.Filename, err)
	}
	return root, nil
}

// BuildFile runs the full single-file pipeline: detect, parse, extract,
// build. The language comes from the closed extension mapping; unknown
// extensions are rejected before any parse attempt.
func (b *Builder) BuildFile(ctx context.Context, p *parser.TreeSitterParser, path string, content []byte) (*types.ASTNode, types.Language, error) {
	root, _, lang, err := b.buildFile(ctx, p, path, content, false)
	return root, lang, err
}

// BuildFileWithCST is BuildFile plus a staging snapshot of the raw grammar
// tree, for callers that need the pre-normalization view.
func (b *Builder) BuildFileWithCST(ctx context.Context, p *parser.TreeSitterParser, path string, content []byte) (*types.ASTNode, *types.CSTNode, types.Language, error) {
	return b.buildFile(ctx, p, path, content, true)
}

func (b *Builder) buildFile(ctx context.Context, p *parser.TreeSitterParser, path string, content []byte, withCST bool) (*types.ASTNode, *types.CSTNode, types.Language, error) {
	lang := parser.LanguageForPath(path)
	if lang == types.LangUnknown {
		return nil, nil, types.LangUnknown, uasterrors.NewUnknownLanguageError(path)
	}

	tree, buffer, err := p.Parse(ctx, path, content, lang)
	if err != nil {
		return nil, nil, lang, err
	}
	defer tree.Close()

	var cst *types.CSTNode
	if withCST {
		cst = parser.CSTSnapshot(tree, buffer)
	}

	root, err := b.Build(Input{
		Filename: path,
		Content:  buffer,
		Language: lang,
		RootKind: tree.RootNode().Kind(),
		Matches:  p.ExtractMatches(lang, tree, buffer),
	})
	return root, cst, lang, err
}

func (b *Builder) newRoot(in Input) *types.ASTNode {
	root := types.NewASTNode(types.NodeRoot, in.Filename)
	root.Range = types.SourceRange{
		End: types.SourceLocation{Line: types.CountLines(in.Content)},
	}
	root.SetProperty("filename", in.Filename)
	root.SetProperty("basename", types.Basename(in.Filename))
	if in.RootKind != "" {
		root.SetProperty(schema.PropGrammarType, in.RootKind)
	}
	return root
}

// buildNode maps one query match to a canonical node, or nil when the main
// capture cannot be located.
func buildNode(category string, nodeType types.NodeType, m parser.QueryMatch) *types.ASTNode {
	main := findMainCapture(category, m.Captures)
	if main == nil {
		return nil
	}

	node := types.NewASTNode(nodeType, "")
	node.Range = main.Range
	node.SetProperty(schema.PropGrammarType, main.Kind)

	named := false
	for i := range m.Captures {
		c := &m.Captures[i]
		switch captureRole(c.Name) {
		case "name":
			node.Name = c.Text
			named = true
		case "signature":
			node.Signature = c.Text
		case "docstring":
			node.Docstring = c.Text
		}
	}
	if !named {
		if category == "docstrings" {
			// No identifier exists for free-standing documentation; the
			// text itself identifies the node.
			node.Name = main.Text
		} else {
			node.Name = "unnamed_" + main.Kind
		}
	}

	switch category {
	case "functions", "methods", "imports", "docstrings":
		node.RawContent = main.Text
	}
	return node
}

// findMainCapture locates the capture whose name matches the category after
// sigil stripping and singular/plural normalization.
func findMainCapture(category string, captures []parser.Capture) *parser.Capture {
	for i := range captures {
		base := captureBase(captures[i].Name)
		if base == category || base == singular(category) {
			return &captures[i]
		}
	}
	return nil
}

// captureBase strips a leading sigil and any role suffix: "@function.name"
// and "function.name" both yield "function".
func captureBase(name string) string {
	name = strings.TrimPrefix(name, "@")
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// captureRole returns the role suffix of a capture name ("name",
// "signature", "docstring"), or "" for a main capture.
func captureRole(name string) string {
	name = strings.TrimPrefix(name, "@")
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return ""
}

func singular(category string) string {
	if s := strings.TrimSuffix(category, "es"); s != category && strings.HasSuffix(category, "sses") {
		return s
	}
	return strings.TrimSuffix(category, "s")
}

// qualifyNames assigns qualified names top-down: the root carries its own
// name, direct children of the root carry their simple name, and deeper
// nodes join their parent's qualified name with ".". Name itself is left
// untouched.
func qualifyNames(root *types.ASTNode) {
	root.QualifiedName = root.Name
	for _, child := range root.Children {
		qualifyFrom(child, root)
	}
}

func qualifyFrom(node *types.ASTNode, parent *types.ASTNode) {
	switch {
	case node.Name == "":
		node.QualifiedName = ""
	case parent.Type == types.NodeRoot:
		node.QualifiedName = node.Name
	case parent.QualifiedName != "":
		node.QualifiedName = parent.QualifiedName + "." + node.Name
	default:
		node.QualifiedName = node.Name
	}
	for _, child := range node.Children {
		qualifyFrom(child, node)
	}
}
