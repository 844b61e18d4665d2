// Package resolver connects use-sites to their defining symbol table
// entries and accumulates resolution statistics. Unresolved references are
// expected for symbols outside the indexed project and are never errors.
package resolver

import (
	"strings"

	edlib "github.com/hbollon/go-edlib"

	"github.com/standardbeagle/uast/internal/debug"
	"github.com/standardbeagle/uast/internal/symtab"
	"github.com/standardbeagle/uast/internal/types"
)

// ReferenceKind classifies what a use-site refers to.
type ReferenceKind uint8

const (
	RefUnknown ReferenceKind = iota
	RefCall
	RefUse
	RefType
	RefImport
	RefInclude
)

func (k ReferenceKind) String() string {
	switch k {
	case RefCall:
		return "call"
	case RefUse:
		return "use"
	case RefType:
		return "type"
	case RefImport:
		return "import"
	case RefInclude:
		return "include"
	default:
		return "unknown"
	}
}

// Stats accumulates resolution outcomes for diagnostics.
type Stats struct {
	Attempted int
	Resolved  int
}

// suggestionThreshold is the minimum JaroWinkler similarity for a
// closest-name hint on an unresolved reference.
const suggestionThreshold = 0.92

// Resolver walks file ASTs and resolves references against a symbol table.
type Resolver struct {
	table *symtab.Table
	stats Stats

	// suggestions maps an unresolved name to the closest registered
	// qualified name, populated when suggestion lookups are enabled.
	suggestions map[string]string
	suggest     bool
}

// New creates a resolver over table.
func New(table *symtab.Table) *Resolver {
	return &Resolver{table: table, suggestions: make(map[string]string)}
}

// EnableSuggestions turns on fuzzy closest-name hints for unresolved
// references.
func (r *Resolver) EnableSuggestions(enabled bool) {
	r.suggest = enabled
}

// Stats returns a copy of the accumulated counters.
func (r *Resolver) Stats() Stats {
	return r.stats
}

// Suggestions returns the closest-name hints gathered for unresolved
// references.
func (r *Resolver) Suggestions() map[string]string {
	return r.suggestions
}

// referenceKindFor maps a node's canonical type to the kind of reference
// its name represents, or RefUnknown for nodes that need no resolution.
func referenceKindFor(node *types.ASTNode) ReferenceKind {
	switch node.Type {
	case types.NodeFunction:
		return RefCall
	case types.NodeVariable:
		return RefUse
	case types.NodeClass, types.NodeStruct, types.NodeEnum, types.NodeInterface:
		return RefType
	case types.NodeImport:
		return RefImport
	case types.NodeInclude:
		return RefInclude
	default:
		return RefUnknown
	}
}

// ResolveFile walks one file's AST and resolves every classifiable node.
// The returned count is the number of references resolved in this file.
func (r *Resolver) ResolveFile(root *types.ASTNode, language types.Language) int {
	if root == nil || r.table == nil {
		return 0
	}
	resolved := 0
	root.Walk(func(node *types.ASTNode) bool {
		if node == root {
			return true
		}
		kind := referenceKindFor(node)
		if kind == RefUnknown {
			return true
		}
		name := referenceName(node, kind)
		if name == "" {
			return true
		}
		if r.ResolveNode(node, kind, name, language) {
			resolved++
		}
		return true
	})
	return resolved
}

// referenceName extracts the name a node refers to. Includes take the
// quoted or bracketed path from the raw source text.
func referenceName(node *types.ASTNode, kind ReferenceKind) string {
	if kind == RefInclude {
		if path := node.Property("path"); path != "" {
			return path
		}
		return includePathFromRaw(node.RawContent)
	}
	return node.Name
}

// includePathFromRaw pulls the include target out of raw include text.
func includePathFromRaw(raw string) string {
	if i := strings.IndexAny(raw, "<\""); i >= 0 {
		rest := raw[i+1:]
		if j := strings.IndexAny(rest, ">\""); j >= 0 {
			return rest[:j]
		}
	}
	return ""
}

// ResolveNode resolves one reference against the symbol table, recording a
// weak link on success. Returns whether the reference resolved.
func (r *Resolver) ResolveNode(node *types.ASTNode, kind ReferenceKind, name string, language types.Language) bool {
	if node == nil || name == "" {
		return false
	}
	r.stats.Attempted++

	entry := r.table.Lookup(name)
	if entry == nil {
		currentScope := ""
		if node.Parent != nil {
			currentScope = node.Parent.QualifiedName
		}
		entry = r.table.ScopeLookup(name, currentScope, language)
	}

	if entry == nil || entry.Node == nil {
		debug.LogResolve("unresolved %s reference %q\n", kind, name)
		if r.suggest {
			r.recordSuggestion(name)
		}
		return false
	}
	// Self-definitions resolve to themselves; only cross-links count.
	if entry.Node != node {
		node.AddReference(entry.Node)
	}
	r.stats.Resolved++
	return true
}

// recordSuggestion finds the registered qualified name closest to an
// unresolved one. Diagnostics only.
func (r *Resolver) recordSuggestion(name string) {
	if _, done := r.suggestions[name]; done {
		return
	}
	bestScore := float32(suggestionThreshold)
	best := ""
	for _, entry := range r.table.All() {
		score, err := edlib.StringsSimilarity(name, entry.SimpleName, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = entry.QualifiedName
		}
	}
	if best != "" {
		r.suggestions[name] = best
	}
}
