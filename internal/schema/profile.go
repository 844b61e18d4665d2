// Package schema normalizes grammar-specific node shapes into the canonical
// taxonomy. Each supported language has one Profile; the Registry is built
// once and passed explicitly to the builder, never held in package state.
package schema

import (
	"strings"

	"github.com/standardbeagle/uast/internal/debug"
	"github.com/standardbeagle/uast/internal/types"
)

// PropGrammarType is the property key under which the builder records the
// raw grammar node kind; compliance rules key off it.
const PropGrammarType = "grammar_type"

// Profile is one language's compliance rules: a per-node classification and
// rewrite step, plus a whole-tree pass for cross-node adjustments.
//
// NormalizeNode must be idempotent and content-driven only: the same
// (grammar type, name) input always yields the same canonical output,
// regardless of where in the file the node sits. It returns false when the
// node could not be normalized; the node keeps its current fields and the
// traversal continues.
type Profile interface {
	Language() types.Language
	NormalizeNode(node *types.ASTNode) bool
	PostProcess(root *types.ASTNode) error
}

// Registry holds the closed set of language profiles.
type Registry struct {
	profiles map[types.Language]Profile
}

// NewRegistry builds the registry with every supported language profile.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[types.Language]Profile, 5)}
	for _, p := range []Profile{
		&CProfile{},
		&CppProfile{},
		&PythonProfile{},
		&JavaScriptProfile{},
		&TypeScriptProfile{},
	} {
		r.profiles[p.Language()] = p
	}
	return r
}

// Profile returns the profile for lang. A missing profile is not an error;
// callers skip compliance and the AST keeps the builder's types.
func (r *Registry) Profile(lang types.Language) (Profile, bool) {
	p, ok := r.profiles[lang]
	return p, ok
}

// Normalize applies node-level compliance to node if a profile exists.
func (r *Registry) Normalize(lang types.Language, node *types.ASTNode) {
	p, ok := r.profiles[lang]
	if !ok {
		return
	}
	if !p.NormalizeNode(node) {
		debug.LogBuild("compliance left node %q (%s) unchanged\n", node.Name, node.Property(PropGrammarType))
	}
}

// PostProcess runs the whole-tree pass for lang if a profile exists.
func (r *Registry) PostProcess(lang types.Language, root *types.ASTNode) error {
	p, ok := r.profiles[lang]
	if !ok {
		return nil
	}
	return p.PostProcess(root)
}

// isDocComment reports whether a raw comment is JavaDoc-style documentation.
func isDocComment(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), "/**")
}

// includePath extracts the include target from raw include text, stripping
// angle brackets or quotes around the path.
func includePath(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, "<\""); i >= 0 {
		s = s[i+1:]
		if j := strings.IndexAny(s, ">\""); j >= 0 {
			return s[:j]
		}
	}
	return strings.Trim(s, "<>\"")
}

// normalizeComment applies the shared comment classification: JavaDoc-style
// comments become DOCSTRING nodes with an empty name, everything else a
// COMMENT.
func normalizeComment(node *types.ASTNode) {
	raw := node.RawContent
	if raw == "" {
		raw = node.Name
	}
	if isDocComment(raw) {
		node.Type = types.NodeDocstring
		node.Name = ""
		node.QualifiedName = ""
	} else {
		node.Type = types.NodeComment
	}
}
