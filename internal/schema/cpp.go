package schema

import (
	"strings"

	"github.com/standardbeagle/uast/internal/types"
)

// CppProfile normalizes tree-sitter-cpp shapes. It shares the C comment and
// include rules and adds the class, namespace, and method mappings.
type CppProfile struct{}

func (*CppProfile) Language() types.Language { return types.LangCPP }

func (*CppProfile) NormalizeNode(node *types.ASTNode) bool {
	switch node.Property(PropGrammarType) {
	case "translation_unit":
		node.Type = types.NodeRoot
		if base := node.Property("basename"); base != "" {
			node.Name = base
		}
	case "comment":
		normalizeComment(node)
	case "function_definition":
		// Functions captured through a field_identifier declarator are
		// methods; the builder records the category-based type before
		// compliance runs, so only promote plain functions here.
		if node.Type != types.NodeMethod {
			node.Type = types.NodeFunction
		}
		if node.Name == "main" {
			node.Signature = "int main()"
			node.SetProperty("return_type", "int")
		}
	case "field_declaration":
		node.Type = types.NodeMethod
	case "preproc_include":
		node.Type = types.NodeInclude
		raw := node.RawContent
		if raw == "" {
			raw = node.Name
		}
		if path := includePath(raw); path != "" {
			node.Name = path
			node.SetProperty("path", path)
		}
	case "class_specifier":
		node.Type = types.NodeClass
	case "struct_specifier":
		node.Type = types.NodeStruct
	case "namespace_definition":
		node.Type = types.NodeNamespace
	case "declaration", "init_declarator":
		node.Type = types.NodeVariable
	default:
		return false
	}
	return true
}

func (*CppProfile) PostProcess(root *types.ASTNode) error {
	if root == nil {
		return nil
	}
	filename := root.Property("filename")
	for _, ext := range []string{".h", ".hpp", ".hxx", ".hh"} {
		if strings.HasSuffix(filename, ext) {
			root.SetProperty("is_header", "true")
			break
		}
	}
	return nil
}
