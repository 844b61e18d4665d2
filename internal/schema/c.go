package schema

import (
	"strings"

	"github.com/standardbeagle/uast/internal/types"
)

// CProfile normalizes tree-sitter-c shapes into the canonical taxonomy.
type CProfile struct{}

func (*CProfile) Language() types.Language { return types.LangC }

func (*CProfile) NormalizeNode(node *types.ASTNode) bool {
	switch node.Property(PropGrammarType) {
	case "translation_unit":
		node.Type = types.NodeRoot
		if base := node.Property("basename"); base != "" {
			node.Name = base
		}
	case "comment":
		normalizeComment(node)
	case "function_definition":
		node.Type = types.NodeFunction
		if node.Name == "main" {
			node.Signature = "int main()"
			node.SetProperty("return_type", "int")
		}
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
	case "struct_specifier":
		node.Type = types.NodeStruct
	case "declaration", "init_declarator":
		node.Type = types.NodeVariable
	default:
		return false
	}
	return true
}

func (*CProfile) PostProcess(root *types.ASTNode) error {
	if root == nil {
		return nil
	}
	if strings.HasSuffix(root.Property("filename"), ".h") {
		root.SetProperty("is_header", "true")
	}
	return nil
}
