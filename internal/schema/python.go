package schema

import (
	"strings"

	"github.com/standardbeagle/uast/internal/types"
)

// PythonProfile normalizes tree-sitter-python shapes.
type PythonProfile struct{}

func (*PythonProfile) Language() types.Language { return types.LangPython }

func (*PythonProfile) NormalizeNode(node *types.ASTNode) bool {
	switch node.Property(PropGrammarType) {
	case "module":
		node.Type = types.NodeRoot
		node.Name = "ROOT"
	case "function_definition":
		// Functions nested in a class body are methods, but nesting is
		// expressed through qualified names here, so the builder's
		// category assignment stands.
		if node.Type != types.NodeMethod {
			node.Type = types.NodeFunction
		}
	case "class_definition":
		node.Type = types.NodeClass
	case "assignment":
		node.Type = types.NodeVariable
	case "import_statement", "import_from_statement":
		node.Type = types.NodeImport
	case "string":
		node.Type = types.NodeDocstring
		node.Name = ""
		node.QualifiedName = ""
	case "comment":
		node.Type = types.NodeComment
	default:
		return false
	}
	return true
}

func (*PythonProfile) PostProcess(root *types.ASTNode) error {
	if root == nil {
		return nil
	}
	// A module-level leading docstring is the module's documentation.
	for _, child := range root.Children {
		if child.Type == types.NodeDocstring && child.Range.Start.Line == 0 {
			root.Docstring = strings.Trim(child.RawContent, "\"' \n")
			break
		}
	}
	return nil
}
