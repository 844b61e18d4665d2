package schema

import "github.com/standardbeagle/uast/internal/types"

// JavaScriptProfile normalizes tree-sitter-javascript shapes.
type JavaScriptProfile struct{}

func (*JavaScriptProfile) Language() types.Language { return types.LangJavaScript }

func (*JavaScriptProfile) NormalizeNode(node *types.ASTNode) bool {
	return normalizeECMAScript(node)
}

func (*JavaScriptProfile) PostProcess(root *types.ASTNode) error {
	return nil
}

// normalizeECMAScript holds the rules shared by JavaScript and TypeScript.
func normalizeECMAScript(node *types.ASTNode) bool {
	switch node.Property(PropGrammarType) {
	case "program":
		node.Type = types.NodeRoot
		node.Name = "ROOT"
	case "function_declaration", "function_expression", "function", "arrow_function":
		node.Type = types.NodeFunction
	case "class_declaration", "class":
		node.Type = types.NodeClass
	case "method_definition":
		node.Type = types.NodeMethod
	case "variable_declarator":
		node.Type = types.NodeVariable
	case "import_statement":
		node.Type = types.NodeImport
	case "comment":
		normalizeComment(node)
	default:
		return false
	}
	return true
}
