package schema

import "github.com/standardbeagle/uast/internal/types"

// TypeScriptProfile extends the ECMAScript rules with the TypeScript-only
// declaration forms.
type TypeScriptProfile struct{}

func (*TypeScriptProfile) Language() types.Language { return types.LangTypeScript }

func (*TypeScriptProfile) NormalizeNode(node *types.ASTNode) bool {
	switch node.Property(PropGrammarType) {
	case "interface_declaration":
		node.Type = types.NodeInterface
		return true
	case "enum_declaration":
		node.Type = types.NodeEnum
		return true
	case "type_alias_declaration":
		node.Type = types.NodeTypedef
		return true
	}
	return normalizeECMAScript(node)
}

func (*TypeScriptProfile) PostProcess(root *types.ASTNode) error {
	return nil
}
