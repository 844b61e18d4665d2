package parser

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/uast/internal/types"
)

// CSTSnapshot converts a raw parse tree into the staging CST model. Only
// named grammar nodes are carried; anonymous tokens add nothing the builder
// or a caller inspecting the pre-normalization view can use.
func CSTSnapshot(tree *tree_sitter.Tree, content []byte) *types.CSTNode {
	if tree == nil {
		return nil
	}
	return snapshotNode(tree.RootNode(), content)
}

func snapshotNode(node *tree_sitter.Node, content []byte) *types.CSTNode {
	if node == nil {
		return nil
	}
	startByte := uint32(node.StartByte())
	endByte := uint32(node.EndByte())
	start := node.StartPosition()
	end := node.EndPosition()

	out := &types.CSTNode{
		Type: node.Kind(),
		Range: types.SourceRange{
			Start: types.SourceLocation{Line: uint32(start.Row), Column: uint32(start.Column), ByteOffset: startByte},
			End:   types.SourceLocation{Line: uint32(end.Row), Column: uint32(end.Column), ByteOffset: endByte},
		},
	}
	if int(endByte) <= len(content) && startByte <= endByte {
		out.Content = string(content[startByte:endByte])
	}

	count := node.NamedChildCount()
	for i := uint(0); i < count; i++ {
		out.AddChild(snapshotNode(node.NamedChild(i), content))
	}
	return out
}
