package astbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/uast/internal/types"
)

func TestExtractDocComment(t *testing.T) {
	out := ExtractDocComment("/** @brief Foo */")
	assert.Contains(t, out, "@brief Foo")
	assert.NotContains(t, out, "/**")
	assert.NotContains(t, out, "*/")
}

func TestExtractDocCommentMultiline(t *testing.T) {
	raw := "/**\n * Computes a value.\n * @param x input\n */"
	out := ExtractDocComment(raw)
	assert.Contains(t, out, "Computes a value.")
	assert.Contains(t, out, "@param x input")
	assert.NotContains(t, out, " * ")
	assert.NotContains(t, out, "*/")
}

func docNode(line uint32, raw string) *types.ASTNode {
	n := types.NewASTNode(types.NodeDocstring, "")
	n.RawContent = raw
	n.Range = types.SourceRange{
		Start: types.SourceLocation{Line: line},
		End:   types.SourceLocation{Line: line},
	}
	return n
}

func declNode(t types.NodeType, name string, line uint32) *types.ASTNode {
	n := types.NewASTNode(t, name)
	n.Range = types.SourceRange{
		Start: types.SourceLocation{Line: line},
		End:   types.SourceLocation{Line: line + 2},
	}
	return n
}

func TestAssociateDocstringsProximity(t *testing.T) {
	root := types.NewASTNode(types.NodeRoot, "f.c")
	root.AddChild(docNode(0, "/** @brief Foo */"))
	foo := declNode(types.NodeFunction, "foo", 1)
	root.AddChild(foo)

	AssociateDocstrings(root)
	assert.Contains(t, foo.Docstring, "@brief Foo")
}

func TestAssociateDocstringsWindowLimit(t *testing.T) {
	root := types.NewASTNode(types.NodeRoot, "f.c")
	root.AddChild(docNode(0, "/** far away */"))
	far := declNode(types.NodeFunction, "far", 10)
	root.AddChild(far)

	AssociateDocstrings(root)
	assert.Empty(t, far.Docstring)
}

func TestAssociateDocstringsSingleConsumer(t *testing.T) {
	root := types.NewASTNode(types.NodeRoot, "f.c")
	root.AddChild(docNode(0, "/** doc */"))
	first := declNode(types.NodeFunction, "first", 1)
	second := declNode(types.NodeFunction, "second", 3)
	root.AddChild(first)
	root.AddChild(second)

	AssociateDocstrings(root)
	assert.Contains(t, first.Docstring, "doc")
	assert.Empty(t, second.Docstring)
}

func TestAssociateDocstringsClosestWins(t *testing.T) {
	root := types.NewASTNode(types.NodeRoot, "f.c")
	root.AddChild(docNode(0, "/** distant */"))
	root.AddChild(docNode(3, "/** adjacent */"))
	fn := declNode(types.NodeFunction, "fn", 4)
	root.AddChild(fn)

	AssociateDocstrings(root)
	assert.Contains(t, fn.Docstring, "adjacent")
}

func TestAssociateDocstringsSkipsNonDeclarations(t *testing.T) {
	root := types.NewASTNode(types.NodeRoot, "f.c")
	root.AddChild(docNode(0, "/** doc */"))

	comment := types.NewASTNode(types.NodeComment, "// plain")
	comment.Range = types.SourceRange{Start: types.SourceLocation{Line: 1}}
	unknown := types.NewASTNode(types.NodeUnknown, "x")
	unknown.Range = types.SourceRange{Start: types.SourceLocation{Line: 2}}
	root.AddChild(comment)
	root.AddChild(unknown)

	AssociateDocstrings(root)
	assert.Empty(t, comment.Docstring)
	assert.Empty(t, unknown.Docstring)
}

func TestAssociateDocstringsOnlyPreceding(t *testing.T) {
	root := types.NewASTNode(types.NodeRoot, "f.c")
	fn := declNode(types.NodeFunction, "fn", 0)
	root.AddChild(fn)
	root.AddChild(docNode(2, "/** trailing */"))

	AssociateDocstrings(root)
	assert.Empty(t, fn.Docstring)
}
