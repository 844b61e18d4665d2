package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageString(t *testing.T) {
	assert.Equal(t, "c", LangC.String())
	assert.Equal(t, "cpp", LangCPP.String())
	assert.Equal(t, "python", LangPython.String())
	assert.Equal(t, "javascript", LangJavaScript.String())
	assert.Equal(t, "typescript", LangTypeScript.String())
	assert.Equal(t, "unknown", LangUnknown.String())
}

func TestScopeSeparator(t *testing.T) {
	assert.Equal(t, "::", LangC.ScopeSeparator())
	assert.Equal(t, "::", LangCPP.ScopeSeparator())
	assert.Equal(t, ".", LangPython.ScopeSeparator())
	assert.Equal(t, ".", LangJavaScript.ScopeSeparator())
	assert.Equal(t, ".", LangTypeScript.ScopeSeparator())
}

func TestNodeTypeString(t *testing.T) {
	assert.Equal(t, "ROOT", NodeRoot.String())
	assert.Equal(t, "FUNCTION", NodeFunction.String())
	assert.Equal(t, "INCLUDE", NodeInclude.String())
	assert.Equal(t, "TEMPLATE_SPECIALIZATION", NodeTemplateSpecialization.String())
	assert.Equal(t, "UNKNOWN", NodeUnknown.String())
	assert.Equal(t, "UNKNOWN", NodeType(200).String())
}

func TestSourceRangeOrdering(t *testing.T) {
	a := SourceLocation{Line: 1, Column: 4}
	b := SourceLocation{Line: 1, Column: 9}
	c := SourceLocation{Line: 3}

	assert.True(t, a.Before(b))
	assert.True(t, a.Before(c))
	assert.False(t, b.Before(a))

	assert.True(t, SourceRange{Start: a, End: b}.Valid())
	assert.True(t, SourceRange{Start: a, End: a}.Valid())
	assert.False(t, SourceRange{Start: c, End: a}.Valid())
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, uint32(0), CountLines(nil))
	assert.Equal(t, uint32(0), CountLines([]byte("no newline")))
	assert.Equal(t, uint32(2), CountLines([]byte("a\nb\n")))
}

func TestBasename(t *testing.T) {
	assert.Equal(t, "a.c", Basename("src/sub/a.c"))
	assert.Equal(t, "a.c", Basename(`src\sub\a.c`))
	assert.Equal(t, "a.c", Basename("a.c"))
}

func TestASTNodeSingleParent(t *testing.T) {
	root := NewASTNode(NodeRoot, "root")
	other := NewASTNode(NodeRoot, "other")
	child := NewASTNode(NodeFunction, "f")

	root.AddChild(child)
	require.Len(t, root.Children, 1)
	assert.Same(t, root, child.Parent)

	// Reattaching moves the node; it must appear in exactly one parent.
	other.AddChild(child)
	assert.Empty(t, root.Children)
	require.Len(t, other.Children, 1)
	assert.Same(t, other, child.Parent)

	assert.True(t, other.RemoveChild(child))
	assert.Nil(t, child.Parent)
	assert.False(t, other.RemoveChild(child))
}

func TestASTNodeReferencesDeduplicated(t *testing.T) {
	caller := NewASTNode(NodeFunction, "caller")
	callee := NewASTNode(NodeFunction, "callee")

	caller.AddReference(callee)
	caller.AddReference(callee)
	caller.AddReference(caller)

	assert.Len(t, caller.References, 1)
}

func TestASTNodeWalkPrunes(t *testing.T) {
	root := NewASTNode(NodeRoot, "root")
	class := NewASTNode(NodeClass, "C")
	method := NewASTNode(NodeMethod, "m")
	class.AddChild(method)
	root.AddChild(class)

	var visited []string
	root.Walk(func(n *ASTNode) bool {
		visited = append(visited, n.Name)
		return n.Type != NodeClass
	})
	assert.Equal(t, []string{"root", "C"}, visited)
}

func TestASTNodeJSONFieldNames(t *testing.T) {
	node := NewASTNode(NodeFunction, "main")
	node.QualifiedName = "main"
	node.Range = SourceRange{
		Start: SourceLocation{Line: 1, Column: 0},
		End:   SourceLocation{Line: 1, Column: 25},
	}

	data, err := json.Marshal(node)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "FUNCTION", decoded["type"])
	assert.Equal(t, "main", decoded["name"])

	rng, ok := decoded["range"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), rng["start_line"])
	assert.Equal(t, float64(0), rng["start_column"])
	assert.Equal(t, float64(1), rng["end_line"])
	assert.Equal(t, float64(25), rng["end_column"])
}
