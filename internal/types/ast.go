package types

import "encoding/json"

// ASTNode is the canonical node every language normalizes into. The tree is
// a strict forest: each node except the root has exactly one parent and
// appears exactly once in that parent's Children. Parent and References are
// weak links and must never be used for lifetime control.
type ASTNode struct {
	Type          NodeType
	Name          string
	QualifiedName string
	Signature     string
	Docstring     string
	RawContent    string
	Range         SourceRange
	Children      []*ASTNode
	Parent        *ASTNode
	References    []*ASTNode
	Properties    map[string]string
}

// NewASTNode creates a detached node of the given type.
func NewASTNode(t NodeType, name string) *ASTNode {
	return &ASTNode{Type: t, Name: name}
}

// AddChild appends child to n's children and sets the back-reference. A
// child already attached elsewhere is detached first so the single-parent
// invariant holds.
func (n *ASTNode) AddChild(child *ASTNode) {
	if child == nil || child == n {
		return
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// RemoveChild detaches child from n. The child keeps its subtree.
func (n *ASTNode) RemoveChild(child *ASTNode) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return true
		}
	}
	return false
}

// AddReference records a weak cross-link from n to target. Duplicates are
// collapsed.
func (n *ASTNode) AddReference(target *ASTNode) {
	if target == nil || target == n {
		return
	}
	for _, r := range n.References {
		if r == target {
			return
		}
	}
	n.References = append(n.References, target)
}

// SetProperty stores extensible metadata on the node.
func (n *ASTNode) SetProperty(key, value string) {
	if n.Properties == nil {
		n.Properties = make(map[string]string)
	}
	n.Properties[key] = value
}

// Property returns the value for key, or "" when unset.
func (n *ASTNode) Property(key string) string {
	return n.Properties[key]
}

// Walk visits n and every descendant in preorder. Returning false from fn
// prunes that subtree.
func (n *ASTNode) Walk(fn func(*ASTNode) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// jsonRange is the stable serialized range shape external tools depend on.
type jsonRange struct {
	StartLine   uint32 `json:"start_line"`
	StartColumn uint32 `json:"start_column"`
	EndLine     uint32 `json:"end_line"`
	EndColumn   uint32 `json:"end_column"`
}

type jsonNode struct {
	Type          string            `json:"type"`
	Name          string            `json:"name,omitempty"`
	QualifiedName string            `json:"qualified_name,omitempty"`
	Signature     string            `json:"signature,omitempty"`
	Docstring     string            `json:"docstring,omitempty"`
	Range         jsonRange         `json:"range"`
	Properties    map[string]string `json:"properties,omitempty"`
	Children      []*ASTNode        `json:"children,omitempty"`
}

// MarshalJSON serializes the node with the stable field names downstream
// tools consume. Parent and References are omitted to keep the output a
// tree; RawContent is omitted as it duplicates the source text.
func (n *ASTNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonNode{
		Type:          n.Type.String(),
		Name:          n.Name,
		QualifiedName: n.QualifiedName,
		Signature:     n.Signature,
		Docstring:     n.Docstring,
		Range: jsonRange{
			StartLine:   n.Range.Start.Line,
			StartColumn: n.Range.Start.Column,
			EndLine:     n.Range.End.Line,
			EndColumn:   n.Range.End.Column,
		},
		Properties: n.Properties,
		Children:   n.Children,
	})
}

// CSTNode is the staging mirror of a raw grammar tree. It carries only what
// the builder needs while flattening matches into canonical nodes.
type CSTNode struct {
	Type     string      `json:"type"`
	Content  string      `json:"content,omitempty"`
	Range    SourceRange `json:"range"`
	Children []*CSTNode  `json:"children,omitempty"`
}

// AddChild appends child to the staging node.
func (n *CSTNode) AddChild(child *CSTNode) {
	if child != nil && child != n {
		n.Children = append(n.Children, child)
	}
}
