package astbuilder

import (
	"strings"

	"github.com/standardbeagle/uast/internal/types"
)

// docstringWindow is the maximum distance in lines between a docstring and
// the declaration it documents.
const docstringWindow = 5

// ExtractDocComment strips JavaDoc-style markers from a raw comment: the
// opening "/**", the leading "*" on continuation lines, and the trailing
// "*/".
func ExtractDocComment(comment string) string {
	i := 0
	for i < len(comment) && (comment[i] == '/' || comment[i] == '*' || comment[i] == ' ') {
		i++
	}
	src := comment[i:]

	var b strings.Builder
	b.Grow(len(src))
	for j := 0; j < len(src); j++ {
		c := src[j]
		b.WriteByte(c)
		if c == '\n' {
			for j+1 < len(src) && (src[j+1] == ' ' || src[j+1] == '*' || src[j+1] == '\t') {
				j++
			}
		}
	}

	out := b.String()
	if k := strings.Index(out, "*/"); k >= 0 {
		out = out[:k]
	}
	return out
}

type docstringInfo struct {
	content string
	line    uint32
	used    bool
}

// AssociateDocstrings attaches each docstring among root's direct children
// to the closest following declaration within the proximity window. A
// docstring is consumed at most once; comments, docstrings, and unknown
// nodes never receive one.
func AssociateDocstrings(root *types.ASTNode) {
	if root == nil {
		return
	}

	var docs []*docstringInfo
	for _, child := range root.Children {
		if child.Type != types.NodeDocstring {
			continue
		}
		raw := child.RawContent
		if raw == "" {
			raw = child.Name
		}
		if raw == "" {
			continue
		}
		docs = append(docs, &docstringInfo{
			content: ExtractDocComment(raw),
			line:    child.Range.Start.Line,
		})
	}
	if len(docs) == 0 {
		return
	}

	for _, node := range root.Children {
		switch node.Type {
		case types.NodeComment, types.NodeDocstring, types.NodeUnknown:
			continue
		}

		var best *docstringInfo
		bestDistance := uint32(docstringWindow + 1)
		for _, d := range docs {
			if d.used || d.content == "" {
				continue
			}
			// Only docstrings strictly before the node qualify.
			if d.line >= node.Range.Start.Line {
				continue
			}
			distance := node.Range.Start.Line - d.line
			if distance <= docstringWindow && distance < bestDistance {
				bestDistance = distance
				best = d
			}
		}
		if best != nil {
			node.Docstring = best.content
			best.used = true
		}
	}
}
