// Package types defines the core data model shared across the pipeline:
// language and node-type enumerations, source locations, and the canonical
// AST/CST node structures every stage operates on.
package types

import "strings"

// Language identifies a supported source language.
type Language uint8

const (
	LangUnknown Language = iota
	LangC
	LangCPP
	LangPython
	LangJavaScript
	LangTypeScript
)

func (l Language) String() string {
	switch l {
	case LangC:
		return "c"
	case LangCPP:
		return "cpp"
	case LangPython:
		return "python"
	case LangJavaScript:
		return "javascript"
	case LangTypeScript:
		return "typescript"
	default:
		return "unknown"
	}
}

// ScopeSeparator returns the separator used when joining scope prefixes to
// unqualified names during lookup. C and C++ scopes join with "::", every
// other language with ".".
func (l Language) ScopeSeparator() string {
	if l == LangC || l == LangCPP {
		return "::"
	}
	return "."
}

// NodeType is the closed canonical taxonomy every language is normalized
// into. UNKNOWN nodes are retained, not dropped; consumers filter them.
type NodeType uint8

const (
	NodeUnknown NodeType = iota
	NodeRoot
	NodeFunction
	NodeClass
	NodeMethod
	NodeVariable
	NodeParameter
	NodeIdentifier
	NodeImport
	NodeInclude
	NodeModule
	NodeVariableDeclaration
	NodeForStatement
	NodeWhileStatement
	NodeDoWhileStatement
	NodeIfStatement
	NodeIfElseIfStatement
	NodeSwitchStatement
	NodeComment
	NodeDocstring
	NodeNamespace
	NodeStruct
	NodeEnum
	NodeInterface
	NodeUnion
	NodeTypedef
	NodeMacro
	NodeControlFlow
	NodeTemplateSpecialization
	NodeLambda
	NodeUsing
	NodeFriend
	NodeOperator
	NodeIndexer
	NodeProperty
)

var nodeTypeNames = [...]string{
	NodeUnknown:                "UNKNOWN",
	NodeRoot:                   "ROOT",
	NodeFunction:               "FUNCTION",
	NodeClass:                  "CLASS",
	NodeMethod:                 "METHOD",
	NodeVariable:               "VARIABLE",
	NodeParameter:              "PARAMETER",
	NodeIdentifier:             "IDENTIFIER",
	NodeImport:                 "IMPORT",
	NodeInclude:                "INCLUDE",
	NodeModule:                 "MODULE",
	NodeVariableDeclaration:    "VARIABLE_DECLARATION",
	NodeForStatement:           "FOR_STATEMENT",
	NodeWhileStatement:         "WHILE_STATEMENT",
	NodeDoWhileStatement:       "DO_WHILE_STATEMENT",
	NodeIfStatement:            "IF_STATEMENT",
	NodeIfElseIfStatement:      "IF_ELSE_IF_STATEMENT",
	NodeSwitchStatement:        "SWITCH_STATEMENT",
	NodeComment:                "COMMENT",
	NodeDocstring:              "DOCSTRING",
	NodeNamespace:              "NAMESPACE",
	NodeStruct:                 "STRUCT",
	NodeEnum:                   "ENUM",
	NodeInterface:              "INTERFACE",
	NodeUnion:                  "UNION",
	NodeTypedef:                "TYPEDEF",
	NodeMacro:                  "MACRO",
	NodeControlFlow:            "CONTROL_FLOW",
	NodeTemplateSpecialization: "TEMPLATE_SPECIALIZATION",
	NodeLambda:                 "LAMBDA",
	NodeUsing:                  "USING",
	NodeFriend:                 "FRIEND",
	NodeOperator:               "OPERATOR",
	NodeIndexer:                "INDEXER",
	NodeProperty:               "PROPERTY",
}

func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return "UNKNOWN"
}

// SourceLocation is a position within a file. Line and Column are 0-indexed.
type SourceLocation struct {
	Line       uint32 `json:"line"`
	Column     uint32 `json:"column"`
	ByteOffset uint32 `json:"byte_offset"`
}

// Before reports whether a precedes b lexicographically (line, then column).
func (a SourceLocation) Before(b SourceLocation) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

// SourceRange is a span of source text.
type SourceRange struct {
	Start SourceLocation `json:"start"`
	End   SourceLocation `json:"end"`
}

// Valid reports whether Start <= End lexicographically.
func (r SourceRange) Valid() bool {
	return !r.End.Before(r.Start)
}

// SymbolScope classifies the visibility of a registered symbol.
type SymbolScope uint8

const (
	ScopeUnknown SymbolScope = iota
	ScopeFile
	ScopeGlobal
)

func (s SymbolScope) String() string {
	switch s {
	case ScopeFile:
		return "file"
	case ScopeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// CountLines returns the number of newline characters in content. The root
// node of a file AST spans from (0,0) to (CountLines, 0).
func CountLines(content []byte) uint32 {
	var n uint32
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	return n
}

// Basename returns the final path element of a slash- or backslash-separated
// path, without touching the extension.
func Basename(path string) string {
	if i := strings.LastIndexAny(path, "/\\"); i >= 0 {
		return path[i+1:]
	}
	return path
}
