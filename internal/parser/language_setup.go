package parser

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/standardbeagle/uast/internal/types"
)

// compileQueries builds the category query map for one language. A query
// that fails to compile is skipped; the category simply yields no matches
// for that language.
func compileQueries(language *tree_sitter.Language, sources map[string]string) map[string]*tree_sitter.Query {
	queries := make(map[string]*tree_sitter.Query, len(sources))
	for category, src := range sources {
		query, _ := tree_sitter.NewQuery(language, src)
		if query != nil {
			queries[category] = query
		}
	}
	return queries
}

func (p *TreeSitterParser) setupC() {
	parser := tree_sitter.NewParser()
	language := tree_sitter.NewLanguage(tree_sitter_c.Language())
	if err := parser.SetLanguage(language); err != nil {
		return
	}

	p.parsers[types.LangC] = parser
	p.queries[types.LangC] = compileQueries(language, map[string]string{
		"structs": `(struct_specifier name: (type_identifier) @struct.name) @struct`,
		"functions": `
        (function_definition declarator: (function_declarator declarator: (identifier) @function.name)) @function`,
		"variables": `
        (declaration declarator: (init_declarator declarator: (identifier) @variable.name)) @variable
        (declaration declarator: (identifier) @variable.name) @variable`,
		"imports":    `(preproc_include path: (_) @import.name) @import`,
		"docstrings": `(comment) @docstring`,
	})
}

func (p *TreeSitterParser) setupCpp() {
	parser := tree_sitter.NewParser()
	language := tree_sitter.NewLanguage(tree_sitter_cpp.Language())
	if err := parser.SetLanguage(language); err != nil {
		return
	}

	p.parsers[types.LangCPP] = parser
	p.queries[types.LangCPP] = compileQueries(language, map[string]string{
		"classes": `(class_specifier name: (type_identifier) @class.name) @class`,
		"structs": `(struct_specifier name: (type_identifier) @struct.name) @struct`,
		"functions": `
        (function_definition declarator: (function_declarator declarator: (identifier) @function.name)) @function`,
		"methods": `
        (function_definition declarator: (function_declarator declarator: (field_identifier) @method.name)) @method
        (field_declaration declarator: (function_declarator declarator: (field_identifier) @method.name)) @method`,
		"variables": `
        (declaration declarator: (init_declarator declarator: (identifier) @variable.name)) @variable
        (declaration declarator: (identifier) @variable.name) @variable`,
		"imports":    `(preproc_include path: (_) @import.name) @import`,
		"docstrings": `(comment) @docstring`,
	})
}

func (p *TreeSitterParser) setupPython() {
	parser := tree_sitter.NewParser()
	language := tree_sitter.NewLanguage(tree_sitter_python.Language())
	if err := parser.SetLanguage(language); err != nil {
		return
	}

	p.parsers[types.LangPython] = parser
	p.queries[types.LangPython] = compileQueries(language, map[string]string{
		"classes":   `(class_definition name: (identifier) @class.name) @class`,
		"functions": `(function_definition name: (identifier) @function.name) @function`,
		"variables": `(assignment left: (identifier) @variable.name) @variable`,
		"imports": `
        (import_statement) @import
        (import_from_statement) @import`,
		"docstrings": `
        (expression_statement (string) @docstring)
        (comment) @docstring`,
	})
}

func (p *TreeSitterParser) setupJavaScript() {
	parser := tree_sitter.NewParser()
	language := tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	if err := parser.SetLanguage(language); err != nil {
		return
	}

	p.parsers[types.LangJavaScript] = parser
	p.queries[types.LangJavaScript] = compileQueries(language, map[string]string{
		"classes": `(class_declaration name: (identifier) @class.name) @class`,
		"functions": `
        (function_declaration name: (identifier) @function.name) @function
        (variable_declarator name: (identifier) @function.name value: (arrow_function) @function)
        (variable_declarator name: (identifier) @function.name value: (function_expression) @function)`,
		"methods":    `(method_definition name: (property_identifier) @method.name) @method`,
		"variables":  `(variable_declarator name: (identifier) @variable.name) @variable`,
		"imports":    `(import_statement) @import`,
		"docstrings": `(comment) @docstring`,
	})
}

func (p *TreeSitterParser) setupTypeScript() {
	parser := tree_sitter.NewParser()
	language := tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	if err := parser.SetLanguage(language); err != nil {
		return
	}

	p.parsers[types.LangTypeScript] = parser
	p.queries[types.LangTypeScript] = compileQueries(language, map[string]string{
		"classes": `
        (class_declaration name: (type_identifier) @class.name) @class
        (interface_declaration name: (type_identifier) @class.name) @class
        (enum_declaration name: (identifier) @class.name) @class
        (type_alias_declaration name: (type_identifier) @class.name) @class`,
		"functions": `
        (function_declaration name: (identifier) @function.name) @function
        (variable_declarator name: (identifier) @function.name value: (arrow_function) @function)`,
		"methods":    `(method_definition name: (property_identifier) @method.name) @method`,
		"variables":  `(variable_declarator name: (identifier) @variable.name) @variable`,
		"imports":    `(import_statement) @import`,
		"docstrings": `(comment) @docstring`,
	})
}
