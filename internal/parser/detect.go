package parser

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/uast/internal/types"
)

// extensionLanguages is the closed extension mapping. Anything absent here
// is UNKNOWN and rejected before any parse attempt.
var extensionLanguages = map[string]types.Language{
	".c":   types.LangC,
	".h":   types.LangCPP,
	".cpp": types.LangCPP,
	".cc":  types.LangCPP,
	".cxx": types.LangCPP,
	".hpp": types.LangCPP,
	".hxx": types.LangCPP,
	".hh":  types.LangCPP,
	".py":  types.LangPython,
	".js":  types.LangJavaScript,
	".ts":  types.LangTypeScript,
}

// LanguageForExtension maps a file extension (with leading dot, any case)
// to its language, or UNKNOWN.
func LanguageForExtension(ext string) types.Language {
	return extensionLanguages[strings.ToLower(ext)]
}

// LanguageForPath maps a file path to its language by extension alone.
func LanguageForPath(path string) types.Language {
	return LanguageForExtension(filepath.Ext(path))
}

// SupportedExtensions returns every extension the closed mapping accepts.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensionLanguages))
	for ext := range extensionLanguages {
		exts = append(exts, ext)
	}
	return exts
}

// LanguageByName maps a language name (as produced by Language.String) back
// to its enum value, accepting common aliases.
func LanguageByName(name string) types.Language {
	switch strings.ToLower(name) {
	case "c":
		return types.LangC
	case "cpp", "c++", "cxx":
		return types.LangCPP
	case "python", "py":
		return types.LangPython
	case "javascript", "js":
		return types.LangJavaScript
	case "typescript", "ts":
		return types.LangTypeScript
	default:
		return types.LangUnknown
	}
}

// DetectLanguage detects a language from the filename extension, falling
// back to content heuristics when the extension is missing or unrecognized
// and content is available. Both failing yields UNKNOWN.
func DetectLanguage(filename string, content []byte) types.Language {
	if filename != "" {
		if lang := LanguageForPath(filename); lang != types.LangUnknown {
			return lang
		}
	}
	if len(content) > 0 {
		return detectFromContent(content)
	}
	return types.LangUnknown
}

func detectFromContent(content []byte) types.Language {
	has := func(s string) bool { return bytes.Contains(content, []byte(s)) }

	if has("import ") || has("from ") || has("def ") ||
		has("#!/usr/bin/env python") || has(`"""`) {
		// "class " alone is ambiguous with C++/JS; the Python markers above
		// are checked first on purpose.
		if !has("#include") && !has("function ") {
			return types.LangPython
		}
	}

	if has("function ") || has("var ") || has("let ") || has("const ") ||
		has("=>") || has("export ") {
		if has("interface ") || has(": string") || has(": number") || has(": boolean") {
			return types.LangTypeScript
		}
		return types.LangJavaScript
	}

	if has("#include") || has("int main(") {
		if has("class ") || has("template") || has("namespace") || has("std::") {
			return types.LangCPP
		}
		return types.LangC
	}

	return types.LangUnknown
}
