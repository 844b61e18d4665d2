package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/uast/internal/types"
)

func TestLanguageForExtension(t *testing.T) {
	assert.Equal(t, types.LangC, LanguageForExtension(".c"))
	assert.Equal(t, types.LangCPP, LanguageForExtension(".h"))
	assert.Equal(t, types.LangCPP, LanguageForExtension(".cpp"))
	assert.Equal(t, types.LangCPP, LanguageForExtension(".hpp"))
	assert.Equal(t, types.LangPython, LanguageForExtension(".py"))
	assert.Equal(t, types.LangJavaScript, LanguageForExtension(".js"))
	assert.Equal(t, types.LangTypeScript, LanguageForExtension(".ts"))
	assert.Equal(t, types.LangC, LanguageForExtension(".C"))
	assert.Equal(t, types.LangUnknown, LanguageForExtension(".xyz"))
	assert.Equal(t, types.LangUnknown, LanguageForExtension(""))
}

func TestLanguageForPath(t *testing.T) {
	assert.Equal(t, types.LangC, LanguageForPath("src/main.c"))
	assert.Equal(t, types.LangPython, LanguageForPath("pkg/mod.py"))
	assert.Equal(t, types.LangUnknown, LanguageForPath("data.xyz"))
	assert.Equal(t, types.LangUnknown, LanguageForPath("Makefile"))
}

func TestLanguageByName(t *testing.T) {
	assert.Equal(t, types.LangC, LanguageByName("c"))
	assert.Equal(t, types.LangCPP, LanguageByName("cpp"))
	assert.Equal(t, types.LangCPP, LanguageByName("C++"))
	assert.Equal(t, types.LangPython, LanguageByName("py"))
	assert.Equal(t, types.LangJavaScript, LanguageByName("javascript"))
	assert.Equal(t, types.LangTypeScript, LanguageByName("ts"))
	assert.Equal(t, types.LangUnknown, LanguageByName("java"))
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	assert.Len(t, exts, 11)
	assert.Contains(t, exts, ".c")
	assert.Contains(t, exts, ".ts")
}

func TestDetectLanguageExtensionWins(t *testing.T) {
	// Extension takes priority over conflicting content.
	lang := DetectLanguage("script.py", []byte("#include <stdio.h>\n"))
	assert.Equal(t, types.LangPython, lang)
}

func TestDetectLanguageFromContent(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    types.Language
	}{
		{"python", "import os\n\ndef main():\n    pass\n", types.LangPython},
		{"javascript", "const x = 1;\nfunction run() {}\n", types.LangJavaScript},
		{"typescript", "interface Shape {}\nconst x: string = 'a';\n", types.LangTypeScript},
		{"c", "#include <stdio.h>\nint main() { return 0; }\n", types.LangC},
		{"cpp", "#include <vector>\nnamespace geo {}\nint main() {}\n", types.LangCPP},
		{"unknown", "just some text\n", types.LangUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectLanguage("", []byte(tc.content)))
		})
	}
}

func TestDetectLanguageEmpty(t *testing.T) {
	assert.Equal(t, types.LangUnknown, DetectLanguage("", nil))
	assert.Equal(t, types.LangUnknown, DetectLanguage("noext", nil))
}
