package extract

import (
	"path"
	"strings"

	"github.com/src-d/enry/v2"
)

const testPrefix = "test_"

// IsSourceFile reports whether name carries the primary extension of language,
// matched case-sensitively. Secondary extensions enry maps to the same language
// (.pyi, .spec, .bzl for Python) are not source files here.
func IsSourceFile(name, language string) bool {
	if canonical, ok := enry.GetLanguageByAlias(language); ok {
		language = canonical
	}
	extensions := enry.GetLanguageExtensions(language)
	if len(extensions) == 0 {
		return false
	}

	ext := path.Ext(name)
	if ext != extensions[0] {
		return false
	}
	lang, _ := enry.GetLanguageByExtension(path.Base(name))
	return lang == language
}

// IsTestFile matches pytest style modules: a test_ prefix and at least one assert
func IsTestFile(name, text string) bool {
	return strings.HasPrefix(strings.ToLower(name), testPrefix) && strings.Contains(text, "assert")
}
