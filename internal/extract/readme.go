package extract

import (
	"strings"

	"github.com/google/go-github/v74/github"
)

const readmeMarker = "README"

// FindReadme returns the first listing entry whose name contains README
func FindReadme(items []*github.RepositoryContent) (*github.RepositoryContent, bool) {
	for _, item := range items {
		if strings.Contains(item.GetName(), readmeMarker) {
			return item, true
		}
	}
	return nil, false
}

// CollapseBlankLines squeezes every run of consecutive line breaks into one
func CollapseBlankLines(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	prevNewline := false
	for _, r := range text {
		if r == '\n' {
			if prevNewline {
				continue
			}
			prevNewline = true
		} else {
			prevNewline = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ReadmeLines counts the lines of text once blank lines are collapsed.
// A trailing line break does not start a new line.
func ReadmeLines(text string) int {
	text = CollapseBlankLines(text)
	if text == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(text, "\n"), "\n") + 1
}
