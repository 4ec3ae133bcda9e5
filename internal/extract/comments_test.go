package extract

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountRegionLinesNoOccurrence(t *testing.T) {
	text := "import os\nprint(os.getcwd())\n"
	assert.Equal(t, 0, CountRegionLines(text, InlineComment))
	assert.Equal(t, 0, CountRegionLines(text, Docstring))
	assert.Equal(t, 0, CountRegionLines("", InlineComment))
}

func TestCountRegionLinesInline(t *testing.T) {
	text := "x = 1  # one\n# two\ny = 2\n# three"
	assert.Equal(t, 3, CountRegionLines(text, InlineComment))
}

func TestCountRegionLinesDocstringSpanningLines(t *testing.T) {
	text := "def f():\n    \"\"\"Line one.\n\n    Line three.\n    \"\"\"\n    return 1\n"
	assert.Equal(t, 4, CountRegionLines(text, Docstring))
}

func TestCountRegionLinesSingleLineDocstrings(t *testing.T) {
	text := "\"\"\"a\"\"\"\n\"\"\"b\"\"\"\n"
	assert.Equal(t, 2, CountRegionLines(text, Docstring))
}

func TestRegionsDoNotOverlap(t *testing.T) {
	// The closing quotes of the first docstring must not open a second region
	text := `"""one""" x = 1 """two"""`
	spans := slices.Collect(Regions(text, Docstring))
	assert.Equal(t, []Span{{Start: 0, End: 6}, {Start: 16, End: 22}}, spans)

	// A marker inside an inline comment is part of that comment
	assert.Equal(t, 1, CountRegionLines("# a # b\n", InlineComment))
}

func TestRegionsUnterminated(t *testing.T) {
	text := "x = 1\n\"\"\"never\nclosed"
	spans := slices.Collect(Regions(text, Docstring))
	assert.Equal(t, []Span{{Start: 6, End: len(text)}}, spans)
	assert.Equal(t, 2, CountRegionLines(text, Docstring))
}

func TestRegionsStopsEarly(t *testing.T) {
	n := 0
	for range Regions("# a\n# b\n# c\n", InlineComment) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 1, CountLines(""))
	assert.Equal(t, 3, CountLines("a\nb\nc"))
	assert.Equal(t, 4, CountLines("a\nb\nc\n"))
}
