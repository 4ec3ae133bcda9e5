// Package extract holds the text feature extractors run over each source file.
package extract

import (
	"iter"
	"strings"
)

// Delimiters bound a region of text, End is searched after Start
type Delimiters struct {
	Start string
	End   string
}

var (
	// InlineComment runs from a marker to the end of its line
	InlineComment = Delimiters{Start: "#", End: "\n"}
	// Docstring runs between two triple quotes
	Docstring = Delimiters{Start: `"""`, End: `"""`}
)

// Span is the half-open byte range [Start, End) of a region, delimiters excluded at the end
type Span struct {
	Start int
	End   int
}

// Regions yields the non-overlapping regions of text bounded by d in order.
// An unterminated region runs to the end of text. Scanning resumes after the
// end delimiter of the previous region.
func Regions(text string, d Delimiters) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		if d.Start == "" {
			return
		}
		pos := 0
		for pos < len(text) {
			i := strings.Index(text[pos:], d.Start)
			if i < 0 {
				return
			}
			start := pos + i
			bodyFrom := start + len(d.Start)

			end := len(text)
			next := len(text)
			if j := strings.Index(text[bodyFrom:], d.End); j >= 0 && d.End != "" {
				end = bodyFrom + j
				next = end + len(d.End)
			}

			if !yield(Span{Start: start, End: end}) {
				return
			}
			pos = next
		}
	}
}

// CountRegionLines sums the lines spanned by every region of text bounded by d
func CountRegionLines(text string, d Delimiters) int {
	total := 0
	for span := range Regions(text, d) {
		total += segments(text[span.Start:span.End])
	}
	return total
}

// CountLines counts newline separated segments, a trailing newline opens an empty last one
func CountLines(text string) int {
	return segments(text)
}

func segments(s string) int {
	return strings.Count(s, "\n") + 1
}
