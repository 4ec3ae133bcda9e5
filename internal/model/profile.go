package model

import (
	"fmt"
	"strconv"
	"time"
)

// StyleCodes is the closed set of style-checker categories, in output column order
var StyleCodes = []string{"E1", "E2", "E3", "E4", "E5", "E7", "E9", "W1", "W2", "W3", "W5", "W6"}

var styleCodeSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(StyleCodes))
	for _, code := range StyleCodes {
		set[code] = struct{}{}
	}
	return set
}()

// IsStyleCode reports whether code belongs to StyleCodes
func IsStyleCode(code string) bool {
	_, ok := styleCodeSet[code]
	return ok
}

// Profile accumulates the feature vector of one repository.
// Count fields only grow; ReadmeLines, NCommits, CommitsPerTime, NStars and
// NForks are set at most once.
type Profile struct {
	User string
	URL  string

	CodeLines int
	NPyFiles  int

	CommentLines   int
	DocstringLines int
	TestLines      int
	ReadmeLines    int

	StyleErrors map[string]int

	CommitHistory  []time.Time
	NCommits       int
	CommitsPerTime float64

	NStars int
	NForks int
}

func NewProfile(user, url string) *Profile {
	styleErrors := make(map[string]int, len(StyleCodes))
	for _, code := range StyleCodes {
		styleErrors[code] = 0
	}
	return &Profile{
		User:        user,
		URL:         url,
		StyleErrors: styleErrors,
	}
}

// Scratch returns an empty profile for the same repository, used to collect
// the contribution of one item before it is merged
func (p *Profile) Scratch() *Profile {
	return NewProfile(p.User, p.URL)
}

// AddStyle adds a per-category tally. Nothing is applied when a key is unknown
// or a count negative.
func (p *Profile) AddStyle(tally map[string]int) error {
	for code, n := range tally {
		if !IsStyleCode(code) {
			return fmt.Errorf("unknown style category %q", code)
		}
		if n < 0 {
			return fmt.Errorf("negative count %d for style category %q", n, code)
		}
	}
	for code, n := range tally {
		p.StyleErrors[code] += n
	}
	return nil
}

// Merge adds the accumulating fields of delta into p
func (p *Profile) Merge(delta *Profile) {
	p.CodeLines += delta.CodeLines
	p.NPyFiles += delta.NPyFiles
	p.CommentLines += delta.CommentLines
	p.DocstringLines += delta.DocstringLines
	p.TestLines += delta.TestLines
	for code, n := range delta.StyleErrors {
		p.StyleErrors[code] += n
	}
}

// Validate checks the style key set and that no count went negative
func (p *Profile) Validate() error {
	if len(p.StyleErrors) != len(StyleCodes) {
		return fmt.Errorf("style errors have %d keys, want %d", len(p.StyleErrors), len(StyleCodes))
	}
	for _, code := range StyleCodes {
		n, ok := p.StyleErrors[code]
		if !ok {
			return fmt.Errorf("style errors miss category %q", code)
		}
		if n < 0 {
			return fmt.Errorf("style category %q is negative", code)
		}
	}

	counts := map[string]int{
		"code_lines":      p.CodeLines,
		"n_pyfiles":       p.NPyFiles,
		"comment_lines":   p.CommentLines,
		"docstring_lines": p.DocstringLines,
		"test_lines":      p.TestLines,
		"readme_lines":    p.ReadmeLines,
		"n_commits":       p.NCommits,
		"n_stars":         p.NStars,
		"n_forks":         p.NForks,
	}
	for name, n := range counts {
		if n < 0 {
			return fmt.Errorf("%s is negative", name)
		}
	}
	return nil
}

// Header lists the output column names
func Header() []string {
	header := []string{
		"repo", "n_pyfiles", "code_lines", "comment_lines", "docstring_lines",
		"test_lines", "readme_lines", "n_commits", "commits_per_time", "n_stars", "n_forks",
	}
	return append(header, StyleCodes...)
}

// Row renders the profile in Header order, the identifier is the repository API URL
func (p *Profile) Row() []string {
	row := []string{
		p.URL,
		strconv.Itoa(p.NPyFiles),
		strconv.Itoa(p.CodeLines),
		strconv.Itoa(p.CommentLines),
		strconv.Itoa(p.DocstringLines),
		strconv.Itoa(p.TestLines),
		strconv.Itoa(p.ReadmeLines),
		strconv.Itoa(p.NCommits),
		strconv.FormatFloat(p.CommitsPerTime, 'f', 6, 64),
		strconv.Itoa(p.NStars),
		strconv.Itoa(p.NForks),
	}
	for _, code := range StyleCodes {
		row = append(row, strconv.Itoa(p.StyleErrors[code]))
	}
	return row
}
