package output

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/thep200/repo-profiler/internal/model"
)

// RenderProfile prints p as a two column feature table
func RenderProfile(w io.Writer, p *model.Profile) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Feature", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"repo", p.URL},
		{"user", p.User},
		{"n_pyfiles", humanize.Comma(int64(p.NPyFiles))},
		{"code_lines", humanize.Comma(int64(p.CodeLines))},
		{"comment_lines", humanize.Comma(int64(p.CommentLines))},
		{"docstring_lines", humanize.Comma(int64(p.DocstringLines))},
		{"test_lines", humanize.Comma(int64(p.TestLines))},
		{"readme_lines", humanize.Comma(int64(p.ReadmeLines))},
		{"n_commits", humanize.Comma(int64(p.NCommits))},
		{"commits_per_time", humanize.FormatFloat("#,###.##", p.CommitsPerTime)},
		{"n_stars", humanize.Comma(int64(p.NStars))},
		{"n_forks", humanize.Comma(int64(p.NForks))},
	}
	for _, code := range model.StyleCodes {
		data = append(data, []string{code, humanize.Comma(int64(p.StyleErrors[code]))})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
