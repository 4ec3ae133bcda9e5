package crawler

import (
	"context"

	"github.com/google/go-github/v74/github"

	"github.com/thep200/repo-profiler/internal/extract"
	"github.com/thep200/repo-profiler/internal/model"
)

// ReadmeLength records the collapsed line count of the first README in the listing
func (c *Crawler) ReadmeLength(ctx context.Context, contentsURL string, p *model.Profile) {
	var items []*github.RepositoryContent
	if err := c.Caller.GetJSON(ctx, contentsURL, &items); err != nil {
		c.Logger.Debug(ctx, "No readme listing for %s: %v", contentsURL, err)
		return
	}

	item, ok := extract.FindReadme(items)
	if !ok || item.GetDownloadURL() == "" {
		return
	}

	resp, err := c.Caller.Get(ctx, item.GetDownloadURL())
	if err != nil || !resp.OK() {
		c.Logger.Debug(ctx, "Cannot download readme %s", item.GetDownloadURL())
		return
	}
	p.ReadmeLines = extract.ReadmeLines(resp.Text())
}
