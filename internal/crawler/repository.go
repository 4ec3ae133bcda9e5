package crawler

import (
	"context"
	"errors"

	"github.com/google/go-github/v74/github"

	"github.com/thep200/repo-profiler/internal/deadline"
	"github.com/thep200/repo-profiler/internal/extract"
	githubapi "github.com/thep200/repo-profiler/internal/github_api"
	"github.com/thep200/repo-profiler/internal/model"
)

// Digest walks the listing at listingURL in order, extracting every source
// file and recursing into directories. Each item gets its own time budget and
// is collected into a scratch profile, so an item that times out or fails
// contributes nothing. A listing that cannot be fetched contributes nothing.
// The only error returned is the cancellation of ctx.
func (c *Crawler) Digest(ctx context.Context, listingURL string, p *model.Profile) error {
	var items []*github.RepositoryContent
	if err := c.Caller.GetJSON(ctx, listingURL, &items); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Logger.Debug(ctx, "Cannot list %s: %v", listingURL, err)
		return nil
	}

	for _, item := range items {
		scratch := p.Scratch()
		err := deadline.Run(ctx, c.itemTimeout, func(itemCtx context.Context) error {
			return c.digestItem(itemCtx, item, scratch)
		})

		switch {
		case err == nil:
			p.Merge(scratch)
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, deadline.ErrTimeout):
			c.Metrics.Timeout("item")
			c.Logger.Warn(ctx, "%s timed out, skipping!", itemURL(item))
		default:
			c.Logger.Warn(ctx, "skipping %s: %v", itemURL(item), err)
		}
	}
	return nil
}

func (c *Crawler) digestItem(ctx context.Context, item *github.RepositoryContent, p *model.Profile) error {
	switch {
	case item.GetType() == githubapi.ItemFile && extract.IsSourceFile(item.GetName(), c.Config.Crawl.Language):
		p.NPyFiles++
		c.Logger.Debug(ctx, "%s", item.GetDownloadURL())

		resp, err := c.Caller.Get(ctx, item.GetDownloadURL())
		if err != nil {
			return err
		}
		if !resp.OK() {
			return nil
		}

		if err := extract.File(ctx, item.GetName(), resp.Text(), c.Style, p); err != nil {
			return err
		}
		c.Metrics.File()
		return nil

	case item.GetType() == githubapi.ItemDir:
		return c.Digest(ctx, item.GetURL(), p)
	}
	return nil
}

func itemURL(item *github.RepositoryContent) string {
	if url := item.GetDownloadURL(); url != "" {
		return url
	}
	return item.GetURL()
}
