// Package crawler walks one repository through the GitHub API and fills its profile.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v74/github"

	"github.com/thep200/repo-profiler/cfg"
	"github.com/thep200/repo-profiler/internal/deadline"
	"github.com/thep200/repo-profiler/internal/extract"
	githubapi "github.com/thep200/repo-profiler/internal/github_api"
	"github.com/thep200/repo-profiler/internal/metrics"
	"github.com/thep200/repo-profiler/internal/model"
	"github.com/thep200/repo-profiler/pkg/log"
)

// ErrForked marks a repository left out on purpose
var ErrForked = errors.New("repository is a fork")

type Crawler struct {
	Logger      log.Logger
	Config      *cfg.Config
	Caller      *githubapi.Caller
	Style       extract.StyleChecker
	Metrics     *metrics.Metrics
	itemTimeout time.Duration
}

func NewCrawler(logger log.Logger, config *cfg.Config, caller *githubapi.Caller, style extract.StyleChecker, m *metrics.Metrics) (*Crawler, error) {
	if caller == nil {
		return nil, errors.New("crawler needs an api caller")
	}
	if style == nil {
		style = extract.NopStyleChecker{}
	}
	return &Crawler{
		Logger:      logger,
		Config:      config,
		Caller:      caller,
		Style:       style,
		Metrics:     m,
		itemTimeout: deadline.Seconds(config.Crawl.ItemTimeoutSec),
	}, nil
}

// Fetch loads the repository metadata behind repoURL
func (c *Crawler) Fetch(ctx context.Context, repoURL string) (*github.Repository, error) {
	meta := &github.Repository{}
	if err := c.Caller.GetJSON(ctx, repoURL, meta); err != nil {
		return nil, fmt.Errorf("cannot fetch metadata of %s: %w", repoURL, err)
	}
	if meta.GetURL() == "" {
		meta.URL = github.Ptr(repoURL)
	}
	return meta, nil
}

// Features runs readme lookup, tree traversal, commit history and popularity
// into p. Only cancellation of ctx is returned, everything below it degrades
// to default values.
func (c *Crawler) Features(ctx context.Context, meta *github.Repository, p *model.Profile) error {
	if meta.GetFork() {
		return ErrForked
	}

	contentsURL := strings.TrimRight(meta.GetURL(), "/") + "/contents"

	c.ReadmeLength(ctx, contentsURL, p)

	if err := c.Digest(ctx, contentsURL, p); err != nil {
		return err
	}

	c.CommitHistory(ctx, meta, p)
	if err := ctx.Err(); err != nil {
		return err
	}

	p.NStars = meta.GetStargazersCount()
	p.NForks = meta.GetForksCount()
	return nil
}
