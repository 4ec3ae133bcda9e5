// Package batch runs the crawl over a list of repositories and records every
// finished profile, resuming from what the output log already holds.
package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/thep200/repo-profiler/cfg"
	"github.com/thep200/repo-profiler/internal/crawler"
	"github.com/thep200/repo-profiler/internal/deadline"
	"github.com/thep200/repo-profiler/internal/metrics"
	"github.com/thep200/repo-profiler/internal/model"
	"github.com/thep200/repo-profiler/internal/output"
	"github.com/thep200/repo-profiler/pkg/log"
)

const reposSegment = "repos/"

// Writer stores a finished profile
type Writer interface {
	Write(ctx context.Context, p *model.Profile) error
}

// Summary counts repository outcomes of one run
type Summary struct {
	Processed int
	Skipped   int
	Forked    int
	TimedOut  int
	Failed    int
}

func (s Summary) String() string {
	return fmt.Sprintf("processed=%s skipped=%s forked=%s timed_out=%s failed=%s",
		humanize.Comma(int64(s.Processed)), humanize.Comma(int64(s.Skipped)), humanize.Comma(int64(s.Forked)),
		humanize.Comma(int64(s.TimedOut)), humanize.Comma(int64(s.Failed)))
}

type Batch struct {
	Logger      log.Logger
	Config      *cfg.Config
	Crawler     *crawler.Crawler
	Writer      Writer
	Metrics     *metrics.Metrics
	repoTimeout time.Duration
}

func NewBatch(logger log.Logger, config *cfg.Config, c *crawler.Crawler, writer Writer, m *metrics.Metrics) (*Batch, error) {
	if c == nil {
		return nil, errors.New("batch needs a crawler")
	}
	return &Batch{
		Logger:      logger,
		Config:      config,
		Crawler:     c,
		Writer:      writer,
		Metrics:     m,
		repoTimeout: deadline.Seconds(config.Batch.RepoTimeoutSec),
	}, nil
}

// Run profiles every repository listed in listPath that the output log does
// not hold yet. A failing repository is logged and skipped, only the
// cancellation of ctx stops the run.
func (b *Batch) Run(ctx context.Context, listPath string) (Summary, error) {
	summary := Summary{}

	done, err := output.LoadProcessed(b.Config.Batch.OutputPath)
	if err != nil {
		return summary, err
	}
	repos, err := ReadRepoList(listPath)
	if err != nil {
		return summary, err
	}
	b.Logger.Info(ctx, "Loaded %d repositories, %d already scanned", len(repos), len(done))

	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if _, ok := done[repo]; ok {
			b.Logger.Info(ctx, "already scanned %s", repo)
			summary.Skipped++
			b.Metrics.Repo(metrics.RepoSkipped)
			continue
		}

		p := model.NewProfile(UserFromURL(repo), repo)
		err := b.profile(ctx, repo, p)
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		switch {
		case err == nil:
			if err := b.Writer.Write(ctx, p); err != nil {
				b.Logger.Error(ctx, "skipping repo %s: %v", repo, err)
				summary.Failed++
				b.Metrics.Repo(metrics.RepoFailed)
				continue
			}
			done[repo] = struct{}{}
			summary.Processed++
			b.Metrics.Repo(metrics.RepoProcessed)
		case errors.Is(err, crawler.ErrForked):
			b.Logger.Info(ctx, "%s is a fork, skipping", repo)
			summary.Forked++
			b.Metrics.Repo(metrics.RepoForked)
		case errors.Is(err, deadline.ErrTimeout):
			b.Logger.Warn(ctx, "%s timed out, skipping!", repo)
			summary.TimedOut++
			b.Metrics.Timeout("repo")
			b.Metrics.Repo(metrics.RepoTimedOut)
		default:
			b.Logger.Warn(ctx, "skipping repo %s: %v", repo, err)
			summary.Failed++
			b.Metrics.Repo(metrics.RepoFailed)
		}
	}

	b.Logger.Info(ctx, "Batch finished: %s", summary)
	return summary, nil
}

// Single profiles the repository "user/repo" without recording it. On failure
// the profile filled so far is returned together with the error.
func (b *Batch) Single(ctx context.Context, fullName string) (*model.Profile, error) {
	repo := b.Crawler.Caller.RepoAPIURL(fullName)
	p := model.NewProfile(UserFromURL(repo), repo)

	err := b.profile(ctx, repo, p)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, crawler.ErrForked):
		b.Logger.Info(ctx, "%s is a fork, no features collected", repo)
		return p, nil
	default:
		b.Logger.Error(ctx, "Cannot profile %s: %v", repo, err)
		return p, err
	}
}

// profile fetches the metadata of repo and runs the crawl under the repository budget
func (b *Batch) profile(ctx context.Context, repo string, p *model.Profile) error {
	meta, err := b.Crawler.Fetch(ctx, repo)
	if err != nil {
		return err
	}
	if meta.GetFork() {
		return crawler.ErrForked
	}

	return deadline.Run(ctx, b.repoTimeout, func(repoCtx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic while crawling: %v", r)
			}
		}()
		return b.Crawler.Features(repoCtx, meta, p)
	})
}

// ReadRepoList returns the non blank lines of path, trimmed
func ReadRepoList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open repository list: %w", err)
	}
	defer f.Close()

	var repos []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			repos = append(repos, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read repository list: %w", err)
	}
	return repos, nil
}

// UserFromURL returns the path segment that follows "repos/", or "" when there is none
func UserFromURL(repoURL string) string {
	_, rest, ok := strings.Cut(repoURL, reposSegment)
	if !ok {
		return ""
	}
	user, _, _ := strings.Cut(rest, "/")
	return user
}
