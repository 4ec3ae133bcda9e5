package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v74/github"

	"github.com/thep200/repo-profiler/internal/model"
)

var errNoCommits = errors.New("no commits returned")

type commitHistory struct {
	dates   []time.Time
	count   int
	perTime float64
}

// CommitHistory fills the history fields of p from a single unpaginated commit
// listing. Any failure leaves them at their defaults.
func (c *Crawler) CommitHistory(ctx context.Context, meta *github.Repository, p *model.Profile) {
	history, err := c.fetchCommitHistory(ctx, meta)
	if err != nil {
		c.Logger.Warn(ctx, "cannot get commit history for %s: %v", meta.GetCommitsURL(), err)
		return
	}

	p.CommitHistory = append(p.CommitHistory, history.dates...)
	p.NCommits = history.count
	p.CommitsPerTime = history.perTime
}

func (c *Crawler) fetchCommitHistory(ctx context.Context, meta *github.Repository) (*commitHistory, error) {
	commitsURL, _, _ := strings.Cut(meta.GetCommitsURL(), "{")
	if commitsURL == "" {
		return nil, errors.New("missing commits_url")
	}

	var commits []*github.RepositoryCommit
	if err := c.Caller.GetJSON(ctx, commitsURL, &commits); err != nil {
		return nil, err
	}

	history := &commitHistory{dates: make([]time.Time, 0, len(commits))}
	for _, commit := range commits {
		date, err := calendarDay(commit.GetCommit().GetAuthor().GetDate())
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", commit.GetSHA(), err)
		}
		history.dates = append(history.dates, date)
	}

	history.count = len(commits)
	if history.count == 0 {
		return nil, errNoCommits
	}

	created, err := calendarDay(meta.GetCreatedAt())
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	updated, err := calendarDay(meta.GetUpdatedAt())
	if err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}

	history.perTime = float64(daysBetween(created, updated)) / float64(history.count)
	return history, nil
}

// calendarDay keeps the date of ts as written in its own offset, at midnight UTC
func calendarDay(ts github.Timestamp) (time.Time, error) {
	if ts.IsZero() {
		return time.Time{}, errors.New("missing date")
	}
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
