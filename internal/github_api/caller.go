// Package githubapi is the only way out to the GitHub REST API.
// Every request carries the configured credentials and preview header, is rate
// limited, and is retried a bounded number of times on transport failures.
package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/thep200/repo-profiler/cfg"
	"github.com/thep200/repo-profiler/internal/limiter"
	"github.com/thep200/repo-profiler/internal/metrics"
	"github.com/thep200/repo-profiler/pkg/log"
)

// ErrNoResponse means every attempt failed at the transport level
var ErrNoResponse = errors.New("no response from remote api")

// StatusError is returned by GetJSON for a response that is not ok
type StatusError struct {
	Url        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot receive response from %s: status %d", e.Url, e.StatusCode)
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) Text() string {
	return string(r.Body)
}

func (r *Response) Decode(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

type Caller struct {
	Logger      log.Logger
	Config      *cfg.Config
	Metrics     *metrics.Metrics
	client      *http.Client
	rateLimiter *limiter.RateLimiter
}

func NewCaller(logger log.Logger, config *cfg.Config, m *metrics.Metrics) *Caller {
	return &Caller{
		Logger:  logger,
		Config:  config,
		Metrics: m,
		client: &http.Client{
			Timeout: time.Duration(config.GithubApi.RequestTimeoutSec) * time.Second,
		},
		rateLimiter: limiter.NewRateLimiter(config.GithubApi.RequestsPerSecond),
	}
}

// HandleRateLimit logs when the API reports an exhausted quota, the response stays a plain non-ok one
func (c *Caller) HandleRateLimit(ctx context.Context, resp *http.Response) bool {
	rateRemaining := resp.Header.Get("X-RateLimit-Remaining")
	if resp.StatusCode != http.StatusForbidden || rateRemaining != "0" {
		return false
	}

	resetTimeInt, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)
	if err != nil {
		c.Logger.Warn(ctx, "Rate limit hit! Reset time unknown")
		return true
	}

	resetTime := time.Unix(resetTimeInt, 0)
	c.Logger.Warn(ctx, "Rate limit hit! Quota resets in %v at %v",
		time.Until(resetTime).Round(time.Second), resetTime.Format(time.RFC3339))
	return true
}

// Get performs the GET with bounded retries. Transport failures are retried
// immediately, after the last attempt ErrNoResponse is returned.
func (c *Caller) Get(ctx context.Context, url string) (*Response, error) {
	maxAttempts := c.Config.GithubApi.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	throttle := time.Duration(c.Config.GithubApi.ThrottleDelay) * time.Millisecond

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx, throttle); err != nil {
			return nil, err
		}

		resp, err := c.do(ctx, url)
		if err == nil {
			if resp.OK() {
				c.Metrics.Request(metrics.RequestOK)
			} else {
				c.Metrics.Request(metrics.RequestNotOK)
			}
			return resp, nil
		}

		// The caller gave up, retrying cannot help
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		c.Metrics.Request(metrics.RequestFailed)
		c.Logger.Warn(ctx, "tried request %d for %s, no success: %v", attempt, url, err)
	}

	return nil, fmt.Errorf("%w: %s", ErrNoResponse, url)
}

// GetJSON decodes an ok response into v
func (c *Caller) GetJSON(ctx context.Context, url string, v interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &StatusError{Url: url, StatusCode: resp.StatusCode}
	}
	if err := resp.Decode(v); err != nil {
		return fmt.Errorf("cannot decode response from %s: %w", url, err)
	}
	return nil
}

// RepoAPIURL turns "user/repo" into the repository metadata endpoint
func (c *Caller) RepoAPIURL(fullName string) string {
	base := strings.TrimRight(c.Config.GithubApi.BaseUrl, "/")
	return fmt.Sprintf("%s/repos/%s", base, strings.Trim(fullName, "/"))
}

func (c *Caller) do(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", c.Config.GithubApi.AcceptHeader)
	if c.Config.GithubApi.Username != "" {
		req.SetBasicAuth(c.Config.GithubApi.Username, c.Config.GithubApi.AccessToken)
	} else if c.Config.GithubApi.AccessToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("token %s", c.Config.GithubApi.AccessToken))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.HandleRateLimit(ctx, resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot read body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
