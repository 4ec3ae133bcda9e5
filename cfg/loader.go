package cfg

import (
	"sync"
)

// Preview media type the remote API expects on every request
const DefaultAcceptHeader = "application/vnd.github.mercy-preview+json"

var (
	loader     Loader
	loaderOnce sync.Once
)

type Loader interface {
	Load() (*Config, error)
}

func NewLoader(l Loader) (Loader, error) {
	loaderOnce.Do(func() {
		loader = l
	})
	return loader, nil
}

// ApplyDefaults fills zero values left by a partial config file
func ApplyDefaults(c *Config) {
	if c.App.Name == "" {
		c.App.Name = "repo-profiler"
	}
	if c.GithubApi.BaseUrl == "" {
		c.GithubApi.BaseUrl = "https://api.github.com"
	}
	if c.GithubApi.AcceptHeader == "" {
		c.GithubApi.AcceptHeader = DefaultAcceptHeader
	}
	if c.GithubApi.RequestTimeoutSec <= 0 {
		c.GithubApi.RequestTimeoutSec = 10
	}
	if c.GithubApi.MaxAttempts <= 0 {
		c.GithubApi.MaxAttempts = 3
	}
	if c.GithubApi.RequestsPerSecond <= 0 {
		c.GithubApi.RequestsPerSecond = 10
	}
	if c.GithubApi.ThrottleDelay <= 0 {
		c.GithubApi.ThrottleDelay = 100
	}
	if c.Crawl.Language == "" {
		c.Crawl.Language = "Python"
	}
	if c.Crawl.ItemTimeoutSec <= 0 {
		c.Crawl.ItemTimeoutSec = 10
	}
	if c.Batch.RepoTimeoutSec <= 0 {
		c.Batch.RepoTimeoutSec = 60
	}
	if c.Kafka.Producer.TopicProfile == "" {
		c.Kafka.Producer.TopicProfile = "profiles"
	}
	if c.Kafka.Consumer.GroupId == "" {
		c.Kafka.Consumer.GroupId = "profile-consumer-group"
	}
}
