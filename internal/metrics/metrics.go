// Package metrics keeps prometheus counters for crawl activity on a private registry.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thep200/repo-profiler/pkg/log"
)

const namespace = "repo_profiler"

// Request outcomes
const (
	RequestOK     = "ok"
	RequestNotOK  = "not_ok"
	RequestFailed = "failed"
)

// Repository outcomes
const (
	RepoProcessed = "processed"
	RepoSkipped   = "skipped"
	RepoForked    = "forked"
	RepoTimedOut  = "timed_out"
	RepoFailed    = "failed"
)

// Metrics is nil-safe: every method is a no-op on a nil receiver
type Metrics struct {
	Registry *prometheus.Registry
	requests *prometheus.CounterVec
	files    prometheus.Counter
	timeouts *prometheus.CounterVec
	repos    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Remote API requests by outcome.",
		}, []string{"outcome"}),
		files: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_files_total",
			Help:      "Source files whose features were extracted.",
		}),
		timeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timeouts_total",
			Help:      "Deadline expirations by unit of work.",
		}, []string{"unit"}),
		repos: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repositories_total",
			Help:      "Repositories handled by the batch, by outcome.",
		}, []string{"outcome"}),
	}
	m.Registry.MustRegister(m.requests, m.files, m.timeouts, m.repos)
	return m
}

func (m *Metrics) Request(outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) File() {
	if m == nil {
		return
	}
	m.files.Inc()
}

func (m *Metrics) Timeout(unit string) {
	if m == nil {
		return
	}
	m.timeouts.WithLabelValues(unit).Inc()
}

func (m *Metrics) Repo(outcome string) {
	if m == nil {
		return
	}
	m.repos.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done
func (m *Metrics) Serve(ctx context.Context, addr string, logger log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "Serving metrics on %s/metrics", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
