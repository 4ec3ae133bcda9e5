package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thep200/repo-profiler/cfg"
	"github.com/thep200/repo-profiler/internal/batch"
	"github.com/thep200/repo-profiler/internal/crawler"
	"github.com/thep200/repo-profiler/internal/extract"
	githubapi "github.com/thep200/repo-profiler/internal/github_api"
	"github.com/thep200/repo-profiler/internal/metrics"
	"github.com/thep200/repo-profiler/pkg/log"
)

var (
	configPath  string
	configName  string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "repo-profiler",
	Short: "Collect code quality features of GitHub repositories",
	Long: `Crawl GitHub repositories through the REST API and record one feature
row per repository: file and line counts, comments, docstrings, tests, readme
length, style findings by category, commit cadence, stars and forks.

Examples:
  # Resume the configured batch
  repo-profiler batch

  # Profile one repository
  repo-profiler single psf/requests

  # Convert the CSV log for analytics
  repo-profiler export stats.csv stats.parquet`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", "cfg/yaml", "directory holding the config file")
	rootCmd.PersistentFlags().StringVar(&configName, "config-name", "mode", "config file name without extension")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	rootCmd.AddCommand(batchCmd, singleCmd, exportCmd)
}

// app is what every crawling command shares
type app struct {
	config  *cfg.Config
	logger  log.Logger
	metrics *metrics.Metrics
	crawler *crawler.Crawler
}

func setup(ctx context.Context) (*app, error) {
	loader, err := cfg.NewViperLoader(configPath, configName)
	if err != nil {
		return nil, err
	}
	config, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.NewCslLogger()
	if err != nil {
		return nil, err
	}
	loader.RegisterConfigChangeCallback(func(c *cfg.Config) {
		logger.Notice(ctx, "Config reloaded, new values apply to the next run")
	})

	if metricsAddr != "" {
		config.Metrics.Addr = metricsAddr
	}
	m := metrics.New()
	if config.Metrics.Addr != "" {
		go func() {
			if err := m.Serve(ctx, config.Metrics.Addr, logger); err != nil {
				logger.Error(ctx, "Metrics server stopped: %v", err)
			}
		}()
	}

	style, err := extract.NewStyleChecker(config.Style.Command)
	if err != nil {
		logger.Warn(ctx, "Style checks disabled: %v", err)
	}

	caller := githubapi.NewCaller(logger, config, m)
	c, err := crawler.NewCrawler(logger, config, caller, style, m)
	if err != nil {
		return nil, err
	}

	return &app{config: config, logger: logger, metrics: m, crawler: c}, nil
}

func (a *app) batch(writer batch.Writer) (*batch.Batch, error) {
	return batch.NewBatch(a.logger, a.config, a.crawler, writer, a.metrics)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
