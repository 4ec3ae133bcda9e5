package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thep200/repo-profiler/internal/output"
	"github.com/thep200/repo-profiler/internal/sink"
)

var (
	listPath   string
	outputPath string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Profile every repository of a list, resuming from the output log",
	Long: `Read one repository API URL per line and append a feature row per
repository to the output log. Repositories already present in the log are
skipped, so an interrupted run continues where it stopped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := setup(ctx)
		if err != nil {
			return err
		}

		if listPath != "" {
			a.config.Batch.RepoListPath = listPath
		}
		if outputPath != "" {
			a.config.Batch.OutputPath = outputPath
		}

		sinks, err := sink.New(ctx, a.logger, a.config, a.config.Batch.OutputPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := sinks.Close(); err != nil {
				a.logger.Error(ctx, "Cannot close sinks: %v", err)
			}
		}()

		b, err := a.batch(sinks)
		if err != nil {
			return err
		}

		a.logger.Info(ctx, "Starting batch over %s into %s", a.config.Batch.RepoListPath, a.config.Batch.OutputPath)
		summary, err := b.Run(ctx, a.config.Batch.RepoListPath)
		if err != nil {
			a.logger.Warn(ctx, "Batch stopped early (%s): %v", summary, err)
			return err
		}
		return nil
	},
}

var singleCmd = &cobra.Command{
	Use:   "single <user/repo>",
	Short: "Profile one repository and print its features",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := setup(ctx)
		if err != nil {
			return err
		}

		b, err := a.batch(nil)
		if err != nil {
			return err
		}

		p, err := b.Single(ctx, args[0])
		if renderErr := output.RenderProfile(os.Stdout, p); renderErr != nil {
			return renderErr
		}
		return err
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <csv> <parquet>",
	Short: "Convert the output log into a parquet file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := output.Export(args[0], args[1])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", n, args[1])
		return err
	},
}

func init() {
	batchCmd.Flags().StringVar(&listPath, "list", "", "repository list, defaults to Batch.RepoListPath")
	batchCmd.Flags().StringVar(&outputPath, "output", "", "output log, defaults to Batch.OutputPath")
}
