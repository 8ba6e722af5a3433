package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rohmanhakim/geo-analyzer/internal/build"
	"github.com/rohmanhakim/geo-analyzer/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	targetURL string
	refresh   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one page and print the result as JSON.",
	Long: `analyze fetches the page at --url, scores it and prints the analysis
result to stdout as indented JSON. Logs go to stderr.

With a result store configured, a result younger than the cache TTL is
returned without fetching the page again, unless --refresh is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if targetURL == "" {
			return fmt.Errorf("--url is required")
		}

		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}

		logger := NewLogger(cfg.LogLevel(), cfg.LogFormat())
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		runErr := RunAnalyze(ctx, cfg, logger, targetURL, refresh, cmd.OutOrStdout())

		if metricsFile != "" {
			if err := prometheus.WriteToTextfile(metricsFile, prometheus.DefaultGatherer); err != nil {
				logger.Warn("metrics not written", zap.String("path", metricsFile), zap.Error(err))
			}
		}
		return runErr
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), build.Banner(rootCmd.Use))
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&targetURL, "url", "", "URL of the page to analyze")
	analyzeCmd.Flags().BoolVar(&refresh, "refresh", false, "skip the cached result and analyze again")
}

// RunAnalyze wires an analyzer from cfg, analyzes rawURL and writes the
// result to out.
func RunAnalyze(
	ctx context.Context,
	cfg config.Config,
	logger *zap.Logger,
	rawURL string,
	refresh bool,
	out io.Writer,
) error {
	a, closeFn, err := buildAnalyzer(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	result, analysisErr := a.Analyze(ctx, rawURL, refresh)
	if analysisErr != nil {
		return analysisErr
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode analysis result: %w", err)
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}
