// Command analyzer runs the one-shot sentiment/performance analysis: it loads
// the trade history and fear & greed index CSVs, aggregates trades into daily
// performance metrics, joins them with sentiment, and writes the report
// tables and charts into the output directory.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"sentimentcli/internal/analysis"
	"sentimentcli/internal/chart"
	"sentimentcli/internal/config"
	"sentimentcli/internal/exporter"
	"sentimentcli/internal/ingest"
)

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	tradesFile := flag.String("trades", "", "trade history CSV (defaults to data/historical_data.csv)")
	sentimentFile := flag.String("sentiment", "", "fear & greed index CSV (defaults to data/fear_greed_index.csv)")
	outputDir := flag.String("out", "", "output directory for reports and charts (defaults to output)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flags override file and environment values
	if *tradesFile != "" {
		cfg.Inputs.TradesFile = *tradesFile
	}
	if *sentimentFile != "" {
		cfg.Inputs.SentimentFile = *sentimentFile
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logging).With(slog.String("run_id", uuid.NewString()))
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("Analysis run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Analysis run complete", slog.String("output_dir", cfg.Output.Dir))
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	sentiment, err := ingest.LoadSentiment(cfg.Inputs.SentimentFile, logger)
	if err != nil {
		return err
	}

	trades, err := ingest.LoadTrades(cfg.Inputs.TradesFile, logger)
	if err != nil {
		return err
	}

	analyzer := analysis.NewAnalyzer(logger)
	daily := analyzer.AggregateDaily(ctx, trades)
	joined := analyzer.JoinSentiment(ctx, daily, sentiment)

	stats := analysis.Describe(joined)
	columns, matrix := analysis.CorrelationMatrix(joined)
	summaries := analysis.SummarizeByClass(joined)

	reports := exporter.NewReportExporter(cfg.Output.Dir, logger)
	if err := reports.ExportJoined(joined); err != nil {
		return err
	}
	if err := reports.ExportDescriptiveStats(stats); err != nil {
		return err
	}
	if err := reports.ExportCorrelations(columns, matrix); err != nil {
		return err
	}
	if err := reports.ExportClassSummary(summaries); err != nil {
		return err
	}
	if err := reports.ExportWorkbook(joined, columns, matrix, summaries); err != nil {
		return err
	}

	renderer := chart.NewRenderer(cfg.Output.Dir, logger)
	return renderer.RenderAll(joined)
}
