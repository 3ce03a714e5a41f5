package exporter

import (
	"log/slog"
	"strconv"

	"sentimentcli/internal/analysis"
)

// Artifact file names under the output directory
const (
	JoinedFile       = "daily_performance_with_sentiment.csv"
	StatsFile        = "descriptive_stats.csv"
	CorrelationsFile = "correlations.csv"
	ClassSummaryFile = "performance_by_sentiment_class.csv"
	WorkbookFile     = "analysis_summary.xlsx"
)

var joinedHeaders = []string{
	"date",
	"total_pnl",
	"total_volume_usd",
	"total_fees",
	"total_net_pnl",
	"num_trades",
	"win_rate",
	"avg_pnl_per_trade",
	"sentiment_value",
	"sentiment_class",
}

var classSummaryHeaders = []string{
	"sentiment_class",
	"avg_pnl",
	"median_pnl",
	"avg_win_rate",
	"avg_volume",
	"num_days",
}

var statsHeaders = []string{
	"column",
	"count",
	"mean",
	"std",
	"min",
	"25%",
	"50%",
	"75%",
	"max",
}

// ReportExporter writes every tabular artifact of one analysis run
type ReportExporter struct {
	csvWriter *CSVWriter
	outputDir string
	logger    *slog.Logger
}

// NewReportExporter creates a report exporter rooted at outputDir
func NewReportExporter(outputDir string, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		csvWriter: NewCSVWriter(outputDir, logger),
		outputDir: outputDir,
		logger:    logger,
	}
}

// ExportJoined writes the joined daily performance table. Days without a
// sentiment record keep empty sentiment cells.
func (e *ReportExporter) ExportJoined(rows []analysis.JoinedDay) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, joinedToRow(row))
	}
	return e.csvWriter.Write(JoinedFile, joinedHeaders, records)
}

// ExportDescriptiveStats writes the describe() table, one row per column
func (e *ReportExporter) ExportDescriptiveStats(stats []analysis.ColumnStats) error {
	records := make([][]string, 0, len(stats))
	for _, s := range stats {
		records = append(records, statsToRow(s))
	}
	return e.csvWriter.Write(StatsFile, statsHeaders, records)
}

// ExportCorrelations writes the correlation matrix with a leading label
// column, mirroring the layout of a pandas-style correlation table.
func (e *ReportExporter) ExportCorrelations(columns []string, matrix [][]float64) error {
	headers := append([]string{""}, columns...)
	records := make([][]string, 0, len(matrix))
	for i, row := range matrix {
		record := make([]string, 0, len(row)+1)
		record = append(record, columns[i])
		for _, v := range row {
			record = append(record, formatFloat(v))
		}
		records = append(records, record)
	}
	return e.csvWriter.Write(CorrelationsFile, headers, records)
}

// ExportClassSummary writes the grouped performance summary per sentiment class
func (e *ReportExporter) ExportClassSummary(summaries []analysis.ClassSummary) error {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, classSummaryToRow(s))
	}
	return e.csvWriter.Write(ClassSummaryFile, classSummaryHeaders, records)
}

func joinedToRow(row analysis.JoinedDay) []string {
	return []string{
		formatDate(row.Date),
		formatFloat(row.TotalPnL),
		formatFloat(row.TotalVolumeUSD),
		formatFloat(row.TotalFees),
		formatFloat(row.TotalNetPnL),
		strconv.Itoa(row.NumTrades),
		formatFloat(row.WinRate),
		formatFloat(row.AvgPnLPerTrade),
		formatFloat(row.SentimentValue),
		row.SentimentClass,
	}
}

func statsToRow(s analysis.ColumnStats) []string {
	return []string{
		s.Column,
		strconv.Itoa(s.Count),
		formatFloat(s.Mean),
		formatFloat(s.Std),
		formatFloat(s.Min),
		formatFloat(s.Q1),
		formatFloat(s.Median),
		formatFloat(s.Q3),
		formatFloat(s.Max),
	}
}

func classSummaryToRow(s analysis.ClassSummary) []string {
	return []string{
		s.Class,
		formatFloat(s.AvgPnL),
		formatFloat(s.MedianPnL),
		formatFloat(s.AvgWinRate),
		formatFloat(s.AvgVolume),
		strconv.Itoa(s.NumDays),
	}
}
