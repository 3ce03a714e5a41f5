// Package exporter writes the analysis artifacts: the joined daily table,
// descriptive statistics, the correlation matrix and the per-class summary,
// as CSV files plus a combined Excel workbook.
package exporter

import (
	"encoding/csv"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	apperrors "sentimentcli/internal/errors"
)

// CSVWriter writes report artifacts under a fixed output directory
type CSVWriter struct {
	outputDir string
	logger    *slog.Logger
}

// NewCSVWriter creates a new CSV writer rooted at outputDir
func NewCSVWriter(outputDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{outputDir: outputDir, logger: logger}
}

// Write writes one CSV artifact with the given headers and records, creating
// the output directory if needed.
func (w *CSVWriter) Write(filename string, headers []string, records [][]string) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err).
			WithContext("dir", w.outputDir)
	}

	fullPath := filepath.Join(w.outputDir, filename)
	w.logger.Info("writing CSV artifact",
		slog.String("path", fullPath),
		slog.Int("record_count", len(records)))

	file, err := os.Create(fullPath)
	if err != nil {
		return apperrors.NewStorageError("failed to create file", err).
			WithContext("path", fullPath)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return apperrors.NewStorageError("failed to write headers", err).
			WithContext("path", fullPath)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError("failed to write record", err).
				WithContext("path", fullPath).
				WithContext("record", i)
		}
	}
	writer.Flush()

	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush file", err).
			WithContext("path", fullPath)
	}
	return nil
}

// formatFloat renders a float cell; NaN becomes an empty cell
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatDate renders a date cell
func formatDate(d time.Time) string {
	return d.Format("2006-01-02")
}
