// Package ingest loads and cleans the two input datasets: the daily
// fear & greed sentiment index and the trade-level execution history.
// Required columns are resolved by header name once per file; a missing
// column is a fatal validation error, while a bad individual row is
// dropped or coerced and never fails the run.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "sentimentcli/internal/errors"
)

// SentimentRecord is one day of the fear & greed index
type SentimentRecord struct {
	Date  time.Time
	Value int
	Class string
}

const sentimentDateLayout = "2006-01-02"

// LoadSentiment reads the sentiment CSV (columns date, value, classification)
// and returns at most one record per date. Duplicate dates collapse to the
// first occurrence in file order; rows whose date or value cannot be parsed
// are dropped.
func LoadSentiment(path string, logger *slog.Logger) ([]SentimentRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInputError("failed to open sentiment file", err).
			WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read sentiment header", err).
			WithContext("path", path)
	}

	columns, err := mapColumns(header, []string{"date", "value", "classification"})
	if err != nil {
		return nil, err
	}

	var (
		records []SentimentRecord
		seen    = make(map[time.Time]bool)
		rowNum  = 1
		dropped = 0
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("malformed sentiment file", err).
				WithContext("path", path).
				WithContext("row", rowNum)
		}
		rowNum++

		date, ok := fieldAt(row, columns["date"])
		if !ok {
			dropped++
			continue
		}
		day, err := time.ParseInLocation(sentimentDateLayout, date, time.UTC)
		if err != nil {
			logger.Debug("dropping sentiment row with unparseable date",
				slog.Int("row", rowNum),
				slog.String("date", date))
			dropped++
			continue
		}

		rawValue, ok := fieldAt(row, columns["value"])
		if !ok {
			dropped++
			continue
		}
		value, err := strconv.Atoi(rawValue)
		if err != nil {
			logger.Debug("dropping sentiment row with non-numeric value",
				slog.Int("row", rowNum),
				slog.String("value", rawValue))
			dropped++
			continue
		}

		if seen[day] {
			logger.Debug("dropping duplicate sentiment date, first occurrence wins",
				slog.String("date", day.Format(sentimentDateLayout)))
			dropped++
			continue
		}
		seen[day] = true

		class, _ := fieldAt(row, columns["classification"])
		records = append(records, SentimentRecord{
			Date:  day,
			Value: value,
			Class: class,
		})
	}

	logger.Info("loaded sentiment data",
		slog.String("path", path),
		slog.Int("records", len(records)),
		slog.Int("dropped_rows", dropped))

	return records, nil
}

// mapColumns resolves required column names to positions in the header row.
// Matching is case-insensitive and ignores surrounding whitespace and a UTF-8
// BOM on the first cell.
func mapColumns(header []string, required []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		positions[strings.ToLower(strings.TrimSpace(name))] = i
	}

	columns := make(map[string]int, len(required))
	var missing []string
	for _, name := range required {
		idx, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		columns[name] = idx
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}
	return columns, nil
}

// fieldAt returns the trimmed cell at idx, reporting whether the row is long
// enough to contain it.
func fieldAt(row []string, idx int) (string, bool) {
	if idx >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[idx]), true
}
