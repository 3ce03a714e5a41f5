package ingest

import (
	"encoding/csv"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "sentimentcli/internal/errors"
)

// TradeRecord is a single executed trade. Numeric fields that could not be
// coerced hold NaN; a record whose timestamp could not be parsed is never
// constructed.
type TradeRecord struct {
	Account        string
	Coin           string
	ExecutionPrice float64
	SizeTokens     float64
	SizeUSD        float64
	Side           string
	Timestamp      time.Time
	TradeDate      time.Time
	ClosedPnL      float64
	Fee            float64
}

// Timestamp IST is written day-first, with or without seconds. A date-only
// fallback covers exports that strip the time component.
var tradeTimestampLayouts = []string{
	"02-01-2006 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006",
}

var tradeColumns = []string{
	"account",
	"coin",
	"execution price",
	"size tokens",
	"size usd",
	"side",
	"timestamp ist",
	"closed pnl",
	"fee",
}

// LoadTrades reads the trade history CSV. Rows whose Timestamp IST does not
// parse are dropped; numeric fields that fail coercion become NaN and the row
// is kept.
func LoadTrades(path string, logger *slog.Logger) ([]TradeRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInputError("failed to open trade file", err).
			WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read trade header", err).
			WithContext("path", path)
	}

	columns, err := mapColumns(header, tradeColumns)
	if err != nil {
		return nil, err
	}

	var (
		records []TradeRecord
		rowNum  = 1
		dropped = 0
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("malformed trade file", err).
				WithContext("path", path).
				WithContext("row", rowNum)
		}
		rowNum++

		raw, _ := fieldAt(row, columns["timestamp ist"])
		timestamp, ok := parseTradeTimestamp(raw)
		if !ok {
			logger.Debug("dropping trade row with unparseable timestamp",
				slog.Int("row", rowNum),
				slog.String("timestamp", raw))
			dropped++
			continue
		}

		account, _ := fieldAt(row, columns["account"])
		coin, _ := fieldAt(row, columns["coin"])
		side, _ := fieldAt(row, columns["side"])

		records = append(records, TradeRecord{
			Account:        account,
			Coin:           coin,
			ExecutionPrice: coerceFloat(row, columns["execution price"]),
			SizeTokens:     coerceFloat(row, columns["size tokens"]),
			SizeUSD:        coerceFloat(row, columns["size usd"]),
			Side:           strings.ToUpper(side),
			Timestamp:      timestamp,
			TradeDate:      truncateToDay(timestamp),
			ClosedPnL:      coerceFloat(row, columns["closed pnl"]),
			Fee:            coerceFloat(row, columns["fee"]),
		})
	}

	logger.Info("loaded trade data",
		slog.String("path", path),
		slog.Int("records", len(records)),
		slog.Int("dropped_rows", dropped))

	return records, nil
}

// parseTradeTimestamp tries the known day-first layouts in order
func parseTradeTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range tradeTimestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// coerceFloat parses the cell at idx, yielding NaN as the missing sentinel
// when the cell is absent, empty, or non-numeric.
func coerceFloat(row []string, idx int) float64 {
	raw, ok := fieldAt(row, idx)
	if !ok || raw == "" {
		return math.NaN()
	}
	// Tolerate thousands separators in exported numbers
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// truncateToDay normalizes a timestamp to midnight UTC
func truncateToDay(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}
