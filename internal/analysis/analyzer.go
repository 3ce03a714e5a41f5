package analysis

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"sentimentcli/internal/ingest"
)

// Analyzer computes daily performance aggregates and their sentiment join
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates a new analyzer with the given logger
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// AggregateDaily groups trades by calendar day and computes the per-day
// performance metrics. NaN values from failed numeric coercion are skipped in
// sums and count as non-wins; the win-rate denominator is always the full
// trade count of the day. Output is sorted by date ascending.
func (a *Analyzer) AggregateDaily(ctx context.Context, trades []ingest.TradeRecord) []DailyPerformance {
	a.logger.InfoContext(ctx, "aggregating daily performance",
		slog.Int("trade_count", len(trades)))

	byDay := make(map[time.Time][]ingest.TradeRecord)
	for _, trade := range trades {
		byDay[trade.TradeDate] = append(byDay[trade.TradeDate], trade)
	}

	daily := make([]DailyPerformance, 0, len(byDay))
	for date, dayTrades := range byDay {
		var pnl, volume, fees float64
		wins := 0
		for _, trade := range dayTrades {
			if !math.IsNaN(trade.ClosedPnL) {
				pnl += trade.ClosedPnL
				if trade.ClosedPnL > 0 {
					wins++
				}
			}
			if !math.IsNaN(trade.SizeUSD) {
				volume += trade.SizeUSD
			}
			if !math.IsNaN(trade.Fee) {
				fees += trade.Fee
			}
		}

		n := len(dayTrades)
		daily = append(daily, DailyPerformance{
			Date:           date,
			TotalPnL:       pnl,
			TotalVolumeUSD: volume,
			TotalFees:      fees,
			TotalNetPnL:    pnl - fees,
			NumTrades:      n,
			WinRate:        float64(wins) / float64(n),
			AvgPnLPerTrade: pnl / float64(n),
		})
	}

	sort.Slice(daily, func(i, j int) bool {
		return daily[i].Date.Before(daily[j].Date)
	})

	a.logger.InfoContext(ctx, "aggregated daily performance",
		slog.Int("trading_days", len(daily)))

	return daily
}

// JoinSentiment left-joins daily performance with the sentiment index on
// date. Every daily row appears exactly once in the result; days without a
// sentiment record keep NaN/empty sentiment fields. A sentiment record whose
// classification is empty gets one derived from its numeric value.
func (a *Analyzer) JoinSentiment(ctx context.Context, daily []DailyPerformance, sentiment []ingest.SentimentRecord) []JoinedDay {
	byDate := make(map[time.Time]ingest.SentimentRecord, len(sentiment))
	for _, record := range sentiment {
		byDate[record.Date] = record
	}

	joined := make([]JoinedDay, 0, len(daily))
	matched := 0
	for _, day := range daily {
		row := JoinedDay{
			DailyPerformance: day,
			SentimentValue:   math.NaN(),
		}
		if record, ok := byDate[day.Date]; ok {
			row.SentimentValue = float64(record.Value)
			row.SentimentClass = record.Class
			if row.SentimentClass == "" {
				row.SentimentClass = RegimeForValue(record.Value)
			}
			matched++
		}
		joined = append(joined, row)
	}

	a.logger.InfoContext(ctx, "joined daily performance with sentiment",
		slog.Int("days", len(joined)),
		slog.Int("days_with_sentiment", matched))

	return joined
}

// RegimeForValue maps a fear & greed index value to its sentiment regime
func RegimeForValue(value int) string {
	switch {
	case value < 25:
		return "Extreme Fear"
	case value < 45:
		return "Fear"
	case value < 55:
		return "Neutral"
	case value < 75:
		return "Greed"
	default:
		return "Extreme Greed"
	}
}
