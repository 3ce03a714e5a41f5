// Package analysis turns cleaned trade records into daily performance
// aggregates, joins them with the daily sentiment index, and computes the
// descriptive statistics reported by the pipeline.
package analysis

import (
	"math"
	"time"
)

// DailyPerformance aggregates all trades executed on one calendar day.
// A day appears only if at least one trade was executed on it, so NumTrades
// is always at least 1.
type DailyPerformance struct {
	Date           time.Time
	TotalPnL       float64
	TotalVolumeUSD float64
	TotalFees      float64
	TotalNetPnL    float64
	NumTrades      int
	WinRate        float64
	AvgPnLPerTrade float64
}

// JoinedDay is a DailyPerformance row with that day's sentiment attached.
// SentimentValue is NaN and SentimentClass empty when no sentiment record
// exists for the date.
type JoinedDay struct {
	DailyPerformance
	SentimentValue float64
	SentimentClass string
}

// HasSentiment reports whether a sentiment record matched this day
func (j JoinedDay) HasSentiment() bool {
	return !math.IsNaN(j.SentimentValue)
}

// ColumnStats holds the describe() row for one numeric column
type ColumnStats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// ClassSummary holds the grouped performance summary for one sentiment class
type ClassSummary struct {
	Class      string
	AvgPnL     float64
	MedianPnL  float64
	AvgWinRate float64
	AvgVolume  float64
	NumDays    int
}
