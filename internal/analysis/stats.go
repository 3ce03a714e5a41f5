package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// numericColumn pairs a report column name with its value extractor
type numericColumn struct {
	name    string
	extract func(JoinedDay) float64
}

// describeColumns lists every numeric column of the joined table, in report
// order.
var describeColumns = []numericColumn{
	{"total_pnl", func(j JoinedDay) float64 { return j.TotalPnL }},
	{"total_volume_usd", func(j JoinedDay) float64 { return j.TotalVolumeUSD }},
	{"total_fees", func(j JoinedDay) float64 { return j.TotalFees }},
	{"total_net_pnl", func(j JoinedDay) float64 { return j.TotalNetPnL }},
	{"num_trades", func(j JoinedDay) float64 { return float64(j.NumTrades) }},
	{"win_rate", func(j JoinedDay) float64 { return j.WinRate }},
	{"avg_pnl_per_trade", func(j JoinedDay) float64 { return j.AvgPnLPerTrade }},
	{"sentiment_value", func(j JoinedDay) float64 { return j.SentimentValue }},
}

// correlationColumns is the restricted column set of the correlation matrix
var correlationColumns = []numericColumn{
	{"sentiment_value", func(j JoinedDay) float64 { return j.SentimentValue }},
	{"total_pnl", func(j JoinedDay) float64 { return j.TotalPnL }},
	{"win_rate", func(j JoinedDay) float64 { return j.WinRate }},
	{"total_volume_usd", func(j JoinedDay) float64 { return j.TotalVolumeUSD }},
}

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max for every numeric column of the joined table. Quartiles use linear
// interpolation, so the median of an even-sized column is the average of the
// two middle values. NaN cells are excluded from a column before computing; a
// column with no usable values reports count 0 and NaN statistics.
func Describe(rows []JoinedDay) []ColumnStats {
	out := make([]ColumnStats, 0, len(describeColumns))
	for _, col := range describeColumns {
		values := collectFinite(rows, col.extract)
		stats := ColumnStats{Column: col.name, Count: len(values)}
		if len(values) == 0 {
			nan := math.NaN()
			stats.Mean, stats.Std = nan, nan
			stats.Min, stats.Q1, stats.Median, stats.Q3, stats.Max = nan, nan, nan, nan, nan
			out = append(out, stats)
			continue
		}
		sort.Float64s(values)
		stats.Mean = stat.Mean(values, nil)
		stats.Std = stat.StdDev(values, nil)
		stats.Min = values[0]
		stats.Q1 = quantile(values, 0.25)
		stats.Median = quantile(values, 0.5)
		stats.Q3 = quantile(values, 0.75)
		stats.Max = values[len(values)-1]
		out = append(out, stats)
	}
	return out
}

// CorrelationMatrix computes the Pearson correlation matrix over the
// restricted column set {sentiment_value, total_pnl, win_rate,
// total_volume_usd}. Each pair of columns is correlated over the rows where
// both are non-NaN; a pair with fewer than two complete rows yields NaN. The
// matrix is symmetric with 1 on the diagonal for every column that has data.
func CorrelationMatrix(rows []JoinedDay) ([]string, [][]float64) {
	n := len(correlationColumns)
	names := make([]string, n)
	matrix := make([][]float64, n)
	for i := range matrix {
		names[i] = correlationColumns[i].name
		matrix[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		if len(collectFinite(rows, correlationColumns[i].extract)) > 0 {
			matrix[i][i] = 1
		} else {
			matrix[i][i] = math.NaN()
		}
		for j := i + 1; j < n; j++ {
			r := pairwiseCorrelation(rows, correlationColumns[i].extract, correlationColumns[j].extract)
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}

	return names, matrix
}

// SummarizeByClass groups joined rows by sentiment class and reports mean and
// median PnL, mean win rate, mean volume and day count per class. Rows
// without a sentiment class are excluded; classes are sorted alphabetically
// for deterministic output.
func SummarizeByClass(rows []JoinedDay) []ClassSummary {
	byClass := make(map[string][]JoinedDay)
	for _, row := range rows {
		if row.SentimentClass == "" {
			continue
		}
		byClass[row.SentimentClass] = append(byClass[row.SentimentClass], row)
	}

	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	summaries := make([]ClassSummary, 0, len(classes))
	for _, class := range classes {
		group := byClass[class]
		pnls := make([]float64, 0, len(group))
		winRates := make([]float64, 0, len(group))
		volumes := make([]float64, 0, len(group))
		for _, row := range group {
			pnls = append(pnls, row.TotalPnL)
			winRates = append(winRates, row.WinRate)
			volumes = append(volumes, row.TotalVolumeUSD)
		}
		sort.Float64s(pnls)
		summaries = append(summaries, ClassSummary{
			Class:      class,
			AvgPnL:     stat.Mean(pnls, nil),
			MedianPnL:  quantile(pnls, 0.5),
			AvgWinRate: stat.Mean(winRates, nil),
			AvgVolume:  stat.Mean(volumes, nil),
			NumDays:    len(group),
		})
	}

	return summaries
}

// quantile returns the p-quantile of sorted values using linear interpolation
// between the two nearest order statistics: h = (n-1)*p, interpolating between
// values[floor(h)] and values[floor(h)+1]. gonum's CumulantKinds interpolate
// the empirical CDF instead, which differs on even-sized samples.
func quantile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return values[n-1]
	}
	frac := h - float64(lo)
	return values[lo] + frac*(values[lo+1]-values[lo])
}

func collectFinite(rows []JoinedDay, extract func(JoinedDay) float64) []float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v := extract(row); !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	return values
}

func pairwiseCorrelation(rows []JoinedDay, left, right func(JoinedDay) float64) float64 {
	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	for _, row := range rows {
		x, y := left(row), right(row)
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
