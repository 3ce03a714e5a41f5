package ingest

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sentimentcli/internal/errors"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLoadSentiment(t *testing.T) {
	content := `date,value,classification
2023-01-01,25,Fear
2023-01-02,80,Extreme Greed
2023-01-02,10,Extreme Fear
not-a-date,50,Neutral
2023-01-03,oops,Neutral
2023-01-04,55,
`
	path := writeTempCSV(t, "fgi.csv", content)

	records, err := LoadSentiment(path, nil)
	require.NoError(t, err)

	// Bad date and bad value dropped, duplicate collapsed
	require.Len(t, records, 3)

	assert.Equal(t, day(2023, time.January, 1), records[0].Date)
	assert.Equal(t, 25, records[0].Value)
	assert.Equal(t, "Fear", records[0].Class)

	// First occurrence wins for the duplicated date
	assert.Equal(t, day(2023, time.January, 2), records[1].Date)
	assert.Equal(t, 80, records[1].Value)
	assert.Equal(t, "Extreme Greed", records[1].Class)

	// Empty classification is preserved as empty
	assert.Equal(t, "", records[2].Class)
}

func TestLoadSentiment_DeduplicationIdempotent(t *testing.T) {
	content := `date,value,classification
2023-01-02,80,Greed
2023-01-02,10,Fear
2023-01-01,40,Fear
`
	path := writeTempCSV(t, "fgi.csv", content)

	first, err := LoadSentiment(path, nil)
	require.NoError(t, err)
	second, err := LoadSentiment(path, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	dates := make(map[time.Time]int)
	for _, r := range first {
		dates[r.Date]++
	}
	for date, count := range dates {
		assert.Equal(t, 1, count, "date %s appears more than once", date)
	}
}

func TestLoadSentiment_FileNotFound(t *testing.T) {
	_, err := LoadSentiment(filepath.Join(t.TempDir(), "missing.csv"), nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInput))
}

func TestLoadSentiment_MissingColumns(t *testing.T) {
	path := writeTempCSV(t, "fgi.csv", "date,score\n2023-01-01,25\n")

	_, err := LoadSentiment(path, nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	assert.Contains(t, err.Error(), "value")
	assert.Contains(t, err.Error(), "classification")
}

const tradeHeader = "Account,Coin,Execution Price,Size Tokens,Size USD,Side,Timestamp IST,Closed PnL,Fee\n"

func TestLoadTrades(t *testing.T) {
	content := tradeHeader +
		"0xabc,BTC,42000.5,0.01,420.0,buy,01-01-2023 10:30,10.0,0.42\n" +
		"0xabc,ETH,2000,1.5,3000,SELL,01-01-2023 18:05,-4.0,1.5\n"
	path := writeTempCSV(t, "trades.csv", content)

	records, err := LoadTrades(path, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "0xabc", first.Account)
	assert.Equal(t, "BTC", first.Coin)
	assert.Equal(t, 42000.5, first.ExecutionPrice)
	assert.Equal(t, "BUY", first.Side)
	assert.Equal(t, time.Date(2023, time.January, 1, 10, 30, 0, 0, time.UTC), first.Timestamp)
	assert.Equal(t, day(2023, time.January, 1), first.TradeDate)
	assert.Equal(t, 10.0, first.ClosedPnL)

	// Both trades normalize to the same calendar day
	assert.Equal(t, records[0].TradeDate, records[1].TradeDate)
}

func TestLoadTrades_UnparseableTimestampDropped(t *testing.T) {
	content := tradeHeader +
		"0xabc,BTC,42000,0.01,420,BUY,garbage,10.0,0.1\n" +
		"0xabc,BTC,42000,0.01,420,BUY,02-01-2023 09:00,5.0,0.1\n"
	path := writeTempCSV(t, "trades.csv", content)

	records, err := LoadTrades(path, nil)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, day(2023, time.January, 2), records[0].TradeDate)
}

func TestLoadTrades_NonNumericBecomesNaN(t *testing.T) {
	content := tradeHeader +
		"0xabc,BTC,n/a,0.01,420,BUY,01-01-2023 10:30,,0.1\n"
	path := writeTempCSV(t, "trades.csv", content)

	records, err := LoadTrades(path, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.True(t, math.IsNaN(records[0].ExecutionPrice))
	assert.True(t, math.IsNaN(records[0].ClosedPnL))
	assert.Equal(t, 420.0, records[0].SizeUSD)
}

func TestLoadTrades_DayFirstParsing(t *testing.T) {
	// 02-03-2023 must parse as 2 March, not 3 February
	content := tradeHeader +
		"0xabc,BTC,42000,0.01,420,BUY,02-03-2023 12:00,1.0,0.1\n"
	path := writeTempCSV(t, "trades.csv", content)

	records, err := LoadTrades(path, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, day(2023, time.March, 2), records[0].TradeDate)
}

func TestLoadTrades_MissingColumns(t *testing.T) {
	path := writeTempCSV(t, "trades.csv", "Account,Coin\n0xabc,BTC\n")

	_, err := LoadTrades(path, nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestParseTradeTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"with minutes", "15-06-2023 14:45", time.Date(2023, time.June, 15, 14, 45, 0, 0, time.UTC), true},
		{"with seconds", "15-06-2023 14:45:30", time.Date(2023, time.June, 15, 14, 45, 30, 0, time.UTC), true},
		{"date only", "15-06-2023", time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"iso format", "2023-06-15T14:45:00Z", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTradeTimestamp(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
