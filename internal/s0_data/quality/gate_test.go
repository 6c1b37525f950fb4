package quality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/internal/s0_data"
)

func series(n int) contracts.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make(contracts.PriceSeries, n)
	for i := range out {
		out[i] = contracts.PricePoint{Date: start.AddDate(0, 0, i), Close: 100 + float64(i)}
	}
	return out
}

func TestGate_Check(t *testing.T) {
	snap, err := s0_data.NewSnapshot(s0_data.SnapshotInput{
		Universe: []contracts.Stock{{Symbol: "AAA"}, {Symbol: "BBB"}, {Symbol: "CCC"}, {Symbol: "DDD"}},
		Prices: map[string]contracts.PriceSeries{
			"AAA": series(300),
			"BBB": series(300),
			"CCC": series(30),
		},
		Benchmarks: map[string]contracts.PriceSeries{"NIFTY50": series(300)},
		Fundamentals: map[string]contracts.FundamentalSnapshot{
			"AAA": {ROE: contracts.Some(20)},
		},
	})
	require.NoError(t, err)

	report := NewGate(DefaultConfig(274, []string{"NIFTY50", "NSE500"})).Check(snap)

	assert.Equal(t, 4, report.TotalStocks)
	assert.Equal(t, 2, report.ValidStocks)
	assert.InDelta(t, 0.75, report.Coverage["price"], 1e-9)
	assert.InDelta(t, 0.50, report.Coverage["history"], 1e-9)
	assert.InDelta(t, 0.25, report.Coverage["fundamentals"], 1e-9)
	assert.InDelta(t, 0.50, report.Coverage["benchmark"], 1e-9)
	assert.Equal(t, []string{"NSE500"}, report.MissingBenchmarks)
	assert.False(t, report.Passed)

	want := 0.75*0.40 + 0.50*0.30 + 0.25*0.20 + 0.50*0.10
	assert.InDelta(t, want, report.Score, 1e-9)
}

func TestGate_FullCoveragePasses(t *testing.T) {
	snap, err := s0_data.NewSnapshot(s0_data.SnapshotInput{
		Universe:     []contracts.Stock{{Symbol: "AAA"}},
		Prices:       map[string]contracts.PriceSeries{"AAA": series(300)},
		Benchmarks:   map[string]contracts.PriceSeries{"NIFTY50": series(300)},
		Fundamentals: map[string]contracts.FundamentalSnapshot{"AAA": {}},
	})
	require.NoError(t, err)

	report := NewGate(DefaultConfig(274, []string{"NIFTY50"})).Check(snap)
	assert.True(t, report.Passed)
	assert.InDelta(t, 1.0, report.Score, 1e-9)
}
