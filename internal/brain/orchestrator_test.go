package brain

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/internal/s0_data"
	"github.com/wonny/rs-screener/internal/strategyconfig"
	"github.com/wonny/rs-screener/pkg/logger"
	"github.com/wonny/rs-screener/pkg/metrics"
)

var baseDate = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

func series(n int, rate float64) contracts.PriceSeries {
	out := make(contracts.PriceSeries, n)
	v := 100.0
	for i := range out {
		out[i] = contracts.PricePoint{Date: baseDate.AddDate(0, 0, i), Close: v}
		v *= 1 + rate
	}
	return out
}

func goodFundamentals() contracts.FundamentalSnapshot {
	return contracts.FundamentalSnapshot{
		ROE:             contracts.Some(25),
		ROA:             contracts.Some(12),
		DebtToEquity:    contracts.Some(0.2),
		CurrentRatio:    contracts.Some(2.5),
		OperatingMargin: contracts.Some(22),
		RevenueGrowth:   contracts.Some(18),
		EarningsGrowth:  contracts.Some(30),
		FreeCashFlow:    contracts.Some(5e8),
	}
}

// testSnapshot: AAA > BBB > CCC > DDD > EEE by 12-month return
func testSnapshot(t *testing.T) *s0_data.Snapshot {
	t.Helper()
	const n = 300
	stock := func(symbol, sector string) contracts.Stock {
		return contracts.Stock{
			Symbol:       symbol,
			CompanyName:  symbol + " Ltd",
			Sector:       sector,
			MarketCap:    10000,
			CurrentPrice: contracts.Some(100),
			PERatio:      contracts.Some(20),
		}
	}
	weak := goodFundamentals()
	weak.ROE = contracts.Some(5)

	snap, err := s0_data.NewSnapshot(s0_data.SnapshotInput{
		Universe: []contracts.Stock{
			stock("AAA", "Energy"),
			stock("BBB", "Banks"),
			stock("CCC", "Utilities"),
			stock("DDD", "Energy"),
			stock("EEE", "Banks"),
		},
		Prices: map[string]contracts.PriceSeries{
			"AAA": series(n, 0.004),
			"BBB": series(n, 0.003),
			"CCC": series(n, 0.002),
			"DDD": series(n, 0.001),
			"EEE": series(n, -0.001),
		},
		Benchmarks: map[string]contracts.PriceSeries{
			"NIFTY50": series(n, 0.001),
			"NSE500":  series(n, 0.0012),
		},
		Sectors: map[string]contracts.PriceSeries{
			"Energy": series(n, 0.0015),
		},
		Fundamentals: map[string]contracts.FundamentalSnapshot{
			"AAA": goodFundamentals(),
			"BBB": goodFundamentals(),
			"CCC": goodFundamentals(),
			"DDD": weak,
		},
	})
	require.NoError(t, err)
	return snap
}

func testConfig(mutate func(*strategyconfig.Config)) *strategyconfig.Config {
	cfg := strategyconfig.Default()
	cfg.RelativeStrength.Threshold = 40
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

func runPipeline(t *testing.T, cfg *strategyconfig.Config, recorder *metrics.Recorder) *RunResult {
	t.Helper()
	orch, err := NewOrchestrator(cfg, 4, recorder, logger.Nop())
	require.NoError(t, err)

	result, err := orch.Run(context.Background(), testSnapshot(t))
	require.NoError(t, err)
	return result
}

func recordSymbols(records []contracts.ScreeningRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Symbol
	}
	return out
}

func TestOrchestrator_RSQuality(t *testing.T) {
	result := runPipeline(t, testConfig(nil), nil)

	assert.Equal(t, []string{StageQuality, StageUniverse, StageSignals, StageScreener, StageRanker}, result.CompletedStages)
	require.NotNil(t, result.Run)
	assert.False(t, result.NoMatches())

	run := result.Run
	assert.Equal(t, contracts.StrategyRSQuality, run.Strategy)
	assert.Equal(t, 5, run.UniverseSize)
	assert.Len(t, run.ConfigHash, 64)

	// percentiles 80/60/40/20/0; threshold 40 keeps AAA, BBB, CCC
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, recordSymbols(run.Records))
	assert.Equal(t, 3, run.Matched)
	for i, rec := range run.Records {
		assert.Equal(t, i+1, rec.Position)
		assert.True(t, rec.Quality.Valid)
	}
	assert.InDelta(t, 80, run.Records[0].RS.Percentile.Or(-1), 1e-9)

	require.NotEmpty(t, run.Filters)
	assert.Equal(t, "rs_threshold", run.Filters[0].Filter)
	assert.Equal(t, 2, run.Filters[0].Removed)

	assert.Equal(t, 3, run.Summary.Total)
	require.NotNil(t, result.Coverage)
	assert.Equal(t, 5, result.Coverage.TotalStocks)
}

func TestOrchestrator_SectorExclusion(t *testing.T) {
	cfg := testConfig(func(c *strategyconfig.Config) {
		c.Universe.ExcludeSectors = []string{"Utilities"}
	})
	result := runPipeline(t, cfg, nil)

	assert.Equal(t, []string{"AAA", "BBB"}, recordSymbols(result.Run.Records))
}

func TestOrchestrator_PureRSMatchesPercentileOrder(t *testing.T) {
	cfg := testConfig(func(c *strategyconfig.Config) {
		c.Strategy = contracts.StrategyPureRS
		c.RelativeStrength.Threshold = 0
		c.QualityFilter.MinROE = 0
	})
	result := runPipeline(t, cfg, nil)

	// EEE has no fundamentals and passes the quality filter
	assert.Equal(t, []string{"AAA", "BBB", "CCC", "DDD", "EEE"}, recordSymbols(result.Run.Records))
	for _, rec := range result.Run.Records {
		assert.InDelta(t, rec.RS.Percentile.Or(-1), rec.CompositeScore, 1e-9)
	}
}

func TestOrchestrator_MaxResultsTruncatesAfterSummary(t *testing.T) {
	cfg := testConfig(func(c *strategyconfig.Config) {
		c.Output.MaxResults = 2
	})
	result := runPipeline(t, cfg, nil)

	assert.Len(t, result.Run.Records, 2)
	assert.Equal(t, 3, result.Run.Matched)
	assert.Equal(t, 3, result.Run.Summary.Total)
}

func TestOrchestrator_NoMatches(t *testing.T) {
	cfg := testConfig(func(c *strategyconfig.Config) {
		c.Universe.MinMarketCap = 1e9
	})
	result := runPipeline(t, cfg, nil)

	assert.True(t, result.NoMatches())
	assert.Empty(t, result.Run.Records)
	assert.Equal(t, 0, result.Run.Summary.Total)
}

func TestOrchestrator_BenchmarkComparisons(t *testing.T) {
	result := runPipeline(t, testConfig(nil), nil)

	top := result.Run.Records[0]
	assert.True(t, top.RS.Vs("NIFTY50").Valid)
	assert.True(t, top.RS.Vs("NSE500").Valid)
	assert.True(t, top.RS.Vs(contracts.SectorBenchmarkKey).Valid, "AAA has an Energy sector index")

	var banks contracts.ScreeningRecord
	for _, rec := range result.Run.Records {
		if rec.Symbol == "BBB" {
			banks = rec
		}
	}
	assert.False(t, banks.RS.Vs(contracts.SectorBenchmarkKey).Valid, "no Banks sector index")
}

func TestOrchestrator_RecordsMetrics(t *testing.T) {
	recorder := metrics.New()
	runPipeline(t, testConfig(nil), recorder)

	count, err := testutil.GatherAndCount(recorder.Registry(), "rsscreen_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(recorder.Registry(), "rsscreen_stage_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestOrchestrator_CancelledContext(t *testing.T) {
	orch, err := NewOrchestrator(testConfig(nil), 2, nil, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := orch.Run(ctx, testSnapshot(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{StageQuality}, result.CompletedStages)
}

func TestNewOrchestrator_InvalidConfig(t *testing.T) {
	cfg := strategyconfig.Default()
	cfg.RelativeStrength.LookbackDays = 0

	_, err := NewOrchestrator(cfg, 1, nil, logger.Nop())
	require.Error(t, err)
}
