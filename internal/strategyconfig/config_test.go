package strategyconfig

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rs-screener/internal/contracts"
)

func TestLoad(t *testing.T) {
	// 테스트용 YAML 경로
	path := "../../config/strategy/rs_screener.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, yamlData)

	assert.Equal(t, "rs_screener", cfg.Meta.StrategyID)
	assert.Equal(t, contracts.StrategyRSQuality, cfg.Strategy)
	assert.Equal(t, Default(), cfg)

	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	// 동일 설정 → 동일 해시
	hash2, _ := Hash(cfg)
	assert.Equal(t, hash, hash2)
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Empty(t, Warn(cfg))
	assert.Equal(t, []string{"NIFTY50", "NSE500"}, cfg.Benchmarks())
	assert.Equal(t, "NIFTY50", cfg.PrimaryBenchmark())
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
strategy: "RS + Value"
relative_strength:
  threshold: 70
  compare_broad: false
output:
  max_results: 10
`))
	require.NoError(t, err)

	assert.Equal(t, contracts.StrategyRSValue, cfg.Strategy)
	assert.Equal(t, 70.0, cfg.RelativeStrength.Threshold)
	assert.Equal(t, 252, cfg.RelativeStrength.LookbackDays)
	assert.Equal(t, 10, cfg.Output.MaxResults)
	assert.Equal(t, []string{"NIFTY50"}, cfg.Benchmarks())
}

func TestParse_UnknownFieldFails(t *testing.T) {
	_, err := Parse([]byte(`
relative_strength:
  threshhold: 70
`))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing strategy id", func(c *Config) { c.Meta.StrategyID = "" }, "meta.strategy_id"},
		{"unknown strategy", func(c *Config) { c.Strategy = "momentum" }, "strategy"},
		{"zero lookback", func(c *Config) { c.RelativeStrength.LookbackDays = 0 }, "relative_strength.lookback_days"},
		{"skip exceeds lookback", func(c *Config) { c.RelativeStrength.SkipRecentDays = 252 }, "relative_strength.skip_recent_days"},
		{"threshold above 100", func(c *Config) { c.RelativeStrength.Threshold = 101 }, "relative_strength.threshold"},
		{"missing primary benchmark", func(c *Config) { c.RelativeStrength.Benchmarks.Primary = "" }, "relative_strength.benchmarks.primary"},
		{"short volatility window", func(c *Config) { c.Returns.VolatilityWindow = 1 }, "returns.volatility_window"},
		{"negative debt ceiling", func(c *Config) { c.QualityFilter.MaxDebtEquity = -1 }, "quality_filter.max_debt_equity"},
		{"negative market cap", func(c *Config) { c.Universe.MinMarketCap = -1 }, "universe.min_market_cap"},
		{"duplicate sector", func(c *Config) { c.Universe.ExcludeSectors = []string{"Energy", "Energy"} }, "universe.exclude_sectors[1]"},
		{"negative max results", func(c *Config) { c.Output.MaxResults = -1 }, "output.max_results"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidate_PrimaryOptionalWhenNotCompared(t *testing.T) {
	cfg := Default()
	cfg.RelativeStrength.ComparePrimary = false
	cfg.RelativeStrength.Benchmarks.Primary = ""

	require.NoError(t, Validate(cfg))
	assert.Equal(t, []string{"NSE500"}, cfg.Benchmarks())
}

func TestWarn(t *testing.T) {
	cfg := Default()
	cfg.Strategy = contracts.StrategyRSLowVol
	cfg.RelativeStrength.LookbackDays = 200
	cfg.RelativeStrength.Threshold = 40
	cfg.QualityFilter.MinROE = 20
	cfg.Output.MaxResults = 0

	codes := make([]string, 0)
	for _, w := range Warn(cfg) {
		codes = append(codes, w.Code)
	}

	assert.ElementsMatch(t, []string{
		"NONSTANDARD_LOOKBACK",
		"LOW_RS_THRESHOLD",
		"LONG_MANSFIELD_WINDOW",
		"UNUSED_QUALITY_FILTER",
		"UNBOUNDED_OUTPUT",
	}, codes)
}

func TestHash_ChangesWithConfig(t *testing.T) {
	a := Default()
	b := Default()
	b.RelativeStrength.Threshold = 85

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestDerivedEngineConfigs(t *testing.T) {
	cfg := Default()
	cfg.Universe.ExcludeSectors = []string{"Utilities"}

	sc := cfg.ScreenerConfig()
	assert.Equal(t, contracts.StrategyRSQuality, sc.Strategy)
	assert.Equal(t, 80.0, sc.RSThreshold)
	assert.Equal(t, 1.0, sc.MaxDebtToEquity)
	assert.Equal(t, []string{"Utilities"}, sc.ExcludedSectors)

	bc := cfg.BuilderConfig(4)
	assert.Equal(t, 4, bc.Workers)
	assert.True(t, bc.CompareSector)

	rs := cfg.RSConfig()
	assert.Equal(t, 252, rs.Lookback)
	assert.Equal(t, 21, rs.SkipRecent)
}

func TestRequiredHistory(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 274, cfg.RequiredHistory())

	cfg.RelativeStrength.LookbackDays = 63
	cfg.RelativeStrength.MansfieldWindow = 100
	assert.Equal(t, 253, cfg.RequiredHistory(), "12-month return still needs a year")
}
