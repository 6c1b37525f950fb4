package strategyconfig

import (
	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/internal/s2_signals"
	"github.com/wonny/rs-screener/internal/selection"
)

// Config is the screening strategy definition loaded from YAML
// ⭐ SSOT: 스크리닝 파라미터는 여기서만 정의
type Config struct {
	Meta             Meta                   `yaml:"meta" json:"meta"`
	Strategy         contracts.Strategy     `yaml:"strategy" json:"strategy"`
	RelativeStrength RelativeStrengthConfig `yaml:"relative_strength" json:"relative_strength"`
	Returns          ReturnsConfig          `yaml:"returns" json:"returns"`
	QualityFilter    QualityFilterConfig    `yaml:"quality_filter" json:"quality_filter"`
	Universe         UniverseConfig         `yaml:"universe" json:"universe"`
	Output           OutputConfig           `yaml:"output" json:"output"`
}

// Meta identifies the configuration
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// RelativeStrengthConfig controls the RS engine and the benchmark comparisons
type RelativeStrengthConfig struct {
	LookbackDays    int              `yaml:"lookback_days" json:"lookback_days"`       // 252 = 12개월
	SkipRecentDays  int              `yaml:"skip_recent_days" json:"skip_recent_days"` // 최근 1개월 제외
	Threshold       float64          `yaml:"threshold" json:"threshold"`               // 최소 RS 백분위
	MansfieldWindow int              `yaml:"mansfield_window" json:"mansfield_window"`
	Benchmarks      BenchmarksConfig `yaml:"benchmarks" json:"benchmarks"`
	ComparePrimary  bool             `yaml:"compare_primary" json:"compare_primary"`
	CompareBroad    bool             `yaml:"compare_broad" json:"compare_broad"`
	CompareSector   bool             `yaml:"compare_sector" json:"compare_sector"`
}

// BenchmarksConfig names the benchmark series
type BenchmarksConfig struct {
	Primary string `yaml:"primary" json:"primary"`
	Broad   string `yaml:"broad" json:"broad"`
}

// ReturnsConfig holds the volatility and trend windows
type ReturnsConfig struct {
	VolatilityWindow int `yaml:"volatility_window" json:"volatility_window"`
	TrendWindow      int `yaml:"trend_window" json:"trend_window"`
}

// QualityFilterConfig holds the fundamental thresholds of the quality filter
type QualityFilterConfig struct {
	MinROE             float64 `yaml:"min_roe" json:"min_roe"`                           // %
	MaxDebtEquity      float64 `yaml:"max_debt_equity" json:"max_debt_equity"`           // 배
	MinOperatingMargin float64 `yaml:"min_operating_margin" json:"min_operating_margin"` // %
}

// UniverseConfig holds the market cap floor and sector exclusions
type UniverseConfig struct {
	MinMarketCap   float64  `yaml:"min_market_cap" json:"min_market_cap"`
	ExcludeSectors []string `yaml:"exclude_sectors" json:"exclude_sectors"`
}

// OutputConfig limits the ranked table
type OutputConfig struct {
	MaxResults int `yaml:"max_results" json:"max_results"` // 0 = 제한 없음
}

// Default returns the standard RS + Quality configuration
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "rs_screener",
			Version:    "1",
		},
		Strategy: contracts.StrategyRSQuality,
		RelativeStrength: RelativeStrengthConfig{
			LookbackDays:    s2_signals.DefaultLookback,
			SkipRecentDays:  s2_signals.DefaultSkipRecent,
			Threshold:       80,
			MansfieldWindow: s2_signals.DefaultMansfieldWindow,
			Benchmarks: BenchmarksConfig{
				Primary: "NIFTY50",
				Broad:   "NSE500",
			},
			ComparePrimary: true,
			CompareBroad:   true,
			CompareSector:  true,
		},
		Returns: ReturnsConfig{
			VolatilityWindow: s2_signals.DefaultVolatilityWindow,
			TrendWindow:      s2_signals.DefaultTrendWindow,
		},
		QualityFilter: QualityFilterConfig{
			MinROE:             15,
			MaxDebtEquity:      1.0,
			MinOperatingMargin: 10,
		},
		Universe: UniverseConfig{
			MinMarketCap: 5000,
		},
		Output: OutputConfig{
			MaxResults: 30,
		},
	}
}

// Benchmarks returns the compared benchmark names, primary first
func (c *Config) Benchmarks() []string {
	var names []string
	rs := c.RelativeStrength
	if rs.ComparePrimary && rs.Benchmarks.Primary != "" {
		names = append(names, rs.Benchmarks.Primary)
	}
	if rs.CompareBroad && rs.Benchmarks.Broad != "" && rs.Benchmarks.Broad != rs.Benchmarks.Primary {
		names = append(names, rs.Benchmarks.Broad)
	}
	return names
}

// PrimaryBenchmark is the benchmark whose RS can veto a BUY
func (c *Config) PrimaryBenchmark() string {
	return c.RelativeStrength.Benchmarks.Primary
}

// ReturnConfig derives the return engine windows
func (c *Config) ReturnConfig() s2_signals.ReturnConfig {
	return s2_signals.ReturnConfig{
		VolatilityWindow: c.Returns.VolatilityWindow,
		TrendWindow:      c.Returns.TrendWindow,
	}
}

// RSConfig derives the relative strength engine parameters
func (c *Config) RSConfig() s2_signals.RSConfig {
	return s2_signals.RSConfig{
		Lookback:        c.RelativeStrength.LookbackDays,
		SkipRecent:      c.RelativeStrength.SkipRecentDays,
		MansfieldWindow: c.RelativeStrength.MansfieldWindow,
	}
}

// BuilderConfig derives the signal builder settings
func (c *Config) BuilderConfig(workers int) s2_signals.BuilderConfig {
	return s2_signals.BuilderConfig{
		Workers:       workers,
		Benchmarks:    c.Benchmarks(),
		CompareSector: c.RelativeStrength.CompareSector,
	}
}

// ScreenerConfig derives the filter thresholds
func (c *Config) ScreenerConfig() selection.ScreenerConfig {
	return selection.ScreenerConfig{
		Strategy:           c.Strategy,
		RSThreshold:        c.RelativeStrength.Threshold,
		MinROE:             c.QualityFilter.MinROE,
		MaxDebtToEquity:    c.QualityFilter.MaxDebtEquity,
		MinOperatingMargin: c.QualityFilter.MinOperatingMargin,
		MinMarketCap:       c.Universe.MinMarketCap,
		ExcludedSectors:    c.Universe.ExcludeSectors,
	}
}

// RequiredHistory is the number of trading days the longest metric reads
func (c *Config) RequiredHistory() int {
	rs := c.RelativeStrength
	need := rs.LookbackDays + rs.SkipRecentDays + 1
	for _, n := range []int{
		int(contracts.Horizon12M) + 1,
		rs.MansfieldWindow,
		c.Returns.TrendWindow,
		c.Returns.VolatilityWindow + 1,
	} {
		if n > need {
			need = n
		}
	}
	return need
}
