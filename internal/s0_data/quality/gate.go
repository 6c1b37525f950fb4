package quality

import (
	"sort"
	"time"

	"github.com/wonny/rs-screener/internal/s0_data"
)

// Config holds coverage thresholds. A report below threshold is advisory:
// screening still runs, missing data surfaces as missing metrics.
type Config struct {
	MinHistory              int      `yaml:"min_history"` // observations needed for the long-horizon return
	Benchmarks              []string `yaml:"benchmarks"`
	MinPriceCoverage        float64  `yaml:"min_price_coverage"`        // 0.95
	MinHistoryCoverage      float64  `yaml:"min_history_coverage"`      // 0.80
	MinFundamentalsCoverage float64  `yaml:"min_fundamentals_coverage"` // 0.50
}

// DefaultConfig returns the thresholds used by scheduled runs
func DefaultConfig(minHistory int, benchmarks []string) Config {
	return Config{
		MinHistory:              minHistory,
		Benchmarks:              benchmarks,
		MinPriceCoverage:        0.95,
		MinHistoryCoverage:      0.80,
		MinFundamentalsCoverage: 0.50,
	}
}

// Report is the coverage summary of one snapshot
type Report struct {
	Date              time.Time          `json:"date"`
	TotalStocks       int                `json:"total_stocks"`
	ValidStocks       int                `json:"valid_stocks"` // full long-horizon history
	Coverage          map[string]float64 `json:"coverage"`
	Score             float64            `json:"score"`
	Passed            bool               `json:"passed"`
	MissingBenchmarks []string           `json:"missing_benchmarks,omitempty"`
}

// Gate measures snapshot coverage before screening
type Gate struct {
	config Config
}

// NewGate creates a new coverage gate
func NewGate(config Config) *Gate {
	return &Gate{config: config}
}

// Check computes price, history, fundamentals and benchmark coverage
// ⭐ SSOT: S0 → S1 품질 검증
func (g *Gate) Check(snap *s0_data.Snapshot) *Report {
	universe := snap.Universe()
	report := &Report{
		Date:        snap.AsOf(),
		TotalStocks: len(universe),
		Coverage:    make(map[string]float64),
	}

	var withPrices, withHistory, withFundamentals int
	for _, stock := range universe {
		if series, ok := snap.Series(stock.Symbol); ok {
			withPrices++
			if series.Len() >= g.config.MinHistory {
				withHistory++
			}
		}
		if _, ok := snap.Fundamentals(stock.Symbol); ok {
			withFundamentals++
		}
	}
	report.ValidStocks = withHistory

	total := float64(len(universe))
	if total > 0 {
		report.Coverage["price"] = float64(withPrices) / total
		report.Coverage["history"] = float64(withHistory) / total
		report.Coverage["fundamentals"] = float64(withFundamentals) / total
	}

	found := 0
	for _, name := range g.config.Benchmarks {
		if _, ok := snap.Benchmark(name); ok {
			found++
		} else {
			report.MissingBenchmarks = append(report.MissingBenchmarks, name)
		}
	}
	sort.Strings(report.MissingBenchmarks)
	if len(g.config.Benchmarks) > 0 {
		report.Coverage["benchmark"] = float64(found) / float64(len(g.config.Benchmarks))
	} else {
		report.Coverage["benchmark"] = 1
	}

	report.Score = calculateScore(report.Coverage)
	report.Passed = report.Coverage["price"] >= g.config.MinPriceCoverage &&
		report.Coverage["history"] >= g.config.MinHistoryCoverage &&
		report.Coverage["fundamentals"] >= g.config.MinFundamentalsCoverage &&
		len(report.MissingBenchmarks) == 0

	return report
}

// calculateScore is the weighted average of the coverage ratios
func calculateScore(coverage map[string]float64) float64 {
	// 가중치 (합계 = 1.0)
	weights := map[string]float64{
		"price":        0.40,
		"history":      0.30,
		"fundamentals": 0.20,
		"benchmark":    0.10,
	}

	score := 0.0
	for key, weight := range weights {
		score += coverage[key] * weight
	}
	return score
}
