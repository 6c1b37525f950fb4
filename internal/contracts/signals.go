package contracts

import "math"

// Horizon is a return lookback in trading days
type Horizon int

const (
	Horizon1M  Horizon = 21
	Horizon3M  Horizon = 63
	Horizon6M  Horizon = 126
	Horizon12M Horizon = 252
)

// Horizons lists the reported return horizons, shortest first
var Horizons = []Horizon{Horizon1M, Horizon3M, Horizon6M, Horizon12M}

// Label returns the display label of a horizon (1M, 3M, ...)
func (h Horizon) Label() string {
	switch h {
	case Horizon1M:
		return "1M"
	case Horizon3M:
		return "3M"
	case Horizon6M:
		return "6M"
	case Horizon12M:
		return "12M"
	default:
		return "custom"
	}
}

// ReturnMetrics holds the per-symbol return statistics
type ReturnMetrics struct {
	Return1M      Num     `json:"return_1m"`
	Return3M      Num     `json:"return_3m"`
	Return6M      Num     `json:"return_6m"`
	Return12M     Num     `json:"return_12m"`
	Volatility    Num     `json:"volatility"`     // annualized %, sample stdev
	TrendStrength float64 `json:"trend_strength"` // R² × 100, always defined
}

// Return returns the metric for a standard horizon
func (m ReturnMetrics) Return(h Horizon) Num {
	switch h {
	case Horizon1M:
		return m.Return1M
	case Horizon3M:
		return m.Return3M
	case Horizon6M:
		return m.Return6M
	case Horizon12M:
		return m.Return12M
	default:
		return None()
	}
}

// Unranked is the rank given to symbols without a long-horizon return.
// It sorts after every real rank.
const Unranked = math.MaxInt32

// SectorBenchmarkKey keys the sector-index comparison in RSMetrics.VsBenchmark
const SectorBenchmarkKey = "sector"

// RSMetrics holds the relative strength outputs of one symbol
// ⭐ SSOT: RS 지표 구조
type RSMetrics struct {
	LongReturn  Num            `json:"long_return"` // lookback return, recent month skipped
	Percentile  Num            `json:"rs_percentile"`
	Rank        int            `json:"rs_rank"`
	VsBenchmark map[string]Num `json:"rs_vs_benchmark"` // Mansfield RS per benchmark
}

// Vs returns the Mansfield RS against a benchmark key
func (m RSMetrics) Vs(key string) Num {
	if m.VsBenchmark == nil {
		return None()
	}
	return m.VsBenchmark[key]
}

// FundamentalSnapshot holds the latest fundamentals of one symbol.
// Ratios are percentages except debt/equity, current ratio and P/B.
type FundamentalSnapshot struct {
	ROE             Num `json:"roe" yaml:"roe"`
	ROA             Num `json:"roa" yaml:"roa"`
	DebtToEquity    Num `json:"debt_to_equity" yaml:"debt_to_equity"`
	CurrentRatio    Num `json:"current_ratio" yaml:"current_ratio"`
	OperatingMargin Num `json:"operating_margin" yaml:"operating_margin"`
	ProfitMargin    Num `json:"profit_margin" yaml:"profit_margin"`
	RevenueGrowth   Num `json:"revenue_growth" yaml:"revenue_growth"`
	EarningsGrowth  Num `json:"earnings_growth" yaml:"earnings_growth"`
	FreeCashFlow    Num `json:"free_cash_flow" yaml:"free_cash_flow"`
	BookValue       Num `json:"book_value" yaml:"book_value"`
	PriceToBook     Num `json:"price_to_book" yaml:"price_to_book"`
}

// QualityScore is the 0-100 fundamental score and its letter grade
type QualityScore struct {
	Score float64 `json:"score"`
	Grade string  `json:"grade"`
}

// MomentumRow is one row of the momentum table built by S2
type MomentumRow struct {
	Stock   Stock         `json:"stock"`
	Returns ReturnMetrics `json:"returns"`
	RS      RSMetrics     `json:"rs"`
}

// SignalSet is the S2 output: the momentum table plus quality scores
// ⭐ SSOT: S2 → S3/S4 시그널 데이터 전달
type SignalSet struct {
	Momentum     []MomentumRow                  `json:"momentum"`
	Quality      map[string]QualityScore        `json:"quality"`      // symbols with fundamentals
	Fundamentals map[string]FundamentalSnapshot `json:"fundamentals"` // as supplied
}

// Count returns the number of symbols in the momentum table
func (s *SignalSet) Count() int {
	return len(s.Momentum)
}
