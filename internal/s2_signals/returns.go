package s2_signals

import (
	"math"

	"github.com/wonny/rs-screener/internal/contracts"
)

const (
	// TradingDaysPerYear annualizes daily volatility
	TradingDaysPerYear = 252
	// DefaultSkipRecent drops the latest month from the RS lookback return
	DefaultSkipRecent = 21
	// DefaultVolatilityWindow is the number of daily returns in the volatility stdev
	DefaultVolatilityWindow = 60
	// DefaultTrendWindow is the number of closes in the trend regression
	DefaultTrendWindow = 126
	// MinTrendObservations is the shortest series that gets a trend score
	MinTrendObservations = 50
)

// ReturnConfig holds the ReturnEngine windows
type ReturnConfig struct {
	VolatilityWindow int
	TrendWindow      int
}

// DefaultReturnConfig returns the standard windows
func DefaultReturnConfig() ReturnConfig {
	return ReturnConfig{
		VolatilityWindow: DefaultVolatilityWindow,
		TrendWindow:      DefaultTrendWindow,
	}
}

// ReturnEngine computes per-symbol return statistics. It is stateless and
// safe for concurrent use.
// ⭐ SSOT: 수익률/변동성/추세 계산은 여기서만
type ReturnEngine struct {
	config ReturnConfig
}

// NewReturnEngine creates a new return engine
func NewReturnEngine(config ReturnConfig) *ReturnEngine {
	if config.VolatilityWindow < 2 {
		config.VolatilityWindow = DefaultVolatilityWindow
	}
	if config.TrendWindow < 2 {
		config.TrendWindow = DefaultTrendWindow
	}
	return &ReturnEngine{config: config}
}

// Metrics computes the standard horizon returns, volatility and trend
func (e *ReturnEngine) Metrics(series contracts.PriceSeries) contracts.ReturnMetrics {
	closes := series.Closes()
	return contracts.ReturnMetrics{
		Return1M:      PeriodReturn(closes, int(contracts.Horizon1M), 0),
		Return3M:      PeriodReturn(closes, int(contracts.Horizon3M), 0),
		Return6M:      PeriodReturn(closes, int(contracts.Horizon6M), 0),
		Return12M:     PeriodReturn(closes, int(contracts.Horizon12M), 0),
		Volatility:    Volatility(closes, e.config.VolatilityWindow),
		TrendStrength: TrendStrength(closes, e.config.TrendWindow),
	}
}

// PeriodReturn is (end/start - 1) × 100 where end is the close skipRecent
// observations before the latest and start is horizon observations before end.
// Missing when the series is too short or either close is zero or non-finite.
func PeriodReturn(closes []float64, horizon, skipRecent int) contracts.Num {
	if horizon <= 0 || skipRecent < 0 {
		return contracts.None()
	}
	end := len(closes) - 1 - skipRecent
	start := end - horizon
	if start < 0 {
		return contracts.None()
	}

	p0, p1 := closes[start], closes[end]
	if !usable(p0) || !usable(p1) {
		return contracts.None()
	}
	return contracts.Some((p1/p0 - 1) * 100)
}

// Volatility is the annualized sample stdev (%) of the trailing window
// daily returns. Missing with fewer than window valid returns.
func Volatility(closes []float64, window int) contracts.Num {
	if window < 2 {
		return contracts.None()
	}

	rets := make([]float64, 0, len(closes))
	for i := 1; i < len(closes); i++ {
		if !usable(closes[i-1]) || math.IsNaN(closes[i]) || math.IsInf(closes[i], 0) {
			continue
		}
		rets = append(rets, closes[i]/closes[i-1]-1)
	}
	if len(rets) < window {
		return contracts.None()
	}
	rets = rets[len(rets)-window:]

	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))

	ss := 0.0
	for _, r := range rets {
		ss += (r - mean) * (r - mean)
	}
	std := math.Sqrt(ss / float64(len(rets)-1))

	return contracts.Some(std * math.Sqrt(TradingDaysPerYear) * 100)
}

// TrendStrength is R² × 100 of a least-squares line through the trailing
// window closes, in [0, 100]. Short or flat series score 0.
func TrendStrength(closes []float64, window int) float64 {
	if len(closes) < MinTrendObservations || window < 2 {
		return 0
	}
	if len(closes) > window {
		closes = closes[len(closes)-window:]
	}
	for _, c := range closes {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return 0
		}
	}

	n := float64(len(closes))
	var sumX, sumY float64
	for i, c := range closes {
		sumX += float64(i)
		sumY += c
	}
	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy, ssTot float64
	for i, c := range closes {
		dx := float64(i) - meanX
		dy := c - meanY
		sxx += dx * dx
		sxy += dx * dy
		ssTot += dy * dy
	}
	if ssTot == 0 || sxx == 0 {
		return 0
	}

	slope := sxy / sxx
	intercept := meanY - slope*meanX

	ssRes := 0.0
	for i, c := range closes {
		resid := c - (slope*float64(i) + intercept)
		ssRes += resid * resid
	}

	r2 := (1 - ssRes/ssTot) * 100
	return math.Max(0, math.Min(100, r2))
}

func usable(p float64) bool {
	return p != 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}
