package s2_signals

import (
	"math"
	"sort"

	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/internal/s0_data"
)

const (
	// DefaultLookback is the RS return horizon in trading days
	DefaultLookback = 252
	// DefaultMansfieldWindow is the moving-average window of the RS ratio
	DefaultMansfieldWindow = 252
	// noDataPercentile is assigned to everyone when no return is defined
	noDataPercentile = 50.0
)

// RSConfig holds the relative strength parameters
type RSConfig struct {
	Lookback        int
	SkipRecent      int
	MansfieldWindow int
}

// DefaultRSConfig returns the standard RS parameters
func DefaultRSConfig() RSConfig {
	return RSConfig{
		Lookback:        DefaultLookback,
		SkipRecent:      DefaultSkipRecent,
		MansfieldWindow: DefaultMansfieldWindow,
	}
}

// RSEngine computes cross-sectional percentiles, ranks and Mansfield RS
// ⭐ SSOT: 상대강도 계산은 여기서만
type RSEngine struct {
	config RSConfig
}

// NewRSEngine creates a new relative strength engine
func NewRSEngine(config RSConfig) *RSEngine {
	if config.Lookback <= 0 {
		config.Lookback = DefaultLookback
	}
	if config.SkipRecent < 0 {
		config.SkipRecent = DefaultSkipRecent
	}
	if config.MansfieldWindow <= 0 {
		config.MansfieldWindow = DefaultMansfieldWindow
	}
	return &RSEngine{config: config}
}

// LongReturn is the lookback return with the recent month skipped
func (e *RSEngine) LongReturn(series contracts.PriceSeries) contracts.Num {
	return PeriodReturn(series.Closes(), e.config.Lookback, e.config.SkipRecent)
}

// Rank turns the long-horizon returns of the whole universe into
// percentiles and ranks, index-aligned with returns.
//
// The percentile of r is the share of defined returns strictly below r,
// times 100. Missing returns get percentile 0 and the Unranked sentinel.
// When no return is defined at all, everyone gets percentile 50.
// Ranks follow a stable descending sort, so ties keep universe order.
func (e *RSEngine) Rank(returns []contracts.Num) ([]contracts.Num, []int) {
	percentiles := make([]contracts.Num, len(returns))
	ranks := make([]int, len(returns))

	defined := make([]int, 0, len(returns))
	for i, r := range returns {
		ranks[i] = contracts.Unranked
		if r.Valid {
			defined = append(defined, i)
		}
	}

	if len(defined) == 0 {
		for i := range percentiles {
			percentiles[i] = contracts.Some(noDataPercentile)
		}
		return percentiles, ranks
	}

	sorted := make([]float64, len(defined))
	for k, i := range defined {
		sorted[k] = returns[i].V
	}
	sort.Float64s(sorted)

	n := float64(len(sorted))
	for i, r := range returns {
		if !r.Valid {
			percentiles[i] = contracts.Some(0)
			continue
		}
		below := sort.SearchFloat64s(sorted, r.V)
		percentiles[i] = contracts.Some(float64(below) / n * 100)
	}

	sort.SliceStable(defined, func(a, b int) bool {
		return returns[defined[a]].V > returns[defined[b]].V
	})
	for pos, i := range defined {
		ranks[i] = pos + 1
	}

	return percentiles, ranks
}

// Mansfield is ((ratio / MA(ratio)) - 1) × 100 on the latest common date,
// where ratio = stock / benchmark over the common dates and MA is the mean
// of the trailing window ratios. Missing with fewer common dates than the
// window, a zero mean, or a non-finite ratio inside the window.
func (e *RSEngine) Mansfield(stock, benchmark contracts.PriceSeries) contracts.Num {
	window := e.config.MansfieldWindow
	aligned := s0_data.AlignSeries(stock, benchmark)
	if aligned.Len() < window {
		return contracts.None()
	}

	start := aligned.Len() - window
	sum := 0.0
	var latest float64
	for i := start; i < aligned.Len(); i++ {
		ratio := aligned.Left[i] / aligned.Right[i]
		if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
			return contracts.None()
		}
		sum += ratio
		latest = ratio
	}

	ma := sum / float64(window)
	if ma == 0 {
		return contracts.None()
	}
	return contracts.Some((latest/ma - 1) * 100)
}
