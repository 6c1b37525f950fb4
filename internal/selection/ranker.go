package selection

import (
	"fmt"
	"sort"

	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/pkg/logger"
)

// WeightConfig defines the composite weights of one strategy
type WeightConfig struct {
	RS      float64 // rs percentile
	Quality float64 // quality score (missing = 0)
	Value   float64 // inverse P/E, min-max over the filtered set
	LowVol  float64 // inverse volatility, min-max over the filtered set
}

// ValidateWeights checks if weights sum to 1.0
func (w WeightConfig) ValidateWeights() bool {
	sum := w.RS + w.Quality + w.Value + w.LowVol
	return sum >= 0.99 && sum <= 1.01
}

// strategyWeights holds the fixed weight set of every strategy
var strategyWeights = map[contracts.Strategy]WeightConfig{
	contracts.StrategyRSQuality: {RS: 0.60, Quality: 0.40},
	contracts.StrategyRSValue:   {RS: 0.50, Value: 0.30, Quality: 0.20},
	contracts.StrategyRSLowVol:  {RS: 0.50, LowVol: 0.50},
	contracts.StrategyPureRS:    {RS: 1.00},
}

// WeightsFor returns the weight set of a strategy
func WeightsFor(strategy contracts.Strategy) (WeightConfig, error) {
	w, ok := strategyWeights[strategy]
	if !ok {
		return WeightConfig{}, fmt.Errorf("unknown strategy %q", strategy)
	}
	return w, nil
}

// Signal thresholds
const (
	buyRS        = 85.0
	buyQuality   = 60.0
	buyComposite = 75.0

	watchRS        = 70.0
	watchQuality   = 40.0
	watchComposite = 60.0

	// normalizedDefault fills missing or degenerate normalized factors
	normalizedDefault = 50.0
)

// Ranker implements S4: composite score, signal and ordering
// ⭐ SSOT: S4 랭킹 로직은 여기서만
type Ranker struct {
	strategy         contracts.Strategy
	weights          WeightConfig
	primaryBenchmark string
	logger           *logger.Logger
}

// NewRanker creates a new ranker for a strategy. primaryBenchmark keys the
// RS value that can veto a BUY.
func NewRanker(strategy contracts.Strategy, primaryBenchmark string, logger *logger.Logger) (*Ranker, error) {
	weights, err := WeightsFor(strategy)
	if err != nil {
		return nil, err
	}
	return &Ranker{
		strategy:         strategy,
		weights:          weights,
		primaryBenchmark: primaryBenchmark,
		logger:           logger,
	}, nil
}

// Rank scores the filtered records and returns them sorted by composite
// score, highest first. Equal scores keep their input order.
func (r *Ranker) Rank(records []contracts.ScreeningRecord) []contracts.ScreeningRecord {
	ranked := append([]contracts.ScreeningRecord(nil), records...)
	if len(ranked) == 0 {
		r.logger.WithField("strategy", string(r.strategy)).Info("Ranking skipped: no matches")
		return ranked
	}

	var value, lowVol []float64
	if r.weights.Value != 0 {
		pe := make([]contracts.Num, len(ranked))
		for i := range ranked {
			pe[i] = ranked[i].PERatio
		}
		value = InverseMinMax(pe)
	}
	if r.weights.LowVol != 0 {
		vol := make([]contracts.Num, len(ranked))
		for i := range ranked {
			vol[i] = ranked[i].Returns.Volatility
		}
		lowVol = InverseMinMax(vol)
	}

	for i := range ranked {
		rec := &ranked[i]
		rec.CompositeScore = r.composite(rec, value, lowVol, i)
		rec.Signal = ClassifySignal(rec.RS.Percentile, rec.Quality, rec.CompositeScore, rec.RS.Vs(r.primaryBenchmark))
		rec.RiskScore = RiskScore(rec)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})
	for i := range ranked {
		ranked[i].Position = i + 1
	}

	r.logger.WithFields(map[string]interface{}{
		"strategy":      string(r.strategy),
		"total_stocks":  len(ranked),
		"top_symbol":    ranked[0].Symbol,
		"top_composite": ranked[0].CompositeScore,
	}).Info("Ranking completed")

	return ranked
}

func (r *Ranker) composite(rec *contracts.ScreeningRecord, value, lowVol []float64, i int) float64 {
	rs := rec.RS.Percentile.Or(0)
	if r.strategy == contracts.StrategyPureRS {
		return rs
	}

	score := r.weights.RS*rs + r.weights.Quality*rec.Quality.Or(0)
	if value != nil {
		score += r.weights.Value * value[i]
	}
	if lowVol != nil {
		score += r.weights.LowVol * lowVol[i]
	}
	return score
}

// ClassifySignal applies the two-tier majority vote. A present primary
// benchmark RS at or below zero vetoes BUY; the row then gets the WATCH test.
// Missing inputs fail their conditions.
func ClassifySignal(rsPercentile, quality contracts.Num, composite float64, benchmarkRS contracts.Num) contracts.Signal {
	buyVotes := votes(
		atLeast(rsPercentile, buyRS),
		atLeast(quality, buyQuality),
		composite >= buyComposite,
	)
	if buyVotes >= 2 && (!benchmarkRS.Valid || benchmarkRS.V > 0) {
		return contracts.SignalBuy
	}

	watchVotes := votes(
		atLeast(rsPercentile, watchRS),
		atLeast(quality, watchQuality),
		composite >= watchComposite,
	)
	if watchVotes >= 2 {
		return contracts.SignalWatch
	}
	return contracts.SignalAvoid
}

// InverseMinMax maps values to 100 - (v - min) / (max - min) × 100, so the
// lowest value scores 100. Missing values, and every value when max == min
// or nothing is defined, get 50.
func InverseMinMax(values []contracts.Num) []float64 {
	out := make([]float64, len(values))

	lo, hi, seen := 0.0, 0.0, false
	for _, v := range values {
		if !v.Valid {
			continue
		}
		if !seen || v.V < lo {
			lo = v.V
		}
		if !seen || v.V > hi {
			hi = v.V
		}
		seen = true
	}

	for i, v := range values {
		if !v.Valid || !seen || hi == lo {
			out[i] = normalizedDefault
			continue
		}
		out[i] = 100 - (v.V-lo)/(hi-lo)*100
	}
	return out
}

func atLeast(n contracts.Num, threshold float64) bool {
	v, ok := n.Get()
	return ok && v >= threshold
}

func votes(conds ...bool) int {
	n := 0
	for _, c := range conds {
		if c {
			n++
		}
	}
	return n
}
