package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/pkg/logger"
)

func newRanker(t *testing.T, strategy contracts.Strategy) *Ranker {
	t.Helper()
	r, err := NewRanker(strategy, "NIFTY50", logger.Nop())
	require.NoError(t, err)
	return r
}

func TestWeights_SumToOne(t *testing.T) {
	for _, strategy := range contracts.Strategies {
		w, err := WeightsFor(strategy)
		require.NoError(t, err)
		assert.True(t, w.ValidateWeights(), strategy)
	}

	_, err := WeightsFor("momentum")
	assert.Error(t, err)
}

func TestRanker_PureRSCompositeEqualsPercentile(t *testing.T) {
	records := []contracts.ScreeningRecord{
		record("A", 83.33333, withQuality(99)),
		record("B", 91.7),
		record("C", 100, withQuality(5)),
	}

	ranked := newRanker(t, contracts.StrategyPureRS).Rank(records)

	for _, rec := range ranked {
		assert.Equal(t, rec.RS.Percentile.V, rec.CompositeScore, rec.Symbol)
	}
	assert.Equal(t, []string{"C", "B", "A"}, symbols(ranked))
}

func TestRanker_RSQuality(t *testing.T) {
	ranked := newRanker(t, contracts.StrategyRSQuality).Rank([]contracts.ScreeningRecord{
		record("NOQ", 90),
		record("Q", 80, withQuality(70)),
	})

	require.Len(t, ranked, 2)
	assert.Equal(t, "Q", ranked[0].Symbol)
	assert.InDelta(t, 0.6*80+0.4*70, ranked[0].CompositeScore, 1e-9)
	assert.InDelta(t, 0.6*90, ranked[1].CompositeScore, 1e-9, "missing quality counts as 0")
	assert.Equal(t, 1, ranked[0].Position)
	assert.Equal(t, 2, ranked[1].Position)
}

func TestRanker_RSValueNormalizesOverFilteredSet(t *testing.T) {
	ranked := newRanker(t, contracts.StrategyRSValue).Rank([]contracts.ScreeningRecord{
		record("CHEAP", 80, withPE(s(10)), withQuality(50)),
		record("MID", 80, withPE(s(20)), withQuality(50)),
		record("RICH", 80, withPE(s(30)), withQuality(50)),
		record("NOPE", 80, withQuality(50)),
	})

	bySymbol := make(map[string]float64)
	for _, r := range ranked {
		bySymbol[r.Symbol] = r.CompositeScore
	}
	base := 0.5*80 + 0.2*50
	assert.InDelta(t, base+0.3*100, bySymbol["CHEAP"], 1e-9)
	assert.InDelta(t, base+0.3*50, bySymbol["MID"], 1e-9)
	assert.InDelta(t, base+0.3*0, bySymbol["RICH"], 1e-9)
	assert.InDelta(t, base+0.3*50, bySymbol["NOPE"], 1e-9, "missing P/E gets the midpoint")
	assert.Equal(t, "CHEAP", ranked[0].Symbol)
}

func TestRanker_RSLowVol(t *testing.T) {
	ranked := newRanker(t, contracts.StrategyRSLowVol).Rank([]contracts.ScreeningRecord{
		record("WILD", 90, withVolatility(s(60))),
		record("CALM", 85, withVolatility(s(20))),
	})

	assert.Equal(t, "CALM", ranked[0].Symbol)
	assert.InDelta(t, 0.5*85+0.5*100, ranked[0].CompositeScore, 1e-9)
	assert.InDelta(t, 0.5*90+0.5*0, ranked[1].CompositeScore, 1e-9)
}

func TestRanker_StableTies(t *testing.T) {
	ranked := newRanker(t, contracts.StrategyPureRS).Rank([]contracts.ScreeningRecord{
		record("FIRST", 88), record("SECOND", 88), record("THIRD", 88),
	})
	assert.Equal(t, []string{"FIRST", "SECOND", "THIRD"}, symbols(ranked))
}

func TestRanker_Empty(t *testing.T) {
	assert.Empty(t, newRanker(t, contracts.StrategyRSQuality).Rank(nil))
}

func TestRanker_UsesPrimaryBenchmarkForSignal(t *testing.T) {
	r := newRanker(t, contracts.StrategyPureRS)
	ranked := r.Rank([]contracts.ScreeningRecord{
		record("LAGGARD", 95, withQuality(80), withBenchmark("NIFTY50", s(-3))),
		record("LEADER", 95, withQuality(80), withBenchmark("NIFTY50", s(3))),
		record("OTHER", 95, withQuality(80), withBenchmark("NSE500", s(-3))),
	})

	bySymbol := make(map[string]contracts.Signal)
	for _, rec := range ranked {
		bySymbol[rec.Symbol] = rec.Signal
	}
	assert.Equal(t, contracts.SignalWatch, bySymbol["LAGGARD"])
	assert.Equal(t, contracts.SignalBuy, bySymbol["LEADER"])
	assert.Equal(t, contracts.SignalBuy, bySymbol["OTHER"], "only the primary benchmark can veto")
}

func TestClassifySignal(t *testing.T) {
	none := contracts.None()

	tests := []struct {
		name      string
		rs        contracts.Num
		quality   contracts.Num
		composite float64
		bench     contracts.Num
		want      contracts.Signal
	}{
		{"buy on boundaries", s(85), s(60), 75, s(0.1), contracts.SignalBuy},
		{"negative benchmark falls through to watch", s(85), s(60), 75, s(-0.1), contracts.SignalWatch},
		{"zero benchmark vetoes buy", s(85), s(60), 75, s(0), contracts.SignalWatch},
		{"missing benchmark allows buy", s(85), s(60), 50, none, contracts.SignalBuy},
		{"watch on boundaries", s(70), s(40), 60, none, contracts.SignalWatch},
		{"avoid", s(50), s(20), 40, none, contracts.SignalAvoid},
		{"one buy vote is not enough", s(99), s(10), 74.9, none, contracts.SignalWatch},
		{"missing quality fails its votes", s(84.9), none, 75, none, contracts.SignalWatch},
		{"missing quality and weak rs", s(69.9), none, 60, none, contracts.SignalAvoid},
		{"vetoed buy re-evaluated as watch", s(85), s(10), 75, s(-1), contracts.SignalWatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySignal(tt.rs, tt.quality, tt.composite, tt.bench))
		})
	}
}

func TestInverseMinMax(t *testing.T) {
	assert.Equal(t, []float64{100, 50, 0, 50}, InverseMinMax([]contracts.Num{s(1), s(2), s(3), contracts.None()}))
	assert.Equal(t, []float64{50, 50}, InverseMinMax([]contracts.Num{s(7), s(7)}), "degenerate range")
	assert.Equal(t, []float64{50}, InverseMinMax([]contracts.Num{contracts.None()}))
	assert.Empty(t, InverseMinMax(nil))
}
