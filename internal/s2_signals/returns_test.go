package s2_signals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodReturn(t *testing.T) {
	closes := linear(30, 1, 1) // 1..30

	tests := []struct {
		name    string
		closes  []float64
		horizon int
		skip    int
		want    float64
		valid   bool
	}{
		{"no skip", closes, 21, 0, (30.0/9.0 - 1) * 100, true},
		{"with skip", closes, 10, 5, (25.0/15.0 - 1) * 100, true},
		{"exactly enough history", closes, 29, 0, (30.0/1.0 - 1) * 100, true},
		{"one short", closes, 30, 0, 0, false},
		{"skip consumes history", closes, 21, 9, 0, false},
		{"zero start price", []float64{0, 5, 10}, 2, 0, 0, false},
		{"zero end price", []float64{5, 5, 0}, 2, 0, 0, false},
		{"nan price", []float64{math.NaN(), 5, 10}, 2, 0, 0, false},
		{"empty", nil, 21, 0, 0, false},
		{"non-positive horizon", closes, 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeriodReturn(tt.closes, tt.horizon, tt.skip)
			require.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.InDelta(t, tt.want, got.V, 1e-9)
			}
		})
	}
}

func TestVolatility(t *testing.T) {
	// daily returns +10%, -10%: sample stdev = sqrt(0.02)
	got := Volatility([]float64{100, 110, 99}, 2)
	require.True(t, got.Valid)
	assert.InDelta(t, math.Sqrt(0.02)*math.Sqrt(252)*100, got.V, 1e-9)

	// trailing window only
	got = Volatility([]float64{1, 50, 100, 110, 99}, 2)
	require.True(t, got.Valid)
	assert.InDelta(t, math.Sqrt(0.02)*math.Sqrt(252)*100, got.V, 1e-9)

	// constant growth has no dispersion
	got = Volatility(geometric(80, 100, 0.01), 60)
	require.True(t, got.Valid)
	assert.InDelta(t, 0, got.V, 1e-9)

	assert.False(t, Volatility(linear(60, 100, 1), 60).Valid, "60 closes give only 59 returns")
	assert.True(t, Volatility(linear(61, 100, 1), 60).Valid)
	assert.False(t, Volatility(linear(10, 100, 1), 1).Valid)
}

func TestTrendStrength(t *testing.T) {
	assert.InDelta(t, 100, TrendStrength(linear(150, 10, 0.5), 126), 1e-6, "perfect line")
	assert.Equal(t, 0.0, TrendStrength(linear(100, 10, 0), 126), "flat series")
	assert.Equal(t, 0.0, TrendStrength(linear(MinTrendObservations-1, 10, 1), 126), "too short")
	assert.InDelta(t, 100, TrendStrength(linear(MinTrendObservations, 10, 1), 126), 1e-6)

	// zig-zag around a flat mean has a weak fit
	zig := make([]float64, 126)
	for i := range zig {
		zig[i] = 100 + float64(i%2)*10
	}
	got := TrendStrength(zig, 126)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.Less(t, got, 5.0)

	// only the trailing window counts: a crash then a clean line
	closes := append(linear(200, 500, -2), linear(126, 100, 1)...)
	assert.InDelta(t, 100, TrendStrength(closes, 126), 1e-6)
}

func TestReturnEngine_Metrics(t *testing.T) {
	engine := NewReturnEngine(DefaultReturnConfig())
	series := makeSeries(0, geometric(300, 100, 0.001))

	m := engine.Metrics(series)
	assert.True(t, m.Return1M.Valid)
	assert.True(t, m.Return12M.Valid)
	assert.InDelta(t, (math.Pow(1.001, 252)-1)*100, m.Return12M.V, 1e-6)
	assert.True(t, m.Volatility.Valid)
	assert.Greater(t, m.TrendStrength, 95.0)

	short := engine.Metrics(makeSeries(0, linear(40, 100, 1)))
	assert.True(t, short.Return1M.Valid)
	assert.False(t, short.Return3M.Valid)
	assert.False(t, short.Return12M.Valid)
	assert.False(t, short.Volatility.Valid)
	assert.Equal(t, 0.0, short.TrendStrength)
}
