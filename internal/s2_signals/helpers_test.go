package s2_signals

import (
	"time"

	"github.com/wonny/rs-screener/internal/contracts"
)

var baseDate = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

// makeSeries builds a daily series starting at baseDate+offset
func makeSeries(offset int, closes []float64) contracts.PriceSeries {
	out := make(contracts.PriceSeries, len(closes))
	for i, c := range closes {
		out[i] = contracts.PricePoint{Date: baseDate.AddDate(0, 0, offset+i), Close: c}
	}
	return out
}

// linear returns n closes start, start+step, ...
func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// geometric returns n closes growing by rate per step
func geometric(n int, start, rate float64) []float64 {
	out := make([]float64, n)
	v := start
	for i := range out {
		out[i] = v
		v *= 1 + rate
	}
	return out
}
