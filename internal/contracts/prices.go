package contracts

import "time"

// PricePoint is one daily close
type PricePoint struct {
	Date  time.Time `json:"date" yaml:"date"`
	Close float64   `json:"close" yaml:"close"`
}

// PriceSeries is a daily close series, ascending by date, no duplicate dates
type PriceSeries []PricePoint

// Len returns the number of observations
func (s PriceSeries) Len() int {
	return len(s)
}

// Closes returns the closes in date order
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Close
	}
	return out
}

// Last returns the latest observation
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}
