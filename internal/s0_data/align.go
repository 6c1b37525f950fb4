package s0_data

import (
	"time"

	"github.com/wonny/rs-screener/internal/contracts"
)

// Aligned holds two series restricted to their common dates
type Aligned struct {
	Dates []time.Time
	Left  []float64
	Right []float64
}

// Len returns the number of common dates
func (a Aligned) Len() int {
	return len(a.Dates)
}

// AlignSeries intersects the date sets of two normalized series.
// Both inputs must be sorted ascending (Snapshot guarantees it).
func AlignSeries(left, right contracts.PriceSeries) Aligned {
	out := Aligned{}
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		switch {
		case sameDay(left[i].Date, right[j].Date):
			out.Dates = append(out.Dates, left[i].Date)
			out.Left = append(out.Left, left[i].Close)
			out.Right = append(out.Right, right[j].Close)
			i++
			j++
		case left[i].Date.Before(right[j].Date):
			i++
		default:
			j++
		}
	}
	return out
}
