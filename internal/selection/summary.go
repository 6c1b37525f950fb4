package selection

import (
	"sort"

	"github.com/wonny/rs-screener/internal/contracts"
)

const (
	highMomentumPercentile = 90.0
	topSectorCount         = 5
)

// Summarize aggregates a ranked table. Averages skip missing values and are
// missing when nothing is defined.
func Summarize(records []contracts.ScreeningRecord) contracts.RunSummary {
	summary := contracts.RunSummary{Total: len(records)}

	var rs, quality, vol mean
	sectors := make(map[string]int)
	for i := range records {
		rec := &records[i]
		switch rec.Signal {
		case contracts.SignalBuy:
			summary.BuyCount++
		case contracts.SignalWatch:
			summary.WatchCount++
		default:
			summary.AvoidCount++
		}

		rs.add(rec.RS.Percentile)
		quality.add(rec.Quality)
		vol.add(rec.Returns.Volatility)
		if atLeast(rec.RS.Percentile, highMomentumPercentile) {
			summary.HighMomentum++
		}
		if rec.Sector != "" {
			sectors[rec.Sector]++
		}
	}

	summary.AvgRSPercentile = rs.value()
	summary.AvgQuality = quality.value()
	summary.AvgVolatility = vol.value()
	summary.TopSectors = topSectors(sectors, topSectorCount)
	return summary
}

func topSectors(counts map[string]int, n int) []contracts.SectorCount {
	out := make([]contracts.SectorCount, 0, len(counts))
	for sector, count := range counts {
		out = append(out, contracts.SectorCount{Sector: sector, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sector < out[j].Sector
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v contracts.Num) {
	if v.Valid {
		m.sum += v.V
		m.n++
	}
}

func (m mean) value() contracts.Num {
	if m.n == 0 {
		return contracts.None()
	}
	return contracts.Some(m.sum / float64(m.n))
}
