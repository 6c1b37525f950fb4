package selection

import "github.com/wonny/rs-screener/internal/contracts"

// Join left-outer-joins the momentum table with quality scores and
// fundamentals. Rows without fundamentals keep a missing quality score.
func Join(signals *contracts.SignalSet) []contracts.ScreeningRecord {
	records := make([]contracts.ScreeningRecord, 0, len(signals.Momentum))
	for _, row := range signals.Momentum {
		rec := contracts.ScreeningRecord{
			Stock:        row.Stock,
			Returns:      row.Returns,
			RS:           row.RS,
			Fundamentals: signals.Fundamentals[row.Stock.Symbol],
			Quality:      contracts.None(),
			Signal:       contracts.SignalAvoid,
		}
		if q, ok := signals.Quality[row.Stock.Symbol]; ok {
			rec.Quality = contracts.Some(q.Score)
			rec.QualityGrade = q.Grade
		}
		records = append(records, rec)
	}
	return records
}
