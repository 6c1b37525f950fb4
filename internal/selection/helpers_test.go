package selection

import "github.com/wonny/rs-screener/internal/contracts"

var s = contracts.Some

// record builds a ScreeningRecord with the fields filters and ranking read
func record(symbol string, rs float64, opts ...func(*contracts.ScreeningRecord)) contracts.ScreeningRecord {
	rec := contracts.ScreeningRecord{
		Stock: contracts.Stock{
			Symbol:       symbol,
			Sector:       "Energy",
			MarketCap:    10000,
			CurrentPrice: s(100),
		},
		RS:      contracts.RSMetrics{Percentile: s(rs), Rank: 1},
		Quality: contracts.None(),
	}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

func withQuality(q float64) func(*contracts.ScreeningRecord) {
	return func(r *contracts.ScreeningRecord) { r.Quality = s(q) }
}

func withSector(sector string) func(*contracts.ScreeningRecord) {
	return func(r *contracts.ScreeningRecord) { r.Sector = sector }
}

func withMarketCap(mc float64) func(*contracts.ScreeningRecord) {
	return func(r *contracts.ScreeningRecord) { r.MarketCap = mc }
}

func withPE(pe contracts.Num) func(*contracts.ScreeningRecord) {
	return func(r *contracts.ScreeningRecord) { r.PERatio = pe }
}

func withVolatility(v contracts.Num) func(*contracts.ScreeningRecord) {
	return func(r *contracts.ScreeningRecord) { r.Returns.Volatility = v }
}

func withFundamentals(f contracts.FundamentalSnapshot) func(*contracts.ScreeningRecord) {
	return func(r *contracts.ScreeningRecord) { r.Fundamentals = f }
}

func withoutPrice() func(*contracts.ScreeningRecord) {
	return func(r *contracts.ScreeningRecord) { r.CurrentPrice = contracts.None() }
}

func withBenchmark(key string, v contracts.Num) func(*contracts.ScreeningRecord) {
	return func(r *contracts.ScreeningRecord) {
		r.RS.VsBenchmark = map[string]contracts.Num{key: v}
	}
}

func symbols(records []contracts.ScreeningRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Symbol
	}
	return out
}
