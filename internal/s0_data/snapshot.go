package s0_data

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wonny/rs-screener/internal/contracts"
)

var (
	// ErrEmptyUniverse is returned when a snapshot carries no stocks
	ErrEmptyUniverse = errors.New("snapshot universe is empty")
	// ErrNoAsOfDate is returned when neither an as-of date nor any price is given
	ErrNoAsOfDate = errors.New("snapshot has no as-of date")
)

// SnapshotInput is the raw material of a Snapshot
type SnapshotInput struct {
	AsOf         time.Time
	Universe     []contracts.Stock
	Prices       map[string]contracts.PriceSeries         // symbol → closes
	Benchmarks   map[string]contracts.PriceSeries         // benchmark name → closes
	Sectors      map[string]contracts.PriceSeries         // sector name → sector index closes
	Fundamentals map[string]contracts.FundamentalSnapshot // symbol → fundamentals
}

// Snapshot is the immutable market data one run screens.
// Every series is sorted ascending with one close per date. Accessors hand
// out the stored slices; callers must not modify them.
// ⭐ SSOT: 가격 시계열 저장소 (실행 중 불변)
type Snapshot struct {
	asOf         time.Time
	universe     []contracts.Stock
	prices       map[string]contracts.PriceSeries
	benchmarks   map[string]contracts.PriceSeries
	sectors      map[string]contracts.PriceSeries // key: upper-cased sector
	fundamentals map[string]contracts.FundamentalSnapshot
	anomalies    map[string]string
}

// NewSnapshot copies and normalizes in into an immutable Snapshot
func NewSnapshot(in SnapshotInput) (*Snapshot, error) {
	if len(in.Universe) == 0 {
		return nil, ErrEmptyUniverse
	}

	s := &Snapshot{
		asOf:         in.AsOf,
		universe:     append([]contracts.Stock(nil), in.Universe...),
		prices:       make(map[string]contracts.PriceSeries, len(in.Prices)),
		benchmarks:   make(map[string]contracts.PriceSeries, len(in.Benchmarks)),
		sectors:      make(map[string]contracts.PriceSeries, len(in.Sectors)),
		fundamentals: make(map[string]contracts.FundamentalSnapshot, len(in.Fundamentals)),
		anomalies:    make(map[string]string),
	}

	for symbol, series := range in.Prices {
		norm, dupes := NormalizeSeries(series)
		if dupes > 0 {
			s.anomalies[symbol] = fmt.Sprintf("%d duplicate dates collapsed", dupes)
		}
		if len(norm) > 0 {
			s.prices[symbol] = norm
		}
	}
	for name, series := range in.Benchmarks {
		norm, _ := NormalizeSeries(series)
		s.benchmarks[name] = norm
	}
	for sector, series := range in.Sectors {
		norm, _ := NormalizeSeries(series)
		s.sectors[sectorKey(sector)] = norm
	}
	for symbol, f := range in.Fundamentals {
		s.fundamentals[symbol] = f
	}

	if s.asOf.IsZero() {
		s.asOf = s.latestDate()
	}
	if s.asOf.IsZero() {
		return nil, ErrNoAsOfDate
	}

	return s, nil
}

// NormalizeSeries returns a date-sorted copy of series with one close per
// calendar date (the last one supplied wins) and the number of dropped rows.
func NormalizeSeries(series contracts.PriceSeries) (contracts.PriceSeries, int) {
	out := append(contracts.PriceSeries(nil), series...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	dupes := 0
	n := 0
	for i := range out {
		if n > 0 && sameDay(out[n-1].Date, out[i].Date) {
			out[n-1] = out[i]
			dupes++
			continue
		}
		out[n] = out[i]
		n++
	}
	return out[:n], dupes
}

// AsOf returns the snapshot date
func (s *Snapshot) AsOf() time.Time {
	return s.asOf
}

// Universe returns the universe rows in supplied order
func (s *Snapshot) Universe() []contracts.Stock {
	return append([]contracts.Stock(nil), s.universe...)
}

// Series returns the price series of a symbol
func (s *Snapshot) Series(symbol string) (contracts.PriceSeries, bool) {
	series, ok := s.prices[symbol]
	return series, ok
}

// Benchmark returns a benchmark series by name
func (s *Snapshot) Benchmark(name string) (contracts.PriceSeries, bool) {
	series, ok := s.benchmarks[name]
	return series, ok && len(series) > 0
}

// SectorIndex returns the sector index series, matched case-insensitively
func (s *Snapshot) SectorIndex(sector string) (contracts.PriceSeries, bool) {
	if sector == "" {
		return nil, false
	}
	series, ok := s.sectors[sectorKey(sector)]
	return series, ok && len(series) > 0
}

// Fundamentals returns the fundamentals of a symbol
func (s *Snapshot) Fundamentals(symbol string) (contracts.FundamentalSnapshot, bool) {
	f, ok := s.fundamentals[symbol]
	return f, ok
}

// FundamentalsMap returns a copy of all fundamentals
func (s *Snapshot) FundamentalsMap() map[string]contracts.FundamentalSnapshot {
	out := make(map[string]contracts.FundamentalSnapshot, len(s.fundamentals))
	for k, v := range s.fundamentals {
		out[k] = v
	}
	return out
}

// BenchmarkNames returns the benchmark names in sorted order
func (s *Snapshot) BenchmarkNames() []string {
	names := make([]string, 0, len(s.benchmarks))
	for name := range s.benchmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Anomalies lists per-symbol data problems found while normalizing
func (s *Snapshot) Anomalies() map[string]string {
	out := make(map[string]string, len(s.anomalies))
	for k, v := range s.anomalies {
		out[k] = v
	}
	return out
}

func (s *Snapshot) latestDate() time.Time {
	var latest time.Time
	for _, series := range s.prices {
		if last, ok := series.Last(); ok && last.Date.After(latest) {
			latest = last.Date
		}
	}
	return latest
}

func sectorKey(sector string) string {
	return strings.ToUpper(strings.TrimSpace(sector))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
