package selection

import (
	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/pkg/logger"
)

// Filter names, in pipeline order
const (
	FilterRSThreshold  = "rs_threshold"
	FilterQuality      = "quality"
	FilterMarketCap    = "market_cap"
	FilterSector       = "sector"
	FilterCompleteness = "completeness"
)

// Screener implements S3: the filter pipeline
// ⭐ SSOT: S3 스크리닝 로직은 여기서만
type Screener struct {
	config ScreenerConfig
	logger *logger.Logger
}

// ScreenerConfig defines the filter thresholds
type ScreenerConfig struct {
	Strategy           contracts.Strategy
	RSThreshold        float64  // rs percentile 최소값 (예: 80)
	MinROE             float64  // ROE 최소값 (%)
	MaxDebtToEquity    float64  // 부채비율 최대값 (배)
	MinOperatingMargin float64  // 영업이익률 최소값 (%)
	MinMarketCap       float64  // 시가총액 최소값
	ExcludedSectors    []string // 제외 섹터 (정확히 일치)
}

// Filter is one named predicate of the pipeline
type Filter struct {
	Name string
	Keep func(rec *contracts.ScreeningRecord) bool
}

// NewScreener creates a new screener
func NewScreener(config ScreenerConfig, logger *logger.Logger) *Screener {
	return &Screener{
		config: config,
		logger: logger,
	}
}

// Filters returns the active predicates in pipeline order. Every predicate
// reads only its own row, so any application order keeps the same rows.
func (s *Screener) Filters() []Filter {
	filters := []Filter{{Name: FilterRSThreshold, Keep: s.passRSThreshold}}
	if s.config.Strategy.RequiresQualityFilter() {
		filters = append(filters, Filter{Name: FilterQuality, Keep: s.passQuality})
	}
	filters = append(filters,
		Filter{Name: FilterMarketCap, Keep: s.passMarketCap},
		Filter{Name: FilterSector, Keep: s.sectorFilter()},
		Filter{Name: FilterCompleteness, Keep: passCompleteness},
	)
	return filters
}

// Screen applies the pipeline and reports each filter's removals
func (s *Screener) Screen(records []contracts.ScreeningRecord) ([]contracts.ScreeningRecord, []contracts.FilterCount) {
	passed, counts := ApplyFilters(records, s.Filters())

	fields := map[string]interface{}{
		"input":  len(records),
		"passed": len(passed),
	}
	for _, c := range counts {
		fields["removed_"+c.Filter] = c.Removed
	}
	s.logger.WithFields(fields).Info("Screening completed")

	return passed, counts
}

// ApplyFilters runs filters in the given order without touching the input
func ApplyFilters(records []contracts.ScreeningRecord, filters []Filter) ([]contracts.ScreeningRecord, []contracts.FilterCount) {
	current := append([]contracts.ScreeningRecord(nil), records...)
	counts := make([]contracts.FilterCount, 0, len(filters))

	for _, f := range filters {
		kept := current[:0:0]
		for i := range current {
			if f.Keep(&current[i]) {
				kept = append(kept, current[i])
			}
		}
		counts = append(counts, contracts.FilterCount{Filter: f.Name, Removed: len(current) - len(kept)})
		current = kept
	}

	return current, counts
}

func (s *Screener) passRSThreshold(rec *contracts.ScreeningRecord) bool {
	p, ok := rec.RS.Percentile.Get()
	return ok && p >= s.config.RSThreshold
}

// passQuality lets missing fundamentals through
func (s *Screener) passQuality(rec *contracts.ScreeningRecord) bool {
	f := rec.Fundamentals
	if v, ok := f.ROE.Get(); ok && v < s.config.MinROE {
		return false
	}
	if v, ok := f.DebtToEquity.Get(); ok && v > s.config.MaxDebtToEquity {
		return false
	}
	if v, ok := f.OperatingMargin.Get(); ok && v < s.config.MinOperatingMargin {
		return false
	}
	return true
}

func (s *Screener) passMarketCap(rec *contracts.ScreeningRecord) bool {
	return rec.MarketCap >= s.config.MinMarketCap
}

func (s *Screener) sectorFilter() func(*contracts.ScreeningRecord) bool {
	excluded := make(map[string]bool, len(s.config.ExcludedSectors))
	for _, sector := range s.config.ExcludedSectors {
		excluded[sector] = true
	}
	return func(rec *contracts.ScreeningRecord) bool {
		return !excluded[rec.Sector]
	}
}

func passCompleteness(rec *contracts.ScreeningRecord) bool {
	return rec.CurrentPrice.Valid && rec.RS.Percentile.Valid
}
