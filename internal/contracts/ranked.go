package contracts

import (
	"fmt"
	"strings"
	"time"
)

// Signal is the final trade classification
type Signal string

const (
	SignalBuy   Signal = "BUY"
	SignalWatch Signal = "WATCH"
	SignalAvoid Signal = "AVOID"
)

// Strategy selects the composite score formula
type Strategy string

const (
	StrategyRSQuality Strategy = "rs_quality"
	StrategyRSValue   Strategy = "rs_value"
	StrategyRSLowVol  Strategy = "rs_low_vol"
	StrategyPureRS    Strategy = "pure_rs"
)

// Strategies lists every supported strategy
var Strategies = []Strategy{StrategyRSQuality, StrategyRSValue, StrategyRSLowVol, StrategyPureRS}

// ParseStrategy accepts the canonical ids and their display names
func ParseStrategy(s string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" + ", "_", "+", "_", " ", "_", "-", "_").Replace(key)
	switch key {
	case "rs_quality":
		return StrategyRSQuality, nil
	case "rs_value":
		return StrategyRSValue, nil
	case "rs_low_vol", "rs_low_volatility", "rs_lowvol":
		return StrategyRSLowVol, nil
	case "pure_rs":
		return StrategyPureRS, nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// RequiresQualityFilter reports whether the fundamental filter applies
func (s Strategy) RequiresQualityFilter() bool {
	return s == StrategyRSQuality || s == StrategyPureRS
}

// DisplayName returns the human label
func (s Strategy) DisplayName() string {
	switch s {
	case StrategyRSQuality:
		return "RS + Quality"
	case StrategyRSValue:
		return "RS + Value"
	case StrategyRSLowVol:
		return "RS + Low Volatility"
	case StrategyPureRS:
		return "Pure RS"
	}
	return string(s)
}

// ScreeningRecord is one row of the final screening table
// ⭐ SSOT: S3/S4 → 출력 결과 구조
type ScreeningRecord struct {
	Stock
	Returns      ReturnMetrics       `json:"returns"`
	RS           RSMetrics           `json:"rs"`
	Fundamentals FundamentalSnapshot `json:"fundamentals"`
	Quality      Num                 `json:"quality_score"` // missing when no fundamentals
	QualityGrade string              `json:"quality_grade,omitempty"`

	CompositeScore float64 `json:"composite_score"`
	Signal         Signal  `json:"signal"`
	RiskScore      int     `json:"risk_score"`
	Position       int     `json:"position"` // 1-based position in the ranked table
}

// FilterCount records how many rows one filter removed
type FilterCount struct {
	Filter  string `json:"filter"`
	Removed int    `json:"removed"`
}

// SectorCount is a sector with its number of records
type SectorCount struct {
	Sector string `json:"sector"`
	Count  int    `json:"count"`
}

// RunSummary aggregates a ranked table
type RunSummary struct {
	Total           int           `json:"total"`
	BuyCount        int           `json:"buy_count"`
	WatchCount      int           `json:"watch_count"`
	AvoidCount      int           `json:"avoid_count"`
	AvgRSPercentile Num           `json:"avg_rs_percentile"`
	AvgQuality      Num           `json:"avg_quality"`
	AvgVolatility   Num           `json:"avg_volatility"`
	HighMomentum    int           `json:"high_momentum_count"` // rs percentile >= 90
	TopSectors      []SectorCount `json:"top_sectors"`
}

// ScreeningRun is a persisted screening result
type ScreeningRun struct {
	ID           int64             `json:"id"`
	RunDate      time.Time         `json:"run_date"`
	Strategy     Strategy          `json:"strategy"`
	ConfigHash   string            `json:"config_hash"`
	UniverseSize int               `json:"universe_size"`
	Matched      int               `json:"matched"`
	Filters      []FilterCount     `json:"filters"`
	Summary      RunSummary        `json:"summary"`
	Records      []ScreeningRecord `json:"records"`
	CreatedAt    time.Time         `json:"created_at"`
}
