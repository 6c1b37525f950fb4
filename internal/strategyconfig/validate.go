package strategyconfig

import (
	"fmt"

	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/internal/selection"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Strategy ===
	strategy, err := contracts.ParseStrategy(string(cfg.Strategy))
	if err != nil {
		return ValidationError{"strategy", err.Error()}
	}
	weights, err := selection.WeightsFor(strategy)
	if err != nil {
		return ValidationError{"strategy", err.Error()}
	}
	if !weights.ValidateWeights() {
		return ValidationError{"strategy", "composite weights must sum to 1"}
	}

	// === RelativeStrength ===
	rs := cfg.RelativeStrength
	if rs.LookbackDays <= 0 {
		return ValidationError{"relative_strength.lookback_days", "must be > 0"}
	}
	if rs.SkipRecentDays < 0 {
		return ValidationError{"relative_strength.skip_recent_days", "must be >= 0"}
	}
	if rs.SkipRecentDays >= rs.LookbackDays {
		return ValidationError{"relative_strength.skip_recent_days", "must be < lookback_days"}
	}
	if rs.Threshold < 0 || rs.Threshold > 100 {
		return ValidationError{"relative_strength.threshold", "must be in range [0, 100]"}
	}
	if rs.MansfieldWindow <= 0 {
		return ValidationError{"relative_strength.mansfield_window", "must be > 0"}
	}
	if rs.ComparePrimary && rs.Benchmarks.Primary == "" {
		return ValidationError{"relative_strength.benchmarks.primary", "required when compare_primary is set"}
	}
	if rs.CompareBroad && rs.Benchmarks.Broad == "" {
		return ValidationError{"relative_strength.benchmarks.broad", "required when compare_broad is set"}
	}

	// === Returns ===
	if cfg.Returns.VolatilityWindow < 2 {
		return ValidationError{"returns.volatility_window", "must be >= 2"}
	}
	if cfg.Returns.TrendWindow < 2 {
		return ValidationError{"returns.trend_window", "must be >= 2"}
	}

	// === QualityFilter ===
	if cfg.QualityFilter.MaxDebtEquity < 0 {
		return ValidationError{"quality_filter.max_debt_equity", "must be >= 0"}
	}

	// === Universe ===
	if cfg.Universe.MinMarketCap < 0 {
		return ValidationError{"universe.min_market_cap", "must be >= 0"}
	}
	seen := make(map[string]bool, len(cfg.Universe.ExcludeSectors))
	for i, sector := range cfg.Universe.ExcludeSectors {
		if sector == "" {
			return ValidationError{fmt.Sprintf("universe.exclude_sectors[%d]", i), "must not be empty"}
		}
		if seen[sector] {
			return ValidationError{fmt.Sprintf("universe.exclude_sectors[%d]", i), fmt.Sprintf("duplicate sector %q", sector)}
		}
		seen[sector] = true
	}

	// === Output ===
	if cfg.Output.MaxResults < 0 {
		return ValidationError{"output.max_results", "must be >= 0"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning
	rs := cfg.RelativeStrength

	if !isStandardHorizon(rs.LookbackDays) {
		warnings = append(warnings, Warning{
			Code:    "NONSTANDARD_LOOKBACK",
			Message: fmt.Sprintf("lookback_days=%d is not one of 21/63/126/252", rs.LookbackDays),
		})
	}

	// 임계값이 낮으면 RS 필터가 사실상 무의미
	if rs.Threshold < 50 {
		warnings = append(warnings, Warning{
			Code:    "LOW_RS_THRESHOLD",
			Message: "RS threshold < 50: filter admits below-median stocks",
		})
	}

	if rs.MansfieldWindow > rs.LookbackDays+rs.SkipRecentDays {
		warnings = append(warnings, Warning{
			Code:    "LONG_MANSFIELD_WINDOW",
			Message: "mansfield_window exceeds the RS lookback: more symbols lose benchmark RS",
		})
	}

	if !cfg.Strategy.RequiresQualityFilter() && cfg.QualityFilter != Default().QualityFilter {
		warnings = append(warnings, Warning{
			Code:    "UNUSED_QUALITY_FILTER",
			Message: fmt.Sprintf("quality_filter is ignored by strategy %s", cfg.Strategy),
		})
	}

	if cfg.Output.MaxResults == 0 {
		warnings = append(warnings, Warning{
			Code:    "UNBOUNDED_OUTPUT",
			Message: "max_results=0: the ranked table is not truncated",
		})
	}

	return warnings
}

// === Helper Functions ===

func isStandardHorizon(days int) bool {
	for _, h := range contracts.Horizons {
		if int(h) == days {
			return true
		}
	}
	return false
}
