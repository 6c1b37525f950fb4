package s2_signals

import (
	"math"

	"github.com/wonny/rs-screener/internal/contracts"
)

// tier awards points when a metric clears bound
type tier struct {
	bound  float64
	points float64
}

// Tier tables, best tier first
var (
	roeTiers             = []tier{{20, 15}, {15, 12}, {10, 8}, {5, 4}}
	roaTiers             = []tier{{10, 10}, {7, 7}, {5, 5}, {3, 3}}
	operatingMarginTiers = []tier{{20, 15}, {15, 12}, {10, 8}, {5, 4}}
	debtToEquityTiers    = []tier{{0.3, 20}, {0.5, 15}, {1.0, 10}, {2.0, 5}} // lower is better
	currentRatioTiers    = []tier{{2.0, 10}, {1.5, 7}, {1.0, 5}}
	revenueGrowthTiers   = []tier{{20, 10}, {15, 8}, {10, 6}, {5, 4}}
	earningsGrowthTiers  = []tier{{25, 10}, {20, 8}, {15, 6}, {10, 4}}
)

// Bucket caps
const (
	ProfitabilityCap   = 40.0
	FinancialHealthCap = 30.0
	GrowthCap          = 20.0
	CashGenerationCap  = 10.0
	MaxQualityScore    = 100.0

	// fcfFloor is the most negative free cash flow still worth partial credit
	fcfFloor = -1e9
)

// QualityBreakdown holds the four bucket scores
type QualityBreakdown struct {
	Profitability   float64 `json:"profitability"`
	FinancialHealth float64 `json:"financial_health"`
	Growth          float64 `json:"growth"`
	CashGeneration  float64 `json:"cash_generation"`
}

// Total sums the buckets, capped at 100
func (b QualityBreakdown) Total() float64 {
	return math.Min(MaxQualityScore, b.Profitability+b.FinancialHealth+b.Growth+b.CashGeneration)
}

// QualityScorer turns fundamentals into a 0-100 score.
// Missing metrics contribute zero points.
// ⭐ SSOT: 퀄리티 점수 계산은 여기서만
type QualityScorer struct{}

// NewQualityScorer creates a new quality scorer
func NewQualityScorer() *QualityScorer {
	return &QualityScorer{}
}

// Score returns the total score and its grade
func (s *QualityScorer) Score(f contracts.FundamentalSnapshot) contracts.QualityScore {
	total := s.Breakdown(f).Total()
	return contracts.QualityScore{Score: total, Grade: Grade(total)}
}

// Breakdown returns the per-bucket scores
func (s *QualityScorer) Breakdown(f contracts.FundamentalSnapshot) QualityBreakdown {
	return QualityBreakdown{
		Profitability: math.Min(ProfitabilityCap,
			atLeast(f.ROE, roeTiers)+atLeast(f.ROA, roaTiers)+atLeast(f.OperatingMargin, operatingMarginTiers)),
		FinancialHealth: math.Min(FinancialHealthCap,
			atMost(f.DebtToEquity, debtToEquityTiers)+atLeast(f.CurrentRatio, currentRatioTiers)),
		Growth: math.Min(GrowthCap,
			atLeast(f.RevenueGrowth, revenueGrowthTiers)+atLeast(f.EarningsGrowth, earningsGrowthTiers)),
		CashGeneration: math.Min(CashGenerationCap, cashPoints(f.FreeCashFlow)),
	}
}

// Grade maps a score to its letter grade, lower bounds inclusive
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B+"
	case score >= 60:
		return "B"
	case score >= 50:
		return "C+"
	case score >= 40:
		return "C"
	case score >= 30:
		return "D"
	default:
		return "F"
	}
}

func atLeast(v contracts.Num, tiers []tier) float64 {
	x, ok := v.Get()
	if !ok {
		return 0
	}
	for _, t := range tiers {
		if x >= t.bound {
			return t.points
		}
	}
	return 0
}

func atMost(v contracts.Num, tiers []tier) float64 {
	x, ok := v.Get()
	if !ok {
		return 0
	}
	for _, t := range tiers {
		if x <= t.bound {
			return t.points
		}
	}
	return 0
}

func cashPoints(fcf contracts.Num) float64 {
	x, ok := fcf.Get()
	switch {
	case !ok:
		return 0
	case x > 0:
		return 10
	case x > fcfFloor:
		return 5
	default:
		return 0
	}
}
