package selection

import "github.com/wonny/rs-screener/internal/contracts"

type riskStep struct {
	above  float64
	points int
}

var (
	volatilityRisk   = []riskStep{{40, 40}, {30, 30}, {20, 20}, {15, 10}}
	debtToEquityRisk = []riskStep{{2.0, 30}, {1.5, 20}, {1.0, 10}}
	peRisk           = []riskStep{{50, 30}, {35, 20}, {25, 10}}
)

const maxRiskScore = 100

// RiskScore rates a record 0-100 from volatility, leverage and valuation.
// Missing inputs add nothing.
func RiskScore(rec *contracts.ScreeningRecord) int {
	score := riskPoints(rec.Returns.Volatility, volatilityRisk) +
		riskPoints(rec.Fundamentals.DebtToEquity, debtToEquityRisk) +
		riskPoints(rec.PERatio, peRisk)
	if score > maxRiskScore {
		return maxRiskScore
	}
	return score
}

func riskPoints(n contracts.Num, steps []riskStep) int {
	v, ok := n.Get()
	if !ok {
		return 0
	}
	for _, s := range steps {
		if v > s.above {
			return s.points
		}
	}
	return 0
}
