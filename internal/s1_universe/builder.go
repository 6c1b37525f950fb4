package s1_universe

import (
	"strings"

	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/internal/s0_data"
	"github.com/wonny/rs-screener/pkg/logger"
)

// Exclusion reasons
const (
	ReasonEmptySymbol = "empty symbol"
	ReasonDuplicate   = "duplicate symbol"
	ReasonNoPrices    = "no price history"
)

// Builder constructs the screenable universe from a snapshot
type Builder struct {
	logger *logger.Logger
}

// NewBuilder creates a new Universe Builder
func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{logger: log}
}

// Build keeps every universe row that can carry RS metrics.
// Rows are dropped only for structural reasons; screening criteria such as
// market cap or sector belong to the filter pipeline.
// ⭐ SSOT: S1 → S2 유니버스 생성
func (b *Builder) Build(snap *s0_data.Snapshot) *contracts.Universe {
	rows := snap.Universe()
	universe := &contracts.Universe{
		Date:       snap.AsOf(),
		Stocks:     make([]contracts.Stock, 0, len(rows)),
		Excluded:   make(map[string]string),
		TotalCount: len(rows),
	}

	seen := make(map[string]bool, len(rows))
	for _, stock := range rows {
		stock.Symbol = strings.TrimSpace(stock.Symbol)
		if reason := checkExclusion(snap, stock, seen); reason != "" {
			if stock.Symbol != "" {
				universe.Excluded[stock.Symbol] = reason
			}
			continue
		}
		seen[stock.Symbol] = true
		universe.Stocks = append(universe.Stocks, stock)
	}

	b.logger.WithFields(map[string]interface{}{
		"total":    universe.TotalCount,
		"included": universe.Count(),
		"excluded": len(universe.Excluded),
	}).Info("Universe built")

	return universe
}

// checkExclusion returns the reason a row cannot be screened, or ""
func checkExclusion(snap *s0_data.Snapshot, stock contracts.Stock, seen map[string]bool) string {
	if stock.Symbol == "" {
		return ReasonEmptySymbol
	}
	if seen[stock.Symbol] {
		return ReasonDuplicate
	}
	if series, ok := snap.Series(stock.Symbol); !ok || series.Len() == 0 {
		return ReasonNoPrices
	}
	return ""
}
