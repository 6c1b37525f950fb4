package contracts

import "time"

// Stock is one row of the screening universe
type Stock struct {
	Symbol       string  `json:"symbol" yaml:"symbol"`
	CompanyName  string  `json:"company_name" yaml:"company_name"`
	Sector       string  `json:"sector" yaml:"sector"`
	MarketCap    float64 `json:"market_cap" yaml:"market_cap"` // crore
	CurrentPrice Num     `json:"current_price" yaml:"current_price"`
	PERatio      Num     `json:"pe_ratio" yaml:"pe_ratio"`
}

// Universe represents the screenable stocks passed from S1 to S2
// ⭐ SSOT: S1 → S2 스크리닝 대상 종목 전달
type Universe struct {
	Date       time.Time         `json:"date"`
	Stocks     []Stock           `json:"stocks"`
	Excluded   map[string]string `json:"excluded"` // symbol: reason
	TotalCount int               `json:"total_count"`
}

// Count returns the number of screenable stocks
func (u *Universe) Count() int {
	return len(u.Stocks)
}

// Symbols returns the symbols in universe order
func (u *Universe) Symbols() []string {
	out := make([]string, len(u.Stocks))
	for i, s := range u.Stocks {
		out[i] = s.Symbol
	}
	return out
}

// IsExcluded checks if a symbol was dropped and why
func (u *Universe) IsExcluded(symbol string) (bool, string) {
	reason, exists := u.Excluded[symbol]
	return exists, reason
}
