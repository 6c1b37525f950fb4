package s0_data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/rs-screener/internal/contracts"
)

// SnapshotRepository reads screening inputs from PostgreSQL
// ⭐ SSOT: 스냅샷 원천 데이터 조회는 여기서만
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// LoadUniverse returns the active stocks with their latest valuation fields
func (r *SnapshotRepository) LoadUniverse(ctx context.Context) ([]contracts.Stock, error) {
	query := `
		SELECT symbol, company_name, COALESCE(sector, ''), COALESCE(market_cap, 0),
		       current_price, pe_ratio
		FROM data.stocks
		WHERE status = 'active'
		ORDER BY symbol
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query universe: %w", err)
	}
	defer rows.Close()

	var stocks []contracts.Stock
	for rows.Next() {
		var (
			s         contracts.Stock
			price, pe *float64
		)
		if err := rows.Scan(&s.Symbol, &s.CompanyName, &s.Sector, &s.MarketCap, &price, &pe); err != nil {
			return nil, fmt.Errorf("scan universe: %w", err)
		}
		s.CurrentPrice = contracts.FromPtr(price)
		s.PERatio = contracts.FromPtr(pe)
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

// LoadPrices returns daily closes for symbols within [from, to]
func (r *SnapshotRepository) LoadPrices(ctx context.Context, symbols []string, from, to time.Time) (map[string]contracts.PriceSeries, error) {
	query := `
		SELECT symbol, trade_date, close_price
		FROM data.daily_prices
		WHERE symbol = ANY($1) AND trade_date BETWEEN $2 AND $3
		ORDER BY symbol, trade_date
	`

	rows, err := r.pool.Query(ctx, query, symbols, from, to)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	return scanSeries(rows)
}

// LoadBenchmarks returns market benchmark closes within [from, to]
func (r *SnapshotRepository) LoadBenchmarks(ctx context.Context, from, to time.Time) (map[string]contracts.PriceSeries, error) {
	return r.loadIndices(ctx, "benchmark", from, to)
}

// LoadSectorIndices returns sector index closes keyed by sector name
func (r *SnapshotRepository) LoadSectorIndices(ctx context.Context, from, to time.Time) (map[string]contracts.PriceSeries, error) {
	return r.loadIndices(ctx, "sector", from, to)
}

func (r *SnapshotRepository) loadIndices(ctx context.Context, kind string, from, to time.Time) (map[string]contracts.PriceSeries, error) {
	query := `
		SELECT name, trade_date, close_price
		FROM data.index_prices
		WHERE kind = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY name, trade_date
	`

	rows, err := r.pool.Query(ctx, query, kind, from, to)
	if err != nil {
		return nil, fmt.Errorf("query %s indices: %w", kind, err)
	}
	return scanSeries(rows)
}

// LoadFundamentals returns the latest fundamentals row per symbol
func (r *SnapshotRepository) LoadFundamentals(ctx context.Context, symbols []string) (map[string]contracts.FundamentalSnapshot, error) {
	query := `
		SELECT DISTINCT ON (symbol)
			symbol, roe, roa, debt_to_equity, current_ratio, operating_margin,
			profit_margin, revenue_growth, earnings_growth, free_cash_flow,
			book_value, price_to_book
		FROM data.fundamentals
		WHERE symbol = ANY($1)
		ORDER BY symbol, report_date DESC
	`

	rows, err := r.pool.Query(ctx, query, symbols)
	if err != nil {
		return nil, fmt.Errorf("query fundamentals: %w", err)
	}
	defer rows.Close()

	out := make(map[string]contracts.FundamentalSnapshot)
	for rows.Next() {
		var (
			symbol string
			v      [11]*float64
		)
		if err := rows.Scan(&symbol, &v[0], &v[1], &v[2], &v[3], &v[4], &v[5], &v[6], &v[7], &v[8], &v[9], &v[10]); err != nil {
			return nil, fmt.Errorf("scan fundamentals: %w", err)
		}
		out[symbol] = contracts.FundamentalSnapshot{
			ROE:             contracts.FromPtr(v[0]),
			ROA:             contracts.FromPtr(v[1]),
			DebtToEquity:    contracts.FromPtr(v[2]),
			CurrentRatio:    contracts.FromPtr(v[3]),
			OperatingMargin: contracts.FromPtr(v[4]),
			ProfitMargin:    contracts.FromPtr(v[5]),
			RevenueGrowth:   contracts.FromPtr(v[6]),
			EarningsGrowth:  contracts.FromPtr(v[7]),
			FreeCashFlow:    contracts.FromPtr(v[8]),
			BookValue:       contracts.FromPtr(v[9]),
			PriceToBook:     contracts.FromPtr(v[10]),
		}
	}
	return out, rows.Err()
}

func scanSeries(rows pgx.Rows) (map[string]contracts.PriceSeries, error) {
	defer rows.Close()

	out := make(map[string]contracts.PriceSeries)
	for rows.Next() {
		var (
			name string
			p    contracts.PricePoint
		)
		if err := rows.Scan(&name, &p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		out[name] = append(out[name], p)
	}
	return out, rows.Err()
}

// CalendarDays converts a trading-day requirement into a calendar lookback
// with a margin for holidays
func CalendarDays(tradingDays int) int {
	return tradingDays*365/252 + 14
}

// FetchSnapshot assembles a Snapshot from src covering calendarDays up to asOf
func FetchSnapshot(ctx context.Context, src contracts.SnapshotSource, asOf time.Time, calendarDays int) (*Snapshot, error) {
	from := asOf.AddDate(0, 0, -calendarDays)

	universe, err := src.LoadUniverse(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	symbols := make([]string, len(universe))
	for i, s := range universe {
		symbols[i] = s.Symbol
	}

	// 유니버스 이후 로드는 서로 독립
	var (
		prices, benchmarks, sectors map[string]contracts.PriceSeries
		fundamentals                map[string]contracts.FundamentalSnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if prices, err = src.LoadPrices(gctx, symbols, from, asOf); err != nil {
			return fmt.Errorf("load prices: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if benchmarks, err = src.LoadBenchmarks(gctx, from, asOf); err != nil {
			return fmt.Errorf("load benchmarks: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if sectors, err = src.LoadSectorIndices(gctx, from, asOf); err != nil {
			return fmt.Errorf("load sector indices: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if fundamentals, err = src.LoadFundamentals(gctx, symbols); err != nil {
			return fmt.Errorf("load fundamentals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewSnapshot(SnapshotInput{
		AsOf:         asOf,
		Universe:     universe,
		Prices:       prices,
		Benchmarks:   benchmarks,
		Sectors:      sectors,
		Fundamentals: fundamentals,
	})
}
