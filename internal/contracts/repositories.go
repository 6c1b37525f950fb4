package contracts

import (
	"context"
	"time"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// SnapshotSource loads the market snapshot a run screens
type SnapshotSource interface {
	LoadUniverse(ctx context.Context) ([]Stock, error)
	LoadPrices(ctx context.Context, symbols []string, from, to time.Time) (map[string]PriceSeries, error)
	LoadBenchmarks(ctx context.Context, from, to time.Time) (map[string]PriceSeries, error)
	LoadSectorIndices(ctx context.Context, from, to time.Time) (map[string]PriceSeries, error)
	LoadFundamentals(ctx context.Context, symbols []string) (map[string]FundamentalSnapshot, error)
}

// RunRepository persists screening runs
type RunRepository interface {
	Save(ctx context.Context, run *ScreeningRun) (int64, error)
	Latest(ctx context.Context) (*ScreeningRun, error)
	GetByID(ctx context.Context, id int64) (*ScreeningRun, error)
}
