package s2_signals

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/internal/s0_data"
	"github.com/wonny/rs-screener/pkg/logger"
)

// BuilderConfig selects the comparisons and the fan-out width
type BuilderConfig struct {
	Workers       int
	Benchmarks    []string // compared benchmark names, primary first
	CompareSector bool
}

// Builder runs the per-symbol engines over a universe and then the
// cross-sectional RS stage
// ⭐ SSOT: 시그널 생성 오케스트레이션은 여기서만
type Builder struct {
	returns *ReturnEngine
	rs      *RSEngine
	quality *QualityScorer
	config  BuilderConfig
	logger  *logger.Logger
}

// NewBuilder creates a new signal builder
func NewBuilder(returns *ReturnEngine, rs *RSEngine, quality *QualityScorer, config BuilderConfig, log *logger.Logger) *Builder {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Builder{
		returns: returns,
		rs:      rs,
		quality: quality,
		config:  config,
		logger:  log,
	}
}

// Build computes the momentum table and quality scores for the universe.
// Per-symbol metrics fan out over a bounded worker group; percentiles and
// ranks are assigned only after every long-horizon return is known.
func (b *Builder) Build(ctx context.Context, snap *s0_data.Snapshot, universe *contracts.Universe) (*contracts.SignalSet, error) {
	start := time.Now()
	b.logger.WithFields(map[string]interface{}{
		"stock_count": universe.Count(),
		"workers":     b.config.Workers,
		"benchmarks":  b.config.Benchmarks,
	}).Info("Starting signal generation")

	rows := make([]contracts.MomentumRow, universe.Count())
	longReturns := make([]contracts.Num, universe.Count())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.Workers)
	for i, stock := range universe.Stocks {
		i, stock := i, stock
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i], longReturns[i] = b.calculateStock(snap, stock)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("per-symbol metrics: %w", err)
	}

	percentiles, ranks := b.rs.Rank(longReturns)
	defined := 0
	for i := range rows {
		rows[i].RS.Percentile = percentiles[i]
		rows[i].RS.Rank = ranks[i]
		if longReturns[i].Valid {
			defined++
		}
	}
	if defined == 0 && len(rows) > 0 {
		b.logger.Warn("No symbol has a long-horizon return; all percentiles set to the midpoint")
	}

	signals := &contracts.SignalSet{
		Momentum:     rows,
		Quality:      make(map[string]contracts.QualityScore),
		Fundamentals: make(map[string]contracts.FundamentalSnapshot),
	}
	for _, stock := range universe.Stocks {
		f, ok := snap.Fundamentals(stock.Symbol)
		if !ok {
			continue
		}
		signals.Fundamentals[stock.Symbol] = f
		signals.Quality[stock.Symbol] = b.quality.Score(f)
	}

	b.logger.WithFields(map[string]interface{}{
		"total":          len(rows),
		"ranked":         defined,
		"with_quality":   len(signals.Quality),
		"elapsed_millis": time.Since(start).Milliseconds(),
	}).Info("Signal generation completed")

	return signals, nil
}

// calculateStock computes the read-only per-symbol metrics
func (b *Builder) calculateStock(snap *s0_data.Snapshot, stock contracts.Stock) (contracts.MomentumRow, contracts.Num) {
	row := contracts.MomentumRow{
		Stock: stock,
		RS: contracts.RSMetrics{
			Rank:        contracts.Unranked,
			VsBenchmark: make(map[string]contracts.Num, len(b.config.Benchmarks)+1),
		},
	}

	series, ok := snap.Series(stock.Symbol)
	if !ok {
		row.RS.Percentile = contracts.None()
		return row, contracts.None()
	}

	row.Returns = b.returns.Metrics(series)
	long := b.rs.LongReturn(series)
	row.RS.LongReturn = long

	for _, name := range b.config.Benchmarks {
		bench, ok := snap.Benchmark(name)
		if !ok {
			row.RS.VsBenchmark[name] = contracts.None()
			continue
		}
		row.RS.VsBenchmark[name] = b.rs.Mansfield(series, bench)
	}

	if b.config.CompareSector {
		if idx, ok := snap.SectorIndex(stock.Sector); ok {
			row.RS.VsBenchmark[contracts.SectorBenchmarkKey] = b.rs.Mansfield(series, idx)
		} else {
			row.RS.VsBenchmark[contracts.SectorBenchmarkKey] = contracts.None()
		}
	}

	if !long.Valid {
		b.logger.WithFields(map[string]interface{}{
			"symbol":       stock.Symbol,
			"observations": series.Len(),
		}).Debug("Insufficient history for long-horizon return")
	}

	return row, long
}
