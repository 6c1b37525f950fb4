package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/internal/s0_data"
	"github.com/wonny/rs-screener/internal/s0_data/quality"
	"github.com/wonny/rs-screener/internal/s1_universe"
	"github.com/wonny/rs-screener/internal/s2_signals"
	"github.com/wonny/rs-screener/internal/selection"
	"github.com/wonny/rs-screener/internal/strategyconfig"
	"github.com/wonny/rs-screener/pkg/logger"
	"github.com/wonny/rs-screener/pkg/metrics"
)

// Stage names used in logs, metrics and RunResult.CompletedStages
const (
	StageQuality  = "S0:Quality"
	StageUniverse = "S1:Universe"
	StageSignals  = "S2:Signals"
	StageScreener = "S3:Screener"
	StageRanker   = "S4:Ranker"
)

// Orchestrator coordinates the screening pipeline over one snapshot
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	config     *strategyconfig.Config
	configHash string

	// Stage components
	qualityGate     *quality.Gate
	universeBuilder *s1_universe.Builder
	signalBuilder   *s2_signals.Builder
	screener        *selection.Screener
	ranker          *selection.Ranker

	metrics *metrics.Recorder // optional
	logger  *logger.Logger
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	Run             *contracts.ScreeningRun
	Coverage        *quality.Report
	Universe        *contracts.Universe
	CompletedStages []string
	Duration        time.Duration
}

// NoMatches reports whether every symbol was filtered out
func (r *RunResult) NoMatches() bool {
	return r.Run == nil || r.Run.Matched == 0
}

// NewOrchestrator wires the stage components for a validated config.
// recorder may be nil.
func NewOrchestrator(cfg *strategyconfig.Config, workers int, recorder *metrics.Recorder, log *logger.Logger) (*Orchestrator, error) {
	if err := strategyconfig.Validate(cfg); err != nil {
		return nil, fmt.Errorf("strategy config: %w", err)
	}
	hash, err := strategyconfig.Hash(cfg)
	if err != nil {
		return nil, fmt.Errorf("config hash: %w", err)
	}
	ranker, err := selection.NewRanker(cfg.Strategy, cfg.PrimaryBenchmark(), log)
	if err != nil {
		return nil, err
	}

	rs := cfg.RelativeStrength
	minHistory := rs.LookbackDays + rs.SkipRecentDays + 1

	return &Orchestrator{
		config:          cfg,
		configHash:      hash,
		qualityGate:     quality.NewGate(quality.DefaultConfig(minHistory, cfg.Benchmarks())),
		universeBuilder: s1_universe.NewBuilder(log),
		signalBuilder: s2_signals.NewBuilder(
			s2_signals.NewReturnEngine(cfg.ReturnConfig()),
			s2_signals.NewRSEngine(cfg.RSConfig()),
			s2_signals.NewQualityScorer(),
			cfg.BuilderConfig(workers),
			log,
		),
		screener: selection.NewScreener(cfg.ScreenerConfig(), log),
		ranker:   ranker,
		metrics:  recorder,
		logger:   log,
	}, nil
}

// ConfigHash returns the hash recorded with every run
func (o *Orchestrator) ConfigHash() string {
	return o.configHash
}

// Run executes the pipeline
// S0 → S1 → S2 → S3 → S4
func (o *Orchestrator) Run(ctx context.Context, snap *s0_data.Snapshot) (*RunResult, error) {
	startTime := time.Now()
	strategy := string(o.config.Strategy)

	result := &RunResult{
		CompletedStages: make([]string, 0, 5),
	}

	o.logger.WithFields(map[string]interface{}{
		"date":        snap.AsOf().Format("2006-01-02"),
		"strategy":    strategy,
		"config_hash": o.configHash,
	}).Info("Starting screening run")

	run, err := o.run(ctx, snap, result)
	if err != nil {
		o.recordRun(strategy, "error")
		return result, err
	}

	result.Run = run
	result.Duration = time.Since(startTime)
	o.recordRun(strategy, "success")

	o.logger.WithFields(map[string]interface{}{
		"strategy": strategy,
		"matched":  run.Matched,
		"returned": len(run.Records),
		"duration": result.Duration.Seconds(),
		"stages":   len(result.CompletedStages),
	}).Info("Screening run completed")

	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, snap *s0_data.Snapshot, result *RunResult) (*contracts.ScreeningRun, error) {
	// S0: Coverage gate (advisory)
	stageStart := time.Now()
	result.Coverage = o.qualityGate.Check(snap)
	o.logCoverage(result.Coverage, snap)
	o.completeStage(result, StageQuality, stageStart)

	// S1: Universe
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("S1 failed: %w", err)
	}
	stageStart = time.Now()
	universe := o.universeBuilder.Build(snap)
	result.Universe = universe
	if o.metrics != nil {
		o.metrics.RecordUniverse(universe.Count())
	}
	o.completeStage(result, StageUniverse, stageStart)

	// S2: Signals
	stageStart = time.Now()
	signals, err := o.signalBuilder.Build(ctx, snap, universe)
	if err != nil {
		return nil, fmt.Errorf("S2 failed: %w", err)
	}
	o.completeStage(result, StageSignals, stageStart)

	// S3: Screening
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("S3 failed: %w", err)
	}
	stageStart = time.Now()
	passed, filterCounts := o.screener.Screen(selection.Join(signals))
	if o.metrics != nil {
		for _, fc := range filterCounts {
			o.metrics.RecordFilterRemoved(fc.Filter, fc.Removed)
		}
	}
	o.completeStage(result, StageScreener, stageStart)

	// S4: Ranking
	stageStart = time.Now()
	ranked := o.ranker.Rank(passed)
	summary := selection.Summarize(ranked)
	if o.metrics != nil {
		o.metrics.RecordSignal(string(contracts.SignalBuy), summary.BuyCount)
		o.metrics.RecordSignal(string(contracts.SignalWatch), summary.WatchCount)
		o.metrics.RecordSignal(string(contracts.SignalAvoid), summary.AvoidCount)
	}
	o.completeStage(result, StageRanker, stageStart)

	if len(ranked) == 0 {
		o.logger.WithField("strategy", string(o.config.Strategy)).Warn("No stocks passed the screening filters")
	}

	return &contracts.ScreeningRun{
		RunDate:      snap.AsOf(),
		Strategy:     o.config.Strategy,
		ConfigHash:   o.configHash,
		UniverseSize: universe.Count(),
		Matched:      len(ranked),
		Filters:      filterCounts,
		Summary:      summary,
		Records:      truncate(ranked, o.config.Output.MaxResults),
		CreatedAt:    time.Now(),
	}, nil
}

func (o *Orchestrator) logCoverage(report *quality.Report, snap *s0_data.Snapshot) {
	fields := map[string]interface{}{
		"score":        report.Score,
		"passed":       report.Passed,
		"total_stocks": report.TotalStocks,
		"valid_stocks": report.ValidStocks,
		"anomalies":    len(snap.Anomalies()),
	}
	if len(report.MissingBenchmarks) > 0 {
		fields["missing_benchmarks"] = report.MissingBenchmarks
	}
	if report.Passed {
		o.logger.WithFields(fields).Info("Snapshot coverage check passed")
		return
	}
	o.logger.WithFields(fields).Warn("Snapshot coverage below threshold; affected metrics will be missing")
}

func (o *Orchestrator) completeStage(result *RunResult, stage string, start time.Time) {
	elapsed := time.Since(start)
	result.CompletedStages = append(result.CompletedStages, stage)
	if o.metrics != nil {
		o.metrics.RecordStage(stage, elapsed.Seconds())
	}
	o.logger.WithFields(map[string]interface{}{
		"stage":          stage,
		"elapsed_millis": elapsed.Milliseconds(),
	}).Debug("Stage completed")
}

func (o *Orchestrator) recordRun(strategy, outcome string) {
	if o.metrics != nil {
		o.metrics.RecordRun(strategy, outcome, float64(time.Now().Unix()))
	}
}

// truncate keeps the first limit records; limit <= 0 keeps everything
func truncate(records []contracts.ScreeningRecord, limit int) []contracts.ScreeningRecord {
	if limit <= 0 || len(records) <= limit {
		return records
	}
	return records[:limit]
}
