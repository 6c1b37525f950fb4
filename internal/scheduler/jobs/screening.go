package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/rs-screener/internal/brain"
	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/internal/s0_data"
	"github.com/wonny/rs-screener/pkg/logger"
)

// RunSaver persists a finished run
type RunSaver interface {
	Save(ctx context.Context, run *contracts.ScreeningRun) (int64, error)
}

// ScreeningJob loads the latest snapshot, screens it and saves the run
// ⭐ SSOT: 정기 스크리닝 스케줄은 이 Job에서만
type ScreeningJob struct {
	source       contracts.SnapshotSource
	orchestrator *brain.Orchestrator
	saver        RunSaver
	schedule     string
	historyDays  int // calendar days of price history to load
	now          func() time.Time
	logger       *logger.Logger
}

// NewScreeningJob creates a new screening job. tradingDays is the history
// the strategy needs (strategyconfig.Config.RequiredHistory).
func NewScreeningJob(
	source contracts.SnapshotSource,
	orchestrator *brain.Orchestrator,
	saver RunSaver,
	schedule string,
	tradingDays int,
	log *logger.Logger,
) *ScreeningJob {
	return &ScreeningJob{
		source:       source,
		orchestrator: orchestrator,
		saver:        saver,
		schedule:     schedule,
		historyDays:  s0_data.CalendarDays(tradingDays),
		now:          time.Now,
		logger:       log,
	}
}

// Name returns the job name
func (j *ScreeningJob) Name() string {
	return "rs_screening"
}

// Schedule returns the cron schedule (weekdays after the close by default)
func (j *ScreeningJob) Schedule() string {
	return j.schedule
}

// Run executes one screening run as of today
func (j *ScreeningJob) Run(ctx context.Context) error {
	asOf := truncateDay(j.now())
	j.logger.WithFields(map[string]interface{}{
		"as_of":        asOf.Format("2006-01-02"),
		"history_days": j.historyDays,
	}).Info("Starting scheduled screening")

	snap, err := s0_data.FetchSnapshot(ctx, j.source, asOf, j.historyDays)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}

	result, err := j.orchestrator.Run(ctx, snap)
	if err != nil {
		return fmt.Errorf("screening run: %w", err)
	}

	id, err := j.saver.Save(ctx, result.Run)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":  id,
		"matched": result.Run.Matched,
		"buy":     result.Run.Summary.BuyCount,
	}).Info("Scheduled screening completed")

	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
