package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/rs-screener/internal/s0_data"
	"github.com/wonny/rs-screener/internal/scheduler"
	"github.com/wonny/rs-screener/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `정기 스크리닝 스케줄러를 시작하거나 즉시 실행합니다.

Subcommands:
  start    - 스케줄러 시작 (SCREEN_SCHEDULE, 기본: 평일 18:30)
  run-now  - 스크리닝 작업 즉시 실행

Example:
  go run ./cmd/quant scheduler start
  go run ./cmd/quant scheduler run-now`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		RunE:  runSchedulerStart,
	}

	schedulerRunNowCmd = &cobra.Command{
		Use:   "run-now",
		Short: "스크리닝 작업 즉시 실행",
		RunE:  runSchedulerRunNow,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunNowCmd)
}

// newScheduler wires the screening job; requires connect
func newScheduler(a *app) (*scheduler.Scheduler, *jobs.ScreeningJob, error) {
	orch, err := a.orchestrator()
	if err != nil {
		return nil, nil, fmt.Errorf("init orchestrator: %w", err)
	}

	job := jobs.NewScreeningJob(
		s0_data.NewSnapshotRepository(a.db.Pool),
		orch,
		a.store(),
		a.cfg.Screening.Schedule,
		a.strategy.RequiredHistory(),
		a.log,
	)

	sched := scheduler.New(a.log)
	if err := sched.AddJob(job); err != nil {
		return nil, nil, err
	}
	return sched, job, nil
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.connect(); err != nil {
		return err
	}
	defer a.close()

	sched, job, err := newScheduler(a)
	if err != nil {
		return err
	}

	sched.Start()
	if next, err := sched.NextRun(job.Name()); err == nil {
		PrintInfo(fmt.Sprintf("%s next run: %s", job.Name(), next.Format("2006-01-02 15:04:05")))
	}
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	sched.Stop()
	return nil
}

func runSchedulerRunNow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.connect(); err != nil {
		return err
	}
	defer a.close()

	sched, job, err := newScheduler(a)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := sched.RunNow(ctx, job.Name())
	if err != nil {
		PrintError(err.Error())
		return err
	}
	PrintSuccess(fmt.Sprintf("%s completed in %.2fs", job.Name(), result.Duration.Seconds()))
	return nil
}
