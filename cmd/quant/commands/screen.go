package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/internal/s0_data"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "스크리닝 실행 및 결과 조회",
	Long: `RS 스크리닝 파이프라인을 실행하거나 저장된 결과를 조회합니다.

Subcommands:
  run   - 스냅샷 파일 또는 DB로 스크리닝 실행
  show  - 저장된 스크리닝 결과 조회

Example:
  go run ./cmd/quant screen run --snapshot snapshot.json
  go run ./cmd/quant screen run --date 2024-03-15 --save
  go run ./cmd/quant screen show --limit 10`,
}

var (
	screenRunCmd = &cobra.Command{
		Use:   "run",
		Short: "스크리닝 실행",
		Long: `S0 → S4 파이프라인을 실행하고 랭킹 테이블을 출력합니다.

Flags:
  --snapshot   JSON/YAML 스냅샷 파일 (없으면 DB에서 로드)
  --date       기준일 (DB 로드 시, 기본: 오늘)
  --save       결과를 DB에 저장
  --json       JSON으로 출력

Example:
  go run ./cmd/quant screen run --snapshot snapshot.json
  go run ./cmd/quant screen run --strategy config/strategy/rs_screener.yaml --save`,
		RunE: runScreen,
	}

	screenShowCmd = &cobra.Command{
		Use:   "show",
		Short: "저장된 스크리닝 결과 조회",
		Long: `가장 최근(또는 --id로 지정한) 스크리닝 결과를 출력합니다.

Example:
  go run ./cmd/quant screen show
  go run ./cmd/quant screen show --id 42 --limit 10`,
		RunE: runScreenShow,
	}

	// Flags
	screenSnapshot string
	screenDate     string
	screenSave     bool
	screenJSON     bool
	screenLimit    int
	screenRunID    int64
)

func init() {
	rootCmd.AddCommand(screenCmd)
	screenCmd.AddCommand(screenRunCmd)
	screenCmd.AddCommand(screenShowCmd)

	screenRunCmd.Flags().StringVar(&screenSnapshot, "snapshot", "", "스냅샷 파일 (.json, .yaml)")
	screenRunCmd.Flags().StringVar(&screenDate, "date", "", "기준일 (YYYY-MM-DD, 기본: 오늘)")
	screenRunCmd.Flags().BoolVar(&screenSave, "save", false, "결과를 DB에 저장")
	screenRunCmd.Flags().BoolVar(&screenJSON, "json", false, "JSON 출력")
	screenRunCmd.Flags().IntVar(&screenLimit, "limit", 0, "출력 행 수 (0 = 전체)")

	screenShowCmd.Flags().Int64Var(&screenRunID, "id", 0, "실행 ID (기본: 최신)")
	screenShowCmd.Flags().BoolVar(&screenJSON, "json", false, "JSON 출력")
	screenShowCmd.Flags().IntVar(&screenLimit, "limit", 0, "출력 행 수 (0 = 전체)")
}

func runScreen(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	orch, err := a.orchestrator()
	if err != nil {
		return fmt.Errorf("init orchestrator: %w", err)
	}

	needDB := screenSnapshot == "" || screenSave
	if needDB {
		if err := a.connect(); err != nil {
			return err
		}
	}

	snap, err := loadSnapshot(ctx, a)
	if err != nil {
		return err
	}

	result, err := orch.Run(ctx, snap)
	if err != nil {
		return fmt.Errorf("screening run: %w", err)
	}

	if screenSave {
		if _, err := a.store().Save(ctx, result.Run); err != nil {
			return err
		}
	}

	if screenJSON {
		return writeJSON(result.Run)
	}

	PrintRunHeader(os.Stdout, result.Run)
	if result.Coverage != nil && !result.Coverage.Passed {
		PrintWarning(fmt.Sprintf("Snapshot coverage %.1f%% below threshold", result.Coverage.Score*100))
	}
	if result.NoMatches() {
		PrintWarning("No stocks passed the screening filters")
		return nil
	}
	PrintScreeningTable(os.Stdout, result.Run.Records, screenLimit)
	PrintRunSummary(os.Stdout, result.Run.Summary)
	if screenSave {
		PrintSuccess(fmt.Sprintf("Saved as run #%d", result.Run.ID))
	}
	return nil
}

func loadSnapshot(ctx context.Context, a *app) (*s0_data.Snapshot, error) {
	if screenSnapshot != "" {
		snap, err := s0_data.LoadSnapshotFile(screenSnapshot)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		return snap, nil
	}

	asOf := time.Now()
	if screenDate != "" {
		parsed, err := time.Parse("2006-01-02", screenDate)
		if err != nil {
			return nil, fmt.Errorf("invalid date format: %w", err)
		}
		asOf = parsed
	}

	repo := s0_data.NewSnapshotRepository(a.db.Pool)
	days := s0_data.CalendarDays(a.strategy.RequiredHistory())
	snap, err := s0_data.FetchSnapshot(ctx, repo, asOf, days)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	return snap, nil
}

func runScreenShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.connect(); err != nil {
		return err
	}
	defer a.close()

	store := a.store()
	var run *contracts.ScreeningRun
	if screenRunID > 0 {
		run, err = store.GetByID(ctx, screenRunID)
	} else {
		run, err = store.Latest(ctx)
	}
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}

	if screenJSON {
		return writeJSON(run)
	}

	PrintRunHeader(os.Stdout, run)
	PrintScreeningTable(os.Stdout, run.Records, screenLimit)
	PrintRunSummary(os.Stdout, run.Summary)
	return nil
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
