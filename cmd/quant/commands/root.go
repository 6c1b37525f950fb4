package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "RS Screener - 상대강도 + 퀄리티 종목 스크리너",
	Long: `RS Screener Unified CLI

상대강도(RS) 백분위와 재무 퀄리티 점수로 종목을 선별합니다.
S0 → S1 → S2 → S3 → S4 파이프라인 (데이터 → 유니버스 → 시그널 → 필터 → 랭킹).

Usage:
  go run ./cmd/quant [command]

Examples:
  go run ./cmd/quant screen run --snapshot snapshot.json
  go run ./cmd/quant screen show
  go run ./cmd/quant config validate config/strategy/rs_screener.yaml
  go run ./cmd/quant api
  go run ./cmd/quant scheduler start
  go run ./cmd/quant test-db`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML (default: STRATEGY_CONFIG or built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}
