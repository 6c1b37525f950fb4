package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/rs-screener/internal/strategyconfig"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "전략 설정 관리",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [yaml]",
	Short: "전략 YAML 검증",
	Long: `전략 YAML을 검증하고 경고와 설정 해시를 출력합니다.
인자가 없으면 기본 설정을 검증합니다.

Example:
  go run ./cmd/quant config validate config/strategy/rs_screener.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg := strategyconfig.Default()
	source := "built-in defaults"
	if len(args) == 1 {
		loaded, _, err := strategyconfig.Load(args[0])
		if err != nil {
			PrintError(fmt.Sprintf("%s: %v", args[0], err))
			return err
		}
		cfg = loaded
		source = args[0]
	}

	hash, err := strategyconfig.Hash(cfg)
	if err != nil {
		return fmt.Errorf("hash config: %w", err)
	}

	PrintDoubleSeparator(os.Stdout)
	fmt.Printf("  Strategy Config: %s\n", source)
	PrintSeparator(os.Stdout)
	PrintKeyValue(os.Stdout, "Strategy", cfg.Strategy.DisplayName(), 12)
	PrintKeyValue(os.Stdout, "Lookback", fmt.Sprintf("%dd (skip %dd)", cfg.RelativeStrength.LookbackDays, cfg.RelativeStrength.SkipRecentDays), 12)
	PrintKeyValue(os.Stdout, "Threshold", fmt.Sprintf("%.0f", cfg.RelativeStrength.Threshold), 12)
	PrintKeyValue(os.Stdout, "Benchmarks", fmt.Sprintf("%v", cfg.Benchmarks()), 12)
	PrintKeyValue(os.Stdout, "Max results", fmt.Sprintf("%d", cfg.Output.MaxResults), 12)
	PrintKeyValue(os.Stdout, "Hash", hash, 12)

	for _, w := range strategyconfig.Warn(cfg) {
		PrintWarning(fmt.Sprintf("[%s] %s", w.Code, w.Message))
	}
	PrintSuccess("Config is valid")
	return nil
}
