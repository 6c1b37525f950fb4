package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/rs-screener/internal/api"
	"github.com/wonny/rs-screener/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                         - Health check (DB 포함)
  GET  /api/screening/latest           - 최신 스크리닝 결과 (?limit=, ?signal=)
  GET  /api/screening/latest/summary   - 최신 결과 요약
  GET  /api/screening/runs/{id}        - 실행 ID로 조회
  GET  /metrics                        - Prometheus (METRICS_ENABLED=true)

Example:
  go run ./cmd/quant api
  go run ./cmd/quant api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	if err := a.connect(); err != nil {
		return err
	}
	defer a.close()

	var metricsHandler http.Handler
	if a.recorder != nil {
		metricsHandler = a.recorder.Handler()
	}

	router := api.NewRouter(
		handlers.NewScreeningHandler(a.store(), a.log),
		handlers.NewHealthHandler(a.db, "rs-screener"),
		metricsHandler,
		a.log,
	)
	server := api.New(a.cfg, a.log, router)

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		return err
	}

	a.log.Info("Server stopped")
	return nil
}
