package commands

import (
	"fmt"
	"os"

	"github.com/wonny/rs-screener/internal/brain"
	"github.com/wonny/rs-screener/internal/selection"
	"github.com/wonny/rs-screener/internal/strategyconfig"
	"github.com/wonny/rs-screener/pkg/config"
	"github.com/wonny/rs-screener/pkg/database"
	"github.com/wonny/rs-screener/pkg/logger"
	"github.com/wonny/rs-screener/pkg/metrics"
	"github.com/wonny/rs-screener/pkg/redis"
)

// app bundles the shared dependencies of every command
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	strategy *strategyconfig.Config
	recorder *metrics.Recorder // nil when METRICS_ENABLED=false

	db    *database.DB
	redis *redis.Client
}

// newApp loads process config, logger and strategy config.
// Logs go to stderr so stdout stays clean for tables and JSON.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.NewWithWriter(cfg, os.Stderr)

	strategy, err := loadStrategy(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, strategy: strategy}
	if cfg.MetricsEnabled {
		a.recorder = metrics.New()
	}
	return a, nil
}

// loadStrategy resolves --strategy, then STRATEGY_CONFIG, then the defaults
func loadStrategy(cfg *config.Config) (*strategyconfig.Config, error) {
	path := strategyFile
	if path == "" {
		path = cfg.Screening.StrategyConfigPath
	}
	if path == "" {
		return strategyconfig.Default(), nil
	}

	strategy, _, err := strategyconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load strategy %s: %w", path, err)
	}
	return strategy, nil
}

// connect opens the database and (if enabled) Redis
func (a *app) connect() error {
	db, err := database.New(a.cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	a.db = db

	rc, err := redis.New(a.cfg)
	if err != nil {
		// 캐시는 선택 사항: 실패해도 계속 진행
		a.log.WithError(err).Warn("Redis unavailable, continuing without cache")
		rc = nil
	}
	a.redis = rc
	return nil
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

func (a *app) orchestrator() (*brain.Orchestrator, error) {
	return brain.NewOrchestrator(a.strategy, a.cfg.Screening.Workers, a.recorder, a.log)
}

// store requires connect
func (a *app) store() *brain.Store {
	return brain.NewStore(
		selection.NewRepository(a.db.Pool),
		redis.NewCache(a.redis, redis.CachePrefix),
		a.log,
	)
}
