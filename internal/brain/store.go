package brain

import (
	"context"
	"fmt"

	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/pkg/logger"
	"github.com/wonny/rs-screener/pkg/redis"
)

// Store persists screening runs and keeps the latest one in the cache.
// Cache failures are logged and never fail a read or a write.
type Store struct {
	repo   contracts.RunRepository
	cache  *redis.Cache // optional
	logger *logger.Logger
}

// NewStore creates a new run store. cache may be nil.
func NewStore(repo contracts.RunRepository, cache *redis.Cache, log *logger.Logger) *Store {
	return &Store{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

// Save persists run, assigns its ID and refreshes the cache
func (s *Store) Save(ctx context.Context, run *contracts.ScreeningRun) (int64, error) {
	id, err := s.repo.Save(ctx, run)
	if err != nil {
		return 0, fmt.Errorf("save run: %w", err)
	}
	run.ID = id

	s.cachePut(ctx, redis.LatestRunKey(), run)
	s.cachePut(ctx, redis.RunKey(id), run)

	s.logger.WithFields(map[string]interface{}{
		"run_id":   id,
		"strategy": string(run.Strategy),
		"records":  len(run.Records),
	}).Info("Screening run saved")

	return id, nil
}

// Latest returns the most recent run, cache first
func (s *Store) Latest(ctx context.Context) (*contracts.ScreeningRun, error) {
	var cached contracts.ScreeningRun
	if s.cacheGet(ctx, redis.LatestRunKey(), &cached) {
		return &cached, nil
	}

	run, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	s.cachePut(ctx, redis.LatestRunKey(), run)
	return run, nil
}

// GetByID returns one run, cache first
func (s *Store) GetByID(ctx context.Context, id int64) (*contracts.ScreeningRun, error) {
	var cached contracts.ScreeningRun
	if s.cacheGet(ctx, redis.RunKey(id), &cached) {
		return &cached, nil
	}

	run, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cachePut(ctx, redis.RunKey(id), run)
	return run, nil
}

func (s *Store) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
		return false
	}
	return found
}

func (s *Store) cachePut(ctx context.Context, key string, run *contracts.ScreeningRun) {
	if err := s.cache.Set(ctx, key, run, redis.TTLDaily); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}
