package brain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/internal/selection"
	"github.com/wonny/rs-screener/pkg/logger"
	"github.com/wonny/rs-screener/pkg/redis"
)

// memoryRepo is an in-memory RunRepository
type memoryRepo struct {
	runs    []*contracts.ScreeningRun
	saveErr error
	reads   int
}

func (m *memoryRepo) Save(_ context.Context, run *contracts.ScreeningRun) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.runs = append(m.runs, run)
	return int64(len(m.runs)), nil
}

func (m *memoryRepo) Latest(_ context.Context) (*contracts.ScreeningRun, error) {
	m.reads++
	if len(m.runs) == 0 {
		return nil, selection.ErrRunNotFound
	}
	return m.runs[len(m.runs)-1], nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*contracts.ScreeningRun, error) {
	m.reads++
	if id < 1 || int(id) > len(m.runs) {
		return nil, selection.ErrRunNotFound
	}
	return m.runs[id-1], nil
}

func TestStore_SaveAssignsID(t *testing.T) {
	repo := &memoryRepo{}
	store := NewStore(repo, nil, logger.Nop())
	ctx := context.Background()

	run := &contracts.ScreeningRun{Strategy: contracts.StrategyPureRS}
	id, err := store.Save(ctx, run)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, int64(1), run.ID)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, contracts.StrategyPureRS, latest.Strategy)

	byID, err := store.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Same(t, run, byID)
}

func TestStore_NotFound(t *testing.T) {
	store := NewStore(&memoryRepo{}, nil, logger.Nop())

	_, err := store.Latest(context.Background())
	assert.ErrorIs(t, err, selection.ErrRunNotFound)

	_, err = store.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, selection.ErrRunNotFound)
}

func TestStore_SaveError(t *testing.T) {
	boom := errors.New("boom")
	store := NewStore(&memoryRepo{saveErr: boom}, nil, logger.Nop())

	_, err := store.Save(context.Background(), &contracts.ScreeningRun{})
	assert.ErrorIs(t, err, boom)
}

func TestStore_DisabledCacheFallsThrough(t *testing.T) {
	repo := &memoryRepo{}
	cache := redis.NewCache(redis.NewWithClient(nil), redis.CachePrefix)
	store := NewStore(repo, cache, logger.Nop())
	ctx := context.Background()

	_, err := store.Save(ctx, &contracts.ScreeningRun{})
	require.NoError(t, err)

	_, err = store.Latest(ctx)
	require.NoError(t, err)
	_, err = store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.reads)
}
