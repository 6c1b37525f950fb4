package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rs-screener/internal/api/handlers"
	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/internal/selection"
	"github.com/wonny/rs-screener/pkg/database"
	"github.com/wonny/rs-screener/pkg/logger"
	"github.com/wonny/rs-screener/pkg/metrics"
)

type fakeRuns struct {
	runs map[int64]*contracts.ScreeningRun
	err  error
}

func (f *fakeRuns) Latest(_ context.Context) (*contracts.ScreeningRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	var latest *contracts.ScreeningRun
	for _, run := range f.runs {
		if latest == nil || run.ID > latest.ID {
			latest = run
		}
	}
	if latest == nil {
		return nil, selection.ErrRunNotFound
	}
	return latest, nil
}

func (f *fakeRuns) GetByID(_ context.Context, id int64) (*contracts.ScreeningRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	run, ok := f.runs[id]
	if !ok {
		return nil, selection.ErrRunNotFound
	}
	return run, nil
}

type fakeDB struct{ healthy bool }

func (f fakeDB) HealthCheck(_ context.Context) database.HealthStatus {
	if !f.healthy {
		return database.HealthStatus{Error: "connection refused"}
	}
	return database.HealthStatus{Healthy: true, TotalConns: 2}
}

func sampleRun(id int64) *contracts.ScreeningRun {
	rec := func(symbol string, signal contracts.Signal, pos int) contracts.ScreeningRecord {
		return contracts.ScreeningRecord{
			Stock:    contracts.Stock{Symbol: symbol},
			Signal:   signal,
			Position: pos,
		}
	}
	return &contracts.ScreeningRun{
		ID:       id,
		RunDate:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Strategy: contracts.StrategyRSQuality,
		Matched:  3,
		Summary:  contracts.RunSummary{Total: 3, BuyCount: 2, WatchCount: 1},
		Records: []contracts.ScreeningRecord{
			rec("AAA", contracts.SignalBuy, 1),
			rec("BBB", contracts.SignalWatch, 2),
			rec("CCC", contracts.SignalBuy, 3),
		},
	}
}

func newTestRouter(runs handlers.RunReader, db handlers.HealthChecker) http.Handler {
	log := logger.Nop()
	return NewRouter(
		handlers.NewScreeningHandler(runs, log),
		handlers.NewHealthHandler(db, "rs-screener"),
		metrics.New().Handler(),
		log,
	)
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	if rr.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	}
	return rr, body
}

func recordSymbols(t *testing.T, body map[string]interface{}) []string {
	t.Helper()
	raw, ok := body["records"].([]interface{})
	require.True(t, ok)
	out := make([]string, len(raw))
	for i, r := range raw {
		out[i] = r.(map[string]interface{})["symbol"].(string)
	}
	return out
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		db     handlers.HealthChecker
		code   int
		status string
	}{
		{"no database", nil, http.StatusOK, "ok"},
		{"healthy database", fakeDB{healthy: true}, http.StatusOK, "ok"},
		{"unhealthy database", fakeDB{healthy: false}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := get(t, newTestRouter(&fakeRuns{}, tt.db), "/health")
			assert.Equal(t, tt.code, rr.Code)
			assert.Equal(t, tt.status, body["status"])
			assert.Equal(t, "rs-screener", body["service"])
		})
	}
}

func TestScreening_Latest(t *testing.T) {
	runs := &fakeRuns{runs: map[int64]*contracts.ScreeningRun{1: sampleRun(1), 2: sampleRun(2)}}
	router := newTestRouter(runs, nil)

	rr, body := get(t, router, "/api/screening/latest")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(2), body["id"])
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, recordSymbols(t, body))

	rr, body = get(t, router, "/api/screening/latest?signal=BUY&limit=1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"AAA"}, recordSymbols(t, body))

	rr, _ = get(t, router, "/api/screening/latest?signal=HOLD")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = get(t, router, "/api/screening/latest?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestScreening_LatestDoesNotMutateStoredRun(t *testing.T) {
	run := sampleRun(1)
	router := newTestRouter(&fakeRuns{runs: map[int64]*contracts.ScreeningRun{1: run}}, nil)

	get(t, router, "/api/screening/latest?limit=1")
	assert.Len(t, run.Records, 3)
}

func TestScreening_LatestSummary(t *testing.T) {
	router := newTestRouter(&fakeRuns{runs: map[int64]*contracts.ScreeningRun{4: sampleRun(4)}}, nil)

	rr, body := get(t, router, "/api/screening/latest/summary")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "2024-03-15", body["run_date"])
	assert.Equal(t, "RS + Quality", body["strategy_name"])
	assert.NotContains(t, body, "records")

	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, float64(2), summary["buy_count"])
}

func TestScreening_NoRunYet(t *testing.T) {
	rr, body := get(t, newTestRouter(&fakeRuns{}, nil), "/api/screening/latest")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "No screening run yet", body["error"])
}

func TestScreening_RepositoryError(t *testing.T) {
	rr, _ := get(t, newTestRouter(&fakeRuns{err: errors.New("db down")}, nil), "/api/screening/latest")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestScreening_GetRun(t *testing.T) {
	router := newTestRouter(&fakeRuns{runs: map[int64]*contracts.ScreeningRun{7: sampleRun(7)}}, nil)

	rr, body := get(t, router, "/api/screening/runs/7")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(7), body["id"])

	rr, _ = get(t, router, "/api/screening/runs/8")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = get(t, router, "/api/screening/runs/abc")
	assert.Equal(t, http.StatusNotFound, rr.Code, "non-numeric ids do not match the route")
}

func TestMetricsEndpoint(t *testing.T) {
	rr, _ := get(t, newTestRouter(&fakeRuns{}, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
