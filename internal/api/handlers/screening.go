package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/rs-screener/internal/contracts"
	"github.com/wonny/rs-screener/internal/selection"
	"github.com/wonny/rs-screener/pkg/logger"
)

// RunReader reads persisted screening runs
type RunReader interface {
	Latest(ctx context.Context) (*contracts.ScreeningRun, error)
	GetByID(ctx context.Context, id int64) (*contracts.ScreeningRun, error)
}

// ScreeningHandler handles screening result endpoints
// ⭐ SSOT: 스크리닝 API 핸들러는 이 구조체에서만
type ScreeningHandler struct {
	runs   RunReader
	logger *logger.Logger
}

// NewScreeningHandler creates a new screening handler
func NewScreeningHandler(runs RunReader, log *logger.Logger) *ScreeningHandler {
	return &ScreeningHandler{
		runs:   runs,
		logger: log,
	}
}

// SummaryResponse is the run header without the record table
type SummaryResponse struct {
	ID           int64                   `json:"id"`
	RunDate      string                  `json:"run_date"`
	Strategy     string                  `json:"strategy"`
	StrategyName string                  `json:"strategy_name"`
	ConfigHash   string                  `json:"config_hash"`
	UniverseSize int                     `json:"universe_size"`
	Matched      int                     `json:"matched"`
	Filters      []contracts.FilterCount `json:"filters"`
	Summary      contracts.RunSummary    `json:"summary"`
}

// GetLatest returns the most recent run
// GET /api/screening/latest?limit=10&signal=BUY
func (h *ScreeningHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	run, ok := h.latest(w, r)
	if !ok {
		return
	}
	h.respondRun(w, r, run)
}

// GetLatestSummary returns the header and summary of the most recent run
// GET /api/screening/latest/summary
func (h *ScreeningHandler) GetLatestSummary(w http.ResponseWriter, r *http.Request) {
	run, ok := h.latest(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, SummaryResponse{
		ID:           run.ID,
		RunDate:      run.RunDate.Format("2006-01-02"),
		Strategy:     string(run.Strategy),
		StrategyName: run.Strategy.DisplayName(),
		ConfigHash:   run.ConfigHash,
		UniverseSize: run.UniverseSize,
		Matched:      run.Matched,
		Filters:      run.Filters,
		Summary:      run.Summary,
	})
}

// GetRun returns one run by id
// GET /api/screening/runs/{id}
func (h *ScreeningHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid run id")
		return
	}

	run, err := h.runs.GetByID(r.Context(), id)
	if errors.Is(err, selection.ErrRunNotFound) {
		respondError(w, http.StatusNotFound, "Screening run not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("run_id", id).Error("Failed to get screening run")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve screening run")
		return
	}

	h.respondRun(w, r, run)
}

func (h *ScreeningHandler) latest(w http.ResponseWriter, r *http.Request) (*contracts.ScreeningRun, bool) {
	run, err := h.runs.Latest(r.Context())
	if errors.Is(err, selection.ErrRunNotFound) {
		respondError(w, http.StatusNotFound, "No screening run yet")
		return nil, false
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest screening run")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve screening run")
		return nil, false
	}
	return run, true
}

// respondRun applies the optional signal and limit query parameters
func (h *ScreeningHandler) respondRun(w http.ResponseWriter, r *http.Request, run *contracts.ScreeningRun) {
	query := r.URL.Query()

	out := *run
	if s := query.Get("signal"); s != "" {
		signal := contracts.Signal(s)
		if signal != contracts.SignalBuy && signal != contracts.SignalWatch && signal != contracts.SignalAvoid {
			respondError(w, http.StatusBadRequest, "Invalid signal (valid: BUY, WATCH, AVOID)")
			return
		}
		filtered := make([]contracts.ScreeningRecord, 0, len(out.Records))
		for _, rec := range out.Records {
			if rec.Signal == signal {
				filtered = append(filtered, rec)
			}
		}
		out.Records = filtered
	}

	if l := query.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		if limit > 0 && len(out.Records) > limit {
			out.Records = out.Records[:limit]
		}
	}

	respondJSON(w, http.StatusOK, out)
}
