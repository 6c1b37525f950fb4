package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/rs-screener/internal/contracts"
)

// ErrRunNotFound is returned when no persisted run matches
var ErrRunNotFound = errors.New("screening run not found")

// Repository handles screening run persistence
// ⭐ SSOT: 스크리닝 결과 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new selection repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save stores a run and its ranked records in one transaction
func (r *Repository) Save(ctx context.Context, run *contracts.ScreeningRun) (int64, error) {
	filtersJSON, err := json.Marshal(run.Filters)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal filters: %w", err)
	}
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal summary: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO screening.runs (
			run_date, strategy, config_hash, universe_size, matched, filters, summary
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, run.RunDate, string(run.Strategy), run.ConfigHash, run.UniverseSize, run.Matched, filtersJSON, summaryJSON).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, rec := range run.Records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal record %s: %w", rec.Symbol, err)
		}
		batch.Queue(`
			INSERT INTO screening.results (
				run_id, position, symbol, rs_percentile, quality_score,
				composite_score, signal, risk_score, record
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, id, rec.Position, rec.Symbol, rec.RS.Percentile.Ptr(), rec.Quality.Ptr(),
			rec.CompositeScore, string(rec.Signal), rec.RiskScore, payload)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("failed to insert results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	run.ID = id
	return id, nil
}

// Latest returns the most recent run with its records
func (r *Repository) Latest(ctx context.Context) (*contracts.ScreeningRun, error) {
	return r.getRun(ctx, `
		SELECT id, run_date, strategy, config_hash, universe_size, matched, filters, summary, created_at
		FROM screening.runs
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`)
}

// GetByID returns a run with its records
func (r *Repository) GetByID(ctx context.Context, id int64) (*contracts.ScreeningRun, error) {
	return r.getRun(ctx, `
		SELECT id, run_date, strategy, config_hash, universe_size, matched, filters, summary, created_at
		FROM screening.runs
		WHERE id = $1
	`, id)
}

func (r *Repository) getRun(ctx context.Context, query string, args ...interface{}) (*contracts.ScreeningRun, error) {
	var (
		run                      contracts.ScreeningRun
		strategy                 string
		filtersJSON, summaryJSON []byte
	)
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&run.ID, &run.RunDate, &strategy, &run.ConfigHash, &run.UniverseSize,
		&run.Matched, &filtersJSON, &summaryJSON, &run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.Strategy = contracts.Strategy(strategy)

	if err := json.Unmarshal(filtersJSON, &run.Filters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal filters: %w", err)
	}
	if err := json.Unmarshal(summaryJSON, &run.Summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT record FROM screening.results
		WHERE run_id = $1
		ORDER BY position ASC
	`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		var rec contracts.ScreeningRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		run.Records = append(run.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &run, nil
}
