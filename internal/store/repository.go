package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/hotstock/backend/internal/contracts"
)

// ErrNotFound indicates no stored run matches the query
var ErrNotFound = errors.New("store: not found")

// Repository persists pipeline runs and their recommendations
// ⭐ SSOT: 추천 결과 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new run repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveRun stores a run keyed by its date. Re-running the same day
// replaces the previous result.
func (r *Repository) SaveRun(ctx context.Context, result *contracts.RunResult) error {
	statsJSON, err := json.Marshal(result.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal funnel stats: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	runDate := result.Date.Truncate(24 * time.Hour)

	query := `
		INSERT INTO hotstock.runs (
			run_date, stats, recommendation_count, duration_ms
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (run_date) DO UPDATE SET
			stats = EXCLUDED.stats,
			recommendation_count = EXCLUDED.recommendation_count,
			duration_ms = EXCLUDED.duration_ms,
			created_at = NOW()
	`
	_, err = tx.Exec(ctx, query, runDate, statsJSON, len(result.Recommendations), result.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	_, err = tx.Exec(ctx, "DELETE FROM hotstock.recommendations WHERE run_date = $1", runDate)
	if err != nil {
		return fmt.Errorf("failed to delete old recommendations: %w", err)
	}

	insert := `
		INSERT INTO hotstock.recommendations (
			run_date, rank, symbol, name, score, category, risk,
			price, pct_change, turnover_rate, market_cap,
			sources, reasons, risk_warnings, trend
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	for i, rec := range result.Recommendations {
		trendJSON, err := json.Marshal(rec.Trend)
		if err != nil {
			return fmt.Errorf("failed to marshal trend for %s: %w", rec.Stock.Symbol, err)
		}

		_, err = tx.Exec(ctx, insert,
			runDate, i+1, rec.Stock.Symbol, rec.Stock.Name,
			rec.Score, string(rec.Category), string(rec.Risk),
			rec.Stock.Price, rec.Stock.PctChange, rec.Stock.TurnoverRate, rec.Stock.MarketCap,
			rec.SourceTags(), rec.Reasons, rec.RiskWarnings, trendJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to insert recommendation %s: %w", rec.Stock.Symbol, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LatestRun loads the most recent stored run with its recommendations
func (r *Repository) LatestRun(ctx context.Context) (*contracts.RunResult, error) {
	query := `
		SELECT run_date, stats, duration_ms
		FROM hotstock.runs
		ORDER BY run_date DESC
		LIMIT 1
	`

	var result contracts.RunResult
	var statsJSON []byte
	var durationMs int64

	err := r.pool.QueryRow(ctx, query).Scan(&result.Date, &statsJSON, &durationMs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest run: %w", err)
	}

	if err := json.Unmarshal(statsJSON, &result.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal funnel stats: %w", err)
	}
	result.Duration = time.Duration(durationMs) * time.Millisecond

	recs, err := r.recommendationsFor(ctx, result.Date)
	if err != nil {
		return nil, err
	}
	result.Recommendations = recs

	return &result, nil
}

func (r *Repository) recommendationsFor(ctx context.Context, runDate time.Time) ([]contracts.Recommendation, error) {
	query := `
		SELECT symbol, name, score, category, risk,
		       price, pct_change, turnover_rate, market_cap,
		       sources, reasons, risk_warnings, trend
		FROM hotstock.recommendations
		WHERE run_date = $1
		ORDER BY rank ASC
	`

	rows, err := r.pool.Query(ctx, query, runDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	defer rows.Close()

	var recs []contracts.Recommendation
	for rows.Next() {
		var rec contracts.Recommendation
		var category, risk string
		var sources []string
		var trendJSON []byte

		err := rows.Scan(
			&rec.Stock.Symbol, &rec.Stock.Name, &rec.Score, &category, &risk,
			&rec.Stock.Price, &rec.Stock.PctChange, &rec.Stock.TurnoverRate, &rec.Stock.MarketCap,
			&sources, &rec.Reasons, &rec.RiskWarnings, &trendJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}

		rec.Category = contracts.Category(category)
		rec.Risk = contracts.RiskLevel(risk)
		for _, s := range sources {
			rec.AddSource(contracts.RankingList(s))
		}
		if err := json.Unmarshal(trendJSON, &rec.Trend); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trend: %w", err)
		}

		recs = append(recs, rec)
	}

	return recs, rows.Err()
}
