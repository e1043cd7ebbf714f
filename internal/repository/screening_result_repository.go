package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ndewijer/graham-screener/internal/model"
)

// ScreeningResultRepository provides data access methods for the screening_result table.
type ScreeningResultRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewScreeningResultRepository creates a new ScreeningResultRepository with the provided database connection.
func NewScreeningResultRepository(db *sql.DB) *ScreeningResultRepository {
	return &ScreeningResultRepository{db: db}
}

func (r *ScreeningResultRepository) WithTx(tx *sql.Tx) *ScreeningResultRepository {
	return &ScreeningResultRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *ScreeningResultRepository) getQuerier() interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertResult stores one verdict summary.
func (r *ScreeningResultRepository) InsertResult(ctx context.Context, res model.ScreeningResult) error {
	query := `
		INSERT INTO screening_result
			(id, run_id, symbol, status, failed_checks, missing_field, rating_assumed, evaluated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		res.ID,
		res.RunID,
		res.Symbol,
		res.Status,
		strings.Join(res.FailedChecks, ","),
		res.MissingField,
		res.RatingAssumed,
		formatTimestamp(res.EvaluatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert screening result for %s: %w", res.Symbol, err)
	}
	return nil
}

// GetBySymbol retrieves the most recent results for symbol, newest first.
// A limit of zero or less returns every result.
func (r *ScreeningResultRepository) GetBySymbol(ctx context.Context, symbol string, limit int) ([]model.ScreeningResult, error) {
	query := `
		SELECT id, run_id, symbol, status, failed_checks, missing_field, rating_assumed, evaluated_at
		FROM screening_result
		WHERE symbol = ?
		ORDER BY evaluated_at DESC, rowid DESC
	`
	args := []any{symbol}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	return r.query(ctx, query, args...)
}

// GetByRun retrieves every result of a screening run in insertion order.
// Returns an empty slice when the run is unknown.
func (r *ScreeningResultRepository) GetByRun(ctx context.Context, runID string) ([]model.ScreeningResult, error) {
	query := `
		SELECT id, run_id, symbol, status, failed_checks, missing_field, rating_assumed, evaluated_at
		FROM screening_result
		WHERE run_id = ?
		ORDER BY rowid
	`

	return r.query(ctx, query, runID)
}

func (r *ScreeningResultRepository) query(ctx context.Context, query string, args ...any) ([]model.ScreeningResult, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query screening_result table: %w", err)
	}
	defer rows.Close()

	results := []model.ScreeningResult{}
	for rows.Next() {
		var (
			res          model.ScreeningResult
			failedChecks string
			evaluatedAt  string
		)
		err := rows.Scan(
			&res.ID,
			&res.RunID,
			&res.Symbol,
			&res.Status,
			&failedChecks,
			&res.MissingField,
			&res.RatingAssumed,
			&evaluatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan screening_result table results: %w", err)
		}

		res.FailedChecks = []string{}
		if failedChecks != "" {
			res.FailedChecks = strings.Split(failedChecks, ",")
		}
		res.EvaluatedAt, err = ParseTime(evaluatedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid evaluated_at for result %s: %w", res.ID, err)
		}

		results = append(results, res)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating screening_result table: %w", err)
	}
	return results, nil
}
