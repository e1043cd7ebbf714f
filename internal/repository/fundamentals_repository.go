package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/graham-screener/internal/apperrors"
	"github.com/ndewijer/graham-screener/internal/model"
)

// FundamentalsRepository provides data access methods for the fundamentals table.
// Each symbol has at most one row holding the latest record as JSON.
type FundamentalsRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewFundamentalsRepository creates a new FundamentalsRepository with the provided database connection.
func NewFundamentalsRepository(db *sql.DB) *FundamentalsRepository {
	return &FundamentalsRepository{db: db}
}

func (r *FundamentalsRepository) WithTx(tx *sql.Tx) *FundamentalsRepository {
	return &FundamentalsRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *FundamentalsRepository) getQuerier() interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Get retrieves the cached record for symbol.
// Returns apperrors.ErrFundamentalsNotFound when the symbol was never stored.
func (r *FundamentalsRepository) Get(ctx context.Context, symbol string) (model.Fundamentals, error) {
	query := `
		SELECT data
		FROM fundamentals
		WHERE symbol = ?
	`

	var data string
	err := r.getQuerier().QueryRowContext(ctx, query, symbol).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Fundamentals{}, apperrors.ErrFundamentalsNotFound
		}
		return model.Fundamentals{}, fmt.Errorf("failed to query fundamentals table: %w", err)
	}

	var rec model.Fundamentals
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return model.Fundamentals{}, fmt.Errorf("%w: %s: %w", apperrors.ErrCorruptRecord, symbol, err)
	}
	return rec, nil
}

// Save inserts or replaces the record for rec.Symbol.
func (r *FundamentalsRepository) Save(ctx context.Context, rec model.Fundamentals) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode fundamentals for %s: %w", rec.Symbol, err)
	}

	query := `
		INSERT INTO fundamentals (id, symbol, data, fetched_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			data = excluded.data,
			fetched_at = excluded.fetched_at,
			updated_at = excluded.updated_at
	`

	now := time.Now()
	_, err = r.getQuerier().ExecContext(ctx, query,
		uuid.New().String(),
		rec.Symbol,
		string(data),
		formatTimestamp(rec.FetchedAt),
		formatTimestamp(now),
	)
	if err != nil {
		return fmt.Errorf("failed to save fundamentals for %s: %w", rec.Symbol, err)
	}
	return nil
}

// Symbols lists every cached symbol in alphabetical order.
func (r *FundamentalsRepository) Symbols(ctx context.Context) ([]string, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT symbol FROM fundamentals ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fundamentals table: %w", err)
	}
	defer rows.Close()

	symbols := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan fundamentals table results: %w", err)
		}
		symbols = append(symbols, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fundamentals table: %w", err)
	}
	return symbols, nil
}
