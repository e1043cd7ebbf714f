package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/graham-screener/internal/apperrors"
	"github.com/ndewijer/graham-screener/internal/model"
	"github.com/ndewijer/graham-screener/internal/repository"
	"github.com/ndewijer/graham-screener/internal/screening"
	"github.com/ndewijer/graham-screener/internal/symbols"
)

// DefaultHistoryLimit caps History when no limit is given.
const DefaultHistoryLimit = 50

// ScreenResult is the outcome of screening one symbol of a batch.
// Err is set when the record could not be loaded; Verdict is then empty.
type ScreenResult struct {
	Symbol  string
	Verdict screening.Verdict
	Err     error
}

// Batch is the outcome of one ScreenAll call. Results follow the input order.
type Batch struct {
	RunID   string
	Results []ScreenResult
}

// ScreeningService loads records through a FundamentalsService, runs them
// through the screening engine and records the verdicts.
type ScreeningService struct {
	db           *sql.DB
	fundamentals *FundamentalsService
	engine       *screening.Engine
	resultRepo   *repository.ScreeningResultRepository
	concurrency  int
	now          func() time.Time
}

// NewScreeningService creates a new ScreeningService.
// concurrency bounds the number of symbols loaded at the same time; values
// below 1 are treated as 1.
func NewScreeningService(
	db *sql.DB,
	fundamentals *FundamentalsService,
	engine *screening.Engine,
	resultRepo *repository.ScreeningResultRepository,
	concurrency int,
) *ScreeningService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ScreeningService{
		db:           db,
		fundamentals: fundamentals,
		engine:       engine,
		resultRepo:   resultRepo,
		concurrency:  concurrency,
		now:          time.Now,
	}
}

// Criteria returns the thresholds the service screens against.
func (s *ScreeningService) Criteria() screening.Criteria {
	return s.engine.Criteria()
}

// Screen loads and screens a single symbol.
func (s *ScreeningService) Screen(ctx context.Context, symbol string, force bool) (screening.Verdict, error) {
	batch, err := s.ScreenAll(ctx, []string{symbol}, force)
	if err != nil {
		return screening.Verdict{}, err
	}
	res := batch.Results[0]
	return res.Verdict, res.Err
}

// ScreenAll screens every symbol, loading at most the configured number of
// records at once.
//
// A symbol whose record cannot be loaded does not stop the batch; its error is
// kept in the matching ScreenResult. Every verdict is stored under a fresh run
// ID in a single transaction. The returned error covers only an empty input
// and storage failures, in which case the batch is still returned.
func (s *ScreeningService) ScreenAll(ctx context.Context, syms []string, force bool) (Batch, error) {
	if len(syms) == 0 {
		return Batch{}, apperrors.ErrNoSymbols
	}

	batch := Batch{
		RunID:   uuid.New().String(),
		Results: make([]ScreenResult, len(syms)),
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, sym := range syms {
		g.Go(func() error {
			batch.Results[i] = s.screenOne(ctx, sym, force)
			return nil
		})
	}
	_ = g.Wait()

	logger := log.With().Str("run_id", batch.RunID).Logger()
	for _, res := range batch.Results {
		if res.Err != nil {
			logger.Warn().Err(res.Err).Str("symbol", res.Symbol).Msg("screening skipped")
			continue
		}
		logger.Debug().
			Str("symbol", res.Symbol).
			Str("status", string(res.Verdict.Status)).
			Msg("screened")
	}

	if err := s.record(ctx, batch); err != nil {
		return batch, err
	}
	return batch, nil
}

func (s *ScreeningService) screenOne(ctx context.Context, symbol string, force bool) ScreenResult {
	res := ScreenResult{Symbol: symbol}
	if sym, err := symbols.Normalize(symbol); err == nil {
		res.Symbol = sym
	}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	rec, err := s.fundamentals.Load(ctx, res.Symbol, force)
	if err != nil {
		res.Err = err
		return res
	}

	res.Verdict = s.engine.Evaluate(rec)
	res.Verdict.EvaluatedAt = s.now().UTC()
	s.fundamentals.metrics.ObserveVerdict(string(res.Verdict.Status))
	return res
}

func (s *ScreeningService) record(ctx context.Context, batch Batch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	repo := s.resultRepo.WithTx(tx)
	for _, res := range batch.Results {
		if res.Err != nil {
			continue
		}
		v := res.Verdict
		err := repo.InsertResult(ctx, model.ScreeningResult{
			ID:            uuid.New().String(),
			RunID:         batch.RunID,
			Symbol:        v.Symbol,
			Status:        string(v.Status),
			FailedChecks:  v.FailedNames(),
			MissingField:  v.MissingField,
			RatingAssumed: v.RatingAssumed,
			EvaluatedAt:   v.EvaluatedAt,
		})
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit screening results: %w", err)
	}
	return nil
}

// History returns the most recent stored results for symbol, newest first.
// A limit below 1 uses DefaultHistoryLimit.
func (s *ScreeningService) History(ctx context.Context, symbol string, limit int) ([]model.ScreeningResult, error) {
	sym, err := symbols.Normalize(symbol)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = DefaultHistoryLimit
	}

	results, err := s.resultRepo.GetBySymbol(ctx, sym, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHistory, err)
	}
	return results, nil
}

// Run returns every stored result of one batch in screening order.
func (s *ScreeningService) Run(ctx context.Context, runID string) ([]model.ScreeningResult, error) {
	if runID == "" {
		return nil, apperrors.ErrEmptyID
	}
	if _, err := uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, runID)
	}

	results, err := s.resultRepo.GetByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHistory, err)
	}
	if len(results) == 0 {
		return nil, apperrors.ErrScreeningRunNotFound
	}
	return results, nil
}
