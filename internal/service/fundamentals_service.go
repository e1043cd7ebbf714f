package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/graham-screener/internal/apperrors"
	"github.com/ndewijer/graham-screener/internal/fmp"
	"github.com/ndewijer/graham-screener/internal/metrics"
	"github.com/ndewijer/graham-screener/internal/model"
	"github.com/ndewijer/graham-screener/internal/symbols"
	"github.com/ndewijer/graham-screener/internal/yahoo"
)

// FundamentalsStore persists one fundamentals record per symbol.
// Get returns apperrors.ErrFundamentalsNotFound on a miss.
type FundamentalsStore interface {
	Get(ctx context.Context, symbol string) (model.Fundamentals, error)
	Save(ctx context.Context, rec model.Fundamentals) error
	Symbols(ctx context.Context) ([]string, error)
}

// FundamentalsService retrieves fundamentals records from the upstream sources
// and keeps them in a FundamentalsStore.
type FundamentalsService struct {
	store        FundamentalsStore
	yahooClient  yahoo.Client
	ratingClient fmp.RatingClient
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewFundamentalsService creates a new FundamentalsService.
// ratingClient may be nil, in which case every record has an unknown rating.
// m may be nil to disable metrics.
func NewFundamentalsService(
	store FundamentalsStore,
	yahooClient yahoo.Client,
	ratingClient fmp.RatingClient,
	m *metrics.Metrics,
) *FundamentalsService {
	return &FundamentalsService{
		store:        store,
		yahooClient:  yahooClient,
		ratingClient: ratingClient,
		metrics:      m,
		now:          time.Now,
	}
}

// Fetch retrieves a fresh record for symbol without touching the store.
//
// The four Yahoo pages are fetched first; any transport failure aborts the
// fetch with an error wrapping apperrors.ErrFailedToFetchFundamentals. Labels
// missing from a page leave the corresponding field unknown. The rating lookup
// is best effort: when it fails the failure is logged and the rating stays unknown.
//
// The record is built only after every source has answered, so a returned
// record is never partially populated by a later source.
func (s *FundamentalsService) Fetch(ctx context.Context, symbol string) (model.Fundamentals, error) {
	sym, err := symbols.Normalize(symbol)
	if err != nil {
		return model.Fundamentals{}, err
	}

	var (
		quote   yahoo.Quote
		stats   yahoo.KeyStatistics
		income  yahoo.IncomeStatement
		balance yahoo.BalanceSheet
	)

	steps := []struct {
		page string
		run  func() error
	}{
		{"quote", func() (err error) { quote, err = s.yahooClient.QueryQuote(ctx, sym); return }},
		{"key statistics", func() (err error) { stats, err = s.yahooClient.QueryKeyStatistics(ctx, sym); return }},
		{"income statement", func() (err error) { income, err = s.yahooClient.QueryIncomeStatement(ctx, sym); return }},
		{"balance sheet", func() (err error) { balance, err = s.yahooClient.QueryBalanceSheet(ctx, sym); return }},
	}
	for _, step := range steps {
		start := time.Now()
		err := step.run()
		s.metrics.ObserveFetch(metrics.SourceYahoo, time.Since(start), err)
		if err != nil {
			return model.Fundamentals{}, fmt.Errorf("%w: %s %s: %w", apperrors.ErrFailedToFetchFundamentals, sym, step.page, err)
		}
	}

	rating := s.fetchRating(ctx, sym)

	return model.Fundamentals{
		Symbol:            sym,
		Rating:            rating,
		SharePrice:        quote.Price.Ptr(),
		TotalDebt:         stats.TotalDebt.Ptr(),
		TotalDebtToEquity: stats.TotalDebtToEquity.Ptr(),
		TotalAssets:       balance.TotalAssets.Ptr(),
		CurrentRatio:      stats.CurrentRatio.Ptr(),
		PriceToBook:       stats.PriceToBook.Ptr(),
		DividendForward:   stats.ForwardDividend.Ptr(),
		PETrailing:        stats.TrailingPE.Ptr(),
		PEForward:         stats.ForwardPE.Ptr(),
		NetIncome:         income.NetIncome,
		LatestNetIncome:   income.LatestNetIncome().Ptr(),
		Revenue:           income.TotalRevenue.Ptr(),
		GrossProfit:       income.GrossProfit.Ptr(),
		FetchedAt:         s.now().UTC(),
	}, nil
}

func (s *FundamentalsService) fetchRating(ctx context.Context, sym string) *int {
	if s.ratingClient == nil {
		return nil
	}

	start := time.Now()
	rating, err := s.ratingClient.QueryRating(ctx, sym)
	s.metrics.ObserveFetch(metrics.SourceFMP, time.Since(start), err)
	if err != nil {
		log.Warn().Err(err).Str("symbol", sym).Msg("rating lookup failed, rating left unknown")
		return nil
	}
	return rating
}

// Pull fetches a fresh record for symbol and stores it, replacing any cached copy.
func (s *FundamentalsService) Pull(ctx context.Context, symbol string) (model.Fundamentals, error) {
	rec, err := s.Fetch(ctx, symbol)
	if err != nil {
		return model.Fundamentals{}, err
	}

	if err := s.store.Save(ctx, rec); err != nil {
		return model.Fundamentals{}, fmt.Errorf("failed to store fundamentals for %s: %w", rec.Symbol, err)
	}

	log.Debug().Str("symbol", rec.Symbol).Msg("pulled fundamentals")
	return rec, nil
}

// Load returns the stored record for symbol, pulling a fresh one when force is
// set, when nothing is stored, or when the stored copy cannot be decoded.
func (s *FundamentalsService) Load(ctx context.Context, symbol string, force bool) (model.Fundamentals, error) {
	sym, err := symbols.Normalize(symbol)
	if err != nil {
		return model.Fundamentals{}, err
	}

	if !force {
		rec, err := s.store.Get(ctx, sym)
		switch {
		case err == nil:
			s.metrics.ObserveCacheLookup(true)
			return rec, nil
		case errors.Is(err, apperrors.ErrFundamentalsNotFound):
			s.metrics.ObserveCacheLookup(false)
		case errors.Is(err, apperrors.ErrCorruptRecord):
			s.metrics.ObserveCacheLookup(false)
			log.Warn().Err(err).Str("symbol", sym).Msg("discarding unreadable cached record")
		default:
			return model.Fundamentals{}, err
		}
	}

	return s.Pull(ctx, sym)
}

// Cached lists the symbols that currently have a stored record.
func (s *FundamentalsService) Cached(ctx context.Context) ([]string, error) {
	return s.store.Symbols(ctx)
}
