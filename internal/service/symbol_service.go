package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ndewijer/graham-screener/internal/apperrors"
	"github.com/ndewijer/graham-screener/internal/metrics"
	"github.com/ndewijer/graham-screener/internal/nasdaq"
)

// SymbolService serves the exchange symbol directories.
type SymbolService struct {
	fetcher nasdaq.Fetcher
	metrics *metrics.Metrics
}

// NewSymbolService creates a new SymbolService.
func NewSymbolService(fetcher nasdaq.Fetcher, m *metrics.Metrics) *SymbolService {
	return &SymbolService{
		fetcher: fetcher,
		metrics: m,
	}
}

// Lists returns the names accepted by Directory.
func (s *SymbolService) Lists() []string {
	return nasdaq.Lists()
}

// Directory returns the symbols of a named list in directory order.
// Returns apperrors.ErrUnknownSymbolList for names not in Lists.
func (s *SymbolService) Directory(ctx context.Context, list string) ([]string, error) {
	if !slices.Contains(s.Lists(), list) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownSymbolList, list)
	}

	start := time.Now()
	syms, err := s.fetcher.FetchSymbols(ctx, list)
	s.metrics.ObserveFetch(metrics.SourceNasdaq, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return syms, nil
}
