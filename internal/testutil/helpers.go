package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/ndewijer/graham-screener/internal/fmp"
	"github.com/ndewijer/graham-screener/internal/metrics"
	"github.com/ndewijer/graham-screener/internal/repository"
	"github.com/ndewijer/graham-screener/internal/screening"
	"github.com/ndewijer/graham-screener/internal/service"
	"github.com/ndewijer/graham-screener/internal/yahoo"
)

// NewTestFundamentalsService creates a FundamentalsService backed by the
// sqlite repository of db and the given clients.
func NewTestFundamentalsService(t *testing.T, db *sql.DB, yahooClient yahoo.Client, ratingClient fmp.RatingClient, m *metrics.Metrics) *service.FundamentalsService {
	t.Helper()

	return service.NewFundamentalsService(
		repository.NewFundamentalsRepository(db),
		yahooClient,
		ratingClient,
		m,
	)
}

// NewTestScreeningService creates a ScreeningService with default criteria
// on top of fundamentals.
func NewTestScreeningService(t *testing.T, db *sql.DB, fundamentals *service.FundamentalsService, concurrency int) *service.ScreeningService {
	t.Helper()

	return service.NewScreeningService(
		db,
		fundamentals,
		screening.NewEngine(screening.DefaultCriteria()),
		repository.NewScreeningResultRepository(db),
		concurrency,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, map[string]bool{"fmp_rating": true})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPLXQZB"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomLetters(4)
}

// randomLetters generates a random upper-case string of specified length.
func randomLetters(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
