package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/graham-screener/internal/model"
	"github.com/ndewijer/graham-screener/internal/repository"
	"github.com/ndewijer/graham-screener/internal/testutil"
)

func insertResult(t *testing.T, repo *repository.ScreeningResultRepository, runID, symbol, status string, at time.Time, failed ...string) model.ScreeningResult {
	t.Helper()

	res := model.ScreeningResult{
		ID:           testutil.MakeID(),
		RunID:        runID,
		Symbol:       symbol,
		Status:       status,
		FailedChecks: failed,
		EvaluatedAt:  at,
	}
	require.NoError(t, repo.InsertResult(context.Background(), res))
	return res
}

func TestScreeningResultRepository_GetByRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewScreeningResultRepository(db)
	ctx := context.Background()

	run := testutil.MakeID()
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	insertResult(t, repo, run, "MSFT", "FAIL", at, "pe_trailing", "pe_forward")
	insertResult(t, repo, run, "AAPL", "PASS", at)
	insertResult(t, repo, testutil.MakeID(), "KO", "PASS", at)

	results, err := repo.GetByRun(ctx, run)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "MSFT", results[0].Symbol, "insertion order")
	assert.Equal(t, []string{"pe_trailing", "pe_forward"}, results[0].FailedChecks)
	assert.True(t, at.Equal(results[0].EvaluatedAt))
	assert.Equal(t, "AAPL", results[1].Symbol)
	assert.Equal(t, []string{}, results[1].FailedChecks)

	none, err := repo.GetByRun(ctx, testutil.MakeID())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestScreeningResultRepository_GetBySymbol(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewScreeningResultRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	insertResult(t, repo, testutil.MakeID(), "ACME", "FAIL", base.Add(2*time.Hour))
	insertResult(t, repo, testutil.MakeID(), "ACME", "PASS", base.Add(10*time.Hour))
	insertResult(t, repo, testutil.MakeID(), "ACME", "INCOMPLETE", base)
	insertResult(t, repo, testutil.MakeID(), "OTHER", "PASS", base)

	results, err := repo.GetBySymbol(ctx, "ACME", 0)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "PASS", results[0].Status)
	assert.Equal(t, "FAIL", results[1].Status)
	assert.Equal(t, "INCOMPLETE", results[2].Status)

	limited, err := repo.GetBySymbol(ctx, "ACME", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "PASS", limited[0].Status)
}

func TestScreeningResultRepository_CleanDatabase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewScreeningResultRepository(db)
	store := repository.NewFundamentalsRepository(db)

	sym := testutil.MakeSymbol("ACME")
	testutil.NewFundamentals(sym).Build(t, store)
	insertResult(t, repo, testutil.MakeID(), sym, "PASS", time.Now())

	testutil.AssertRowCount(t, db, "fundamentals", 1)
	testutil.AssertRowCount(t, db, "screening_result", 1)

	testutil.CleanDatabase(t, db)

	testutil.AssertRowCount(t, db, "fundamentals", 0)
	testutil.AssertRowCount(t, db, "screening_result", 0)
}
