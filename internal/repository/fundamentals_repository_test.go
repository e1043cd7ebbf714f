package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/graham-screener/internal/apperrors"
	"github.com/ndewijer/graham-screener/internal/model"
	"github.com/ndewijer/graham-screener/internal/repository"
	"github.com/ndewijer/graham-screener/internal/testutil"
)

func TestFundamentalsRepository_SaveAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFundamentalsRepository(db)
	ctx := context.Background()

	rec := testutil.NewFundamentals("ACME").
		WithRating(nil).
		WithNetIncome(model.NetIncomeSeries{
			{Label: "2016-12-31", NetIncome: -3},
			{Label: "2017-12-31", NetIncome: 4},
		}).
		Build(t, repo)

	got, err := repo.Get(ctx, "ACME")
	require.NoError(t, err)

	assert.Equal(t, rec.Symbol, got.Symbol)
	assert.Nil(t, got.Rating)
	assert.Equal(t, rec.TotalDebt, got.TotalDebt)
	assert.Equal(t, rec.NetIncome, got.NetIncome)
	assert.Equal(t, model.Ptr(4.0), got.LatestNetIncome)
	assert.True(t, rec.FetchedAt.Equal(got.FetchedAt))
}

func TestFundamentalsRepository_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFundamentalsRepository(db)
	ctx := context.Background()

	testutil.NewFundamentals("ACME").WithCurrentRatio(1).Build(t, repo)
	testutil.NewFundamentals("ACME").WithCurrentRatio(2).Build(t, repo)

	testutil.AssertRowCount(t, db, "fundamentals", 1)

	got, err := repo.Get(ctx, "ACME")
	require.NoError(t, err)
	assert.Equal(t, model.Ptr(2.0), got.CurrentRatio)
}

func TestFundamentalsRepository_Get_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFundamentalsRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrFundamentalsNotFound)

	_, err = db.Exec(`INSERT INTO fundamentals (id, symbol, data, fetched_at, updated_at) VALUES (?, 'BAD', 'not json', '', '')`, testutil.MakeID())
	require.NoError(t, err)

	_, err = repo.Get(ctx, "BAD")
	assert.ErrorIs(t, err, apperrors.ErrCorruptRecord)
}

func TestFundamentalsRepository_Symbols(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFundamentalsRepository(db)
	ctx := context.Background()

	syms, err := repo.Symbols(ctx)
	require.NoError(t, err)
	assert.Empty(t, syms)

	for _, s := range []string{"MSFT", "AAPL", "KO"} {
		testutil.NewFundamentals(s).Build(t, repo)
	}

	syms, err = repo.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "KO", "MSFT"}, syms)
}

func TestFundamentalsRepository_WithTx(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	repo := repository.NewFundamentalsRepository(db).WithTx(tx)
	testutil.NewFundamentals("ACME").Build(t, repo)
	require.NoError(t, tx.Rollback())

	testutil.AssertRowCount(t, db, "fundamentals", 0)
}
