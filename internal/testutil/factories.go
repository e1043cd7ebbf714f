package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/ndewijer/graham-screener/internal/model"
)

// Saver is the part of a fundamentals store the builder writes to.
type Saver interface {
	Save(ctx context.Context, rec model.Fundamentals) error
}

// FundamentalsBuilder provides a fluent interface for creating test records.
// The defaults pass every check with the default criteria.
//
// Example usage:
//
//	// Simple creation with defaults
//	rec := testutil.NewFundamentals("ACME").Record()
//
//	// Stored, failing record
//	rec := testutil.NewFundamentals("ACME").
//	    WithPriceToBook(3).
//	    Build(t, store)
type FundamentalsBuilder struct {
	rec model.Fundamentals
}

// NewFundamentals creates a FundamentalsBuilder with passing defaults.
func NewFundamentals(symbol string) *FundamentalsBuilder {
	return &FundamentalsBuilder{rec: model.Fundamentals{
		Symbol:            symbol,
		Rating:            model.Ptr(2),
		SharePrice:        model.Ptr(21.5),
		TotalDebt:         model.Ptr(80e6),
		TotalDebtToEquity: model.Ptr(0.4),
		TotalAssets:       model.Ptr(100e6),
		CurrentRatio:      model.Ptr(1.2),
		PriceToBook:       model.Ptr(0.9),
		DividendForward:   model.Ptr(0.5),
		PETrailing:        model.Ptr(8.0),
		PEForward:         model.Ptr(7.5),
		NetIncome: model.NetIncomeSeries{
			{Label: "2021-12-31", NetIncome: 5e6},
			{Label: "2022-12-31", NetIncome: 7e6},
			{Label: "2023-12-31", NetIncome: 9e6},
		},
		LatestNetIncome: model.Ptr(9e6),
		FetchedAt:       time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
	}}
}

// WithRating sets the analyst rating. nil makes it unknown.
func (b *FundamentalsBuilder) WithRating(rating *int) *FundamentalsBuilder {
	b.rec.Rating = rating
	return b
}

// WithTotalDebt sets total debt.
func (b *FundamentalsBuilder) WithTotalDebt(v *float64) *FundamentalsBuilder {
	b.rec.TotalDebt = v
	return b
}

// WithCurrentRatio sets the current ratio.
func (b *FundamentalsBuilder) WithCurrentRatio(v float64) *FundamentalsBuilder {
	b.rec.CurrentRatio = &v
	return b
}

// WithPriceToBook sets price to book.
func (b *FundamentalsBuilder) WithPriceToBook(v float64) *FundamentalsBuilder {
	b.rec.PriceToBook = &v
	return b
}

// WithoutDividend clears the forward dividend.
func (b *FundamentalsBuilder) WithoutDividend() *FundamentalsBuilder {
	b.rec.DividendForward = nil
	return b
}

// WithNetIncome replaces the net income series and derives the latest value.
func (b *FundamentalsBuilder) WithNetIncome(series model.NetIncomeSeries) *FundamentalsBuilder {
	b.rec.NetIncome = series
	b.rec.LatestNetIncome = nil
	if p, ok := series.Latest(); ok {
		b.rec.LatestNetIncome = model.Ptr(p.NetIncome)
	}
	return b
}

// WithFetchedAt sets the retrieval time.
func (b *FundamentalsBuilder) WithFetchedAt(t time.Time) *FundamentalsBuilder {
	b.rec.FetchedAt = t
	return b
}

// Record returns the built record without storing it.
func (b *FundamentalsBuilder) Record() model.Fundamentals {
	return b.rec
}

// Build stores the record and returns it.
func (b *FundamentalsBuilder) Build(t *testing.T, store Saver) model.Fundamentals {
	t.Helper()

	if err := store.Save(context.Background(), b.rec); err != nil {
		t.Fatalf("Failed to store fundamentals for %s: %v", b.rec.Symbol, err)
	}
	return b.rec
}
