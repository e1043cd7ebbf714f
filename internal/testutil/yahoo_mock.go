package testutil

import (
	"context"
	"sync"

	"github.com/ndewijer/graham-screener/internal/model"
	"github.com/ndewijer/graham-screener/internal/value"
	"github.com/ndewijer/graham-screener/internal/yahoo"
)

// MockYahooClient is a mock implementation of yahoo.Client for testing.
// It returns predefined test data instead of making actual requests.
// It is safe for concurrent use.
type MockYahooClient struct {
	Quote         yahoo.Quote
	Statistics    yahoo.KeyStatistics
	Income        yahoo.IncomeStatement
	Balance       yahoo.BalanceSheet
	// MockError is returned by every query method when set
	MockError error
	// SymbolErrors fails only the listed symbols
	SymbolErrors map[string]error

	mu         sync.Mutex
	queryCount map[string]int
}

// NewMockYahooClient creates a mock whose data screens as a pass with the
// default criteria once a rating of 3 or better is supplied.
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{
		Quote: yahoo.Quote{
			Symbol:       "TEST",
			Currency:     "USD",
			ExchangeName: "NMS",
			Name:         "Test Corp.",
			Price:        value.NewFloat(21.5),
		},
		Statistics: yahoo.KeyStatistics{
			TrailingPE:        value.NewFloat(8),
			ForwardPE:         value.NewFloat(7.5),
			PriceToBook:       value.NewFloat(0.9),
			TotalDebt:         value.NewFloat(80e6),
			TotalDebtToEquity: value.NewFloat(0.4),
			ForwardDividend:   value.NewFloat(0.5),
			CurrentRatio:      value.NewFloat(1.2),
		},
		Income: yahoo.IncomeStatement{
			NetIncome: model.NetIncomeSeries{
				{Label: "2021-12-31", NetIncome: 5e6},
				{Label: "2022-12-31", NetIncome: 7e6},
				{Label: "2023-12-31", NetIncome: 9e6},
			},
			TotalRevenue: value.NewFloat(120e6),
			GrossProfit:  value.NewFloat(40e6),
		},
		Balance: yahoo.BalanceSheet{
			TotalAssets: value.NewFloat(100e6),
		},
		queryCount: map[string]int{},
	}
}

// WithError configures the mock to return the specified error.
func (m *MockYahooClient) WithError(err error) *MockYahooClient {
	m.MockError = err
	return m
}

// WithSymbolError fails every query for one symbol.
func (m *MockYahooClient) WithSymbolError(symbol string, err error) *MockYahooClient {
	if m.SymbolErrors == nil {
		m.SymbolErrors = map[string]error{}
	}
	m.SymbolErrors[symbol] = err
	return m
}

// QueryCount returns how many queries were made for symbol.
func (m *MockYahooClient) QueryCount(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryCount[symbol]
}

func (m *MockYahooClient) query(symbol string) error {
	m.mu.Lock()
	if m.queryCount == nil {
		m.queryCount = map[string]int{}
	}
	m.queryCount[symbol]++
	m.mu.Unlock()

	if m.MockError != nil {
		return m.MockError
	}
	return m.SymbolErrors[symbol]
}

// QueryQuote returns the configured quote with the requested symbol.
func (m *MockYahooClient) QueryQuote(_ context.Context, symbol string) (yahoo.Quote, error) {
	if err := m.query(symbol); err != nil {
		return yahoo.Quote{}, err
	}
	q := m.Quote
	q.Symbol = symbol
	return q, nil
}

// QueryKeyStatistics returns the configured statistics.
func (m *MockYahooClient) QueryKeyStatistics(_ context.Context, symbol string) (yahoo.KeyStatistics, error) {
	if err := m.query(symbol); err != nil {
		return yahoo.KeyStatistics{}, err
	}
	return m.Statistics, nil
}

// QueryIncomeStatement returns the configured income statement.
func (m *MockYahooClient) QueryIncomeStatement(_ context.Context, symbol string) (yahoo.IncomeStatement, error) {
	if err := m.query(symbol); err != nil {
		return yahoo.IncomeStatement{}, err
	}
	return m.Income, nil
}

// QueryBalanceSheet returns the configured balance sheet.
func (m *MockYahooClient) QueryBalanceSheet(_ context.Context, symbol string) (yahoo.BalanceSheet, error) {
	if err := m.query(symbol); err != nil {
		return yahoo.BalanceSheet{}, err
	}
	return m.Balance, nil
}

// MockRatingClient is a mock implementation of fmp.RatingClient.
type MockRatingClient struct {
	Ratings   map[string]int
	MockError error
}

// NewMockRatingClient returns a mock that rates every symbol in ratings.
// Other symbols get an unknown rating.
func NewMockRatingClient(ratings map[string]int) *MockRatingClient {
	return &MockRatingClient{Ratings: ratings}
}

// QueryRating returns the configured rating for symbol.
func (m *MockRatingClient) QueryRating(_ context.Context, symbol string) (*int, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	r, ok := m.Ratings[symbol]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// MockSymbolFetcher is a mock implementation of nasdaq.Fetcher.
type MockSymbolFetcher struct {
	Lists     map[string][]string
	MockError error
}

// FetchSymbols returns the configured list.
func (m *MockSymbolFetcher) FetchSymbols(_ context.Context, list string) ([]string, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.Lists[list], nil
}
