package yahoo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ndewijer/graham-screener/internal/value"
)

const (
	// DefaultBaseURL serves the quote pages (key statistics, financials, balance sheet).
	DefaultBaseURL = "https://finance.yahoo.com"
	// DefaultChartURL serves the JSON chart API.
	DefaultChartURL = "https://query1.finance.yahoo.com"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// ErrNoResults is returned when the chart API knows nothing about a symbol.
var ErrNoResults = errors.New("no results returned")

// Client is the set of Yahoo Finance queries the fundamentals service needs.
type Client interface {
	QueryQuote(ctx context.Context, symbol string) (Quote, error)
	QueryKeyStatistics(ctx context.Context, symbol string) (KeyStatistics, error)
	QueryIncomeStatement(ctx context.Context, symbol string) (IncomeStatement, error)
	QueryBalanceSheet(ctx context.Context, symbol string) (BalanceSheet, error)
}

// FinanceClient provides methods for fetching fundamentals from Yahoo Finance.
// It reads the latest price from the chart API and scrapes the key statistics,
// financials and balance sheet pages.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
	chartURL   string
}

// NewFinanceClient creates a new Yahoo Finance client.
// Empty URLs fall back to DefaultBaseURL and DefaultChartURL, and a nil
// httpClient to http.DefaultClient.
func NewFinanceClient(httpClient *http.Client, baseURL, chartURL string) *FinanceClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if chartURL == "" {
		chartURL = DefaultChartURL
	}
	return &FinanceClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		chartURL:   strings.TrimRight(chartURL, "/"),
	}
}

// ParseQuote converts a raw chart API response into a Quote.
//
// Returns:
//   - Quote: Symbol metadata and the regular market price (Unknown when absent)
//   - error: If the response carries an API error or no result
func ParseQuote(resp Response) (Quote, error) {
	if resp.Chart.Error != nil {
		return Quote{}, fmt.Errorf("yahoo error: %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return Quote{}, ErrNoResults
	}

	meta := resp.Chart.Result[0].Meta
	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}

	q := Quote{
		Symbol:       meta.Symbol,
		Currency:     meta.Currency,
		ExchangeName: meta.ExchangeName,
		Name:         name,
	}
	if meta.RegularMarketPrice != nil {
		q.Price = value.NewFloat(*meta.RegularMarketPrice)
	}
	return q, nil
}

// QueryQuote fetches the latest market price for a symbol from the chart API.
func (c *FinanceClient) QueryQuote(ctx context.Context, symbol string) (Quote, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.chartURL, url.PathEscape(symbol))

	data, err := c.get(ctx, u, "application/json")
	if err != nil {
		return Quote{}, err
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Quote{}, fmt.Errorf("failed to decode chart response for %s: %w", symbol, err)
	}

	q, err := ParseQuote(resp)
	if err != nil {
		return Quote{}, fmt.Errorf("chart query for %s: %w", symbol, err)
	}
	return q, nil
}

// QueryKeyStatistics fetches and parses the key statistics page.
func (c *FinanceClient) QueryKeyStatistics(ctx context.Context, symbol string) (KeyStatistics, error) {
	data, err := c.page(ctx, symbol, "key-statistics")
	if err != nil {
		return KeyStatistics{}, err
	}
	return ParseKeyStatistics(bytes.NewReader(data))
}

// QueryIncomeStatement fetches and parses the annual income statement page.
func (c *FinanceClient) QueryIncomeStatement(ctx context.Context, symbol string) (IncomeStatement, error) {
	data, err := c.page(ctx, symbol, "financials")
	if err != nil {
		return IncomeStatement{}, err
	}
	return ParseIncomeStatement(bytes.NewReader(data))
}

// QueryBalanceSheet fetches and parses the annual balance sheet page.
func (c *FinanceClient) QueryBalanceSheet(ctx context.Context, symbol string) (BalanceSheet, error) {
	data, err := c.page(ctx, symbol, "balance-sheet")
	if err != nil {
		return BalanceSheet{}, err
	}
	return ParseBalanceSheet(bytes.NewReader(data))
}

func (c *FinanceClient) page(ctx context.Context, symbol, section string) ([]byte, error) {
	u := fmt.Sprintf("%s/quote/%s/%s/", c.baseURL, url.PathEscape(symbol), section)
	return c.get(ctx, u, "text/html")
}

// get executes a GET request with browser-like headers and returns the body.
// Any status other than 200 is an error.
func (c *FinanceClient) get(ctx context.Context, u, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request to %s returned status %d", u, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", u, err)
	}
	return data, nil
}
