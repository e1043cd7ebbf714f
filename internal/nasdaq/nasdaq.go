// Package nasdaq downloads the symbol directories published by Nasdaq Trader.
package nasdaq

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/ndewijer/graham-screener/internal/apperrors"
)

// DefaultBaseURL serves the pipe-delimited symbol directory files.
const DefaultBaseURL = "https://www.nasdaqtrader.com/dynamic/SymDir"

// Symbol list names accepted by FetchSymbols.
const (
	ListTraded = "nasdaq-traded"
	ListListed = "nasdaq-listed"
)

var listFiles = map[string]string{
	ListTraded: "nasdaqtraded.txt",
	ListListed: "nasdaqlisted.txt",
}

// Only plain common-stock tickers are kept; this drops units, warrants,
// preferred classes ("ABC$A", "ABC.W") and the file creation footer.
var symbolPattern = regexp.MustCompile(`^[A-Z]+$`)

// Entry is one line of a symbol directory file. Both files share these columns.
type Entry struct {
	Symbol       string `csv:"Symbol"`
	SecurityName string `csv:"Security Name"`
	ETF          string `csv:"ETF"`
	TestIssue    string `csv:"Test Issue"`
}

// Fetcher returns the symbols of a named list.
type Fetcher interface {
	FetchSymbols(ctx context.Context, list string) ([]string, error)
}

// Client downloads symbol directories over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a symbol directory client. An empty baseURL uses DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// Lists returns the names of the known symbol lists.
func Lists() []string {
	names := make([]string, 0, len(listFiles))
	for name := range listFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FetchSymbols downloads list and returns its symbols in file order.
func (c *Client) FetchSymbols(ctx context.Context, list string) ([]string, error) {
	file, ok := listFiles[list]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownSymbolList, list)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+file, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToFetchSymbols, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", apperrors.ErrFailedToFetchSymbols, file, resp.StatusCode)
	}

	entries, err := ParseDirectory(resp.Body)
	if err != nil {
		return nil, err
	}
	return Symbols(entries), nil
}

// ParseDirectory decodes a pipe-delimited symbol directory with a header row.
func ParseDirectory(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.Comma = '|'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var entries []Entry
	if err := gocsv.UnmarshalCSV(reader, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse symbol directory: %w", err)
	}
	return entries, nil
}

// Symbols keeps the plain ticker symbols of entries, excluding test issues.
func Symbols(entries []Entry) []string {
	symbols := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.TestIssue == "Y" || !symbolPattern.MatchString(e.Symbol) {
			continue
		}
		symbols = append(symbols, e.Symbol)
	}
	return symbols
}
