// Package fmp reads analyst ratings from the Financial Modeling Prep API.
package fmp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://financialmodelingprep.com/api/v3"

// ErrMissingAPIKey is returned by every query when no API key is configured.
var ErrMissingAPIKey = errors.New("fmp api key is not configured")

// RatingClient looks up the analyst rating of a symbol.
type RatingClient interface {
	QueryRating(ctx context.Context, symbol string) (*int, error)
}

// Rating is one entry of the rating endpoint response.
type Rating struct {
	Symbol               string `json:"symbol"`
	Date                 string `json:"date"`
	Rating               string `json:"rating"`
	RatingScore          int    `json:"ratingScore"`
	RatingRecommendation string `json:"ratingRecommendation"`
}

// recommendations maps the textual recommendation onto the 1 (strong buy)
// to 5 (sell) scale.
var recommendations = map[string]int{
	"strong buy":   1,
	"buy":          2,
	"neutral":      3,
	"hold":         3,
	"underperform": 4,
	"sell":         5,
	"strong sell":  5,
}

// Client queries the FMP REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates an FMP client. An empty baseURL uses DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// ScaleRating converts a recommendation such as "Strong Buy" to the 1..5
// scale. The bool is false for an unrecognised recommendation.
func ScaleRating(recommendation string) (int, bool) {
	r, ok := recommendations[strings.ToLower(strings.TrimSpace(recommendation))]
	return r, ok
}

// QueryRating returns the rating of symbol on the 1..5 scale, or nil when FMP
// has no rating for it.
func (c *Client) QueryRating(ctx context.Context, symbol string) (*int, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	u := fmt.Sprintf("%s/rating/%s?apikey=%s", c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rating request for %s failed: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rating request for %s returned status %d", symbol, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rating response for %s: %w", symbol, err)
	}

	var ratings []Rating
	if err := json.Unmarshal(data, &ratings); err != nil {
		return nil, fmt.Errorf("failed to decode rating response for %s: %w", symbol, err)
	}
	if len(ratings) == 0 {
		return nil, nil
	}

	r, ok := ScaleRating(ratings[0].RatingRecommendation)
	if !ok {
		return nil, nil
	}
	return &r, nil
}
