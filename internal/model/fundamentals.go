package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Fundamentals holds one company's financial metrics as retrieved from the
// data sources. Every metric is optional: a nil pointer means the value could
// not be obtained, which is different from a zero value.
//
// A record is treated as immutable once built. Code that needs a variation
// (for example a substituted rating) works on a copy, see WithRating.
type Fundamentals struct {
	Symbol            string          `json:"symbol"`
	Rating            *int            `json:"rating"`
	SharePrice        *float64        `json:"share_price"`
	TotalDebt         *float64        `json:"total_debt"`
	TotalDebtToEquity *float64        `json:"total_debt_to_equity"`
	TotalAssets       *float64        `json:"total_assets"`
	CurrentRatio      *float64        `json:"current_ratio"`
	PriceToBook       *float64        `json:"price_to_book"`
	DividendForward   *float64        `json:"dividend_forward"`
	PETrailing        *float64        `json:"pe_trailing"`
	PEForward         *float64        `json:"pe_forward"`
	NetIncome         NetIncomeSeries `json:"net_income_series"`
	LatestNetIncome   *float64        `json:"latest_net_income"`
	Revenue           *float64        `json:"revenue"`
	GrossProfit       *float64        `json:"gross_profit"`
	FetchedAt         time.Time       `json:"fetched_at"`
}

// WithRating returns a copy of f with the rating replaced.
func (f Fundamentals) WithRating(rating int) Fundamentals {
	f.Rating = &rating
	return f
}

// EffectivePE returns the forward P/E when known, otherwise the trailing P/E.
func (f Fundamentals) EffectivePE() *float64 {
	if f.PEForward != nil {
		return f.PEForward
	}
	return f.PETrailing
}

// Period is a single entry of a net income time series.
type Period struct {
	Label     string  `json:"label"`
	NetIncome float64 `json:"net_income"`
}

// NetIncomeSeries is an ordered net income time series keyed by period label.
// Labels are ISO dates (2006-01-02) so that lexical order is chronological.
// It is encoded as a JSON object whose key order follows the slice order.
type NetIncomeSeries []Period

// Sorted returns a copy of s ordered by period label.
func (s NetIncomeSeries) Sorted() NetIncomeSeries {
	if s == nil {
		return nil
	}
	sorted := make(NetIncomeSeries, len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Label < sorted[j].Label
	})
	return sorted
}

// Latest returns the period with the greatest label.
func (s NetIncomeSeries) Latest() (Period, bool) {
	if len(s) == 0 {
		return Period{}, false
	}
	latest := s[0]
	for _, p := range s[1:] {
		if p.Label > latest.Label {
			latest = p
		}
	}
	return latest, true
}

// MarshalJSON encodes the series as an object, keeping the slice order.
func (s NetIncomeSeries) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.NetIncome)
		if err != nil {
			return nil, fmt.Errorf("net income for %s: %w", p.Label, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object into the series in document order.
// Periods whose value is null are dropped.
func (s *NetIncomeSeries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("net income series must be an object, got %v", tok)
	}

	series := NetIncomeSeries{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected net income key %v", keyTok)
		}

		var ni *float64
		if err := dec.Decode(&ni); err != nil {
			return fmt.Errorf("net income for %s: %w", label, err)
		}
		if ni == nil {
			continue
		}
		series = append(series, Period{Label: label, NetIncome: *ni})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = series
	return nil
}

// Ptr returns a pointer to v. It keeps record literals short.
func Ptr[T any](v T) *T {
	return &v
}
