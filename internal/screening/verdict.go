package screening

import (
	"time"

	"github.com/ndewijer/graham-screener/internal/model"
)

// Status is the overall outcome of screening one company.
type Status string

const (
	StatusPass       Status = "PASS"
	StatusFail       Status = "FAIL"
	StatusIncomplete Status = "INCOMPLETE"
)

// Check names, in reporting order.
const (
	CheckRating         = "rating"
	CheckDebtToAsset    = "debt_to_asset"
	CheckCurrentRatio   = "current_ratio"
	CheckNetIncomeTrend = "net_income_trend"
	CheckPETrailing     = "pe_trailing"
	CheckPEForward      = "pe_forward"
	CheckPriceToBook    = "price_to_book"
	CheckDividend       = "dividend"
)

// Fields required before any check runs, in pre-check order.
const (
	FieldTotalDebt       = "total_debt"
	FieldTotalAssets     = "total_assets"
	FieldCurrentRatio    = "current_ratio"
	FieldPriceToBook     = "price_to_book"
	FieldLatestNetIncome = "latest_net_income"
	FieldNetIncomeSeries = "net_income_series"
	FieldEffectivePE     = "effective_pe"
)

var checkLabels = map[string]string{
	CheckRating:         "Rating",
	CheckDebtToAsset:    "Total Debt to Total Asset ratio",
	CheckCurrentRatio:   "Current Ratio",
	CheckNetIncomeTrend: "Net Income",
	CheckPETrailing:     "P/E (trailing)",
	CheckPEForward:      "P/E (forward)",
	CheckPriceToBook:    "Price to Book Value",
	CheckDividend:       "Dividend (forward)",
}

var fieldLabels = map[string]string{
	FieldTotalDebt:       "Total Debt",
	FieldTotalAssets:     "Total Assets",
	FieldCurrentRatio:    "Current Ratio",
	FieldPriceToBook:     "Price to Book Value ratio",
	FieldLatestNetIncome: "Net Income",
	FieldNetIncomeSeries: "Net Income series",
	FieldEffectivePE:     "P/E",
}

// FieldLabel returns a human readable name for a required field.
func FieldLabel(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

// CheckResult is the outcome of a single check.
// Value is the figure the check looked at, nil when it was not known.
type CheckResult struct {
	Name   string   `json:"name"`
	Label  string   `json:"label"`
	Passed bool     `json:"passed"`
	Value  *float64 `json:"value"`
	Detail string   `json:"detail,omitempty"`
}

// Verdict is the engine's decision for one company.
//
// For StatusIncomplete only MissingField is set and Checks is empty.
// Record is the record the checks ran against, including a substituted rating.
// EvaluatedAt is left zero by the engine and stamped by callers that store it.
type Verdict struct {
	Symbol        string             `json:"symbol"`
	Status        Status             `json:"status"`
	Checks        []CheckResult      `json:"checks"`
	MissingField  string             `json:"missing_field,omitempty"`
	RatingAssumed bool               `json:"rating_assumed"`
	Record        model.Fundamentals `json:"record"`
	EvaluatedAt   time.Time          `json:"evaluated_at"`
}

// Passed reports whether every check passed.
func (v Verdict) Passed() bool {
	return v.Status == StatusPass
}

// Failed returns the checks that did not pass.
func (v Verdict) Failed() []CheckResult {
	var failed []CheckResult
	for _, c := range v.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// FailedNames returns the names of the checks that did not pass.
func (v Verdict) FailedNames() []string {
	failed := v.Failed()
	names := make([]string, len(failed))
	for i, c := range failed {
		names[i] = c.Name
	}
	return names
}

// Check looks up a check result by name.
func (v Verdict) Check(name string) (CheckResult, bool) {
	for _, c := range v.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return CheckResult{}, false
}
