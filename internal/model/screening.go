package model

import "time"

// ScreeningResult is the stored summary of one verdict.
// Results written by the same batch share a RunID.
type ScreeningResult struct {
	ID            string    `json:"id"`
	RunID         string    `json:"run_id"`
	Symbol        string    `json:"symbol"`
	Status        string    `json:"status"`
	FailedChecks  []string  `json:"failed_checks"`
	MissingField  string    `json:"missing_field,omitempty"`
	RatingAssumed bool      `json:"rating_assumed"`
	EvaluatedAt   time.Time `json:"evaluated_at"`
}
