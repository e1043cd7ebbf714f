package validation

import (
	"fmt"

	"github.com/ndewijer/graham-screener/internal/api/request"
	"github.com/ndewijer/graham-screener/internal/symbols"
)

// MaxBatchSymbols is the largest batch accepted by a single screen request.
const MaxBatchSymbols = 100

// ValidateScreenRequest checks a batch screen request.
func ValidateScreenRequest(req request.ScreenRequest) error {
	errors := make(map[string]string)

	switch {
	case len(req.Symbols) == 0:
		errors["symbols"] = "at least one symbol is required"
	case len(req.Symbols) > MaxBatchSymbols:
		errors["symbols"] = fmt.Sprintf("at most %d symbols per request", MaxBatchSymbols)
	default:
		for i, s := range req.Symbols {
			if _, err := symbols.Normalize(s); err != nil {
				errors[fmt.Sprintf("symbols[%d]", i)] = fmt.Sprintf("invalid symbol %q", s)
			}
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
