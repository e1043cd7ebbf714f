package validation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ndewijer/graham-screener/internal/apperrors"
	"github.com/ndewijer/graham-screener/internal/symbols"
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if id == "" {
		return apperrors.ErrEmptyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, id)
	}
	return nil
}

// ValidateSymbol checks that a ticker symbol is well formed.
func ValidateSymbol(symbol string) error {
	_, err := symbols.Normalize(symbol)
	return err
}
