package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrFundamentalsNotFound indicates that no cached fundamentals record exists for a symbol.
	ErrFundamentalsNotFound = errors.New("fundamentals not found")

	// ErrScreeningRunNotFound indicates that no stored results exist for a screening run ID.
	ErrScreeningRunNotFound = errors.New("screening run not found")

	// ErrUnknownSymbolList indicates that a named symbol directory does not exist.
	ErrUnknownSymbolList = errors.New("unknown symbol list")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidSymbol indicates that a ticker symbol is empty or malformed.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrNoSymbols indicates that a batch operation was given nothing to work on.
	ErrNoSymbols = errors.New("no symbols given")

	// ErrTooManySymbols indicates that a batch request exceeds the per-request limit.
	ErrTooManySymbols = errors.New("too many symbols")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// ErrFailedToFetchFundamentals wraps upstream (Yahoo, FMP) retrieval failures.
	ErrFailedToFetchFundamentals = errors.New("failed to fetch fundamentals")

	// ErrFailedToFetchSymbols wraps symbol directory download failures.
	ErrFailedToFetchSymbols = errors.New("failed to fetch symbol list")

	ErrFailedToRetrieveHistory = errors.New("failed to retrieve screening history")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrCorruptRecord indicates that a cached record could not be decoded.
	ErrCorruptRecord = errors.New("cached record is corrupt")
)
