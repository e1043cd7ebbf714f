// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses and standardized error responses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/graham-screener/internal/apperrors"
	"github.com/ndewijer/graham-screener/internal/validation"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Sets the Content-Type header to application/json and writes the status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
// The details parameter can be an error string, additional context, or nil.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
//	response.RespondError(w, http.StatusNotFound, "resource not found", "")
func RespondError(w http.ResponseWriter, status int, message string, details interface{}) {
	response := ErrorResponse{
		Error:   message,
		Details: details,
	}
	RespondJSON(w, status, response)
}

// ErrorStatus maps an error returned by the service layer to an HTTP status.
//
//   - validation failures and malformed input: 400
//   - unknown symbols, lists and runs: 404
//   - upstream data source failures: 502
//   - everything else: 500
func ErrorStatus(err error) int {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr),
		errors.Is(err, apperrors.ErrInvalidSymbol),
		errors.Is(err, apperrors.ErrInvalidUUID),
		errors.Is(err, apperrors.ErrEmptyID),
		errors.Is(err, apperrors.ErrNoSymbols),
		errors.Is(err, apperrors.ErrTooManySymbols):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrFundamentalsNotFound),
		errors.Is(err, apperrors.ErrScreeningRunNotFound),
		errors.Is(err, apperrors.ErrUnknownSymbolList):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrFailedToFetchFundamentals),
		errors.Is(err, apperrors.ErrFailedToFetchSymbols):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// RespondServiceError sends err with the status chosen by ErrorStatus.
// Field level validation errors are returned as details.
func RespondServiceError(w http.ResponseWriter, message string, err error) {
	status := ErrorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg(message)
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		RespondError(w, status, message, verr.Fields)
		return
	}
	RespondError(w, status, message, err.Error())
}
