// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/graham-screener/internal/api/response"
	"github.com/ndewijer/graham-screener/internal/validation"
)

// ValidateUUIDMiddleware validates that the uuid URL parameter is present and is a valid UUID.
// Returns 400 Bad Request if the ID is missing or invalid.
//
// Example usage in router:
//
//	r.Route("/runs/{uuid}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUUIDMiddleware)
//	    r.Get("/", handler.Run)
//	})
func ValidateUUIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		UUID := chi.URLParam(r, "uuid")

		if UUID == "" {
			response.RespondError(w, http.StatusBadRequest, "valid UUID is required", "")
			return
		}

		if err := validation.ValidateUUID(UUID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ValidateSymbolMiddleware validates the symbol URL parameter.
// Returns 400 Bad Request if the symbol is missing or malformed.
func ValidateSymbolMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")

		if symbol == "" {
			response.RespondError(w, http.StatusBadRequest, "symbol is required", "")
			return
		}

		if err := validation.ValidateSymbol(symbol); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid symbol", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
