package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/graham-screener/internal/api/request"
	"github.com/ndewijer/graham-screener/internal/api/response"
	"github.com/ndewijer/graham-screener/internal/service"
)

// FundamentalsHandler handles HTTP requests for fundamentals records.
type FundamentalsHandler struct {
	fundamentalsService *service.FundamentalsService
}

// NewFundamentalsHandler creates a new FundamentalsHandler.
func NewFundamentalsHandler(fundamentalsService *service.FundamentalsService) *FundamentalsHandler {
	return &FundamentalsHandler{
		fundamentalsService: fundamentalsService,
	}
}

// Cached lists the symbols with a stored record.
//
// Endpoint: GET /api/fundamentals
// Response: 200 OK with array of symbols
func (h *FundamentalsHandler) Cached(w http.ResponseWriter, r *http.Request) {
	syms, err := h.fundamentalsService.Cached(r.Context())
	if err != nil {
		respondServiceError(w, "failed to list cached symbols", err)
		return
	}
	respondJSON(w, http.StatusOK, syms)
}

// Fundamentals returns the record of one symbol, fetching it when it is not
// stored yet or when force=true is given.
//
// Endpoint: GET /api/fundamentals/{symbol}?force=true
// Response: 200 OK with model.Fundamentals
// Error: 400 for a malformed symbol or force value, 502 when the data sources fail
func (h *FundamentalsHandler) Fundamentals(w http.ResponseWriter, r *http.Request) {
	force, err := request.ParseForce(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameter", err.Error())
		return
	}

	rec, err := h.fundamentalsService.Load(r.Context(), chi.URLParam(r, "symbol"), force)
	if err != nil {
		respondServiceError(w, "failed to load fundamentals", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}
