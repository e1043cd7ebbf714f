package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/graham-screener/internal/service"
)

// SymbolHandler serves the exchange symbol directories.
type SymbolHandler struct {
	symbolService *service.SymbolService
}

// NewSymbolHandler creates a new SymbolHandler.
func NewSymbolHandler(symbolService *service.SymbolService) *SymbolHandler {
	return &SymbolHandler{
		symbolService: symbolService,
	}
}

// Lists returns the known list names.
//
// Endpoint: GET /api/symbols
func (h *SymbolHandler) Lists(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.symbolService.Lists())
}

// Directory returns the symbols of one list.
//
// Endpoint: GET /api/symbols/{list}
// Response: 200 OK with array of symbols
// Error: 404 for an unknown list, 502 when the download fails
func (h *SymbolHandler) Directory(w http.ResponseWriter, r *http.Request) {
	syms, err := h.symbolService.Directory(r.Context(), chi.URLParam(r, "list"))
	if err != nil {
		respondServiceError(w, "failed to fetch symbol list", err)
		return
	}
	respondJSON(w, http.StatusOK, syms)
}
