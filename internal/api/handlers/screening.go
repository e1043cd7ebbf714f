package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/graham-screener/internal/api/request"
	"github.com/ndewijer/graham-screener/internal/api/response"
	"github.com/ndewijer/graham-screener/internal/screening"
	"github.com/ndewijer/graham-screener/internal/service"
	"github.com/ndewijer/graham-screener/internal/validation"
)

// ScreeningHandler handles HTTP requests for screening endpoints.
// It parses requests and delegates to the screeningService.
type ScreeningHandler struct {
	screeningService *service.ScreeningService
}

// NewScreeningHandler creates a new ScreeningHandler.
func NewScreeningHandler(screeningService *service.ScreeningService) *ScreeningHandler {
	return &ScreeningHandler{
		screeningService: screeningService,
	}
}

// BatchResult is one entry of a BatchResponse. Exactly one of Verdict and
// Error is set.
type BatchResult struct {
	Symbol  string             `json:"symbol"`
	Verdict *screening.Verdict `json:"verdict,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// BatchResponse is the response of a batch screen.
type BatchResponse struct {
	RunID   string        `json:"run_id"`
	Results []BatchResult `json:"results"`
}

// Criteria returns the thresholds in use.
//
// Endpoint: GET /api/screen/criteria
func (h *ScreeningHandler) Criteria(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.screeningService.Criteria())
}

// Screen screens a single symbol.
//
// Endpoint: GET /api/screen/{symbol}?force=true
// Response: 200 OK with screening.Verdict
// Error: 400 for malformed input, 502 when the data sources fail
func (h *ScreeningHandler) Screen(w http.ResponseWriter, r *http.Request) {
	force, err := request.ParseForce(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameter", err.Error())
		return
	}

	verdict, err := h.screeningService.Screen(r.Context(), chi.URLParam(r, "symbol"), force)
	if err != nil {
		respondServiceError(w, "failed to screen symbol", err)
		return
	}
	respondJSON(w, http.StatusOK, verdict)
}

// ScreenBatch screens every symbol of the request body. Symbols that cannot be
// loaded are reported per entry and do not fail the request.
//
// Endpoint: POST /api/screen
// Request: request.ScreenRequest
// Response: 200 OK with BatchResponse
// Error: 400 for an invalid body
func (h *ScreeningHandler) ScreenBatch(w http.ResponseWriter, r *http.Request) {
	req, err := request.DecodeScreenRequest(w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateScreenRequest(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	batch, err := h.screeningService.ScreenAll(r.Context(), req.Symbols, req.Force)
	if err != nil {
		respondServiceError(w, "failed to screen symbols", err)
		return
	}

	resp := BatchResponse{
		RunID:   batch.RunID,
		Results: make([]BatchResult, len(batch.Results)),
	}
	for i, res := range batch.Results {
		resp.Results[i].Symbol = res.Symbol
		if res.Err != nil {
			resp.Results[i].Error = res.Err.Error()
			continue
		}
		v := res.Verdict
		resp.Results[i].Verdict = &v
	}
	respondJSON(w, http.StatusOK, resp)
}

// History returns the stored results of a symbol, newest first.
//
// Endpoint: GET /api/screen/history/{symbol}?limit=10
// Response: 200 OK with array of model.ScreeningResult
func (h *ScreeningHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, err := request.ParseLimit(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameter", err.Error())
		return
	}

	results, err := h.screeningService.History(r.Context(), chi.URLParam(r, "symbol"), limit)
	if err != nil {
		respondServiceError(w, "failed to retrieve screening history", err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// Run returns the stored results of one batch.
//
// Endpoint: GET /api/screen/runs/{uuid}
// Response: 200 OK with array of model.ScreeningResult
// Error: 404 when the run is unknown
func (h *ScreeningHandler) Run(w http.ResponseWriter, r *http.Request) {
	results, err := h.screeningService.Run(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, "failed to retrieve screening run", err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}
