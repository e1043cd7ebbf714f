package handlers

import (
	"net/http"

	"github.com/ndewijer/graham-screener/internal/service"
	"github.com/ndewijer/graham-screener/internal/version"
)

// SystemHandler serves liveness and build information.
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse is the body of GET /api/system/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
	Error    string `json:"error,omitempty"`
}

// Health reports whether the result store is reachable.
//
// Endpoint: GET /api/system/health
// Response: 200 OK when healthy, 503 Service Unavailable otherwise
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status:   "healthy",
		Database: "connected",
		Version:  version.Version,
	}
	status := http.StatusOK

	if err := h.systemService.CheckHealth(); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		resp.Error = err.Error()
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}

// Version returns the build, the schema version and the configured features.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with model.VersionInfo
// Error: 500 Internal Server Error if the schema version cannot be read
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	info, err := h.systemService.CheckVersion(r.Context())
	if err != nil {
		respondServiceError(w, "failed to get version information", err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}
