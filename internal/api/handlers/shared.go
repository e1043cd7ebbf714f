package handlers

import (
	"net/http"

	"github.com/ndewijer/graham-screener/internal/api/response"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	response.RespondJSON(w, status, data)
}

// respondServiceError maps err to a status code and sends it as an error body.
func respondServiceError(w http.ResponseWriter, message string, err error) {
	response.RespondServiceError(w, message, err)
}
