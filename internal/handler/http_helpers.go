package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Lllllllleong/intelliask/internal/models"
)

const (
	allowedOrigin  = "*"
	allowedMethods = "POST, OPTIONS"
	allowedHeaders = "Content-Type"
)

// setCORSHeaders marks a response as callable from any origin. rs/cors does the
// same for browser requests on the long-running server; the serverless and CGI
// transports rely on this alone.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
}

func writePreflight(w http.ResponseWriter) {
	setCORSHeaders(w)
	w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
	w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

// writeError writes the {error} body used for requests rejected before the pipeline.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, models.NewValidationErrorResponse(message))
}

// InitFailure answers every request with a pipeline failure for err. Transports
// use it when startup wiring failed.
func InitFailure(err error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			writePreflight(w)
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewPipelineErrorResponse(err.Error()))
	})
}
