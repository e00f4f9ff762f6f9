package handler

import (
	"net/http"

	"github.com/Lllllllleong/intelliask/internal/models"
)

// Health reports that the process is up. It does not probe the OCR or inference services.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Message: "IntelliAsk backend is running",
	})
}
