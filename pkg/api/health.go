package api

import (
	"net/http"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HandleHealth handles GET requests to the health check endpoint. It answers
// 503 when the document store cannot be reached.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.EnsureReachable(r.Context()); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "unhealthy",
			Message: err.Error(),
		})
		return
	}

	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Message: "go-catalog is running",
	})
}
