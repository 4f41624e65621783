// internal/server/handlers/reports.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jessicalanggg/trendlytics/internal/adapter/storage"
)

// ReportHandler handles report retrieval HTTP requests
type ReportHandler struct {
	store *storage.ReportStore
}

// NewReportHandler creates a new report handler
func NewReportHandler(store *storage.ReportStore) *ReportHandler {
	return &ReportHandler{
		store: store,
	}
}

// ListReports returns recent reports, newest first
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	platform := r.URL.Query().Get("platform")

	reports, err := h.store.ListReports(r.Context(), platform, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list reports", err)
		return
	}

	respondWithJSON(w, http.StatusOK, reports)
}

// GetReport returns a specific report by ID
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing report ID", nil)
		return
	}

	report, err := h.store.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Report not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get report", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}
	if err != nil {
		response["detail"] = err.Error()
	}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
