package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ivanjaven/extension/internal/services"
)

// ReportHandler provides the population report endpoints.
type ReportHandler struct {
	reports *services.ReportService
}

// NewReportHandler constructs a handler with the provided service.
func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ReportRouter registers report routes on the given router.
func ReportRouter(r chi.Router, reports *services.ReportService) {
	handler := NewReportHandler(reports)

	r.Get("/age", handler.ByAge)
	r.Get("/street", handler.ByStreet)
}

func (h *ReportHandler) ByAge(w http.ResponseWriter, r *http.Request) {
	counts, err := h.reports.PopulationByAge(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *ReportHandler) ByStreet(w http.ResponseWriter, r *http.Request) {
	counts, err := h.reports.PopulationByStreet(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
