package api

import (
	"net/http"

	"minewatch/internal/report"
	"minewatch/internal/store"
)

// ReportHandler builds and serves run reports.
type ReportHandler struct {
	builder *report.Builder
}

// NewReportHandler creates a ReportHandler backed by the given store.
func NewReportHandler(s *store.Store) *ReportHandler {
	return &ReportHandler{builder: report.NewBuilder(s)}
}

// ServeHTTP handles GET /api/report.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	rep, err := h.builder.Build(parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := rep.WriteJSON(w); err != nil {
		return
	}
}

// ExportHandler streams all detections as JSON lines.
type ExportHandler struct {
	builder *report.Builder
}

// NewExportHandler creates an ExportHandler backed by the given store.
func NewExportHandler(s *store.Store) *ExportHandler {
	return &ExportHandler{builder: report.NewBuilder(s)}
}

// ServeHTTP handles GET /api/export.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", `attachment; filename="detections.jsonl"`)
	w.WriteHeader(http.StatusOK)

	if err := h.builder.ExportJSONL(w); err != nil {
		// Headers are already sent, nothing more to do.
		return
	}
}
