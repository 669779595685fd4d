// Package api provides HTTP API handlers for the mine monitoring service.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"minewatch/internal/store"
)

// DefaultListLimit bounds list responses when no limit is given.
const DefaultListLimit = 100

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// parseLimit reads the limit query parameter, falling back to the
// default when absent or invalid.
func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return DefaultListLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

// DetectionsHandler serves stored detection records.
type DetectionsHandler struct {
	store *store.Store
}

// NewDetectionsHandler creates a DetectionsHandler backed by the given store.
func NewDetectionsHandler(s *store.Store) *DetectionsHandler {
	return &DetectionsHandler{store: s}
}

// ServeHTTP handles GET /api/detections with optional module and limit
// query parameters.
func (h *DetectionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := parseLimit(r)
	module := r.URL.Query().Get("module")

	var (
		records interface{}
		err     error
	)
	if module != "" {
		records, err = h.store.Detections().ListByModule(module, limit)
	} else {
		records, err = h.store.Detections().List(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list detections")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"detections": records})
}

// ViolationsHandler serves stored safety violations.
type ViolationsHandler struct {
	store *store.Store
}

// NewViolationsHandler creates a ViolationsHandler backed by the given store.
func NewViolationsHandler(s *store.Store) *ViolationsHandler {
	return &ViolationsHandler{store: s}
}

// ServeHTTP handles GET /api/violations.
func (h *ViolationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	violations, err := h.store.Violations().List(parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list violations")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"violations": violations})
}

// AlertsHandler serves stored alerts.
type AlertsHandler struct {
	store *store.Store
}

// NewAlertsHandler creates an AlertsHandler backed by the given store.
func NewAlertsHandler(s *store.Store) *AlertsHandler {
	return &AlertsHandler{store: s}
}

// ServeHTTP handles GET /api/alerts.
func (h *AlertsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	alerts, err := h.store.Alerts().List(parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list alerts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"alerts": alerts})
}
